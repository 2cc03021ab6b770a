// admin es el panel de administración de UrbanStyle en línea de comandos.
//
// Uso: admin <comando> [flags]
//
// La sesión se guarda en SESSION_FILE y el backend se toma de API_BASE_URL.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/jhoicas/urbanstyle-admin/internal/client"
	"github.com/jhoicas/urbanstyle-admin/pkg/config"
	"github.com/jhoicas/urbanstyle-admin/pkg/logger"
)

// app dependencias compartidas por los comandos.
type app struct {
	cfg *config.Config
	api *client.Client
	log *logger.Logger
}

type command struct {
	help string
	run  func(ctx context.Context, a *app, args []string) error
}

var commands = map[string]command{
	"login":    {"inicia sesión: -email -password", runLogin},
	"logout":   {"cierra la sesión local", runLogout},
	"whoami":   {"muestra el usuario de la sesión", runWhoami},
	"register": {"crea una cuenta de cliente: -name -email -password", runRegister},
	"products": {"catálogo: list [-page] | get -id | delete -id | save [-id] ...", runProducts},
	"catalog":  {"lookups: list <recurso> | add <recurso> -name [-hex]", runCatalog},
	"sale":     {"registra una venta: -cliente ID -item ID[:cantidad] ...", runSale},
	"sales":    {"listados de ventas: all | mine | purchases", runSales},
	"report":   {"reporte de ventas: [-ticket YYYY-MM-DD [-out dir] [-remote]]", runReport},
	"users":    {"usuarios: list | create | update -id | delete -id", runUsers},
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	name := os.Args[1]
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "comando desconocido %q\n", name)
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: "development", Level: cfg.App.LogLevel, Service: "admin", Out: os.Stderr})

	session, err := client.NewSession(client.NewFileStore(cfg.Client.SessionFile))
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Client.SessionFile).Msg("sesión guardada ilegible, se ignora")
	}
	a := &app{cfg: cfg, api: client.New(cfg.Client, session, log), log: log}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.run(ctx, a, os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, client.UserMessage(err))
		if client.IsSessionExpired(err) {
			_ = a.api.Logout()
		}
		var verr *client.ValidationError
		if errors.As(err, &verr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func usage() {
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Fprintln(os.Stderr, "Uso: admin <comando> [flags]")
	for _, n := range names {
		fmt.Fprintf(os.Stderr, "  %-9s %s\n", n, commands[n].help)
	}
}

// requireRoute falla si el rol de la sesión no puede abrir route.
func (a *app) requireRoute(route string) error {
	user := a.api.Session().User()
	if user.Token == "" {
		return client.ErrUnauthorized
	}
	if !client.CanAccess(user.Role, route) {
		return client.ErrForbidden
	}
	return nil
}
