// seed carga el administrador inicial y los lookups del catálogo (tipos, marcas, tallas, colores)
// en PostgreSQL a partir de un CSV con columnas recurso,nombre,hex_code.
//
// Uso: go run ./cmd/seed [-latin1] [ruta/catalogo.csv]
// Sin ruta solo se cargan los valores por defecto. -latin1 acepta exportaciones de Excel en ISO-8859-1.
// El administrador se toma de ADMIN_NAME, ADMIN_EMAIL y ADMIN_PASSWORD.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/application/usecase"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/postgres"
	"github.com/jhoicas/urbanstyle-admin/pkg/config"
	"github.com/jhoicas/urbanstyle-admin/pkg/logger"
)

// defaults lookups mínimos para dar de alta la primera prenda.
var defaults = map[entity.CatalogResource][]dto.CreateCatalogEntryRequest{
	entity.ResourceTypes:  {{Name: "Playera"}, {Name: "Pantalón"}, {Name: "Sudadera"}, {Name: "Chamarra"}},
	entity.ResourceBrands: {{Name: "UrbanStyle"}},
	entity.ResourceSizes:  {{Name: "XS"}, {Name: "S"}, {Name: "M"}, {Name: "L"}, {Name: "XL"}},
	entity.ResourceColors: {
		{Name: "Negro", HexCode: "#000000"},
		{Name: "Blanco", HexCode: "#FFFFFF"},
		{Name: "Verde azulado", HexCode: "#008080"},
	},
}

func main() {
	latin1 := flag.Bool("latin1", false, "el CSV está codificado en ISO-8859-1")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	entries := defaults
	if path := flag.Arg(0); path != "" {
		entries, err = readCSV(path, *latin1)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("leer CSV")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	catalogUC := usecase.NewCatalogUseCase(postgres.NewCatalogRepository(pool))
	for _, res := range entity.CatalogResources {
		n, err := catalogUC.Seed(ctx, string(res), entries[res])
		if err != nil {
			log.Fatal().Err(err).Str("resource", string(res)).Msg("sembrar catálogo")
		}
		log.Info().Str("resource", string(res)).Int("created", n).Int("total", len(entries[res])).Msg("catálogo")
	}

	if cfg.Bootstrap.AdminEmail == "" {
		log.Warn().Msg("ADMIN_EMAIL vacío: no se crea administrador")
		return
	}
	userUC := usecase.NewUserUseCase(postgres.NewUserRepository(pool))
	created, err := userUC.EnsureAdmin(ctx, cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Str("email", cfg.Bootstrap.AdminEmail).Bool("created", created).Msg("administrador")
}

// readCSV lee filas recurso,nombre[,hex_code]. Una primera fila con "recurso" se trata como encabezado.
func readCSV(path string, latin1 bool) (map[entity.CatalogResource][]dto.CreateCatalogEntryRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if latin1 {
		r = transform.NewReader(f, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	out := make(map[entity.CatalogResource][]dto.CreateCatalogEntryRequest)
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "recurso") {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("línea %d: se esperan al menos 2 columnas", line)
		}
		res, ok := entity.ParseCatalogResource(strings.ToLower(strings.TrimSpace(rec[0])))
		if !ok {
			return nil, fmt.Errorf("línea %d: recurso desconocido %q", line, rec[0])
		}
		in := dto.CreateCatalogEntryRequest{Name: strings.TrimSpace(rec[1])}
		if len(rec) > 2 {
			in.HexCode = strings.TrimSpace(rec[2])
		}
		out[res] = append(out[res], in)
	}
	return out, nil
}
