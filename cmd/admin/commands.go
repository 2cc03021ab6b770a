package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/client"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/urbanstyle-admin/pkg/money"
)

// listFlag flag repetible (-image a.png -image b.png).
type listFlag []string

func (l *listFlag) String() string     { return strings.Join(*l, ",") }
func (l *listFlag) Set(v string) error { *l = append(*l, v); return nil }

func newFlags(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

func table() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
}

func subcommand(args []string) (string, []string) {
	if len(args) == 0 {
		return "", nil
	}
	return args[0], args[1:]
}

func runLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlags("login")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "contraseña")
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := a.api.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Bienvenido, %s (%s). Inicio: %s\n", data.Name, data.Role, client.Home(data.Role))
	return nil
}

func runLogout(_ context.Context, a *app, _ []string) error {
	if err := a.api.Logout(); err != nil {
		return err
	}
	fmt.Println("Sesión cerrada.")
	return nil
}

func runWhoami(_ context.Context, a *app, _ []string) error {
	user := a.api.Session().User()
	if user.Token == "" {
		fmt.Println("Sin sesión.")
		return nil
	}
	fmt.Printf("%s\t%s\t%s\n", user.UserID, user.Name, user.Role)
	return nil
}

func runRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlags("register")
	name := fs.String("name", "", "nombre")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "contraseña (mínimo 9 caracteres)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	user, err := a.api.Register(ctx, client.RegisterForm{Name: *name, Email: *email, Password: *password})
	if err != nil {
		return err
	}
	fmt.Printf("Cuenta creada: %s (%s). Inicia sesión con admin login.\n", user.Email, user.Role)
	return nil
}

func runProducts(ctx context.Context, a *app, args []string) error {
	if err := a.requireRoute(client.RouteProducts); err != nil {
		return err
	}
	sub, rest := subcommand(args)
	switch sub {
	case "", "list":
		fs := newFlags("products list")
		page := fs.Int("page", 1, "página")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		browser := client.NewCatalogBrowser(a.api)
		res, err := browser.FetchPage(ctx, *page)
		if err != nil {
			return err
		}
		w := table()
		fmt.Fprintln(w, "ID\tNOMBRE\tTIPO\tMARCA\tTALLA\tCOLOR\tGÉNERO\tCOMPRA\tVENTA\tIMAGEN")
		for _, p := range res.Items {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Type, p.Brand, p.Size, p.Color,
				p.Gender, money.MXN(p.PurchasePrice), money.MXN(p.SalePrice), p.PrimaryImageURL)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Printf("Página %d de %d\n", res.CurrentPage, res.LastPage)
		return nil

	case "get", "delete":
		fs := newFlags("products " + sub)
		id := fs.Int64("id", 0, "id del producto")
		if err := fs.Parse(rest); err != nil {
			return err
		}
		if sub == "delete" {
			if err := client.NewCatalogBrowser(a.api).Delete(ctx, *id); err != nil {
				return err
			}
			fmt.Println("Producto eliminado.")
			return nil
		}
		p, err := a.api.GetProduct(ctx, *id)
		if err != nil {
			return err
		}
		row := client.ToProductRow(*p)
		fmt.Printf("%d %s | %s | %s | %s | %s | %s | %s\n", row.ID, row.Name, row.Type, row.Brand, row.Size, row.Color,
			money.MXN(row.SalePrice), row.PrimaryImageURL)
		return nil

	case "save":
		return saveProduct(ctx, a, rest)
	}
	return fmt.Errorf("products: subcomando desconocido %q", sub)
}

func saveProduct(ctx context.Context, a *app, args []string) error {
	fs := newFlags("products save")
	id := fs.Int64("id", 0, "id a editar (vacío para alta)")
	name := fs.String("name", "", "nombre")
	typeID := fs.Int64("type", 0, "id de tipo")
	brandID := fs.Int64("brand", 0, "id de marca")
	sizeID := fs.Int64("size", 0, "id de talla")
	colorID := fs.Int64("color", 0, "id de color")
	gender := fs.String("gender", entity.GenderUnisex, "unisex|male|female")
	purchase := fs.String("purchase", "", "precio de compra")
	sale := fs.String("sale", "", "precio de venta")
	primary := fs.Int("primary", 0, "índice de la imagen principal")
	var images listFlag
	fs.Var(&images, "image", "ruta de imagen (repetible)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	form := client.NewProductForm(a.api, nil)
	if *id != 0 {
		p, err := a.api.GetProduct(ctx, *id)
		if err != nil {
			return err
		}
		form.LoadForEdit(client.ToProductRow(*p))
	}
	fields := form.Fields()
	if *name != "" {
		fields.Name = *name
	}
	if *purchase != "" {
		fields.PurchasePrice = *purchase
	}
	if *sale != "" {
		fields.SalePrice = *sale
	}
	fields.TypeID, fields.BrandID, fields.SizeID, fields.ColorID = *typeID, *brandID, *sizeID, *colorID
	fields.Gender = *gender
	fields.PrimaryIndex = *primary
	form.SetFields(fields)

	files := make([]client.ImageFile, 0, len(images))
	for _, path := range images {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("leer imagen %s: %w", path, err)
		}
		files = append(files, client.ImageFile{Filename: filepath.Base(path), Content: b})
	}
	form.SetFiles(files)

	p, err := form.Submit(ctx)
	if err != nil {
		var verr *client.ValidationError
		if !errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, form.Message())
		}
		return err
	}
	fmt.Printf("%s ID %d\n", form.Message(), p.ID)
	return nil
}

func parseResource(s string) (entity.CatalogResource, error) {
	res, ok := entity.ParseCatalogResource(s)
	if !ok {
		return "", fmt.Errorf("recurso desconocido %q (types|brands|sizes|colors)", s)
	}
	return res, nil
}

func runCatalog(ctx context.Context, a *app, args []string) error {
	sub, rest := subcommand(args)
	if len(rest) == 0 {
		return errors.New("catalog: falta el recurso (types|brands|sizes|colors)")
	}
	res, err := parseResource(rest[0])
	if err != nil {
		return err
	}
	sel := client.NewCatalogSelect(client.NewLookupManager(a.api), res)

	switch sub {
	case "list":
		if err := sel.Load(ctx); err != nil {
			return err
		}
	case "add":
		if err := a.requireRoute(client.RouteProducts); err != nil {
			return err
		}
		fs := newFlags("catalog add")
		name := fs.String("name", "", "nombre")
		hex := fs.String("hex", client.DefaultHexCode, "color #RRGGBB (solo colors)")
		if err := fs.Parse(rest[1:]); err != nil {
			return err
		}
		sel.StartAdd()
		sel.SetDraft(*name, *hex)
		id, err := sel.Save(ctx)
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) {
				return fmt.Errorf("no se pudo crear. %s", apiErr.Detail())
			}
			return err
		}
		if id == 0 {
			return errors.New("catalog: el nombre es obligatorio")
		}
	default:
		return fmt.Errorf("catalog: subcomando desconocido %q", sub)
	}

	w := table()
	fmt.Fprintln(w, "\tID\tNOMBRE\tHEX")
	for _, o := range sel.Options() {
		mark := ""
		if o.ID == sel.Selected() {
			mark = "*"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", mark, o.ID, o.Name, o.HexCode)
	}
	return w.Flush()
}

func runSale(ctx context.Context, a *app, args []string) error {
	if err := a.requireRoute(client.RouteCreateSale); err != nil {
		return err
	}
	fs := newFlags("sale")
	cliente := fs.String("cliente", "", "id del cliente")
	var items listFlag
	fs.Var(&items, "item", "ID[:cantidad] del producto (repetible)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	b := client.NewSaleBuilder(a.api)
	if err := b.Load(ctx); err != nil {
		return err
	}
	b.SelectCustomer(*cliente)
	for _, it := range items {
		idStr, qtyStr, _ := strings.Cut(it, ":")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return fmt.Errorf("item inválido %q", it)
		}
		qty := 1
		if qtyStr != "" {
			if qty, err = strconv.Atoi(qtyStr); err != nil {
				return fmt.Errorf("cantidad inválida %q", it)
			}
		}
		if !known(b, id) {
			if _, err := b.SearchByID(ctx, id); err != nil {
				fmt.Fprintln(os.Stderr, b.Message())
				return err
			}
		} else {
			b.AddProduct(id)
		}
		b.ChangeQuantity(id, qty-1)
	}

	w := table()
	fmt.Fprintln(w, "ID\tPRODUCTO\tCANTIDAD\tPRECIO\tSUBTOTAL")
	for _, l := range b.Lines() {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", l.ProductID, l.Name, l.Quantity, money.MXN(l.UnitPrice), money.MXN(l.Subtotal))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("Total de la venta: %s\n", money.MXN(b.Total()))

	sale, err := b.Submit(ctx)
	fmt.Println(b.Message())
	if err != nil {
		return err
	}
	fmt.Printf("Venta %s registrada por %s\n", sale.ID, money.MXN(sale.Total))
	return nil
}

func known(b *client.SaleBuilder, id int64) bool {
	for _, p := range b.Products() {
		if p.ID == id {
			return true
		}
	}
	return false
}

func runSales(ctx context.Context, a *app, args []string) error {
	sub, _ := subcommand(args)
	var (
		rows []client.SaleRow
		err  error
	)
	switch sub {
	case "all":
		if err := a.requireRoute(client.RouteSalesAll); err != nil {
			return err
		}
		rows, err = a.api.ListAllSales(ctx)
	case "", "mine":
		if err := a.requireRoute(client.RouteMySales); err != nil {
			return err
		}
		rows, err = a.api.ListMySales(ctx)
	case "purchases":
		if err := a.requireRoute(client.RouteMyPurchases); err != nil {
			return err
		}
		rows, err = a.api.ListMyPurchases(ctx)
	default:
		return fmt.Errorf("sales: subcomando desconocido %q", sub)
	}
	if err != nil {
		return err
	}
	w := table()
	fmt.Fprintln(w, "ID\tFECHA\tCLIENTE\tVENDEDOR\tPRODUCTOS\tTOTAL")
	for _, s := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", s.ID, s.Fecha.Format("2006-01-02 15:04"), s.Cliente.Name, s.Vendedor.Name,
			s.Items, money.MXN(s.Total))
	}
	return w.Flush()
}

func runReport(ctx context.Context, a *app, args []string) error {
	if err := a.requireRoute(client.RouteReport); err != nil {
		return err
	}
	fs := newFlags("report")
	ticket := fs.String("ticket", "", "genera el ticket del día YYYY-MM-DD")
	out := fs.String("out", ".", "directorio de salida del ticket")
	remote := fs.Bool("remote", false, "descarga el ticket generado por el servidor")
	if err := fs.Parse(args); err != nil {
		return err
	}

	view := client.NewReportView(a.api, pdf.NewTicketGenerator(), a.cfg.App.StoreName)
	if *ticket != "" && *remote {
		return writeTicket(view.DownloadTicket(ctx, *ticket))(*out)
	}
	if _, err := view.Load(ctx); err != nil {
		return err
	}
	if *ticket != "" {
		return writeTicket(view.GenerateDailyTicket(ctx, *ticket))(*out)
	}

	totals, err := view.Totals()
	if err != nil {
		return err
	}
	fmt.Printf("Ventas: %d  Items: %d  Ingresos: %s  Ganancias: %s\n\n", totals.Ventas, totals.Items, totals.Ingresos, totals.Ganancias)

	days, _ := view.DayRows()
	printFigures("FECHA", days)
	users, _ := view.UserRows()
	printFigures("VENDEDOR", users)

	top, _ := view.TopProductRows()
	w := table()
	fmt.Fprintln(w, "ID\tPRODUCTO\tCANTIDAD\tINGRESOS\tGANANCIAS")
	for _, p := range top {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", p.ProductID, p.Descripcion, p.Cantidad, p.Ingresos, p.Ganancias)
	}
	return w.Flush()
}

func printFigures(header string, rows []client.FigureRow) {
	w := table()
	fmt.Fprintf(w, "%s\tVENTAS\tITEMS\tINGRESOS\tGANANCIAS\n", header)
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\n", r.Key, r.Ventas, r.Items, r.Ingresos, r.Ganancias)
	}
	_ = w.Flush()
	fmt.Println()
}

// writeTicket guarda el PDF en dir con su nombre Ticket_<fecha>.pdf.
func writeTicket(b []byte, name string, err error) func(dir string) error {
	return func(dir string) error {
		if err != nil {
			return err
		}
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, b, 0o644); err != nil {
			return err
		}
		fmt.Printf("Ticket guardado en %s\n", path)
		return nil
	}
}

func runUsers(ctx context.Context, a *app, args []string) error {
	if err := a.requireRoute(client.RouteUsers); err != nil {
		return err
	}
	sub, rest := subcommand(args)
	fs := newFlags("users " + sub)
	id := fs.String("id", "", "id del usuario")
	name := fs.String("name", "", "nombre")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "contraseña (vacía conserva la actual al editar)")
	role := fs.String("role", entity.RoleCliente, "cliente|vendedor|admin")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	switch sub {
	case "", "list":
		users, err := a.api.ListUsers(ctx)
		if err != nil {
			return err
		}
		w := table()
		fmt.Fprintln(w, "ID\tNOMBRE\tEMAIL\tROL")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
		}
		return w.Flush()
	case "create":
		u, err := a.api.CreateUser(ctx, dto.CreateUserRequest{Name: *name, Email: *email, Password: *password, Role: *role})
		if err != nil {
			return err
		}
		fmt.Printf("Usuario creado: %s\n", u.ID)
		return nil
	case "update":
		u, err := a.api.UpdateUser(ctx, *id, dto.UpdateUserRequest{Name: *name, Email: *email, Password: *password, Role: *role})
		if err != nil {
			return err
		}
		fmt.Printf("Usuario actualizado: %s\n", u.ID)
		return nil
	case "delete":
		if err := a.api.DeleteUser(ctx, *id); err != nil {
			return err
		}
		fmt.Println("Usuario eliminado.")
		return nil
	}
	return fmt.Errorf("users: subcomando desconocido %q", sub)
}
