package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
)

// CartState etapa del armado de una venta.
type CartState int

const (
	CartEmpty       CartState = iota // sin líneas
	CartBuilding                     // con líneas, sin cliente
	CartSubmittable                  // con líneas y cliente
	CartSubmitted                    // venta enviada; el carrito quedó vacío
)

func (s CartState) String() string {
	switch s {
	case CartEmpty:
		return "empty"
	case CartBuilding:
		return "building"
	case CartSubmittable:
		return "submittable"
	case CartSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("CartState(%d)", int(s))
}

// CartLine línea del carrito con precio y subtotal tomados del catálogo actual.
type CartLine struct {
	ProductID int64
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

type cartItem struct {
	productID int64
	quantity  int
}

// Mensajes de la pantalla de venta.
const (
	msgSelectCustomer = "Selecciona un cliente"
	msgAddProduct     = "Agrega al menos un producto"
	msgSaleCreated    = "Venta creada con éxito"
	msgSaleFailed     = "No se pudo crear la venta"
	msgNotFound       = "Producto no encontrado"
	msgSearchFailed   = "Error al buscar producto por ID"
	msgInvalidID      = "Ingresa un ID de producto válido"
)

// ListClientes usuarios con rol cliente para el selector de la venta.
func (c *Client) ListClientes(ctx context.Context) ([]dto.UserResponse, error) {
	var out []dto.UserResponse
	if err := c.get(ctx, "/api/users/clientes", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSale registra una venta a nombre del usuario de la sesión.
func (c *Client) CreateSale(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	var out dto.SaleResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/ventas", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaleBuilder carrito de la pantalla "Crear Venta".
type SaleBuilder struct {
	c *Client

	mu         sync.Mutex
	catalog    []dto.ProductResponse
	byID       map[int64]dto.ProductResponse
	customers  []dto.UserResponse
	customerID string
	items      []cartItem
	submitted  bool
	message    string
}

func NewSaleBuilder(c *Client) *SaleBuilder {
	return &SaleBuilder{c: c, byID: make(map[int64]dto.ProductResponse)}
}

// Load carga en paralelo el catálogo de productos y la lista de clientes.
func (b *SaleBuilder) Load(ctx context.Context) error {
	var (
		products  []dto.ProductResponse
		customers []dto.UserResponse
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = b.c.ListAllProducts(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		customers, err = b.c.ListClientes(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.catalog = products
	b.byID = make(map[int64]dto.ProductResponse, len(products))
	for _, p := range products {
		b.byID[p.ID] = p
	}
	b.customers = customers
	// Las líneas cuyo producto desapareció del catálogo se descartan.
	kept := b.items[:0]
	for _, it := range b.items {
		if _, ok := b.byID[it.productID]; ok {
			kept = append(kept, it)
		}
	}
	b.items = kept
	return nil
}

func (b *SaleBuilder) Products() []dto.ProductResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]dto.ProductResponse(nil), b.catalog...)
}

func (b *SaleBuilder) Customers() []dto.UserResponse {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]dto.UserResponse(nil), b.customers...)
}

func (b *SaleBuilder) SelectCustomer(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.customerID = id
	b.submitted = false
}

func (b *SaleBuilder) Customer() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.customerID
}

// AddProduct agrega una unidad; si el producto ya está en el carrito incrementa su cantidad.
// Solo acepta productos del catálogo cargado; para otros ids usar SearchByID.
func (b *SaleBuilder) AddProduct(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.byID[id]; !ok {
		b.message = msgNotFound
		return false
	}
	b.addLocked(id)
	return true
}

func (b *SaleBuilder) addLocked(id int64) {
	b.submitted = false
	for i := range b.items {
		if b.items[i].productID == id {
			b.items[i].quantity++
			return
		}
	}
	b.items = append(b.items, cartItem{productID: id, quantity: 1})
}

// ChangeQuantity suma delta a la cantidad. Nunca baja de 1; para quitar la línea usar RemoveProduct.
func (b *SaleBuilder) ChangeQuantity(id int64, delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].productID == id {
			b.items[i].quantity = max(b.items[i].quantity+delta, 1)
			return
		}
	}
}

func (b *SaleBuilder) RemoveProduct(id int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.items[:0]
	for _, it := range b.items {
		if it.productID != id {
			out = append(out, it)
		}
	}
	b.items = out
}

// Lines líneas del carrito con precios del catálogo actual. Los productos que ya no
// están en el catálogo no se muestran ni suman.
func (b *SaleBuilder) Lines() []CartLine {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.linesLocked()
}

func (b *SaleBuilder) linesLocked() []CartLine {
	lines := make([]CartLine, 0, len(b.items))
	for _, it := range b.items {
		p, ok := b.byID[it.productID]
		if !ok {
			continue
		}
		lines = append(lines, CartLine{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  it.quantity,
			UnitPrice: p.SalePrice,
			Subtotal:  p.SalePrice.Mul(decimal.NewFromInt(int64(it.quantity))),
		})
	}
	return lines
}

// Total Σ sale_price × cantidad, recalculado en cada llamada.
func (b *SaleBuilder) Total() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	total := decimal.Zero
	for _, l := range b.linesLocked() {
		total = total.Add(l.Subtotal)
	}
	return total
}

func (b *SaleBuilder) State() CartState {
	b.mu.Lock()
	defer b.mu.Unlock()
	lines := len(b.linesLocked())
	switch {
	case lines == 0 && b.submitted:
		return CartSubmitted
	case lines == 0:
		return CartEmpty
	case b.customerID == "":
		return CartBuilding
	default:
		return CartSubmittable
	}
}

// Message texto de resultado de la última acción.
func (b *SaleBuilder) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message
}

func (b *SaleBuilder) setMessage(msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.message = msg
}

// SearchByID busca el producto en el servidor y lo agrega al carrito.
// Un producto inexistente devuelve ErrNotFound; un fallo de red devuelve el error de transporte.
func (b *SaleBuilder) SearchByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	if id <= 0 {
		b.setMessage(msgInvalidID)
		return nil, &ValidationError{Fields: map[string]string{"id": msgInvalidID}}
	}
	p, err := b.c.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			b.setMessage(msgNotFound)
		} else {
			b.setMessage(msgSearchFailed)
		}
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, known := b.byID[p.ID]; !known {
		b.catalog = append(b.catalog, *p)
	}
	b.byID[p.ID] = *p
	b.addLocked(p.ID)
	b.message = fmt.Sprintf("Producto %s agregado", p.Name)
	return p, nil
}

// Submit valida cliente y líneas antes de cualquier petición y registra la venta.
// En éxito vacía el carrito y el cliente; en error ambos se conservan.
func (b *SaleBuilder) Submit(ctx context.Context) (*dto.SaleResponse, error) {
	b.mu.Lock()
	b.message = ""
	if b.customerID == "" {
		b.message = msgSelectCustomer
		b.mu.Unlock()
		return nil, &ValidationError{Fields: map[string]string{"id_cliente": msgSelectCustomer}}
	}
	if len(b.items) == 0 {
		b.message = msgAddProduct
		b.mu.Unlock()
		return nil, &ValidationError{Fields: map[string]string{"items": msgAddProduct}}
	}
	req := dto.CreateSaleRequest{ClienteID: b.customerID, Total: decimal.Zero}
	for _, it := range b.items {
		p, ok := b.byID[it.productID]
		if !ok {
			b.message = fmt.Sprintf("El producto %d ya no está en el catálogo", it.productID)
			b.mu.Unlock()
			return nil, &ValidationError{Fields: map[string]string{"items": b.message}}
		}
		req.Items = append(req.Items, dto.SaleItemRequest{ProductID: p.ID, Quantity: it.quantity, Price: p.SalePrice})
		req.Total = req.Total.Add(p.SalePrice.Mul(decimal.NewFromInt(int64(it.quantity))))
	}
	b.mu.Unlock()

	sale, err := b.c.CreateSale(ctx, req)
	if err != nil {
		var apiErr *APIError
		switch {
		case errors.As(err, &apiErr) && apiErr.Message != "":
			b.setMessage("Error: " + apiErr.Message)
		case errors.As(err, &apiErr):
			b.setMessage("Error: " + apiErr.Detail())
		case errors.Is(err, ErrConnection):
			b.setMessage(UserMessage(err))
		default:
			b.setMessage("Error: " + msgSaleFailed)
		}
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.customerID = ""
	b.items = nil
	b.submitted = true
	b.message = msgSaleCreated
	return sale, nil
}
