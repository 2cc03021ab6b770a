package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/urbanstyle-admin/internal/domain"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo prendas e imágenes en memoria.
type ProductRepo struct {
	s *Store
}

func (r *ProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.refsExist(p) {
		return domain.ErrInvalidInput
	}
	p.ID = r.s.nextID()
	r.s.products[p.ID] = bare(p)
	return nil
}

func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return r.hydrate(p), nil
}

func (r *ProductRepo) Update(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.products[p.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if !r.refsExist(p) {
		return domain.ErrInvalidInput
	}
	next := bare(p)
	next.CreatedAt = current.CreatedAt
	r.s.products[p.ID] = next
	return nil
}

// List filtra, ordena por ID descendente y pagina.
func (r *ProductRepo) List(_ context.Context, f repository.ProductFilter, limit, offset int) ([]*entity.Product, int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	q := strings.ToLower(f.Query)
	matched := []entity.Product{}
	for _, p := range r.s.products {
		switch {
		case f.TypeID > 0 && p.TypeID != f.TypeID,
			f.BrandID > 0 && p.BrandID != f.BrandID,
			f.SizeID > 0 && p.SizeID != f.SizeID,
			f.ColorID > 0 && p.ColorID != f.ColorID,
			f.Gender != "" && p.Gender != f.Gender,
			q != "" && !strings.Contains(strings.ToLower(p.Name), q):
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	out := make([]*entity.Product, 0, end-offset)
	for _, p := range matched[offset:end] {
		out = append(out, r.hydrate(p))
	}
	return out, total, nil
}

// AddImages agrega al final; una imagen primaria nueva desmarca las anteriores.
func (r *ProductRepo) AddImages(_ context.Context, productID int64, images []entity.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[productID]; !ok {
		return domain.ErrProductNotFound
	}
	existing := r.s.images[productID]
	for _, img := range images {
		if img.IsPrimary {
			for i := range existing {
				existing[i].IsPrimary = false
			}
			break
		}
	}
	next := len(existing)
	for i := range images {
		images[i].ID = r.s.nextID()
		images[i].ProductID = productID
		images[i].Position = next + i
		existing = append(existing, images[i])
	}
	r.s.images[productID] = existing
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.products[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.s.products, id)
	delete(r.s.images, id)
	return nil
}

// refsExist emula las llaves foráneas de clothes. Requiere mu tomado.
func (r *ProductRepo) refsExist(p *entity.Product) bool {
	refs := map[entity.CatalogResource]int64{
		entity.ResourceTypes:  p.TypeID,
		entity.ResourceBrands: p.BrandID,
		entity.ResourceSizes:  p.SizeID,
		entity.ResourceColors: p.ColorID,
	}
	for res, id := range refs {
		if _, ok := r.s.lookup(res, id); !ok {
			return false
		}
	}
	return true
}

// hydrate copia el producto con relaciones e imágenes. Requiere mu tomado.
func (r *ProductRepo) hydrate(p entity.Product) *entity.Product {
	out := p
	out.Type = r.relation(entity.ResourceTypes, p.TypeID)
	out.Brand = r.relation(entity.ResourceBrands, p.BrandID)
	out.Size = r.relation(entity.ResourceSizes, p.SizeID)
	out.Color = r.relation(entity.ResourceColors, p.ColorID)
	out.Images = append([]entity.ProductImage{}, r.s.images[p.ID]...)
	return &out
}

func (r *ProductRepo) relation(res entity.CatalogResource, id int64) *entity.CatalogEntity {
	e, ok := r.s.lookup(res, id)
	if !ok {
		return nil
	}
	return &e
}

func bare(p *entity.Product) entity.Product {
	out := *p
	out.Type, out.Brand, out.Size, out.Color = nil, nil, nil, nil
	out.Images = nil
	return out
}
