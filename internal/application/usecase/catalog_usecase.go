package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/domain"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/entity"
	"github.com/jhoicas/urbanstyle-admin/internal/domain/repository"
	"github.com/jhoicas/urbanstyle-admin/pkg/validation"
)

// CatalogUseCase listado y alta de las tablas de lookup del catálogo.
type CatalogUseCase struct {
	repo repository.CatalogRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(repo repository.CatalogRepository) *CatalogUseCase {
	return &CatalogUseCase{repo: repo}
}

// List devuelve las entradas del recurso ordenadas por nombre. ErrNotFound si el recurso no existe.
func (uc *CatalogUseCase) List(ctx context.Context, resource string) ([]dto.CatalogEntityResponse, error) {
	res, ok := entity.ParseCatalogResource(resource)
	if !ok {
		return nil, domain.ErrNotFound
	}
	list, err := uc.repo.List(ctx, res)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CatalogEntityResponse, 0, len(list))
	for _, e := range list {
		out = append(out, *toCatalogRef(e))
	}
	return out, nil
}

// Create agrega una entrada. Un nombre repetido se reporta como error de validación del campo name.
func (uc *CatalogUseCase) Create(ctx context.Context, resource string, in dto.CreateCatalogEntryRequest) (*dto.CatalogEntityResponse, error) {
	res, ok := entity.ParseCatalogResource(resource)
	if !ok {
		return nil, domain.ErrNotFound
	}
	in.Name = strings.TrimSpace(in.Name)
	in.HexCode = strings.TrimSpace(in.HexCode)
	if !res.HasHexCode() {
		in.HexCode = ""
	}
	errs := validation.Struct(in)
	if res.HasHexCode() && in.HexCode == "" {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["hex_code"] = "es obligatorio"
	}
	if errs != nil {
		return nil, &domain.ValidationError{Fields: errs}
	}
	e := &entity.CatalogEntity{Name: in.Name, HexCode: in.HexCode}
	if err := uc.repo.Create(ctx, res, e); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewValidationError("name", "ya existe")
		}
		return nil, err
	}
	return toCatalogRef(e), nil
}

// Seed inserta las entradas que falten. Los nombres ya existentes se omiten sin error.
// Devuelve cuántas se crearon.
func (uc *CatalogUseCase) Seed(ctx context.Context, resource string, entries []dto.CreateCatalogEntryRequest) (int, error) {
	created := 0
	for _, in := range entries {
		_, err := uc.Create(ctx, resource, in)
		var verr *domain.ValidationError
		switch {
		case err == nil:
			created++
		case errors.As(err, &verr) && verr.Fields["name"] == "ya existe":
			continue
		default:
			return created, fmt.Errorf("%s %q: %w", resource, in.Name, err)
		}
	}
	return created, nil
}
