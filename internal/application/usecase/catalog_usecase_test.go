package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbanstyle-admin/internal/application/dto"
	"github.com/jhoicas/urbanstyle-admin/internal/application/usecase"
	"github.com/jhoicas/urbanstyle-admin/internal/domain"
	"github.com/jhoicas/urbanstyle-admin/internal/infrastructure/memory"
)

func TestCatalogCreate_ColorConHex(t *testing.T) {
	uc := usecase.NewCatalogUseCase(memory.NewStore().Catalog())
	out, err := uc.Create(context.Background(), "colors", dto.CreateCatalogEntryRequest{Name: " Teal ", HexCode: "#008080"})
	require.NoError(t, err)
	assert.Equal(t, "Teal", out.Name)
	assert.Equal(t, "#008080", out.HexCode)
	assert.NotZero(t, out.ID)
}

func TestCatalogCreate_ColorSinHex_Falla(t *testing.T) {
	uc := usecase.NewCatalogUseCase(memory.NewStore().Catalog())
	_, err := uc.Create(context.Background(), "colors", dto.CreateCatalogEntryRequest{Name: "Rojo"})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "es obligatorio", verr.Fields["hex_code"])
}

func TestCatalogCreate_HexInvalido(t *testing.T) {
	uc := usecase.NewCatalogUseCase(memory.NewStore().Catalog())
	_, err := uc.Create(context.Background(), "colors", dto.CreateCatalogEntryRequest{Name: "Rojo", HexCode: "#f00"})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "hex_code")
}

func TestCatalogCreate_MarcaIgnoraHex(t *testing.T) {
	uc := usecase.NewCatalogUseCase(memory.NewStore().Catalog())
	out, err := uc.Create(context.Background(), "brands", dto.CreateCatalogEntryRequest{Name: "Nike", HexCode: "no-es-hex"})
	require.NoError(t, err)
	assert.Empty(t, out.HexCode)
}

func TestCatalogCreate_Duplicado(t *testing.T) {
	uc := usecase.NewCatalogUseCase(memory.NewStore().Catalog())
	ctx := context.Background()
	_, err := uc.Create(ctx, "sizes", dto.CreateCatalogEntryRequest{Name: "XL"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, "sizes", dto.CreateCatalogEntryRequest{Name: "xl"})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "ya existe", verr.Fields["name"])
}

func TestCatalog_RecursoDesconocido(t *testing.T) {
	uc := usecase.NewCatalogUseCase(memory.NewStore().Catalog())
	_, err := uc.List(context.Background(), "materials")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Create(context.Background(), "materials", dto.CreateCatalogEntryRequest{Name: "Lino"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalogList_OrdenadoPorNombre(t *testing.T) {
	uc := usecase.NewCatalogUseCase(memory.NewStore().Catalog())
	ctx := context.Background()
	for _, name := range []string{"Sudadera", "Chamarra", "Playera"} {
		_, err := uc.Create(ctx, "types", dto.CreateCatalogEntryRequest{Name: name})
		require.NoError(t, err)
	}
	list, err := uc.List(ctx, "types")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"Chamarra", "Playera", "Sudadera"}, []string{list[0].Name, list[1].Name, list[2].Name})
}

func TestCatalogSeed_OmiteExistentes(t *testing.T) {
	uc := usecase.NewCatalogUseCase(memory.NewStore().Catalog())
	ctx := context.Background()
	entries := []dto.CreateCatalogEntryRequest{{Name: "S"}, {Name: "M"}, {Name: "L"}}

	n, err := uc.Seed(ctx, "sizes", entries)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = uc.Seed(ctx, "sizes", append(entries, dto.CreateCatalogEntryRequest{Name: "XL"}))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCatalogSeed_ErrorDeValidacion(t *testing.T) {
	uc := usecase.NewCatalogUseCase(memory.NewStore().Catalog())
	_, err := uc.Seed(context.Background(), "colors", []dto.CreateCatalogEntryRequest{{Name: "Negro"}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
