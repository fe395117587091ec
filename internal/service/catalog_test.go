package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarchuk/storefront/internal/models"
	"github.com/dmarchuk/storefront/internal/repo"
	"github.com/dmarchuk/storefront/internal/transport"
)

func newCatalogService(t *testing.T) *CatalogService {
	t.Helper()
	return &CatalogService{Repo: &repo.ProductRepo{DB: newTestDB(t)}}
}

func TestCatalogCreateAndGet(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Product{
		Name:        "Mechanical Keyboard",
		Brand:       "Keychron",
		Category:    "peripherals",
		Description: "Hot-swappable 75% board",
		Price:       dec(t, "99.99"),
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mechanical Keyboard", got.Name)
	assert.True(t, got.Price.Equal(dec(t, "99.99")))
}

func TestCatalogCreate_Invalid(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &models.Product{Price: dec(t, "1.00")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(ctx, &models.Product{Name: "x", Price: dec(t, "-1.00")})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogGet_NotFound(t *testing.T) {
	svc := newCatalogService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogPatch(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Product{Name: "Widget", Price: dec(t, "10.00")})
	require.NoError(t, err)

	newPrice := dec(t, "12.50")
	stock := 7
	updated, err := svc.Patch(ctx, created.ID, transport.PatchProductRequest{
		Price:        &newPrice,
		CountInStock: &stock,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.Equal(t, 7, updated.CountInStock)
	assert.Equal(t, "Widget", updated.Name)

	badPrice := dec(t, "-1.00")
	_, err = svc.Patch(ctx, created.ID, transport.PatchProductRequest{Price: &badPrice})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCatalogDelete(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &models.Product{Name: "Widget", Price: dec(t, "10.00")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogSearch_DatabaseFallback(t *testing.T) {
	svc := newCatalogService(t)
	ctx := context.Background()

	for _, name := range []string{"Mechanical Keyboard", "Wireless Keyboard", "Gaming Mouse"} {
		_, err := svc.Create(ctx, &models.Product{Name: name, Price: dec(t, "10.00")})
		require.NoError(t, err)
	}

	total, found, err := svc.Search(ctx, "keyboard", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 2)

	total, found, err = svc.Search(ctx, "trackball", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, found)
}
