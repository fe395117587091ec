package repo

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/dmarchuk/storefront/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}, &models.OrderItem{}))
	return db
}

func TestOrderRepo_CreateAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := &OrderRepo{DB: db}
	ctx := context.Background()

	userID := uuid.New()
	order := &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Items: []models.OrderItem{
			{ProductID: uuid.New(), Name: "widget", Quantity: 2, UnitPrice: decimal.RequireFromString("40.00")},
			{ProductID: uuid.New(), Name: "gadget", Quantity: 1, UnitPrice: decimal.RequireFromString("20.00")},
		},
		ShippingAddress: models.ShippingAddress{Address: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"},
		PaymentMethod:   models.PaymentMethodStripe,
		ItemsPrice:      decimal.RequireFromString("100.00"),
		TotalPrice:      decimal.RequireFromString("100.00"),
	}
	require.NoError(t, repo.Create(ctx, order))

	got, err := repo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	require.Len(t, got.Items, 2)
	assert.Equal(t, order.ID, got.Items[0].OrderID)
	assert.True(t, got.TotalPrice.Equal(decimal.RequireFromString("100.00")))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepo_FindByUser(t *testing.T) {
	db := newTestDB(t)
	repo := &OrderRepo{DB: db}
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	for _, userID := range []uuid.UUID{alice, alice, bob} {
		require.NoError(t, repo.Create(ctx, &models.Order{
			ID:            uuid.New(),
			UserID:        userID,
			PaymentMethod: models.PaymentMethodCash,
		}))
	}

	mine, err := repo.FindByUser(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUserRepo_SetStripeCustomerID(t *testing.T) {
	db := newTestDB(t)
	repo := &UserRepo{DB: db}
	ctx := context.Background()

	user := &models.User{ID: uuid.New(), Name: "Jane", Email: "jane@example.com", PasswordHash: "x"}
	require.NoError(t, repo.Create(ctx, user))

	require.NoError(t, repo.SetStripeCustomerID(ctx, user.ID, "cus_1"))

	got, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cus_1", got.StripeCustomerID)

	// an already-set reference is never overwritten
	require.NoError(t, repo.SetStripeCustomerID(ctx, user.ID, "cus_2"))
	got, err = repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "cus_1", got.StripeCustomerID)
}

func TestProductRepo_Search(t *testing.T) {
	db := newTestDB(t)
	repo := &ProductRepo{DB: db}
	ctx := context.Background()

	products := []models.Product{
		{ID: uuid.New(), Name: "Mechanical Keyboard", Brand: "Keychron", Price: decimal.RequireFromString("99.99")},
		{ID: uuid.New(), Name: "Wireless Mouse", Brand: "Logitech", Description: "works with any keyboard tray", Price: decimal.RequireFromString("29.99")},
		{ID: uuid.New(), Name: "Webcam", Brand: "Logitech", Price: decimal.RequireFromString("49.99")},
	}
	for i := range products {
		require.NoError(t, repo.Create(ctx, &products[i]))
	}

	total, found, err := repo.Search(ctx, "KEYBOARD", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 2)

	total, found, err = repo.Search(ctx, "logitech", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	total, found, err = repo.Search(ctx, "keyboard", 0, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, found, 1)
}

func TestProductRepo_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := &ProductRepo{DB: db}
	ctx := context.Background()

	product := &models.Product{ID: uuid.New(), Name: "Widget", Price: decimal.RequireFromString("10.00")}
	require.NoError(t, repo.Create(ctx, product))

	require.NoError(t, repo.Delete(ctx, product.ID))
	assert.ErrorIs(t, repo.Delete(ctx, product.ID), gorm.ErrRecordNotFound)
}
