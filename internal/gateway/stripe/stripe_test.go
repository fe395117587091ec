package stripe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmarchuk/storefront/internal/gateway"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{SecretKey: "sk_test_123", BaseURL: srv.URL})
}

func TestCreateCharge(t *testing.T) {
	var gotAuth, gotIdem, gotContentType string
	var gotForm map[string][]string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/charges", r.URL.Path)

		gotAuth = r.Header.Get("Authorization")
		gotIdem = r.Header.Get("Idempotency-Key")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, r.ParseForm())
		gotForm = r.PostForm

		w.Write([]byte(`{"id": "ch_1", "status": "succeeded", "amount": 10000, "currency": "usd"}`))
	})

	charge, err := client.CreateCharge(context.Background(), gateway.ChargeRequest{
		CustomerID:     "cus_1",
		Amount:         10000,
		Currency:       "usd",
		Description:    "widget x2",
		ReceiptEmail:   "jane@example.com",
		IdempotencyKey: "order-abc",
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer sk_test_123", gotAuth)
	assert.Equal(t, "order-abc", gotIdem)
	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t, []string{"10000"}, gotForm["amount"])
	assert.Equal(t, []string{"usd"}, gotForm["currency"])
	assert.Equal(t, []string{"cus_1"}, gotForm["customer"])
	assert.Equal(t, []string{"widget x2"}, gotForm["description"])
	assert.Equal(t, []string{"jane@example.com"}, gotForm["receipt_email"])

	assert.Equal(t, "ch_1", charge.ID)
	assert.Equal(t, "succeeded", charge.Status)
	assert.EqualValues(t, 10000, charge.Amount)
}

func TestCreateCharge_Declined(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error": {"code": "card_declined", "type": "card_error", "message": "Your card was declined."}}`))
	})

	charge, err := client.CreateCharge(context.Background(), gateway.ChargeRequest{
		CustomerID: "cus_1",
		Amount:     10000,
		Currency:   "usd",
	})
	require.Error(t, err)
	assert.Nil(t, charge)

	var ge *gateway.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "card_declined", ge.Code)
	assert.Equal(t, "Your card was declined.", ge.Message)
}

func TestFindCustomer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/customers/cus_1", r.URL.Path)
		w.Write([]byte(`{"id": "cus_1", "name": "Jane Buyer", "email": "jane@example.com", "default_source": "card_1"}`))
	})

	customer, err := client.FindCustomer(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "cus_1", customer.ID)
	assert.Equal(t, "Jane Buyer", customer.Name)
	assert.Equal(t, "card_1", customer.DefaultCardID)
}

func TestFindCustomer_Missing(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": {"code": "resource_missing", "type": "invalid_request_error", "message": "No such customer"}}`))
	})

	_, err := client.FindCustomer(context.Background(), "cus_gone")
	require.Error(t, err)
	assert.ErrorIs(t, err, gateway.ErrCustomerNotFound)
}

func TestCreateCustomer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/customers", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Jane Buyer", r.PostForm.Get("name"))
		assert.Equal(t, "jane@example.com", r.PostForm.Get("email"))
		assert.Equal(t, "tok_1", r.PostForm.Get("source"))
		w.Write([]byte(`{"id": "cus_new", "name": "Jane Buyer", "email": "jane@example.com"}`))
	})

	customer, err := client.CreateCustomer(context.Background(), "Jane Buyer", "jane@example.com", "tok_1")
	require.NoError(t, err)
	assert.Equal(t, "cus_new", customer.ID)
}

func TestListCards(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/customers/cus_1/sources", r.URL.Path)
		assert.Equal(t, "card", r.URL.Query().Get("object"))
		w.Write([]byte(`{"data": [
			{"id": "card_1", "last4": "4242", "exp_month": 4, "exp_year": 2028},
			{"id": "card_2", "last4": "1111", "exp_month": 1, "exp_year": 2027}
		]}`))
	})

	cards, err := client.ListCards(context.Background(), "cus_1")
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "card_1", cards[0].ID)
	assert.Equal(t, "4242", cards[0].Last4)
	assert.Equal(t, 2027, cards[1].ExpYear)
}

func TestRegisterCard(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/customers/cus_1/sources", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "tok_1", r.PostForm.Get("source"))
		w.Write([]byte(`{"id": "card_new", "last4": "4242", "exp_month": 4, "exp_year": 2028}`))
	})

	card, err := client.RegisterCard(context.Background(), "cus_1", "tok_1")
	require.NoError(t, err)
	assert.Equal(t, "card_new", card.ID)
	assert.Equal(t, "4242", card.Last4)
}

func TestSetDefaultCard(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/customers/cus_1", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "card_2", r.PostForm.Get("default_source"))
		w.Write([]byte(`{"id": "cus_1", "default_source": "card_2"}`))
	})

	err := client.SetDefaultCard(context.Background(), "cus_1", "card_2")
	require.NoError(t, err)
}

func TestErrorWithoutBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.FindCustomer(context.Background(), "cus_1")
	require.Error(t, err)

	var ge *gateway.Error
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "500", ge.Code)
}
