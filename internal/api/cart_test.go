package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCart_Envelope(t *testing.T) {
	raw := []byte(`{"cart":{"cartItems":[
		{"productId":{"_id":"p1","name":"Ring","price":100,"image":"r.jpg","quantity":5},"quantity":2},
		{"productId":{"_id":"p2","name":"Chain","price":"50","quantity":1},"quantity":1}
	]}}`)

	lines, err := decodeCart(raw)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, 5, lines[0].Product.Available)
	assert.True(t, lines[1].Product.Price.Decimal.Equal(decimal.NewFromInt(50)))
}

func TestDecodeCart_BareArray(t *testing.T) {
	lines, err := decodeCart([]byte(`[{"productId":{"_id":"p1","price":10},"quantity":3}]`))
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestDecodeCart_NullPriceAndUnpopulatedProduct(t *testing.T) {
	lines, err := decodeCart([]byte(`[
		{"productId":{"_id":"p1","name":"Ring","price":null},"quantity":1},
		{"productId":"p2","quantity":4}
	]`))
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.False(t, lines[0].Product.Price.Valid)
	assert.Equal(t, "p2", lines[1].ProductID)
	assert.Empty(t, lines[1].Product.Name)
}

func TestDecodeCart_EmptyEnvelope(t *testing.T) {
	lines, err := decodeCart([]byte(`{"message":"Cart is empty"}`))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestDecodeCart_Rejects(t *testing.T) {
	for name, body := range map[string]string{
		"empty":           ``,
		"scalar":          `42`,
		"missing product": `[{"quantity":1}]`,
		"wrong shape":     `{"cart":{"cartItems":"nope"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := decodeCart([]byte(body))
			require.Error(t, err)
		})
	}
}

func TestGetCart_DecodeErrorKind(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `"cart"`)
	})

	_, err := c.GetCart(context.Background())
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestCartMutations_Requests(t *testing.T) {
	type call struct {
		method, path string
		body         cartMutation
	}
	var (
		mu    sync.Mutex
		calls []call
	)

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body cartMutation
		if r.ContentLength > 0 {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		}
		mu.Lock()
		calls = append(calls, call{r.Method, r.URL.Path, body})
		mu.Unlock()
		writeJSON(w, http.StatusOK, `{"message":"ok"}`)
	})

	ctx := context.Background()
	require.NoError(t, c.AddToCart(ctx, "p1", 2))
	require.NoError(t, c.UpdateCartLine(ctx, "p1", 3))
	require.NoError(t, c.RemoveCartLine(ctx, "p1"))
	require.NoError(t, c.ClearCart(ctx))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []call{
		{http.MethodPost, "/api/cart/addtocart", cartMutation{"p1", 2}},
		{http.MethodPut, "/api/cart/update", cartMutation{"p1", 3}},
		{http.MethodDelete, "/api/cart/remove/p1", cartMutation{}},
		{http.MethodDelete, "/api/cart/clear", cartMutation{}},
	}, calls)
}
