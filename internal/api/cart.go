package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type cartItemWire struct {
	ProductID json.RawMessage `json:"productId"`
	Quantity  int             `json:"quantity"`
}

// productRefWire is the populated product inside a cart item.
type productRefWire struct {
	ID       string              `json:"_id"`
	Name     string              `json:"name"`
	Price    decimal.NullDecimal `json:"price"`
	Image    string              `json:"image"`
	Quantity int                 `json:"quantity"`
}

type cartEnvelopeWire struct {
	Cart *struct {
		CartItems []cartItemWire `json:"cartItems"`
	} `json:"cart"`
}

type cartMutation struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// decodeCart accepts either {cart:{cartItems:[...]}} or a bare array of
// items. An envelope without a cart is an empty cart.
func decodeCart(raw []byte) ([]domain.CartLine, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty cart response")
	}

	var items []cartItemWire
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, errors.Wrap(err, "decode cart items")
		}
	case '{':
		var env cartEnvelopeWire
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, errors.Wrap(err, "decode cart envelope")
		}
		if env.Cart != nil {
			items = env.Cart.CartItems
		}
	default:
		return nil, errors.Errorf("unexpected cart payload starting with %q", trimmed[0])
	}

	lines := make([]domain.CartLine, 0, len(items))
	for i, item := range items {
		line, err := item.line()
		if err != nil {
			return nil, errors.Wrapf(err, "cart item %d", i)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (w cartItemWire) line() (domain.CartLine, error) {
	ref := bytes.TrimSpace(w.ProductID)
	if len(ref) == 0 || bytes.Equal(ref, []byte("null")) {
		return domain.CartLine{}, errors.New("missing productId")
	}

	// Unpopulated reference: only the id is known.
	if ref[0] == '"' {
		var id string
		if err := json.Unmarshal(ref, &id); err != nil {
			return domain.CartLine{}, errors.Wrap(err, "decode productId")
		}
		return domain.CartLine{
			ProductID: id,
			Product:   domain.ProductSnapshot{ID: id},
			Quantity:  w.Quantity,
		}, nil
	}

	var p productRefWire
	if err := json.Unmarshal(ref, &p); err != nil {
		return domain.CartLine{}, errors.Wrap(err, "decode product")
	}
	return domain.CartLine{
		ProductID: p.ID,
		Product: domain.ProductSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Image:     p.Image,
			Available: p.Quantity,
		},
		Quantity: w.Quantity,
	}, nil
}

func (c *Client) GetCart(ctx context.Context) ([]domain.CartLine, error) {
	const path = "/cart"
	raw, err := c.send(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	lines, err := decodeCart(raw)
	if err != nil {
		return nil, &Error{Kind: KindDecode, Method: http.MethodGet, Path: path, Err: err}
	}
	return lines, nil
}

func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) error {
	return c.doJSON(ctx, http.MethodPost, "/cart/addtocart", cartMutation{ProductID: productID, Quantity: quantity}, nil)
}

func (c *Client) UpdateCartLine(ctx context.Context, productID string, quantity int) error {
	return c.doJSON(ctx, http.MethodPut, "/cart/update", cartMutation{ProductID: productID, Quantity: quantity}, nil)
}

func (c *Client) RemoveCartLine(ctx context.Context, productID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/cart/remove/"+url.PathEscape(productID), nil, nil)
}

func (c *Client) ClearCart(ctx context.Context) error {
	return c.doJSON(ctx, http.MethodDelete, "/cart/clear", nil, nil)
}
