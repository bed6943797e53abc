package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/service"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionCookie = "token"

// fakeBackend is a shopper-only stand-in for the REST API.
type fakeBackend struct {
	mu    sync.Mutex
	token string
	cart  []map[string]any
	calls []string
}

// setToken changes which session cookie value the backend accepts.
func (fb *fakeBackend) setToken(token string) {
	fb.mu.Lock()
	fb.token = token
	fb.mu.Unlock()
}

func newFakeBackend(t *testing.T) *httptest.Server {
	srv, _ := newControlledBackend(t)
	return srv
}

func newControlledBackend(t *testing.T) (*httptest.Server, *fakeBackend) {
	t.Helper()
	fb := &fakeBackend{
		token: "abc",
		cart: []map[string]any{
			{"productId": map[string]any{"_id": "p1", "name": "Gold Ring", "price": 100, "quantity": 5}, "quantity": 2},
			{"productId": map[string]any{"_id": "p2", "name": "Pearl Stud", "price": 50, "quantity": 5}, "quantity": 1},
		},
	}

	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	authed := func(r *http.Request) bool {
		c, err := r.Cookie(sessionCookie)
		return err == nil && c.Value == fb.token
	}
	user := map[string]any{"_id": "u1", "name": "Asha", "email": "asha@example.com", "role": "user"}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.calls = append(fb.calls, r.Method+" "+r.URL.Path)

		switch r.Method + " " + r.URL.Path {
		case "POST /api/user/login":
			var creds map[string]string
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds["password"] != "secret" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
				return
			}
			http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "abc", Path: "/"})
			writeJSON(w, http.StatusOK, map[string]any{"user": user})
		case "GET /api/user/profile":
			if !authed(r) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"user": user})
		case "GET /api/user/logout":
			http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
			writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
		case "GET /api/cart":
			if !authed(r) {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not authorized"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"cart": map[string]any{"cartItems": fb.cart}})
		case "POST /api/cart/addtocart":
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Session expired"})
		case "GET /api/collection/most-loved":
			writeJSON(w, http.StatusOK, []map[string]any{
				{"_id": "p1", "name": "Gold Ring", "category": "Ring", "price": 100, "quantity": 5, "averageRating": 4.4, "numReviews": 3},
			})
		default:
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, fb
}

func writeConfig(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := strings.Join([]string{
		"env:",
		"  log:",
		"    level: error",
		"api:",
		"  baseURL: " + baseURL + "/api",
		"  timeout: 5s",
		"storage:",
		"  path: " + filepath.Join(dir, "storage.json"),
		"",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func run(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCmd_HasEveryCommand(t *testing.T) {
	root := newRootCmd(&bytes.Buffer{})

	want := map[string][]string{
		"":        {"login", "logout", "whoami", "register", "register-seller", "reset-password", "browse", "search", "reviews", "cart", "checkout", "orders", "serve-callback", "theme", "shop", "seller", "admin", "account"},
		"reviews": {"list", "add", "delete"},
		"cart":    {"show", "add", "update", "remove", "clear"},
		"theme":   {"show", "toggle"},
		"seller":  {"products", "add-product", "update-product", "delete-product", "orders", "confirm-order", "profile", "update-profile", "delete-account"},
		"admin":   {"profile", "pending-sellers", "approve-seller", "user", "update-user", "delete-user", "add-seller", "product", "add-product", "update-product", "delete-product", "orders", "confirm-order"},
		"account": {"profile", "update", "delete"},
	}

	for parent, names := range want {
		cmd := root
		if parent != "" {
			var err error
			cmd, _, err = root.Find([]string{parent})
			require.NoError(t, err, parent)
		}
		for _, name := range names {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "%s %s", parent, name)
			assert.Equal(t, name, sub.Name(), "%s %s", parent, name)
		}
	}
}

func TestLoginSurvivesBetweenRuns(t *testing.T) {
	srv := newFakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	out, err := run(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	out, err = run(t, cfg, "login", "--email", "asha@example.com", "--password", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as Asha (shopper), home /user/dashboard")
	assert.Contains(t, out, "Cart: 3 items, ₹250.00")

	out, err = run(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Asha <asha@example.com>")
	assert.Contains(t, out, "home: /user/dashboard")

	out, err = run(t, cfg, "cart")
	require.NoError(t, err)
	assert.Contains(t, out, "Gold Ring")
	assert.Contains(t, out, "Items: 3  Total: ₹250.00")

	out, err = run(t, cfg, "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed out")

	out, err = run(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestRejectedSessionIsForgotten(t *testing.T) {
	srv, fb := newControlledBackend(t)
	cfg := writeConfig(t, srv.URL)

	_, err := run(t, cfg, "login", "--email", "asha@example.com", "--password", "secret")
	require.NoError(t, err)

	fb.setToken("rotated")
	out, err := run(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")

	// the old cookie must be gone even once the backend would accept it again
	fb.setToken("abc")
	out, err = run(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestCommandRejectedSessionIsForgotten(t *testing.T) {
	srv := newFakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	_, err := run(t, cfg, "login", "--email", "asha@example.com", "--password", "secret")
	require.NoError(t, err)

	_, err = run(t, cfg, "cart", "add", "p1")
	require.ErrorIs(t, err, service.ErrLoginRequired)
	assert.Equal(t, "Please log in to continue", describe(err))

	out, err := run(t, cfg, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestLogin_BadPassword(t *testing.T) {
	srv := newFakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	_, err := run(t, cfg, "login", "--email", "asha@example.com", "--password", "nope")
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", describe(err))
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	srv := newFakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	var out bytes.Buffer
	root := newRootCmd(&out)
	root.SetIn(strings.NewReader("secret\n"))
	root.SetArgs([]string{"--config", cfg, "login", "--email", "asha@example.com"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "Signed in as Asha")
}

func TestCart_AnonymousMustLogIn(t *testing.T) {
	srv := newFakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	_, err := run(t, cfg, "cart", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log in")
}

func TestBrowse_MostLovedByDefault(t *testing.T) {
	srv := newFakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	out, err := run(t, cfg, "browse")
	require.NoError(t, err)
	assert.Contains(t, out, "Gold Ring")
	assert.Contains(t, out, "₹100.00")
	assert.Contains(t, out, "4.5★ (3)")
}

func TestBrowse_UnknownCategory(t *testing.T) {
	srv := newFakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	_, err := run(t, cfg, "browse", "Earring")
	require.Error(t, err)
	assert.ErrorIs(t, err, service.ErrInvalidForm)
}

func TestTheme_TogglePersists(t *testing.T) {
	srv := newFakeBackend(t)
	cfg := writeConfig(t, srv.URL)

	out, err := run(t, cfg, "theme", "show")
	require.NoError(t, err)
	assert.Equal(t, "light\n", out)

	out, err = run(t, cfg, "theme", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	out, err = run(t, cfg, "theme", "show")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Please log in to continue", describe(service.ErrLoginRequired))
	assert.Equal(t, "Your cart is empty", describe(errors.Wrap(service.ErrEmptyCart, "checkout")))
	assert.Equal(t, "Out of stock", describe(&api.Error{Kind: api.KindValidation, Status: 400, Message: "Out of stock"}))
	assert.Equal(t, "read config x: boom", describe(errors.Wrap(errors.New("boom"), "read config x")))
}
