package main

import (
	"context"
	"io"
	"time"

	"github.com/fjod/nayra_storefront/config"
	"github.com/fjod/nayra_storefront/internal/api"
	"github.com/fjod/nayra_storefront/internal/cache"
	"github.com/fjod/nayra_storefront/internal/domain"
	"github.com/fjod/nayra_storefront/internal/nav"
	"github.com/fjod/nayra_storefront/internal/service"
	"github.com/fjod/nayra_storefront/internal/session"
	"github.com/fjod/nayra_storefront/internal/storage"
	"github.com/fjod/nayra_storefront/internal/theme"
	"github.com/fjod/nayra_storefront/pkg/circuitbreaker"
	"github.com/fjod/nayra_storefront/pkg/logger"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// sessionRoleKey remembers which profile endpoint restores the session on
// the next run; the cookie alone does not say whose it is.
const sessionRoleKey = "session-role"

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer

	local   *storage.Local
	jar     *storage.PersistentJar
	client  *api.Client
	redis   redis.UniversalClient
	store   *session.Store
	history *nav.History
	router  *nav.Router
	theme   *theme.Store

	catalog  *service.CatalogService
	cart     *service.CartService
	auth     *service.AuthService
	checkout *service.CheckoutService
	reviews  *service.ReviewService
	orders   *service.OrderService
	account  *service.AccountService
	seller   *service.SellerService
	admin    *service.AdminService
}

func newApp(ctx context.Context, flags *rootFlags, out io.Writer) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}

	level := cfg.Env.Log.Level
	if flags.verbose {
		level = "debug"
	}
	log, err := logger.New(level, cfg.Env.Log.Pretty)
	if err != nil {
		return nil, err
	}

	local, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	jar, err := storage.NewPersistentJar(local, cfg.API.BaseURL, log)
	if err != nil {
		return nil, err
	}

	opts := api.Options{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
		Jar:     jar,
		Logger:  log,
	}
	if cfg.API.Breaker.Enabled {
		opts.Breaker = &circuitbreaker.Settings{
			Name:        "nayra-api",
			MaxFailures: cfg.API.Breaker.MaxFailures,
			OpenTimeout: cfg.API.Breaker.OpenTimeout,
		}
	}
	client, err := api.New(opts)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  log,
		out:     out,
		local:   local,
		jar:     jar,
		client:  client,
		history: &nav.History{},
		router:  nav.NewRouter(),
		theme:   theme.NewStore(local),
	}
	a.store = session.NewStore(a.history, log)

	var catalogCache cache.CatalogCache
	if cfg.Cache.Enabled {
		catalogCache = a.connectCache(ctx)
	}

	a.catalog = service.NewCatalogService(client, catalogCache, log)
	a.cart = service.NewCartService(client, a.store, a.history, log)
	a.auth = service.NewAuthService(client, a.store, a.cart, a.router, a.history, service.AuthOptions{
		SuperAdminEmail: cfg.Auth.SuperAdminEmail,
		Cookies:         jar,
		Logger:          log,
	})
	a.checkout = service.NewCheckoutService(client, a.store, a.cart, a.history, cfg.Payment.CheckoutURL, log)
	a.reviews = service.NewReviewService(client, a.store, a.history)
	a.orders = service.NewOrderService(client, a.store, a.history)
	a.account = service.NewAccountService(client, a.orders, a.store, a.history)
	a.seller = service.NewSellerService(client, a.catalog, a.store, a.history)
	a.admin = service.NewAdminService(client, a.catalog, a.store, a.history)

	a.theme.Initialize()
	a.bootstrap(ctx)
	return a, nil
}

// connectCache returns nil when redis is unreachable; the catalog then
// goes straight to the backend.
func (a *app) connectCache(ctx context.Context) cache.CatalogCache {
	rc := redis.NewClient(&redis.Options{
		Addr:     a.cfg.Cache.Redis.Addr,
		Password: a.cfg.Cache.Redis.Password,
		DB:       a.cfg.Cache.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx).Err(); err != nil {
		a.logger.Warn("catalog cache disabled, redis ping failed",
			zap.String("addr", a.cfg.Cache.Redis.Addr), zap.Error(err))
		_ = rc.Close()
		return nil
	}
	a.redis = rc
	return cache.NewRedisCache(rc, a.cfg.Cache.TTL)
}

func (a *app) bootstrap(ctx context.Context) {
	role := domain.RoleShopper
	raw, remembered := a.local.Get(sessionRoleKey)
	if remembered {
		if r, err := domain.ParseRole(raw); err == nil {
			role = r
		}
	}
	fetcher := &rememberedRole{client: a.client, role: role}
	p := a.store.Bootstrap(ctx, fetcher)
	if p == nil {
		if remembered && fetcher.rejected {
			a.forgetSession()
		}
		return
	}
	a.logger.Debug("session restored", zap.String("user_id", p.ID), zap.Stringer("role", p.Role))
	if p.CanShop() {
		if _, err := a.cart.Load(ctx); err != nil {
			if errors.Is(err, service.ErrLoginRequired) {
				a.forgetSession()
				return
			}
			a.logger.Warn("cart load failed", zap.Error(err))
		}
	}
}

// forgetSession drops the cookies and remembered role of a session the
// backend no longer accepts, so the next run starts signed out.
func (a *app) forgetSession() {
	if err := a.jar.Clear(); err != nil {
		a.logger.Warn("clear session cookies failed", zap.Error(err))
	}
	a.rememberSession()
}

// rememberSession records the role of the principal now in the store, or
// forgets it after a logout.
func (a *app) rememberSession() {
	role := a.store.Role()
	var err error
	if role == domain.RoleAnonymous {
		err = a.local.Delete(sessionRoleKey)
	} else {
		err = a.local.Set(sessionRoleKey, role.WireName())
	}
	if err != nil {
		a.logger.Warn("persist session role failed", zap.Error(err))
	}
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.logger.Sync()
}

// rememberedRole asks the profile endpoint of the role that signed in last.
type rememberedRole struct {
	client   *api.Client
	role     domain.Role
	rejected bool
}

func (r *rememberedRole) Profile(ctx context.Context, _ domain.Role) (*domain.Principal, error) {
	p, err := r.client.Profile(ctx, r.role)
	r.rejected = api.IsUnauthorized(err)
	return p, err
}

// describe turns err into the line printed to the user.
func describe(err error) string {
	var apiErr *api.Error
	switch {
	case errors.As(err, &apiErr),
		errors.Is(err, service.ErrInvalidForm),
		errors.Is(err, service.ErrLoginRequired),
		errors.Is(err, service.ErrShopperOnly),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrRoleNotAllowed):
		return service.Message(err)
	default:
		return err.Error()
	}
}
