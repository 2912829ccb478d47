// Package app assembles the catalog engine: gateway, stores, search indexes and
// modal coordinators for every entity kind, sharing one event bus.
package app

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"inventory-catalog/internal/auth"
	"inventory-catalog/internal/codec"
	"inventory-catalog/internal/config"
	"inventory-catalog/internal/form"
	"inventory-catalog/internal/gateway"
	"inventory-catalog/internal/modal"
	"inventory-catalog/internal/models"
	"inventory-catalog/internal/refresher"
	"inventory-catalog/internal/search"
	"inventory-catalog/internal/store"
)

// Screen is everything one catalog screen needs for entity kind T.
type Screen[T models.Entity] struct {
	Store  *store.Store[T]
	Search *search.Index[T]
	Modal  *modal.Coordinator[T]
}

func newScreen[T models.Entity](remote store.Remote[T], schema form.Schema[T], bus EventBus.Bus, delay time.Duration, after search.AfterFunc) (*Screen[T], error) {
	st := store.New[T](remote, store.WithBus[T](bus))
	ix := search.NewIndex[T](st, delay, false, after)
	if err := ix.Watch(bus, store.ChangedTopic(st.Kind())); err != nil {
		return nil, errors.Wrapf(err, "watch %s", st.Kind())
	}
	return &Screen[T]{Store: st, Search: ix, Modal: modal.New[T](schema, st)}, nil
}

// Options overrides collaborators, mostly for tests.
type Options struct {
	Tokens    auth.TokenProvider
	FS        afero.Fs
	Gateway   []gateway.Option
	AfterFunc search.AfterFunc
	Now       func() time.Time
}

// App is the assembled engine.
type App struct {
	Config  *config.Config
	Session *auth.Session
	Client  *gateway.Client
	Bus     EventBus.Bus

	Products     *Screen[models.Product]
	PriceList    *Screen[models.PriceListProduct]
	SoldProducts *Screen[models.SoldProduct]
}

// New wires an App from cfg. Without an explicit token provider the configured
// token is used when set, otherwise a signed-out session awaiting Login.
func New(cfg *config.Config, opts Options) (*App, error) {
	a := &App{Config: cfg, Bus: EventBus.New(), Session: auth.NewSession()}

	tokens := opts.Tokens
	if tokens == nil {
		if cfg.Token != "" {
			tokens = auth.StaticToken(cfg.Token)
		} else {
			tokens = a.Session
		}
	}
	gwOpts := append([]gateway.Option{
		gateway.WithTimeout(cfg.HTTPTimeout),
		gateway.WithCodec(codec.New(opts.FS)),
	}, opts.Gateway...)
	a.Client = gateway.NewClient(cfg.APIBase, tokens, gwOpts...)

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	var err error
	if a.Products, err = newScreen[models.Product](a.Client.Products(), form.ProductSchema{}, a.Bus, cfg.SearchDelay, opts.AfterFunc); err != nil {
		return nil, err
	}
	if a.PriceList, err = newScreen[models.PriceListProduct](a.Client.PriceList(), form.PriceListSchema{}, a.Bus, cfg.SearchDelay, opts.AfterFunc); err != nil {
		return nil, err
	}
	if a.SoldProducts, err = newScreen[models.SoldProduct](a.Client.SoldProducts(), form.SoldProductSchema{Now: now}, a.Bus, cfg.SearchDelay, opts.AfterFunc); err != nil {
		return nil, err
	}
	return a, nil
}

// Login signs in and stores the token on the app session.
func (a *App) Login(ctx context.Context, email, password string) (auth.User, error) {
	res, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return auth.User{}, err
	}
	a.Session.SignIn(res.Token, res.User)
	zap.S().Infow("signed_in", "user", res.User.Name, "role", res.User.Role)
	return res.User, nil
}

func (a *App) targets() []refresher.Target {
	return []refresher.Target{a.Products.Store, a.PriceList.Store, a.SoldProducts.Store}
}

// RefreshAll loads every kind once.
func (a *App) RefreshAll(ctx context.Context) error {
	var errs error
	for _, t := range a.targets() {
		errs = multierr.Append(errs, t.Refresh(ctx))
	}
	return errs
}

// Refresher schedules RefreshAll on the configured cron spec.
func (a *App) Refresher() (*refresher.Refresher, error) {
	return refresher.New(a.Config.RefreshSpec, a.Config.HTTPTimeout, a.targets()...)
}

// Close detaches the search indexes from the bus.
func (a *App) Close() {
	a.Products.Search.Close()
	a.PriceList.Search.Close()
	a.SoldProducts.Search.Close()
}
