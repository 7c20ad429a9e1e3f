// Package app wires the domain services, the Stellar client and the navigator
// into one running application.
package app

import (
	"context"
	"strconv"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"burger/pkg/domain/model"
	"burger/pkg/domain/service"
	"burger/pkg/infrastructure/stellar"
	"burger/pkg/infrastructure/tokenfile"
	"burger/pkg/navigation"
)

type Gateways struct {
	Catalog model.CatalogGateway
	Orders  model.OrderGateway
	Feed    model.FeedGateway
	Auth    model.AuthGateway
}

type App struct {
	Catalog   service.CatalogService
	Builder   service.BuilderService
	Orders    service.OrderService
	Feed      service.FeedService
	Session   service.SessionService
	Lookup    service.OrderLookup
	Routes    *navigation.Routes
	Navigator *navigation.Navigator
	Metrics   *Metrics
}

func New(gateways Gateways, policy service.FallbackPolicy) *App {
	metrics := NewMetrics()
	dispatcher := newEventDispatcher(metrics)

	catalog := service.NewCatalogService(gateways.Catalog)
	builder := service.NewBuilderService(catalog, dispatcher)
	session := service.NewSessionService(gateways.Auth, dispatcher)
	orders := service.NewOrderService(gateways.Orders, catalog, builder, session, dispatcher)
	feed := service.NewFeedService(gateways.Feed, dispatcher)
	lookup := service.NewOrderLookup(orders, feed, policy)

	a := &App{
		Catalog: catalog,
		Builder: builder,
		Orders:  orders,
		Feed:    feed,
		Session: session,
		Lookup:  lookup,
		Routes:  navigation.NewRoutes(),
		Metrics: metrics,
	}
	a.Navigator = navigation.NewNavigator(a.Routes, session, &viewMounter{app: a})
	return a
}

// NewFromConfig builds an App talking to the Stellar API. An empty token
// file path keeps tokens in memory.
func NewFromConfig(cfg Config) *App {
	var tokens tokenfile.Store = tokenfile.NewMemory(tokenfile.Tokens{})
	if cfg.TokenFile != "" {
		tokens = tokenfile.NewFile(cfg.TokenFile)
	}

	client := stellar.New(stellar.Config{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.RequestTimeout,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.RateBurst,
	}, tokens)

	policy := service.FallbackAny
	if cfg.ResolverStrict {
		policy = service.FallbackMatching
	}
	return New(Gateways{Catalog: client, Orders: client, Feed: client, Auth: client}, policy)
}

// Start runs the page-load fetches concurrently and opens the initial path.
// The path is opened even when a fetch fails; the first failure is returned
// with the screen. A missing or expired session is not an error.
func (a *App) Start(ctx context.Context, path string) (navigation.Screen, error) {
	var group errgroup.Group
	group.Go(func() error {
		return errors.WithMessage(a.Catalog.Load(ctx), "load catalog")
	})
	group.Go(func() error {
		_, err := a.Session.FetchUser(ctx)
		if errors.Is(err, model.ErrUnauthorized) {
			log.Debug("starting without a session")
			return nil
		}
		return errors.WithMessage(err, "restore session")
	})
	group.Go(func() error {
		_, err := a.Feed.Refresh(ctx)
		return errors.WithMessage(err, "refresh feed")
	})
	loadErr := group.Wait()

	screen, err := a.Navigator.Open(ctx, path)
	if loadErr != nil {
		return screen, loadErr
	}
	return screen, err
}

type viewMounter struct {
	app *App
}

// Mount loads the data a view shows. A fetch already in flight for the same
// data is left to finish.
func (m *viewMounter) Mount(ctx context.Context, match navigation.Match) error {
	m.app.Metrics.mounts.WithLabelValues(match.View.String()).Inc()
	log.WithFields(log.Fields{"view": match.View, "path": match.Path}).Debug("mounting view")

	err := m.load(ctx, match)
	if errors.Is(err, model.ErrRequestInFlight) {
		return nil
	}
	return err
}

func (m *viewMounter) load(ctx context.Context, match navigation.Match) error {
	switch match.View {
	case navigation.BuilderPage, navigation.PartDetail:
		return m.app.Catalog.Load(ctx)
	case navigation.FeedPage:
		_, err := m.app.Feed.Refresh(ctx)
		return err
	case navigation.HistoryPage:
		_, err := m.app.Orders.FetchHistory(ctx)
		return err
	case navigation.FeedOrder, navigation.HistoryOrder:
		if err := m.app.Catalog.Load(ctx); err != nil {
			return err
		}
		number, err := strconv.Atoi(match.Params["number"])
		if err != nil {
			return errors.Wrapf(model.ErrOrderNotFound, "order number %q", match.Params["number"])
		}
		_, err = m.app.Lookup.Lookup(ctx, number)
		return err
	default:
		return nil
	}
}
