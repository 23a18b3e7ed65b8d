package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/niksmo/petshop-storefront/config"
	"github.com/niksmo/petshop-storefront/internal/adapter"
	"github.com/niksmo/petshop-storefront/internal/adapter/httphandler"
	"github.com/niksmo/petshop-storefront/internal/adapter/kafka"
	"github.com/niksmo/petshop-storefront/internal/adapter/mockdata"
	"github.com/niksmo/petshop-storefront/internal/adapter/restclient"
	"github.com/niksmo/petshop-storefront/internal/adapter/storage"
	"github.com/niksmo/petshop-storefront/internal/core/port"
	"github.com/niksmo/petshop-storefront/internal/core/service"
	"github.com/niksmo/petshop-storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

type serdes struct {
	cartSnapshot  schema.Serde
	wishlistEvent schema.Serde
}

type events struct {
	cart     *kafka.CartProducer
	wishlist *kafka.WishlistEmitter
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	provider   port.DataProvider
	sqlDB      *storage.SQLDB
	serdes     serdes
	events     events
	service    *service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initProvider()
	if cfg.BrokerEnabled() {
		tlsConfig := app.initTLS()
		app.initSerdes()
		app.initEventAdapters(tlsConfig)
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	level, _ := app.cfg.Level()
	opts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initProvider() {
	const op = "App.initProvider"

	pc := app.cfg.Provider
	switch pc.Mode {
	case config.ProviderREST:
		p, err := restclient.New(restclient.Config{
			BaseURL:     pc.BaseURL,
			Timeout:     pc.Timeout,
			MaxAttempts: pc.MaxAttempts,
		})
		if err != nil {
			app.fallDown(op, err)
		}
		app.provider = p
	case config.ProviderSQL:
		db, err := storage.NewSQLDB(app.ctx, pc.SQLDB)
		if err != nil {
			app.fallDown(op, err)
		}
		app.sqlDB = &db
		app.provider = storage.NewProductsRepository(db)
	default:
		app.provider = mockdata.New()
	}

	slog.Info("data provider is ready", "op", op, "mode", pc.Mode)
}

func (app *App) initTLS() *tls.Config {
	const op = "App.initTLS"

	if !app.cfg.TLSEnabled() {
		return nil
	}

	t := app.cfg.Broker.TLS
	tlsConfig, err := adapter.MakeTLSConfig(t.CA, t.Cert, t.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	kafka.ApplyGokaTLS(tlsConfig)
	return tlsConfig
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"
	urls := app.cfg.Broker.SchemaRegistryURLs
	topics := app.cfg.Broker.Topics
	ctx := app.ctx

	srClient, err := sr.NewClient(sr.URLs(urls...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	cartSerde, err := schema.NewSerdeCartSnapshotV1(
		ctx,
		schema.SubjectOpt(topics.CartSnapshots+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	wishlistSerde, err := schema.NewSerdeWishlistEventV1(
		ctx,
		schema.SubjectOpt(topics.WishlistEvents+"-value"),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.cartSnapshot = cartSerde
	app.serdes.wishlistEvent = wishlistSerde
}

func (app *App) initEventAdapters(tlsConfig *tls.Config) {
	const op = "App.initEventAdapters"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	topics := app.cfg.Broker.Topics

	cartProducer, err := kafka.NewCartProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, topics.CartSnapshots, tlsConfig),
		kafka.ProducerEncoderOpt(app.serdes.cartSnapshot),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	wishlistEmitter, err := kafka.NewWishlistEmitter(
		seedBrokers, topics.WishlistEvents, app.serdes.wishlistEvent,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.events.cart = &cartProducer
	app.events.wishlist = &wishlistEmitter
}

func (app *App) initCoreService() {
	opts := []service.Opt{service.SessionTTLOpt(app.cfg.Session.TTL)}
	if app.events.cart != nil {
		opts = append(opts, service.CartEventsOpt(app.events.cart))
	}
	if app.events.wishlist != nil {
		opts = append(opts, service.WishlistEventsOpt(app.events.wishlist))
	}
	app.service = service.New(app.provider, opts...)
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(
		mux, app.service, app.service, app.service, app.service,
	)
	httphandler.RegisterCart(mux, app.service, app.service)

	app.httpServer = httphandler.NewHTTPServer(
		addr, mux, app.cfg.HTTPRequestTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.service.RunEviction(app.ctx, app.cfg.Session.SweepInterval)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if app.events.cart != nil {
		app.events.cart.Close()
	}
	if app.events.wishlist != nil {
		app.events.wishlist.Close()
	}
	if app.sqlDB != nil {
		app.sqlDB.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
