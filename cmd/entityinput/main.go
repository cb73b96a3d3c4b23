package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.appointy.com/entityinput"
	"go.appointy.com/entityinput/config"
	"go.appointy.com/entityinput/engine"
	"go.appointy.com/entityinput/introspection"
	"go.appointy.com/entityinput/logging"
	"go.appointy.com/entityinput/remap"
	"go.appointy.com/entityinput/schemabuilder"
	"go.appointy.com/entityinput/sdl"
	"go.appointy.com/entityinput/storage"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

var (
	configPath  = flag.String("config", "", "path to the YAML config file")
	overrideEnv = flag.String("override-env", "", "env file name to override env variables")
	describe    = flag.Bool("describe", false, "print the input types of the schema and exit")
)

func main() {
	flag.Parse()

	result, err := config.LoadConfig(*configPath, *overrideEnv)
	if err != nil {
		log.Fatal("Could not load config: ", err)
	}
	cfg := result.Config

	logLevel, err := logging.LevelFromString(cfg.LogLevel)
	if err != nil {
		log.Fatal("Could not parse log level: ", err)
	}
	logger := logging.New(!cfg.JSONLog, cfg.DevelopmentMode, logLevel).
		With(zap.String("component", "entityinput"))
	defer func() { _ = logger.Sync() }()

	if !result.DefaultLoaded {
		logger.Info("No config file found, using environment", zap.String("path", config.DefaultConfigPath))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg.StorageURL)
	if err != nil {
		logger.Fatal("Could not open entity store", zap.Error(err), zap.String("url", cfg.StorageURL))
	}
	defer store.Close()

	e, err := newEngine(cfg, store, logger)
	if err != nil {
		logger.Fatal("Could not build schema", zap.Error(err), zap.String("path", cfg.SchemaPath))
	}

	if *describe {
		types, err := introspection.InputTypes(ctx, e.Schema())
		if err != nil {
			logger.Fatal("Could not describe schema", zap.Error(err))
		}
		fmt.Print(introspection.Print(introspection.WithDeprecations(types, e.Types())))
		return
	}

	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: h2c.NewHandler(newRouter(cfg, e, logger), &http2.Server{}),
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down", zap.Duration("shutdown_delay", cfg.ShutdownDelay))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownDelay)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Could not shut down gracefully", zap.Error(err))
		}
	}()

	logger.Info("Server listening",
		zap.String("listen_addr", cfg.ListenAddr),
		zap.String("graphql_path", cfg.GraphQLPath),
		zap.Stringer("unknown_keys", cfg.Policy()),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}

func newEngine(cfg config.Config, store *storage.Store, logger *zap.Logger) (*engine.Engine, error) {
	sb := schemabuilder.NewSchema()
	if err := sdl.LoadFile(sb, cfg.SchemaPath); err != nil {
		return nil, err
	}

	schema, err := sb.Build()
	if err != nil {
		return nil, err
	}
	logger.Debug("Built input types", zap.Int("entities", len(schema.Entities())))

	return engine.New(schema, store,
		engine.WithLogger(logger),
		engine.WithRemapper(remap.New(remap.WithPolicy(cfg.Policy()))),
	)
}

func newRouter(cfg config.Config, e *engine.Engine, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Handle(cfg.GraphQLPath, entityinput.HTTPHandler(e.Schema(),
		entityinput.WithLogger(logger),
		entityinput.WithMiddlewares(entityinput.LoggingMiddleware(logger)),
	))
	if cfg.PlaygroundEnabled {
		r.Handle(cfg.PlaygroundPath, entityinput.PlaygroundHandler("Entity Input Playground", cfg.GraphQLPath))
	}
	return r
}
