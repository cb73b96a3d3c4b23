// Package main serves input types declared in schema.graphql instead of Go
// registration code. Unknown input keys are dropped rather than rejected.
//
// Run with `go run server.go` and open http://localhost:8080/.
package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.appointy.com/entityinput"
	"go.appointy.com/entityinput/engine"
	"go.appointy.com/entityinput/logging"
	"go.appointy.com/entityinput/remap"
	"go.appointy.com/entityinput/schemabuilder"
	"go.appointy.com/entityinput/sdl"
	"go.appointy.com/entityinput/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newRouter(schemaPath string, store *storage.Store, logger *zap.Logger) (http.Handler, error) {
	sb := schemabuilder.NewSchema()
	if err := sdl.LoadFile(sb, schemaPath); err != nil {
		return nil, err
	}
	schema, err := sb.Build()
	if err != nil {
		return nil, err
	}

	e, err := engine.New(schema, store,
		engine.WithLogger(logger),
		engine.WithRemapper(remap.New(remap.WithPolicy(remap.DropUnknown))),
	)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Handle("/graphql", entityinput.HTTPHandler(e.Schema(),
		entityinput.WithLogger(logger),
		entityinput.WithMiddlewares(entityinput.LoggingMiddleware(logger)),
	))
	r.Handle("/", entityinput.PlaygroundHandler("Entity Input Playground", "/graphql"))
	return r, nil
}

func main() {
	logger := logging.New(true, true, zapcore.DebugLevel)

	store, err := storage.Open(context.Background(), storage.DefaultURL)
	if err != nil {
		logger.Fatal("Could not open entity store", zap.Error(err))
	}
	defer store.Close()

	r, err := newRouter("schema.graphql", store, logger)
	if err != nil {
		logger.Fatal("Could not build schema", zap.Error(err))
	}

	logger.Info("Server running", zap.String("addr", ":8080"))
	if err := http.ListenAndServe(":8080", r); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
