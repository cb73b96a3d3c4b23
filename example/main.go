package main

import (
	"context"
	"net/http"

	"go.appointy.com/entityinput"
	"go.appointy.com/entityinput/example/content"
	"go.appointy.com/entityinput/engine"
	"go.appointy.com/entityinput/logging"
	"go.appointy.com/entityinput/storage"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	logger := logging.New(true, true, zapcore.DebugLevel)

	store, err := storage.Open(context.Background(), storage.DefaultURL)
	if err != nil {
		logger.Fatal("Could not open entity store", zap.Error(err))
	}
	defer store.Close()

	h, err := content.GetGraphqlServer(store, engine.WithLogger(logger))
	if err != nil {
		logger.Fatal("Failed to get GraphQL server", zap.Error(err))
	}

	http.Handle("/graphql", h)
	http.Handle("/", entityinput.PlaygroundHandler("Content Playground", "/graphql"))

	logger.Info("Server running", zap.String("addr", ":8080"), zap.String("playground", "http://localhost:8080/"))

	if err := http.ListenAndServe(":8080", nil); err != nil {
		logger.Fatal("Server stopped", zap.Error(err))
	}
}
