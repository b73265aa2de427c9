package main

import (
	"context"
	"log/slog"
	"os"

	"varejo-ai-web/internal/server"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	if err := server.Run(context.Background()); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}
