package main

import (
	"log/slog"
	"os"

	"github.com/cinematch/core/internal/app"
	"github.com/cinematch/core/internal/config"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	app.Go(config.Load())
}
