// Command sudoku is a sudoku game whose logic runs entirely in Go.
//
// The page in www/ only holds the layout: the board, the timer and the
// buttons are driven by the handlers in game.go.
package main

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpalmerr/htinter"
)

//go:embed www
var assets embed.FS

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	www, err := fs.Sub(assets, "www")
	if err != nil {
		logger.Error("failed to open assets", "error", err)
		os.Exit(1)
	}

	s, err := htinter.New(
		htinter.WithPort(5080),
		htinter.WithFS(www),
		htinter.WithLogger(logger),
	)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	seed := uint64(time.Now().UnixNano())
	newGame(rand.New(rand.NewPCG(seed, seed>>1)), logger).register(s)

	fmt.Println()
	fmt.Println("  Sudoku")
	fmt.Println()
	fmt.Println("  Open http://127.0.0.1:5080/index.html in your browser")
	fmt.Println("  Click a cell, type a digit, Backspace to clear")
	fmt.Println("  Press Ctrl+C to stop")
	fmt.Println()

	// set up context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := s.Start(ctx); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
