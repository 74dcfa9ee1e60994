package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/lguibr/blammo/game"
	"github.com/lguibr/blammo/render"
	"github.com/lguibr/blammo/server"
	"github.com/lguibr/blammo/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	printLevel := flag.Bool("print", false, "print the generated level and exit")
	colored := flag.Bool("color", true, "use ANSI colors with -print")
	flag.Parse()

	if err := run(*configPath, *printLevel, *colored); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, printLevel, colored bool) error {
	cfg := utils.DefaultConfig()
	if configPath != "" {
		loaded, err := utils.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger, err := utils.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rng := rand.New(rand.NewSource(cfg.Level.Seed))
	layout := game.GenerateLayout(cfg.Level, rng)
	level := game.NewLevel(cfg.Level, cfg.Collision, layout)
	solver := game.NewSolver(cfg.Collision)
	logger.Info("level generated",
		zap.Int("cols", level.Cols()),
		zap.Int("rows", level.Rows()),
		zap.Int64("seed", cfg.Level.Seed),
		zap.Uint64("fingerprint", level.Fingerprint()),
	)

	if printLevel {
		fmt.Print(render.Level(level, colored))
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	srv := server.New(cfg.Server, level, solver, logger)
	g.Go(func() error { return srv.Run(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("stopping", zap.Int("sessions", srv.SessionCount()))
		return nil
	})
	return g.Wait()
}
