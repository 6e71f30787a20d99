package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"pedia/internal/build"
	"pedia/internal/domain/config"
	"pedia/internal/serve"
)

func main() {
	// .env is optional; a missing file is not an error
	_ = godotenv.Load()

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	cfg, err := config.LoadOrDefault("./site.yaml")
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(2)
	}

	log, err := newLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger init error:", err.Error())
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	sugar := log.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd {
	case "serve":
		s, err := serve.New(cfg, sugar)
		if err != nil {
			sugar.Errorw("serve init failed", "err", err)
			os.Exit(1)
		}
		defer s.Close()
		if err := s.ListenAndServe(ctx, cfg.Serve.Addr); err != nil {
			sugar.Errorw("serve failed", "err", err)
			os.Exit(1)
		}

	case "build":
		b := &build.Builder{
			Cfg:       cfg,
			Log:       sugar,
			CachePath: ".pedia/build.db",
		}
		res, err := b.Run(ctx)
		if err != nil {
			sugar.Errorw("build failed", "err", err)
			os.Exit(1)
		}
		sugar.Infow("done",
			"articles", res.Articles,
			"pages", res.Pages,
			"skipped", res.Skipped,
			"warnings", len(res.Warnings),
		)

	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (want serve or build)\n", cmd)
		os.Exit(2)
	}
}

func newLogger() (*zap.Logger, error) {
	switch os.Getenv("PEDIA_ENV") {
	case "prod", "production":
		return zap.NewProduction()
	default:
		return zap.NewDevelopment()
	}
}
