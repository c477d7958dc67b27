package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ButyrinIA/posts/internal/config"
	"github.com/ButyrinIA/posts/internal/events"
	"github.com/ButyrinIA/posts/internal/logging"
	"github.com/ButyrinIA/posts/internal/models"
	"github.com/ButyrinIA/posts/internal/server"
	"github.com/ButyrinIA/posts/internal/storage"
	"github.com/ButyrinIA/posts/internal/storage/memory"
)

func main() {
	configPath := flag.String("config", "config.yaml", "путь к файлу конфигурации")
	port := flag.String("port", "", "порт сервера, перекрывает server.port")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("не удалось загрузить конфигурацию", "error", err)
		os.Exit(1)
	}
	if *port != "" {
		cfg.Server.Port = *port
		if err := cfg.Validate(); err != nil {
			slog.Error("неверный порт", "error", err)
			os.Exit(1)
		}
	}

	logger := logging.New(cfg.Log, os.Stderr)

	var seed []models.Post
	if cfg.Store.Seed {
		seed = models.SeedPosts()
	}
	logger.Info("инициализация хранилища memory", "posts", len(seed))
	mem := memory.New(seed...)
	defer mem.Close()

	var (
		store      storage.Storage = mem
		subscriber message.Subscriber
	)
	if cfg.Events.Enabled {
		pubSub := events.NewPubSub(cfg.Events, logger)
		defer pubSub.Close()

		store = events.NewPublishingStorage(mem, pubSub, logger)
		subscriber = pubSub
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, store, subscriber, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("сервер завершился с ошибкой", "error", err)
		os.Exit(1)
	}
}
