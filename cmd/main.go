package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dosada05/bracket-engine/brackets"
	"github.com/Dosada05/bracket-engine/config"
	"github.com/Dosada05/bracket-engine/handlers"
	"github.com/Dosada05/bracket-engine/rating"
	"github.com/Dosada05/bracket-engine/roster"
	"github.com/Dosada05/bracket-engine/services"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stderr, nil)).Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Логгер пишет в stderr, stdout отдан под сетку и ответы на команды
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Info("configuration loaded",
		slog.String("roster", cfg.RosterFile),
		slog.String("seeding", cfg.Seeding),
		slog.Int("hub_buffer", cfg.HubBuffer))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Загрузка участников
	file, err := roster.Load(cfg.RosterFile)
	if err != nil {
		logger.Error("failed to load roster", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("roster loaded", slog.Int("participants", len(file.Participants)))

	// Инициализация Hub
	hub := brackets.NewHub(cfg.HubBuffer, logger)
	go hub.Run(ctx)
	logger.Info("event hub started")

	bracketService := services.NewBracketService(hub, rating.NewElo(), logger)

	name := cfg.BracketName
	if name == "" {
		name = file.Name
	}
	view, err := bracketService.Create(ctx, services.CreateBracketInput{
		Name:         name,
		Participants: file.Inputs(),
		SeedByRating: cfg.Seeding == config.SeedingElo,
		Meta:         brackets.Meta{"source": cfg.RosterFile},
	})
	if err != nil {
		logger.Error("failed to create bracket", slog.Any("error", err))
		os.Exit(1)
	}

	sub, err := hub.Subscribe(ctx, view.ID)
	if err != nil {
		logger.Error("failed to subscribe to bracket events", slog.Any("error", err))
		os.Exit(1)
	}
	go func() {
		for ev := range sub.Events() {
			logger.Debug("bracket event", slog.String("type", string(ev.Type)), slog.String("bracket_id", ev.RoomID))
		}
	}()

	console, err := handlers.NewConsoleHandler(bracketService, view.ID, os.Stdout, logger)
	if err != nil {
		logger.Error("failed to initialize console", slog.Any("error", err))
		os.Exit(1)
	}
	if err := bracketService.Render(ctx, view.ID, os.Stdout); err != nil {
		logger.Warn("initial render failed", slog.Any("error", err))
	}

	done := make(chan error, 1)
	go func() {
		done <- console.Serve(ctx, os.Stdin)
	}()

	// Ожидание конца ввода или сигнала завершения
	select {
	case err := <-done:
		if err != nil {
			logger.Error("console stopped", slog.Any("error", err))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	// После отмены ctx hub сам закрывает подписки
	if ctx.Err() == nil {
		closeCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := sub.Close(closeCtx); err != nil {
			logger.Warn("failed to close subscription", slog.Any("error", err))
		}
	}
	logger.Info("application exited")
}
