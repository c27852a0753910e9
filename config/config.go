package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SeedingOrder = "order"
	SeedingElo   = "elo"
)

// Config хранит параметры консольного приложения.
type Config struct {
	RosterFile  string
	BracketName string
	Seeding     string
	LogLevel    slog.Level
	HubBuffer   int
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	// Отсутствие .env не считаем ошибкой.
	_ = godotenv.Load()

	roster := os.Getenv("BRACKET_ROSTER_FILE")
	if roster == "" {
		return nil, fmt.Errorf("BRACKET_ROSTER_FILE environment variable is not set")
	}

	seeding := strings.ToLower(strings.TrimSpace(os.Getenv("BRACKET_SEEDING")))
	if seeding == "" {
		seeding = SeedingOrder
	}
	if seeding != SeedingOrder && seeding != SeedingElo {
		return nil, fmt.Errorf("BRACKET_SEEDING must be %q or %q, got %q", SeedingOrder, SeedingElo, seeding)
	}

	level, err := parseLevel(os.Getenv("BRACKET_LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	bufStr := os.Getenv("BRACKET_HUB_BUFFER")
	if bufStr == "" {
		bufStr = "16"
	}
	buffer, err := strconv.Atoi(bufStr)
	if err != nil {
		return nil, fmt.Errorf("invalid BRACKET_HUB_BUFFER environment variable: %w", err)
	}
	if buffer <= 0 {
		return nil, fmt.Errorf("BRACKET_HUB_BUFFER must be positive, got %d", buffer)
	}

	return &Config{
		RosterFile:  roster,
		BracketName: os.Getenv("BRACKET_NAME"),
		Seeding:     seeding,
		LogLevel:    level,
		HubBuffer:   buffer,
	}, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid BRACKET_LOG_LEVEL %q, use debug, info, warn or error", s)
	}
}
