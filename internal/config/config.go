package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	DatabaseURL      string
	GradebookDBURL   string // опционально: отдельная БД журнала; пусто → основная
	HTTPAddr         string
	LogLevel         string
	Env              string // dev|prod
	SentryDSN        string
	Location         *time.Location
	RecalcInterval   time.Duration
	BotToken         string // опционально: уведомления о пересчёте в Telegram
	AdminChatID      int64
}

func Load() (*Config, error) {
	tz := getenv("TZ", "Europe/Moscow")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.Local
	}

	interval, err := time.ParseDuration(getenv("RECALC_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("RECALC_INTERVAL: %w", err)
	}

	var adminChatID int64
	if s := os.Getenv("ADMIN_CHAT_ID"); s != "" {
		adminChatID, err = strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("ADMIN_CHAT_ID: %w", err)
		}
	}

	cfg := &Config{
		DatabaseURL:    mustEnv("DATABASE_URL"),
		GradebookDBURL: os.Getenv("DATABASE_URL_ADMIN"),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		Env:            getenv("ENV", "dev"),
		SentryDSN:      os.Getenv("SENTRY_DSN"),
		Location:       loc,
		RecalcInterval: interval,
		BotToken:       os.Getenv("BOT_TOKEN"),
		AdminChatID:    adminChatID,
	}
	return cfg, nil
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("required env " + k + " is empty")
	}
	return v
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
