package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Spok95/school-gradebook/internal/app"
	"github.com/Spok95/school-gradebook/internal/config"
	"github.com/Spok95/school-gradebook/internal/ctxutil"
	"github.com/Spok95/school-gradebook/internal/db"
	"github.com/Spok95/school-gradebook/internal/jobs"
	"github.com/Spok95/school-gradebook/internal/logging"
	"github.com/Spok95/school-gradebook/internal/notify"
	"github.com/Spok95/school-gradebook/internal/observability"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env, "gradebook")
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer lg.Closer()
	sugar := lg.Sugar

	flush, err := observability.InitSentry(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		sugar.Warnw("sentry init failed", "err", err)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(cfg.DatabaseURL, cfg.GradebookDBURL)
	if err != nil {
		sugar.Fatalw("db open failed", "err", err)
	}
	defer store.Close()

	if err := db.Migrate(store.Gradebook); err != nil {
		sugar.Fatalw("migrate failed", "err", err)
	}

	app.StartHTTP(ctx, cfg.HTTPAddr, store.Gradebook)

	notifier, err := notify.New(cfg.BotToken, cfg.AdminChatID)
	if err != nil {
		sugar.Warnw("telegram notifier disabled", "err", err)
	}

	runner := jobs.New(ctx)
	runner.Every(cfg.RecalcInterval, "recalculate_grades", func(ctx context.Context) error {
		res, err := jobs.RecalculateAll(ctxutil.WithOp(ctx, "recalc_scheduled"), store.Gradebook, sugar)
		if err != nil {
			observability.CaptureErr(err)
			return err
		}
		notifier.RecalcFinished(res.Total, res.Updated, res.Failed)
		return nil
	})

	sugar.Infow("gradebook service started",
		"http", cfg.HTTPAddr,
		"recalc_interval", cfg.RecalcInterval,
		"env", cfg.Env,
	)

	<-ctx.Done()
	sugar.Info("shutting down")
}
