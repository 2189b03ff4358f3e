package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/Spok95/school-gradebook/internal/config"
	"github.com/Spok95/school-gradebook/internal/ctxutil"
	"github.com/Spok95/school-gradebook/internal/db"
	"github.com/Spok95/school-gradebook/internal/jobs"
	"github.com/Spok95/school-gradebook/internal/logging"
)

// Разовый пересчёт итогов по всем записям журнала.
// Запускается вручную после изменения формулы или правок в БД напрямую.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	lg, err := logging.Init(cfg.LogLevel, cfg.Env, "gradebook-recalc")
	if err != nil {
		log.Fatalf("Ошибка инициализации логгера: %v", err)
	}
	defer lg.Closer()

	store, err := db.Open(cfg.DatabaseURL, cfg.GradebookDBURL)
	if err != nil {
		lg.Sugar.Fatalw("db open failed", "err", err)
	}
	defer store.Close()

	if err := db.Migrate(store.Gradebook); err != nil {
		lg.Sugar.Fatalw("migrate failed", "err", err)
	}

	res, err := jobs.RecalculateAll(ctxutil.WithOp(context.Background(), "recalc_manual"), store.Gradebook, lg.Sugar)
	if err != nil {
		lg.Sugar.Errorw("recalculation aborted", "err", err)
		os.Exit(1)
	}

	fmt.Printf("Пересчёт завершён: %s\n", res)
	if res.Failed > 0 {
		os.Exit(1)
	}
}
