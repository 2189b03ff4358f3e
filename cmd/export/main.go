package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/Spok95/school-gradebook/internal/config"
	"github.com/Spok95/school-gradebook/internal/db"
	"github.com/Spok95/school-gradebook/internal/export"
)

// Выгрузка ведомости одного курса в xlsx.
func main() {
	courseID := flag.Int64("course", 0, "id курса")
	title := flag.String("title", "", "название курса для имени файла")
	flag.Parse()
	if *courseID == 0 {
		log.Fatal("укажите -course")
	}

	if err := godotenv.Load(); err != nil {
		log.Println("Не удалось загрузить .env файл, используем переменные окружения")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка конфигурации: %v", err)
	}

	store, err := db.Open(cfg.DatabaseURL, cfg.GradebookDBURL)
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer store.Close()

	records, err := db.ListRecordsByCourse(context.Background(), store.Gradebook, *courseID)
	if err != nil {
		log.Fatalf("Ошибка чтения записей: %v", err)
	}
	if len(records) == 0 {
		log.Fatalf("по курсу %d записей нет", *courseID)
	}

	name := *title
	if name == "" {
		name = fmt.Sprintf("курс %d", *courseID)
	}
	path, err := export.GenerateCourseGradeSheet(records, name, cfg.Location)
	if err != nil {
		log.Fatalf("Ошибка выгрузки: %v", err)
	}
	fmt.Println(path)
}
