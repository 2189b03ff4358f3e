package db

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store — хендлы хранилища, резолвятся один раз при старте процесса.
// Журнал оценок может жить в отдельной "админской" БД; без второго DSN
// используется основное подключение. Никаких глобальных переменных
// с условным переподключением.
type Store struct {
	Primary   *sql.DB
	Gradebook *sql.DB
}

func Open(primaryDSN, gradebookDSN string) (*Store, error) {
	primary, err := open(primaryDSN)
	if err != nil {
		return nil, fmt.Errorf("primary db: %w", err)
	}

	s := &Store{Primary: primary, Gradebook: primary}
	if gradebookDSN != "" && gradebookDSN != primaryDSN {
		gb, err := open(gradebookDSN)
		if err != nil {
			_ = primary.Close()
			return nil, fmt.Errorf("gradebook db: %w", err)
		}
		s.Gradebook = gb
	}
	return s, nil
}

func (s *Store) Close() {
	if s.Gradebook != nil && s.Gradebook != s.Primary {
		_ = s.Gradebook.Close()
	}
	if s.Primary != nil {
		_ = s.Primary.Close()
	}
}

func open(dsn string) (*sql.DB, error) {
	database, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := database.Ping(); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}
