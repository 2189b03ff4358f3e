package grades

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateRecord — запись для пары (курс, ученик) уже существует.
	ErrDuplicateRecord = errors.New("course grade record already exists")
	// ErrNotFound — запись или работа не найдена.
	ErrNotFound = errors.New("not found")
)

// ValidationError — входные данные работы не прошли проверку.
// Не ретраится: вызывающий отклоняет элемент (или весь батч в ReplaceItems).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid grade item: %s %s", e.Field, e.Reason)
}
