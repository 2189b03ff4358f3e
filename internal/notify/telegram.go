package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/school-gradebook/internal/observability"
)

// Notifier шлёт служебные сообщения в админский чат.
// nil-Notifier допустим: все методы становятся no-op (уведомления выключены).
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func New(token string, chatID int64) (*Notifier, error) {
	if token == "" || chatID == 0 {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Notifier{bot: bot, chatID: chatID}, nil
}

// RecalcFinished — сводка по завершённому прогону пересчёта.
func (n *Notifier) RecalcFinished(total, updated, failed int) {
	if n == nil {
		return
	}
	text := fmt.Sprintf("📊 Пересчёт итогов завершён: записей %d, обновлено %d", total, updated)
	if failed > 0 {
		text += fmt.Sprintf(", с ошибками %d ⚠️", failed)
	}
	n.send(text)
}

func (n *Notifier) send(text string) {
	if _, err := n.bot.Send(tgbotapi.NewMessage(n.chatID, text)); isSystemErr(err) {
		observability.CaptureErr(err)
	}
}

// Считаем системными: 5xx, 429, timeout. Телеграм-валидации в Sentry не шлём.
func isSystemErr(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	if strings.Contains(s, "429") || strings.Contains(s, "502") || strings.Contains(s, "503") || strings.Contains(s, "timeout") {
		return true
	}
	return false
}
