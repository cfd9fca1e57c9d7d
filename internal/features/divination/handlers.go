// Package divination — handlers.go обрабатывает команду !гадание.
package divination

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/common"
	"vorozheya.ru/telegram-bot/internal/config"
)

// Handler обрабатывает команды гадания.
type Handler struct {
	service *Service
	cfg     *config.Config
	bot     *tgbotapi.BotAPI
}

// NewHandler создаёт обработчик гадания.
func NewHandler(service *Service, cfg *config.Config, bot *tgbotapi.BotAPI) *Handler {
	return &Handler{service: service, cfg: cfg, bot: bot}
}

// HandleDivination обрабатывает команду !гадание <знак>.
func (h *Handler) HandleDivination(ctx context.Context, chatID, userID int64, arg string) {
	sign, err := NormalizeSign(arg)
	if errors.Is(err, common.ErrUnknownSign) {
		h.sendMessage(chatID, usageText())
		return
	}

	reading := h.service.Divine(ctx, sign)

	var b strings.Builder
	fmt.Fprintf(&b, "%s Расклад для знака %s: «%s»\n\n%s",
		reading.Tier.Icon(), reading.Sign, reading.Tier, reading.Detail)
	if reading.Advice != "" {
		fmt.Fprintf(&b, "\n\n🕯 Совет ворожеи: %s", reading.Advice)
	}
	if h.cfg.IsVIP(userID) {
		b.WriteString("\n\n✨ Для дорогого гостя — вне очереди и без платы~")
	}

	h.sendMessage(chatID, b.String())
}

func usageText() string {
	return "Назови свой знак, гость дорогой: !гадание <знак>\n" +
		"Я знаю такие: " + strings.Join(SignNames(), ", ") + "."
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}
