package groupadmin

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/common"
)

// defaultWelcome — приветствие новому гостю, %s заменяется упоминанием.
const defaultWelcome = "Добро пожаловать в лавку, %s! Проходи, осматривайся.\n" +
	"Скажи !подсказка — расскажу, что здесь к чему."

// Handler обрабатывает личные команды хозяйки и события группы.
type Handler struct {
	service *Service
	guard   *ShutdownGuard
	vocab   *Vocabulary
	bot     *tgbotapi.BotAPI

	// requestShutdown останавливает бота после подтверждения кода.
	requestShutdown func()
}

// NewHandler создаёт обработчик управления.
func NewHandler(service *Service, guard *ShutdownGuard, vocab *Vocabulary, bot *tgbotapi.BotAPI, requestShutdown func()) *Handler {
	return &Handler{
		service:         service,
		guard:           guard,
		vocab:           vocab,
		bot:             bot,
		requestShutdown: requestShutdown,
	}
}

// Service открывает сервис управления другим пакетам.
func (h *Handler) Service() *Service {
	return h.service
}

// HandleAdminMessage разбирает личное сообщение по словарю хозяйки.
// Возвращает true, если сообщение было командой словаря.
// Для посторонних — молчание: лавка не выдаёт своих секретов.
func (h *Handler) HandleAdminMessage(ctx context.Context, userID int64, text string) bool {
	if !h.service.IsAdmin(userID) {
		return false
	}

	action, rest, ok := h.vocab.Match(text)
	if !ok {
		return false
	}

	log.WithFields(log.Fields{
		"user_id": userID,
		"action":  action,
	}).Info("Команда хозяйки")

	switch action {
	case ActionDelegateAdd:
		h.withUserID(userID, rest, func(id int64) {
			err := h.service.AddDelegate(ctx, id)
			switch {
			case errors.Is(err, common.ErrDelegatesFull):
				h.sendMessage(userID, "У меня уже два советника, больше не потяну.")
			case err != nil:
				h.reportError(userID, err)
			default:
				h.sendMessage(userID, fmt.Sprintf("Назначила советником гостя %d.", id))
			}
		})
	case ActionDelegateRemove:
		h.withUserID(userID, rest, func(id int64) {
			err := h.service.RemoveDelegate(ctx, id)
			switch {
			case errors.Is(err, common.ErrNotDelegate):
				h.sendMessage(userID, "Этот гость и не был советником.")
			case err != nil:
				h.reportError(userID, err)
			default:
				h.sendMessage(userID, fmt.Sprintf("Сняла с должности гостя %d.", id))
			}
		})
	case ActionApproveOn:
		h.toggle(ctx, userID, h.service.SetApproveMode, true, "Дозор у ворот выставлен: заявки разбираю сама.")
	case ActionApproveOff:
		h.toggle(ctx, userID, h.service.SetApproveMode, false, "Дозор снят, заявки меня больше не касаются.")
	case ActionPermissionOn:
		h.toggle(ctx, userID, h.service.SetPermissionMode, true, "Застава поднята: командую в группе только для своих.")
	case ActionPermissionOff:
		h.toggle(ctx, userID, h.service.SetPermissionMode, false, "Застава опущена, лавка открыта всем.")
	case ActionMute:
		h.handleMute(userID, rest)
	case ActionRelay:
		h.handleRelay(userID, rest)
	case ActionBlacklistAdd:
		h.withUserID(userID, rest, func(id int64) {
			if err := h.service.BlacklistAdd(ctx, id); err != nil {
				h.reportError(userID, err)
				return
			}
			h.sendMessage(userID, fmt.Sprintf("Гость %d изгнан из лавки.", id))
		})
	case ActionBlacklistRemove:
		h.withUserID(userID, rest, func(id int64) {
			if err := h.service.BlacklistRemove(ctx, id); err != nil {
				h.reportError(userID, err)
				return
			}
			h.sendMessage(userID, fmt.Sprintf("Гость %d помилован.", id))
		})
	case ActionWhitelistAdd:
		h.withUserID(userID, rest, func(id int64) {
			if err := h.service.WhitelistAdd(ctx, id); err != nil {
				h.reportError(userID, err)
				return
			}
			h.sendMessage(userID, fmt.Sprintf("Гость %d под моим покровительством.", id))
		})
	case ActionWhitelistRemove:
		h.withUserID(userID, rest, func(id int64) {
			if err := h.service.WhitelistRemove(ctx, id); err != nil {
				h.reportError(userID, err)
				return
			}
			h.sendMessage(userID, fmt.Sprintf("Гость %d лишён покровительства.", id))
		})
	case ActionWordAdd:
		err := h.service.WordAdd(ctx, rest)
		switch {
		case errors.Is(err, common.ErrBadArgument):
			h.sendMessage(userID, "Какое слово запрещаем? Напиши: запрет <слово>")
		case err != nil:
			h.reportError(userID, err)
		default:
			h.sendMessage(userID, fmt.Sprintf("Слово «%s» отныне под запретом.", strings.TrimSpace(rest)))
		}
	case ActionWordRemove:
		if err := h.service.WordRemove(ctx, rest); err != nil {
			h.reportError(userID, err)
			return true
		}
		h.sendMessage(userID, fmt.Sprintf("Слово «%s» прощено.", strings.TrimSpace(rest)))
	case ActionRuleAdd:
		err := h.service.RuleAdd(ctx, rest)
		switch {
		case errors.Is(err, common.ErrBadArgument):
			h.sendMessage(userID, "Какое слово впускает гостей? Напиши: правило <слово>")
		case err != nil:
			h.reportError(userID, err)
		default:
			h.sendMessage(userID, fmt.Sprintf("Заявки со словом «%s» буду впускать сама.", strings.TrimSpace(rest)))
		}
	case ActionMenu:
		h.sendMessage(userID, h.menuText())
	case ActionShutdown:
		h.handleShutdownRequest(userID, rest)
	case ActionJoinApprove:
		h.handleJoinDecision(userID, rest, true)
	case ActionJoinDecline:
		h.handleJoinDecision(userID, rest, false)
	}

	return true
}

// HandleJoinRequest разбирает заявку на вступление в группу.
func (h *Handler) HandleJoinRequest(ctx context.Context, req *tgbotapi.ChatJoinRequest) {
	if !h.service.ApproveMode() {
		return
	}

	ticket := JoinTicket{
		UserID:  req.From.ID,
		ChatID:  req.Chat.ID,
		Name:    strings.TrimSpace(req.From.FirstName + " " + req.From.LastName),
		Comment: req.Bio,
	}

	switch h.service.EvaluateJoinRequest(ticket) {
	case VerdictApprove:
		h.approveJoin(ticket)
	case VerdictDecline:
		h.declineJoin(ticket)
	case VerdictForward:
		id := h.service.IssueTicket(ticket)
		text := fmt.Sprintf(
			"🚪 У ворот гость: %s (id %d).\nСлово при входе: «%s»\n\n"+
				"Ответь «принять %s» или «отклонить %s».",
			ticket.Name, ticket.UserID, ticket.Comment, id, id,
		)
		h.notifyAdmins(text)
	}
}

// HandleMemberJoin приветствует нового гостя.
func (h *Handler) HandleMemberJoin(ctx context.Context, chatID int64, user *tgbotapi.User) {
	settings := h.service.GroupSettings(chatID)
	welcome := settings.Welcome
	if welcome == "" {
		welcome = defaultWelcome
	}

	mention := fmt.Sprintf("[%s](tg://user?id=%d)", user.FirstName, user.ID)
	msg := tgbotapi.NewMessage(chatID, renderWelcome(welcome, mention))
	msg.ParseMode = tgbotapi.ModeMarkdown
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки приветствия")
	}
}

// renderWelcome подставляет упоминание гостя в шаблон приветствия.
// Операторский шаблон без %s отправляем без Sprintf — иначе в группу
// полетит мусор вида %!(EXTRA ...).
func renderWelcome(welcome, mention string) string {
	if strings.Contains(welcome, "%s") {
		return strings.Replace(welcome, "%s", mention, 1)
	}
	return mention + "\n" + welcome
}

// HandleMemberLeave провожает ушедшего гостя.
func (h *Handler) HandleMemberLeave(ctx context.Context, chatID int64, user *tgbotapi.User) {
	text := fmt.Sprintf("Гость %s покинул лавку. Дверь за ним закрылась…", user.FirstName)
	h.sendMessage(chatID, text)
}

// CheckBlockedWords проверяет сообщение группы на запретные слова.
// Нарушение: сообщение удаляется, гостю выносится предупреждение,
// запись уходит в журнал. Хозяйка и советники вне подозрений.
// Возвращает true, если сообщение было удалено.
func (h *Handler) CheckBlockedWords(ctx context.Context, msg *tgbotapi.Message) bool {
	if h.service.IsAdmin(msg.From.ID) {
		return false
	}

	word, found := h.service.FindBlockedWord(msg.Text)
	if !found {
		return false
	}

	if _, err := h.bot.Request(tgbotapi.NewDeleteMessage(msg.Chat.ID, msg.MessageID)); err != nil {
		log.WithError(err).Warn("Не удалось удалить сообщение с запретным словом")
	}

	warning := fmt.Sprintf(
		"⚠️ %s, в моей лавке такие слова не звучат. Сообщение убрано, нарушение записано.",
		msg.From.FirstName,
	)
	h.sendMessage(msg.Chat.ID, warning)

	h.service.LogViolation(ctx, msg.From.ID, msg.Chat.ID, word, msg.Text)
	return true
}

// ReportUnauthorized сообщает хозяйке о команде постороннего при заставе.
func (h *Handler) ReportUnauthorized(userID, chatID int64, text string) {
	h.notifyAdmins(fmt.Sprintf(
		"🛡 Застава: гость %d в чате %d пытался командовать: «%s»",
		userID, chatID, text,
	))
}

func (h *Handler) handleMute(adminID int64, rest string) {
	fields := strings.Fields(rest)
	if len(fields) != 2 {
		h.sendMessage(adminID, "Напиши так: тишина <id гостя> <минут>")
		return
	}
	targetID, err1 := strconv.ParseInt(fields[0], 10, 64)
	minutes, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil || minutes <= 0 {
		h.sendMessage(adminID, "Напиши так: тишина <id гостя> <минут>")
		return
	}

	restrict := tgbotapi.RestrictChatMemberConfig{
		ChatMemberConfig: tgbotapi.ChatMemberConfig{
			ChatID: h.service.cfg.GroupChatID,
			UserID: targetID,
		},
		UntilDate: time.Now().Add(time.Duration(minutes) * time.Minute).Unix(),
		Permissions: &tgbotapi.ChatPermissions{
			CanSendMessages: false,
		},
	}
	if _, err := h.bot.Request(restrict); err != nil {
		log.WithError(err).Error("Не удалось заглушить гостя")
		h.reportError(adminID, err)
		return
	}
	h.sendMessage(adminID, fmt.Sprintf("Гость %d помолчит %d %s.", targetID, minutes, minutesWord(minutes)))
}

func (h *Handler) handleRelay(adminID int64, rest string) {
	fields := strings.SplitN(rest, " ", 2)
	if len(fields) != 2 || strings.TrimSpace(fields[1]) == "" {
		h.sendMessage(adminID, "Напиши так: шепот <id гостя> <текст>")
		return
	}
	targetID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		h.sendMessage(adminID, "Напиши так: шепот <id гостя> <текст>")
		return
	}

	h.sendMessage(targetID, "🕯 Ворожея шепчет: "+strings.TrimSpace(fields[1]))
	h.sendMessage(adminID, "Передала.")
}

func (h *Handler) handleShutdownRequest(adminID int64, rest string) {
	rest = strings.TrimSpace(rest)

	// "затвор" без кода взводит страж, "затвор <код>" подтверждает.
	// Код уходит только хозяйке: советник в одиночку лавку не закроет.
	if rest == "" {
		code, err := h.guard.Arm()
		if err != nil {
			h.reportError(adminID, err)
			return
		}
		ownerID := h.service.cfg.OwnerID
		h.sendMessage(ownerID, fmt.Sprintf(
			"Закрываем лавку? Код действует десять минут: затвор %s", code,
		))
		if adminID != ownerID {
			h.sendMessage(adminID, "Запрос принят, код подтверждения отправлен хозяйке лавки.")
		}
		return
	}

	if err := h.guard.Confirm(rest); err != nil {
		h.sendMessage(adminID, "Код не подходит или устарел. Начни заново: затвор")
		return
	}

	h.sendMessage(adminID, "Лавка закрывается. Свечи потушены, до встречи…")
	log.WithField("user_id", adminID).Warn("Остановка по команде хозяйки")
	h.requestShutdown()
}

func (h *Handler) handleJoinDecision(adminID int64, rest string, approve bool) {
	ticket, err := h.service.TakeTicket(strings.TrimSpace(rest))
	if err != nil {
		h.sendMessage(adminID, "Такого билета нет. Может, кто-то уже решил судьбу гостя?")
		return
	}

	if approve {
		h.approveJoin(ticket)
		h.sendMessage(adminID, fmt.Sprintf("Впустила гостя %s.", ticket.Name))
		return
	}
	h.declineJoin(ticket)
	h.sendMessage(adminID, fmt.Sprintf("Отказала гостю %s.", ticket.Name))
}

func (h *Handler) approveJoin(ticket JoinTicket) {
	cfg := tgbotapi.ApproveChatJoinRequestConfig{
		ChatConfig: tgbotapi.ChatConfig{ChatID: ticket.ChatID},
		UserID:     ticket.UserID,
	}
	if _, err := h.bot.Request(cfg); err != nil {
		log.WithError(err).WithField("user_id", ticket.UserID).Error("Не удалось принять заявку")
	}
}

func (h *Handler) declineJoin(ticket JoinTicket) {
	cfg := tgbotapi.DeclineChatJoinRequest{
		ChatConfig: tgbotapi.ChatConfig{ChatID: ticket.ChatID},
		UserID:     ticket.UserID,
	}
	if _, err := h.bot.Request(cfg); err != nil {
		log.WithError(err).WithField("user_id", ticket.UserID).Error("Не удалось отклонить заявку")
	}
}

func (h *Handler) menuText() string {
	var b strings.Builder
	b.WriteString("📜 Свиток хозяйки:\n\n")
	b.WriteString("советник <id> / отставка <id> — назначить или снять советника\n")
	b.WriteString("дозор / отбой — разбор заявок вкл/выкл\n")
	b.WriteString("застава / врата — команды только для своих вкл/выкл\n")
	b.WriteString("тишина <id> <мин> — заглушить гостя\n")
	b.WriteString("шепот <id> <текст> — передать слово гостю\n")
	b.WriteString("изгнание <id> / помилование <id> — чёрный список\n")
	b.WriteString("покровительство <id> / отречение <id> — белый список\n")
	b.WriteString("запрет <слово> / прощение <слово> — запретные слова\n")
	b.WriteString("правило <слово> — впускать заявки с этим словом\n")
	b.WriteString("затвор — закрыть лавку (с подтверждением)")
	return b.String()
}

// withUserID разбирает аргумент-идентификатор и вызывает fn.
func (h *Handler) withUserID(adminID int64, arg string, fn func(int64)) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil {
		h.sendMessage(adminID, "Нужен числовой id гостя.")
		return
	}
	fn(id)
}

func (h *Handler) toggle(ctx context.Context, adminID int64, set func(context.Context, bool) error, on bool, reply string) {
	if err := set(ctx, on); err != nil {
		h.reportError(adminID, err)
		return
	}
	h.sendMessage(adminID, reply)
}

func (h *Handler) notifyAdmins(text string) {
	h.sendMessage(h.service.cfg.OwnerID, text)
	for _, id := range h.service.Delegates() {
		h.sendMessage(id, text)
	}
}

func (h *Handler) reportError(chatID int64, err error) {
	log.WithError(err).Error("Ошибка команды хозяйки")
	h.sendMessage(chatID, "Что-то пошло не так, загляни в журналы.")
}

func (h *Handler) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := h.bot.Send(msg); err != nil {
		log.WithError(err).Error("Ошибка отправки сообщения")
	}
}

func minutesWord(n int) string {
	n %= 100
	if n >= 11 && n <= 14 {
		return "минут"
	}
	switch n % 10 {
	case 1:
		return "минуту"
	case 2, 3, 4:
		return "минуты"
	default:
		return "минут"
	}
}
