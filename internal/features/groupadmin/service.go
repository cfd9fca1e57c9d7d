package groupadmin

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/common"
	"vorozheya.ru/telegram-bot/internal/config"
)

// LevelProvider сообщает уровень доверия гостя для разбора заявок.
// Второе значение — false, если уровень неизвестен.
type LevelProvider func(userID int64) (int, bool)

// Service — правила управления лавкой поверх репозитория.
type Service struct {
	repo   *Repository
	cfg    *config.Config
	loc    *time.Location
	levels LevelProvider

	mu      sync.Mutex
	tickets map[string]JoinTicket // билет -> заявка
}

// NewService создаёт сервис управления.
func NewService(repo *Repository, cfg *config.Config, loc *time.Location) *Service {
	return &Service{
		repo:    repo,
		cfg:     cfg,
		loc:     loc,
		tickets: make(map[string]JoinTicket),
	}
}

// IsAdmin — хозяйка и её советники.
func (s *Service) IsAdmin(userID int64) bool {
	if userID == s.cfg.OwnerID {
		return true
	}
	for _, id := range s.repo.State().Delegates {
		if id == userID {
			return true
		}
	}
	return false
}

// PermissionMode — включён ли режим заставы.
func (s *Service) PermissionMode() bool {
	return s.repo.State().PermissionMode
}

// ApproveMode — включён ли дозор заявок.
func (s *Service) ApproveMode() bool {
	return s.repo.State().ApproveMode
}

// SetPermissionMode включает или выключает режим заставы.
func (s *Service) SetPermissionMode(ctx context.Context, on bool) error {
	return s.repo.UpdateState(func(st *RuntimeState) error {
		st.PermissionMode = on
		return nil
	})
}

// SetApproveMode включает или выключает дозор заявок.
func (s *Service) SetApproveMode(ctx context.Context, on bool) error {
	return s.repo.UpdateState(func(st *RuntimeState) error {
		st.ApproveMode = on
		return nil
	})
}

// AddDelegate назначает советника. Мест всего два.
func (s *Service) AddDelegate(ctx context.Context, userID int64) error {
	return s.repo.UpdateState(func(st *RuntimeState) error {
		for _, id := range st.Delegates {
			if id == userID {
				return nil // уже советник
			}
		}
		if len(st.Delegates) >= MaxDelegates {
			return common.ErrDelegatesFull
		}
		st.Delegates = append(st.Delegates, userID)
		return nil
	})
}

// RemoveDelegate снимает советника с должности.
func (s *Service) RemoveDelegate(ctx context.Context, userID int64) error {
	return s.repo.UpdateState(func(st *RuntimeState) error {
		for i, id := range st.Delegates {
			if id == userID {
				st.Delegates = append(st.Delegates[:i], st.Delegates[i+1:]...)
				return nil
			}
		}
		return common.ErrNotDelegate
	})
}

// Delegates возвращает список советников.
func (s *Service) Delegates() []int64 {
	return s.repo.State().Delegates
}

// GroupSettings возвращает настройки группы.
func (s *Service) GroupSettings(chatID int64) GroupSettings {
	return s.repo.GroupSettings(chatID)
}

// IsBlacklisted — изгнан ли гость из лавки.
func (s *Service) IsBlacklisted(userID int64) bool {
	for _, id := range s.repo.BlockList().UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// IsWhitelisted — под покровительством ли гость.
func (s *Service) IsWhitelisted(userID int64) bool {
	for _, id := range s.repo.AllowList().UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// BlacklistAdd изгоняет гостя.
func (s *Service) BlacklistAdd(ctx context.Context, userID int64) error {
	return s.repo.UpdateBlockList(func(bl *BlockList) error {
		for _, id := range bl.UserIDs {
			if id == userID {
				return nil
			}
		}
		bl.UserIDs = append(bl.UserIDs, userID)
		return nil
	})
}

// BlacklistRemove милует изгнанника.
func (s *Service) BlacklistRemove(ctx context.Context, userID int64) error {
	return s.repo.UpdateBlockList(func(bl *BlockList) error {
		bl.UserIDs = removeID(bl.UserIDs, userID)
		return nil
	})
}

// WhitelistAdd берёт гостя под покровительство.
func (s *Service) WhitelistAdd(ctx context.Context, userID int64) error {
	return s.repo.UpdateAllowList(func(al *AllowList) error {
		for _, id := range al.UserIDs {
			if id == userID {
				return nil
			}
		}
		al.UserIDs = append(al.UserIDs, userID)
		return nil
	})
}

// WhitelistRemove лишает покровительства.
func (s *Service) WhitelistRemove(ctx context.Context, userID int64) error {
	return s.repo.UpdateAllowList(func(al *AllowList) error {
		al.UserIDs = removeID(al.UserIDs, userID)
		return nil
	})
}

// WordAdd добавляет запретное слово.
func (s *Service) WordAdd(ctx context.Context, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return common.ErrBadArgument
	}
	return s.repo.UpdateBlockList(func(bl *BlockList) error {
		for _, w := range bl.Words {
			if w == word {
				return nil
			}
		}
		bl.Words = append(bl.Words, word)
		return nil
	})
}

// WordRemove прощает запретное слово.
func (s *Service) WordRemove(ctx context.Context, word string) error {
	word = strings.ToLower(strings.TrimSpace(word))
	return s.repo.UpdateBlockList(func(bl *BlockList) error {
		for i, w := range bl.Words {
			if w == word {
				bl.Words = append(bl.Words[:i], bl.Words[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// RuleAdd добавляет ключевое слово для автоприёма заявок.
func (s *Service) RuleAdd(ctx context.Context, keyword string) error {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return common.ErrBadArgument
	}
	return s.repo.UpdateRules(func(r *ApproveRules) error {
		for _, k := range r.Keywords {
			if k == keyword {
				return nil
			}
		}
		r.Keywords = append(r.Keywords, keyword)
		return nil
	})
}

// FindBlockedWord ищет в тексте запретное слово. Регистр не важен.
func (s *Service) FindBlockedWord(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, w := range s.repo.BlockList().Words {
		if strings.Contains(lower, w) {
			return w, true
		}
	}
	return "", false
}

// LogViolation записывает нарушение в журнал.
func (s *Service) LogViolation(ctx context.Context, userID, chatID int64, word, text string) {
	now := time.Now().In(s.loc)
	v := Violation{
		UserID: userID,
		ChatID: chatID,
		Word:   word,
		Text:   text,
		Date:   common.DateString(now),
		Time:   common.TimeString(now),
	}
	if err := s.repo.AppendViolation(v); err != nil {
		log.WithError(err).Error("Не удалось записать нарушение")
	}
}

// SetLevelProvider подключает внешний источник уровней доверия.
// Без него заявки разбираются только по спискам и ключевым словам.
func (s *Service) SetLevelProvider(fn LevelProvider) {
	s.levels = fn
}

// EvaluateJoinRequest решает судьбу заявки.
// Порядок: чёрный список → белый список → уровень доверия → ключевые слова.
func (s *Service) EvaluateJoinRequest(ticket JoinTicket) JoinVerdict {
	if s.IsBlacklisted(ticket.UserID) {
		return VerdictDecline
	}
	if s.IsWhitelisted(ticket.UserID) {
		return VerdictApprove
	}

	rules := s.repo.Rules()

	if s.levels != nil {
		if level, ok := s.levels(ticket.UserID); ok {
			for _, l := range rules.LevelDeny {
				if l == level {
					return VerdictDecline
				}
			}
			for _, l := range rules.LevelAllow {
				if l == level {
					return VerdictApprove
				}
			}
		}
	}

	comment := strings.ToLower(ticket.Comment)
	for _, k := range rules.Keywords {
		if strings.Contains(comment, k) {
			return VerdictApprove
		}
	}
	return VerdictForward
}

// IssueTicket запоминает заявку и выдаёт короткий билет для ответа.
func (s *Service) IssueTicket(ticket JoinTicket) string {
	id := uuid.NewString()[:8]
	s.mu.Lock()
	s.tickets[id] = ticket
	s.mu.Unlock()
	return id
}

// TakeTicket забирает заявку по билету. Билет одноразовый.
func (s *Service) TakeTicket(id string) (JoinTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return JoinTicket{}, fmt.Errorf("билет %q не найден: %w", id, common.ErrBadArgument)
	}
	delete(s.tickets, id)
	return ticket, nil
}

func removeID(ids []int64, target int64) []int64 {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
