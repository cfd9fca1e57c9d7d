package groupadmin

import (
	"strconv"

	"vorozheya.ru/telegram-bot/internal/storage"
)

// Repository хранит документы управления лавкой.
type Repository struct {
	state      *storage.Document[RuntimeState]
	blocklist  *storage.Document[BlockList]
	allowlist  *storage.Document[AllowList]
	settings   *storage.Document[map[string]GroupSettings]
	rules      *storage.Document[ApproveRules]
	violations *storage.Document[[]Violation]
}

// NewRepository создаёт репозиторий документов в каталоге данных.
func NewRepository(dataDir string) *Repository {
	return &Repository{
		state: storage.NewDocument(dataDir, "runtime_state.json",
			func() RuntimeState { return RuntimeState{} }),
		blocklist: storage.NewDocument(dataDir, "blocklist.json",
			func() BlockList { return BlockList{} }),
		allowlist: storage.NewDocument(dataDir, "allowlist.json",
			func() AllowList { return AllowList{} }),
		settings: storage.NewDocument(dataDir, "group_settings.json",
			func() map[string]GroupSettings { return make(map[string]GroupSettings) }),
		rules: storage.NewDocument(dataDir, "approve_rules.json",
			func() ApproveRules { return ApproveRules{} }),
		violations: storage.NewDocument(dataDir, "violations.json",
			func() []Violation { return nil }),
	}
}

// State возвращает текущее изменяемое состояние.
func (r *Repository) State() RuntimeState {
	return r.state.Load()
}

// UpdateState изменяет состояние под замком документа.
func (r *Repository) UpdateState(fn func(*RuntimeState) error) error {
	return r.state.Update(fn)
}

// BlockList возвращает чёрный список.
func (r *Repository) BlockList() BlockList {
	return r.blocklist.Load()
}

// UpdateBlockList изменяет чёрный список.
func (r *Repository) UpdateBlockList(fn func(*BlockList) error) error {
	return r.blocklist.Update(fn)
}

// AllowList возвращает белый список.
func (r *Repository) AllowList() AllowList {
	return r.allowlist.Load()
}

// UpdateAllowList изменяет белый список.
func (r *Repository) UpdateAllowList(fn func(*AllowList) error) error {
	return r.allowlist.Update(fn)
}

// GroupSettings возвращает настройки группы или настройки по умолчанию.
func (r *Repository) GroupSettings(chatID int64) GroupSettings {
	all := r.settings.Load()
	if s, ok := all[strconv.FormatInt(chatID, 10)]; ok {
		return s
	}
	return GroupSettings{
		Welcome:           defaultWelcome,
		CheckinEnabled:    true,
		DivinationEnabled: true,
	}
}

// Rules возвращает правила разбора заявок.
func (r *Repository) Rules() ApproveRules {
	return r.rules.Load()
}

// UpdateRules изменяет правила разбора заявок.
func (r *Repository) UpdateRules(fn func(*ApproveRules) error) error {
	return r.rules.Update(fn)
}

// AppendViolation дописывает запись в журнал нарушений.
func (r *Repository) AppendViolation(v Violation) error {
	return r.violations.Update(func(list *[]Violation) error {
		*list = append(*list, v)
		return nil
	})
}

// Violations возвращает журнал нарушений.
func (r *Repository) Violations() []Violation {
	return r.violations.Load()
}
