// Package groupadmin — управление лавкой: доверенные помощники,
// чёрные и белые списки, заявки на вступление, нарушения.
package groupadmin

// Максимум доверенных помощников у хозяйки.
const MaxDelegates = 2

// RuntimeState — изменяемое на лету состояние лавки.
// Конфиг из окружения перезаписать нельзя, поэтому эти
// переключатели живут в отдельном документе.
type RuntimeState struct {
	Delegates      []int64 `json:"delegates"`
	PermissionMode bool    `json:"permission_mode"`
	ApproveMode    bool    `json:"approve_mode"`
}

// BlockList — чёрный список: изгнанные гости и запретные слова.
type BlockList struct {
	UserIDs []int64  `json:"user_ids"`
	Words   []string `json:"words"`
}

// AllowList — белый список гостей под покровительством.
type AllowList struct {
	UserIDs []int64 `json:"user_ids"`
}

// GroupSettings — настройки одной группы.
type GroupSettings struct {
	Welcome           string `json:"welcome"`
	CheckinEnabled    bool   `json:"checkin_enabled"`
	DivinationEnabled bool   `json:"divination_enabled"`
}

// ApproveRules — правила автоматического разбора заявок.
// Уровни доверия опрашиваются у внешнего источника (LevelProvider);
// без него работают только списки гостей и ключевые слова.
type ApproveRules struct {
	LevelAllow []int    `json:"level_allow"`
	LevelDeny  []int    `json:"level_deny"`
	Keywords   []string `json:"keywords"`
}

// Violation — запись о нарушении в журнале.
type Violation struct {
	UserID int64  `json:"user_id"`
	ChatID int64  `json:"chat_id"`
	Word   string `json:"word"`
	Text   string `json:"text"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

// JoinTicket — заявка на вступление, ожидающая решения хозяйки.
type JoinTicket struct {
	UserID  int64
	ChatID  int64
	Name    string
	Comment string
}

// JoinVerdict — решение по заявке.
type JoinVerdict int

const (
	// VerdictForward — автоматика не справилась, зовём хозяйку.
	VerdictForward JoinVerdict = iota
	// VerdictApprove — впускаем сразу.
	VerdictApprove
	// VerdictDecline — отказываем сразу.
	VerdictDecline
)
