package groupadmin

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"vorozheya.ru/telegram-bot/internal/storage"
)

// Action — что делает команда словаря хозяйки.
type Action string

const (
	ActionDelegateAdd     Action = "delegate_add"
	ActionDelegateRemove  Action = "delegate_remove"
	ActionApproveOn       Action = "approve_on"
	ActionApproveOff      Action = "approve_off"
	ActionPermissionOn    Action = "permission_on"
	ActionPermissionOff   Action = "permission_off"
	ActionMute            Action = "mute"
	ActionRelay           Action = "relay"
	ActionBlacklistAdd    Action = "blacklist_add"
	ActionBlacklistRemove Action = "blacklist_remove"
	ActionWhitelistAdd    Action = "whitelist_add"
	ActionWhitelistRemove Action = "whitelist_remove"
	ActionWordAdd         Action = "word_add"
	ActionWordRemove      Action = "word_remove"
	ActionRuleAdd         Action = "rule_add"
	ActionMenu            Action = "menu"
	ActionShutdown        Action = "shutdown"
	ActionJoinApprove     Action = "join_approve"
	ActionJoinDecline     Action = "join_decline"
)

// VocabEntry — одна строка словаря: фраза-триггер и действие.
type VocabEntry struct {
	Phrase string `json:"phrase"`
	Action Action `json:"action"`
}

// DefaultVocabulary — словарь хозяйки из коробки. Порядок важен:
// при совпадении нескольких фраз берётся самая длинная.
var DefaultVocabulary = []VocabEntry{
	{Phrase: "советник", Action: ActionDelegateAdd},
	{Phrase: "отставка", Action: ActionDelegateRemove},
	{Phrase: "дозор", Action: ActionApproveOn},
	{Phrase: "отбой", Action: ActionApproveOff},
	{Phrase: "застава", Action: ActionPermissionOn},
	{Phrase: "врата", Action: ActionPermissionOff},
	{Phrase: "тишина", Action: ActionMute},
	{Phrase: "шепот", Action: ActionRelay},
	{Phrase: "изгнание", Action: ActionBlacklistAdd},
	{Phrase: "помилование", Action: ActionBlacklistRemove},
	{Phrase: "покровительство", Action: ActionWhitelistAdd},
	{Phrase: "отречение", Action: ActionWhitelistRemove},
	{Phrase: "запрет", Action: ActionWordAdd},
	{Phrase: "прощение", Action: ActionWordRemove},
	{Phrase: "правило", Action: ActionRuleAdd},
	{Phrase: "свиток", Action: ActionMenu},
	{Phrase: "затвор", Action: ActionShutdown},
	{Phrase: "принять", Action: ActionJoinApprove},
	{Phrase: "отклонить", Action: ActionJoinDecline},
}

// Vocabulary — загруженный словарь команд хозяйки.
type Vocabulary struct {
	entries []VocabEntry
}

// LoadVocabulary читает словарь из admin_vocabulary.json; если файла
// нет — записывает словарь по умолчанию, чтобы его было удобно править.
func LoadVocabulary(dataDir string) (*Vocabulary, error) {
	doc := storage.NewDocument(dataDir, "admin_vocabulary.json", func() []VocabEntry { return nil })
	entries := doc.Load()
	if len(entries) == 0 {
		entries = DefaultVocabulary
		if err := doc.Save(entries); err != nil {
			return nil, err
		}
		log.WithField("path", doc.Path()).Info("Словарь хозяйки записан по умолчанию")
	}
	return &Vocabulary{entries: entries}, nil
}

// Match ищет фразу словаря в начале текста. При нескольких совпадениях
// выигрывает самая длинная фраза. Возвращает действие и остаток текста.
func (v *Vocabulary) Match(text string) (Action, string, bool) {
	text = strings.TrimSpace(text)
	lower := strings.ToLower(text)

	var best VocabEntry
	for _, entry := range v.entries {
		phrase := strings.ToLower(entry.Phrase)
		if !strings.HasPrefix(lower, phrase) {
			continue
		}
		// Фраза должна кончаться на границе слова.
		if len(lower) > len(phrase) && lower[len(phrase)] != ' ' {
			continue
		}
		if len(entry.Phrase) > len(best.Phrase) {
			best = entry
		}
	}
	if best.Phrase == "" {
		return "", "", false
	}

	rest := strings.TrimSpace(text[len(best.Phrase):])
	return best.Action, rest, true
}
