package groupadmin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVocabulary_Match(t *testing.T) {
	v := &Vocabulary{entries: DefaultVocabulary}

	tests := []struct {
		name   string
		input  string
		action Action
		rest   string
		found  bool
	}{
		{"фраза с аргументом", "изгнание 12345", ActionBlacklistAdd, "12345", true},
		{"фраза без аргумента", "свиток", ActionMenu, "", true},
		{"регистр не важен", "Дозор", ActionApproveOn, "", true},
		{"лишние пробелы", "  тишина 42 10  ", ActionMute, "42 10", true},
		{"не с начала строки", "а ну изгнание 1", "", "", false},
		{"склеенное слово не считается", "изгнание12345", "", "", false},
		{"незнакомая фраза", "чаю налей", "", "", false},
		{"пустая строка", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, rest, found := v.Match(tt.input)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.action, action)
			assert.Equal(t, tt.rest, rest)
		})
	}
}

func TestVocabulary_LongestPhraseWins(t *testing.T) {
	v := &Vocabulary{entries: []VocabEntry{
		{Phrase: "запрет", Action: ActionWordAdd},
		{Phrase: "запрет навсегда", Action: ActionBlacklistAdd},
	}}

	action, rest, found := v.Match("запрет навсегда 77")
	require.True(t, found)
	assert.Equal(t, ActionBlacklistAdd, action)
	assert.Equal(t, "77", rest)

	action, rest, found = v.Match("запрет слово")
	require.True(t, found)
	assert.Equal(t, ActionWordAdd, action)
	assert.Equal(t, "слово", rest)
}

func TestLoadVocabulary_WritesDefaultsOnFirstRun(t *testing.T) {
	dir := t.TempDir()

	v, err := LoadVocabulary(dir)
	require.NoError(t, err)
	require.Len(t, v.entries, len(DefaultVocabulary))

	// Файл создан и при правке подхватывается вместо словаря по умолчанию.
	path := filepath.Join(dir, "admin_vocabulary.json")
	_, err = os.Stat(path)
	require.NoError(t, err)

	custom := `[{"phrase": "закрыть лавку", "action": "shutdown"}]`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0644))

	v2, err := LoadVocabulary(dir)
	require.NoError(t, err)
	require.Len(t, v2.entries, 1)

	action, _, found := v2.Match("закрыть лавку")
	require.True(t, found)
	assert.Equal(t, ActionShutdown, action)
}
