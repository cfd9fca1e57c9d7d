// Package divination — signs.go содержит справочник знаков зодиака.
package divination

import (
	"fmt"
	"strings"

	"vorozheya.ru/telegram-bot/internal/common"
)

// Sign — знак зодиака с границами дат (месяц, день).
type Sign struct {
	Name      string
	FromMonth int
	FromDay   int
	ToMonth   int
	ToDay     int
}

// Signs — все двенадцать знаков по порядку года.
var Signs = []Sign{
	{"Овен", 3, 21, 4, 19},
	{"Телец", 4, 20, 5, 20},
	{"Близнецы", 5, 21, 6, 21},
	{"Рак", 6, 22, 7, 22},
	{"Лев", 7, 23, 8, 22},
	{"Дева", 8, 23, 9, 22},
	{"Весы", 9, 23, 10, 23},
	{"Скорпион", 10, 24, 11, 22},
	{"Стрелец", 11, 23, 12, 21},
	{"Козерог", 12, 22, 1, 19},
	{"Водолей", 1, 20, 2, 18},
	{"Рыбы", 2, 19, 3, 20},
}

// NormalizeSign приводит ввод пользователя к каноническому имени знака.
// Неопознанный ввод — common.ErrUnknownSign.
func NormalizeSign(input string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(input))
	for _, s := range Signs {
		if strings.ToLower(s.Name) == lower {
			return s.Name, nil
		}
	}
	return "", fmt.Errorf("знак %q: %w", input, common.ErrUnknownSign)
}

// SignNames возвращает имена всех знаков по порядку.
func SignNames() []string {
	names := make([]string, len(Signs))
	for i, s := range Signs {
		names[i] = s.Name
	}
	return names
}
