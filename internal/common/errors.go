// Package common — errors.go определяет пользовательские ошибки,
// которые используются во всех модулях бота.
// Обработчики различают их через errors.Is и отвечают пользователю
// своим шаблонным сообщением, а не текстом ошибки.
package common

import "errors"

// Ошибки ежедневной отметки
var (
	// ErrAlreadyCheckedIn — сегодня отметка уже поставлена
	ErrAlreadyCheckedIn = errors.New("сегодня уже отмечался")
	// ErrBlackout — ночное окно, отметка недоступна
	ErrBlackout = errors.New("ночью лавка закрыта")
)

// Ошибки гадания
var (
	// ErrUnknownSign — неизвестный знак зодиака
	ErrUnknownSign = errors.New("неизвестный знак зодиака")
)

// Ошибки админ-команд
var (
	// ErrDelegatesFull — советников уже двое
	ErrDelegatesFull = errors.New("советников уже двое, больше нельзя")
	// ErrNotDelegate — пользователь не значится советником
	ErrNotDelegate = errors.New("этот человек не советник")
	// ErrBadArgument — аргумент команды не разобран
	ErrBadArgument = errors.New("некорректный аргумент команды")
	// ErrWrongCode — код подтверждения не совпал или истёк
	ErrWrongCode = errors.New("код подтверждения неверен или истёк")
)
