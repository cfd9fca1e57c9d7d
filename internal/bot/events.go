package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Event — одно событие из апдейта Telegram. Варианты перечислены
// явно, чтобы диспетчер разбирал их исчерпывающим switch.
type Event interface {
	isEvent()
}

// MessageEvent — обычное текстовое сообщение.
type MessageEvent struct {
	Message *tgbotapi.Message
}

// MemberJoinEvent — в группу вступили новые участники.
type MemberJoinEvent struct {
	ChatID  int64
	Members []tgbotapi.User
}

// MemberLeaveEvent — участник покинул группу.
type MemberLeaveEvent struct {
	ChatID int64
	User   *tgbotapi.User
}

// JoinRequestEvent — заявка на вступление в группу.
type JoinRequestEvent struct {
	Request *tgbotapi.ChatJoinRequest
}

func (MessageEvent) isEvent()     {}
func (MemberJoinEvent) isEvent()  {}
func (MemberLeaveEvent) isEvent() {}
func (JoinRequestEvent) isEvent() {}

// FromUpdate превращает апдейт в событие. nil — апдейт не интересен.
func FromUpdate(update tgbotapi.Update) Event {
	if update.ChatJoinRequest != nil {
		return JoinRequestEvent{Request: update.ChatJoinRequest}
	}

	msg := update.Message
	if msg == nil {
		return nil
	}

	if msg.NewChatMembers != nil {
		return MemberJoinEvent{ChatID: msg.Chat.ID, Members: msg.NewChatMembers}
	}
	if msg.LeftChatMember != nil {
		return MemberLeaveEvent{ChatID: msg.Chat.ID, User: msg.LeftChatMember}
	}
	if msg.Text == "" {
		return nil
	}
	return MessageEvent{Message: msg}
}
