// Package chat — заготовленные реплики ворожеи: визитка лавки,
// подсказка по командам и два набора случайных фраз.
package chat

// aboutText — ответ на !салон.
const aboutText = "🔮 Лавка гаданий «Ворожея»\n\n" +
	"Заходи, гость дорогой. Здесь раскладывают карты, читают календарь дня\n" +
	"и ведут книгу посещений. Хозяйка лавки немного ворчлива, но гадает честно.\n\n" +
	"Скажи !подсказка — расскажу, что умею."

// helpText — ответ на !подсказка.
const helpText = "📜 Чем могу услужить:\n\n" +
	"!отметка — отметиться в книге посещений (ночью лавка закрыта)\n" +
	"!история — посмотреть свой счёт посещений\n" +
	"!гадание <знак> — расклад на день по знаку зодиака\n" +
	"!салон — про лавку\n" +
	"!ворожея — позвать хозяйку\n" +
	"!зов — постучать в дверь лавки"

// callReplies — случайные ответы на !ворожея.
var callReplies = []string{
	"М-м? Звал меня, гость дорогой?",
	"(раскладывает карты, не поднимая глаз) Слушаю тебя.",
	"Ворожея здесь. Чаю? Или сразу к картам?",
	"Не кричи так, свечи задуешь.",
	"(из-за занавески) Сейчас выйду, погоди немного…",
}

// knockReplies — случайные ответы на !зов.
var knockReplies = []string{
	"Дверь открыта, заходи. Только ноги вытри.",
	"Кто там стучит в такую пору? А, это ты. Проходи.",
	"(скрип двери) Лавка работает, гость дорогой.",
	"Стучать не обязательно, у меня колокольчик над дверью.",
}

// hugReply — ответ на !обнять для дорогих гостей.
const hugReply = "(смущённо) Ну что ты, при всех-то… Ладно, один раз. " +
	"Обняла. Теперь садись, карты сами себя не разложат~"

// hugDeclineReply — ответ на !обнять для всех остальных.
const hugDeclineReply = "(отстраняется) Обниматься с ворожеей дозволено " +
	"лишь самым дорогим гостям лавки."
