// Package divination реализует гадание по знаку зодиака: взвешенный
// случайный выбор одного из пяти исходов с поправками на знак.
// models.go описывает уровни исходов и таблицы по умолчанию.
package divination

// Tier — уровень исхода, от лучшего к худшему.
type Tier int

const (
	TierGreatFortune Tier = iota // Великая удача
	TierFortune                  // Удача
	TierSmallFortune             // Малая удача
	TierMisfortune               // Неудача
	TierGreatMisfortune          // Великая неудача

	tierCount = 5
)

// String возвращает название уровня для сообщений.
func (t Tier) String() string {
	switch t {
	case TierGreatFortune:
		return "Великая удача"
	case TierFortune:
		return "Удача"
	case TierSmallFortune:
		return "Малая удача"
	case TierMisfortune:
		return "Неудача"
	case TierGreatMisfortune:
		return "Великая неудача"
	}
	return "?"
}

// Icon возвращает значок уровня.
func (t Tier) Icon() string {
	switch t {
	case TierGreatFortune:
		return "🎉"
	case TierFortune:
		return "✨"
	case TierSmallFortune:
		return "⭐"
	case TierMisfortune:
		return "⚠️"
	case TierGreatMisfortune:
		return "💀"
	}
	return ""
}

// Weights — веса пяти уровней, в порядке Tier.
type Weights [tierCount]float64

// OutcomeTable — базовые веса и тексты предсказаний по уровням.
// Статичная конфигурация: загружается один раз, дальше только чтение.
type OutcomeTable struct {
	Base    Weights
	Details [tierCount][]string
}

// Adjustment — поправка знака: уровень → добавка к весу (может быть
// отрицательной). Уровни без добавки не меняются.
type Adjustment map[Tier]float64

// DefaultTable — таблица исходов по умолчанию.
// Базовые веса в сумме дают 1.0.
var DefaultTable = OutcomeTable{
	Base: Weights{0.15, 0.25, 0.35, 0.20, 0.05},
	Details: [tierCount][]string{
		{
			"Сегодня удача сама идёт в руки — действуй смело.",
			"Покровитель рядом: и в делах, и в учёбе всё сложится.",
			"Сердечные дела на подъёме — одиноким светит встреча.",
		},
		{
			"Общий расклад хорош, можно браться за новое.",
			"Деньги спокойны, мелкое вложение не повредит.",
			"Люди к тебе расположены — помощь придёт легко.",
		},
		{
			"Ровный день: иди по привычной колее.",
			"Следи за мелочами, они сегодня решают.",
			"Здоровье в порядке — самое время размяться.",
		},
		{
			"День шероховатый: важные решения отложи.",
			"Придержи язык — споры сегодня не к добру.",
			"С деньгами туго: крупных трат избегай.",
		},
		{
			"Ничего не затевай, день лучше пересидеть тихо.",
			"Береги себя: отдых сегодня важнее дел.",
			"Вокруг недоброжелатели — важные бумаги сохрани.",
		},
	},
}

// DefaultAdjustments — поправки знаков по умолчанию.
// У знаков без записи веса базовые.
var DefaultAdjustments = map[string]Adjustment{
	"Овен":    {TierGreatFortune: +0.05, TierMisfortune: -0.03},
	"Козерог": {TierFortune: +0.10, TierGreatMisfortune: -0.05},
	"Рыбы":    {TierSmallFortune: +0.07, TierMisfortune: +0.03},
}

// adviceByTier — персональный совет к уровню. Не у каждого уровня есть.
var adviceByTier = map[Tier][]string{
	TierGreatFortune: {
		"Пользуйся волной — двигай планы вперёд.",
		"Хороший день для начинаний и признаний.",
	},
	TierFortune: {
		"Держись своего курса — будет прибыток.",
		"Можно осторожно попробовать новое.",
	},
	TierMisfortune: {
		"Семь раз отмерь, прежде чем резать.",
		"Важные бумаги сегодня не подписывай.",
	},
}
