package divination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vorozheya.ru/telegram-bot/internal/common"
)

// seqSource отдаёт заранее заданную последовательность значений.
type seqSource struct {
	values []float64
	pos    int
}

func (s *seqSource) Float64() float64 {
	v := s.values[s.pos%len(s.values)]
	s.pos++
	return v
}

func TestProbabilities_SumToOne(t *testing.T) {
	gen, err := NewGenerator(DefaultTable, DefaultAdjustments, &seqSource{values: []float64{0.5}})
	require.NoError(t, err)

	categories := append(SignNames(), "несуществующий")
	for _, category := range categories {
		weights := gen.Probabilities(category)
		sum := 0.0
		for _, w := range weights {
			require.GreaterOrEqual(t, w, 0.0, "категория %s", category)
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9, "категория %s", category)
	}
}

func TestDraw_DeterministicReplay(t *testing.T) {
	// Базовые границы накопленных весов: 0.15 / 0.40 / 0.75 / 0.95 / 1.0.
	// Первое значение источника выбирает уровень, второе — текст.
	src := &seqSource{values: []float64{
		0.02, 0.0, // первый розыгрыш: верхний уровень, первый текст
		0.5, 0.0, // второй розыгрыш: средний уровень
	}}
	gen, err := NewGenerator(DefaultTable, nil, src)
	require.NoError(t, err)

	tier, detail := gen.Draw("Телец")
	assert.Equal(t, TierGreatFortune, tier)
	assert.Equal(t, DefaultTable.Details[TierGreatFortune][0], detail)

	tier, _ = gen.Draw("Телец")
	assert.Equal(t, TierSmallFortune, tier)
}

func TestDraw_BoundaryBelongsToNextTier(t *testing.T) {
	// r = 0.15 — ровно верхняя граница первого уровня: достаётся второму.
	src := &seqSource{values: []float64{0.15, 0.0}}
	gen, err := NewGenerator(DefaultTable, nil, src)
	require.NoError(t, err)

	tier, _ := gen.Draw("Лев")
	assert.Equal(t, TierFortune, tier)
}

func TestDraw_AdjustmentShiftsDistribution(t *testing.T) {
	// У Козерога Удача +0.10, Великая неудача −0.05:
	// веса до нормировки 0.15/0.35/0.35/0.20/0.00, сумма 1.05.
	gen, err := NewGenerator(DefaultTable, DefaultAdjustments, &seqSource{values: []float64{0.5, 0.0}})
	require.NoError(t, err)

	weights := gen.Probabilities("Козерог")
	assert.InDelta(t, 0.15/1.05, weights[TierGreatFortune], 1e-9)
	assert.InDelta(t, 0.35/1.05, weights[TierFortune], 1e-9)
	assert.InDelta(t, 0.0, weights[TierGreatMisfortune], 1e-9)
}

func TestNewGenerator_RejectsNegativeAdjustedWeight(t *testing.T) {
	bad := map[string]Adjustment{
		"Овен": {TierGreatMisfortune: -0.10}, // базовый 0.05 → −0.05
	}
	_, err := NewGenerator(DefaultTable, bad, &seqSource{values: []float64{0.5}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "в минус")
}

func TestNewGenerator_RejectsEmptyDetails(t *testing.T) {
	table := DefaultTable
	table.Details[TierMisfortune] = nil

	_, err := NewGenerator(table, nil, &seqSource{values: []float64{0.5}})
	require.Error(t, err)
}

func TestDraw_TailRoundingFallsToLastTier(t *testing.T) {
	// Даже если из-за плавающей точки r не попал ни в один интервал,
	// уровень всё равно выбирается.
	src := &seqSource{values: []float64{math.Nextafter(1.0, 0.0), 0.99}}
	gen, err := NewGenerator(DefaultTable, nil, src)
	require.NoError(t, err)

	tier, detail := gen.Draw("Рак")
	assert.Equal(t, TierGreatMisfortune, tier)
	assert.NotEmpty(t, detail)
}

func TestNormalizeSign(t *testing.T) {
	sign, err := NormalizeSign("овен")
	require.NoError(t, err)
	assert.Equal(t, "Овен", sign)

	sign, err = NormalizeSign("  РЫБЫ ")
	require.NoError(t, err)
	assert.Equal(t, "Рыбы", sign)

	_, err = NormalizeSign("дракон")
	require.ErrorIs(t, err, common.ErrUnknownSign)

	_, err = NormalizeSign("")
	require.ErrorIs(t, err, common.ErrUnknownSign)
}
