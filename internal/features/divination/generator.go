// Package divination — generator.go реализует взвешенный выбор исхода.
//
// Алгоритм одного гадания:
//  1. берём базовые веса пяти уровней;
//  2. прибавляем поправки знака (если есть);
//  3. нормируем — веса снова в сумме дают 1.0;
//  4. тянем уровень по нормированным весам;
//  5. тянем текст предсказания равномерно из списка уровня.
//
// Поправка, уводящая вес в минус, — ошибка конфигурации: её отлавливаем
// при создании генератора, а не маскируем на лету.
package divination

import (
	"fmt"
	"math/rand"
)

// RandSource — источник случайности генератора. В проде — math/rand,
// в тестах подставляется фиксированная последовательность.
type RandSource interface {
	Float64() float64
}

type mathRandSource struct{}

func (mathRandSource) Float64() float64 { return rand.Float64() }

// NewRand возвращает боевой источник случайности.
func NewRand() RandSource { return mathRandSource{} }

// Generator тянет исходы гаданий. После создания только читает свои
// таблицы, поэтому безопасен для параллельных вызовов при безопасном
// RandSource.
type Generator struct {
	table       OutcomeTable
	adjustments map[string]Adjustment
	rnd         RandSource
}

// NewGenerator проверяет таблицы и создаёт генератор.
// Ошибки конфигурации (пустые списки текстов, кривые веса, поправка,
// уводящая вес в минус) возвращаются сразу — до первого гадания.
func NewGenerator(table OutcomeTable, adjustments map[string]Adjustment, rnd RandSource) (*Generator, error) {
	for tier, details := range table.Details {
		if len(details) == 0 {
			return nil, fmt.Errorf("уровень %q без текстов предсказаний", Tier(tier))
		}
	}

	var sum float64
	for tier, w := range table.Base {
		if w < 0 {
			return nil, fmt.Errorf("базовый вес уровня %q отрицательный: %v", Tier(tier), w)
		}
		sum += w
	}
	if sum <= 0 {
		return nil, fmt.Errorf("базовые веса в сумме дают %v", sum)
	}

	for category, adj := range adjustments {
		adjusted := applyAdjustment(table.Base, adj)
		for tier, w := range adjusted {
			if w < 0 {
				return nil, fmt.Errorf("поправка %q уводит вес уровня %q в минус (%v)",
					category, Tier(tier), w)
			}
		}
	}

	return &Generator{table: table, adjustments: adjustments, rnd: rnd}, nil
}

// Draw тянет исход для категории (знака).
// Категория без поправок гадается по базовым весам.
func (g *Generator) Draw(category string) (Tier, string) {
	weights := g.Probabilities(category)

	// Выбор уровня: r попадает в [нижняя граница, верхняя граница)
	// накопленной суммы. r = 0.02 при базовой таблице — верхний уровень,
	// r = 0.5 — средний.
	r := g.rnd.Float64()
	tier := Tier(tierCount - 1) // хвост достаётся последнему уровню
	cum := 0.0
	for i, w := range weights {
		cum += w
		if r < cum {
			tier = Tier(i)
			break
		}
	}

	details := g.table.Details[tier]
	idx := int(g.rnd.Float64() * float64(len(details)))
	if idx >= len(details) {
		idx = len(details) - 1
	}

	return tier, details[idx]
}

// Probabilities возвращает нормированные веса категории (в сумме 1.0).
func (g *Generator) Probabilities(category string) Weights {
	weights := g.table.Base
	if adj, ok := g.adjustments[category]; ok {
		weights = applyAdjustment(weights, adj)
	}

	var sum float64
	for _, w := range weights {
		sum += w
	}
	for i := range weights {
		weights[i] /= sum
	}
	return weights
}

// Advice возвращает персональный совет к уровню, если он предусмотрен.
func (g *Generator) Advice(tier Tier) string {
	options, ok := adviceByTier[tier]
	if !ok || len(options) == 0 {
		return ""
	}
	idx := int(g.rnd.Float64() * float64(len(options)))
	if idx >= len(options) {
		idx = len(options) - 1
	}
	return options[idx]
}

// applyAdjustment прибавляет поправки к копии весов.
func applyAdjustment(base Weights, adj Adjustment) Weights {
	out := base
	for tier, delta := range adj {
		if int(tier) >= 0 && int(tier) < tierCount {
			out[tier] += delta
		}
	}
	return out
}
