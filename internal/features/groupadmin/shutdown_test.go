package groupadmin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vorozheya.ru/telegram-bot/internal/common"
)

func TestShutdownGuard_GeneratedCode(t *testing.T) {
	g := NewShutdownGuard("")

	code, err := g.Arm()
	require.NoError(t, err)
	require.Len(t, code, 8, "код — 4 байта в hex")

	require.NoError(t, g.Confirm(code))

	// Повторное подтверждение не проходит.
	err = g.Confirm(code)
	require.ErrorIs(t, err, common.ErrWrongCode)
}

func TestShutdownGuard_FixedCode(t *testing.T) {
	g := NewShutdownGuard("deadbeef")

	code, err := g.Arm()
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", code)

	require.ErrorIs(t, g.Confirm("cafebabe"), common.ErrWrongCode)
	require.NoError(t, g.Confirm("deadbeef"))
}

func TestShutdownGuard_ConfirmWithoutArm(t *testing.T) {
	g := NewShutdownGuard("")
	require.ErrorIs(t, g.Confirm("что угодно"), common.ErrWrongCode)
}

func TestShutdownGuard_WrongCodeKeepsGuardArmed(t *testing.T) {
	g := NewShutdownGuard("")

	code, err := g.Arm()
	require.NoError(t, err)

	require.ErrorIs(t, g.Confirm("не тот код"), common.ErrWrongCode)
	require.NoError(t, g.Confirm(code), "после промаха верный код всё ещё действует")
}
