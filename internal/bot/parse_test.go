package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCreateArg(t *testing.T) {
	step, date, err := parseCreateArg("", time.UTC)
	require.NoError(t, err)
	assert.Zero(t, step)
	assert.True(t, date.IsZero())

	step, _, err = parseCreateArg("3", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 3, step)

	_, date, err = parseCreateArg("2026-12-01", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), date)

	_, _, err = parseCreateArg("завтра", time.UTC)
	assert.Error(t, err)
}

func TestParseIDAndStep(t *testing.T) {
	id, step, err := parseIDAndStep("12 3")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)
	assert.Equal(t, 3, step)

	id, step, err = parseIDAndStep("7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.Zero(t, step)

	for _, bad := range []string{"", "x", "1 y", "1 2 3"} {
		_, _, err := parseIDAndStep(bad)
		assert.Error(t, err, bad)
	}
}
