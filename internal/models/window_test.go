package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviousMonth(t *testing.T) {
	now := time.Date(2025, 8, 23, 10, 30, 0, 0, time.UTC)
	w := PreviousMonth(now)

	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), w.End)
}

func TestPreviousMonthAcrossYear(t *testing.T) {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	w := PreviousMonth(now)

	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), w.End)
}

func TestWindowContainsBoundaries(t *testing.T) {
	w := DateWindow{
		Start: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	}

	// 左闭：起点时刻包含
	assert.True(t, w.Contains(w.Start))
	// 右开：终点时刻排除
	assert.False(t, w.Contains(w.End))
	assert.True(t, w.Contains(time.Date(2025, 7, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, w.Contains(time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)))
}

func TestParseWindow(t *testing.T) {
	w, err := ParseWindow("2025-07-01", "2025-08-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), w.Start)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), w.End)
	assert.Equal(t, "2025-07-01 ~ 2025-08-01", w.String())
}

func TestParseWindowRejectsInvalidInput(t *testing.T) {
	_, err := ParseWindow("2025/07/01", "2025-08-01")
	assert.Error(t, err)

	_, err = ParseWindow("2025-07-01", "2025-07-01")
	assert.Error(t, err)

	_, err = ParseWindow("2025-08-01", "2025-07-01")
	assert.Error(t, err)
}
