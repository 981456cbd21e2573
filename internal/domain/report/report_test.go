package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTopCategory(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		name, n := TopCategory(nil)
		assert.Equal(t, NoCategory, name)
		assert.Equal(t, int64(0), n)
	})

	t.Run("highest count wins", func(t *testing.T) {
		name, n := TopCategory([]CategoryCount{{"Fruits", 1}, {"Grains", 3}, {"Vegetables", 2}})
		assert.Equal(t, "Grains", name)
		assert.Equal(t, int64(3), n)
	})

	t.Run("ties resolve lexicographically", func(t *testing.T) {
		name, _ := TopCategory([]CategoryCount{{"Vegetables", 2}, {"Fruits", 2}, {"Grains", 2}})
		assert.Equal(t, "Fruits", name)
	})

	t.Run("does not reorder input", func(t *testing.T) {
		in := []CategoryCount{{"b", 1}, {"a", 1}}
		TopCategory(in)
		assert.Equal(t, "b", in[0].CategoryName)
	})
}

func TestDayWindow(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2024, 6, 1, 21, 30, 0, 0, time.UTC)

	start, end := DayWindow(now, loc)

	assert.Equal(t, time.Date(2024, 6, 2, 0, 0, 0, 0, loc), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}
