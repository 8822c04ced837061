package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
)

func TestDurationBetween(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	// floor: detik sisa dibuang
	assert.Equal(t, 2, models.DurationBetween(base, base.Add(2*time.Minute+30*time.Second)))
	assert.Equal(t, 0, models.DurationBetween(base, base.Add(59*time.Second)))
	assert.Equal(t, 1, models.DurationBetween(base, base.Add(time.Minute)))
	assert.Equal(t, 90, models.DurationBetween(base, base.Add(90*time.Minute)))
	assert.Equal(t, 0, models.DurationBetween(base, base))
}
