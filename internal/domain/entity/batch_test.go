package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/refineria-api/internal/domain/entity"
)

func TestCalendarDate(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want time.Time
	}{
		{"medianoche UTC", time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
		{"noche en Bogotá", time.Date(2026, 10, 16, 22, 30, 0, 0, time.FixedZone("COT", -5*60*60)), time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
		{"madrugada al este", time.Date(2026, 10, 16, 1, 0, 0, 0, time.FixedZone("EET", 3*60*60)), time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, entity.CalendarDate(tt.in))
		})
	}
}
