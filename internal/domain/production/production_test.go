package production_test

import (
	"testing"
	"time"

	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/jhoicas/refineria-api/internal/domain/production"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNextSequence(t *testing.T) {
	cases := []struct {
		name string
		used []int
		want int
	}{
		{"sin lotes en el día", nil, 1},
		{"consecutivos completos", []int{1, 2, 3}, 4},
		{"hueco intermedio", []int{1, 2, 4}, 3},
		{"hueco inicial", []int{2, 3}, 1},
		{"desordenado con duplicados", []int{4, 1, 1, 2}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, production.NextSequence(tc.used))
		})
	}
}

func TestFormatAndParseBatchNumber(t *testing.T) {
	day := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "161026-", production.BatchNumberPrefix(day))
	assert.Equal(t, "161026-001", production.FormatBatchNumber(day, 1))
	assert.Equal(t, "161026-1234", production.FormatBatchNumber(day, 1234))

	n, ok := production.ParseSequence("161026-", "161026-007")
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	n, ok = production.ParseSequence("161026-", "161026-7")
	assert.True(t, ok)
	assert.Equal(t, 7, n)

	_, ok = production.ParseSequence("161026-", "151026-001")
	assert.False(t, ok, "otro día no cuenta")
	_, ok = production.ParseSequence("161026-", "161026-abc")
	assert.False(t, ok)
}

func TestYield(t *testing.T) {
	p := &entity.Process{
		InputTin:   entity.Material{Kilos: dec("100")},
		InputSlag:  entity.Material{Kilos: dec("100")},
		OutputTin:  entity.Material{Kilos: dec("95")},
		OutputSlag: entity.Material{Kilos: dec("85")},
	}
	assert.True(t, production.Yield(p).Equal(decimal.NewFromInt(90)), "180/200 = 90%")

	assert.True(t, production.Yield(&entity.Process{}).IsZero(), "sin entrada el rendimiento es 0")
}

func TestSnRecovery(t *testing.T) {
	p := &entity.Process{
		InputTin:  entity.Material{Kilos: dec("100"), SnContent: dec("70")},
		OutputTin: entity.Material{Kilos: dec("60"), SnContent: dec("99.5")},
	}
	// entrada 70 kg Sn, salida 59.7 kg Sn
	got := production.SnRecovery(p).Round(2)
	assert.Equal(t, "85.29", got.StringFixed(2))

	noSn := &entity.Process{InputTin: entity.Material{Kilos: dec("100")}}
	assert.True(t, production.SnRecovery(noSn).IsZero())
}
