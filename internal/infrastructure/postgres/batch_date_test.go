package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/refineria-api/internal/application/validation"
)

// La fecha del lote debe leerse igual en un servidor al oeste de UTC (ej. Bogotá, UTC-5).
func TestBatchDate_IdaYVueltaEnZonaOeste(t *testing.T) {
	prev := time.Local
	time.Local = time.FixedZone("COT", -5*60*60)
	defer func() { time.Local = prev }()

	date, err := validation.ParseDate("2026-10-16")
	require.NoError(t, err)

	m := pgtype.NewMap()
	for _, format := range []int16{pgtype.BinaryFormatCode, pgtype.TextFormatCode} {
		buf, err := m.Encode(pgtype.DateOID, format, dateArg(date), nil)
		require.NoError(t, err)

		var got pgtype.Date
		require.NoError(t, m.Scan(pgtype.DateOID, format, buf, &got))
		assert.Equal(t, "2026-10-16", dateValue(got).Format(validation.DateLayout))
	}
}

func TestBatchDate_InstanteConZonaConservaSuFechaCalendario(t *testing.T) {
	late := time.Date(2026, 10, 16, 22, 30, 0, 0, time.FixedZone("COT", -5*60*60))

	arg := dateArg(late)
	assert.True(t, arg.Valid)
	assert.Equal(t, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), arg.Time)
}
