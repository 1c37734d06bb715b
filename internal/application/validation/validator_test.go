package validation_test

import (
	"testing"

	"github.com/jhoicas/refineria-api/internal/application/validation"
	"github.com/jhoicas/refineria-api/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string           `json:"name" validate:"required,max=5"`
	Date    string           `json:"date" validate:"required,date"`
	Percent *decimal.Decimal `json:"percent" validate:"omitempty,min=0,max=100,decimal_places=4"`
	Lines   []line           `json:"lines" validate:"omitempty,dive"`
}

type line struct {
	Kind string `json:"kind" validate:"required,oneof=a b"`
}

func pct(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestStruct_Valido(t *testing.T) {
	v := validation.New()
	err := v.Struct(sample{Name: "ok", Date: "2026-10-16", Percent: pct("99.1234"), Lines: []line{{Kind: "a"}}})
	assert.NoError(t, err)

	err = v.Struct(sample{Name: "ok", Date: "2026-10-16T08:00:00Z"})
	assert.NoError(t, err, "RFC3339 también es una fecha válida")
}

func TestStruct_ErroresPorCampo(t *testing.T) {
	v := validation.New()
	err := v.Struct(sample{
		Name:    "",
		Date:    "16/10/2026",
		Percent: pct("100.5"),
		Lines:   []line{{Kind: "a"}, {Kind: "z"}},
	})
	require.Error(t, err)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "es obligatorio", verr.Fields["name"])
	assert.Contains(t, verr.Fields, "date")
	assert.Equal(t, "debe ser menor o igual a 100", verr.Fields["percent"])
	assert.Contains(t, verr.Fields, "lines[1].kind")
	assert.NotContains(t, verr.Fields, "lines[0].kind")
}

func TestStruct_DecimalPlaces(t *testing.T) {
	v := validation.New()
	err := v.Struct(sample{Name: "ok", Date: "2026-10-16", Percent: pct("12.12345")})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "admite como máximo 4 decimales", verr.Fields["percent"])
}
