package production

import (
	"github.com/jhoicas/refineria-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Yield rendimiento en peso del proceso:
// (kilos estaño salida + kilos escoria salida) / (kilos estaño entrada + kilos escoria entrada) * 100.
// Devuelve 0 si no hay peso de entrada.
func Yield(p *entity.Process) decimal.Decimal {
	in := p.InputTin.KilosOrZero().Add(p.InputSlag.KilosOrZero())
	out := p.OutputTin.KilosOrZero().Add(p.OutputSlag.KilosOrZero())
	if in.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return out.Div(in).Mul(hundred)
}

// SnRecovery recuperación de estaño contenido: Sn de salida / Sn de entrada * 100,
// con Sn = kilos * %Sn / 100 por movimiento. Devuelve 0 si no entra estaño.
func SnRecovery(p *entity.Process) decimal.Decimal {
	in := snKilos(p.InputTin).Add(snKilos(p.InputSlag))
	out := snKilos(p.OutputTin).Add(snKilos(p.OutputSlag))
	if in.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return out.Div(in).Mul(hundred)
}

func snKilos(m entity.Material) decimal.Decimal {
	return m.KilosOrZero().Mul(m.SnContentOrZero()).Div(hundred)
}
