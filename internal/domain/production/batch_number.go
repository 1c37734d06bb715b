package production

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// sequenceWidth ancho mínimo del consecutivo diario (DDMMYY-NNN).
const sequenceWidth = 3

// BatchNumberPrefix devuelve el prefijo diario "DDMMYY-" para la fecha.
func BatchNumberPrefix(date time.Time) string {
	return date.Format("020106") + "-"
}

// FormatBatchNumber arma el número de lote DDMMYY-NNN (más dígitos si el consecutivo los necesita).
func FormatBatchNumber(date time.Time, seq int) string {
	return fmt.Sprintf("%s%0*d", BatchNumberPrefix(date), sequenceWidth, seq)
}

// ParseSequence extrae el consecutivo de number si empieza con prefix.
// Acepta el consecutivo con o sin ceros a la izquierda.
func ParseSequence(prefix, number string) (int, bool) {
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(number[len(prefix):])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// NextSequence devuelve el menor entero positivo que no está en used.
// Rellena huecos dejados por lotes borrados o renumerados; 1 si used está vacío.
func NextSequence(used []int) int {
	sorted := append([]int(nil), used...)
	sort.Ints(sorted)
	next := 1
	for _, n := range sorted {
		if n < next {
			continue
		}
		if n > next {
			break
		}
		next++
	}
	return next
}
