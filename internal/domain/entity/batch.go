package entity

import "time"

// Estados de un lote de producción.
const (
	BatchStatusInProgress = "in_progress"
	BatchStatusCompleted  = "completed"
	BatchStatusCancelled  = "cancelled"
)

// Batch agrupa los procesos de horno/caldera de una corrida de producción.
// Es dueño exclusivo de sus procesos: borrar el lote borra sus procesos.
type Batch struct {
	ID          string
	BatchNumber string // DDMMYY-NNN
	Date        time.Time
	Status      string
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Processes []*Process
}

// IsCompleted indica si el lote tiene sus materiales contabilizados en el ledger.
func (b *Batch) IsCompleted() bool {
	return b.Status == BatchStatusCompleted
}

// CalendarDate fecha calendario de t (en su propia zona) a medianoche UTC.
// Batch.Date siempre se guarda así: la columna es DATE y no conserva hora ni zona.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
