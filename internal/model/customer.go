package model

import (
	"time"

	"github.com/google/uuid"
)

// Значения qc_final, после которых клиент не может занимать встречу
const (
	QCFinalDropped    = "Rausgefallen"
	QCFinalDroppedWP  = "Rausgefallen WP"
	QCFinalRelisted   = "Neuleger"
	QCFinalRelistedWP = "Neuleger WP"
)

var disqualifying = map[string]struct{}{
	QCFinalDropped:    {},
	QCFinalDroppedWP:  {},
	QCFinalRelisted:   {},
	QCFinalRelistedWP: {},
}

// IsDisqualifying проверяет что значение qc_final снимает клиента с записи
func IsDisqualifying(qcFinal string) bool {
	_, ok := disqualifying[qcFinal]
	return ok
}

// Customer внешний лид; ядро читает и пишет только qc_final
type Customer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	QCFinal   string    `json:"qc_final"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDisqualified возвращает true если клиент не может быть записан
func (c *Customer) IsDisqualified() bool {
	return IsDisqualifying(c.QCFinal)
}
