package ledger

import (
	"context"
	"time"

	"github.com/vendly/stockcore-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el ledger:
// o se insertan movimiento y stock actualizado juntos, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		products repository.ProductRepository,
		movements repository.MovementRepository,
	) error) error
}

// MovementCommitted evento emitido tras cada commit exitoso del ledger.
// Lo consume el servicio de notificaciones externo (ej. correo de stock bajo).
type MovementCommitted struct {
	MovementID string    `json:"movement_id"`
	ProductID  string    `json:"product_id"`
	Type       string    `json:"movement_type"`
	Quantity   int       `json:"quantity"`
	NewStock   int       `json:"new_stock"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher publica eventos de commit. Las implementaciones nunca deben
// bloquear ni revertir la escritura del ledger: publicar es best-effort
// (fire and forget) aunque el consumidor esté lento o caído.
type EventPublisher interface {
	Publish(event MovementCommitted)
}
