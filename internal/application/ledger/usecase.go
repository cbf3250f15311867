package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vendly/stockcore-api/internal/domain"
	"github.com/vendly/stockcore-api/internal/domain/entity"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

// Config umbrales del ledger.
type Config struct {
	LowStockFactor float64 // multiplicador sobre min_stock para la advertencia low_stock (típicamente 1.2)
}

// UseCase es el Stock Ledger: registro append-only de movimientos con
// proyección de stock actual transaccionalmente consistente. Toda mutación
// de products.current_stock pasa por aquí.
type UseCase struct {
	txRunner  TxRunner
	products  repository.ProductRepository
	movements repository.MovementRepository
	publisher EventPublisher
	cfg       Config
}

// NewUseCase construye el ledger. publisher puede ser nil (sin eventos).
func NewUseCase(
	txRunner TxRunner,
	products repository.ProductRepository,
	movements repository.MovementRepository,
	publisher EventPublisher,
	cfg Config,
) *UseCase {
	if cfg.LowStockFactor <= 0 {
		cfg.LowStockFactor = 1.2
	}
	return &UseCase{
		txRunner:  txRunner,
		products:  products,
		movements: movements,
		publisher: publisher,
		cfg:       cfg,
	}
}

// AddMovementInput entrada para registrar un movimiento de stock.
// Para tipos de salida (out, sale, waste) Quantity puede venir como magnitud
// positiva o ya negativa; se normaliza. Para adjust se respeta el signo.
type AddMovementInput struct {
	ProductID string
	Type      string
	Quantity  int
	Reason    string
	Metadata  map[string]string
	UserID    string
}

// MovementResult resultado de un commit exitoso: el movimiento persistido
// (con snapshots previous/new) y las advertencias de stock consultivas.
type MovementResult struct {
	Movement *entity.StockMovement
	Warnings []string
}

// AddMovement registra un movimiento de stock de forma atómica: bloquea la
// fila del producto (SELECT FOR UPDATE), inserta el movimiento con los
// snapshots previous_stock/new_stock y actualiza current_stock en la misma
// transacción. Una salida que dejaría stock negativo se rechaza con
// InsufficientStockError y no escribe nada.
func (uc *UseCase) AddMovement(ctx context.Context, input AddMovementInput) (*MovementResult, error) {
	if input.ProductID == "" || input.Quantity == 0 {
		return nil, domain.ErrInvalidInput
	}
	if !entity.IsValidMovementType(input.Type) {
		return nil, domain.ErrInvalidInput
	}

	qty := normalizeQuantity(input.Type, input.Quantity)

	var (
		movement *entity.StockMovement
		product  *entity.Product
	)
	err := uc.txRunner.Run(ctx, func(
		products repository.ProductRepository,
		movements repository.MovementRepository,
	) error {
		p, err := products.GetForUpdate(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		if !p.IsActive() {
			return domain.ErrProductInactive
		}

		newStock := p.CurrentStock + qty
		if newStock < 0 {
			// Aplica a out/sale/waste y también a un adjust negativo:
			// current_stock nunca puede quedar bajo cero.
			return &domain.InsufficientStockError{
				CurrentStock: p.CurrentStock,
				Requested:    -qty,
			}
		}

		now := time.Now()
		movement = &entity.StockMovement{
			ID:            uuid.New().String(),
			ProductID:     p.ID,
			Type:          input.Type,
			Quantity:      qty,
			PreviousStock: p.CurrentStock,
			NewStock:      newStock,
			Reason:        input.Reason,
			Metadata:      input.Metadata,
			UserID:        input.UserID,
			CreatedAt:     now,
		}
		if err := movements.Create(ctx, movement); err != nil {
			return err
		}
		if err := products.UpdateStock(ctx, p.ID, newStock); err != nil {
			return err
		}
		p.CurrentStock = newStock
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Evaluación de advertencias contra el estado nuevo, fuera de la tx.
	warnings := EvaluateWarnings(product.CurrentStock, product.MinStock, uc.cfg.LowStockFactor)

	// Emisión fire-and-forget: un consumidor lento o caído jamás bloquea
	// ni revierte el commit del ledger.
	if uc.publisher != nil {
		uc.publisher.Publish(MovementCommitted{
			MovementID: movement.ID,
			ProductID:  movement.ProductID,
			Type:       movement.Type,
			Quantity:   movement.Quantity,
			NewStock:   movement.NewStock,
			OccurredAt: movement.CreatedAt,
		})
	}

	return &MovementResult{Movement: movement, Warnings: warnings}, nil
}

// GetCurrentStock lee la proyección de stock actual del producto.
func (uc *UseCase) GetCurrentStock(ctx context.Context, productID string) (int, error) {
	if productID == "" {
		return 0, domain.ErrInvalidInput
	}
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return 0, err
	}
	if p == nil {
		return 0, domain.ErrNotFound
	}
	return p.CurrentStock, nil
}

// GetMovementHistory devuelve el historial de un producto, más reciente
// primero, con paginación sin estado (limit/offset).
func (uc *UseCase) GetMovementHistory(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if productID == "" {
		return nil, domain.ErrInvalidInput
	}
	limit, offset = ClampHistoryPage(limit, offset)
	return uc.movements.ListByProduct(ctx, productID, limit, offset)
}

// ClampHistoryPage normaliza la paginación del historial: default 50, tope
// 200, offset nunca negativo. Expuesta para que la capa HTTP reporte los
// valores efectivamente aplicados, no los crudos del caller.
func ClampHistoryPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// normalizeQuantity aplica la convención de signos: entradas positivas,
// salidas negativas. El caller puede mandar magnitudes; adjust conserva signo.
func normalizeQuantity(movementType string, quantity int) int {
	abs := quantity
	if abs < 0 {
		abs = -abs
	}
	switch {
	case entity.IsOutboundType(movementType):
		return -abs
	case entity.IsInboundType(movementType):
		return abs
	default: // adjust
		return quantity
	}
}
