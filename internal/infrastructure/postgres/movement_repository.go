package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vendly/stockcore-api/internal/domain/entity"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

const movementColumns = `
	id, product_id, movement_type, quantity, previous_stock, new_stock,
	reason, metadata, user_id, created_at`

// MovementRepo implementación del ledger de movimientos sobre PostgreSQL
// (usable con pool o tx). La tabla stock_movements es append-only: este
// adaptador no expone update ni delete.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create persiste un movimiento con sus snapshots previous/new stock.
func (r *MovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	metadata, err := json.Marshal(m.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	userID := (*string)(nil)
	if m.UserID != "" {
		userID = &m.UserID
	}
	query := `
		INSERT INTO stock_movements (id, product_id, movement_type, quantity, previous_stock, new_stock, reason, metadata, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.PreviousStock, m.NewStock,
		m.Reason, metadata, userID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. Devuelve nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

// ListByProduct lista el historial de un producto, más reciente primero,
// con paginación sin estado (limit/offset). El desempate por id mantiene el
// orden estable entre páginas ante commits con el mismo timestamp.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()

	var list []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// GetActivity agrega los movimientos de todos los productos en la ventana:
// salidas (magnitud), entradas, promedio de new_stock y última salida.
func (r *MovementRepo) GetActivity(ctx context.Context, from, to time.Time) ([]repository.ProductActivity, error) {
	query := `
		SELECT
			product_id,
			COALESCE(SUM(CASE WHEN movement_type IN ('out', 'sale', 'waste') THEN -quantity ELSE 0 END), 0)::int,
			COALESCE(SUM(CASE WHEN movement_type IN ('in', 'restock', 'disposal_reversal') THEN quantity ELSE 0 END), 0)::int,
			COALESCE(AVG(new_stock), 0)::float8,
			COUNT(*)::int,
			MAX(created_at) FILTER (WHERE movement_type IN ('out', 'sale', 'waste'))
		FROM stock_movements
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY product_id`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get activity: %w", err)
	}
	defer rows.Close()

	var list []repository.ProductActivity
	for rows.Next() {
		var a repository.ProductActivity
		if err := rows.Scan(&a.ProductID, &a.TotalOutbound, &a.TotalInbound,
			&a.AvgNewStock, &a.MovementCount, &a.LastOutboundAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// GetDailyConsumption agrega las salidas diarias de un producto en la ventana.
func (r *MovementRepo) GetDailyConsumption(ctx context.Context, productID string, from, to time.Time) ([]repository.ConsumptionDay, error) {
	query := `
		SELECT date_trunc('day', created_at)::date, SUM(-quantity)::int
		FROM stock_movements
		WHERE product_id = $1
		  AND movement_type IN ('out', 'sale', 'waste')
		  AND created_at >= $2 AND created_at <= $3
		GROUP BY 1
		ORDER BY 1`
	rows, err := r.q.Query(ctx, query, productID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get daily consumption: %w", err)
	}
	defer rows.Close()

	var list []repository.ConsumptionDay
	for rows.Next() {
		var d repository.ConsumptionDay
		if err := rows.Scan(&d.Day, &d.Quantity); err != nil {
			return nil, fmt.Errorf("scan consumption day: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func scanMovement(row rowScanner) (*entity.StockMovement, error) {
	var (
		m        entity.StockMovement
		metadata []byte
		userID   *string
	)
	err := row.Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.PreviousStock,
		&m.NewStock, &m.Reason, &metadata, &userID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan movement: %w", err)
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &m.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	if userID != nil {
		m.UserID = *userID
	}
	return &m, nil
}
