package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vendly/stockcore-api/internal/domain/entity"
	"github.com/vendly/stockcore-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `
	id, name, barcode, current_stock, min_stock, buy_price, sell_price,
	abc_category, abc_rank, abc_last_update, status, created_at, updated_at`

// ProductRepo implementación de ProductRepository sobre PostgreSQL
// (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetForUpdate obtiene el producto y bloquea su fila (SELECT FOR UPDATE)
// para serializar escrituras concurrentes sobre current_stock.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

// ListActive lista los productos activos ordenados por ID (orden estable
// para corridas analíticas deterministas).
func (r *ProductRepo) ListActive(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE status = $1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, entity.ProductStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateStock actualiza la proyección current_stock. Debe llamarse dentro de
// la misma transacción que insertó el movimiento correspondiente.
func (r *ProductRepo) UpdateStock(ctx context.Context, productID string, newStock int) error {
	query := `UPDATE products SET current_stock = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, productID, newStock)
	if err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock: producto %s no existe", productID)
	}
	return nil
}

// UpdateClassifications sobrescribe la clasificación ABC de la corrida
// completa. Pensado para ejecutarse dentro de una transacción (vía TxRunner)
// para que la corrida sea todo-o-nada.
func (r *ProductRepo) UpdateClassifications(ctx context.Context, items []repository.ABCClassification, updatedAt time.Time) error {
	query := `
		UPDATE products
		SET abc_category = $2, abc_rank = $3, abc_last_update = $4
		WHERE id = $1`
	for _, it := range items {
		if _, err := r.q.Exec(ctx, query, it.ProductID, it.Category, it.Rank, updatedAt); err != nil {
			return fmt.Errorf("update classification %s: %w", it.ProductID, err)
		}
	}
	return nil
}

// GetOverview calcula los agregados de inventario en una sola consulta.
func (r *ProductRepo) GetOverview(ctx context.Context, lowStockFactor float64) (*repository.InventoryOverview, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(current_stock), 0),
			COALESCE(SUM(current_stock * buy_price), 0),
			COUNT(*) FILTER (WHERE current_stock > 0 AND current_stock <= min_stock * $1),
			COUNT(*) FILTER (WHERE current_stock <= 0)
		FROM products
		WHERE status = $2`
	var ov repository.InventoryOverview
	err := r.q.QueryRow(ctx, query, lowStockFactor, entity.ProductStatusActive).Scan(
		&ov.TotalProducts, &ov.TotalStockUnits, &ov.TotalStockValue,
		&ov.LowStockCount, &ov.OutOfStockCount,
	)
	if err != nil {
		return nil, fmt.Errorf("get inventory overview: %w", err)
	}
	ov.GeneratedAt = time.Now()
	return &ov, nil
}

func (r *ProductRepo) scanOne(ctx context.Context, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var (
		p       entity.Product
		barcode *string
		abcCat  *string
		abcRank *int
	)
	err := row.Scan(
		&p.ID, &p.Name, &barcode, &p.CurrentStock, &p.MinStock,
		&p.BuyPrice, &p.SellPrice, &abcCat, &abcRank, &p.ABCLastUpdate,
		&p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	if barcode != nil {
		p.Barcode = *barcode
	}
	if abcCat != nil {
		p.ABCCategory = *abcCat
	}
	if abcRank != nil {
		p.ABCRank = *abcRank
	}
	return &p, nil
}
