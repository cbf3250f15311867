package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/vendly/stockcore-api/internal/domain/repository"
)

var _ repository.SalesRepository = (*SalesRepo)(nil)

// SalesRepo lee los agregados del ledger de ventas externo. Este núcleo no
// es dueño de la tabla sales_transactions: solo la consulta, restringida a
// transacciones completadas.
type SalesRepo struct {
	q Querier
}

// NewSalesRepository construye el adaptador de solo lectura.
func NewSalesRepository(q Querier) *SalesRepo {
	return &SalesRepo{q: q}
}

// GetSalesByProduct devuelve cantidad vendida e ingresos por producto en el
// rango de fechas dado.
func (r *SalesRepo) GetSalesByProduct(ctx context.Context, from, to time.Time) ([]repository.SalesAggregate, error) {
	query := `
		SELECT product_id, COALESCE(SUM(quantity), 0)::int, COALESCE(SUM(quantity * unit_price), 0)
		FROM sales_transactions
		WHERE status = 'completed'
		  AND sold_at >= $1 AND sold_at <= $2
		GROUP BY product_id`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("get sales by product: %w", err)
	}
	defer rows.Close()

	var list []repository.SalesAggregate
	for rows.Next() {
		var a repository.SalesAggregate
		if err := rows.Scan(&a.ProductID, &a.QuantitySold, &a.Revenue); err != nil {
			return nil, fmt.Errorf("scan sales aggregate: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}
