package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendly/stockcore-api/internal/domain/entity"
)

// ABCClassification asignación resultante de una corrida del análisis ABC.
// Se persiste completa al final de la corrida, sobrescribiendo la anterior.
type ABCClassification struct {
	ProductID string
	Category  string
	Rank      int
}

// InventoryOverview agregados globales de inventario (read model).
type InventoryOverview struct {
	TotalProducts   int             `json:"total_products"`
	TotalStockUnits int             `json:"total_stock_units"`
	TotalStockValue decimal.Decimal `json:"total_stock_value"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// El catálogo es externo: este núcleo solo escribe current_stock y la
// clasificación ABC; el resto de columnas es de solo lectura.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE).
	// Solo tiene sentido dentro de una transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	ListActive(ctx context.Context) ([]*entity.Product, error)
	// UpdateStock actualiza products.current_stock. Debe ejecutarse en la
	// misma transacción que el insert del movimiento correspondiente.
	UpdateStock(ctx context.Context, productID string, newStock int) error
	// UpdateClassifications sobrescribe abc_category, abc_rank y
	// abc_last_update para todos los productos de la corrida.
	UpdateClassifications(ctx context.Context, items []ABCClassification, updatedAt time.Time) error
	// GetOverview calcula los agregados de inventario sobre productos activos.
	// lowStockFactor es el multiplicador sobre min_stock (típicamente 1.2).
	GetOverview(ctx context.Context, lowStockFactor float64) (*InventoryOverview, error)
}
