package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Categorías ABC (clasificación de Pareto por contribución a ingresos).
const (
	ABCCategoryA = "A"
	ABCCategoryB = "B"
	ABCCategoryC = "C"
)

// Product representa un producto de retail/vending. El catálogo es un
// colaborador externo: este núcleo solo escribe CurrentStock (vía el ledger)
// y ABCCategory/ABCRank/ABCLastUpdate (vía el clasificador ABC). El resto de
// campos es de solo lectura aquí.
type Product struct {
	ID            string
	Name          string
	Barcode       string
	CurrentStock  int // autoritativo únicamente vía escrituras del ledger
	MinStock      int
	BuyPrice      decimal.Decimal
	SellPrice     decimal.Decimal
	ABCCategory   string // A, B, C o vacío (sin clasificar)
	ABCRank       int    // posición 1-based en la última corrida ABC
	ABCLastUpdate *time.Time
	Status        string // active, inactive
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive indica si el producto participa en el ledger y la analítica.
func (p *Product) IsActive() bool { return p.Status == ProductStatusActive }
