package entity

import "time"

// Tipos de movimiento de stock. Las entradas suman, las salidas restan.
const (
	MovementTypeIn      = "in"      // entrada genérica
	MovementTypeRestock = "restock" // reposición de proveedor
	MovementTypeOut     = "out"     // salida genérica
	MovementTypeSale    = "sale"    // venta
	MovementTypeWaste   = "waste"   // merma / descarte
	MovementTypeAdjust  = "adjust"  // ajuste con signo (conteo físico)
	// Entrada compensatoria: revierte una merma registrada por error.
	// El historial nunca se borra ni se reescribe; se compensa.
	MovementTypeDisposalReversal = "disposal_reversal"
)

// IsValidMovementType verifica que el tipo sea uno de los soportados.
func IsValidMovementType(t string) bool {
	switch t {
	case MovementTypeIn, MovementTypeRestock, MovementTypeOut, MovementTypeSale,
		MovementTypeWaste, MovementTypeAdjust, MovementTypeDisposalReversal:
		return true
	}
	return false
}

// IsOutboundType indica si el tipo descuenta stock (out, sale, waste).
func IsOutboundType(t string) bool {
	return t == MovementTypeOut || t == MovementTypeSale || t == MovementTypeWaste
}

// IsInboundType indica si el tipo agrega stock (in, restock, disposal_reversal).
func IsInboundType(t string) bool {
	return t == MovementTypeIn || t == MovementTypeRestock || t == MovementTypeDisposalReversal
}

// StockMovement es una entrada del ledger append-only. Inmutable una vez
// confirmada: las correcciones se hacen con movimientos compensatorios,
// nunca mutando o borrando historial.
//
// Invariante: NewStock = PreviousStock + Quantity, y ordenando por fecha de
// commit el PreviousStock del movimiento N+1 de un producto es igual al
// NewStock del movimiento N (cadena estrictamente ordenada por producto).
type StockMovement struct {
	ID            string
	ProductID     string
	Type          string
	Quantity      int // con signo: positivo entrada, negativo salida
	PreviousStock int // snapshot al momento del commit, nunca recalculado
	NewStock      int // PreviousStock + Quantity
	Reason        string
	Metadata      map[string]string
	UserID        string
	CreatedAt     time.Time
}
