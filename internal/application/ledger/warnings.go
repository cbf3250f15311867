package ledger

// Advertencias de stock evaluadas tras un commit. Son datos consultivos para
// el caller (ej. disparar un correo), nunca fallas de la operación.
const (
	WarningOutOfStock   = "out_of_stock"   // new_stock <= 0
	WarningBelowMinimum = "below_minimum"  // new_stock <= min_stock
	WarningLowStock     = "low_stock"      // new_stock <= lowStockFactor * min_stock
)

// EvaluateWarnings evalúa el estado de stock contra los umbrales y devuelve
// la advertencia más severa aplicable, o una lista vacía si no hay ninguna.
// Se evalúa fuera de la transacción, en modo solo lectura.
func EvaluateWarnings(newStock, minStock int, lowStockFactor float64) []string {
	switch {
	case newStock <= 0:
		return []string{WarningOutOfStock}
	case newStock <= minStock:
		return []string{WarningBelowMinimum}
	case float64(newStock) <= lowStockFactor*float64(minStock):
		return []string{WarningLowStock}
	}
	return []string{}
}
