package dto

import "time"

// RegisterMovementRequest cuerpo de POST /api/inventory/movements.
// quantity admite magnitud positiva para tipos de salida; se normaliza.
type RegisterMovementRequest struct {
	ProductID string            `json:"product_id"`
	Type      string            `json:"movement_type"`
	Quantity  int               `json:"quantity"`
	Reason    string            `json:"reason"`
	Metadata  map[string]string `json:"metadata"`
	UserID    string            `json:"user_id"`
}

// MovementResponse representación de un movimiento del ledger.
type MovementResponse struct {
	ID            string            `json:"id"`
	ProductID     string            `json:"product_id"`
	Type          string            `json:"movement_type"`
	Quantity      int               `json:"quantity"`
	PreviousStock int               `json:"previous_stock"`
	NewStock      int               `json:"new_stock"`
	Reason        string            `json:"reason,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	UserID        string            `json:"user_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// RegisterMovementResponse respuesta de un commit exitoso: el movimiento
// persistido más las advertencias de stock consultivas.
type RegisterMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	Warnings []string         `json:"warnings"`
}

// CurrentStockResponse respuesta de GET /api/inventory/products/:id/stock.
type CurrentStockResponse struct {
	ProductID    string `json:"product_id"`
	CurrentStock int    `json:"current_stock"`
}

// MovementHistoryResponse página del historial de movimientos.
type MovementHistoryResponse struct {
	ProductID string             `json:"product_id"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	Movements []MovementResponse `json:"movements"`
}

// ErrorResponse respuesta de error de la API.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}
