package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vendly/stockcore-api/internal/application/dto"
	"github.com/vendly/stockcore-api/internal/application/ledger"
	"github.com/vendly/stockcore-api/internal/domain/entity"
)

// LedgerHandler expone el Stock Ledger por HTTP.
type LedgerHandler struct {
	ledger *ledger.UseCase
}

// NewLedgerHandler crea el handler del ledger.
func NewLedgerHandler(uc *ledger.UseCase) *LedgerHandler {
	return &LedgerHandler{ledger: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Description  Registra un movimiento en el ledger y actualiza el stock actual en la misma transacción
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        movement  body      dto.RegisterMovementRequest  true  "Movimiento"
// @Success      201       {object}  dto.RegisterMovementResponse
// @Failure      400       {object}  dto.ErrorResponse
// @Failure      404       {object}  dto.ErrorResponse
// @Failure      409       {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *LedgerHandler) RegisterMovement(c *fiber.Ctx) error {
	var req dto.RegisterMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "cuerpo de la petición inválido",
		})
	}

	result, err := h.ledger.AddMovement(c.Context(), ledger.AddMovementInput{
		ProductID: req.ProductID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Metadata:  req.Metadata,
		UserID:    req.UserID,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.RegisterMovementResponse{
		Movement: toMovementResponse(result.Movement),
		Warnings: result.Warnings,
	})
}

// GetCurrentStock godoc
// @Summary      Stock actual de un producto
// @Tags         inventory
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.CurrentStockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/stock [get]
func (h *LedgerHandler) GetCurrentStock(c *fiber.Ctx) error {
	productID := c.Params("id")

	stock, err := h.ledger.GetCurrentStock(c.Context(), productID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(dto.CurrentStockResponse{
		ProductID:    productID,
		CurrentStock: stock,
	})
}

// GetMovementHistory godoc
// @Summary      Historial de movimientos de un producto
// @Description  Movimientos más recientes primero, paginados por limit/offset
// @Tags         inventory
// @Produce      json
// @Param        id      path      string  true   "ID del producto"
// @Param        limit   query     int     false  "Máximo de movimientos (default 50, tope 200)"
// @Param        offset  query     int     false  "Desplazamiento"
// @Success      200     {object}  dto.MovementHistoryResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *LedgerHandler) GetMovementHistory(c *fiber.Ctx) error {
	productID := c.Params("id")
	// se reportan los valores efectivos, no los crudos del caller
	limit, offset := ledger.ClampHistoryPage(c.QueryInt("limit", 0), c.QueryInt("offset", 0))

	movements, err := h.ledger.GetMovementHistory(c.Context(), productID, limit, offset)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}

	return c.JSON(dto.MovementHistoryResponse{
		ProductID: productID,
		Limit:     limit,
		Offset:    offset,
		Movements: items,
	})
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		Metadata:      m.Metadata,
		UserID:        m.UserID,
		CreatedAt:     m.CreatedAt,
	}
}
