package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendly/stockcore-api/internal/application/dto"
	"github.com/vendly/stockcore-api/internal/application/ledger"
	"github.com/vendly/stockcore-api/internal/domain/entity"
	"github.com/vendly/stockcore-api/internal/domain/repository"
	apphttp "github.com/vendly/stockcore-api/internal/interfaces/http"
)

// Fakes mínimos de los puertos del ledger para probar el mapeo HTTP de punta
// a punta sin base de datos.

type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (r *memProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *memProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) { return nil, nil }

func (r *memProductRepo) UpdateStock(_ context.Context, productID string, newStock int) error {
	if p, ok := r.products[productID]; ok {
		p.CurrentStock = newStock
	}
	return nil
}

func (r *memProductRepo) UpdateClassifications(_ context.Context, _ []repository.ABCClassification, _ time.Time) error {
	return nil
}

func (r *memProductRepo) GetOverview(_ context.Context, _ float64) (*repository.InventoryOverview, error) {
	return &repository.InventoryOverview{}, nil
}

type memMovementRepo struct {
	movements []*entity.StockMovement
}

func (r *memMovementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}

func (r *memMovementRepo) GetByID(_ context.Context, _ string) (*entity.StockMovement, error) {
	return nil, nil
}

func (r *memMovementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for i := len(r.movements) - 1; i >= 0; i-- {
		if r.movements[i].ProductID == productID {
			out = append(out, r.movements[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memMovementRepo) GetActivity(_ context.Context, _, _ time.Time) ([]repository.ProductActivity, error) {
	return nil, nil
}

func (r *memMovementRepo) GetDailyConsumption(_ context.Context, _ string, _, _ time.Time) ([]repository.ConsumptionDay, error) {
	return nil, nil
}

type directTxRunner struct {
	products  *memProductRepo
	movements *memMovementRepo
}

func (r *directTxRunner) Run(_ context.Context, fn func(
	products repository.ProductRepository,
	movements repository.MovementRepository,
) error) error {
	return fn(r.products, r.movements)
}

func buildTestApp(products ...*entity.Product) *fiber.App {
	productRepo := &memProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		productRepo.products[p.ID] = p
	}
	movementRepo := &memMovementRepo{}
	uc := ledger.NewUseCase(
		&directTxRunner{products: productRepo, movements: movementRepo},
		productRepo, movementRepo, nil,
		ledger.Config{LowStockFactor: 1.2},
	)

	app := fiber.New()
	api := app.Group("/api/inventory")
	handler := apphttp.NewLedgerHandler(uc)
	api.Post("/movements", handler.RegisterMovement)
	api.Get("/products/:id/stock", handler.GetCurrentStock)
	api.Get("/products/:id/movements", handler.GetMovementHistory)
	return app
}

func testProduct(id string, stock, minStock int) *entity.Product {
	return &entity.Product{
		ID:           id,
		Name:         "Producto " + id,
		CurrentStock: stock,
		MinStock:     minStock,
		BuyPrice:     decimal.NewFromFloat(2.00),
		SellPrice:    decimal.NewFromFloat(3.00),
		Status:       entity.ProductStatusActive,
	}
}

func postMovement(t *testing.T, app *fiber.App, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/inventory/movements", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRegisterMovement_Creado201(t *testing.T) {
	app := buildTestApp(testProduct("p1", 50, 10))

	resp := postMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "p1",
		Type:      "sale",
		Quantity:  3,
		Reason:    "venta mostrador",
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body dto.RegisterMovementResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "p1", body.Movement.ProductID)
	assert.Equal(t, -3, body.Movement.Quantity)
	assert.Equal(t, 50, body.Movement.PreviousStock)
	assert.Equal(t, 47, body.Movement.NewStock)
	assert.Empty(t, body.Warnings)
}

func TestRegisterMovement_StockInsuficiente409ConDetalles(t *testing.T) {
	app := buildTestApp(testProduct("p1", 5, 10))

	resp := postMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "p1",
		Type:      "out",
		Quantity:  8,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	var body struct {
		Code    string `json:"code"`
		Details struct {
			CurrentStock      int `json:"current_stock"`
			RequestedQuantity int `json:"requested_quantity"`
		} `json:"details"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.Equal(t, 5, body.Details.CurrentStock,
		"el 409 debe informar el stock disponible")
	assert.Equal(t, 8, body.Details.RequestedQuantity)
}

func TestRegisterMovement_ProductoInexistente404(t *testing.T) {
	app := buildTestApp()

	resp := postMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "fantasma",
		Type:      "sale",
		Quantity:  1,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRegisterMovement_TipoInvalido400(t *testing.T) {
	app := buildTestApp(testProduct("p1", 50, 10))

	resp := postMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "p1",
		Type:      "transfer",
		Quantity:  1,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterMovement_ProductoInactivo400(t *testing.T) {
	inactive := testProduct("p1", 50, 10)
	inactive.Status = entity.ProductStatusInactive
	app := buildTestApp(inactive)

	resp := postMovement(t, app, dto.RegisterMovementRequest{
		ProductID: "p1",
		Type:      "restock",
		Quantity:  5,
	})
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetCurrentStock_200(t *testing.T) {
	app := buildTestApp(testProduct("p1", 17, 2))

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/products/p1/stock", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.CurrentStockResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "p1", body.ProductID)
	assert.Equal(t, 17, body.CurrentStock)
}

func TestGetCurrentStock_404(t *testing.T) {
	app := buildTestApp()

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/products/nadie/stock", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetMovementHistory_DevuelveRecientesPrimero(t *testing.T) {
	app := buildTestApp(testProduct("p1", 100, 2))

	for _, reason := range []string{"primera", "segunda", "tercera"} {
		resp := postMovement(t, app, dto.RegisterMovementRequest{
			ProductID: "p1",
			Type:      "sale",
			Quantity:  1,
			Reason:    reason,
		})
		resp.Body.Close()
	}

	req := httptest.NewRequest(http.MethodGet, "/api/inventory/products/p1/movements?limit=2", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.MovementHistoryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Movements, 2)
	assert.Equal(t, "tercera", body.Movements[0].Reason)
	assert.Equal(t, "segunda", body.Movements[1].Reason)
}

// TestGetMovementHistory_ReportaPaginacionEfectiva verifica que la respuesta
// informa los valores de paginación aplicados (default y tope), no los crudos
// de la query.
func TestGetMovementHistory_ReportaPaginacionEfectiva(t *testing.T) {
	app := buildTestApp(testProduct("p1", 100, 2))

	cases := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{name: "sin parámetros aplica el default", query: "", wantLimit: 50, wantOffset: 0},
		{name: "limit excedido se recorta al tope", query: "?limit=500&offset=10", wantLimit: 200, wantOffset: 10},
		{name: "offset negativo se normaliza a cero", query: "?limit=5&offset=-3", wantLimit: 5, wantOffset: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/inventory/products/p1/movements"+tc.query, nil)
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var body dto.MovementHistoryResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.wantLimit, body.Limit)
			assert.Equal(t, tc.wantOffset, body.Offset)
		})
	}
}
