package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/accounting"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/auth"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ingestion"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/ports"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/purchasing"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/application/supplier"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/entity"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/domain/ledger"
	"github.com/ramiroschettino/Procesador-de-factura-autom/internal/infrastructure/memory"
	apphttp "github.com/ramiroschettino/Procesador-de-factura-autom/internal/interfaces/http"
	pkgjwt "github.com/ramiroschettino/Procesador-de-factura-autom/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type stubExtractor struct {
	inv *entity.InvoiceExtraction
	err error
}

var _ ports.InvoiceExtractor = (*stubExtractor)(nil)

func (s *stubExtractor) Extract(context.Context, ports.Document) (*entity.InvoiceExtraction, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := *s.inv
	return &c, nil
}

func (s *stubExtractor) Reconcile(context.Context, ports.Document, []entity.PurchaseOrderItem) (*entity.ReconciliationReport, error) {
	return &entity.ReconciliationReport{Summary: "ok", Matched: true}, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func invoice() *entity.InvoiceExtraction {
	return &entity.InvoiceExtraction{
		Header: entity.InvoiceHeader{
			Supplier:      entity.ExtractedSupplier{Name: "ACME SA", TaxID: "30712345678"},
			DocumentType:  "FACTURA A",
			EmissionPoint: "0003",
			Number:        "00012345",
			EmissionDate:  "10/03/2026",
			Totals:        entity.InvoiceTotals{Total: dec("1210"), NetTaxed: dec("1000"), Tax: dec("210")},
		},
		Items: []entity.InvoiceItem{{Line: 1, Description: "HARINA 000", Quantity: dec("10"), UnitPrice: dec("100")}},
		Taxes: []entity.InvoiceTax{{Type: "IVA 21%", Amount: dec("210")}},
	}
}

type testEnv struct {
	app   *fiber.App
	store *memory.Store
}

func newEnv(t *testing.T, ex ports.InvoiceExtractor, ping func(context.Context) error) testEnv {
	t.Helper()
	store := memory.NewStore()
	store.AddSupplier(entity.Supplier{
		Code: "P0001", LegalName: "ACME SA", TaxID: "30712345678",
		Status: entity.SupplierActive, PersonType: "P", DocumentationComplete: true,
	})
	store.AddOrder(
		entity.PurchaseOrderSummary{OrderNumber: "4501", SupplierCode: "P0001", Status: entity.OrderOpen, Date: time.Now().AddDate(0, 0, -5)},
		memory.OrderLine{PurchaseOrderItem: entity.PurchaseOrderItem{LineNumber: 1, Description: "HARINA 000", OriginalQuantity: dec("10"), UnitPrice: dec("100"), PendingQuantity: dec("10")}},
	)

	log := zerolog.Nop()
	matcher := supplier.NewMatcher(store, supplier.Config{
		OwnTaxIDs: []string{"30543400713"}, AllowedPersonTypes: []string{"P", "C", "RI"},
	}, log)
	orders := purchasing.NewResolver(store, log)
	lb := accounting.NewLedgerBuilder(ledger.Accounts{Payables: "210101", TaxCredit: "110501", DefaultExpense: "520101"}, "MOLINO", log)
	coord := ingestion.NewCoordinator(store, matcher, lb, ingestion.Config{Company: "MOLINO", Receiver: "EMPRESA"}, log)
	pipeline := ingestion.NewPipeline(ex, matcher, orders, coord, log)
	authSvc := auth.NewService(store, auth.JWTConfig{
		Secret: testJWTSecret, Issuer: "test", ExpMinutes: 15, Company: "MOLINO",
	}, log)

	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		Pipeline: pipeline, Matcher: matcher, Orders: orders, Auth: authSvc,
		JWTSecret: testJWTSecret, Provider: "gemini", Ping: ping,
	})
	return testEnv{app: app, store: store}
}

// upload arma un multipart con el campo file y los campos extra.
func upload(t *testing.T, path, role string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "factura.pdf")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("%PDF-1.4 contenido"))
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", tokenForRole(t, role))
	return req
}

func get(t *testing.T, path, role string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", tokenForRole(t, role))
	return req
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp.StatusCode, body
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	// Caso 1: sin ping sólo informa el proveedor de IA.
	env := newEnv(t, &stubExtractor{inv: invoice()}, nil)
	status, body := send(t, env.app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "gemini", body["ai_provider"])

	// Caso 2: la base no responde.
	env = newEnv(t, &stubExtractor{inv: invoice()}, func(context.Context) error { return errors.New("connection refused") })
	status, body = send(t, env.app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "degraded", body["status"])
}

func TestProcess_IntegraYRechazaDuplicado(t *testing.T) {
	env := newEnv(t, &stubExtractor{inv: invoice()}, nil)

	// Caso 1: primera carga → 201 con número de archivo.
	resp, err := env.app.Test(upload(t, "/api/invoices/process", pkgjwt.RoleOperator, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	_, err = uuid.Parse(resp.Header.Get(apphttp.HeaderRequestID))
	assert.NoError(t, err, "la respuesta lleva un request id")

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, true, out["success"])
	db := out["database"].(map[string]any)
	assert.Equal(t, "1", db["archive_id"])
	assert.Equal(t, "P0001", db["supplier_code"])
	assert.Len(t, out["active_orders"], 1)
	require.Len(t, env.store.Documents(), 1)

	// Caso 2: el mismo comprobante otra vez → 409 y nada nuevo en el store.
	status, body := send(t, env.app, upload(t, "/api/invoices/process", pkgjwt.RoleOperator, nil))
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["database"].(map[string]any)["message"], "1")
	assert.Len(t, env.store.Documents(), 1)
}

func TestProcess_Errores(t *testing.T) {
	env := newEnv(t, &stubExtractor{inv: invoice()}, nil)

	// Caso 1: sin archivo → 400 VALIDATION.
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/process", strings.NewReader("x=1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleOperator))
	status, body := send(t, env.app, req)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	// Caso 2: el contador no puede cargar comprobantes.
	status, _ = send(t, env.app, upload(t, "/api/invoices/process", pkgjwt.RoleAccountant, nil))
	assert.Equal(t, http.StatusForbidden, status)

	// Caso 3: proveedor desconocido → 404 SUPPLIER_NOT_FOUND.
	unknown := invoice()
	unknown.Header.Supplier = entity.ExtractedSupplier{Name: "ZZZ YYY", TaxID: "30999999990"}
	env = newEnv(t, &stubExtractor{inv: unknown}, nil)
	status, body = send(t, env.app, upload(t, "/api/invoices/process", pkgjwt.RoleOperator, nil))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
	assert.Empty(t, env.store.Documents())
}

func TestExtract(t *testing.T) {
	// Caso 1: extracción válida, no persiste.
	env := newEnv(t, &stubExtractor{inv: invoice()}, nil)
	status, body := send(t, env.app, upload(t, "/api/invoices/extract", pkgjwt.RoleAdmin, nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.Empty(t, env.store.Documents())

	// Caso 2: falla el modelo → 422 EXTRACTION_FAILED.
	env = newEnv(t, &stubExtractor{err: errors.New("AI: Gemini HTTP 500")}, nil)
	status, body = send(t, env.app, upload(t, "/api/invoices/extract", pkgjwt.RoleAdmin, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "EXTRACTION_FAILED", body["code"])

	// Caso 3: timeout del modelo → 408.
	env = newEnv(t, &stubExtractor{err: errors.New("AI: timeout o cancelación: context deadline exceeded")}, nil)
	status, body = send(t, env.app, upload(t, "/api/invoices/extract", pkgjwt.RoleAdmin, nil))
	assert.Equal(t, http.StatusRequestTimeout, status)
	assert.Equal(t, "TIMEOUT", body["code"])
}

func TestReconcile(t *testing.T) {
	env := newEnv(t, &stubExtractor{inv: invoice()}, nil)

	// Caso 1: OC indicada en el formulario.
	status, body := send(t, env.app, upload(t, "/api/invoices/reconcile", pkgjwt.RoleOperator, map[string]string{"order_number": "4501"}))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "4501", body["order_number"])
	assert.Equal(t, "P0001", body["supplier_code"])

	// Caso 2: OC inexistente → 404.
	status, body = send(t, env.app, upload(t, "/api/invoices/reconcile", pkgjwt.RoleOperator, map[string]string{"order_number": "9999"}))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ORDER_NOT_FOUND", body["code"])

	// Caso 3: sin número y sin OC impresa → 400.
	status, body = send(t, env.app, upload(t, "/api/invoices/reconcile", pkgjwt.RoleOperator, nil))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestDiscover(t *testing.T) {
	env := newEnv(t, &stubExtractor{inv: invoice()}, nil)

	// Caso 1: desde el archivo, CUIT exacto recomendado.
	status, body := send(t, env.app, upload(t, "/api/suppliers/discover", pkgjwt.RoleOperator, nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(entity.MatchExactTaxID), body["match_kind"])
	sups := body["suppliers"].([]any)
	require.Len(t, sups, 1)
	first := sups[0].(map[string]any)
	assert.Equal(t, "P0001", first["code"])
	assert.Equal(t, true, first["recommended"])
	assert.Equal(t, float64(1), first["orders_with_pending"])

	// Caso 2: sin archivo, por nombre.
	req := httptest.NewRequest(http.MethodPost, "/api/suppliers/discover", strings.NewReader("name=acme+sa"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleOperator))
	status, body = send(t, env.app, req)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, string(entity.MatchNameSimilar), body["match_kind"])

	// Caso 3: sin candidatos → 404 con el cuerpo de descubrimiento.
	req = httptest.NewRequest(http.MethodPost, "/api/suppliers/discover", strings.NewReader("name=zzz+qqq"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", tokenForRole(t, pkgjwt.RoleOperator))
	status, body = send(t, env.app, req)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, false, body["success"])
}

func TestSearchOrdersItems(t *testing.T) {
	env := newEnv(t, &stubExtractor{inv: invoice()}, nil)

	// Caso 1: búsqueda por nombre.
	status, body := send(t, env.app, get(t, "/api/suppliers/search?name=Acme%20S.A.", pkgjwt.RoleAccountant))
	assert.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["candidates"])

	// Caso 2: sin parámetro.
	status, _ = send(t, env.app, get(t, "/api/suppliers/search", pkgjwt.RoleAccountant))
	assert.Equal(t, http.StatusBadRequest, status)

	// Caso 3: OCs activas del proveedor.
	resp, err := env.app.Test(get(t, "/api/suppliers/P0001/orders", pkgjwt.RoleAccountant), -1)
	require.NoError(t, err)
	var orders []entity.PurchaseOrderSummary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&orders))
	resp.Body.Close()
	require.Len(t, orders, 1)
	assert.Equal(t, "4501", orders[0].OrderNumber)
	assert.True(t, orders[0].TotalPendingAmount.Equal(dec("1000")))

	// Caso 4: líneas de la OC.
	resp, err = env.app.Test(get(t, "/api/orders/4501/items", pkgjwt.RoleAccountant), -1)
	require.NoError(t, err)
	var items []entity.PurchaseOrderItem
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&items))
	resp.Body.Close()
	require.Len(t, items, 1)
	assert.Equal(t, "HARINA 000", items[0].Description)

	// Caso 5: OC inexistente.
	status, body = send(t, env.app, get(t, "/api/orders/0000/items", pkgjwt.RoleAccountant))
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ORDER_NOT_FOUND", body["code"])
}

func TestRequestLogger_RespetaIDRecibido(t *testing.T) {
	env := newEnv(t, &stubExtractor{inv: invoice()}, nil)
	rid := uuid.NewString()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(apphttp.HeaderRequestID, rid)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, rid, resp.Header.Get(apphttp.HeaderRequestID))

	// Un id que no es UUID se reemplaza.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(apphttp.HeaderRequestID, "no-es-un-uuid")
	resp, err = env.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, "no-es-un-uuid", resp.Header.Get(apphttp.HeaderRequestID))
}
