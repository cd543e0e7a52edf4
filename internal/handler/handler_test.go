package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-tailor-inventory/internal/apperror"
	"go-tailor-inventory/internal/middleware"
	"go-tailor-inventory/internal/model"
	"go-tailor-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTransferService struct {
	gotActor service.Actor
	gotReq   *service.CreateTransferRequest
	balance  int
	found    bool
	err      error
}

func (s *stubTransferService) PostTransfer(_ context.Context, actor service.Actor, req *service.CreateTransferRequest) (*service.TransferResponse, error) {
	s.gotActor, s.gotReq = actor, req
	if s.err != nil {
		return nil, s.err
	}
	balance := 10
	return &service.TransferResponse{TransferID: 1, Quantity: req.Quantity, Balance: &balance}, nil
}

func (s *stubTransferService) GetBalance(context.Context, uint, uint, model.Category) (int, bool, error) {
	return s.balance, s.found, s.err
}

func (s *stubTransferService) GetProductStock(context.Context, string) (*service.ProductStockResponse, error) {
	return nil, apperror.NotFound("Product not found.")
}

func (s *stubTransferService) ListTransfers(context.Context, service.TransferListRequest) (*service.PageResult[service.TransferResponse], error) {
	return &service.PageResult[service.TransferResponse]{Data: []service.TransferResponse{}}, nil
}

func newTransferApp(svc service.TransferService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	h := NewTransferHandler(svc)
	withUser := func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserName, "siti")
		c.Locals(middleware.LocalUserID, "7f9c2ba4-e88f-4f3b-9a6c-0d1f2e3a4b5c")
		return c.Next()
	}
	app.Post("/api/transfers", withUser, h.Create)
	app.Get("/api/transfers/:productCode", h.ProductStock)
	app.Get("/api/balances", h.Balance)
	return app
}

func readJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body
}

func TestTransferHandler_Create(t *testing.T) {
	svc := &stubTransferService{}
	app := newTransferApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/transfers", strings.NewReader(
		`{"product_id":1,"model_id":2,"quantity":5,"remark":"jahit","category":"Good","type":"In"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := readJSON(t, resp)
	data := body["data"].(map[string]interface{})
	assert.EqualValues(t, 10, data["balance"])
	assert.Equal(t, "siti", svc.gotActor.Username)
	assert.Equal(t, "7f9c2ba4-e88f-4f3b-9a6c-0d1f2e3a4b5c", svc.gotActor.ID.String())
	assert.Equal(t, model.CategoryGood, svc.gotReq.Category)
	assert.Equal(t, model.TransferIn, svc.gotReq.Type)
}

func TestTransferHandler_CreateErrors(t *testing.T) {
	svc := &stubTransferService{err: apperror.Validation(apperror.MsgNegativeStock)}
	app := newTransferApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/transfers", strings.NewReader(`{"product_id":`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid JSON", readJSON(t, resp)["message"])
	assert.Nil(t, svc.gotReq, "malformed bodies never reach the service")

	req = httptest.NewRequest(http.MethodPost, "/api/transfers", strings.NewReader(`{"quantity":99}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := readJSON(t, resp)
	assert.EqualValues(t, http.StatusBadRequest, body["status"])
	assert.Equal(t, apperror.MsgNegativeStock, body["message"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/transfers/P00404", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTransferHandler_Balance(t *testing.T) {
	svc := &stubTransferService{}
	app := newTransferApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/balances?product_id=1&model_id=2&category=Bad", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := readJSON(t, resp)["data"].(map[string]interface{})
	assert.Nil(t, data["quantity"], "absent key reports null")
	assert.Equal(t, "Bad", data["category"])

	svc.found, svc.balance = true, 0
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/balances?product_id=1&model_id=2&category=Bad", nil))
	require.NoError(t, err)
	data = readJSON(t, resp)["data"].(map[string]interface{})
	assert.EqualValues(t, 0, data["quantity"])
}

func TestTransferHandler_BalanceRejectsBadIDs(t *testing.T) {
	svc := &stubTransferService{}
	app := newTransferApp(svc)

	for _, query := range []string{"product_id=-1&model_id=2", "product_id=1&model_id=abc", "product_id=0&model_id=2"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/balances?category=Good&"+query, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, query)
	}
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	up := fiber.New()
	up.Get("/api/health-check", NewHealthHandler(stubPinger{}).Check)
	resp, err := up.Test(httptest.NewRequest(http.MethodGet, "/api/health-check", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	data := readJSON(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "up", data["database"])

	down := fiber.New()
	down.Get("/api/health-check", NewHealthHandler(stubPinger{err: errors.New("dial tcp: refused")}).Check)
	resp, err = down.Test(httptest.NewRequest(http.MethodGet, "/api/health-check", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "down", readJSON(t, resp)["database"])
}

func TestParseID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Get("/tailors/:tailorId", func(c *fiber.Ctx) error {
		id, err := parseID(c, "tailorId")
		if err != nil {
			return err
		}
		return ok(c, id)
	})

	for path, status := range map[string]int{
		"/tailors/12":  http.StatusOK,
		"/tailors/0":   http.StatusBadRequest,
		"/tailors/-1":  http.StatusBadRequest,
		"/tailors/abc": http.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}
}
