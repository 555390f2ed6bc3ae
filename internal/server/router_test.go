package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-erp-admin/internal/config"
	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"
	"go-erp-admin/internal/ws"
	"go-erp-admin/pkg/database/dbtest"
	"go-erp-admin/pkg/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testApp struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := dbtest.Open(t, model.AllModels()...)
	log := logrus.New()
	log.SetOutput(io.Discard)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		AppName:        "ERP Admin test",
		AppEnv:         "test",
		SessionSecret:  "test-secret-0123456789",
		SessionCookie:  "erp_session",
		LoginRateLimit: 1000,
		AdminUsername:  "admin",
		AdminPassword:  "admin-pass",
	}
	deps := Deps{
		Config:   cfg,
		Log:      log,
		DB:       db,
		Redis:    client,
		Sessions: session.NewStore(client, time.Hour),
		Hub:      ws.NewHub(log),
	}
	require.NoError(t, Seed(deps))
	return &testApp{app: NewApp(deps), db: db}
}

// staff creates an active user holding only the view capability.
func (a *testApp) staff(t *testing.T, username string) *model.User {
	t.Helper()
	privileges, err := repository.NewPrivilegeRepo(a.db).FindByCodes([]string{string(model.CapView)})
	require.NoError(t, err)
	u := &model.User{Username: username, IsActive: true, Privileges: privileges}
	require.NoError(t, u.SetPassword("staff-pass"))
	require.NoError(t, repository.NewUserRepo(a.db).Create(u))
	return u
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]interface{}{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (a *testApp) login(t *testing.T, username, password string) string {
	t.Helper()
	status, body := a.do(t, http.MethodPost, "/login", "", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, status, body)
	data := body["data"].(map[string]interface{})
	return data["token"].(string)
}

func TestProtectedRoutesRequireLogin(t *testing.T) {
	a := newTestApp(t)

	status, _ := a.do(t, http.MethodGet, "/materials", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = a.do(t, http.MethodGet, "/materials", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := a.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestLoginFailureBodiesMatch(t *testing.T) {
	a := newTestApp(t)
	a.staff(t, "sam")

	status1, wrongPassword := a.do(t, http.MethodPost, "/login", "", map[string]string{"username": "sam", "password": "nope"})
	status2, unknownUser := a.do(t, http.MethodPost, "/login", "", map[string]string{"username": "nobody", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, status1)
	assert.Equal(t, status1, status2)
	assert.Equal(t, wrongPassword, unknownUser)
}

func TestStaffCannotCreateFinanceEntry(t *testing.T) {
	a := newTestApp(t)
	a.staff(t, "sam")
	token := a.login(t, "sam", "staff-pass")

	status, denied := a.do(t, http.MethodPost, "/finance_management", token, map[string]interface{}{
		"date":             "2024-03-01",
		"transaction_type": "income",
		"amount":           "100",
	})
	assert.Equal(t, http.StatusNotFound, status)

	var count int64
	require.NoError(t, a.db.Model(&model.Finance{}).Count(&count).Error)
	assert.Zero(t, count)

	status, missing := a.do(t, http.MethodGet, "/finance_management/"+uuid.NewString(), token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, denied, missing)

	status, malformed := a.do(t, http.MethodGet, "/finance_management/not-an-id", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, denied, malformed)

	status, users := a.do(t, http.MethodGet, "/edit_user_permissions", token, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, denied, users)
}

func TestAdminGrantLetsStaffCreateProduct(t *testing.T) {
	a := newTestApp(t)
	sam := a.staff(t, "sam")
	adminToken := a.login(t, "admin", "admin-pass")
	samToken := a.login(t, "sam", "staff-pass")

	status, body := a.do(t, http.MethodPost, "/product_categories", adminToken, map[string]string{"name": "Assemblies", "code": "ASM"})
	require.Equal(t, http.StatusCreated, status, body)
	categoryID := body["data"].(map[string]interface{})["id"].(string)

	product := map[string]string{"category_id": categoryID, "name": "Frame", "code": "FR-1", "unit": "pcs"}
	status, _ = a.do(t, http.MethodPost, "/products/manage", samToken, product)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = a.do(t, http.MethodPost, "/edit_user_permissions/"+sam.ID.String(), adminToken, map[string]interface{}{
		"capabilities": []string{"view", "manage_products"},
	})
	require.Equal(t, http.StatusOK, status, body)

	status, body = a.do(t, http.MethodPost, "/products/manage", samToken, product)
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Frame", body["data"].(map[string]interface{})["name"])

	status, _ = a.do(t, http.MethodPost, "/finance_management", samToken, map[string]string{"date": "2024-03-01", "transaction_type": "income"})
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStockAdjustmentOverHTTP(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, "admin", "admin-pass")

	status, body := a.do(t, http.MethodPost, "/material_categories", token, map[string]string{"name": "Fasteners", "code": "FAS"})
	require.Equal(t, http.StatusCreated, status, body)
	categoryID := body["data"].(map[string]interface{})["id"].(string)

	status, body = a.do(t, http.MethodPost, "/materials/manage", token, map[string]string{"category_id": categoryID, "name": "Bolt M6", "code": "M6"})
	require.Equal(t, http.StatusCreated, status, body)
	materialID := body["data"].(map[string]interface{})["id"].(string)

	adjust := func(op, qty string) (int, map[string]interface{}) {
		return a.do(t, http.MethodPost, "/warehouse_management", token, map[string]string{
			"item_kind": "material", "item_id": materialID, "operation_type": op, "quantity": qty,
		})
	}

	status, body = adjust("in", "100")
	require.Equal(t, http.StatusOK, status, body)
	status, body = adjust("out", "30")
	require.Equal(t, http.StatusOK, status, body)

	status, body = adjust("out", "1000")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "insufficient stock remaining", body["error"])

	status, _ = adjust("teleport", "1")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = a.do(t, http.MethodGet, "/materials/manage/"+materialID, token, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "70", body["data"].(map[string]interface{})["quantity"])

	status, body = a.do(t, http.MethodGet, "/report", token, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "70", body["data"].(map[string]interface{})["total_stock"])
}

func TestLogoutEndsSession(t *testing.T) {
	a := newTestApp(t)
	token := a.login(t, "admin", "admin-pass")

	status, _ := a.do(t, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = a.do(t, http.MethodGet, "/logout", token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = a.do(t, http.MethodGet, "/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestProductBudgetNeedsManageProducts(t *testing.T) {
	a := newTestApp(t)
	a.staff(t, "sam")
	adminToken := a.login(t, "admin", "admin-pass")
	samToken := a.login(t, "sam", "staff-pass")

	status, body := a.do(t, http.MethodPost, "/product_categories", adminToken, map[string]string{"name": "Assemblies", "code": "ASM"})
	require.Equal(t, http.StatusCreated, status, body)
	categoryID := body["data"].(map[string]interface{})["id"].(string)
	status, body = a.do(t, http.MethodPost, "/products/manage", adminToken, map[string]string{"category_id": categoryID, "name": "Frame", "code": "FR-1"})
	require.Equal(t, http.StatusCreated, status, body)
	productID := body["data"].(map[string]interface{})["id"].(string)

	process := map[string]interface{}{"manufacturing_time": "2.5", "galvanizing_cost": "12.40", "base_material_cost": "80"}
	status, body = a.do(t, http.MethodPost, "/products/"+productID+"/process", adminToken, process)
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "12.4", body["data"].(map[string]interface{})["galvanizing_cost"])

	formula := map[string]interface{}{"seq": 1, "name": "Unit price", "formula": "{manufacturing time}*2"}
	status, body = a.do(t, http.MethodPost, "/products/"+productID+"/budget_formulas", adminToken, formula)
	require.Equal(t, http.StatusCreated, status, body)

	status, body = a.do(t, http.MethodGet, "/products/"+productID+"/budget_formulas", adminToken, nil)
	require.Equal(t, http.StatusOK, status, body)
	assert.Len(t, body["data"], 1)

	_, denied := a.do(t, http.MethodGet, "/products/"+uuid.NewString()+"/process", adminToken, nil)
	for _, path := range []string{"/products/" + productID + "/process", "/products/" + productID + "/budget_formulas"} {
		status, body = a.do(t, http.MethodGet, path, samToken, nil)
		assert.Equal(t, http.StatusNotFound, status, path)
		assert.Equal(t, denied, body, path)
	}
	status, _ = a.do(t, http.MethodPost, "/products/"+productID+"/process", samToken, process)
	assert.Equal(t, http.StatusNotFound, status)
}
