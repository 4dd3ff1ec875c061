package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitacross/vitacross-api/internal/models"
	"github.com/vitacross/vitacross-api/internal/server"
	"github.com/vitacross/vitacross-api/internal/session"
	"github.com/vitacross/vitacross-api/internal/testutil"
	"gorm.io/gorm"
)

type testApp struct {
	app  *fiber.App
	db   *gorm.DB
	mail *testutil.Mailer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	mail := &testutil.Mailer{}
	cfg := testutil.Config()
	cfg.PaymentWebhookSecret = "hook-secret"

	deps := server.Deps{DB: db, Store: testutil.NewStore(), Mailer: mail}
	svc := server.NewServices(cfg, deps)
	require.NoError(t, svc.Catalog.SeedDefaults())
	require.NoError(t, svc.Settings.SeedDefaults())
	return &testApp{app: server.New(cfg, deps, svc), db: db, mail: mail}
}

func (a *testApp) do(t *testing.T, method, path string, body interface{}, cookie *http.Cookie) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == session.CookieName {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", session.CookieName)
	return nil
}

type authBody struct {
	Success bool        `json:"success"`
	User    models.User `json:"user"`
	Token   string      `json:"token"`
}

func (a *testApp) register(t *testing.T, email string) (*http.Cookie, uint) {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": email, "password": "secret123", "name": "Jane",
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cookie := sessionCookie(t, resp)
	var body authBody
	decode(t, resp, &body)
	return cookie, body.User.ID
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)

	resp := a.do(t, http.MethodGet, "/api/health", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "ok", body["db"])
}

func TestRegisterTwiceConflicts(t *testing.T) {
	a := newTestApp(t)
	a.register(t, "jane@example.com")

	resp := a.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "jane@example.com", "password": "another1",
	}, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterValidation(t *testing.T) {
	a := newTestApp(t)

	resp := a.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "nope", "password": "1",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginThenMe(t *testing.T) {
	a := newTestApp(t)
	_, id := a.register(t, "jane@example.com")

	resp := a.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "jane@example.com", "password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookie := sessionCookie(t, resp)
	assert.True(t, cookie.HttpOnly)

	resp = a.do(t, http.MethodGet, "/api/auth/me", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		User models.User `json:"user"`
	}
	decode(t, resp, &me)
	assert.Equal(t, id, me.User.ID)
	assert.Equal(t, "jane@example.com", me.User.Email)
}

func TestMeWithBearerToken(t *testing.T) {
	a := newTestApp(t)
	resp := a.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"email": "jane@example.com", "password": "secret123",
	}, nil)
	var body authBody
	decode(t, resp, &body)
	require.NotEmpty(t, body.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	res, err := a.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
}

func TestMeRequiresSession(t *testing.T) {
	a := newTestApp(t)

	resp := a.do(t, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/auth/me", nil, &http.Cookie{Name: session.CookieName, Value: "garbage"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogoutClearsCookie(t *testing.T) {
	a := newTestApp(t)
	cookie, _ := a.register(t, "jane@example.com")

	resp := a.do(t, http.MethodPost, "/api/auth/logout", nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cleared := sessionCookie(t, resp)
	assert.Empty(t, cleared.Value)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	a := newTestApp(t)
	cookie, _ := a.register(t, "jane@example.com")

	resp := a.do(t, http.MethodPost, "/api/admin/services", map[string]interface{}{
		"name": "Heart check", "price": 99,
	}, cookie)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/api/admin/services", map[string]interface{}{
		"name": "Heart check", "price": 99,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminCanManageServices(t *testing.T) {
	a := newTestApp(t)
	cookie, id := a.register(t, "boss@example.com")
	require.NoError(t, a.db.Model(&models.User{}).Where("id = ?", id).Update("role", models.RoleAdmin).Error)

	resp := a.do(t, http.MethodPost, "/api/admin/services", map[string]interface{}{
		"name": "Heart check", "price": 99,
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/api/services", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list []models.Service
	decode(t, resp, &list)
	assert.Len(t, list, 3)

	resp = a.do(t, http.MethodGet, "/api/admin/dashboard", nil, cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func createConsultation(t *testing.T, a *testApp, cookie *http.Cookie) models.PatientConsultation {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/consultations", map[string]string{
		"firstName": "Jane", "lastName": "Doe", "email": "jane@example.com",
		"phone": "+8613800000000", "medicalCondition": "Knee pain",
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var c models.PatientConsultation
	decode(t, resp, &c)
	return c
}

func upload(t *testing.T, a *testApp, consultationID uint, name, contentType string, body []byte) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, name))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(body)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("fileType", "report"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/consultations/%d/files", consultationID), &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestConsultationFlow(t *testing.T) {
	a := newTestApp(t)
	cookie, userID := a.register(t, "jane@example.com")

	c := createConsultation(t, a, cookie)
	require.NotNil(t, c.UserID)
	assert.Equal(t, userID, *c.UserID)
	assert.Len(t, a.mail.Messages(), 2)

	resp := upload(t, a, c.ID, "scan.pdf", "application/pdf", []byte("%PDF-1.4 test"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var uploaded models.MedicalFile
	decode(t, resp, &uploaded)
	assert.Equal(t, c.ID, uploaded.ConsultationID)

	resp = a.do(t, http.MethodGet, fmt.Sprintf("/api/consultations/%d/files", c.ID), nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var files []models.MedicalFile
	decode(t, resp, &files)
	require.Len(t, files, 1)
	assert.Equal(t, uploaded.ID, files[0].ID)
	assert.Equal(t, c.ID, files[0].ConsultationID)

	resp = a.do(t, http.MethodGet, fmt.Sprintf("/api/medical-files/%d/download", uploaded.ID), nil, cookie)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var link map[string]interface{}
	decode(t, resp, &link)
	assert.True(t, strings.HasPrefix(link["url"].(string), "https://files.test/"))

	// another patient cannot read it
	other, _ := a.register(t, "other@example.com")
	resp = a.do(t, http.MethodGet, fmt.Sprintf("/api/consultations/%d", c.ID), nil, other)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp = a.do(t, http.MethodGet, fmt.Sprintf("/api/medical-files/%d/download", uploaded.ID), nil, other)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUploadToClosedConsultation(t *testing.T) {
	a := newTestApp(t)
	c := createConsultation(t, a, nil)
	require.NoError(t, a.db.Model(&models.PatientConsultation{}).Where("id = ?", c.ID).
		Update("status", models.ConsultationCompleted).Error)

	resp := upload(t, a, c.ID, "scan.pdf", "application/pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = upload(t, a, c.ID+100, "scan.pdf", "application/pdf", []byte("%PDF"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPaymentWebhook(t *testing.T) {
	a := newTestApp(t)
	cookie, _ := a.register(t, "jane@example.com")

	var services []models.Service
	decode(t, a.do(t, http.MethodGet, "/api/services", nil, nil), &services)
	require.NotEmpty(t, services)

	resp := a.do(t, http.MethodPost, "/api/orders", map[string]interface{}{
		"serviceId": services[0].ID, "paymentMethod": "paypal",
	}, cookie)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var order models.Order
	decode(t, resp, &order)

	event := map[string]interface{}{
		"id":    "evt_1",
		"event": map[string]interface{}{"type": "payment.succeeded", "order_id": order.ID, "reference": "pp-1"},
	}

	resp = a.do(t, http.MethodPost, "/api/webhooks/payments", event, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	b, err := json.Marshal(event)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/payments", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "hook-secret")
	res, err := a.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode)

	var orders []models.Order
	decode(t, a.do(t, http.MethodGet, "/api/orders", nil, cookie), &orders)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderCompleted, orders[0].Status)
}

func TestLanguageCookie(t *testing.T) {
	a := newTestApp(t)

	resp := a.do(t, http.MethodGet, "/api/legal/terms?lang=zh", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "服务条款")

	var found bool
	for _, c := range resp.Cookies() {
		if c.Name == "vc_lang" {
			found = true
			assert.Equal(t, "zh", c.Value)
		}
	}
	assert.True(t, found)
}
