package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/memoriqr/memoriqr/internal/middleware"
	"github.com/memoriqr/memoriqr/internal/model"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
	"github.com/memoriqr/memoriqr/internal/service"
)

func adminTestRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(nil, nil, nil, secret, false)
	router := gin.New()
	router.POST("/admin/login", h.Login)
	adminGroup := router.Group("")
	adminGroup.Use(middleware.AdminAuth(secret))
	adminGroup.GET("/admin/session", h.Session)
	adminGroup.DELETE("/admin/session", h.Logout)
	return router
}

type stubActivationCodes struct {
	items map[string]*model.RetailActivationCode
}

func (s *stubActivationCodes) Create(ctx context.Context, item *model.RetailActivationCode) error {
	if _, ok := s.items[item.ActivationCode]; ok {
		return appErr.ErrConflict
	}
	s.items[item.ActivationCode] = item
	return nil
}

func (s *stubActivationCodes) GetByCode(ctx context.Context, code string) (*model.RetailActivationCode, error) {
	item, ok := s.items[code]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return item, nil
}

func (s *stubActivationCodes) Consume(ctx context.Context, code string, now int64) error {
	item, ok := s.items[code]
	if !ok {
		return appErr.ErrNotFound
	}
	item.IsUsed = true
	item.UsedAt = &now
	return nil
}

type stubOrders struct{}

func (s *stubOrders) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	return nil, appErr.ErrNotFound
}

type stubMemorialsByID struct{}

func (s *stubMemorialsByID) GetByID(ctx context.Context, memorialID string) (*model.MemorialRecord, error) {
	return nil, appErr.ErrNotFound
}

type stubPendingCommissions struct {
	rows map[string]*model.Commission
}

func (s *stubPendingCommissions) BulkApprove(ctx context.Context, ids []string, now int64) (int64, error) {
	var approved int64
	for _, id := range ids {
		row, ok := s.rows[id]
		if !ok || row.Status != model.CommissionStatusPending {
			continue
		}
		row.Status = model.CommissionStatusApproved
		approved++
	}
	return approved, nil
}

func (s *stubPendingCommissions) ListByPartner(ctx context.Context, partnerID string) ([]*model.Commission, error) {
	return nil, nil
}

func (s *stubPendingCommissions) TotalsByPartner(ctx context.Context, partnerID string) (*model.CommissionTotals, error) {
	return &model.CommissionTotals{}, nil
}

func adminAPITestRouter(secret string, codes *stubActivationCodes, commissions *stubPendingCommissions) *gin.Engine {
	gin.SetMode(gin.TestMode)
	activation := service.NewActivationService(codes, &stubOrders{}, &stubMemorialsByID{}, "MQR-")
	referrals := service.NewReferralService(&stubReferralCodes{items: map[string]*model.ReferralCode{}}, commissions, &stubPartners{})
	h := NewAdminHandler(activation, referrals, nil, secret, false)
	router := gin.New()
	adminGroup := router.Group("")
	adminGroup.Use(middleware.AdminAuth(secret))
	adminGroup.POST("/admin/commissions/bulk-approve", h.BulkApprove)
	adminGroup.POST("/admin/codes", h.CreateCode)
	return router
}

func TestAdminLogin_SetsCookie(t *testing.T) {
	router := adminTestRouter("topsecret")

	req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(`{"password":"topsecret"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, middleware.AdminCookieName, cookies[0].Name)
	require.Equal(t, "topsecret", cookies[0].Value)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	router := adminTestRouter("topsecret")

	req := httptest.NewRequest("POST", "/admin/login", strings.NewReader(`{"password":"guess"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	require.Empty(t, recorder.Result().Cookies())
}

func TestAdminSession_RequiresCookie(t *testing.T) {
	router := adminTestRouter("topsecret")

	req := httptest.NewRequest("GET", "/admin/session", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	req = httptest.NewRequest("GET", "/admin/session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: "topsecret"})
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestAdminBulkApprove_CommissionIDsField(t *testing.T) {
	commissions := &stubPendingCommissions{rows: map[string]*model.Commission{
		"c1": {ID: "c1", Status: model.CommissionStatusPending},
		"c2": {ID: "c2", Status: model.CommissionStatusPending},
		"c3": {ID: "c3", Status: model.CommissionStatusApproved},
	}}
	router := adminAPITestRouter("topsecret", &stubActivationCodes{items: map[string]*model.RetailActivationCode{}}, commissions)

	body := `{"commissionIds":["c1","c2","c3"]}`
	req := httptest.NewRequest("POST", "/admin/commissions/bulk-approve", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: "topsecret"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, model.CommissionStatusApproved, commissions.rows["c1"].Status)
	require.Equal(t, model.CommissionStatusApproved, commissions.rows["c2"].Status)
}

func TestAdminBulkApprove_EmptyListRejected(t *testing.T) {
	commissions := &stubPendingCommissions{rows: map[string]*model.Commission{}}
	router := adminAPITestRouter("topsecret", &stubActivationCodes{items: map[string]*model.RetailActivationCode{}}, commissions)

	req := httptest.NewRequest("POST", "/admin/commissions/bulk-approve", strings.NewReader(`{"commissionIds":[]}`))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: "topsecret"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAdminCreateCode(t *testing.T) {
	codes := &stubActivationCodes{items: map[string]*model.RetailActivationCode{}}
	router := adminAPITestRouter("topsecret", codes, &stubPendingCommissions{rows: map[string]*model.Commission{}})

	body := `{"code":"batch-7-001","productType":"standard","hostingDuration":10}`
	req := httptest.NewRequest("POST", "/admin/codes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: "topsecret"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, codes.items["BATCH-7-001"])

	// The same code value cannot be minted twice.
	req = httptest.NewRequest("POST", "/admin/codes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: "topsecret"})
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusConflict, recorder.Code)
}

func TestAdminLogout_ClearsCookie(t *testing.T) {
	router := adminTestRouter("topsecret")

	req := httptest.NewRequest("DELETE", "/admin/session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: "topsecret"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "", cookies[0].Value)
	require.Less(t, cookies[0].MaxAge, 0)
}
