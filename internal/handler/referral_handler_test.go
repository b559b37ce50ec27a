package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/memoriqr/memoriqr/internal/model"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
	"github.com/memoriqr/memoriqr/internal/service"
)

type stubReferralCodes struct {
	items map[string]*model.ReferralCode
}

func (s *stubReferralCodes) GetByCode(ctx context.Context, code string) (*model.ReferralCode, error) {
	item, ok := s.items[code]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return item, nil
}

type stubCommissions struct{}

func (s *stubCommissions) BulkApprove(ctx context.Context, ids []string, now int64) (int64, error) {
	return 0, nil
}

func (s *stubCommissions) ListByPartner(ctx context.Context, partnerID string) ([]*model.Commission, error) {
	return nil, nil
}

func (s *stubCommissions) TotalsByPartner(ctx context.Context, partnerID string) (*model.CommissionTotals, error) {
	return &model.CommissionTotals{}, nil
}

type stubPartners struct {
	items map[string]*model.Partner
}

func (s *stubPartners) GetByID(ctx context.Context, partnerID string) (*model.Partner, error) {
	item, ok := s.items[partnerID]
	if !ok {
		return nil, appErr.ErrNotFound
	}
	return item, nil
}

func referralTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	referrals := &stubReferralCodes{items: map[string]*model.ReferralCode{
		"SAVE20": {Code: "SAVE20", PartnerID: "partner-1", DiscountPercent: 20, FreeShipping: true},
	}}
	partners := &stubPartners{items: map[string]*model.Partner{
		"partner-1": {ID: "partner-1", PartnerName: "Happy Paws (Berlin)"},
	}}
	svc := service.NewReferralService(referrals, &stubCommissions{}, partners)
	h := NewReferralHandler(svc)

	router := gin.New()
	router.GET("/referral/validate", h.Validate)
	router.POST("/referral/validate", h.Validate)
	return router
}

func TestReferralValidate_Query(t *testing.T) {
	router := referralTestRouter()

	req := httptest.NewRequest("GET", "/referral/validate?code=save20", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "20% discount applied + free shipping!")
	require.Contains(t, recorder.Body.String(), "Happy Paws")
}

func TestReferralValidate_PostBody(t *testing.T) {
	router := referralTestRouter()

	req := httptest.NewRequest("POST", "/referral/validate", strings.NewReader(`{"code":"SAVE20"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestReferralValidate_MissingCode(t *testing.T) {
	router := referralTestRouter()

	req := httptest.NewRequest("GET", "/referral/validate", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestReferralValidate_UnknownCode(t *testing.T) {
	router := referralTestRouter()

	req := httptest.NewRequest("GET", "/referral/validate?code=NOPE", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusNotFound, recorder.Code)
}
