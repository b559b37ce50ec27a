package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/memoriqr/memoriqr/internal/model"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
	"github.com/memoriqr/memoriqr/internal/pkg/timeutil"
)

type referralCodeStore interface {
	GetByCode(ctx context.Context, code string) (*model.ReferralCode, error)
}

type commissionStore interface {
	BulkApprove(ctx context.Context, ids []string, now int64) (int64, error)
	ListByPartner(ctx context.Context, partnerID string) ([]*model.Commission, error)
	TotalsByPartner(ctx context.Context, partnerID string) (*model.CommissionTotals, error)
}

type partnerByIDStore interface {
	GetByID(ctx context.Context, partnerID string) (*model.Partner, error)
}

// ReferralService validates discount codes at checkout and keeps the
// partner-side commission books.
type ReferralService struct {
	referrals   referralCodeStore
	commissions commissionStore
	partners    partnerByIDStore
}

func NewReferralService(referrals referralCodeStore, commissions commissionStore, partners partnerByIDStore) *ReferralService {
	return &ReferralService{referrals: referrals, commissions: commissions, partners: partners}
}

// ReferralResult is returned to the checkout page; it names the partner
// but never exposes the commission rate.
type ReferralResult struct {
	Valid           bool   `json:"valid"`
	Code            string `json:"code"`
	DiscountPercent int    `json:"discountPercent"`
	FreeShipping    bool   `json:"freeShipping"`
	PartnerName     string `json:"partnerName"`
	Message         string `json:"message"`
}

// locationSuffixRegex drops a trailing parenthetical from the partner
// name, e.g. "Happy Paws (Berlin)" shows as "Happy Paws".
var locationSuffixRegex = regexp.MustCompile(`\s*\([^)]*\)\s*$`)

// ValidateReferral checks a code without consuming it; consumption
// happens when the order is actually placed.
func (s *ReferralService) ValidateReferral(ctx context.Context, code string) (*ReferralResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, appErr.ErrInvalid
	}
	referral, err := s.referrals.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if referral.IsUsed {
		return nil, appErr.ErrCodeUsed
	}
	if referral.ExpiresAt != nil && *referral.ExpiresAt < timeutil.NowUnix() {
		return nil, appErr.ErrCodeExpired
	}
	partnerName := ""
	if partner, err := s.partners.GetByID(ctx, referral.PartnerID); err == nil {
		partnerName = strings.TrimSpace(locationSuffixRegex.ReplaceAllString(partner.PartnerName, ""))
	}
	return &ReferralResult{
		Valid:           true,
		Code:            referral.Code,
		DiscountPercent: referral.DiscountPercent,
		FreeShipping:    referral.FreeShipping,
		PartnerName:     partnerName,
		Message:         referralMessage(referral.DiscountPercent, referral.FreeShipping),
	}, nil
}

func referralMessage(discountPercent int, freeShipping bool) string {
	switch {
	case discountPercent > 0 && freeShipping:
		return fmt.Sprintf("%d%% discount applied + free shipping!", discountPercent)
	case discountPercent > 0:
		return fmt.Sprintf("%d%% discount applied!", discountPercent)
	case freeShipping:
		return "Free shipping applied!"
	default:
		return "Referral code applied!"
	}
}

// BulkApprove moves the listed pending commissions to approved and
// returns how many changed.
func (s *ReferralService) BulkApprove(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, appErr.ErrInvalid
	}
	return s.commissions.BulkApprove(ctx, ids, timeutil.NowUnix())
}

type CommissionSummary struct {
	Commissions []*model.Commission     `json:"commissions"`
	Totals      *model.CommissionTotals `json:"totals"`
}

func (s *ReferralService) PartnerCommissions(ctx context.Context, partnerID string) (*CommissionSummary, error) {
	items, err := s.commissions.ListByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	totals, err := s.commissions.TotalsByPartner(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Commission{}
	}
	return &CommissionSummary{Commissions: items, Totals: totals}, nil
}
