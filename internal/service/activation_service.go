package service

import (
	"context"
	"strings"

	"github.com/memoriqr/memoriqr/internal/model"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
	"github.com/memoriqr/memoriqr/internal/pkg/timeutil"
)

type activationCodeStore interface {
	Create(ctx context.Context, item *model.RetailActivationCode) error
	GetByCode(ctx context.Context, code string) (*model.RetailActivationCode, error)
	Consume(ctx context.Context, code string, now int64) error
}

type orderStore interface {
	GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error)
}

type memorialByIDStore interface {
	GetByID(ctx context.Context, memorialID string) (*model.MemorialRecord, error)
}

// ActivationResult reports eligibility for one code. Retail results
// carry the partner attribution; online results carry the linked
// memorial and its species.
type ActivationResult struct {
	Valid           bool    `json:"valid"`
	Type            string  `json:"type"`
	ProductType     string  `json:"productType"`
	HostingDuration int     `json:"hostingDuration"`
	PartnerID       *string `json:"partnerId,omitempty"`
	MemorialID      *string `json:"memorialId,omitempty"`
	Species         *string `json:"species,omitempty"`
}

type ActivationService struct {
	codes       activationCodeStore
	orders      orderStore
	memorials   memorialByIDStore
	orderPrefix string
}

func NewActivationService(codes activationCodeStore, orders orderStore, memorials memorialByIDStore, orderPrefix string) *ActivationService {
	return &ActivationService{codes: codes, orders: orders, memorials: memorials, orderPrefix: orderPrefix}
}

// CreateCodeInput carries the fields staff provide when minting a
// retail code for a new batch.
type CreateCodeInput struct {
	Code            string  `json:"code"`
	ProductType     string  `json:"productType"`
	HostingDuration int     `json:"hostingDuration"`
	PartnerID       *string `json:"partnerId"`
	BatchID         *string `json:"batchId"`
	ExpiresAt       *int64  `json:"expiresAt"`
}

// CreateCode registers a fresh retail activation code. The code value
// is stored uppercased so Resolve finds it regardless of input casing.
func (s *ActivationService) CreateCode(ctx context.Context, input CreateCodeInput) (*model.RetailActivationCode, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if code == "" || input.ProductType == "" || input.HostingDuration <= 0 {
		return nil, appErr.ErrInvalid
	}
	item := &model.RetailActivationCode{
		ID:              newID(),
		ActivationCode:  code,
		ProductType:     input.ProductType,
		HostingDuration: input.HostingDuration,
		PartnerID:       input.PartnerID,
		BatchID:         input.BatchID,
		ExpiresAt:       input.ExpiresAt,
		Ctime:           timeutil.NowUnix(),
	}
	if err := s.codes.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Resolve checks retail codes first, then falls back to a paid online
// order whose number is the configured prefix plus the code. Validation
// alone has no side effects.
func (s *ActivationService) Resolve(ctx context.Context, code string) (*ActivationResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, appErr.ErrInvalid
	}
	retail, err := s.codes.GetByCode(ctx, code)
	if err == nil {
		if retail.IsUsed {
			return nil, appErr.ErrCodeUsed
		}
		if retail.ExpiresAt != nil && *retail.ExpiresAt < timeutil.NowUnix() {
			return nil, appErr.ErrCodeExpired
		}
		return &ActivationResult{
			Valid:           true,
			Type:            "retail",
			ProductType:     retail.ProductType,
			HostingDuration: retail.HostingDuration,
			PartnerID:       retail.PartnerID,
		}, nil
	}
	if !appErr.IsNotFound(err) {
		return nil, err
	}

	order, err := s.orders.GetByOrderNumber(ctx, s.orderPrefix+code)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrNotFound
		}
		return nil, err
	}
	if order.OrderStatus != model.OrderStatusPaid {
		return nil, appErr.ErrNotFound
	}
	result := &ActivationResult{
		Valid:           true,
		Type:            "online",
		ProductType:     order.ProductType,
		HostingDuration: order.HostingDuration,
		MemorialID:      order.MemorialID,
	}
	if order.MemorialID != nil {
		if memorial, err := s.memorials.GetByID(ctx, *order.MemorialID); err == nil {
			result.Species = memorial.Species
		}
	}
	return result, nil
}

// Consume validates and then burns a retail code. The flip is one
// conditional statement, so a code can only be consumed once.
func (s *ActivationService) Consume(ctx context.Context, code string) (*ActivationResult, error) {
	result, err := s.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	if result.Type != "retail" {
		return result, nil
	}
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := s.codes.Consume(ctx, normalized, timeutil.NowUnix()); err != nil {
		return nil, err
	}
	return result, nil
}
