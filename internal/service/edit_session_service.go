package service

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"github.com/memoriqr/memoriqr/internal/model"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
	"github.com/memoriqr/memoriqr/internal/pkg/timeutil"
)

const (
	editCodeExpireMinutes  = 60
	editSessionExpireHours = 2
)

type memorialByTokenStore interface {
	GetByEditToken(ctx context.Context, editToken string) (*model.MemorialRecord, error)
}

type customerStore interface {
	GetByID(ctx context.Context, customerID string) (*model.Customer, error)
}

type editVerificationStore interface {
	Create(ctx context.Context, item *model.EditVerificationCode) error
	Consume(ctx context.Context, memorialID, kind, code string, now int64) (*model.EditVerificationCode, error)
	GetActive(ctx context.Context, memorialID, kind, code string, now int64) (*model.EditVerificationCode, error)
	GetLatest(ctx context.Context, memorialID, kind, code string) (*model.EditVerificationCode, error)
	DeleteUnusedCodes(ctx context.Context, memorialID string) error
}

// EditSessionService drives the edit verification state machine: the
// long-lived edit token only identifies a memorial; a one-time emailed
// code proves mailbox control and is exchanged for a short-lived
// session token that authorizes writes.
type EditSessionService struct {
	memorials memorialByTokenStore
	customers customerStore
	codes     editVerificationStore
	notifier  Notifier
}

func NewEditSessionService(memorials memorialByTokenStore, customers customerStore, codes editVerificationStore, notifier Notifier) *EditSessionService {
	return &EditSessionService{memorials: memorials, customers: customers, codes: codes, notifier: notifier}
}

// ResolveMemorial maps an edit token to its memorial without touching
// session state. Used for the admin bypass on reads.
func (s *EditSessionService) ResolveMemorial(ctx context.Context, editToken string) (*model.MemorialRecord, error) {
	editToken = strings.TrimSpace(editToken)
	if editToken == "" {
		return nil, appErr.ErrInvalid
	}
	return s.memorials.GetByEditToken(ctx, editToken)
}

type SendCodeResult struct {
	MaskedEmail string `json:"email"`
	ExpiresIn   string `json:"expiresIn"`
}

func (s *EditSessionService) SendCode(ctx context.Context, editToken string) (*SendCodeResult, error) {
	memorial, err := s.ResolveMemorial(ctx, editToken)
	if err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, memorial.CustomerID)
	if err != nil {
		return nil, err
	}
	// A fresh code invalidates any pending one; session rows survive.
	if err := s.codes.DeleteUnusedCodes(ctx, memorial.ID); err != nil {
		return nil, err
	}
	code := generateEditCode()
	now := timeutil.NowUnix()
	item := &model.EditVerificationCode{
		ID:         newID(),
		MemorialID: memorial.ID,
		Kind:       model.EditVerificationKindCode,
		Code:       code,
		Email:      customer.Email,
		ExpiresAt:  now + int64(editCodeExpireMinutes*60),
		Ctime:      now,
	}
	if err := s.codes.Create(ctx, item); err != nil {
		return nil, err
	}
	s.notifier.Send(ctx, "edit_verification", map[string]interface{}{
		"customer_email":    customer.Email,
		"customer_name":     customer.FullName,
		"deceased_name":     memorial.DeceasedName,
		"verification_code": code,
		"expires_in":        fmt.Sprintf("%d minutes", editCodeExpireMinutes),
	})
	return &SendCodeResult{
		MaskedEmail: maskEmail(customer.Email),
		ExpiresIn:   fmt.Sprintf("%d minutes", editCodeExpireMinutes),
	}, nil
}

type VerifyCodeResult struct {
	SessionToken string `json:"sessionToken"`
	ExpiresAt    int64  `json:"expiresAt"`
}

// VerifyCode exchanges a one-time code for a session token. The consume
// is a single conditional update, so a replayed or raced code loses.
func (s *EditSessionService) VerifyCode(ctx context.Context, editToken, code string) (*VerifyCodeResult, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, appErr.ErrInvalid
	}
	memorial, err := s.ResolveMemorial(ctx, editToken)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	verification, err := s.codes.Consume(ctx, memorial.ID, model.EditVerificationKindCode, code, now)
	if err != nil {
		if !appErr.IsNotFound(err) {
			return nil, err
		}
		// Distinguish a replayed code from a wrong one.
		if prior, lerr := s.codes.GetLatest(ctx, memorial.ID, model.EditVerificationKindCode, code); lerr == nil && prior.UsedAt != nil {
			return nil, appErr.ErrCodeUsed
		}
		return nil, appErr.ErrInvalid
	}
	if verification.ExpiresAt <= now {
		return nil, appErr.ErrCodeExpired
	}

	sessionToken := newToken()
	session := &model.EditVerificationCode{
		ID:         newID(),
		MemorialID: memorial.ID,
		Kind:       model.EditVerificationKindSession,
		Code:       sessionToken,
		Email:      verification.Email,
		ExpiresAt:  now + int64(editSessionExpireHours)*3600,
		Ctime:      now,
	}
	if err := s.codes.Create(ctx, session); err != nil {
		return nil, err
	}
	return &VerifyCodeResult{SessionToken: sessionToken, ExpiresAt: session.ExpiresAt}, nil
}

// Validate checks token plus session and returns the memorial the pair
// authorizes. Every write path calls this first.
func (s *EditSessionService) Validate(ctx context.Context, editToken, sessionToken string) (*model.MemorialRecord, error) {
	sessionToken = strings.TrimSpace(sessionToken)
	if sessionToken == "" {
		return nil, appErr.ErrSessionExpired
	}
	memorial, err := s.ResolveMemorial(ctx, editToken)
	if err != nil {
		return nil, err
	}
	_, err = s.codes.GetActive(ctx, memorial.ID, model.EditVerificationKindSession, sessionToken, timeutil.NowUnix())
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, appErr.ErrSessionExpired
		}
		return nil, err
	}
	return memorial, nil
}

func generateEditCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("%06d", 100000+rng.Intn(900000))
}

var emailMaskRegex = regexp.MustCompile(`(.{2})(.*)(@.*)`)

func maskEmail(email string) string {
	return emailMaskRegex.ReplaceAllString(email, "$1***$3")
}
