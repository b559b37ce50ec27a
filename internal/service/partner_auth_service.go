package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/memoriqr/memoriqr/internal/model"
	appErr "github.com/memoriqr/memoriqr/internal/pkg/errors"
	"github.com/memoriqr/memoriqr/internal/pkg/password"
	"github.com/memoriqr/memoriqr/internal/pkg/timeutil"
)

const (
	loginCodeExpireMinutes = 15
	standardSessionHours   = 1
	trustedSessionHours    = 24
)

type partnerStore interface {
	GetByEmail(ctx context.Context, email string) (*model.Partner, error)
	GetByID(ctx context.Context, partnerID string) (*model.Partner, error)
	TouchLogin(ctx context.Context, partnerID string, now int64) error
}

type loginCodeStore interface {
	Create(ctx context.Context, item *model.PartnerLoginCode) error
	DeleteByPartner(ctx context.Context, partnerID string) error
	ListUnused(ctx context.Context, partnerID string) ([]*model.PartnerLoginCode, error)
	Consume(ctx context.Context, id string, now int64) error
}

type partnerSessionStore interface {
	Create(ctx context.Context, item *model.PartnerSession) error
	GetByToken(ctx context.Context, token string) (*model.PartnerSession, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByToken(ctx context.Context, token string) error
	UpdateExpiry(ctx context.Context, id string, expiresAt int64) error
	DeleteTrustedByPartner(ctx context.Context, partnerID, excludeToken string) (int64, error)
	Demote(ctx context.Context, token string, expiresAt int64) error
}

// PartnerAuthService owns the email-code login, the server-side session
// table and the trusted-device rules: trusted sessions run 24h fixed
// and are never extended, standard sessions roll forward an hour at a
// time while the partner stays active.
type PartnerAuthService struct {
	partners partnerStore
	codes    loginCodeStore
	sessions partnerSessionStore
	notifier Notifier
}

func NewPartnerAuthService(partners partnerStore, codes loginCodeStore, sessions partnerSessionStore, notifier Notifier) *PartnerAuthService {
	return &PartnerAuthService{partners: partners, codes: codes, sessions: sessions, notifier: notifier}
}

// RequestLoginCode emails a fresh 6-digit code. Unknown addresses get
// the same success-shaped answer so the endpoint cannot be used to
// probe for accounts.
func (s *PartnerAuthService) RequestLoginCode(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return appErr.ErrInvalid
	}
	partner, err := s.partners.GetByEmail(ctx, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil
		}
		return err
	}
	if !partner.IsActive {
		return appErr.ErrForbidden
	}
	code := generateLoginCode()
	hash, err := password.Hash(code)
	if err != nil {
		return err
	}
	if err := s.codes.DeleteByPartner(ctx, partner.ID); err != nil {
		return err
	}
	now := timeutil.NowUnix()
	if err := s.codes.Create(ctx, &model.PartnerLoginCode{
		ID:        newID(),
		PartnerID: partner.ID,
		CodeHash:  hash,
		ExpiresAt: now + int64(loginCodeExpireMinutes*60),
		Ctime:     now,
	}); err != nil {
		return err
	}
	s.notifier.Send(ctx, "partner_login_code", map[string]interface{}{
		"partner_email": partner.ContactEmail,
		"partner_name":  partner.PartnerName,
		"login_code":    code,
		"expires_in":    fmt.Sprintf("%d minutes", loginCodeExpireMinutes),
	})
	return nil
}

// VerifyLogin exchanges a login code for a session. Codes are bcrypt
// hashed at rest, so candidates are fetched and compared one by one.
func (s *PartnerAuthService) VerifyLogin(ctx context.Context, email, code string, trustDevice bool, ipAddress, userAgent string) (*model.Partner, *model.PartnerSession, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return nil, nil, appErr.ErrInvalid
	}
	partner, err := s.partners.GetByEmail(ctx, email)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, nil, appErr.ErrUnauthorized
		}
		return nil, nil, err
	}
	if !partner.IsActive {
		return nil, nil, appErr.ErrForbidden
	}
	candidates, err := s.codes.ListUnused(ctx, partner.ID)
	if err != nil {
		return nil, nil, err
	}
	now := timeutil.NowUnix()
	var matched *model.PartnerLoginCode
	for _, candidate := range candidates {
		if password.Compare(candidate.CodeHash, code) == nil {
			matched = candidate
			break
		}
	}
	if matched == nil {
		return nil, nil, appErr.ErrUnauthorized
	}
	if matched.ExpiresAt <= now {
		return nil, nil, appErr.ErrCodeExpired
	}
	if err := s.codes.Consume(ctx, matched.ID, now); err != nil {
		return nil, nil, appErr.ErrUnauthorized
	}

	ttlHours := standardSessionHours
	if trustDevice {
		ttlHours = trustedSessionHours
	}
	session := &model.PartnerSession{
		ID:              newID(),
		PartnerID:       partner.ID,
		SessionToken:    newToken(),
		IsTrustedDevice: trustDevice,
		IPAddress:       ipAddress,
		UserAgent:       userAgent,
		ExpiresAt:       now + int64(ttlHours)*3600,
		Ctime:           now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, err
	}
	if err := s.partners.TouchLogin(ctx, partner.ID, now); err != nil {
		return nil, nil, err
	}
	return partner, session, nil
}

// Authenticate validates a session token, deleting the row on the spot
// when it has expired.
func (s *PartnerAuthService) Authenticate(ctx context.Context, token string) (*model.Partner, *model.PartnerSession, error) {
	if token == "" {
		return nil, nil, appErr.ErrUnauthorized
	}
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, nil, appErr.ErrUnauthorized
		}
		return nil, nil, err
	}
	if session.ExpiresAt <= timeutil.NowUnix() {
		_ = s.sessions.DeleteByID(ctx, session.ID)
		return nil, nil, appErr.ErrUnauthorized
	}
	partner, err := s.partners.GetByID(ctx, session.PartnerID)
	if err != nil {
		return nil, nil, appErr.ErrUnauthorized
	}
	if !partner.IsActive {
		return nil, nil, appErr.ErrForbidden
	}
	return partner, session, nil
}

func (s *PartnerAuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteByToken(ctx, token)
}

// Extend rolls a standard session forward one hour. Trusted sessions
// keep their fixed expiry and report success unchanged.
func (s *PartnerAuthService) Extend(ctx context.Context, token string) (int64, bool, error) {
	_, session, err := s.Authenticate(ctx, token)
	if err != nil {
		return 0, false, err
	}
	if session.IsTrustedDevice {
		return session.ExpiresAt, false, nil
	}
	newExpiry := timeutil.NowUnix() + standardSessionHours*3600
	if err := s.sessions.UpdateExpiry(ctx, session.ID, newExpiry); err != nil {
		return 0, false, err
	}
	return newExpiry, true, nil
}

// RevokeTrustSelf removes the partner's other trusted sessions and
// demotes the calling one to a standard session instead of cutting the
// caller off mid-request.
func (s *PartnerAuthService) RevokeTrustSelf(ctx context.Context, token string) (int64, error) {
	_, session, err := s.Authenticate(ctx, token)
	if err != nil {
		return 0, err
	}
	revoked, err := s.sessions.DeleteTrustedByPartner(ctx, session.PartnerID, token)
	if err != nil {
		return 0, err
	}
	if session.IsTrustedDevice {
		newExpiry := timeutil.NowUnix() + standardSessionHours*3600
		if err := s.sessions.Demote(ctx, token, newExpiry); err != nil {
			return revoked, err
		}
	}
	return revoked, nil
}

// RevokeTrustAdmin drops every trusted session of the partner and lets
// them know by email.
func (s *PartnerAuthService) RevokeTrustAdmin(ctx context.Context, partnerID string) (int64, error) {
	partner, err := s.partners.GetByID(ctx, partnerID)
	if err != nil {
		return 0, err
	}
	revoked, err := s.sessions.DeleteTrustedByPartner(ctx, partner.ID, "")
	if err != nil {
		return 0, err
	}
	s.notifier.Send(ctx, "partner_trust_revoked", map[string]interface{}{
		"partner_email": partner.ContactEmail,
		"partner_name":  partner.PartnerName,
		"revoked_count": revoked,
	})
	return revoked, nil
}

func generateLoginCode() string {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return fmt.Sprintf("%06d", 100000+rng.Intn(900000))
}
