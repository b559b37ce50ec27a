package job

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/memoriqr/memoriqr/internal/pkg/timeutil"
)

type editVerificationCleaner interface {
	DeleteDead(ctx context.Context, now int64) (int64, error)
}

type partnerSessionCleaner interface {
	DeleteExpired(ctx context.Context, now int64) (int64, error)
}

type loginCodeCleaner interface {
	DeleteDead(ctx context.Context, now int64) (int64, error)
}

// CleanupJob purges verification rows and sessions that can never be
// used again. Live rows are untouched.
type CleanupJob struct {
	verifications editVerificationCleaner
	sessions      partnerSessionCleaner
	loginCodes    loginCodeCleaner
}

func NewCleanupJob(verifications editVerificationCleaner, sessions partnerSessionCleaner, loginCodes loginCodeCleaner) *CleanupJob {
	return &CleanupJob{verifications: verifications, sessions: sessions, loginCodes: loginCodes}
}

func (j *CleanupJob) Name() string {
	return "data-cleanup"
}

func (j *CleanupJob) Run(ctx context.Context) error {
	now := timeutil.NowUnix()
	verifications, err := j.verifications.DeleteDead(ctx, now)
	if err != nil {
		return err
	}
	sessions, err := j.sessions.DeleteExpired(ctx, now)
	if err != nil {
		return err
	}
	loginCodes, err := j.loginCodes.DeleteDead(ctx, now)
	if err != nil {
		return err
	}
	logutil.GetLogger(ctx).Info("cleanup done",
		zap.Int64("verifications", verifications),
		zap.Int64("sessions", sessions),
		zap.Int64("login_codes", loginCodes),
	)
	return nil
}
