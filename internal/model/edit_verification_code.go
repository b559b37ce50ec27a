package model

// Edit verification rows come in two kinds sharing one table: one-time
// email codes and the edit-session tokens minted from them. A row is
// live while used_at is null and expires_at is in the future.
const (
	EditVerificationKindCode    = "code"
	EditVerificationKindSession = "session"
)

type EditVerificationCode struct {
	ID         string `json:"id"`
	MemorialID string `json:"memorial_id"`
	Kind       string `json:"kind"`
	Code       string `json:"code"`
	Email      string `json:"email"`
	UsedAt     *int64 `json:"used_at"`
	ExpiresAt  int64  `json:"expires_at"`
	Ctime      int64  `json:"ctime"`
}
