package domain

import "time"

// SyncCursor is an opaque synchronisation token. It represents the point in
// the remote change history up to which all changes have been durably
// applied to the local index. The engine stores and forwards the token but
// never inspects it.
type SyncCursor struct {
	// Token is the opaque cursor value issued by the remote.
	Token string `json:"token"`

	// UpdatedAt is when the cursor was last persisted.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsZero reports whether the cursor carries no token.
func (c SyncCursor) IsZero() bool {
	return c.Token == ""
}
