package frameflow

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the decoded view of a session token. The snapshot fields
// reflect the user record at issuance time; they are not refreshed when the
// stored record changes.
type AuthClaims interface {
	Subject() string
	UserID() string
	Snapshot() PrincipalSnapshot
	Expires() time.Time
	IssuedAt() time.Time
}

// PrincipalSnapshot is the point-in-time user record embedded in a token.
// It deliberately omits the password hash.
type PrincipalSnapshot struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	PublicName string `json:"public_name,omitempty"`
	Avatar     string `json:"avatar,omitempty"`
}

// SnapshotOf captures the token-embeddable view of a user.
func SnapshotOf(user *User) PrincipalSnapshot {
	return PrincipalSnapshot{
		ID:         user.ID.String(),
		Username:   user.Username,
		PublicName: user.PublicName,
		Avatar:     user.Avatar,
	}
}

// JWTClaims is the concrete implementation of AuthClaims.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID  string            `json:"uid,omitempty"`
	User PrincipalSnapshot `json:"user"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim.
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID.
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Snapshot returns the principal snapshot captured at issuance.
func (c *JWTClaims) Snapshot() PrincipalSnapshot {
	return c.User
}

// Expires returns the expiration time, zero for non-expiring tokens.
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issuance time.
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
