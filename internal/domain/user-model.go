package domain

import "time"

// User is the single persisted entity. Username and email are unique
// (enforced by indexes, see repository.EnsureIndexes). The digest and
// the code fields never leave the process: json tags exclude them from
// every response body.
type User struct {
	ID       string  `bson:"_id,omitempty" json:"id"`
	Username string  `bson:"username" json:"username"`
	Name     *string `bson:"name,omitempty" json:"name,omitempty"`
	Email    string  `bson:"email" json:"email"`
	Password string  `bson:"password" json:"-"`

	Verified                  bool       `bson:"verified" json:"verified"`
	VerificationCode          string     `bson:"verification_code,omitempty" json:"-"`
	VerificationCodeExpiresAt *time.Time `bson:"verification_code_expires_at,omitempty" json:"-"`

	ResetPasswordCode          string     `bson:"reset_password_code,omitempty" json:"-"`
	ResetPasswordCodeExpiresAt *time.Time `bson:"reset_password_code_expires_at,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
