package helper

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt work factor, matches the digests of the existing user base.
const hashCost = 10

type Auth struct {
	Secret string
	TTL    time.Duration
}

func SetupAuth(secret string, ttl time.Duration) Auth {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return Auth{Secret: secret, TTL: ttl}
}

// SessionClaims is the identity carried by a session token.
type SessionClaims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	ID       string `json:"id"`
	jwt.RegisteredClaims
}

func (a Auth) GenerateToken(id, username, email string) (string, error) {
	if id == "" || username == "" || email == "" {
		return "", errors.New("required inputs are missing to generate token")
	}

	now := time.Now()
	claims := &SessionClaims{
		Username: username,
		Email:    email,
		ID:       id,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(a.Secret))
	if err != nil {
		return "", errors.New("unable to sign the token")
	}
	return tokenStr, nil
}

// VerifyToken accepts both "Bearer <token>" and "<token>".
func (a Auth) VerifyToken(tokenString string) (*SessionClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	if strings.HasPrefix(strings.ToLower(tokenString), "bearer ") {
		parts := strings.SplitN(tokenString, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[1]) == "" {
			return nil, errors.New("invalid token format")
		}
		tokenString = strings.TrimSpace(parts[1])
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(a.Secret), nil
	})
	if err != nil {
		return nil, errors.New("token parse error")
	}
	if !token.Valid || claims.Username == "" {
		return nil, errors.New("invalid token claims")
	}

	return claims, nil
}

// GetCurrentUser returns the claims attached by the auth middleware.
func (a Auth) GetCurrentUser(ctx *fiber.Ctx) (*SessionClaims, error) {
	u := ctx.Locals("user")
	claims, ok := u.(*SessionClaims)
	if !ok || claims == nil {
		return nil, errors.New("missing auth user in context")
	}
	return claims, nil
}

func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), hashCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(digest), nil
}

func (a Auth) VerifyPassword(plain, digest string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)); err != nil {
		return errors.New("invalid username or password")
	}
	return nil
}
