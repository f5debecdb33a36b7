package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"library-api/pkg/logger"
)

var ErrInvalidToken = errors.New("invalid token")

const principalKey = "principal"

// Principal is the authenticated caller, as asserted by the identity
// provider's token. The service trusts it and never re-checks credentials.
type Principal struct {
	UserID  uint
	Email   string
	IsStaff bool
}

type Claims struct {
	jwt.RegisteredClaims
	UserID  uint   `json:"uid"`
	Email   string `json:"email"`
	IsStaff bool   `json:"is_staff"`
}

// Middleware validates the Bearer token and stores the principal in the
// request context. Requests without a valid token get 401.
func Middleware(secret string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		log := logger.Get()

		tokenHeader := ctx.GetHeader("Authorization")
		if tokenHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		tokenParts := strings.Split(tokenHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token format"})
			return
		}

		principal, err := ValidToken(tokenParts[1], secret)
		if err != nil {
			log.Debug().Err(err).Msg("token validation failed")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		ctx.Set(principalKey, principal)
		ctx.Next()
	}
}

// StaffOnly rejects authenticated non-staff callers with 403. Must run after
// Middleware.
func StaffOnly() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		principal, ok := FromContext(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		if !principal.IsStaff {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff access required"})
			return
		}
		ctx.Next()
	}
}

// FromContext returns the principal stored by Middleware.
func FromContext(ctx *gin.Context) (Principal, bool) {
	val, ok := ctx.Get(principalKey)
	if !ok {
		return Principal{}, false
	}
	principal, ok := val.(Principal)
	return principal, ok
}

// ValidToken parses and verifies an HS256 token and returns its principal.
func ValidToken(tokenStr, secret string) (Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Principal{}, err
	}
	if !token.Valid {
		return Principal{}, ErrInvalidToken
	}
	return Principal{
		UserID:  claims.UserID,
		Email:   claims.Email,
		IsStaff: claims.IsStaff,
	}, nil
}

// SignToken mints an HS256 token for a principal. The production tokens come
// from the identity provider; this exists for tooling and tests.
func SignToken(principal Principal, secret string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
		UserID:  principal.UserID,
		Email:   principal.Email,
		IsStaff: principal.IsStaff,
	})
	return token.SignedString([]byte(secret))
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext candidate.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
