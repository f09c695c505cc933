package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jengzang/crowdscan-backend-go/internal/logging"
	"github.com/jengzang/crowdscan-backend-go/internal/models"
	"github.com/jengzang/crowdscan-backend-go/pkg/response"
)

// RoleOfficer is the role claim that unlocks officer mode
const RoleOfficer = "officer"

// Claims are the JWT claims issued to operators
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for subject with role, valid for ttl
func IssueToken(secret, subject, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    "crowdscan",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ErrNoSecret is returned when tokens are used without a configured secret
var ErrNoSecret = errors.New("JWT secret is not configured")

// ParseToken validates a token and returns its claims. Every token is
// rejected when secret is empty.
func ParseToken(secret, tokenString string) (*Claims, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	return claims, nil
}

// OfficerAuth guards officer mode. When required is false it is a no-op.
// Otherwise a request asking for mode=officer, in the query string or the
// JSON body, must carry a valid bearer token with the officer role. With an
// empty secret no token is valid.
func OfficerAuth(secret string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !required || !wantsOfficerMode(c) {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Officer mode requires a bearer token")
			c.Abort()
			return
		}

		claims, err := ParseToken(secret, tokenString)
		if err != nil {
			logging.Warn(c).Err(err).Msg("Rejected officer token")
			response.Error(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}
		if claims.Role != RoleOfficer {
			response.Error(c, http.StatusForbidden, "Officer role required")
			c.Abort()
			return
		}

		c.Set(logging.RoleKey, claims.Role)
		c.Next()
	}
}

func wantsOfficerMode(c *gin.Context) bool {
	if models.ParseMode(c.Query("mode")) == models.ModeOfficer {
		return true
	}
	if c.Request.Method != http.MethodPost {
		return false
	}
	if c.Request.Body == nil {
		return false
	}
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return false
	}
	// the handler binds the body again
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))

	var body struct {
		Mode string `json:"mode"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return false
	}
	return models.ParseMode(body.Mode) == models.ModeOfficer
}
