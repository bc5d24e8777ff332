package middleware

import (
	"context"
	"errors"
	"strings"

	"service-catalog/internal/access"
	catalog_errors "service-catalog/pkg/errors"
	"service-catalog/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims are issued by the identity service.
type Claims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id,omitempty"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 access tokens.
type TokenVerifier struct {
	secret []byte
	issuer string
}

func NewTokenVerifier(secret, issuer string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret), issuer: issuer}
}

// Caller verifies token and turns its claims into the request's caller.
func (v *TokenVerifier) Caller(token string) (access.Caller, error) {
	if token == "" {
		return access.Caller{}, catalog_errors.Authentication("Missing bearer token")
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return access.Caller{}, catalog_errors.Authentication("Token has expired")
		}
		return access.Caller{}, catalog_errors.Authentication("Invalid token")
	}

	role, err := access.ParseRole(claims.Role)
	if err != nil {
		return access.Caller{}, err
	}

	rawUserID := claims.UserID
	if rawUserID == "" {
		rawUserID = claims.Subject
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return access.Caller{}, catalog_errors.Authentication("Invalid or missing user id claim in token")
	}

	caller := access.Caller{Role: role, UserID: userID}
	// an unparsable tenant claim is treated as absent
	if tenantID, err := uuid.Parse(claims.TenantID); err == nil {
		caller.TenantID = &tenantID
	}
	return caller, nil
}

func AuthMiddleware(verifier *TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, err := verifier.Caller(extractBearer(c))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := access.WithCaller(c.Request.Context(), caller)
		ctx = context.WithValue(ctx, logger.UserIdKey, caller.UserID.String())
		if caller.TenantID != nil {
			ctx = context.WithValue(ctx, logger.TenantIdKey, caller.TenantID.String())
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractBearer(c *gin.Context) string {
	value := c.GetHeader("Authorization")
	parts := strings.SplitN(value, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
