package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin is the role claim required on admin routes.
const RoleAdmin = "admin"

// Claims are the JWT claims accepted by the API.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for subject with the given role.
//
// Parameters:
//   - secret: HMAC signing key (security.jwt.secret)
//   - issuer: Value for the "iss" claim; empty omits it
//   - subject: Value for the "sub" claim
//   - role: Value for the "role" claim
//   - ttl: Lifetime from now
//
// Returns:
//   - string: Signed compact token
//   - error: If signing fails
func IssueToken(secret, issuer, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

var errMissingBearer = errors.New("missing bearer token")

// parseToken verifies the Authorization header of r.
func (s *Server) parseToken(r *http.Request) (*Claims, error) {
	header := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, errMissingBearer
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if s.secCfg.JWT.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.secCfg.JWT.Issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(s.secCfg.JWT.Secret), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// adminMiddleware requires a valid bearer token carrying role=admin.
func (s *Server) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.parseToken(r)
		if err != nil {
			if errors.Is(err, errMissingBearer) {
				writeUnauthorized(w, "authorization required")
			} else {
				s.logger.Debug("rejected token", "error", err, "request_id", r.Context().Value(ctxKeyRequestID))
				writeUnauthorized(w, "invalid or expired token")
			}
			return
		}
		if claims.Role != RoleAdmin {
			writeForbidden(w, "admin role required")
			return
		}
		ctx := context.WithValue(r.Context(), ctxKeyClaims, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// actor returns the token subject of an admin request, for audit logs.
func actor(r *http.Request) string {
	if c, ok := r.Context().Value(ctxKeyClaims).(*Claims); ok {
		return c.Subject
	}
	return ""
}
