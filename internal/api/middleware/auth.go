package middleware

import (
	"bnpl-engine/internal/config"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// Identity is the authenticated caller. CustomerID is zero for admins.
type Identity struct {
	CustomerID int64
	Role       Role
}

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

func IssueToken(secret string, subject string, role Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

const (
	devCustomerHeader = "X-Customer-ID"
	devRoleHeader     = "X-Role"
)

// AuthMiddleware places the caller's Identity in the request context. With
// auth disabled the identity is read from the X-Customer-ID and X-Role headers.
func AuthMiddleware(cfg config.AuthConfig, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				id  Identity
				err error
			)
			if cfg.Enabled {
				id, err = identityFromJWT(r, cfg.JWTSecret)
			} else {
				id, err = identityFromHeaders(r)
			}
			if err != nil {
				logger.WarnContext(r.Context(), "AuthMiddleware: rejected request", "path", r.URL.Path, "error", err)
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func RequireAdmin(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok || !id.IsAdmin() {
				logger.WarnContext(r.Context(), "Admin route denied", "path", r.URL.Path, "customer_id", id.CustomerID)
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func identityFromJWT(r *http.Request, secret string) (Identity, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return Identity{}, errors.New("missing Authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return Identity{}, errors.New("invalid Authorization header format")
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(parts[1], &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return Identity{}, fmt.Errorf("invalid token: %w", err)
	}
	return toIdentity(claims.Subject, claims.Role)
}

func identityFromHeaders(r *http.Request) (Identity, error) {
	role := Role(r.Header.Get(devRoleHeader))
	if role == "" {
		role = RoleCustomer
	}
	return toIdentity(r.Header.Get(devCustomerHeader), role)
}

func toIdentity(subject string, role Role) (Identity, error) {
	switch role {
	case RoleAdmin:
		return Identity{Role: RoleAdmin}, nil
	case RoleCustomer:
		id, err := strconv.ParseInt(subject, 10, 64)
		if err != nil || id <= 0 {
			return Identity{}, fmt.Errorf("subject %q is not a customer id", subject)
		}
		return Identity{CustomerID: id, Role: RoleCustomer}, nil
	default:
		return Identity{}, fmt.Errorf("unknown role %q", role)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"error":{"message":%q}}`, message)
}
