package handler

import (
	"bnpl-engine/internal/api/handler/dto"
	"bnpl-engine/internal/api/middleware"
	"bnpl-engine/internal/config"
	"bnpl-engine/internal/pkg/apperrors"
	"log/slog"
	"net/http"
	"strconv"
	"time"
)

const defaultTokenTTL = 24 * time.Hour

type AuthHandler struct {
	cfg    config.AuthConfig
	logger *slog.Logger
}

func NewAuthHandler(cfg config.AuthConfig, l *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		logger: l.With("component", "AuthHandler"),
	}
}

// GenerateBearerToken issues a signed token for the requested identity.
//
// @Summary Generate a JWT bearer token
// @Description Development login. Issues an HS256 token whose subject is the customer id and whose role claim is customer or admin.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.TokenRequest true "Identity to issue"
// @Success 200 {object} dto.TokenResponse "Token successfully generated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request parameters"
// @Router /auth/token [post]
func (h *AuthHandler) GenerateBearerToken(w http.ResponseWriter, r *http.Request) {
	var req dto.TokenRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode token request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	role := middleware.Role(req.Role)
	if role == "" {
		role = middleware.RoleCustomer
	}
	subject := ""
	if role == middleware.RoleCustomer {
		if req.CustomerID <= 0 {
			respondError(w, apperrors.NewValidationError("customerId", "is required for customer tokens"))
			return
		}
		subject = strconv.FormatInt(req.CustomerID, 10)
	}

	ttl := h.cfg.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	token, err := middleware.IssueToken(h.cfg.JWTSecret, subject, role, ttl)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Issued bearer token", slog.String("role", string(role)), slog.String("subject", subject))
	respondJSON(w, http.StatusOK, dto.TokenResponse{Token: token, ExpiresIn: int64(ttl.Seconds())})
}
