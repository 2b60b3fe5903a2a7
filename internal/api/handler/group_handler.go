package handler

import (
	"bnpl-engine/internal/api/handler/dto"
	"bnpl-engine/internal/api/middleware"
	"bnpl-engine/internal/domain/group"
	"bnpl-engine/internal/pkg/apperrors"
	"log/slog"
	"net/http"
)

type GroupHandler struct {
	service group.GroupService
	logger  *slog.Logger
}

func NewGroupHandler(s group.GroupService, l *slog.Logger) *GroupHandler {
	if s == nil {
		panic("group service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &GroupHandler{
		service: s,
		logger:  l.With("component", "GroupHandler"),
	}
}

// SplitLoan handles POST /loans/{loanID}/split
//
// @Summary Split a loan with other customers
// @Description Divides the loan's outstanding balance equally between its owner and the invited customers. Each invitee gets their own loan and schedule on their repayment preference.
// @Tags Groups
// @Accept json
// @Produce json
// @Param loanID path int true "Loan ID" Minimum(1)
// @Param request body dto.SplitLoanRequest true "Invitee emails"
// @Success 201 {object} dto.SplitResponse "Loan split"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 402 {object} dto.ErrorResponse "An invitee lacks credit for their share"
// @Failure 403 {object} dto.ErrorResponse "Caller does not own the loan"
// @Failure 404 {object} dto.ErrorResponse "Unknown participant"
// @Failure 409 {object} dto.ErrorResponse "Duplicate participant or loan already grouped"
// @Router /loans/{loanID}/split [post]
// @Security BearerAuth
func (h *GroupHandler) SplitLoan(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerCustomer(r)
	if err != nil {
		respondError(w, err)
		return
	}
	loanID, err := pathID(r, "loanID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.SplitLoanRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Invalid split request", slog.Any("error", err))
		respondError(w, err)
		return
	}

	result, err := h.service.SplitLoan(r.Context(), customerID, loanID, req.Participants)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Loan split failed",
			slog.Int64("loanID", loanID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Loan split", slog.Int64("groupID", result.Group.ID), slog.Int("shares", len(result.Shares)))
	respondJSON(w, http.StatusCreated, dto.NewSplitResponse(result))
}

// AddParticipant handles POST /groups/{groupID}/participants
//
// @Summary Add a customer to a payment group
// @Description Re-divides the group total equally including the new participant. Only allowed before any member has paid an installment.
// @Tags Groups
// @Accept json
// @Produce json
// @Param groupID path int true "Group ID" Minimum(1)
// @Param request body dto.AddParticipantRequest true "Participant email"
// @Success 200 {object} dto.SplitResponse "Group restructured"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the group creator"
// @Failure 404 {object} dto.ErrorResponse "Group or participant not found"
// @Failure 409 {object} dto.ErrorResponse "Already a member or group locked"
// @Router /groups/{groupID}/participants [post]
// @Security BearerAuth
func (h *GroupHandler) AddParticipant(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerCustomer(r)
	if err != nil {
		respondError(w, err)
		return
	}
	groupID, err := pathID(r, "groupID")
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.AddParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.service.AddParticipant(r.Context(), customerID, groupID, req.Email)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Add participant failed",
			slog.Int64("groupID", groupID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewSplitResponse(result))
}

// GetGroup handles GET /groups/{groupID}
//
// @Summary Retrieve a payment group
// @Tags Groups
// @Produce json
// @Param groupID path int true "Group ID" Minimum(1)
// @Success 200 {object} dto.CompositionResponse "Group and members"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /groups/{groupID} [get]
// @Security BearerAuth
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := pathID(r, "groupID")
	if err != nil {
		respondError(w, err)
		return
	}

	composition, err := h.service.GetComposition(r.Context(), groupID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Failed to get group", slog.Int64("groupID", groupID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	id, _ := middleware.IdentityFromContext(r.Context())
	if !id.IsAdmin() && !composition.Includes(id.CustomerID) {
		respondError(w, apperrors.ErrNotFound)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCompositionResponse(composition))
}
