package handler

import (
	"bnpl-engine/internal/api/handler/dto"
	"bnpl-engine/internal/domain/customer"
	"bnpl-engine/internal/domain/schedule"
	"bnpl-engine/internal/pkg/apperrors"
	"log/slog"
	"net/http"
	"strconv"
)

type CustomerHandler struct {
	service customer.CustomerService
	logger  *slog.Logger
}

func NewCustomerHandler(s customer.CustomerService, l *slog.Logger) *CustomerHandler {
	if s == nil {
		panic("customer service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &CustomerHandler{
		service: s,
		logger:  l.With("component", "CustomerHandler"),
	}
}

// CreateCustomer handles POST /admin/customers
// @Summary Onboard a customer
// @Description Creates a customer with an initial credit limit and repayment preference.
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body dto.CreateCustomerRequest true "Customer creation request"
// @Success 201 {object} dto.CustomerResponse "Customer created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Router /admin/customers [post]
// @Security BearerAuth
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, err)
		return
	}
	limit, err := parseAmount("creditLimit", req.CreditLimit)
	if err != nil {
		respondError(w, err)
		return
	}
	preference, err := schedule.ParseCadence(req.RepaymentPreference)
	if err != nil {
		respondError(w, err)
		return
	}

	created, err := h.service.CreateCustomer(r.Context(), req.Name, req.Email, limit, preference)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to create customer", slog.Any("error", err))
		respondError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "Customer created successfully", slog.Int64("customerID", created.ID))
	respondJSON(w, http.StatusCreated, dto.NewCustomerResponse(created))
}

// GetCustomer handles GET /admin/customers/{customerID}
// @Summary Retrieve customer details
// @Tags Customers
// @Produce json
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 200 {object} dto.CustomerResponse "Customer details retrieved"
// @Failure 400 {object} dto.ErrorResponse "Invalid customer ID format"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /admin/customers/{customerID} [get]
// @Security BearerAuth
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := pathID(r, "customerID")
	if err != nil {
		respondError(w, err)
		return
	}
	h.respondCustomer(w, r, customerID)
}

// Me handles GET /me
// @Summary Retrieve the caller's account
// @Tags Customers
// @Produce json
// @Success 200 {object} dto.CustomerResponse "Account details"
// @Router /me [get]
// @Security BearerAuth
func (h *CustomerHandler) Me(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerCustomer(r)
	if err != nil {
		respondError(w, err)
		return
	}
	h.respondCustomer(w, r, customerID)
}

func (h *CustomerHandler) respondCustomer(w http.ResponseWriter, r *http.Request, customerID int64) {
	c, err := h.service.GetCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Service failed to get customer", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCustomerResponse(c))
}

// ListCustomers handles GET /admin/customers
// @Summary List customers
// @Tags Customers
// @Produce json
// @Param active query bool false "Only active customers" Example(true)
// @Success 200 {array} dto.CustomerResponse "List of customers"
// @Router /admin/customers [get]
// @Security BearerAuth
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if raw := r.URL.Query().Get("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(w, apperrors.NewValidationError("active", "must be a boolean"))
			return
		}
		activeOnly = parsed
	}

	customers, err := h.service.ListCustomers(r.Context(), activeOnly)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Service failed to list customers", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewCustomerListResponse(customers))
}

// UpdatePreference handles PUT /me/preference
// @Summary Change repayment preference
// @Description Sets the cadence used for the caller's future loans. Existing schedules are unchanged.
// @Tags Customers
// @Accept json
// @Param request body dto.UpdatePreferenceRequest true "New cadence"
// @Success 204 "Preference updated"
// @Failure 400 {object} dto.ErrorResponse "Unknown cadence"
// @Router /me/preference [put]
// @Security BearerAuth
func (h *CustomerHandler) UpdatePreference(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerCustomer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.UpdatePreferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	preference, err := schedule.ParseCadence(req.RepaymentPreference)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.UpdateRepaymentPreference(r.Context(), customerID, preference); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Failed to update preference", slog.Any("error", err))
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeactivateCustomer handles POST /admin/customers/{customerID}/deactivate
// @Summary Suspend a customer
// @Tags Customers
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 204 "Customer suspended"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /admin/customers/{customerID}/deactivate [post]
// @Security BearerAuth
func (h *CustomerHandler) DeactivateCustomer(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

// ReactivateCustomer handles POST /admin/customers/{customerID}/reactivate
// @Summary Reactivate a suspended customer
// @Tags Customers
// @Param customerID path int true "Customer ID" Minimum(1)
// @Success 204 "Customer reactivated"
// @Failure 404 {object} dto.ErrorResponse "Customer not found"
// @Router /admin/customers/{customerID}/reactivate [post]
// @Security BearerAuth
func (h *CustomerHandler) ReactivateCustomer(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *CustomerHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	customerID, err := pathID(r, "customerID")
	if err != nil {
		respondError(w, err)
		return
	}

	if active {
		err = h.service.ReactivateCustomer(r.Context(), customerID)
	} else {
		err = h.service.DeactivateCustomer(r.Context(), customerID)
	}
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Failed to change customer status",
			slog.Int64("customerID", customerID), slog.Bool("active", active), slog.Any("error", err))
		respondError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "Customer status changed", slog.Int64("customerID", customerID), slog.Bool("active", active))
	w.WriteHeader(http.StatusNoContent)
}

// AddInstrument handles POST /me/instruments
// @Summary Register a payment instrument
// @Tags Instruments
// @Accept json
// @Produce json
// @Param request body dto.AddInstrumentRequest true "Card details"
// @Success 201 {object} dto.InstrumentResponse "Instrument registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Router /me/instruments [post]
// @Security BearerAuth
func (h *CustomerHandler) AddInstrument(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerCustomer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req dto.AddInstrumentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	instrument, err := h.service.AddInstrument(r.Context(), customerID, req.Brand, req.Last4, req.MakeDefault)
	if err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Failed to add instrument", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, dto.NewInstrumentResponse(instrument))
}

// ListInstruments handles GET /me/instruments
// @Summary List the caller's payment instruments
// @Tags Instruments
// @Produce json
// @Success 200 {array} dto.InstrumentResponse "Instruments"
// @Router /me/instruments [get]
// @Security BearerAuth
func (h *CustomerHandler) ListInstruments(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerCustomer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	items, err := h.service.ListInstruments(r.Context(), customerID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to list instruments", slog.Any("error", err))
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dto.NewInstrumentListResponse(items))
}

// SetDefaultInstrument handles PUT /me/instruments/{instrumentID}/default
// @Summary Make an instrument the default
// @Tags Instruments
// @Param instrumentID path int true "Instrument ID" Minimum(1)
// @Success 204 "Default changed"
// @Failure 404 {object} dto.ErrorResponse "Instrument not found"
// @Router /me/instruments/{instrumentID}/default [put]
// @Security BearerAuth
func (h *CustomerHandler) SetDefaultInstrument(w http.ResponseWriter, r *http.Request) {
	customerID, err := callerCustomer(r)
	if err != nil {
		respondError(w, err)
		return
	}
	instrumentID, err := pathID(r, "instrumentID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.service.SetDefaultInstrument(r.Context(), customerID, instrumentID); err != nil {
		h.logger.Log(r.Context(), logLevelFor(err), "Failed to set default instrument", slog.Any("error", err))
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
