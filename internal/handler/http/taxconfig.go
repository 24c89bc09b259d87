package http

import (
	"encoding/json"
	"net/http"

	"github.com/gidihr/payroll-backend-go/internal/domain/taxconfig"
	"github.com/gidihr/payroll-backend-go/internal/handler/http/response"
)

type TaxConfigHandler interface {
	CreateBandSet(w http.ResponseWriter, r *http.Request)
	ListBandSets(w http.ResponseWriter, r *http.Request)
	SeedDefault(w http.ResponseWriter, r *http.Request)
}

type taxConfigHandlerImpl struct {
	taxConfigService taxconfig.TaxConfigService
}

func NewTaxConfigHandler(taxConfigService taxconfig.TaxConfigService) TaxConfigHandler {
	return &taxConfigHandlerImpl{taxConfigService: taxConfigService}
}

func (h *taxConfigHandlerImpl) CreateBandSet(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "Missing token claims")
		return
	}

	var req taxconfig.CreateBandSetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.taxConfigService.CreateBandSet(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Tax band set created", result)
}

func (h *taxConfigHandlerImpl) ListBandSets(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "Missing token claims")
		return
	}

	result, err := h.taxConfigService.ListBandSets(r.Context(), companyID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *taxConfigHandlerImpl) SeedDefault(w http.ResponseWriter, r *http.Request) {
	companyID, _, ok := requestClaims(r)
	if !ok {
		response.Unauthorized(w, "Missing token claims")
		return
	}

	// Body is optional; an empty one seeds from January 1 of this year.
	var req taxconfig.SeedDefaultRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body", nil)
			return
		}
	}

	result, err := h.taxConfigService.SeedDefault(r.Context(), companyID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Default tax configuration seeded", result)
}
