package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/segyhp/family-ledger/pkg/response"
	"github.com/segyhp/family-ledger/pkg/utils"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 50
)

type MemberHandler struct {
	payments PaymentService
	debug    bool
}

func NewMemberHandler(payments PaymentService, debug bool) *MemberHandler {
	return &MemberHandler{payments: payments, debug: debug}
}

// Search handles GET /api/v1/members/search?q=
func (h *MemberHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, err := utils.ParseInt(query.Get("limit"), defaultSearchLimit)
	if err != nil {
		limit = defaultSearchLimit
	}

	members, err := h.payments.SearchMembers(r.Context(), query.Get("q"), utils.ClampLimit(limit, defaultSearchLimit, maxSearchLimit))
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Success(w, members)
}

// Eligibility handles GET /api/v1/members/{id}/eligibility
func (h *MemberHandler) Eligibility(w http.ResponseWriter, r *http.Request) {
	eligibility, err := h.payments.MemberEligibility(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err, h.debug)
		return
	}

	response.Success(w, eligibility)
}
