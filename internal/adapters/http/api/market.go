package api

import (
	"net/http"

	"github.com/okian/internsim/internal/domain/types"
)

// MarketHandler serves read-only corpus views.
type MarketHandler struct {
	deps Dependencies
	resp responder
}

// newMarketHandler creates a new market handler.
func newMarketHandler(deps Dependencies, resp responder) *MarketHandler {
	return &MarketHandler{deps: deps, resp: resp}
}

type rolesResponse struct {
	Roles []string `json:"roles"`
}

// HandleMarket handles GET /market requests.
func (h *MarketHandler) HandleMarket(w http.ResponseWriter, r *http.Request) {
	if err := requireMethod(r, http.MethodGet); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	snap, err := h.deps.Market(r.Context())
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromSnapshot(snap))
}

// HandleRoles handles GET /market/roles requests.
func (h *MarketHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	if err := requireMethod(r, http.MethodGet); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rolesResponse{Roles: h.deps.Roles()})
}

// HandleOpportunities handles GET /opportunities?category= requests.
func (h *MarketHandler) HandleOpportunities(w http.ResponseWriter, r *http.Request) {
	if err := requireMethod(r, http.MethodGet); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	records, err := h.deps.Opportunities(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	out := make([]types.Opportunity, len(records))
	for i, rec := range records {
		out[i] = types.FromRecord(rec)
	}
	writeJSON(w, http.StatusOK, out)
}
