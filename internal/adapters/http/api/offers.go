package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/internsim/internal/adapters/identity"
	"github.com/okian/internsim/internal/domain/simulation"
	"github.com/okian/internsim/internal/domain/types"
)

// OffersHandler compares offers. Identity is optional; anonymous callers
// are audited without a user id.
type OffersHandler struct {
	deps     Dependencies
	auth     identity.Authenticator
	maxBytes int64
	resp     responder
}

// newOffersHandler creates a new offers handler.
func newOffersHandler(deps Dependencies, auth identity.Authenticator, maxBytes int64, resp responder) *OffersHandler {
	return &OffersHandler{deps: deps, auth: auth, maxBytes: maxBytes, resp: resp}
}

// HandleCompare handles POST /offers/compare requests.
func (h *OffersHandler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "api.offers_compare"
	if err := requireMethod(r, http.MethodPost); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var userID string
	if caller, err := h.auth.Identify(r); err == nil {
		userID = caller.UserID
	}

	body, err := readBody(w, r, h.maxBytes)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	var req types.CompareRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.resp.fail(w, r, fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	res, err := h.deps.CompareOffers(r.Context(), userID, offerInput(req.OfferA), offerInput(req.OfferB))
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.CompareResponse{GrowthA: res.GrowthA, GrowthB: res.GrowthB})
}

func offerInput(o types.Offer) simulation.OfferInput {
	return simulation.OfferInput{Learning: o.Learning, Brand: o.Brand, TechStack: o.TechStack, Network: o.Network}
}
