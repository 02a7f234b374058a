package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/internsim/internal/adapters/identity"
	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/internal/domain/types"
)

// SimulateHandler serves single and batch simulations. Both require an
// authenticated caller.
type SimulateHandler struct {
	deps     Dependencies
	auth     identity.Authenticator
	schemas  requestSchemas
	maxBytes int64
	resp     responder
}

// newSimulateHandler creates a new simulate handler.
func newSimulateHandler(deps Dependencies, auth identity.Authenticator, schemas requestSchemas, maxBytes int64, resp responder) *SimulateHandler {
	return &SimulateHandler{deps: deps, auth: auth, schemas: schemas, maxBytes: maxBytes, resp: resp}
}

// HandleSimulate handles POST /simulate requests.
func (h *SimulateHandler) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	const op = "api.simulate"
	if err := requireMethod(r, http.MethodPost); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	caller, err := h.auth.Identify(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	body, err := readBody(w, r, h.maxBytes)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	if err := check(h.schemas.candidate, body); err != nil {
		h.resp.fail(w, r, fmt.Errorf("%s: %w", op, err))
		return
	}
	var req types.SimulateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.resp.fail(w, r, fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	report, err := h.deps.Simulate(r.Context(), caller.UserID, req.ToProfile())
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromReport(report))
}

// HandleBatch handles POST /simulate/batch requests.
func (h *SimulateHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	const op = "api.simulate_batch"
	if err := requireMethod(r, http.MethodPost); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	caller, err := h.auth.Identify(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	body, err := readBody(w, r, h.maxBytes)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	if err := check(h.schemas.batch, body); err != nil {
		h.resp.fail(w, r, fmt.Errorf("%s: %w", op, err))
		return
	}
	var req types.BatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.resp.fail(w, r, fmt.Errorf("%s: %w: %w", op, ErrBadRequest, err))
		return
	}

	profiles := make([]model.CandidateProfile, len(req.Candidates))
	for i, c := range req.Candidates {
		profiles[i] = c.ToProfile()
	}
	results, err := h.deps.Batch(r.Context(), caller.UserID, profiles)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}

	out := types.BatchResponse{Results: make([]types.BatchItem, len(results))}
	for i, res := range results {
		out.Results[i] = types.NewBatchItem(res.Index, res.Report, res.Err)
	}
	writeJSON(w, http.StatusOK, out)
}
