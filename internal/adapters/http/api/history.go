package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/internsim/internal/adapters/history"
	"github.com/okian/internsim/internal/adapters/identity"
	"github.com/okian/internsim/internal/domain/types"
)

// HistoryHandler reads stored reports back. Every route requires an identity.
type HistoryHandler struct {
	reader history.Reader
	auth   identity.Authenticator
	admins map[string]struct{}
	resp   responder
}

// newHistoryHandler creates a new history handler. A nil reader makes every
// route answer history_unavailable.
func newHistoryHandler(reader history.Reader, auth identity.Authenticator, admins []string, resp responder) *HistoryHandler {
	set := make(map[string]struct{}, len(admins))
	for _, id := range admins {
		set[id] = struct{}{}
	}
	return &HistoryHandler{reader: reader, auth: auth, admins: set, resp: resp}
}

// HandleHistory handles GET /history?page= requests.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.history"
	if err := requireMethod(r, http.MethodGet); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	caller, err := h.auth.Identify(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	page, err := parsePage(r.URL.Query().Get("page"))
	if err != nil {
		h.resp.fail(w, r, fmt.Errorf("%s: %w", op, err))
		return
	}
	if h.reader == nil {
		h.resp.fail(w, r, history.ErrNotReadable)
		return
	}

	reports, err := h.reader.ListReports(r.Context(), caller.UserID, history.PageSize, (page-1)*history.PageSize)
	if err != nil {
		h.resp.fail(w, r, fmt.Errorf("%s: %w", op, err))
		return
	}
	sum, err := h.reader.Summary(r.Context(), caller.UserID)
	if err != nil {
		h.resp.fail(w, r, fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.NewHistoryResponse(page, history.PageSize, types.HistorySummary{
		TotalRuns:      sum.TotalRuns,
		AvgReadiness:   sum.AvgReadiness,
		PeakAcceptance: sum.PeakAcceptance,
	}, reports))
}

// HandleOverview handles GET /admin/overview requests.
func (h *HistoryHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	const op = "api.admin_overview"
	if err := requireMethod(r, http.MethodGet); err != nil {
		h.resp.fail(w, r, err)
		return
	}
	caller, err := h.auth.Identify(r)
	if err != nil {
		h.resp.fail(w, r, err)
		return
	}
	if _, ok := h.admins[caller.UserID]; !ok {
		h.resp.fail(w, r, ErrForbidden)
		return
	}
	if h.reader == nil {
		h.resp.fail(w, r, history.ErrNotReadable)
		return
	}

	o, err := h.reader.Overview(r.Context(), history.OverviewRecent, history.OverviewTopRole)
	if err != nil {
		h.resp.fail(w, r, fmt.Errorf("%s: %w", op, err))
		return
	}
	writeJSON(w, http.StatusOK, types.NewOverviewResponse(
		o.TotalSimulations, o.TotalEvents, o.DistinctUsers, o.TopRoles, o.RecentEvents))
}

// parsePage reads a 1-based page number. Empty means the first page.
func parsePage(s string) (int, error) {
	if s == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(s)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("%w: page must be a positive integer, got %q", ErrBadRequest, s)
	}
	return page, nil
}
