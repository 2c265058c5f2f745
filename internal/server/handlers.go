package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/opyta/sistema-financeiro/internal/common"
	"github.com/opyta/sistema-financeiro/internal/dashboard"
	"github.com/opyta/sistema-financeiro/internal/finance"
	"github.com/opyta/sistema-financeiro/internal/model"
)

const dateLayout = "2006-01-02"

// parseFilter reads client, project, period, start and end from the query string.
func parseFilter(r *http.Request) (finance.Filter, error) {
	q := r.URL.Query()

	f := finance.Filter{
		Client:  selector(q.Get("client")),
		Project: selector(q.Get("project")),
		Period:  finance.DefaultPeriod,
	}
	if p := strings.TrimSpace(q.Get("period")); p != "" {
		f.Period = finance.ParsePeriod(p)
	}

	for _, field := range []struct {
		dst  **time.Time
		name string
	}{
		{&f.Start, "start"},
		{&f.End, "end"},
	} {
		raw := strings.TrimSpace(q.Get(field.name))
		if raw == "" {
			continue
		}
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return finance.Filter{}, fmt.Errorf("%s must be a YYYY-MM-DD date, got %q", field.name, raw)
		}
		*field.dst = &t
	}

	return f, nil
}

func selector(v string) string {
	v = strings.TrimSpace(v)
	if finance.IsAll(v) {
		return model.AllSelector
	}
	return v
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var userErr *common.UserError
	switch {
	case errors.Is(err, common.ErrInvalidRange), errors.Is(err, common.ErrSchemaMismatch):
		return http.StatusBadRequest
	case errors.As(err, &userErr):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrTableNotFound):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	page := indexPage{Version: h.version}

	f, err := parseFilter(r)
	if err != nil {
		page.Error = err.Error()
		f = finance.Filter{Client: model.AllSelector, Project: model.AllSelector, Period: finance.DefaultPeriod}
	}
	page.Filter = f

	opts, err := h.dash.Options(r.Context(), f.Client)
	if err != nil {
		h.logger.Error("failed to load selector options", "error", err)
		page.Error = fmt.Sprintf("Could not read the spreadsheet: %v", err)
		h.pages.render(w, http.StatusBadGateway, page, h.logger)
		return
	}
	page.Options = opts

	view, err := h.dash.Build(r.Context(), f)
	if err != nil {
		h.logger.Error("failed to build dashboard", "error", err)
		page.Error = fmt.Sprintf("Could not build the dashboard: %v", err)
		h.pages.render(w, statusFor(err), page, h.logger)
		return
	}
	page.View = &view

	h.pages.render(w, http.StatusOK, page, h.logger)
}

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleDashboard")
		return
	}

	view, err := h.dash.Build(r.Context(), f)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), "server.handleDashboard")
		return
	}

	h.writeJSON(w, http.StatusOK, view)
}

func (h *handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.dash.Options(r.Context(), selector(r.URL.Query().Get("client")))
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), "server.handleOptions")
		return
	}
	h.writeJSON(w, http.StatusOK, opts)
}

func (h *handler) handleSyncTaxes(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error(), "server.handleSyncTaxes")
		return
	}

	result, err := h.dash.SyncTaxes(r.Context(), f, nil)
	if err != nil {
		h.respondError(w, statusFor(err), err.Error(), "server.handleSyncTaxes")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}

func (h *handler) handleInvalidate(w http.ResponseWriter, _ *http.Request) {
	h.dash.Invalidate()
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"version": h.version})
}

// indexPage is the data of the HTML template.
type indexPage struct {
	View    *dashboard.View
	Filter  finance.Filter
	Error   string
	Version string
	Options dashboard.Options
}
