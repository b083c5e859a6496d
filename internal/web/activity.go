package web

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/warelog/warelog/internal/domain"
	"github.com/warelog/warelog/internal/server/middleware"
)

const dateLayout = "2006-01-02"

// activityFilterForm echoes the raw filter inputs back into the form and
// pagination links, exactly as the user supplied them.
type activityFilterForm struct {
	User     string
	Action   string
	DateFrom string
	DateTo   string
}

func (f activityFilterForm) values() url.Values {
	v := url.Values{}
	for key, val := range map[string]string{
		"user":      f.User,
		"action":    f.Action,
		"date_from": f.DateFrom,
		"date_to":   f.DateTo,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}

type pageLink struct {
	Page    int
	URL     string
	Current bool
}

type activityPageData struct {
	Username  string
	Role      string
	Error     string
	Form      activityFilterForm
	Entries   []*domain.ActivityLogEntry
	Pager     Pagination
	Links     []pageLink
	PrevURL   string
	NextURL   string
	ExportURL string
}

// parseActivityQuery maps the query string onto a typed filter. Substring
// filters pass through trimmed; dates must match YYYY-MM-DD or they
// contribute no predicate. The page number defaults to 1 and is clamped
// from below only.
func parseActivityQuery(q url.Values) (domain.ActivityLogFilter, activityFilterForm, int) {
	form := activityFilterForm{
		User:     strings.TrimSpace(q.Get("user")),
		Action:   strings.TrimSpace(q.Get("action")),
		DateFrom: strings.TrimSpace(q.Get("date_from")),
		DateTo:   strings.TrimSpace(q.Get("date_to")),
	}

	filter := domain.ActivityLogFilter{
		User:   form.User,
		Action: form.Action,
	}
	if t, err := time.Parse(dateLayout, form.DateFrom); err == nil {
		filter.DateFrom = &t
	}
	if t, err := time.Parse(dateLayout, form.DateTo); err == nil {
		filter.DateTo = &t
	}

	page := 1
	if n, err := strconv.Atoi(q.Get("page")); err == nil {
		page = n
	}
	if page < 1 {
		page = 1
	}

	return filter, form, page
}

const activityLoadError = "Could not load the activity log. Please try again."

// HandleActivity renders the filtered, paginated activity-log browser.
// Database failures degrade to an empty table with an error banner; the
// filters stay usable.
func (h *Handlers) HandleActivity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, _ := middleware.TenantIDFromContext(ctx)
	username, _ := middleware.UsernameFromContext(ctx)
	role, _ := middleware.RoleFromContext(ctx)

	filter, form, page := parseActivityQuery(r.URL.Query())

	data := activityPageData{
		Username:  username,
		Role:      role,
		Form:      form,
		ExportURL: "/activity/export?" + form.values().Encode(),
	}

	total, err := h.store.ActivityLogs().Count(ctx, tenantID, filter)
	if err != nil {
		log.Error().Err(err).Stringer("tenant_id", tenantID).Msg("activity: count failed")
		data.Error = activityLoadError
		data.Pager = NewPagination(page, 0)
		h.render(w, "activity.html", data)
		return
	}

	pager := NewPagination(page, total)

	entries, err := h.store.ActivityLogs().List(ctx, tenantID, filter, PageSize, pager.Offset())
	if err != nil {
		log.Error().Err(err).Stringer("tenant_id", tenantID).Msg("activity: list failed")
		data.Error = activityLoadError
		data.Pager = NewPagination(page, 0)
		h.render(w, "activity.html", data)
		return
	}

	data.Entries = entries
	data.Pager = pager

	fv := form.values()
	for _, n := range pager.Window() {
		data.Links = append(data.Links, pageLink{
			Page:    n,
			URL:     PageURL("/activity", fv, n),
			Current: n == pager.Page,
		})
	}
	if pager.HasPrev() {
		data.PrevURL = PageURL("/activity", fv, pager.Prev())
	}
	if pager.HasNext() {
		data.NextURL = PageURL("/activity", fv, pager.Page+1)
	}

	h.render(w, "activity.html", data)
}

// HandleActivityExport streams the filtered activity log as an XLSX
// workbook. The active filters come through the same query parameters the
// browser page uses.
func (h *Handlers) HandleActivityExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID, _ := middleware.TenantIDFromContext(ctx)

	filter, _, _ := parseActivityQuery(r.URL.Query())

	filename := "activity_log_" + time.Now().Format("20060102") + ".xlsx"
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := h.exporter.Export(ctx, tenantID, filter, w); err != nil {
		log.Error().Err(err).Stringer("tenant_id", tenantID).Msg("activity: export failed")
	}
}
