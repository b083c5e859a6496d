package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/warelog/warelog/internal/domain"
	"github.com/warelog/warelog/internal/server/middleware"
	"github.com/warelog/warelog/internal/web"
)

const dateLayout = "2006-01-02"

type ListActivityInput struct {
	User     string `query:"user" doc:"Case-insensitive substring match on username"`
	Action   string `query:"action" doc:"Case-insensitive substring match on action"`
	DateFrom string `query:"date_from" doc:"Inclusive lower date bound (YYYY-MM-DD)"`
	DateTo   string `query:"date_to" doc:"Inclusive upper date bound (YYYY-MM-DD)"`
	Page     int    `query:"page" default:"1" minimum:"1" doc:"Page number (50 entries per page)"`
}

type ListActivityOutput struct {
	Body struct {
		Entries    []*domain.ActivityLogEntry `json:"entries"`
		TotalCount int64                      `json:"total_count"`
		Page       int                        `json:"page"`
		TotalPages int                        `json:"total_pages"`
	}
}

func RegisterActivityRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-activity",
		Method:      http.MethodGet,
		Path:        "/activity",
		Summary:     "List activity-log entries",
		Tags:        []string{"Activity"},
	}, func(ctx context.Context, input *ListActivityInput) (*ListActivityOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		filter := domain.ActivityLogFilter{
			User:   input.User,
			Action: input.Action,
		}
		if input.DateFrom != "" {
			t, err := time.Parse(dateLayout, input.DateFrom)
			if err != nil {
				return nil, huma.Error400BadRequest("date_from must be YYYY-MM-DD")
			}
			filter.DateFrom = &t
		}
		if input.DateTo != "" {
			t, err := time.Parse(dateLayout, input.DateTo)
			if err != nil {
				return nil, huma.Error400BadRequest("date_to must be YYYY-MM-DD")
			}
			filter.DateTo = &t
		}

		total, err := store.ActivityLogs().Count(ctx, tenantID, filter)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to count activity entries", err)
		}

		pager := web.NewPagination(input.Page, total)
		entries, err := store.ActivityLogs().List(ctx, tenantID, filter, web.PageSize, pager.Offset())
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list activity entries", err)
		}

		out := &ListActivityOutput{}
		out.Body.Entries = entries
		out.Body.TotalCount = total
		out.Body.Page = pager.Page
		out.Body.TotalPages = pager.TotalPages
		return out, nil
	})
}
