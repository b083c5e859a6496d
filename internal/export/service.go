// Package export produces XLSX downloads of the activity log.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/warelog/warelog/internal/domain"
)

// pageSize is how many entries each repository read pulls while streaming a
// workbook. Larger than the browser page so big exports stay at a handful
// of queries.
const pageSize = 500

const sheetName = "Activity Log"

var headerRow = []any{"Time", "User", "Role", "Action", "Details", "IP Address", "User Agent"}

// ActivityExporter writes filtered activity entries into an XLSX workbook.
type ActivityExporter struct {
	logs domain.ActivityLogRepository
}

func NewActivityExporter(logs domain.ActivityLogRepository) *ActivityExporter {
	return &ActivityExporter{logs: logs}
}

// Export streams every entry matching the filter into w as a single-sheet
// workbook. Entries are read in repository pages so the memory footprint
// stays bounded by the workbook itself.
func (e *ActivityExporter) Export(ctx context.Context, tenantID uuid.UUID, filter domain.ActivityLogFilter, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("export.Export: rename sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("export.Export: stream writer: %w", err)
	}

	if err := sw.SetRow("A1", headerRow); err != nil {
		return fmt.Errorf("export.Export: header: %w", err)
	}

	row := 2
	for offset := 0; ; offset += pageSize {
		entries, err := e.logs.List(ctx, tenantID, filter, pageSize, offset)
		if err != nil {
			return fmt.Errorf("export.Export: list: %w", err)
		}

		for _, entry := range entries {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return fmt.Errorf("export.Export: cell name: %w", err)
			}

			values := []any{
				entry.CreatedAt.Format("2006-01-02 15:04:05"),
				entry.Username,
				entry.UserRole,
				entry.Action,
				entry.Details,
				entry.IPAddress,
				entry.UserAgent,
			}
			if err := sw.SetRow(cell, values); err != nil {
				return fmt.Errorf("export.Export: row %d: %w", row, err)
			}
			row++
		}

		if len(entries) < pageSize {
			break
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("export.Export: flush: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("export.Export: write: %w", err)
	}
	return nil
}
