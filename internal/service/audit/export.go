package audit

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/askwell/askwell-backend/internal/domain"
)

// exportBatchSize bounds memory while streaming large trails.
const exportBatchSize = 500

var exportHeader = []string{
	"id", "admin_id", "action", "target_type", "target_id",
	"details", "ip", "user_agent", "created_at",
}

// ExportCSV streams the filtered trail to w as CSV, newest first. Admin
// only. Limit and Offset on the filter are ignored; the export pages
// through the full match set on a (created_at, id) keyset cursor, so
// entries appended mid-export cannot shift rows between pages.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, filter domain.AdminActionFilter) (int, error) {
	if _, err := requireAdmin(ctx); err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	filter.Limit = exportBatchSize
	filter.Offset = 0

	var (
		written int
		cursor  *domain.AdminAction
	)
	for {
		var (
			entries []domain.AdminAction
			err     error
		)
		if cursor == nil {
			entries, err = s.repo.List(ctx, filter)
		} else {
			entries, err = s.repo.ListBefore(ctx, filter, cursor.CreatedAt, cursor.ID, exportBatchSize)
		}
		if err != nil {
			return written, err
		}
		for _, e := range entries {
			rec, err := exportRecord(e)
			if err != nil {
				return written, err
			}
			if err := cw.Write(rec); err != nil {
				return written, fmt.Errorf("write row: %w", err)
			}
			written++
		}
		if len(entries) < exportBatchSize {
			break
		}
		last := entries[len(entries)-1]
		cursor = &last
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return written, fmt.Errorf("flush: %w", err)
	}

	s.log.InfoContext(ctx, "audit trail exported", "rows", written)
	return written, nil
}

func exportRecord(e domain.AdminAction) ([]string, error) {
	var details string
	if len(e.Details) > 0 {
		raw, err := json.Marshal(e.Details)
		if err != nil {
			return nil, fmt.Errorf("marshal details for %s: %w", e.ID, err)
		}
		details = string(raw)
	}

	var targetType, targetID, ip, userAgent string
	if e.TargetType != nil {
		targetType = e.TargetType.String()
	}
	if e.TargetID != nil {
		targetID = e.TargetID.String()
	}
	if e.IP != nil {
		ip = *e.IP
	}
	if e.UserAgent != nil {
		userAgent = *e.UserAgent
	}

	return []string{
		e.ID.String(),
		e.AdminID.String(),
		string(e.Action),
		targetType,
		targetID,
		details,
		ip,
		userAgent,
		e.CreatedAt.UTC().Format(time.RFC3339),
	}, nil
}
