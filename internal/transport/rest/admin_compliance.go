package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/adapter/postgres/flag"
	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/internal/service/audit"
	"github.com/askwell/askwell-backend/internal/service/compliance"
)

// complianceService covers flags and lifecycle overrides.
type complianceService interface {
	Flag(ctx context.Context, in compliance.FlagInput) (*domain.ComplianceFlag, error)
	Resolve(ctx context.Context, flagID uuid.UUID, notes *string) (*domain.ComplianceFlag, error)
	ListFlags(ctx context.Context, filter flag.Filter) ([]domain.ComplianceFlag, error)
	OpenFlagCount(ctx context.Context) (int, error)
	SkipHumanization(ctx context.Context, questionID uuid.UUID, reason string) (*domain.Question, error)
	OverrideConfidence(ctx context.Context, answerID uuid.UUID, reason string) (*domain.Answer, error)
	BypassExpertReview(ctx context.Context, questionID uuid.UUID, reason string) (*domain.Question, error)
	BypassAIDetection(ctx context.Context, answerID uuid.UUID, reason string) (*domain.Answer, error)
	PassOriginality(ctx context.Context, answerID uuid.UUID, reason string) (*domain.Answer, error)
}

// auditService covers the audit trail read surface.
type auditService interface {
	List(ctx context.Context, filter domain.AdminActionFilter) (*audit.Page, error)
	ExportCSV(ctx context.Context, w io.Writer, filter domain.AdminActionFilter) (int, error)
}

type flagRequest struct {
	ContentType string         `json:"contentType"`
	ContentID   string         `json:"contentId"`
	Reason      string         `json:"reason"`
	Severity    string         `json:"severity"`
	Details     map[string]any `json:"details,omitempty"`
}

type flagResponse struct {
	ID            string         `json:"id"`
	ContentType   string         `json:"contentType"`
	ContentID     string         `json:"contentId"`
	Reason        string         `json:"reason"`
	Severity      string         `json:"severity"`
	Details       map[string]any `json:"details,omitempty"`
	Resolved      bool           `json:"resolved"`
	ResolvedBy    *string        `json:"resolvedBy,omitempty"`
	ResolvedNotes *string        `json:"resolvedNotes,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	ResolvedAt    *time.Time     `json:"resolvedAt,omitempty"`
}

func toFlagResponse(f *domain.ComplianceFlag) flagResponse {
	resp := flagResponse{
		ID:            f.ID.String(),
		ContentType:   string(f.ContentType),
		ContentID:     f.ContentID.String(),
		Reason:        f.Reason,
		Severity:      string(f.Severity),
		Details:       f.Details,
		Resolved:      f.Resolved,
		ResolvedNotes: f.ResolvedNotes,
		CreatedAt:     f.CreatedAt,
		ResolvedAt:    f.ResolvedAt,
	}
	if f.ResolvedBy != nil {
		id := f.ResolvedBy.String()
		resp.ResolvedBy = &id
	}
	return resp
}

// CreateFlag handles POST /admin/flags.
func (h *AdminHandler) CreateFlag(w http.ResponseWriter, r *http.Request) {
	var req flagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	contentID, err := uuid.Parse(req.ContentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid contentId")
		return
	}

	f, err := h.compliance.Flag(r.Context(), compliance.FlagInput{
		ContentType: domain.ContentType(req.ContentType),
		ContentID:   contentID,
		Reason:      req.Reason,
		Severity:    domain.FlagSeverity(req.Severity),
		Details:     req.Details,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFlagResponse(f))
}

// ResolveFlag handles POST /admin/flags/{id}/resolve.
func (h *AdminHandler) ResolveFlag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Notes *string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := h.compliance.Resolve(r.Context(), id, req.Notes)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toFlagResponse(f))
}

// ListFlags handles GET /admin/flags.
func (h *AdminHandler) ListFlags(w http.ResponseWriter, r *http.Request) {
	filter, ok := flagFilterFromQuery(w, r)
	if !ok {
		return
	}

	flags, err := h.compliance.ListFlags(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]flagResponse, 0, len(flags))
	for i := range flags {
		out = append(out, toFlagResponse(&flags[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// OpenFlagCount handles GET /admin/flags/open-count.
func (h *AdminHandler) OpenFlagCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.compliance.OpenFlagCount(r.Context())
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"open": count})
}

func flagFilterFromQuery(w http.ResponseWriter, r *http.Request) (flag.Filter, bool) {
	q := r.URL.Query()
	var filter flag.Filter
	filter.Limit, filter.Offset = pagination(r)

	if v := q.Get("contentType"); v != "" {
		ct := domain.ContentType(v)
		if !ct.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid contentType")
			return flag.Filter{}, false
		}
		filter.ContentType = &ct
	}
	if v := q.Get("contentId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid contentId")
			return flag.Filter{}, false
		}
		filter.ContentID = &id
	}
	if v := q.Get("severity"); v != "" {
		sev := domain.FlagSeverity(v)
		if !sev.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid severity")
			return flag.Filter{}, false
		}
		filter.Severity = &sev
	}
	if v := q.Get("resolved"); v != "" {
		resolved := v == "true"
		filter.Resolved = &resolved
	}
	return filter, true
}

// SkipHumanization handles POST /admin/questions/{id}/skip-humanization.
func (h *AdminHandler) SkipHumanization(w http.ResponseWriter, r *http.Request) {
	h.questionOverride(w, r, h.compliance.SkipHumanization)
}

// BypassExpertReview handles POST /admin/questions/{id}/bypass-expert-review.
func (h *AdminHandler) BypassExpertReview(w http.ResponseWriter, r *http.Request) {
	h.questionOverride(w, r, h.compliance.BypassExpertReview)
}

// OverrideConfidence handles POST /admin/answers/{id}/override-confidence.
func (h *AdminHandler) OverrideConfidence(w http.ResponseWriter, r *http.Request) {
	h.answerOverride(w, r, h.compliance.OverrideConfidence)
}

// BypassAIDetection handles POST /admin/answers/{id}/bypass-ai-detection.
func (h *AdminHandler) BypassAIDetection(w http.ResponseWriter, r *http.Request) {
	h.answerOverride(w, r, h.compliance.BypassAIDetection)
}

// PassOriginality handles POST /admin/answers/{id}/pass-originality.
func (h *AdminHandler) PassOriginality(w http.ResponseWriter, r *http.Request) {
	h.answerOverride(w, r, h.compliance.PassOriginality)
}

func (h *AdminHandler) answerOverride(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, id uuid.UUID, reason string) (*domain.Answer, error),
) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req reasonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	a, err := op(r.Context(), id, req.Reason)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAnswerResponse(a))
}

type adminActionResponse struct {
	ID         string         `json:"id"`
	AdminID    string         `json:"adminId"`
	Action     string         `json:"action"`
	TargetType *string        `json:"targetType,omitempty"`
	TargetID   *string        `json:"targetId,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	IP         *string        `json:"ip,omitempty"`
	UserAgent  *string        `json:"userAgent,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

func toAdminActionResponse(e *domain.AdminAction) adminActionResponse {
	resp := adminActionResponse{
		ID:        e.ID.String(),
		AdminID:   e.AdminID.String(),
		Action:    string(e.Action),
		Details:   e.Details,
		IP:        e.IP,
		UserAgent: e.UserAgent,
		CreatedAt: e.CreatedAt,
	}
	if e.TargetType != nil {
		t := string(*e.TargetType)
		resp.TargetType = &t
	}
	if e.TargetID != nil {
		id := e.TargetID.String()
		resp.TargetID = &id
	}
	return resp
}

// ListAuditTrail handles GET /admin/audit.
func (h *AdminHandler) ListAuditTrail(w http.ResponseWriter, r *http.Request) {
	filter, ok := auditFilterFromQuery(w, r)
	if !ok {
		return
	}

	page, err := h.audit.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	out := make([]adminActionResponse, 0, len(page.Entries))
	for i := range page.Entries {
		out = append(out, toAdminActionResponse(&page.Entries[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": out,
		"total":   page.Total,
	})
}

// ExportAuditTrail handles GET /admin/audit/export. Streams CSV.
func (h *AdminHandler) ExportAuditTrail(w http.ResponseWriter, r *http.Request) {
	filter, ok := auditFilterFromQuery(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="audit-trail.csv"`)

	if _, err := h.audit.ExportCSV(r.Context(), w, filter); err != nil {
		// Headers may already be sent; log instead of rewriting the status.
		h.log.ErrorContext(r.Context(), "audit export failed", "error", err)
	}
}

func auditFilterFromQuery(w http.ResponseWriter, r *http.Request) (domain.AdminActionFilter, bool) {
	q := r.URL.Query()
	var filter domain.AdminActionFilter
	filter.Limit, filter.Offset = pagination(r)

	if v := q.Get("adminId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid adminId")
			return domain.AdminActionFilter{}, false
		}
		filter.AdminID = &id
	}
	if v := q.Get("action"); v != "" {
		action := domain.ActionType(v)
		if !action.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid action")
			return domain.AdminActionFilter{}, false
		}
		filter.Action = &action
	}
	if v := q.Get("targetType"); v != "" {
		ct := domain.ContentType(v)
		if !ct.IsValid() {
			writeError(w, http.StatusBadRequest, "invalid targetType")
			return domain.AdminActionFilter{}, false
		}
		filter.TargetType = &ct
	}
	if v := q.Get("targetId"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid targetId")
			return domain.AdminActionFilter{}, false
		}
		filter.TargetID = &id
	}
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from timestamp")
			return domain.AdminActionFilter{}, false
		}
		filter.From = &t
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to timestamp")
			return domain.AdminActionFilter{}, false
		}
		filter.To = &t
	}
	return filter, true
}
