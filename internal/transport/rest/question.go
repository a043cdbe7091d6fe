package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
	"github.com/askwell/askwell-backend/internal/service/question"
)

// questionService defines the question lifecycle surface of QuestionHandler.
type questionService interface {
	Submit(ctx context.Context, subject, text string) (*domain.Question, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	GetAnswer(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error)
	ListMine(ctx context.Context, limit, offset int) ([]domain.Question, error)
	ClaimForReview(ctx context.Context, questionID uuid.UUID) (*domain.Question, error)
	ReviewQueue(ctx context.Context, limit, offset int) ([]domain.Question, error)
	SubmitReview(ctx context.Context, in question.SubmitReviewInput) (*domain.Question, error)
	Rate(ctx context.Context, questionID uuid.UUID, score int, comment *string) (*domain.Rating, error)
}

// QuestionHandler serves the client and expert question endpoints.
type QuestionHandler struct {
	questions questionService
	log       *slog.Logger
}

// NewQuestionHandler creates a QuestionHandler.
func NewQuestionHandler(questions questionService, logger *slog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questions: questions,
		log:       logger.With("handler", "question"),
	}
}

type submitQuestionRequest struct {
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

type questionResponse struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"clientId"`
	ExpertID    *string    `json:"expertId,omitempty"`
	Subject     string     `json:"subject"`
	Text        string     `json:"text"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
}

type answerResponse struct {
	ID              string  `json:"id"`
	QuestionID      string  `json:"questionId"`
	Text            string  `json:"text"`
	ConfidenceScore float64 `json:"confidenceScore"`
	Status          string  `json:"status"`
}

type reviewRequest struct {
	Approved        bool    `json:"approved"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
	Corrections     *string `json:"corrections,omitempty"`
	TimeSpentSec    int64   `json:"timeSpentSeconds"`
}

type ratingRequest struct {
	Score   int     `json:"score"`
	Comment *string `json:"comment,omitempty"`
}

func toQuestionResponse(q *domain.Question) questionResponse {
	resp := questionResponse{
		ID:          q.ID.String(),
		ClientID:    q.ClientID.String(),
		Subject:     q.Subject,
		Text:        q.Text,
		Status:      q.Status.String(),
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
		DeliveredAt: q.DeliveredAt,
	}
	if q.ExpertID != nil {
		id := q.ExpertID.String()
		resp.ExpertID = &id
	}
	return resp
}

func toQuestionList(qs []domain.Question) []questionResponse {
	out := make([]questionResponse, 0, len(qs))
	for i := range qs {
		out = append(out, toQuestionResponse(&qs[i]))
	}
	return out
}

// deliveredText picks the text a client sees: expert-corrected final when
// present, humanized draft otherwise.
func deliveredText(a *domain.Answer) string {
	if a.ExpertFinal != nil {
		return *a.ExpertFinal
	}
	if a.HumanizedDraft != nil {
		return *a.HumanizedDraft
	}
	return a.AIDraft
}

func toAnswerResponse(a *domain.Answer) answerResponse {
	return answerResponse{
		ID:              a.ID.String(),
		QuestionID:      a.QuestionID.String(),
		Text:            deliveredText(a),
		ConfidenceScore: a.ConfidenceScore,
		Status:          a.Status.String(),
	}
}

// Submit handles POST /questions.
func (h *QuestionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.questions.Submit(r.Context(), req.Subject, req.Text)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, toQuestionResponse(q))
}

// Get handles GET /questions/{id}.
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	q, err := h.questions.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionResponse(q))
}

// GetAnswer handles GET /questions/{id}/answer.
func (h *QuestionHandler) GetAnswer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	a, err := h.questions.GetAnswer(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toAnswerResponse(a))
}

// ListMine handles GET /questions.
func (h *QuestionHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	qs, err := h.questions.ListMine(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionList(qs))
}

// Claim handles POST /questions/{id}/claim.
func (h *QuestionHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	q, err := h.questions.ClaimForReview(r.Context(), id)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionResponse(q))
}

// ReviewQueue handles GET /review/queue.
func (h *QuestionHandler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)

	qs, err := h.questions.ReviewQueue(r.Context(), limit, offset)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionList(qs))
}

// Review handles POST /questions/{id}/review.
func (h *QuestionHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	q, err := h.questions.SubmitReview(r.Context(), question.SubmitReviewInput{
		QuestionID:      id,
		Approved:        req.Approved,
		RejectionReason: req.RejectionReason,
		Corrections:     req.Corrections,
		TimeSpent:       time.Duration(req.TimeSpentSec) * time.Second,
	})
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, toQuestionResponse(q))
}

// Rate handles POST /questions/{id}/rating.
func (h *QuestionHandler) Rate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	var req ratingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rating, err := h.questions.Rate(r.Context(), id, req.Score, req.Comment)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         rating.ID.String(),
		"questionId": rating.QuestionID.String(),
		"score":      rating.Score,
	})
}

// pathUUID parses the named path segment as a UUID, writing 400 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads limit and offset query params with safe defaults.
func pagination(r *http.Request) (limit, offset int) {
	limit = 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
