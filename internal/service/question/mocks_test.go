package question

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
)

var _ questionRepo = &questionRepoMock{}

type questionRepoMock struct {
	CreateFunc                 func(ctx context.Context, q domain.Question) (*domain.Question, error)
	GetByIDFunc                func(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	UpdateStatusFunc           func(ctx context.Context, id uuid.UUID, from, to domain.QuestionStatus) (*domain.Question, error)
	ClaimFunc                  func(ctx context.Context, id, expertID uuid.UUID) (*domain.Question, error)
	SendBackFunc               func(ctx context.Context, id, expertID uuid.UUID) (*domain.Question, error)
	EscalateFunc               func(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	ResolveEscalationFunc      func(ctx context.Context, id uuid.UUID, to domain.QuestionStatus) (*domain.Question, error)
	MarkDeliveredFunc          func(ctx context.Context, id uuid.UUID, from domain.QuestionStatus) (*domain.Question, error)
	MarkRatedFunc              func(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	ClaimNextForProcessingFunc func(ctx context.Context) (*domain.Question, error)
	ListByStatusFunc           func(ctx context.Context, status domain.QuestionStatus, limit, offset int) ([]domain.Question, error)
	ListByClientFunc           func(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.Question, error)
	CountInReviewByExpertFunc  func(ctx context.Context, expertID uuid.UUID) (int, error)

	calls struct {
		Create        []domain.Question
		MarkDelivered []uuid.UUID
		SendBack      []uuid.UUID
	}
	mu sync.Mutex
}

func (m *questionRepoMock) Create(ctx context.Context, q domain.Question) (*domain.Question, error) {
	if m.CreateFunc == nil {
		panic("questionRepoMock.CreateFunc is nil")
	}
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, q)
	m.mu.Unlock()
	return m.CreateFunc(ctx, q)
}

func (m *questionRepoMock) CreateCalls() []domain.Question {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Create
}

func (m *questionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	if m.GetByIDFunc == nil {
		panic("questionRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *questionRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.QuestionStatus) (*domain.Question, error) {
	if m.UpdateStatusFunc == nil {
		panic("questionRepoMock.UpdateStatusFunc is nil")
	}
	return m.UpdateStatusFunc(ctx, id, from, to)
}

func (m *questionRepoMock) Claim(ctx context.Context, id, expertID uuid.UUID) (*domain.Question, error) {
	if m.ClaimFunc == nil {
		panic("questionRepoMock.ClaimFunc is nil")
	}
	return m.ClaimFunc(ctx, id, expertID)
}

func (m *questionRepoMock) SendBack(ctx context.Context, id, expertID uuid.UUID) (*domain.Question, error) {
	if m.SendBackFunc == nil {
		panic("questionRepoMock.SendBackFunc is nil")
	}
	m.mu.Lock()
	m.calls.SendBack = append(m.calls.SendBack, id)
	m.mu.Unlock()
	return m.SendBackFunc(ctx, id, expertID)
}

func (m *questionRepoMock) SendBackCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.SendBack
}

func (m *questionRepoMock) Escalate(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	if m.EscalateFunc == nil {
		panic("questionRepoMock.EscalateFunc is nil")
	}
	return m.EscalateFunc(ctx, id)
}

func (m *questionRepoMock) ResolveEscalation(ctx context.Context, id uuid.UUID, to domain.QuestionStatus) (*domain.Question, error) {
	if m.ResolveEscalationFunc == nil {
		panic("questionRepoMock.ResolveEscalationFunc is nil")
	}
	return m.ResolveEscalationFunc(ctx, id, to)
}

func (m *questionRepoMock) MarkDelivered(ctx context.Context, id uuid.UUID, from domain.QuestionStatus) (*domain.Question, error) {
	if m.MarkDeliveredFunc == nil {
		panic("questionRepoMock.MarkDeliveredFunc is nil")
	}
	m.mu.Lock()
	m.calls.MarkDelivered = append(m.calls.MarkDelivered, id)
	m.mu.Unlock()
	return m.MarkDeliveredFunc(ctx, id, from)
}

func (m *questionRepoMock) MarkDeliveredCalls() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.MarkDelivered
}

func (m *questionRepoMock) MarkRated(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	if m.MarkRatedFunc == nil {
		panic("questionRepoMock.MarkRatedFunc is nil")
	}
	return m.MarkRatedFunc(ctx, id)
}

func (m *questionRepoMock) ClaimNextForProcessing(ctx context.Context) (*domain.Question, error) {
	if m.ClaimNextForProcessingFunc == nil {
		panic("questionRepoMock.ClaimNextForProcessingFunc is nil")
	}
	return m.ClaimNextForProcessingFunc(ctx)
}

func (m *questionRepoMock) ListByStatus(ctx context.Context, status domain.QuestionStatus, limit, offset int) ([]domain.Question, error) {
	if m.ListByStatusFunc == nil {
		panic("questionRepoMock.ListByStatusFunc is nil")
	}
	return m.ListByStatusFunc(ctx, status, limit, offset)
}

func (m *questionRepoMock) ListByClient(ctx context.Context, clientID uuid.UUID, limit, offset int) ([]domain.Question, error) {
	if m.ListByClientFunc == nil {
		panic("questionRepoMock.ListByClientFunc is nil")
	}
	return m.ListByClientFunc(ctx, clientID, limit, offset)
}

func (m *questionRepoMock) CountInReviewByExpert(ctx context.Context, expertID uuid.UUID) (int, error) {
	if m.CountInReviewByExpertFunc == nil {
		panic("questionRepoMock.CountInReviewByExpertFunc is nil")
	}
	return m.CountInReviewByExpertFunc(ctx, expertID)
}

var _ answerRepo = &answerRepoMock{}

type answerRepoMock struct {
	UpsertDraftFunc     func(ctx context.Context, id, questionID uuid.UUID, aiDraft string, confidence float64) (*domain.Answer, error)
	GetByQuestionIDFunc func(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error)
	SetHumanizedFunc    func(ctx context.Context, id uuid.UUID, draft string) (*domain.Answer, error)
	ApplyReviewFunc     func(ctx context.Context, id uuid.UUID, final *string, status domain.AnswerStatus) (*domain.Answer, error)
	MarkDeliveredFunc   func(ctx context.Context, id uuid.UUID) (*domain.Answer, error)

	calls struct {
		ApplyReview []struct {
			ID     uuid.UUID
			Final  *string
			Status domain.AnswerStatus
		}
	}
	mu sync.Mutex
}

func (m *answerRepoMock) UpsertDraft(ctx context.Context, id, questionID uuid.UUID, aiDraft string, confidence float64) (*domain.Answer, error) {
	if m.UpsertDraftFunc == nil {
		panic("answerRepoMock.UpsertDraftFunc is nil")
	}
	return m.UpsertDraftFunc(ctx, id, questionID, aiDraft, confidence)
}

func (m *answerRepoMock) GetByQuestionID(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error) {
	if m.GetByQuestionIDFunc == nil {
		panic("answerRepoMock.GetByQuestionIDFunc is nil")
	}
	return m.GetByQuestionIDFunc(ctx, questionID)
}

func (m *answerRepoMock) SetHumanized(ctx context.Context, id uuid.UUID, draft string) (*domain.Answer, error) {
	if m.SetHumanizedFunc == nil {
		panic("answerRepoMock.SetHumanizedFunc is nil")
	}
	return m.SetHumanizedFunc(ctx, id, draft)
}

func (m *answerRepoMock) ApplyReview(ctx context.Context, id uuid.UUID, final *string, status domain.AnswerStatus) (*domain.Answer, error) {
	if m.ApplyReviewFunc == nil {
		panic("answerRepoMock.ApplyReviewFunc is nil")
	}
	m.mu.Lock()
	m.calls.ApplyReview = append(m.calls.ApplyReview, struct {
		ID     uuid.UUID
		Final  *string
		Status domain.AnswerStatus
	}{id, final, status})
	m.mu.Unlock()
	return m.ApplyReviewFunc(ctx, id, final, status)
}

func (m *answerRepoMock) ApplyReviewCalls() []struct {
	ID     uuid.UUID
	Final  *string
	Status domain.AnswerStatus
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.ApplyReview
}

func (m *answerRepoMock) MarkDelivered(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	if m.MarkDeliveredFunc == nil {
		panic("answerRepoMock.MarkDeliveredFunc is nil")
	}
	return m.MarkDeliveredFunc(ctx, id)
}

var _ reviewRepo = &reviewRepoMock{}

type reviewRepoMock struct {
	CreateReviewFunc func(ctx context.Context, rev domain.ExpertReview) (*domain.ExpertReview, error)
	HasApprovedFunc  func(ctx context.Context, answerID uuid.UUID) (bool, error)
	CreateRatingFunc func(ctx context.Context, rt domain.Rating) (*domain.Rating, error)
	GetRatingFunc    func(ctx context.Context, questionID uuid.UUID) (*domain.Rating, error)

	calls struct {
		CreateReview []domain.ExpertReview
	}
	mu sync.Mutex
}

func (m *reviewRepoMock) CreateReview(ctx context.Context, rev domain.ExpertReview) (*domain.ExpertReview, error) {
	if m.CreateReviewFunc == nil {
		panic("reviewRepoMock.CreateReviewFunc is nil")
	}
	m.mu.Lock()
	m.calls.CreateReview = append(m.calls.CreateReview, rev)
	m.mu.Unlock()
	return m.CreateReviewFunc(ctx, rev)
}

func (m *reviewRepoMock) CreateReviewCalls() []domain.ExpertReview {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.CreateReview
}

func (m *reviewRepoMock) HasApproved(ctx context.Context, answerID uuid.UUID) (bool, error) {
	if m.HasApprovedFunc == nil {
		panic("reviewRepoMock.HasApprovedFunc is nil")
	}
	return m.HasApprovedFunc(ctx, answerID)
}

func (m *reviewRepoMock) CreateRating(ctx context.Context, rt domain.Rating) (*domain.Rating, error) {
	if m.CreateRatingFunc == nil {
		panic("reviewRepoMock.CreateRatingFunc is nil")
	}
	return m.CreateRatingFunc(ctx, rt)
}

func (m *reviewRepoMock) GetRating(ctx context.Context, questionID uuid.UUID) (*domain.Rating, error) {
	if m.GetRatingFunc == nil {
		panic("reviewRepoMock.GetRatingFunc is nil")
	}
	return m.GetRatingFunc(ctx, questionID)
}

var _ auditRepo = &auditRepoMock{}

type auditRepoMock struct {
	InsertFunc func(ctx context.Context, a domain.AdminAction) (*domain.AdminAction, error)

	calls struct {
		Insert []domain.AdminAction
	}
	mu sync.Mutex
}

func (m *auditRepoMock) Insert(ctx context.Context, a domain.AdminAction) (*domain.AdminAction, error) {
	if m.InsertFunc == nil {
		panic("auditRepoMock.InsertFunc is nil")
	}
	m.mu.Lock()
	m.calls.Insert = append(m.calls.Insert, a)
	m.mu.Unlock()
	return m.InsertFunc(ctx, a)
}

func (m *auditRepoMock) InsertCalls() []domain.AdminAction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Insert
}

var _ settingsRepo = &settingsRepoMock{}

type settingsRepoMock struct {
	GetFunc func(ctx context.Context, key string) (*domain.SystemSetting, error)
}

func (m *settingsRepoMock) Get(ctx context.Context, key string) (*domain.SystemSetting, error) {
	if m.GetFunc == nil {
		return nil, domain.ErrNotFound
	}
	return m.GetFunc(ctx, key)
}

var _ txManager = &txManagerMock{}

type txManagerMock struct{}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ creditLedger = &creditLedgerMock{}

type creditLedgerMock struct {
	ChargeFunc        func(ctx context.Context, accountID uuid.UUID, credits int64, reason string, relatedID *uuid.UUID) (*domain.Transaction, error)
	GrantEarningFunc  func(ctx context.Context, expertID uuid.UUID, credits int64, reason string, relatedID *uuid.UUID) (*domain.Transaction, error)
	QuestionPriceFunc func(ctx context.Context) int64
	ExpertEarningFunc func(ctx context.Context) int64

	calls struct {
		Charge []struct {
			AccountID uuid.UUID
			Credits   int64
		}
		GrantEarning []struct {
			ExpertID uuid.UUID
			Credits  int64
		}
	}
	mu sync.Mutex
}

func (m *creditLedgerMock) Charge(ctx context.Context, accountID uuid.UUID, credits int64, reason string, relatedID *uuid.UUID) (*domain.Transaction, error) {
	if m.ChargeFunc == nil {
		panic("creditLedgerMock.ChargeFunc is nil")
	}
	m.mu.Lock()
	m.calls.Charge = append(m.calls.Charge, struct {
		AccountID uuid.UUID
		Credits   int64
	}{accountID, credits})
	m.mu.Unlock()
	return m.ChargeFunc(ctx, accountID, credits, reason, relatedID)
}

func (m *creditLedgerMock) ChargeCalls() []struct {
	AccountID uuid.UUID
	Credits   int64
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Charge
}

func (m *creditLedgerMock) GrantEarning(ctx context.Context, expertID uuid.UUID, credits int64, reason string, relatedID *uuid.UUID) (*domain.Transaction, error) {
	if m.GrantEarningFunc == nil {
		panic("creditLedgerMock.GrantEarningFunc is nil")
	}
	m.mu.Lock()
	m.calls.GrantEarning = append(m.calls.GrantEarning, struct {
		ExpertID uuid.UUID
		Credits  int64
	}{expertID, credits})
	m.mu.Unlock()
	return m.GrantEarningFunc(ctx, expertID, credits, reason, relatedID)
}

func (m *creditLedgerMock) GrantEarningCalls() []struct {
	ExpertID uuid.UUID
	Credits  int64
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.GrantEarning
}

func (m *creditLedgerMock) QuestionPrice(ctx context.Context) int64 {
	if m.QuestionPriceFunc == nil {
		return 10
	}
	return m.QuestionPriceFunc(ctx)
}

func (m *creditLedgerMock) ExpertEarning(ctx context.Context) int64 {
	if m.ExpertEarningFunc == nil {
		return 6
	}
	return m.ExpertEarningFunc(ctx)
}

var _ eventEmitter = &eventEmitterMock{}

type eventEmitterMock struct {
	mu     sync.Mutex
	events []domain.Event
}

func (m *eventEmitterMock) Emit(ctx context.Context, e domain.Event) {
	m.mu.Lock()
	m.events = append(m.events, e)
	m.mu.Unlock()
}

func (m *eventEmitterMock) Events() []domain.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events
}
