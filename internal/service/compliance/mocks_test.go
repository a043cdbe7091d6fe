package compliance

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/adapter/postgres/flag"
	"github.com/askwell/askwell-backend/internal/domain"
)

var _ flagRepo = &flagRepoMock{}

type flagRepoMock struct {
	UpsertFunc          func(ctx context.Context, f domain.ComplianceFlag) (*domain.ComplianceFlag, error)
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*domain.ComplianceFlag, error)
	ResolveFunc         func(ctx context.Context, id, resolvedBy uuid.UUID, notes *string) (*domain.ComplianceFlag, error)
	ListFunc            func(ctx context.Context, filter flag.Filter) ([]domain.ComplianceFlag, error)
	CountUnresolvedFunc func(ctx context.Context) (int, error)

	calls struct {
		Upsert []domain.ComplianceFlag
	}
	mu sync.Mutex
}

func (m *flagRepoMock) Upsert(ctx context.Context, f domain.ComplianceFlag) (*domain.ComplianceFlag, error) {
	if m.UpsertFunc == nil {
		panic("flagRepoMock.UpsertFunc is nil")
	}
	m.mu.Lock()
	m.calls.Upsert = append(m.calls.Upsert, f)
	m.mu.Unlock()
	return m.UpsertFunc(ctx, f)
}

func (m *flagRepoMock) UpsertCalls() []domain.ComplianceFlag {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Upsert
}

func (m *flagRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.ComplianceFlag, error) {
	if m.GetByIDFunc == nil {
		panic("flagRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *flagRepoMock) Resolve(ctx context.Context, id, resolvedBy uuid.UUID, notes *string) (*domain.ComplianceFlag, error) {
	if m.ResolveFunc == nil {
		panic("flagRepoMock.ResolveFunc is nil")
	}
	return m.ResolveFunc(ctx, id, resolvedBy, notes)
}

func (m *flagRepoMock) List(ctx context.Context, filter flag.Filter) ([]domain.ComplianceFlag, error) {
	if m.ListFunc == nil {
		panic("flagRepoMock.ListFunc is nil")
	}
	return m.ListFunc(ctx, filter)
}

func (m *flagRepoMock) CountUnresolved(ctx context.Context) (int, error) {
	if m.CountUnresolvedFunc == nil {
		panic("flagRepoMock.CountUnresolvedFunc is nil")
	}
	return m.CountUnresolvedFunc(ctx)
}

var _ questionRepo = &questionRepoMock{}

type questionRepoMock struct {
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	UpdateStatusFunc  func(ctx context.Context, id uuid.UUID, from, to domain.QuestionStatus) (*domain.Question, error)
	MarkDeliveredFunc func(ctx context.Context, id uuid.UUID, from domain.QuestionStatus) (*domain.Question, error)
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

func (m *questionRepoMock) MarkDelivered(ctx context.Context, id uuid.UUID, from domain.QuestionStatus) (*domain.Question, error) {
	if m.MarkDeliveredFunc == nil {
		panic("questionRepoMock.MarkDeliveredFunc is nil")
	}
	return m.MarkDeliveredFunc(ctx, id, from)
}

var _ answerRepo = &answerRepoMock{}

type answerRepoMock struct {
	GetByIDFunc               func(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
	GetByQuestionIDFunc       func(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error)
	MarkDeliveredFunc         func(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
	SetConfidenceOverrideFunc func(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
	SetAICheckPassedFunc      func(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
	SetOriginalityPassedFunc  func(ctx context.Context, id uuid.UUID) (*domain.Answer, error)
}

func (m *answerRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	if m.GetByIDFunc == nil {
		panic("answerRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *answerRepoMock) GetByQuestionID(ctx context.Context, questionID uuid.UUID) (*domain.Answer, error) {
	if m.GetByQuestionIDFunc == nil {
		panic("answerRepoMock.GetByQuestionIDFunc is nil")
	}
	return m.GetByQuestionIDFunc(ctx, questionID)
}

func (m *answerRepoMock) MarkDelivered(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	if m.MarkDeliveredFunc == nil {
		panic("answerRepoMock.MarkDeliveredFunc is nil")
	}
	return m.MarkDeliveredFunc(ctx, id)
}

func (m *answerRepoMock) SetConfidenceOverride(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	if m.SetConfidenceOverrideFunc == nil {
		panic("answerRepoMock.SetConfidenceOverrideFunc is nil")
	}
	return m.SetConfidenceOverrideFunc(ctx, id)
}

func (m *answerRepoMock) SetAICheckPassed(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	if m.SetAICheckPassedFunc == nil {
		panic("answerRepoMock.SetAICheckPassedFunc is nil")
	}
	return m.SetAICheckPassedFunc(ctx, id)
}

func (m *answerRepoMock) SetOriginalityPassed(ctx context.Context, id uuid.UUID) (*domain.Answer, error) {
	if m.SetOriginalityPassedFunc == nil {
		panic("answerRepoMock.SetOriginalityPassedFunc is nil")
	}
	return m.SetOriginalityPassedFunc(ctx, id)
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
