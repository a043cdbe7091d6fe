package account

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
)

var _ accountRepo = &accountRepoMock{}

type accountRepoMock struct {
	CreateFunc     func(ctx context.Context, acc domain.Account) (*domain.Account, error)
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByEmailFunc func(ctx context.Context, email string) (*domain.Account, error)
	UpdateRoleFunc func(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.Account, error)
	SetBannedFunc  func(ctx context.Context, id uuid.UUID, banned bool) (*domain.Account, error)
	ListFunc       func(ctx context.Context, limit, offset int) ([]domain.Account, error)
	CountFunc      func(ctx context.Context) (int, error)

	calls struct {
		Create    []domain.Account
		SetBanned []bool
	}
	mu sync.Mutex
}

func (m *accountRepoMock) Create(ctx context.Context, acc domain.Account) (*domain.Account, error) {
	if m.CreateFunc == nil {
		panic("accountRepoMock.CreateFunc is nil")
	}
	m.mu.Lock()
	m.calls.Create = append(m.calls.Create, acc)
	m.mu.Unlock()
	return m.CreateFunc(ctx, acc)
}

func (m *accountRepoMock) CreateCalls() []domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Create
}

func (m *accountRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFunc == nil {
		panic("accountRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *accountRepoMock) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFunc == nil {
		panic("accountRepoMock.GetByEmailFunc is nil")
	}
	return m.GetByEmailFunc(ctx, email)
}

func (m *accountRepoMock) UpdateRole(ctx context.Context, id uuid.UUID, role domain.UserRole) (*domain.Account, error) {
	if m.UpdateRoleFunc == nil {
		panic("accountRepoMock.UpdateRoleFunc is nil")
	}
	return m.UpdateRoleFunc(ctx, id, role)
}

func (m *accountRepoMock) SetBanned(ctx context.Context, id uuid.UUID, banned bool) (*domain.Account, error) {
	if m.SetBannedFunc == nil {
		panic("accountRepoMock.SetBannedFunc is nil")
	}
	m.mu.Lock()
	m.calls.SetBanned = append(m.calls.SetBanned, banned)
	m.mu.Unlock()
	return m.SetBannedFunc(ctx, id, banned)
}

func (m *accountRepoMock) SetBannedCalls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.SetBanned
}

func (m *accountRepoMock) List(ctx context.Context, limit, offset int) ([]domain.Account, error) {
	if m.ListFunc == nil {
		panic("accountRepoMock.ListFunc is nil")
	}
	return m.ListFunc(ctx, limit, offset)
}

func (m *accountRepoMock) Count(ctx context.Context) (int, error) {
	if m.CountFunc == nil {
		panic("accountRepoMock.CountFunc is nil")
	}
	return m.CountFunc(ctx)
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

var _ txManager = &txManagerMock{}

type txManagerMock struct{}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
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

var _ passwordHasher = &hasherMock{}

type hasherMock struct {
	HashFunc    func(password string) (string, error)
	CompareFunc func(hash, password string) error
}

func (m *hasherMock) Hash(password string) (string, error) {
	if m.HashFunc == nil {
		return "hashed:" + password, nil
	}
	return m.HashFunc(password)
}

func (m *hasherMock) Compare(hash, password string) error {
	if m.CompareFunc == nil {
		return nil
	}
	return m.CompareFunc(hash, password)
}
