package ledger

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/askwell/askwell-backend/internal/domain"
)

var _ accountRepo = &accountRepoMock{}

type accountRepoMock struct {
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	AdjustBalanceFunc func(ctx context.Context, id uuid.UUID, delta int64) (int64, error)

	calls struct {
		GetByID       []uuid.UUID
		AdjustBalance []struct {
			ID    uuid.UUID
			Delta int64
		}
	}
	mu sync.Mutex
}

func (m *accountRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFunc == nil {
		panic("accountRepoMock.GetByIDFunc is nil")
	}
	m.mu.Lock()
	m.calls.GetByID = append(m.calls.GetByID, id)
	m.mu.Unlock()
	return m.GetByIDFunc(ctx, id)
}

func (m *accountRepoMock) AdjustBalance(ctx context.Context, id uuid.UUID, delta int64) (int64, error) {
	if m.AdjustBalanceFunc == nil {
		panic("accountRepoMock.AdjustBalanceFunc is nil")
	}
	m.mu.Lock()
	m.calls.AdjustBalance = append(m.calls.AdjustBalance, struct {
		ID    uuid.UUID
		Delta int64
	}{id, delta})
	m.mu.Unlock()
	return m.AdjustBalanceFunc(ctx, id, delta)
}

func (m *accountRepoMock) AdjustBalanceCalls() []struct {
	ID    uuid.UUID
	Delta int64
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.AdjustBalance
}

var _ ledgerRepo = &ledgerRepoMock{}

type ledgerRepoMock struct {
	InsertFunc                  func(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error)
	GetByIDFunc                 func(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	SumDeltasFunc               func(ctx context.Context, accountID uuid.UUID) (int64, error)
	ListByAccountFunc           func(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
	UpdateStatusFunc            func(ctx context.Context, id uuid.UUID, to domain.TransactionStatus) (*domain.Transaction, error)
	SetExternalRefFunc          func(ctx context.Context, id uuid.UUID, ref string) (*domain.Transaction, error)
	ListStalePendingFunc        func(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error)
	LatestCompletedPurchaseFunc func(ctx context.Context, accountID uuid.UUID) (*domain.Transaction, error)

	calls struct {
		Insert       []domain.Transaction
		UpdateStatus []struct {
			ID uuid.UUID
			To domain.TransactionStatus
		}
	}
	mu sync.Mutex
}

func (m *ledgerRepoMock) Insert(ctx context.Context, tx domain.Transaction) (*domain.Transaction, error) {
	if m.InsertFunc == nil {
		panic("ledgerRepoMock.InsertFunc is nil")
	}
	m.mu.Lock()
	m.calls.Insert = append(m.calls.Insert, tx)
	m.mu.Unlock()
	return m.InsertFunc(ctx, tx)
}

func (m *ledgerRepoMock) InsertCalls() []domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Insert
}

func (m *ledgerRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	if m.GetByIDFunc == nil {
		panic("ledgerRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *ledgerRepoMock) SumDeltas(ctx context.Context, accountID uuid.UUID) (int64, error) {
	if m.SumDeltasFunc == nil {
		panic("ledgerRepoMock.SumDeltasFunc is nil")
	}
	return m.SumDeltasFunc(ctx, accountID)
}

func (m *ledgerRepoMock) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	if m.ListByAccountFunc == nil {
		panic("ledgerRepoMock.ListByAccountFunc is nil")
	}
	return m.ListByAccountFunc(ctx, accountID, limit, offset)
}

func (m *ledgerRepoMock) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.TransactionStatus) (*domain.Transaction, error) {
	if m.UpdateStatusFunc == nil {
		panic("ledgerRepoMock.UpdateStatusFunc is nil")
	}
	m.mu.Lock()
	m.calls.UpdateStatus = append(m.calls.UpdateStatus, struct {
		ID uuid.UUID
		To domain.TransactionStatus
	}{id, to})
	m.mu.Unlock()
	return m.UpdateStatusFunc(ctx, id, to)
}

func (m *ledgerRepoMock) UpdateStatusCalls() []struct {
	ID uuid.UUID
	To domain.TransactionStatus
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.UpdateStatus
}

func (m *ledgerRepoMock) SetExternalRef(ctx context.Context, id uuid.UUID, ref string) (*domain.Transaction, error) {
	if m.SetExternalRefFunc == nil {
		panic("ledgerRepoMock.SetExternalRefFunc is nil")
	}
	return m.SetExternalRefFunc(ctx, id, ref)
}

func (m *ledgerRepoMock) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]domain.Transaction, error) {
	if m.ListStalePendingFunc == nil {
		panic("ledgerRepoMock.ListStalePendingFunc is nil")
	}
	return m.ListStalePendingFunc(ctx, olderThan, limit)
}

func (m *ledgerRepoMock) LatestCompletedPurchase(ctx context.Context, accountID uuid.UUID) (*domain.Transaction, error) {
	if m.LatestCompletedPurchaseFunc == nil {
		panic("ledgerRepoMock.LatestCompletedPurchaseFunc is nil")
	}
	return m.LatestCompletedPurchaseFunc(ctx, accountID)
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

// txManagerMock runs the callback inline, mimicking a joined transaction.
type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.RunInTxFunc != nil {
		return m.RunInTxFunc(ctx, fn)
	}
	return fn(ctx)
}

var _ paymentGateway = &paymentGatewayMock{}

type paymentGatewayMock struct {
	AuthorizeFunc func(ctx context.Context, accountID uuid.UUID, amountCents int64) (string, error)

	calls struct {
		Authorize []struct {
			AccountID   uuid.UUID
			AmountCents int64
		}
	}
	mu sync.Mutex
}

func (m *paymentGatewayMock) Authorize(ctx context.Context, accountID uuid.UUID, amountCents int64) (string, error) {
	if m.AuthorizeFunc == nil {
		panic("paymentGatewayMock.AuthorizeFunc is nil")
	}
	m.mu.Lock()
	m.calls.Authorize = append(m.calls.Authorize, struct {
		AccountID   uuid.UUID
		AmountCents int64
	}{accountID, amountCents})
	m.mu.Unlock()
	return m.AuthorizeFunc(ctx, accountID, amountCents)
}

func (m *paymentGatewayMock) AuthorizeCalls() []struct {
	AccountID   uuid.UUID
	AmountCents int64
} {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls.Authorize
}
