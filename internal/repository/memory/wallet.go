package memory

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/repository"
)

// WalletRepository serializes every balance change behind one mutex, which
// makes CheckAndDebit a single atomic step per user.
type WalletRepository struct {
	mu             sync.Mutex
	wallets        map[string]*domain.Wallet
	defaultBalance int64
	now            func() time.Time
}

func NewWalletRepository(opts ...Option) *WalletRepository {
	o := buildOptions(append([]Option{WithDefaultBalance(domain.DefaultWalletBalance)}, opts...))
	return &WalletRepository{
		wallets:        make(map[string]*domain.Wallet),
		defaultBalance: o.defaultBalance,
		now:            o.now,
	}
}

func (r *WalletRepository) GetOrCreate(_ context.Context, userID string) (*domain.Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w := *r.getOrCreateLocked(userID)
	return &w, nil
}

func (r *WalletRepository) CheckAndDebit(_ context.Context, userID string, amount int64) (bool, error) {
	if amount < 0 {
		return false, domain.ErrInvalidAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.debitLocked(userID, amount), nil
}

func (r *WalletRepository) Credit(_ context.Context, userID string, amount int64) (*domain.Wallet, error) {
	if amount < 0 {
		return nil, domain.ErrInvalidAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	w := r.getOrCreateLocked(userID)
	if amount > math.MaxInt64-w.Balance {
		return nil, domain.ErrBalanceOverflow
	}
	w.Balance += amount
	w.UpdatedAt = r.now()
	out := *w
	return &out, nil
}

func (r *WalletRepository) getOrCreateLocked(userID string) *domain.Wallet {
	w, ok := r.wallets[userID]
	if !ok {
		w = &domain.Wallet{UserID: userID, Balance: r.defaultBalance, UpdatedAt: r.now()}
		r.wallets[userID] = w
	}
	return w
}

func (r *WalletRepository) debitLocked(userID string, amount int64) bool {
	w := r.getOrCreateLocked(userID)
	if w.Balance < amount {
		return false
	}
	w.Balance -= amount
	w.UpdatedAt = r.now()
	return true
}

var _ repository.WalletRepository = (*WalletRepository)(nil)
