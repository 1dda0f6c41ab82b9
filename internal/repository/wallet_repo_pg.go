package repository

import (
	"context"
	"errors"
	"math"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/jackc/pgx/v5"
)

type PGWalletRepository struct {
	db             DB
	defaultBalance int64
}

func NewWalletRepository(db DB, defaultBalance int64) WalletRepository {
	return &PGWalletRepository{db: db, defaultBalance: defaultBalance}
}

func (r *PGWalletRepository) GetOrCreate(ctx context.Context, userID string) (*domain.Wallet, error) {
	if err := ensureWallet(ctx, r.db, userID, r.defaultBalance); err != nil {
		return nil, err
	}
	var w domain.Wallet
	if err := r.db.QueryRow(ctx, `SELECT user_id, balance, updated_at FROM wallets WHERE user_id=$1`, userID).
		Scan(&w.UserID, &w.Balance, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *PGWalletRepository) CheckAndDebit(ctx context.Context, userID string, amount int64) (bool, error) {
	if amount < 0 {
		return false, domain.ErrInvalidAmount
	}
	if err := ensureWallet(ctx, r.db, userID, r.defaultBalance); err != nil {
		return false, err
	}
	return debitWallet(ctx, r.db, userID, amount)
}

func (r *PGWalletRepository) Credit(ctx context.Context, userID string, amount int64) (*domain.Wallet, error) {
	if amount < 0 {
		return nil, domain.ErrInvalidAmount
	}
	if err := ensureWallet(ctx, r.db, userID, r.defaultBalance); err != nil {
		return nil, err
	}
	// The wallet exists at this point, so no row means the credit would overflow.
	var w domain.Wallet
	err := r.db.QueryRow(ctx, `UPDATE wallets SET balance = balance + $2, updated_at = now()
		WHERE user_id=$1 AND balance <= $3 - $2 RETURNING user_id, balance, updated_at`, userID, amount, int64(math.MaxInt64)).
		Scan(&w.UserID, &w.Balance, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBalanceOverflow
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func ensureWallet(ctx context.Context, q querier, userID string, defaultBalance int64) error {
	_, err := q.Exec(ctx, `INSERT INTO wallets (user_id, balance, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO NOTHING`, userID, defaultBalance)
	return err
}

// debitWallet is a single conditional UPDATE, so the balance check and the
// subtraction cannot interleave with another debit of the same row.
func debitWallet(ctx context.Context, q querier, userID string, amount int64) (bool, error) {
	cmd, err := q.Exec(ctx, `UPDATE wallets SET balance = balance - $2, updated_at = now()
		WHERE user_id=$1 AND balance >= $2`, userID, amount)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

var _ WalletRepository = (*PGWalletRepository)(nil)
