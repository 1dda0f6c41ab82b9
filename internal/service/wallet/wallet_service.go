package wallet

//go:generate mockgen -destination=../../mock/mock_repository/wallet.go -package=mockrepository github.com/Domenick1991/skyfare/internal/repository WalletRepository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Domenick1991/skyfare/internal/domain"
	"github.com/Domenick1991/skyfare/internal/logger"
	"github.com/Domenick1991/skyfare/internal/repository"
	"github.com/Domenick1991/skyfare/internal/validation"
)

type WalletUseCase interface {
	GetBalance(ctx context.Context, userID string) (*Balance, error)
	TopUp(ctx context.Context, input TopUpInput) (*Balance, error)
}

// Balance is a wallet with its amount also rendered in major units.
type Balance struct {
	UserID    string    `json:"user_id"`
	Balance   int64     `json:"balance"`
	Display   string    `json:"balance_display"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TopUpInput struct {
	UserID string `json:"user_id" validate:"required"`
	Amount int64  `json:"amount" validate:"gt=0"`
}

type WalletService struct {
	repo repository.WalletRepository
	log  *slog.Logger
}

func NewWalletService(repo repository.WalletRepository, log *slog.Logger) *WalletService {
	if log == nil {
		log = logger.Discard()
	}
	return &WalletService{repo: repo, log: log}
}

func (s *WalletService) GetBalance(ctx context.Context, userID string) (*Balance, error) {
	log := s.log.With(slog.String("op", "wallet.GetBalance"), slog.String("user_id", userID))

	if userID == "" {
		return nil, domain.ValidationError{Field: "user_id", Msg: "is required"}
	}
	w, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		log.ErrorContext(ctx, "failed to load wallet", logger.Err(err))
		return nil, fmt.Errorf("failed to load wallet: %w", err)
	}
	return toBalance(w), nil
}

func (s *WalletService) TopUp(ctx context.Context, input TopUpInput) (*Balance, error) {
	log := s.log.With(slog.String("op", "wallet.TopUp"), slog.String("user_id", input.UserID))

	if err := validation.Struct(input); err != nil {
		log.WarnContext(ctx, "invalid top-up", logger.Err(err))
		return nil, err
	}
	w, err := s.repo.Credit(ctx, input.UserID, input.Amount)
	if errors.Is(err, domain.ErrBalanceOverflow) || errors.Is(err, domain.ErrInvalidAmount) {
		log.WarnContext(ctx, "top-up refused", logger.Err(err))
		return nil, domain.ValidationError{Field: "amount", Msg: err.Error(), Err: err}
	}
	if err != nil {
		log.ErrorContext(ctx, "failed to credit wallet", logger.Err(err))
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}
	log.InfoContext(ctx, "wallet credited", slog.Int64("amount", input.Amount), slog.Int64("balance", w.Balance))
	return toBalance(w), nil
}

func toBalance(w *domain.Wallet) *Balance {
	return &Balance{
		UserID:    w.UserID,
		Balance:   w.Balance,
		Display:   domain.FormatMinor(w.Balance),
		UpdatedAt: w.UpdatedAt,
	}
}

var _ WalletUseCase = (*WalletService)(nil)
