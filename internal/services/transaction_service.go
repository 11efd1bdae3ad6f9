package services

import (
	"context"
	"fmt"
	"time"

	"peerlend/internal/felt"
	"peerlend/internal/models"
	"peerlend/internal/repository"
)

// TransactionService manages the per-user transaction ledger.
type TransactionService struct {
	repo *repository.Repository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(repo *repository.Repository) *TransactionService {
	return &TransactionService{repo: repo}
}

// Record appends one ledger entry.
func (s *TransactionService) Record(ctx context.Context, req models.RecordTransactionRequest) (*models.Transaction, error) {
	user, err := felt.Normalize(req.UserAddress)
	if err != nil {
		return nil, err
	}

	switch req.Type {
	case models.TxTypeDeposit, models.TxTypeWithdraw, models.TxTypeBorrow, models.TxTypeLend:
	default:
		return nil, fmt.Errorf("unknown transaction type %q", req.Type)
	}

	tx := &models.Transaction{
		UserAddress: user,
		Token:       req.Token,
		Amount:      req.Amount,
		Type:        req.Type,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// List returns a user's ledger entries within the named period
// (1 day, 1 week, 1 month, max).
func (s *TransactionService) List(ctx context.Context, userAddress, period string) ([]models.Transaction, error) {
	user, err := felt.Normalize(userAddress)
	if err != nil {
		return nil, err
	}

	since, err := PeriodStart(period, time.Now())
	if err != nil {
		return nil, err
	}
	return s.repo.ListTransactions(ctx, user, since)
}
