package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"peerlend/internal/felt"
	"peerlend/internal/models"
	"peerlend/internal/repository"
)

// ErrActionSubmissionFailed wraps any rejection of a contract write: user
// cancelled signing, insufficient gas, contract revert, network error.
// Financial actions are never retried automatically.
var ErrActionSubmissionFailed = errors.New("action submission failed")

// ChainClient is the full contract boundary: feed reads, asset reads and
// opaque write submission.
type ChainClient interface {
	FeedReader
	UserAssets(ctx context.Context, userAddress string) ([]models.UserAsset, error)
	SubmitInvoke(ctx context.Context, signedInvoke json.RawMessage) (string, error)
	WaitForTransaction(ctx context.Context, txHash string) error
}

// ProposalService submits proposal actions and deposits to the chain and
// performs the notification / protocol-stats / ledger side effects the
// dashboard expects after each confirmed transaction.
type ProposalService struct {
	chain  ChainClient
	repo   *repository.Repository
	tokens *TokenTable

	sideEffectTimeout time.Duration
}

// NewProposalService creates a new ProposalService
func NewProposalService(chain ChainClient, repo *repository.Repository, tokens *TokenTable) *ProposalService {
	return &ProposalService{
		chain:             chain,
		repo:              repo,
		tokens:            tokens,
		sideEffectTimeout: 15 * time.Second,
	}
}

// AvailableBalance sums the user's per-token available balances, the figure
// the collateral gate compares against.
func (s *ProposalService) AvailableBalance(ctx context.Context, userAddress string) (decimal.Decimal, error) {
	assets, err := s.chain.UserAssets(ctx, userAddress)
	if err != nil {
		return decimal.Zero, err
	}
	return models.Overview(assets).AvailableBalance, nil
}

// AssetOverview aggregates the user's per-token records for the profile view.
func (s *ProposalService) AssetOverview(ctx context.Context, userAddress string) (models.UserAssetOverview, error) {
	assets, err := s.chain.UserAssets(ctx, userAddress)
	if err != nil {
		return models.UserAssetOverview{}, err
	}
	return models.Overview(assets), nil
}

// SubmitAction relays a signed action transaction, waits for its
// confirmation, then fires the side effects. The action counts as done once
// its own submission succeeds; side-effect failures are logged, never
// propagated, and never roll it back.
func (s *ProposalService) SubmitAction(ctx context.Context, userAddress string, req models.ActionRequest) (string, error) {
	user, err := felt.Normalize(userAddress)
	if err != nil {
		return "", err
	}

	txHash, err := s.chain.SubmitInvoke(ctx, req.Invoke)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrActionSubmissionFailed, err)
	}
	if err := s.chain.WaitForTransaction(ctx, txHash); err != nil {
		return "", fmt.Errorf("%w: %v", ErrActionSubmissionFailed, err)
	}

	go s.actionSideEffects(user, req)

	return txHash, nil
}

// SubmitDeposit relays the signed approve+deposit call and records it to
// the ledger once confirmed.
func (s *ProposalService) SubmitDeposit(ctx context.Context, userAddress string, dep models.DepositRequest) (string, error) {
	user, err := felt.Normalize(userAddress)
	if err != nil {
		return "", err
	}

	txHash, err := s.chain.SubmitInvoke(ctx, dep.Invoke)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrActionSubmissionFailed, err)
	}
	if err := s.chain.WaitForTransaction(ctx, txHash); err != nil {
		return "", fmt.Errorf("%w: %v", ErrActionSubmissionFailed, err)
	}

	go s.depositSideEffects(user, dep)

	return txHash, nil
}

// actionSideEffects writes the notification, the protocol delta and the
// ledger entry for one confirmed action. Best effort: each failure is
// independent and only logged.
func (s *ProposalService) actionSideEffects(user string, req models.ActionRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), s.sideEffectTimeout)
	defer cancel()

	done := make(chan struct{}, 3)

	go func() {
		defer func() { done <- struct{}{} }()
		n := &models.Notification{
			UserAddress: user,
			Message:     notificationMessage(req),
		}
		if err := s.repo.CreateNotification(ctx, n); err != nil {
			log.Printf("[Proposal] Notification write failed for %s: %v", user, err)
		}
	}()

	go func() {
		defer func() { done <- struct{}{} }()
		delta, ok := protocolDelta(req)
		if !ok {
			return
		}
		if _, err := s.repo.ApplyProtocolDelta(ctx, delta); err != nil {
			log.Printf("[Proposal] Protocol stats update failed for %s: %v", user, err)
		}
	}()

	go func() {
		defer func() { done <- struct{}{} }()
		txType, ok := ledgerType(req.Kind)
		if !ok {
			return
		}
		entry := &models.Transaction{
			UserAddress: user,
			Token:       req.Token,
			Amount:      req.Amount,
			Type:        txType,
		}
		if err := s.repo.CreateTransaction(ctx, entry); err != nil {
			log.Printf("[Proposal] Ledger write failed for %s: %v", user, err)
		}
	}()

	for i := 0; i < 3; i++ {
		<-done
	}
}

func (s *ProposalService) depositSideEffects(user string, dep models.DepositRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), s.sideEffectTimeout)
	defer cancel()

	entry := &models.Transaction{
		UserAddress: user,
		Token:       dep.Token,
		Amount:      dep.Amount,
		Type:        models.TxTypeDeposit,
	}
	if err := s.repo.CreateTransaction(ctx, entry); err != nil {
		log.Printf("[Proposal] Deposit ledger write failed for %s: %v", user, err)
	}

	delta := models.ProtocolDeltaRequest{TotalValueLocked: dep.Amount}
	if _, err := s.repo.ApplyProtocolDelta(ctx, delta); err != nil {
		log.Printf("[Proposal] Deposit stats update failed for %s: %v", user, err)
	}
}

func notificationMessage(req models.ActionRequest) string {
	switch req.Kind {
	case models.ActionAccept:
		return fmt.Sprintf("Proposal %s has been accepted", req.ProposalID)
	case models.ActionCancel:
		return fmt.Sprintf("Your proposal %s has been cancelled", req.ProposalID)
	case models.ActionRepay:
		return fmt.Sprintf("Repayment of %s on proposal %s confirmed", req.Amount, req.ProposalID)
	case models.ActionCreateLending:
		return fmt.Sprintf("Your lending proposal for %s %s is live", req.Amount, req.Token)
	case models.ActionCreateBorrow:
		return fmt.Sprintf("Your borrow proposal for %s %s is live", req.Amount, req.Token)
	case models.ActionCreateCounter:
		return fmt.Sprintf("Your counter proposal on %s has been submitted", req.ProposalID)
	default:
		return fmt.Sprintf("Action %s confirmed", req.Kind)
	}
}

// protocolDelta maps a confirmed action onto the aggregate-stats update the
// dashboard posts: creations add to the running totals, cancellation unwinds
// them, acceptance counts a closed deal.
func protocolDelta(req models.ActionRequest) (models.ProtocolDeltaRequest, bool) {
	switch req.Kind {
	case models.ActionCreateLending:
		return models.ProtocolDeltaRequest{
			TotalLend:        req.Amount,
			TotalP2PDeals:    1,
			TotalValueLocked: req.Amount,
		}, true
	case models.ActionCreateBorrow:
		return models.ProtocolDeltaRequest{
			TotalBorrow:   req.Amount,
			TotalP2PDeals: 1,
		}, true
	case models.ActionCancel:
		// Unwind the side the proposal was created on.
		if req.Category == models.CategoryBorrowing {
			return models.ProtocolDeltaRequest{
				TotalBorrow:   req.Amount.Neg(),
				TotalP2PDeals: -1,
			}, true
		}
		return models.ProtocolDeltaRequest{
			TotalLend:     req.Amount.Neg(),
			TotalP2PDeals: -1,
		}, true
	case models.ActionAccept:
		return models.ProtocolDeltaRequest{
			TotalP2PDeals: 1,
		}, true
	default:
		return models.ProtocolDeltaRequest{}, false
	}
}

func ledgerType(kind models.ActionKind) (string, bool) {
	switch kind {
	case models.ActionCreateLending:
		return models.TxTypeLend, true
	case models.ActionCreateBorrow:
		return models.TxTypeBorrow, true
	default:
		return "", false
	}
}
