package starknet

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"peerlend/internal/felt"
	"peerlend/internal/models"
)

// ErrFeedUnavailable is returned when the contract response does not decode
// into the expected record shape. Callers treat the feed as absent and keep
// the prior snapshot; nothing downstream re-checks shape.
var ErrFeedUnavailable = errors.New("proposal feed unavailable")

// Felts per serialized record.
const (
	proposalFeltWidth  = 15
	userAssetFeltWidth = 5
)

// DecodeProposals validates and decodes the raw felt array returned by the
// proposal-detail entrypoints. The first felt is the record count, followed
// by fixed-width records:
//
//	id, lender, borrower, token, collateral_token, token_amount, amount,
//	interest_rate, duration, created_at, repayment_date,
//	is_cancelled, is_accepted, is_repaid, amount_repaid
func DecodeProposals(felts []string, category models.ProposalCategory) ([]models.Proposal, error) {
	records, err := splitRecords(felts, proposalFeltWidth)
	if err != nil {
		return nil, err
	}

	proposals := make([]models.Proposal, 0, len(records))
	for i, rec := range records {
		p, err := decodeProposal(rec, category)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrFeedUnavailable, i, err)
		}
		proposals = append(proposals, p)
	}
	return proposals, nil
}

// DecodeUserAssets decodes the felt array returned by get_user_assets:
// token_address, available_balance, total_lent, total_borrowed,
// interest_earned per record.
func DecodeUserAssets(felts []string) ([]models.UserAsset, error) {
	records, err := splitRecords(felts, userAssetFeltWidth)
	if err != nil {
		return nil, err
	}

	assets := make([]models.UserAsset, 0, len(records))
	for i, rec := range records {
		tokenAddr, err := feltToAddress(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrFeedUnavailable, i, err)
		}

		fields := make([]decimal.Decimal, 4)
		for j := 1; j < userAssetFeltWidth; j++ {
			d, err := feltToDecimal(rec[j])
			if err != nil {
				return nil, fmt.Errorf("%w: record %d: %v", ErrFeedUnavailable, i, err)
			}
			fields[j-1] = d
		}

		assets = append(assets, models.UserAsset{
			TokenAddress:     tokenAddr,
			AvailableBalance: fields[0],
			TotalLent:        fields[1],
			TotalBorrowed:    fields[2],
			InterestEarned:   fields[3],
		})
	}
	return assets, nil
}

func splitRecords(felts []string, width int) ([][]string, error) {
	if len(felts) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrFeedUnavailable)
	}

	count, err := felt.ParseFelt(felts[0])
	if err != nil || !count.IsInt64() {
		return nil, fmt.Errorf("%w: bad record count %q", ErrFeedUnavailable, felts[0])
	}

	n := int(count.Int64())
	if len(felts)-1 != n*width {
		return nil, fmt.Errorf("%w: expected %d felts for %d records, got %d",
			ErrFeedUnavailable, n*width, n, len(felts)-1)
	}

	records := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		start := 1 + i*width
		records = append(records, felts[start:start+width])
	}
	return records, nil
}

func decodeProposal(rec []string, category models.ProposalCategory) (models.Proposal, error) {
	id, err := felt.ParseFelt(rec[0])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("id: %v", err)
	}

	lender, err := feltToAddress(rec[1])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("lender: %v", err)
	}
	borrower, err := feltToAddress(rec[2])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("borrower: %v", err)
	}
	token, err := feltToAddress(rec[3])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("token: %v", err)
	}
	collateral, err := feltToAddress(rec[4])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("collateral_token: %v", err)
	}

	tokenAmount, err := feltToDecimal(rec[5])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("token_amount: %v", err)
	}
	amount, err := feltToDecimal(rec[6])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("amount: %v", err)
	}

	interestRate, err := feltToUint64(rec[7])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("interest_rate: %v", err)
	}
	duration, err := feltToUint64(rec[8])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("duration: %v", err)
	}
	createdAt, err := feltToUint64(rec[9])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("created_at: %v", err)
	}
	repaymentDate, err := feltToUint64(rec[10])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("repayment_date: %v", err)
	}

	isCancelled, err := feltToBool(rec[11])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("is_cancelled: %v", err)
	}
	isAccepted, err := feltToBool(rec[12])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("is_accepted: %v", err)
	}
	isRepaid, err := feltToBool(rec[13])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("is_repaid: %v", err)
	}

	amountRepaid, err := feltToDecimal(rec[14])
	if err != nil {
		return models.Proposal{}, fmt.Errorf("amount_repaid: %v", err)
	}

	return models.Proposal{
		ID:              felt.ToHex(id.String()),
		Category:        category,
		Token:           token,
		CollateralToken: collateral,
		TokenAmount:     tokenAmount,
		Amount:          amount,
		InterestRate:    interestRate,
		Duration:        duration,
		Lender:          lender,
		Borrower:        borrower,
		CreatedAt:       int64(createdAt),
		RepaymentDate:   int64(repaymentDate),
		IsCancelled:     isCancelled,
		IsAccepted:      isAccepted,
		IsRepaid:        isRepaid,
		AmountRepaid:    amountRepaid,
	}, nil
}

func feltToAddress(value string) (string, error) {
	n, err := felt.ParseFelt(value)
	if err != nil {
		return "", err
	}
	return felt.Normalize("0x" + n.Text(16))
}

func feltToDecimal(value string) (decimal.Decimal, error) {
	n, err := felt.ParseFelt(value)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(n, 0), nil
}

func feltToUint64(value string) (uint64, error) {
	n, err := felt.ParseFelt(value)
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("value %q out of uint64 range", value)
	}
	return n.Uint64(), nil
}

func feltToBool(value string) (bool, error) {
	n, err := felt.ParseFelt(value)
	if err != nil {
		return false, err
	}
	switch n.Cmp(big.NewInt(0)) {
	case 0:
		return false, nil
	default:
		if n.Cmp(big.NewInt(1)) == 0 {
			return true, nil
		}
		return false, fmt.Errorf("value %q is not a boolean felt", value)
	}
}
