package starknet

import (
	"context"

	"peerlend/internal/felt"
	"peerlend/internal/models"
)

// LendingProposals reads the full lending-proposal feed from the contract.
func (c *Client) LendingProposals(ctx context.Context) ([]models.Proposal, error) {
	felts, err := c.callContract(ctx, "get_lending_proposal_details", nil)
	if err != nil {
		return nil, err
	}
	return DecodeProposals(felts, models.CategoryLending)
}

// BorrowProposals reads the full borrowing-proposal feed from the contract.
func (c *Client) BorrowProposals(ctx context.Context) ([]models.Proposal, error) {
	felts, err := c.callContract(ctx, "get_borrowing_proposal_details", nil)
	if err != nil {
		return nil, err
	}
	return DecodeProposals(felts, models.CategoryBorrowing)
}

// UserAssets reads the per-token asset records for one user.
func (c *Client) UserAssets(ctx context.Context, userAddress string) ([]models.UserAsset, error) {
	normalized, err := felt.Normalize(userAddress)
	if err != nil {
		return nil, err
	}

	felts, err := c.callContract(ctx, "get_user_assets", []string{normalized})
	if err != nil {
		return nil, err
	}
	return DecodeUserAssets(felts)
}
