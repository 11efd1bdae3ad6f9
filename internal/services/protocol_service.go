package services

import (
	"context"

	"peerlend/internal/models"
	"peerlend/internal/repository"
)

// ProtocolService exposes the protocol-wide running totals.
type ProtocolService struct {
	repo *repository.Repository
}

// NewProtocolService creates a new ProtocolService
func NewProtocolService(repo *repository.Repository) *ProtocolService {
	return &ProtocolService{repo: repo}
}

// Snapshot returns the current aggregate record.
func (s *ProtocolService) Snapshot(ctx context.Context) (*models.ProtocolData, error) {
	return s.repo.GetProtocolData(ctx)
}

// ApplyDelta adds a delta to the running totals and returns the result.
func (s *ProtocolService) ApplyDelta(ctx context.Context, delta models.ProtocolDeltaRequest) (*models.ProtocolData, error) {
	return s.repo.ApplyProtocolDelta(ctx, delta)
}
