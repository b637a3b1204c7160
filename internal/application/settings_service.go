package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/SoundHire-Cloud/service-booking/internal/domain/money"
	"github.com/SoundHire-Cloud/service-booking/internal/domain/settings"
	"github.com/SoundHire-Cloud/service-booking/internal/platform/domain"
)

// UpdateAddonRateRequest sets the global add-on daily rate.
type UpdateAddonRateRequest struct {
	DailyRate string `json:"daily_rate" binding:"required"`
}

// AddonRateDTO is the API response representation of the add-on rate.
type AddonRateDTO struct {
	DailyRate string `json:"daily_rate"`
	Currency  string `json:"currency"`
}

// SettingsService manages the global settings row.
type SettingsService struct {
	repo     settings.Repository
	currency string
	logger   *zap.Logger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(repo settings.Repository, currency string, logger *zap.Logger) *SettingsService {
	return &SettingsService{repo: repo, currency: currency, logger: logger}
}

// GetAddonRate returns the current add-on daily rate.
func (s *SettingsService) GetAddonRate(ctx context.Context) (*AddonRateDTO, error) {
	rate, err := s.repo.AddonDailyRate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load add-on rate: %w", err)
	}
	return &AddonRateDTO{DailyRate: rate.String(), Currency: rate.Currency}, nil
}

// UpdateAddonRate replaces the add-on daily rate. The next quote or
// booking picks it up.
func (s *SettingsService) UpdateAddonRate(ctx context.Context, req UpdateAddonRateRequest) (*AddonRateDTO, error) {
	rate, err := money.Parse(req.DailyRate, s.currency)
	if err != nil {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid daily rate: %v", err))
	}

	if err := s.repo.UpdateAddonDailyRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to update add-on rate: %w", err)
	}

	s.logger.Info("add-on rate updated", zap.String("daily_rate", rate.String()))
	return &AddonRateDTO{DailyRate: rate.String(), Currency: rate.Currency}, nil
}
