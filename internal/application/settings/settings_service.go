package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/lababil/pos/internal/domain/settings"
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// SettingsService reads and writes the single settings record
type SettingsService struct {
	mu     sync.Mutex
	repo   settings.Repository
	logger *zap.Logger
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo settings.Repository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		repo:   repo,
		logger: logger,
	}
}

// Get returns the stored settings, or the defaults when none were saved
func (s *SettingsService) Get(ctx context.Context) (*settings.Settings, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		if shared.IsNotFound(err) {
			defaults := settings.Defaults()
			return &defaults, nil
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return current, nil
}

// GetResponse returns the current settings as a response DTO
func (s *SettingsService) GetResponse(ctx context.Context) (*SettingsResponse, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}
	response := ToSettingsResponse(current)
	return &response, nil
}

// Replace validates and stores a whole new settings record
func (s *SettingsService) Replace(ctx context.Context, req SettingsRequest) (*SettingsResponse, error) {
	next := req.ToDomain()
	return s.Update(ctx, func(current *settings.Settings) error {
		*current = next
		return nil
	})
}

// Update applies fn to the current settings and stores the result. The
// read-modify-write is atomic with respect to other settings writes.
func (s *SettingsService) Update(ctx context.Context, fn func(*settings.Settings) error) (*SettingsResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	next := *current
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.Normalize()
	if err := next.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, &next); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("Settings updated",
		zap.String("company_name", next.CompanyName),
		zap.String("paper_size", string(next.PaperSize)),
		zap.String("tax_rate", next.TaxRate.String()))

	response := ToSettingsResponse(&next)
	return &response, nil
}

// Reset restores the factory settings
func (s *SettingsService) Reset(ctx context.Context) (*SettingsResponse, error) {
	return s.Update(ctx, func(current *settings.Settings) error {
		*current = settings.Defaults()
		return nil
	})
}

// TaxRate returns the configured tax percentage
func (s *SettingsService) TaxRate(ctx context.Context) (decimal.Decimal, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return current.TaxRate, nil
}
