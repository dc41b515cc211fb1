package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/lababil/pos/internal/domain/settings"
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/lababil/pos/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSettingsRepository stores the settings record as a single row
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// Get returns the stored settings, or shared.ErrNotFound when none were saved
func (r *GormSettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	var model models.SettingsModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", models.SettingsSingletonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save replaces the stored settings
func (r *GormSettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	model := models.SettingsModelFromDomain(s)
	model.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormSettingsRepository implements settings.Repository
var _ settings.Repository = (*GormSettingsRepository)(nil)
