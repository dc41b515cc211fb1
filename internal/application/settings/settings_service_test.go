package settings

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/lababil/pos/internal/domain/settings"
	"github.com/lababil/pos/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockSettingsRepository is a mock implementation of settings.Repository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*settings.Settings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settings.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Save(ctx context.Context, s *settings.Settings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// recordingRepository keeps the last saved record in memory
type recordingRepository struct {
	mu    sync.Mutex
	saved *settings.Settings
}

func (r *recordingRepository) Get(_ context.Context) (*settings.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saved == nil {
		return nil, shared.ErrNotFound
	}
	copied := *r.saved
	return &copied, nil
}

func (r *recordingRepository) Save(_ context.Context, s *settings.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *s
	r.saved = &copied
	return nil
}

func TestSettingsService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults when nothing stored", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("Get", ctx).Return(nil, shared.ErrNotFound)
		svc := NewSettingsService(repo, zap.NewNop())

		got, err := svc.Get(ctx)

		require.NoError(t, err)
		assert.Equal(t, "Lababil Solution", got.CompanyName)
		assert.True(t, decimal.NewFromInt(11).Equal(got.TaxRate))
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		repo.On("Get", ctx).Return(nil, errors.New("corrupt file"))
		svc := NewSettingsService(repo, zap.NewNop())

		_, err := svc.Get(ctx)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "corrupt file")
	})
}

func TestSettingsService_Replace(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepository{}
	svc := NewSettingsService(repo, zap.NewNop())

	req := SettingsRequest{
		CompanyName:      "  Toko Sejahtera ",
		PaperSize:        "Thermal-80",
		PaperOrientation: "portrait",
		TaxRate:          decimal.RequireFromString("12.5"),
		Currency:         "idr",
		ShowTax:          true,
	}

	resp, err := svc.Replace(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "Toko Sejahtera", resp.CompanyName)
	assert.Equal(t, "IDR", resp.Currency)
	assert.Equal(t, "", resp.CompanyAddress, "replace does not merge with previous values")

	rate, err := svc.TaxRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "12.5", rate.String())
}

func TestSettingsService_ReplaceRejectsInvalid(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepository{}
	svc := NewSettingsService(repo, zap.NewNop())

	_, err := svc.Replace(ctx, SettingsRequest{
		CompanyName:      "Toko",
		PaperSize:        "B5",
		PaperOrientation: "portrait",
		Currency:         "IDR",
	})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_SETTINGS", domainErr.Code)
	assert.Nil(t, repo.saved)
}

func TestSettingsService_UpdateIsAtomic(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepository{}
	svc := NewSettingsService(repo, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Update(ctx, func(s *settings.Settings) error {
				s.TaxRate = s.TaxRate.Add(decimal.NewFromInt(1))
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	rate, err := svc.TaxRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, "31", rate.String())
}

func TestSettingsService_UpdateCallbackError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockSettingsRepository)
	repo.On("Get", ctx).Return(nil, shared.ErrNotFound)
	svc := NewSettingsService(repo, zap.NewNop())

	_, err := svc.Update(ctx, func(*settings.Settings) error { return errors.New("abort") })

	assert.EqualError(t, err, "abort")
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestSettingsService_Reset(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepository{}
	svc := NewSettingsService(repo, zap.NewNop())

	_, err := svc.Update(ctx, func(s *settings.Settings) error {
		s.CompanyName = "Custom"
		return nil
	})
	require.NoError(t, err)

	resp, err := svc.Reset(ctx)

	require.NoError(t, err)
	assert.Equal(t, "Lababil Solution", resp.CompanyName)
	assert.Equal(t, "A4", resp.PaperSize)
}
