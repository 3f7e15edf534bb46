package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwidget/timetable-engine/internal/core/domain"
	"github.com/stwidget/timetable-engine/internal/core/ports/out"
)

// memStore keeps the "persisted" document in memory.
type memStore struct {
	saved     *domain.AppConfig
	saveCalls int
	loadErr   error
}

func (m *memStore) Load(ctx context.Context) (*domain.AppConfig, bool, bool, error) {
	if m.loadErr != nil {
		return nil, false, false, m.loadErr
	}
	if m.saved == nil {
		m.saved = domain.DefaultConfig()
		return m.saved, true, false, nil
	}
	return m.saved, false, false, nil
}

func (m *memStore) Save(ctx context.Context, cfg *domain.AppConfig) error {
	m.saved = cfg
	m.saveCalls++
	return nil
}

func (m *memStore) CreateBackup(ctx context.Context, name string) (out.BackupInfo, error) {
	return out.BackupInfo{Name: name}, nil
}

func (m *memStore) ListBackups(ctx context.Context) ([]out.BackupInfo, error) {
	return []out.BackupInfo{}, nil
}

func (m *memStore) RestoreBackup(ctx context.Context, name string) (*domain.AppConfig, error) {
	if m.saved == nil {
		return nil, fmt.Errorf("no backup %q", name)
	}
	return m.saved, nil
}

// memCache records purges so swap behavior is observable.
type memCache struct {
	entries map[string][]domain.PeriodWindow
	purges  int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]domain.PeriodWindow)}
}

func (m *memCache) GetDaySchedule(ctx context.Context, revision uuid.UUID, dayID string) ([]domain.PeriodWindow, bool) {
	windows, ok := m.entries[revision.String()+"/"+dayID]
	return windows, ok
}

func (m *memCache) StoreDaySchedule(ctx context.Context, revision uuid.UUID, dayID string, windows []domain.PeriodWindow) {
	m.entries[revision.String()+"/"+dayID] = windows
}

func (m *memCache) Purge(ctx context.Context) {
	m.entries = make(map[string][]domain.PeriodWindow)
	m.purges++
}

func newTestConfigService(t *testing.T) (*ConfigService, *memStore, *memCache) {
	t.Helper()
	store := &memStore{}
	cache := newMemCache()
	svc := NewConfigService(store, cache, testLogger(t))
	require.NoError(t, svc.Bootstrap(context.Background()))
	return svc, store, cache
}

func TestConfigServiceBootstrapAndCurrent(t *testing.T) {
	svc, _, _ := newTestConfigService(t)

	cfg := svc.Current(context.Background())
	require.NotNil(t, cfg)
	assert.Len(t, cfg.Days, 5)
}

func TestConfigServiceReplaceSwapsCopyOnWrite(t *testing.T) {
	svc, store, cache := newTestConfigService(t)
	ctx := context.Background()

	before := svc.Current(ctx)
	purgesBefore := cache.purges

	raw := domain.DefaultConfig().Serialize()
	raw["locale"] = "en-US"

	applied, err := svc.Replace(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "en-US", applied.Locale)
	assert.Equal(t, 1, store.saveCalls)

	after := svc.Current(ctx)
	assert.Same(t, applied, after)
	assert.NotEqual(t, before.Revision, after.Revision)
	// The old instance is untouched for in-flight readers.
	assert.Equal(t, "ko-KR", before.Locale)
	assert.Greater(t, cache.purges, purgesBefore)
}

func TestConfigServiceReplaceRejectsInvalid(t *testing.T) {
	svc, store, _ := newTestConfigService(t)
	ctx := context.Background()

	raw := domain.DefaultConfig().Serialize()
	raw["days"] = []any{}

	_, err := svc.Replace(ctx, raw)
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)

	// Nothing persisted, nothing swapped.
	assert.Equal(t, 0, store.saveCalls)
	assert.Equal(t, "ko-KR", svc.Current(ctx).Locale)
}

func TestConfigServiceReset(t *testing.T) {
	svc, _, _ := newTestConfigService(t)
	ctx := context.Background()

	raw := domain.DefaultConfig().Serialize()
	raw["locale"] = "en-US"
	_, err := svc.Replace(ctx, raw)
	require.NoError(t, err)

	cfg, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ko-KR", cfg.Locale)
	assert.Same(t, cfg, svc.Current(ctx))
}

func TestConfigServiceThemeTokens(t *testing.T) {
	svc, _, _ := newTestConfigService(t)
	ctx := context.Background()

	tokens := svc.ThemeTokens(ctx)
	assert.Equal(t, "#FFE696", tokens["current_bg"])

	raw := domain.DefaultConfig().Serialize()
	raw["theme"] = map[string]any{
		"preset": "dark",
		"tokens": map[string]any{"current_bg": "#123456"},
	}
	_, err := svc.Replace(ctx, raw)
	require.NoError(t, err)

	tokens = svc.ThemeTokens(ctx)
	assert.Equal(t, "#123456", tokens["current_bg"], "custom token wins")
	assert.Equal(t, "#1E1E1E", tokens["cell_bg"], "rest of the dark preset applies")
}
