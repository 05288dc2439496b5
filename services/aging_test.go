package services

import (
	"testing"
	"time"

	"github.com/dineflow/dineflow/models"
	"github.com/stretchr/testify/assert"
)

func TestClassifyAgingBoundaries(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	thresholds := DefaultThresholds // (5, 20)

	tests := []struct {
		name        string
		elapsed     time.Duration
		wantLevel   string
		wantMinutes int
	}{
		{"zero", 0, AgingFresh, 0},
		{"just under warning", 4*time.Minute + 59*time.Second, AgingFresh, 4},
		{"exactly warning", 5 * time.Minute, AgingWarning, 5},
		{"mid warning", 12 * time.Minute, AgingWarning, 12},
		{"just under critical", 19*time.Minute + 59*time.Second, AgingWarning, 19},
		{"exactly critical", 20 * time.Minute, AgingCritical, 20},
		{"deep critical", 90 * time.Minute, AgingCritical, 90},
		// Clock skew between app servers must never classify below fresh.
		{"negative elapsed", -3 * time.Minute, AgingFresh, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, minutes := ClassifyAging(base, base.Add(tt.elapsed), thresholds)
			assert.Equal(t, tt.wantLevel, level)
			assert.Equal(t, tt.wantMinutes, minutes)
		})
	}
}

func TestClassifyAgingMonotonic(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	thresholds := Thresholds{WarningMinutes: 3, CriticalMinutes: 8}

	rank := map[string]int{AgingFresh: 0, AgingWarning: 1, AgingCritical: 2}

	prev := AgingFresh
	for m := 0; m <= 30; m++ {
		level, _ := ClassifyAging(base, base.Add(time.Duration(m)*time.Minute), thresholds)
		assert.GreaterOrEqual(t, rank[level], rank[prev],
			"aging level regressed at minute %d: %s -> %s", m, prev, level)
		prev = level
	}
}

func TestThresholdsForFallsBackToDefault(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db)
	svc := NewAgingService(db)

	got, err := svc.ThresholdsFor(tenant.ID)
	assert.NoError(t, err)
	assert.Equal(t, DefaultThresholds, got)
}

func TestUpdateThresholdsValidation(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db)
	svc := NewAgingService(db)

	tests := []struct {
		name string
		in   Thresholds
	}{
		{"zero warning", Thresholds{WarningMinutes: 0, CriticalMinutes: 10}},
		{"negative warning", Thresholds{WarningMinutes: -1, CriticalMinutes: 10}},
		{"warning equals critical", Thresholds{WarningMinutes: 10, CriticalMinutes: 10}},
		{"warning above critical", Thresholds{WarningMinutes: 15, CriticalMinutes: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.UpdateThresholds(tenant.ID, tt.in)
			assert.ErrorIs(t, err, ErrInvalidThresholds)
		})
	}
}

func TestUpdateThresholdsUpsert(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db)
	svc := NewAgingService(db)

	assert.NoError(t, svc.UpdateThresholds(tenant.ID, Thresholds{WarningMinutes: 3, CriticalMinutes: 10}))

	got, err := svc.ThresholdsFor(tenant.ID)
	assert.NoError(t, err)
	assert.Equal(t, Thresholds{WarningMinutes: 3, CriticalMinutes: 10}, got)

	// A second update must hit the same deterministic row, not add one.
	assert.NoError(t, svc.UpdateThresholds(tenant.ID, Thresholds{WarningMinutes: 4, CriticalMinutes: 12}))

	var count int64
	db.Model(&models.AgingThreshold{}).Where("tenant_id = ?", tenant.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	got, err = svc.ThresholdsFor(tenant.ID)
	assert.NoError(t, err)
	assert.Equal(t, Thresholds{WarningMinutes: 4, CriticalMinutes: 12}, got)
}

func TestActiveOrdersWithAgingUsesTenantThresholds(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db)
	svc := NewAgingService(db)

	assert.NoError(t, svc.UpdateThresholds(tenant.ID, Thresholds{WarningMinutes: 2, CriticalMinutes: 4}))

	now := time.Now().UTC()
	fresh := seedOrder(t, db, tenant.ID, StatusPending, now.Add(-1*time.Minute))
	warning := seedOrder(t, db, tenant.ID, StatusCooking, now.Add(-3*time.Minute))
	critical := seedOrder(t, db, tenant.ID, StatusReady, now.Add(-10*time.Minute))
	// Terminal orders never age.
	seedOrder(t, db, tenant.ID, StatusCompleted, now.Add(-60*time.Minute))

	annotated, err := svc.ActiveOrdersWithAging(tenant.ID)
	assert.NoError(t, err)
	assert.Len(t, annotated, 3)

	levels := map[string]string{}
	for _, oa := range annotated {
		levels[oa.ID] = oa.CurrentLevel
	}
	assert.Equal(t, AgingFresh, levels[fresh.ID])
	assert.Equal(t, AgingWarning, levels[warning.ID])
	assert.Equal(t, AgingCritical, levels[critical.ID])

	// Oldest first.
	assert.Equal(t, critical.ID, annotated[0].ID)
}

func TestRefreshTenantPersistsChangedLevels(t *testing.T) {
	db := newTestDB(t)
	tenant := seedTenant(t, db)
	svc := NewAgingService(db)

	now := time.Now().UTC()
	order := seedOrder(t, db, tenant.ID, StatusCooking, now.Add(-7*time.Minute))

	changed, err := svc.RefreshTenant(tenant.ID)
	assert.NoError(t, err)
	assert.Len(t, changed, 1)
	assert.Equal(t, AgingWarning, changed[0].AgingLevel)

	var stored models.Order
	assert.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	assert.Equal(t, AgingWarning, stored.AgingLevel)

	// Re-running without movement is a no-op.
	changed, err = svc.RefreshTenant(tenant.ID)
	assert.NoError(t, err)
	assert.Empty(t, changed)
}
