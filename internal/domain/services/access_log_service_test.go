package services

import (
	"testing"
	"time"

	"iaccess-http-service/internal/domain/models"
	"iaccess-http-service/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAccessLogs(t *testing.T, db *gorm.DB, intercom *models.Intercom) {
	t.Helper()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	userID := uint(7)
	entries := []models.AccessLog{
		{IntercomID: intercom.ID, BuildingID: intercom.BuildingID, CredentialType: models.CredentialTypeMaster, IsSuccess: true, ClientIP: "10.0.0.1", Timestamp: base},
		{IntercomID: intercom.ID, BuildingID: intercom.BuildingID, UserID: &userID, CredentialType: models.CredentialTypeUser, IsSuccess: true, ClientIP: "10.0.0.2", Timestamp: base.Add(time.Minute)},
		{IntercomID: intercom.ID, BuildingID: intercom.BuildingID, CredentialType: models.CredentialTypeNone, IsSuccess: false, Reason: models.ReasonInvalidCredential, ClientIP: "10.0.0.3", Timestamp: base.Add(2 * time.Minute)},
	}
	for i := range entries {
		require.NoError(t, db.Create(&entries[i]).Error)
	}
}

func TestGetAccessLogsFilters(t *testing.T) {
	db := newTestDB(t)
	_, intercom := seedIntercom(t, db, "A")
	_, other := seedIntercom(t, db, "B")
	seedAccessLogs(t, db, intercom)

	svc := NewAccessLogService(db, &config.Config{})

	// 设备过滤
	intercomID := intercom.ID
	logs, total, err := svc.GetAccessLogs(&AccessLogFilter{IntercomID: &intercomID}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, logs, 3)
	// 最新的排前面
	assert.False(t, logs[0].IsSuccess)

	otherID := other.ID
	_, total, err = svc.GetAccessLogs(&AccessLogFilter{IntercomID: &otherID}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	// 结果过滤
	failed := false
	logs, total, err = svc.GetAccessLogs(&AccessLogFilter{IntercomID: &intercomID, IsSuccess: &failed}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, models.ReasonInvalidCredential, logs[0].Reason)

	// 用户过滤
	userID := uint(7)
	logs, total, err = svc.GetAccessLogs(&AccessLogFilter{UserID: &userID}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, models.CredentialTypeUser, logs[0].CredentialType)

	// 时间区间过滤
	from := time.Date(2026, 3, 1, 12, 1, 30, 0, time.UTC)
	_, total, err = svc.GetAccessLogs(&AccessLogFilter{IntercomID: &intercomID, From: &from}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	// 分页
	logs, total, err = svc.GetAccessLogs(&AccessLogFilter{IntercomID: &intercomID}, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, logs, 1)
}

func TestGetTemporaryPinUsagesFilters(t *testing.T) {
	db := newTestDB(t)
	building, _ := seedIntercom(t, db, "A")

	pin := &models.TemporaryPin{
		BuildingID: building.ID,
		PinHash:    mustHash(t, "9026"),
		ExpiresAt:  time.Now().Add(time.Hour),
		MaxUses:    5,
		IsActive:   true,
	}
	require.NoError(t, db.Create(pin).Error)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.TemporaryPinUsage{
			TemporaryPinID: pin.ID,
			ClientIP:       "10.0.0.1",
			Timestamp:      base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	svc := NewAccessLogService(db, &config.Config{})

	usages, total, err := svc.GetTemporaryPinUsages(&TemporaryPinUsageFilter{TemporaryPinID: &pin.ID}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, usages, 3)

	to := base.Add(30 * time.Second)
	_, total, err = svc.GetTemporaryPinUsages(&TemporaryPinUsageFilter{TemporaryPinID: &pin.ID, To: &to}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	unknown := uint(9999)
	_, total, err = svc.GetTemporaryPinUsages(&TemporaryPinUsageFilter{TemporaryPinID: &unknown}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
