package services

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"iaccess-http-service/internal/domain/models"
	"iaccess-http-service/internal/infrastructure/config"
	"iaccess-http-service/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetMasterPinSupersedes(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")
	svc := NewCredentialService(db, &config.Config{})

	intercomID := intercom.ID
	first, err := svc.SetMasterPin(building.ID, &intercomID, "1234", nil)
	require.NoError(t, err)

	second, err := svc.SetMasterPin(building.ID, &intercomID, "5678", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	// 旧PIN被停用而不是删除
	var old models.MasterPin
	require.NoError(t, db.First(&old, first.ID).Error)
	assert.False(t, old.IsActive)

	active, err := svc.GetActiveMasterPin(building.ID, &intercomID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.True(t, utils.CheckSecretHash("5678", active.PinHash))

	// 停用只影响同范围：楼栋级范围不受设备级更新波及
	_, err = svc.SetMasterPin(building.ID, nil, "9999", nil)
	require.NoError(t, err)
	active, err = svc.GetActiveMasterPin(building.ID, &intercomID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
}

func TestSetMasterPinConcurrentSingleActive(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")
	svc := NewCredentialService(db, &config.Config{})

	intercomID := intercom.ID
	const attempts = 8

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.SetMasterPin(building.ID, &intercomID, fmt.Sprintf("10%02d", n), nil)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	// 并发签发后同范围只剩一条活动记录，其余全部被停用
	var activeCount, totalCount int64
	require.NoError(t, db.Model(&models.MasterPin{}).
		Where("building_id = ? AND intercom_id = ? AND is_active = ?", building.ID, intercomID, true).
		Count(&activeCount).Error)
	require.NoError(t, db.Model(&models.MasterPin{}).
		Where("building_id = ? AND intercom_id = ?", building.ID, intercomID).
		Count(&totalCount).Error)
	assert.EqualValues(t, 1, activeCount)
	assert.EqualValues(t, attempts, totalCount)
}

func TestSetMasterPinLength(t *testing.T) {
	db := newTestDB(t)
	building, _ := seedIntercom(t, db, "A")
	svc := NewCredentialService(db, &config.Config{})

	_, err := svc.SetMasterPin(building.ID, nil, "123", nil)
	assert.ErrorIs(t, err, ErrSecretLength)

	_, err = svc.SetMasterPin(building.ID, nil, "123456789012345678901", nil)
	assert.ErrorIs(t, err, ErrSecretLength)
}

func TestSetUserPinProof(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")
	svc := NewCredentialService(db, &config.Config{})

	intercomID := intercom.ID
	_, err := svc.SetMasterPin(building.ID, &intercomID, "1234", nil)
	require.NoError(t, err)

	// 首次设置：主PIN作为凭证
	first, err := svc.SetUserPin(7, building.ID, &intercomID, "5678", "1234")
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	// 自助修改：旧PIN作为凭证
	second, err := svc.SetUserPin(7, building.ID, &intercomID, "8765", "5678")
	require.NoError(t, err)

	var old models.UserPin
	require.NoError(t, db.First(&old, first.ID).Error)
	assert.False(t, old.IsActive)

	var active models.UserPin
	require.NoError(t, db.First(&active, second.ID).Error)
	assert.True(t, utils.CheckSecretHash("8765", active.PinHash))

	// 凭证既不是旧PIN也不是主PIN
	_, err = svc.SetUserPin(7, building.ID, &intercomID, "1111", "0000")
	assert.ErrorIs(t, err, ErrProofRejected)

	// 没有主PIN也没有旧PIN的范围无法通过任何凭证
	_, err = svc.SetUserPin(8, building.ID, nil, "2222", "1234")
	assert.ErrorIs(t, err, ErrProofRejected)
}

func TestCreateTemporaryPinValidation(t *testing.T) {
	db := newTestDB(t)
	building, _ := seedIntercom(t, db, "A")
	svc := NewCredentialService(db, &config.Config{})

	_, err := svc.CreateTemporaryPin(building.ID, nil, "9026", time.Now().Add(-time.Minute), 3, nil)
	assert.ErrorIs(t, err, ErrTemporaryPinInvalid)

	_, err = svc.CreateTemporaryPin(building.ID, nil, "9026", time.Now().Add(time.Hour), 0, nil)
	assert.ErrorIs(t, err, ErrTemporaryPinInvalid)

	pin, err := svc.CreateTemporaryPin(building.ID, nil, "9026", time.Now().Add(time.Hour), 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, pin.MaxUses)
	assert.Equal(t, 0, pin.UsesSoFar)
	assert.True(t, pin.IsActive)
}

func TestGetActiveMasterPinScopePreference(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")
	svc := NewCredentialService(db, &config.Config{})

	intercomID := intercom.ID
	buildingWide, err := svc.SetMasterPin(building.ID, nil, "1111", nil)
	require.NoError(t, err)
	exact, err := svc.SetMasterPin(building.ID, &intercomID, "2222", nil)
	require.NoError(t, err)

	// 设备范围下精确记录优先
	active, err := svc.GetActiveMasterPin(building.ID, &intercomID)
	require.NoError(t, err)
	assert.Equal(t, exact.ID, active.ID)

	// 楼栋范围只看楼栋级记录
	active, err = svc.GetActiveMasterPin(building.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, buildingWide.ID, active.ID)

	_, err = svc.GetActiveMasterPin(building.ID+1, nil)
	assert.ErrorIs(t, err, ErrMasterPinNotSet)
}
