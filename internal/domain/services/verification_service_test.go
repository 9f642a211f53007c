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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 创建内存数据库并迁移全部模型。
// 单连接串行化事务，条件更新语义与MySQL一致
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Building{},
		&models.Intercom{},
		&models.Tenant{},
		&models.MasterPin{},
		&models.UserPin{},
		&models.TemporaryPin{},
		&models.AccessCode{},
		&models.AccessLog{},
		&models.TemporaryPinUsage{},
	))
	return db
}

// seedIntercom 创建一个楼号与其下的一台设备
func seedIntercom(t *testing.T, db *gorm.DB, buildingCode string) (*models.Building, *models.Intercom) {
	t.Helper()

	building := &models.Building{BuildingName: buildingCode + "号楼", BuildingCode: buildingCode}
	require.NoError(t, db.Create(building).Error)

	intercom := &models.Intercom{
		SerialNumber: "SN-" + buildingCode,
		Name:         buildingCode + "栋大门",
		BuildingID:   building.ID,
		Status:       models.IntercomStatusOnline,
	}
	require.NoError(t, db.Create(intercom).Error)
	return building, intercom
}

func mustHash(t *testing.T, secret string) string {
	t.Helper()
	hash, err := utils.HashSecret(secret)
	require.NoError(t, err)
	return hash
}

func newVerifier(db *gorm.DB) InterfaceVerificationService {
	return NewVerificationService(db, &config.Config{}, nil)
}

func TestVerifyPinMasterScopes(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")
	_, other := seedIntercom(t, db, "B")

	intercomID := intercom.ID
	require.NoError(t, db.Create(&models.MasterPin{
		BuildingID: building.ID,
		IntercomID: &intercomID,
		PinHash:    mustHash(t, "1234"),
		IsActive:   true,
	}).Error)

	svc := newVerifier(db)

	result, err := svc.VerifyPin(intercom.ID, "1234", "10.0.0.1", "gate")
	require.NoError(t, err)
	assert.True(t, result.Granted)
	assert.Equal(t, models.CredentialTypeMaster, result.CredentialType)

	// 其他设备不在该主PIN的作用范围内
	result, err = svc.VerifyPin(other.ID, "1234", "10.0.0.1", "gate")
	require.NoError(t, err)
	assert.False(t, result.Granted)
	assert.Equal(t, models.ReasonInvalidCredential, result.Reason)
	assert.Equal(t, models.CredentialTypeNone, result.CredentialType)
}

func TestVerifyPinBuildingWideMaster(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")

	// 楼栋级主PIN，intercom_id为空
	require.NoError(t, db.Create(&models.MasterPin{
		BuildingID: building.ID,
		PinHash:    mustHash(t, "4321"),
		IsActive:   true,
	}).Error)

	result, err := newVerifier(db).VerifyPin(intercom.ID, "4321", "10.0.0.1", "gate")
	require.NoError(t, err)
	assert.True(t, result.Granted)
	assert.Equal(t, models.CredentialTypeMaster, result.CredentialType)
}

func TestVerifyPinPrecedence(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")

	hash := mustHash(t, "7788")

	// 同一个码值同时是主PIN、用户PIN、门禁码与临时PIN
	require.NoError(t, db.Create(&models.MasterPin{
		BuildingID: building.ID, PinHash: hash, IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.UserPin{
		UserID: 7, BuildingID: building.ID, PinHash: hash, IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&models.AccessCode{
		BuildingID: building.ID, CodeType: models.AccessCodeTypePIN,
		CodeHash: hash, IsActive: true,
	}).Error)
	temp := &models.TemporaryPin{
		BuildingID: building.ID, PinHash: hash,
		ExpiresAt: time.Now().Add(time.Hour), MaxUses: 5, IsActive: true,
	}
	require.NoError(t, db.Create(temp).Error)

	result, err := newVerifier(db).VerifyPin(intercom.ID, "7788", "10.0.0.1", "gate")
	require.NoError(t, err)
	assert.True(t, result.Granted)
	assert.Equal(t, models.CredentialTypeTemporary, result.CredentialType)
	require.NotNil(t, result.CredentialRefID)
	assert.Equal(t, temp.ID, *result.CredentialRefID)
}

func TestVerifyPinExactScopeBeforeBuildingWide(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")

	hash := mustHash(t, "2468")
	intercomID := intercom.ID

	buildingWide := &models.MasterPin{BuildingID: building.ID, PinHash: hash, IsActive: true}
	require.NoError(t, db.Create(buildingWide).Error)
	exact := &models.MasterPin{BuildingID: building.ID, IntercomID: &intercomID, PinHash: hash, IsActive: true}
	require.NoError(t, db.Create(exact).Error)

	result, err := newVerifier(db).VerifyPin(intercom.ID, "2468", "10.0.0.1", "gate")
	require.NoError(t, err)
	assert.True(t, result.Granted)
	require.NotNil(t, result.CredentialRefID)
	assert.Equal(t, exact.ID, *result.CredentialRefID)
}

func TestVerifyPinTemporaryLifecycle(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")

	require.NoError(t, db.Create(&models.TemporaryPin{
		BuildingID: building.ID,
		PinHash:    mustHash(t, "9026"),
		ExpiresAt:  time.Now().Add(time.Hour),
		MaxUses:    2,
		IsActive:   true,
	}).Error)

	svc := newVerifier(db)

	for i := 0; i < 2; i++ {
		result, err := svc.VerifyPin(intercom.ID, "9026", "10.0.0.1", "gate")
		require.NoError(t, err)
		assert.True(t, result.Granted, "第%d次使用应放行", i+1)
	}

	// 次数耗尽
	result, err := svc.VerifyPin(intercom.ID, "9026", "10.0.0.1", "gate")
	require.NoError(t, err)
	assert.False(t, result.Granted)
	assert.Equal(t, models.ReasonMaxUsesReached, result.Reason)
	assert.Equal(t, models.CredentialTypeTemporary, result.CredentialType)

	// 账本：三次尝试三条访问日志，两次放行两条使用记录
	var logCount, usageCount int64
	require.NoError(t, db.Model(&models.AccessLog{}).Count(&logCount).Error)
	require.NoError(t, db.Model(&models.TemporaryPinUsage{}).Count(&usageCount).Error)
	assert.EqualValues(t, 3, logCount)
	assert.EqualValues(t, 2, usageCount)
}

func TestVerifyPinTemporaryExpired(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")

	require.NoError(t, db.Create(&models.TemporaryPin{
		BuildingID: building.ID,
		PinHash:    mustHash(t, "9026"),
		ExpiresAt:  time.Now().Add(-time.Minute),
		MaxUses:    5,
		IsActive:   true,
	}).Error)

	result, err := newVerifier(db).VerifyPin(intercom.ID, "9026", "10.0.0.1", "gate")
	require.NoError(t, err)
	assert.False(t, result.Granted)
	assert.Equal(t, models.ReasonExpired, result.Reason)

	// 过期拒绝不产生使用记录
	var usageCount int64
	require.NoError(t, db.Model(&models.TemporaryPinUsage{}).Count(&usageCount).Error)
	assert.EqualValues(t, 0, usageCount)
}

func TestVerifyPinLastUseSingleWinner(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")

	require.NoError(t, db.Create(&models.TemporaryPin{
		BuildingID: building.ID,
		PinHash:    mustHash(t, "5151"),
		ExpiresAt:  time.Now().Add(time.Hour),
		MaxUses:    1,
		IsActive:   true,
	}).Error)

	svc := newVerifier(db)
	const attempts = 8

	var wg sync.WaitGroup
	granted := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			result, err := svc.VerifyPin(intercom.ID, "5151", fmt.Sprintf("10.0.0.%d", n), "gate")
			if err == nil && result.Granted {
				granted <- true
			}
		}(i)
	}
	wg.Wait()
	close(granted)

	assert.Equal(t, 1, len(granted), "最后一次使用只能有一个赢家")

	var usageCount int64
	require.NoError(t, db.Model(&models.TemporaryPinUsage{}).Count(&usageCount).Error)
	assert.EqualValues(t, 1, usageCount)
}

func TestVerifyPinSingleUseAccessCode(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")
	_, sibling := seedIntercom(t, db, "C")
	sibling.BuildingID = building.ID
	require.NoError(t, db.Save(sibling).Error)

	code := &models.AccessCode{
		BuildingID:  building.ID,
		CodeType:    models.AccessCodeTypePIN,
		CodeHash:    mustHash(t, "ABCD"),
		IsSingleUse: true,
		IsActive:    true,
	}
	require.NoError(t, db.Create(code).Error)

	svc := newVerifier(db)

	// 楼栋级门禁码对楼内任意设备有效
	result, err := svc.VerifyPin(sibling.ID, "ABCD", "10.0.0.1", "gate")
	require.NoError(t, err)
	assert.True(t, result.Granted)
	assert.Equal(t, models.CredentialTypeAccessCode, result.CredentialType)

	// 单次码首次通过即停用
	result, err = svc.VerifyPin(intercom.ID, "ABCD", "10.0.0.1", "gate")
	require.NoError(t, err)
	assert.False(t, result.Granted)
}

func TestVerifyPinSingleUseCodeSingleWinner(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")

	code := &models.AccessCode{
		BuildingID:  building.ID,
		CodeType:    models.AccessCodeTypePIN,
		CodeHash:    mustHash(t, "EFGH"),
		IsSingleUse: true,
		IsActive:    true,
	}
	require.NoError(t, db.Create(code).Error)

	svc := newVerifier(db)
	const attempts = 8

	var wg sync.WaitGroup
	granted := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			result, err := svc.VerifyPin(intercom.ID, "EFGH", fmt.Sprintf("10.0.0.%d", n), "gate")
			if err == nil && result.Granted {
				granted <- true
			}
		}(i)
	}
	wg.Wait()
	close(granted)

	assert.Equal(t, 1, len(granted), "单次码并发使用只能有一个赢家")

	// 赢家定出后码被永久停用
	var stored models.AccessCode
	require.NoError(t, db.First(&stored, code.ID).Error)
	assert.False(t, stored.IsActive)

	var successCount int64
	require.NoError(t, db.Model(&models.AccessLog{}).Where("is_success = ?", true).Count(&successCount).Error)
	assert.EqualValues(t, 1, successCount)
}

func TestVerifyPinAccessCodeWindow(t *testing.T) {
	db := newTestDB(t)
	building, intercom := seedIntercom(t, db, "A")

	future := time.Now().Add(time.Hour)
	require.NoError(t, db.Create(&models.AccessCode{
		BuildingID: building.ID,
		CodeType:   models.AccessCodeTypePIN,
		CodeHash:   mustHash(t, "WXYZ"),
		ValidFrom:  &future,
		IsActive:   true,
	}).Error)

	result, err := newVerifier(db).VerifyPin(intercom.ID, "WXYZ", "10.0.0.1", "gate")
	require.NoError(t, err)
	assert.False(t, result.Granted)
	assert.Equal(t, models.ReasonNotYetValid, result.Reason)
}

func TestVerifyPinUnknownIntercom(t *testing.T) {
	db := newTestDB(t)

	_, err := newVerifier(db).VerifyPin(999, "1234", "10.0.0.1", "gate")
	assert.ErrorIs(t, err, ErrIntercomNotFound)

	// 硬错误不产生审计记录
	var logCount int64
	require.NoError(t, db.Model(&models.AccessLog{}).Count(&logCount).Error)
	assert.EqualValues(t, 0, logCount)
}

func TestVerifyPinDenialWritesLog(t *testing.T) {
	db := newTestDB(t)
	_, intercom := seedIntercom(t, db, "A")

	result, err := newVerifier(db).VerifyPin(intercom.ID, "0000", "10.0.0.9", "gate")
	require.NoError(t, err)
	assert.False(t, result.Granted)

	var entry models.AccessLog
	require.NoError(t, db.First(&entry).Error)
	assert.False(t, entry.IsSuccess)
	assert.Equal(t, models.ReasonInvalidCredential, entry.Reason)
	assert.Equal(t, models.CredentialTypeNone, entry.CredentialType)
	assert.Equal(t, "10.0.0.9", entry.ClientIP)
}

// 测试用人脸比对器
type stubComparator struct {
	userID  *uint
	matched bool
	err     error
}

func (s *stubComparator) Compare(payload *FacePayload, buildingID uint) (*uint, bool, error) {
	return s.userID, s.matched, s.err
}

func validFacePayload() *FacePayload {
	return &FacePayload{
		FrontImageBase64: "front",
		LeftImageBase64:  "left",
		RightImageBase64: "right",
		DevicePlatform:   "android",
	}
}

func TestVerifyFacePreconditions(t *testing.T) {
	db := newTestDB(t)
	_, intercom := seedIntercom(t, db, "A")

	svc := NewVerificationService(db, &config.Config{}, &stubComparator{matched: true})

	payload := validFacePayload()
	payload.LeftImageBase64 = ""
	_, err := svc.VerifyFace(intercom.ID, payload, "10.0.0.1", "cam")
	assert.ErrorIs(t, err, ErrFacePayloadInvalid)

	// 前置校验失败不写审计
	var logCount int64
	require.NoError(t, db.Model(&models.AccessLog{}).Count(&logCount).Error)
	assert.EqualValues(t, 0, logCount)

	// 未配置比对器
	svc = NewVerificationService(db, &config.Config{}, nil)
	_, err = svc.VerifyFace(intercom.ID, validFacePayload(), "10.0.0.1", "cam")
	assert.ErrorIs(t, err, ErrFaceComparatorUnavailable)
}

func TestVerifyFaceDecisions(t *testing.T) {
	db := newTestDB(t)
	_, intercom := seedIntercom(t, db, "A")

	userID := uint(42)
	svc := NewVerificationService(db, &config.Config{}, &stubComparator{userID: &userID, matched: true})

	result, err := svc.VerifyFace(intercom.ID, validFacePayload(), "10.0.0.1", "cam")
	require.NoError(t, err)
	assert.True(t, result.Granted)
	assert.Equal(t, models.CredentialTypeFace, result.CredentialType)
	require.NotNil(t, result.UserID)
	assert.Equal(t, userID, *result.UserID)

	svc = NewVerificationService(db, &config.Config{}, &stubComparator{matched: false})
	result, err = svc.VerifyFace(intercom.ID, validFacePayload(), "10.0.0.1", "cam")
	require.NoError(t, err)
	assert.False(t, result.Granted)
	assert.Equal(t, models.ReasonFaceNotRecognized, result.Reason)

	var logCount int64
	require.NoError(t, db.Model(&models.AccessLog{}).Count(&logCount).Error)
	assert.EqualValues(t, 2, logCount)
}
