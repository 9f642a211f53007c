package services

import (
	"errors"
	"sync"
	"time"

	"iaccess-http-service/internal/domain/models"
	"iaccess-http-service/internal/infrastructure/config"
	"iaccess-http-service/utils"

	"gorm.io/gorm"
)

// InterfaceCredentialService 定义凭证存储服务接口
type InterfaceCredentialService interface {
	SetMasterPin(buildingID uint, intercomID *uint, rawPin string, createdBy *uint) (*models.MasterPin, error)
	SetUserPin(userID uint, buildingID uint, intercomID *uint, rawPin, proof string) (*models.UserPin, error)
	CreateTemporaryPin(buildingID uint, intercomID *uint, rawPin string, expiresAt time.Time, maxUses int, createdBy *uint) (*models.TemporaryPin, error)
	GetActiveMasterPin(buildingID uint, intercomID *uint) (*models.MasterPin, error)
	GetIntercomByID(id uint) (*models.Intercom, error)
}

// CredentialService 提供门禁凭证的签发与变更。
// 签发串行执行，停用旧PIN与写入新PIN之间不会插入并发签发，
// 保证同范围最多一条活动记录
type CredentialService struct {
	DB     *gorm.DB
	Config *config.Config

	issueMu sync.Mutex
}

// NewCredentialService 创建一个新的凭证存储服务
func NewCredentialService(db *gorm.DB, cfg *config.Config) InterfaceCredentialService {
	return &CredentialService{
		DB:     db,
		Config: cfg,
	}
}

// GetIntercomByID 根据ID获取门禁设备
func (s *CredentialService) GetIntercomByID(id uint) (*models.Intercom, error) {
	var intercom models.Intercom
	if err := s.DB.First(&intercom, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntercomNotFound
		}
		return nil, err
	}
	return &intercom, nil
}

// scopeQuery 构造精确范围查询条件（楼号+可选设备）
func scopeQuery(tx *gorm.DB, buildingID uint, intercomID *uint) *gorm.DB {
	if intercomID != nil {
		return tx.Where("building_id = ? AND intercom_id = ?", buildingID, *intercomID)
	}
	return tx.Where("building_id = ? AND intercom_id IS NULL", buildingID)
}

// 1. SetMasterPin 设置范围主PIN。旧的主PIN被停用而不是删除，保证审计链完整
func (s *CredentialService) SetMasterPin(buildingID uint, intercomID *uint, rawPin string, createdBy *uint) (*models.MasterPin, error) {
	if !utils.ValidSecretLength(rawPin) {
		return nil, ErrSecretLength
	}

	hash, err := utils.HashSecret(rawPin)
	if err != nil {
		return nil, err
	}

	pin := &models.MasterPin{
		BuildingID: buildingID,
		IntercomID: intercomID,
		PinHash:    hash,
		IsActive:   true,
		CreatedBy:  createdBy,
	}

	s.issueMu.Lock()
	defer s.issueMu.Unlock()

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// 停用同范围的现有主PIN
		if err := scopeQuery(tx.Model(&models.MasterPin{}), buildingID, intercomID).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(pin).Error
	})
	if err != nil {
		return nil, err
	}

	return pin, nil
}

// 2. SetUserPin 设置用户个人PIN。proof 必须是该用户当前PIN（自助修改）
// 或该范围当前主PIN（管理员重置），两者都不匹配则拒绝
func (s *CredentialService) SetUserPin(userID uint, buildingID uint, intercomID *uint, rawPin, proof string) (*models.UserPin, error) {
	if !utils.ValidSecretLength(rawPin) {
		return nil, ErrSecretLength
	}

	// 查找该用户在范围内的现有PIN
	var existing models.UserPin
	hasExisting := true
	if err := scopeQuery(s.DB, buildingID, intercomID).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		hasExisting = false
	}

	// 校验凭证：旧PIN或主PIN
	proofOK := false
	if hasExisting && utils.CheckSecretHash(proof, existing.PinHash) {
		proofOK = true
	}
	if !proofOK {
		master, err := s.GetActiveMasterPin(buildingID, intercomID)
		if err != nil && !errors.Is(err, ErrMasterPinNotSet) {
			return nil, err
		}
		if master != nil && utils.CheckSecretHash(proof, master.PinHash) {
			proofOK = true
		}
	}
	if !proofOK {
		return nil, ErrProofRejected
	}

	hash, err := utils.HashSecret(rawPin)
	if err != nil {
		return nil, err
	}

	pin := &models.UserPin{
		UserID:     userID,
		BuildingID: buildingID,
		IntercomID: intercomID,
		PinHash:    hash,
		IsActive:   true,
	}

	s.issueMu.Lock()
	defer s.issueMu.Unlock()

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		// 停用旧PIN，保证 (用户, 范围) 最多一条活动记录
		if err := scopeQuery(tx.Model(&models.UserPin{}), buildingID, intercomID).
			Where("user_id = ? AND is_active = ?", userID, true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Create(pin).Error
	})
	if err != nil {
		return nil, err
	}

	return pin, nil
}

// 3. CreateTemporaryPin 创建限时限次的临时PIN
func (s *CredentialService) CreateTemporaryPin(buildingID uint, intercomID *uint, rawPin string, expiresAt time.Time, maxUses int, createdBy *uint) (*models.TemporaryPin, error) {
	if !utils.ValidSecretLength(rawPin) {
		return nil, ErrSecretLength
	}
	if maxUses <= 0 || !expiresAt.After(time.Now()) {
		return nil, ErrTemporaryPinInvalid
	}

	hash, err := utils.HashSecret(rawPin)
	if err != nil {
		return nil, err
	}

	pin := &models.TemporaryPin{
		BuildingID: buildingID,
		IntercomID: intercomID,
		PinHash:    hash,
		ExpiresAt:  expiresAt.UTC(),
		MaxUses:    maxUses,
		UsesSoFar:  0,
		IsActive:   true,
		CreatedBy:  createdBy,
	}

	if err := s.DB.Create(pin).Error; err != nil {
		return nil, err
	}

	return pin, nil
}

// 4. GetActiveMasterPin 查找范围内当前活动的主PIN，
// 精确设备范围优先于楼号范围
func (s *CredentialService) GetActiveMasterPin(buildingID uint, intercomID *uint) (*models.MasterPin, error) {
	var pins []models.MasterPin
	query := s.DB.Where("building_id = ? AND is_active = ?", buildingID, true)
	if intercomID != nil {
		query = query.Where("intercom_id = ? OR intercom_id IS NULL", *intercomID)
	} else {
		query = query.Where("intercom_id IS NULL")
	}
	if err := query.Order("intercom_id IS NULL").Find(&pins).Error; err != nil {
		return nil, err
	}
	if len(pins) == 0 {
		return nil, ErrMasterPinNotSet
	}
	return &pins[0], nil
}
