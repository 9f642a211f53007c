package services

import (
	"errors"
	"time"

	"iaccess-http-service/internal/domain/models"
	"iaccess-http-service/internal/infrastructure/config"
	"iaccess-http-service/utils"

	"gorm.io/gorm"
)

// FacePayload 人脸校验载荷：三张底图加设备信息
type FacePayload struct {
	FrontImageBase64 string `json:"front_image_base64"`
	LeftImageBase64  string `json:"left_image_base64"`
	RightImageBase64 string `json:"right_image_base64"`
	DevicePlatform   string `json:"device_platform"`
	DeviceModel      string `json:"device_model"`
}

// Valid 校验三张图像与设备平台信息是否齐全
func (p *FacePayload) Valid() bool {
	return p != nil &&
		p.FrontImageBase64 != "" &&
		p.LeftImageBase64 != "" &&
		p.RightImageBase64 != "" &&
		p.DevicePlatform != ""
}

// FaceComparator 外部人脸比对器。引擎只负责前置校验、调用与记录结果
type FaceComparator interface {
	Compare(payload *FacePayload, buildingID uint) (userID *uint, matched bool, err error)
}

// VerifyResult 一次校验尝试的判定结果。拒绝是正常返回值而不是错误
type VerifyResult struct {
	Granted         bool                  `json:"granted"`
	Reason          string                `json:"reason,omitempty"`
	CredentialType  models.CredentialType `json:"credential_type"`
	CredentialRefID *uint                 `json:"credential_ref_id,omitempty"`
	UserID          *uint                 `json:"user_id,omitempty"`
	Timestamp       time.Time             `json:"timestamp"`
}

// InterfaceVerificationService 定义门禁校验引擎接口
type InterfaceVerificationService interface {
	VerifyPin(intercomID uint, rawPin, clientIP, deviceInfo string) (*VerifyResult, error)
	VerifyFace(intercomID uint, payload *FacePayload, clientIP, deviceInfo string) (*VerifyResult, error)
}

// VerificationService 门禁校验引擎。
// PIN路径按固定优先级匹配凭证：临时PIN > 门禁码(PIN) > 用户PIN > 主PIN，
// 精确设备范围优先于楼号范围；首个结构匹配即定胜负，与创建顺序无关。
// 每次尝试不论通过与否都在同一事务内写入一条AccessLog。
type VerificationService struct {
	DB         *gorm.DB
	Config     *config.Config
	Comparator FaceComparator
}

// NewVerificationService 创建一个新的校验引擎
func NewVerificationService(db *gorm.DB, cfg *config.Config, comparator FaceComparator) InterfaceVerificationService {
	return &VerificationService{
		DB:         db,
		Config:     cfg,
		Comparator: comparator,
	}
}

// scopeOrder 范围查询：楼号内覆盖目标设备的所有凭证，精确设备范围排前
func scopeOrder(tx *gorm.DB, buildingID, intercomID uint) *gorm.DB {
	return tx.Where("building_id = ? AND (intercom_id = ? OR intercom_id IS NULL)", buildingID, intercomID).
		Order("intercom_id IS NULL")
}

// 1. VerifyPin 校验PIN。目标设备不存在或存储失败作为硬错误上抛，
// 其余一律落为带原因的判定结果
func (s *VerificationService) VerifyPin(intercomID uint, rawPin, clientIP, deviceInfo string) (*VerifyResult, error) {
	var intercom models.Intercom
	if err := s.DB.First(&intercom, intercomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntercomNotFound
		}
		return nil, err
	}

	result := &VerifyResult{
		CredentialType: models.CredentialTypeNone,
		Timestamp:      time.Now().UTC(),
	}

	// 消耗类副作用（次数递增、单次码停用）与审计写入必须同事务落库
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.matchPin(tx, &intercom, rawPin, clientIP, deviceInfo, result); err != nil {
			return err
		}
		return s.recordAttempt(tx, &intercom, clientIP, deviceInfo, result)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// matchPin 按固定优先级匹配凭证并填充判定结果
func (s *VerificationService) matchPin(tx *gorm.DB, intercom *models.Intercom, rawPin, clientIP, deviceInfo string, result *VerifyResult) error {
	now := result.Timestamp

	// 优先级1：临时PIN
	var temps []models.TemporaryPin
	if err := scopeOrder(tx.Where("is_active = ?", true), intercom.BuildingID, intercom.ID).Find(&temps).Error; err != nil {
		return err
	}
	for i := range temps {
		t := &temps[i]
		if !utils.CheckSecretHash(rawPin, t.PinHash) {
			continue
		}
		result.CredentialType = models.CredentialTypeTemporary
		result.CredentialRefID = &t.ID

		if t.IsExpired(now) {
			result.Reason = models.ReasonExpired
			return nil
		}
		// 条件更新保证并发下最后一次使用只有一个赢家
		res := tx.Model(&models.TemporaryPin{}).
			Where("id = ? AND uses_so_far < max_uses", t.ID).
			UpdateColumn("uses_so_far", gorm.Expr("uses_so_far + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			result.Reason = models.ReasonMaxUsesReached
			return nil
		}
		usage := &models.TemporaryPinUsage{
			TemporaryPinID: t.ID,
			ClientIP:       clientIP,
			DeviceInfo:     deviceInfo,
			Timestamp:      now,
		}
		if err := tx.Create(usage).Error; err != nil {
			return err
		}
		result.Granted = true
		return nil
	}

	// 优先级2：PIN形式的门禁码
	var codes []models.AccessCode
	if err := scopeOrder(tx.Where("is_active = ? AND code_type = ?", true, models.AccessCodeTypePIN), intercom.BuildingID, intercom.ID).Find(&codes).Error; err != nil {
		return err
	}
	for i := range codes {
		c := &codes[i]
		if !utils.CheckSecretHash(rawPin, c.CodeHash) {
			continue
		}
		result.CredentialType = models.CredentialTypeAccessCode
		result.CredentialRefID = &c.ID

		if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
			result.Reason = models.ReasonNotYetValid
			return nil
		}
		if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
			result.Reason = models.ReasonExpired
			return nil
		}
		if c.IsSingleUse {
			// 首次通过即永久停用；条件更新在并发下只放行一个
			res := tx.Model(&models.AccessCode{}).
				Where("id = ? AND is_active = ?", c.ID, true).
				Update("is_active", false)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				result.Reason = models.ReasonCodeInactive
				return nil
			}
		}
		result.Granted = true
		if c.TenantID != nil {
			// 租户自有码将所属记入审计
			var tenant models.Tenant
			if err := tx.First(&tenant, *c.TenantID).Error; err == nil {
				result.UserID = &tenant.UserID
			}
		}
		return nil
	}

	// 优先级3：用户PIN
	var userPins []models.UserPin
	if err := scopeOrder(tx.Where("is_active = ?", true), intercom.BuildingID, intercom.ID).Find(&userPins).Error; err != nil {
		return err
	}
	for i := range userPins {
		p := &userPins[i]
		if !utils.CheckSecretHash(rawPin, p.PinHash) {
			continue
		}
		result.CredentialType = models.CredentialTypeUser
		result.CredentialRefID = &p.ID
		result.UserID = &p.UserID
		result.Granted = true
		return nil
	}

	// 优先级4：主PIN
	var masters []models.MasterPin
	if err := scopeOrder(tx.Where("is_active = ?", true), intercom.BuildingID, intercom.ID).Find(&masters).Error; err != nil {
		return err
	}
	for i := range masters {
		m := &masters[i]
		if !utils.CheckSecretHash(rawPin, m.PinHash) {
			continue
		}
		result.CredentialType = models.CredentialTypeMaster
		result.CredentialRefID = &m.ID
		result.Granted = true
		return nil
	}

	// 无任何结构匹配
	result.Reason = models.ReasonInvalidCredential
	return nil
}

// 2. VerifyFace 人脸路径。三张图像与设备平台信息为前置条件，
// 缺失时直接作为参数错误返回，不产生校验尝试记录；
// 比对本身委托给外部比对器，引擎只记录结果
func (s *VerificationService) VerifyFace(intercomID uint, payload *FacePayload, clientIP, deviceInfo string) (*VerifyResult, error) {
	if !payload.Valid() {
		return nil, ErrFacePayloadInvalid
	}
	if s.Comparator == nil {
		return nil, ErrFaceComparatorUnavailable
	}

	var intercom models.Intercom
	if err := s.DB.First(&intercom, intercomID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIntercomNotFound
		}
		return nil, err
	}

	userID, matched, err := s.Comparator.Compare(payload, intercom.BuildingID)
	if err != nil {
		return nil, err
	}

	result := &VerifyResult{
		CredentialType: models.CredentialTypeFace,
		Timestamp:      time.Now().UTC(),
	}
	if matched {
		result.Granted = true
		result.UserID = userID
	} else {
		result.Reason = models.ReasonFaceNotRecognized
	}

	if err := s.DB.Transaction(func(tx *gorm.DB) error {
		return s.recordAttempt(tx, &intercom, clientIP, deviceInfo, result)
	}); err != nil {
		return nil, err
	}

	return result, nil
}

// recordAttempt 为一次尝试写入唯一一条审计记录
func (s *VerificationService) recordAttempt(tx *gorm.DB, intercom *models.Intercom, clientIP, deviceInfo string, result *VerifyResult) error {
	entry := &models.AccessLog{
		IntercomID:      intercom.ID,
		BuildingID:      intercom.BuildingID,
		UserID:          result.UserID,
		CredentialType:  result.CredentialType,
		CredentialRefID: result.CredentialRefID,
		IsSuccess:       result.Granted,
		Reason:          result.Reason,
		ClientIP:        clientIP,
		DeviceInfo:      deviceInfo,
		Timestamp:       result.Timestamp,
	}
	return tx.Create(entry).Error
}
