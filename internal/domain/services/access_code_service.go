package services

import (
	"errors"
	"time"

	"iaccess-http-service/internal/domain/models"
	"iaccess-http-service/internal/infrastructure/config"
	"iaccess-http-service/utils"

	"gorm.io/gorm"
)

// Identity 认证层提供的调用者身份
type Identity struct {
	UserID   uint
	Role     string
	TenantID *uint
}

// 调用者角色
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleTenant  = "tenant"
)

// IsPrivileged 管理端角色可以操作任意其管辖楼号的门禁码
func (i Identity) IsPrivileged() bool {
	return i.Role == RoleAdmin || i.Role == RoleManager
}

// ServiceResult 门禁码管理的统一返回，拒绝原因通过Message呈现而不是抛错
type ServiceResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func okResult(message string, data interface{}) *ServiceResult {
	return &ServiceResult{Success: true, Message: message, Data: data}
}

func failResult(message string) *ServiceResult {
	return &ServiceResult{Success: false, Message: message}
}

// CreateAccessCodeDTO 创建门禁码的请求参数
type CreateAccessCodeDTO struct {
	BuildingID  uint
	IntercomID  *uint
	TenantID    *uint
	CodeType    models.AccessCodeType
	Code        string
	Label       string
	IsSingleUse bool
	ValidFrom   *time.Time
	ExpiresAt   *time.Time
	RevealOnce  bool
}

// UpdateAccessCodeDTO 更新门禁码的请求参数，nil字段保持原值
type UpdateAccessCodeDTO struct {
	Code        *string
	Label       *string
	IsSingleUse *bool
	ValidFrom   *time.Time
	ExpiresAt   *time.Time
}

// InterfaceAccessCodeService 定义门禁码管理服务接口
type InterfaceAccessCodeService interface {
	CreateAccessCode(caller Identity, dto *CreateAccessCodeDTO) (*ServiceResult, error)
	UpdateAccessCode(caller Identity, id uint, dto *UpdateAccessCodeDTO) (*ServiceResult, error)
	DeactivateAccessCode(caller Identity, id uint) (*ServiceResult, error)
	GetAccessCodes(caller Identity, buildingID, intercomID *uint, page, pageSize int) ([]models.AccessCode, int64, error)
}

// AccessCodeService 门禁码管理：凭证存储之上的权限策略层
type AccessCodeService struct {
	DB      *gorm.DB
	Config  *config.Config
	Tenancy InterfaceTenancyService
}

// NewAccessCodeService 创建一个新的门禁码管理服务
func NewAccessCodeService(db *gorm.DB, cfg *config.Config, tenancy InterfaceTenancyService) InterfaceAccessCodeService {
	return &AccessCodeService{
		DB:      db,
		Config:  cfg,
		Tenancy: tenancy,
	}
}

// checkBuildingAccess 校验调用者是否可以操作目标楼号
func (s *AccessCodeService) checkBuildingAccess(caller Identity, buildingID uint) (bool, error) {
	if caller.IsPrivileged() {
		return true, nil
	}
	return s.Tenancy.HasAccessToBuilding(caller.UserID, buildingID)
}

// 1. CreateAccessCode 创建门禁码。租户只能为自己的楼号创建，
// 且租户自有码的TenantID必须是自己的
func (s *AccessCodeService) CreateAccessCode(caller Identity, dto *CreateAccessCodeDTO) (*ServiceResult, error) {
	allowed, err := s.checkBuildingAccess(caller, dto.BuildingID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return failResult("无权操作其他楼号的资源"), nil
	}
	if !caller.IsPrivileged() && dto.TenantID != nil {
		if caller.TenantID == nil || *dto.TenantID != *caller.TenantID {
			return failResult("租户只能创建属于自己的门禁码"), nil
		}
	}

	if dto.CodeType != models.AccessCodeTypeQR && dto.CodeType != models.AccessCodeTypePIN {
		return failResult("门禁码类型必须是qr或pin"), nil
	}

	// QR码未提供值时生成随机载荷
	plain := dto.Code
	if plain == "" && dto.CodeType == models.AccessCodeTypeQR {
		plain = utils.RandomAccessCode()
	}
	if dto.CodeType == models.AccessCodeTypePIN && !utils.ValidSecretLength(plain) {
		return failResult("密码长度必须在4到20个字符之间"), nil
	}
	if plain == "" {
		return failResult("门禁码不能为空"), nil
	}
	if dto.ExpiresAt != nil && dto.ValidFrom != nil && !dto.ExpiresAt.After(*dto.ValidFrom) {
		return failResult("失效时间必须晚于生效时间"), nil
	}

	hash, err := utils.HashSecret(plain)
	if err != nil {
		return nil, err
	}

	code := &models.AccessCode{
		BuildingID:  dto.BuildingID,
		IntercomID:  dto.IntercomID,
		TenantID:    dto.TenantID,
		CodeType:    dto.CodeType,
		CodeHash:    hash,
		Label:       dto.Label,
		IsSingleUse: dto.IsSingleUse,
		ValidFrom:   dto.ValidFrom,
		ExpiresAt:   dto.ExpiresAt,
		IsActive:    true,
	}
	if err := s.DB.Create(code).Error; err != nil {
		return nil, err
	}

	// 明文只在创建响应中按需展示一次，不落库
	if dto.RevealOnce {
		code.PlainCode = plain
	}

	return okResult("门禁码创建成功", code), nil
}

// 2. UpdateAccessCode 更新门禁码。只有提供了新码值才重新哈希，
// 其余字段按"有则改之"处理
func (s *AccessCodeService) UpdateAccessCode(caller Identity, id uint, dto *UpdateAccessCodeDTO) (*ServiceResult, error) {
	code, err := s.getCode(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failResult("门禁码不存在"), nil
		}
		return nil, err
	}

	allowed, err := s.checkBuildingAccess(caller, code.BuildingID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return failResult("无权操作其他楼号的资源"), nil
	}

	updates := make(map[string]interface{})
	if dto.Code != nil {
		if code.CodeType == models.AccessCodeTypePIN && !utils.ValidSecretLength(*dto.Code) {
			return failResult("密码长度必须在4到20个字符之间"), nil
		}
		hash, err := utils.HashSecret(*dto.Code)
		if err != nil {
			return nil, err
		}
		updates["code_hash"] = hash
	}
	if dto.Label != nil {
		updates["label"] = *dto.Label
	}
	if dto.IsSingleUse != nil {
		updates["is_single_use"] = *dto.IsSingleUse
	}
	if dto.ValidFrom != nil {
		updates["valid_from"] = *dto.ValidFrom
	}
	if dto.ExpiresAt != nil {
		updates["expires_at"] = *dto.ExpiresAt
	}
	if len(updates) == 0 {
		return okResult("没有需要更新的字段", code), nil
	}

	if err := s.DB.Model(code).Updates(updates).Error; err != nil {
		return nil, err
	}

	updated, err := s.getCode(id)
	if err != nil {
		return nil, err
	}
	return okResult("门禁码更新成功", updated), nil
}

// 3. DeactivateAccessCode 停用门禁码。幂等：重复停用返回同样的成功结果，
// 第二次调用不再产生任何写入
func (s *AccessCodeService) DeactivateAccessCode(caller Identity, id uint) (*ServiceResult, error) {
	code, err := s.getCode(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failResult("门禁码不存在"), nil
		}
		return nil, err
	}

	allowed, err := s.checkBuildingAccess(caller, code.BuildingID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return failResult("无权操作其他楼号的资源"), nil
	}

	if !code.IsActive {
		return okResult("门禁码已停用", code), nil
	}

	if err := s.DB.Model(code).Update("is_active", false).Error; err != nil {
		return nil, err
	}

	return okResult("门禁码已停用", code), nil
}

// 4. GetAccessCodes 按楼号/设备过滤的门禁码分页列表
func (s *AccessCodeService) GetAccessCodes(caller Identity, buildingID, intercomID *uint, page, pageSize int) ([]models.AccessCode, int64, error) {
	query := s.DB.Model(&models.AccessCode{})
	if buildingID != nil {
		query = query.Where("building_id = ?", *buildingID)
	}
	if intercomID != nil {
		query = query.Where("intercom_id = ?", *intercomID)
	}
	// 非管理端只能看到自己租户的码
	if !caller.IsPrivileged() {
		if caller.TenantID == nil {
			return nil, 0, nil
		}
		query = query.Where("tenant_id = ?", *caller.TenantID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var codes []models.AccessCode
	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").Limit(pageSize).Offset(offset).Find(&codes).Error; err != nil {
		return nil, 0, err
	}

	return codes, total, nil
}

func (s *AccessCodeService) getCode(id uint) (*models.AccessCode, error) {
	var code models.AccessCode
	if err := s.DB.First(&code, id).Error; err != nil {
		return nil, err
	}
	return &code, nil
}
