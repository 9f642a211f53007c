package services

import (
	"time"

	"iaccess-http-service/internal/domain/models"
	"iaccess-http-service/internal/infrastructure/config"

	"gorm.io/gorm"
)

// AccessLogFilter 校验尝试的查询过滤条件，nil字段不参与过滤
type AccessLogFilter struct {
	IntercomID     *uint
	BuildingID     *uint
	UserID         *uint
	CredentialType *models.CredentialType
	CredentialRef  *uint
	IsSuccess      *bool
	From           *time.Time
	To             *time.Time
}

// TemporaryPinUsageFilter 临时PIN使用记录的查询过滤条件
type TemporaryPinUsageFilter struct {
	TemporaryPinID *uint
	From           *time.Time
	To             *time.Time
}

// InterfaceAccessLogService 定义审计账本服务接口。
// 只追加、只读查询，不提供任何修改或删除能力
type InterfaceAccessLogService interface {
	GetAccessLogs(filter *AccessLogFilter, page, pageSize int) ([]models.AccessLog, int64, error)
	GetTemporaryPinUsages(filter *TemporaryPinUsageFilter, page, pageSize int) ([]models.TemporaryPinUsage, int64, error)
}

// AccessLogService 审计账本的查询实现，写入由校验引擎在事务内完成
type AccessLogService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAccessLogService 创建一个新的审计账本服务
func NewAccessLogService(db *gorm.DB, cfg *config.Config) InterfaceAccessLogService {
	return &AccessLogService{
		DB:     db,
		Config: cfg,
	}
}

// 1. GetAccessLogs 按过滤条件分页查询校验尝试记录
func (s *AccessLogService) GetAccessLogs(filter *AccessLogFilter, page, pageSize int) ([]models.AccessLog, int64, error) {
	query := s.DB.Model(&models.AccessLog{})

	if filter != nil {
		if filter.IntercomID != nil {
			query = query.Where("intercom_id = ?", *filter.IntercomID)
		}
		if filter.BuildingID != nil {
			query = query.Where("building_id = ?", *filter.BuildingID)
		}
		if filter.UserID != nil {
			query = query.Where("user_id = ?", *filter.UserID)
		}
		if filter.CredentialType != nil {
			query = query.Where("credential_type = ?", *filter.CredentialType)
		}
		if filter.CredentialRef != nil {
			query = query.Where("credential_ref_id = ?", *filter.CredentialRef)
		}
		if filter.IsSuccess != nil {
			query = query.Where("is_success = ?", *filter.IsSuccess)
		}
		if filter.From != nil {
			query = query.Where("timestamp >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("timestamp <= ?", *filter.To)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AccessLog
	offset := (page - 1) * pageSize
	if err := query.Order("timestamp DESC").Limit(pageSize).Offset(offset).Find(&logs).Error; err != nil {
		return nil, 0, err
	}

	return logs, total, nil
}

// 2. GetTemporaryPinUsages 按过滤条件分页查询临时PIN使用记录
func (s *AccessLogService) GetTemporaryPinUsages(filter *TemporaryPinUsageFilter, page, pageSize int) ([]models.TemporaryPinUsage, int64, error) {
	query := s.DB.Model(&models.TemporaryPinUsage{})

	if filter != nil {
		if filter.TemporaryPinID != nil {
			query = query.Where("temporary_pin_id = ?", *filter.TemporaryPinID)
		}
		if filter.From != nil {
			query = query.Where("timestamp >= ?", *filter.From)
		}
		if filter.To != nil {
			query = query.Where("timestamp <= ?", *filter.To)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var usages []models.TemporaryPinUsage
	offset := (page - 1) * pageSize
	if err := query.Order("timestamp DESC").Limit(pageSize).Offset(offset).Find(&usages).Error; err != nil {
		return nil, 0, err
	}

	return usages, total, nil
}
