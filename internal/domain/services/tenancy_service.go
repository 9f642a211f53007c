package services

import (
	"iaccess-http-service/internal/domain/models"

	"gorm.io/gorm"
)

// InterfaceTenancyService 租户归属校验，由租务层提供实现
type InterfaceTenancyService interface {
	HasAccessToBuilding(userID, buildingID uint) (bool, error)
}

// TenancyService 基于租户记录的归属校验实现
type TenancyService struct {
	DB *gorm.DB
}

// NewTenancyService 创建一个新的租户归属校验服务
func NewTenancyService(db *gorm.DB) InterfaceTenancyService {
	return &TenancyService{DB: db}
}

// HasAccessToBuilding 用户在目标楼号下存在活动租户记录即视为有权访问
func (s *TenancyService) HasAccessToBuilding(userID, buildingID uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Tenant{}).
		Where("user_id = ? AND building_id = ? AND status = ?", userID, buildingID, "active").
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
