package models

// Tenant 表示租户信息，用户通过租户记录与楼号建立归属关系
type Tenant struct {
	BaseModel
	UserID     uint   `gorm:"not null;index" json:"user_id"`                   // 所属用户ID（由认证层签发）
	BuildingID uint   `gorm:"not null;index" json:"building_id"`               // 所属楼号ID
	Name       string `gorm:"type:varchar(50)" json:"name"`                    // 租户名称
	UnitNumber string `gorm:"type:varchar(20)" json:"unit_number"`             // 单元号
	Status     string `gorm:"type:varchar(20);default:'active'" json:"status"` // 状态：active, inactive

	// 关联关系
	Building *Building `gorm:"foreignKey:BuildingID" json:"building,omitempty"`
}
