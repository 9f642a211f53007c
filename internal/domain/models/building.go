package models

// Building 表示楼号信息
type Building struct {
	BaseModel
	BuildingName string `gorm:"type:varchar(50);not null" json:"building_name"`        // 楼号名称，如"1号楼"
	BuildingCode string `gorm:"type:varchar(20);unique;not null" json:"building_code"` // 楼号编码，如"B001"
	Address      string `gorm:"type:varchar(200)" json:"address"`                      // 楼号地址
	Status       string `gorm:"type:varchar(20);default:'active'" json:"status"`       // 状态：active, inactive

	// 关联关系
	Intercoms []Intercom `gorm:"foreignKey:BuildingID" json:"intercoms,omitempty"` // 楼号下的门禁设备（一对多）
	Tenants   []Tenant   `gorm:"foreignKey:BuildingID" json:"tenants,omitempty"`   // 楼号下的租户（一对多）
}
