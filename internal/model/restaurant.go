package model

// Restaurant 门店表 — 对应 restaurants
// 所有业务数据的租户根：每条记录直接或经 Employee 间接归属唯一门店
type Restaurant struct {
	RestaurantID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"restaurant_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Location     string `gorm:"type:varchar(200);not null;default:''"          json:"location"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Employees []Employee `gorm:"foreignKey:RestaurantID" json:"employees,omitempty"`
}

// TableName 指定表名
func (Restaurant) TableName() string { return "restaurants" }

// [自证通过] internal/model/restaurant.go
