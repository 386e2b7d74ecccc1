package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// 打卡事件状态
const (
	ClockStatusClockedIn  = "clocked_in"
	ClockStatusOnBreak    = "on_break"
	ClockStatusClockedOut = "clocked_out"
)

// 工时汇总状态
const (
	SummaryOnTime      = "on_time"
	SummaryOvertime    = "overtime"
	SummaryUndertime   = "undertime"
	SummaryUnscheduled = "unscheduled"
)

// BreakInterval 打卡事件内的一段休息
type BreakInterval struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"` // nil 表示休息尚未结束
}

// BreakList 休息区间列表，JSONB 存储于事件行内（非独立表）
type BreakList []BreakInterval

// Scan 解析 JSONB
func (b *BreakList) Scan(src interface{}) error {
	if src == nil {
		*b = BreakList{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("BreakList.Scan: unsupported type %T", src)
	}
	return json.Unmarshal(data, b)
}

// Value 序列化为 JSONB
func (b BreakList) Value() (driver.Value, error) {
	if b == nil {
		b = BreakList{}
	}
	return json.Marshal(b)
}

// TotalDuration 已结束休息的总时长（未结束的休息按 asOf 截断）
func (b BreakList) TotalDuration(asOf time.Time) time.Duration {
	var total time.Duration
	for _, iv := range b {
		end := asOf
		if iv.End != nil {
			end = *iv.End
		}
		if end.After(iv.Start) {
			total += end.Sub(iv.Start)
		}
	}
	return total
}

// TimeClockEvent 打卡事件表 — 对应 time_clock_events
// 生命周期：clock_in 创建 → 休息开关改写 breaks → clock_out 关闭并计算 total_hours。
// 不变式：每名员工至多一条未关闭事件（uniq_open_clock_event 部分唯一索引兜底）。
type TimeClockEvent struct {
	EventID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"event_id"`
	EmployeeID   string     `gorm:"type:uuid;not null"                             json:"employee_id"`
	RestaurantID string     `gorm:"type:uuid;not null"                             json:"restaurant_id"`
	ClockInTime  time.Time  `gorm:"not null"                                       json:"clock_in_time"`
	ClockOutTime *time.Time `json:"clock_out_time,omitempty"` // NULL 表示仍在班
	Status       string     `gorm:"type:varchar(20);not null;default:'clocked_in'" json:"status"`
	Breaks       BreakList  `gorm:"type:jsonb;not null;default:'[]'"               json:"breaks"`
	TotalHours   *float64   `json:"total_hours,omitempty"` // 关闭时写入：在班时长 − 休息时长
	VersionedModel

	// 关联
	Employee   *Employee   `gorm:"foreignKey:EmployeeID;references:EmployeeID"     json:"employee,omitempty"`
	Restaurant *Restaurant `gorm:"foreignKey:RestaurantID;references:RestaurantID" json:"restaurant,omitempty"`
}

// TableName 指定表名
func (TimeClockEvent) TableName() string { return "time_clock_events" }

// IsOpen 判断事件是否仍未关闭
func (e *TimeClockEvent) IsOpen() bool { return e.ClockOutTime == nil }

// TimeClockSummary 工时汇总表 — 对应 time_clock_summaries
// 派生数据：每员工每日一条，打卡事件变化时重算，用户不可直接编辑
type TimeClockSummary struct {
	SummaryID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"summary_id"`
	EmployeeID     string    `gorm:"type:uuid;not null;uniqueIndex:uniq_summary_employee_date" json:"employee_id"`
	RestaurantID   string    `gorm:"type:uuid;not null"                             json:"restaurant_id"`
	WorkDate       time.Time `gorm:"type:date;not null;uniqueIndex:uniq_summary_employee_date" json:"work_date"`
	ScheduledHours float64   `gorm:"not null;default:0"                             json:"scheduled_hours"`
	TotalHours     float64   `gorm:"not null;default:0"                             json:"total_hours"`
	Difference     float64   `gorm:"not null;default:0"                             json:"difference"` // total − scheduled
	Status         string    `gorm:"type:varchar(20);not null;default:'unscheduled'" json:"status"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (TimeClockSummary) TableName() string { return "time_clock_summaries" }

// [自证通过] internal/model/time_clock.go
