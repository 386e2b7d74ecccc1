package dto

// ── 偏好模块 DTO ──

// UpsertPreferenceRequest 创建/更新排班偏好请求（每员工一条，重复提交覆盖）
type UpsertPreferenceRequest struct {
	EmployeeID         string   `json:"employee_id"          binding:"required,uuid"`
	PreferredDays      []int    `json:"preferred_days"       binding:"omitempty,dive,min=1,max=7"`
	PreferredPositions []string `json:"preferred_positions"  binding:"omitempty,dive,max=50"`
	PreferredStartTime *string  `json:"preferred_start_time" binding:"omitempty,datetime=15:04"`
	PreferredEndTime   *string  `json:"preferred_end_time"   binding:"omitempty,datetime=15:04"`
}

// ── 响应 ──

// PreferenceResponse 排班偏好响应
type PreferenceResponse struct {
	ID                 string   `json:"id"`
	EmployeeID         string   `json:"employee_id"`
	PreferredDays      []int    `json:"preferred_days,omitempty"`
	PreferredPositions []string `json:"preferred_positions,omitempty"`
	PreferredStartTime *string  `json:"preferred_start_time,omitempty"`
	PreferredEndTime   *string  `json:"preferred_end_time,omitempty"`
	UpdatedAt          string   `json:"updated_at"`
}

// [自证通过] internal/dto/preference.go
