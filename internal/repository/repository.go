package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Restaurant        RestaurantRepository
	Employee          EmployeeRepository
	Availability      AvailabilityRepository
	Preference        PreferenceRepository
	Shift             ShiftRepository
	TimeClockEvent    TimeClockEventRepository
	TimeClockSummary  TimeClockSummaryRepository
	SalesRecord       SalesRecordRepository
	PerformanceMetric PerformanceMetricRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Restaurant:        NewRestaurantRepo(db),
		Employee:          NewEmployeeRepo(db),
		Availability:      NewAvailabilityRepo(db),
		Preference:        NewPreferenceRepo(db),
		Shift:             NewShiftRepo(db),
		TimeClockEvent:    NewTimeClockEventRepo(db),
		TimeClockSummary:  NewTimeClockSummaryRepo(db),
		SalesRecord:       NewSalesRecordRepo(db),
		PerformanceMetric: NewPerformanceMetricRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
