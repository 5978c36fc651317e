package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/model"
	"github.com/AnukaFonseka/tution-management-app/internal/repository"
)

// 仪表盘展示的最近收款条数
const recentPaidLimit = 5

// DashboardService 仪表盘业务接口
type DashboardService interface {
	// Overview 汇总当月数据：学生/班级总数、当月收入与待收、班级类型分布、最近收款
	Overview(ctx context.Context, now time.Time) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

func (s *dashboardService) Overview(ctx context.Context, now time.Time) (*dto.DashboardResponse, error) {
	totalStudents, err := s.repo.Student.Count(ctx)
	if err != nil {
		s.logger.Error("统计学生总数失败", zap.Error(err))
		return nil, err
	}
	totalClasses, err := s.repo.Class.Count(ctx)
	if err != nil {
		s.logger.Error("统计班级总数失败", zap.Error(err))
		return nil, err
	}

	month, year := int(now.Month()), now.Year()
	totals, err := s.repo.Payment.SumByStatus(ctx, month, year)
	if err != nil {
		s.logger.Error("统计当月缴费失败", zap.Error(err))
		return nil, err
	}

	revenue := decimal.Zero
	pendingAmount := decimal.Zero
	var pendingCount int64
	for _, row := range totals {
		switch row.Status {
		case model.PaymentStatusPaid:
			revenue = revenue.Add(row.Total)
		case model.PaymentStatusPending, model.PaymentStatusOverdue:
			pendingAmount = pendingAmount.Add(row.Total)
			pendingCount += row.Count
		}
	}

	distribution, err := s.repo.Class.CountByType(ctx)
	if err != nil {
		s.logger.Error("统计班级类型分布失败", zap.Error(err))
		return nil, err
	}

	recent, err := s.repo.Payment.ListRecentPaid(ctx, recentPaidLimit)
	if err != nil {
		s.logger.Error("查询最近收款失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Stats: dto.DashboardStats{
			TotalStudents:   totalStudents,
			TotalClasses:    totalClasses,
			MonthRevenue:    revenue.StringFixed(2),
			PendingAmount:   pendingAmount.StringFixed(2),
			PendingPayments: pendingCount,
		},
		ClassDistribution: make([]dto.ClassDistributionEntry, 0, len(distribution)),
		RecentPayments:    make([]dto.RecentPaymentEntry, 0, len(recent)),
	}

	for _, row := range distribution {
		resp.ClassDistribution = append(resp.ClassDistribution, dto.ClassDistributionEntry{
			ClassType: row.ClassType,
			Count:     row.Count,
		})
	}

	for i := range recent {
		p := &recent[i]
		entry := dto.RecentPaymentEntry{
			PaymentID: p.ID,
			Amount:    p.Amount.StringFixed(2),
			Month:     p.Month,
			Year:      p.Year,
		}
		if p.Student != nil {
			entry.StudentName = p.Student.Name
		}
		if p.Class != nil {
			entry.ClassName = p.Class.Name
		}
		if p.PaidAt != nil {
			entry.PaidAt = p.PaidAt.Format(time.RFC3339)
		}
		resp.RecentPayments = append(resp.RecentPayments, entry)
	}

	return resp, nil
}
