package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/model"
	"github.com/AnukaFonseka/tution-management-app/internal/repository"
)

// ── 选课同步模块业务错误 ──

var (
	ErrEnrollmentClassNotFound = errors.New("所选班级不存在")
	ErrCustomFeeInvalid        = errors.New("自定义费用格式不正确")
)

// EnrollmentService 选课同步业务接口
//
// 设计说明：
//   - SyncEnrollments 是学生创建/更新时的核心调账流程：
//     按目标选课集合算出差异，在单个事务内完成退课、加课、改费三个阶段，
//     并同步维护参考月起的缴费记录。事务失败整体回滚，不会出现调了一半的状态
//   - 参考日期由调用方传入：Handler 传 time.Now()，测试可传任意日期
type EnrollmentService interface {
	SyncEnrollments(ctx context.Context, studentID string, desired []dto.EnrollmentInput, ref time.Time) error
}

type enrollmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEnrollmentService 创建 EnrollmentService 实例
func NewEnrollmentService(repo *repository.Repository, logger *zap.Logger) EnrollmentService {
	return &enrollmentService{repo: repo, logger: logger}
}

// parseDesiredEnrollments 解析请求中的目标选课集合
func parseDesiredEnrollments(inputs []dto.EnrollmentInput) ([]DesiredEnrollment, error) {
	desired := make([]DesiredEnrollment, 0, len(inputs))
	for _, in := range inputs {
		d := DesiredEnrollment{ClassID: in.ClassID}
		if in.CustomFee != nil && *in.CustomFee != "" {
			fee, err := decimal.NewFromString(*in.CustomFee)
			if err != nil || fee.IsNegative() {
				return nil, ErrCustomFeeInvalid
			}
			d.CustomFee = &fee
		}
		desired = append(desired, d)
	}
	return desired, nil
}

// ────────────────────── SyncEnrollments ──────────────────────

func (s *enrollmentService) SyncEnrollments(ctx context.Context, studentID string, inputs []dto.EnrollmentInput, ref time.Time) error {
	desired, err := parseDesiredEnrollments(inputs)
	if err != nil {
		return err
	}

	current, err := s.repo.Enrollment.ListByStudent(ctx, studentID)
	if err != nil {
		s.logger.Error("查询当前选课失败", zap.String("student_id", studentID), zap.Error(err))
		return err
	}

	diff := DiffEnrollments(current, desired)
	if diff.Empty() {
		return nil
	}

	// 写入前校验：受影响的班级必须存在，顺便取得每个班级的默认费用
	classFees := make(map[string]decimal.Decimal)
	for _, d := range diff.ToAdd {
		class, err := s.repo.Class.GetByID(ctx, d.ClassID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentClassNotFound
			}
			s.logger.Error("查询班级失败", zap.String("class_id", d.ClassID), zap.Error(err))
			return err
		}
		classFees[d.ClassID] = class.Fee
	}
	for classID := range diff.FeeChanges {
		class, err := s.repo.Class.GetByID(ctx, classID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrEnrollmentClassNotFound
			}
			s.logger.Error("查询班级失败", zap.String("class_id", classID), zap.Error(err))
			return err
		}
		classFees[classID] = class.Fee
	}

	refMonth, refYear := int(ref.Month()), ref.Year()

	// 三个阶段在同一事务内执行，失败整体回滚
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()

	txRepo := s.repo.WithTx(tx)

	rollback := func(phase string, err error) error {
		if tx != nil {
			tx.Rollback()
		}
		s.logger.Error("选课同步失败",
			zap.String("student_id", studentID),
			zap.String("phase", phase),
			zap.Error(err))
		return err
	}

	// 阶段一：退课 — 删除选课关系及参考月起的未支付记录（已支付历史保留）
	for _, classID := range diff.ToRemove {
		if err := txRepo.Payment.DeleteUnpaidInWindow(ctx, studentID, classID, refMonth, refYear); err != nil {
			return rollback("remove-payments", err)
		}
		if err := txRepo.Enrollment.Delete(ctx, studentID, classID); err != nil {
			return rollback("remove-enrollment", err)
		}
	}

	// 阶段二：加课 — 创建选课关系并按收费计划生成待缴记录
	for _, d := range diff.ToAdd {
		enrollment := &model.StudentClass{
			StudentID: studentID,
			ClassID:   d.ClassID,
			CustomFee: d.CustomFee,
		}
		if err := txRepo.Enrollment.Create(ctx, enrollment); err != nil {
			return rollback("add-enrollment", err)
		}

		amount := enrollment.EffectiveFee(classFees[d.ClassID])
		rows := buildPaymentRows(studentID, d.ClassID, amount, ref)
		if err := txRepo.Payment.BatchCreate(ctx, rows); err != nil {
			return rollback("add-payments", err)
		}
	}

	// 阶段三：改费 — 更新自定义费用并调整参考月起 pending 记录的金额
	// （paid 与 overdue 记录的金额不动）
	for classID, customFee := range diff.FeeChanges {
		if err := txRepo.Enrollment.UpdateCustomFee(ctx, studentID, classID, customFee); err != nil {
			return rollback("fee-enrollment", err)
		}

		amount := classFees[classID]
		if customFee != nil {
			amount = *customFee
		}
		if err := txRepo.Payment.UpdateAmountInWindow(ctx, studentID, classID, refMonth, refYear, amount); err != nil {
			return rollback("fee-payments", err)
		}
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}

	return nil
}
