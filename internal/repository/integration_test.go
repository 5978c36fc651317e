//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/AnukaFonseka/tution-management-app/internal/model"
	"github.com/AnukaFonseka/tution-management-app/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=tution password=tution_password dbname=tution_center_test sslmode=disable TimeZone=Asia/Colombo"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.Grade{},
		&model.Subject{},
		&model.AssignmentType{},
		&model.Student{},
		&model.Class{},
		&model.ClassSchedule{},
		&model.StudentClass{},
		&model.Payment{},
		&model.Assignment{},
		&model.AssignmentSubmission{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (student *model.Student, class *model.Class, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	student = &model.Student{
		Name:  fmt.Sprintf("测试学生-%d", time.Now().UnixNano()),
		Grade: "Grade 10",
	}
	if err := testDB.WithContext(ctx).Create(student).Error; err != nil {
		t.Fatalf("创建学生失败: %v", err)
	}

	class = &model.Class{
		Name:      fmt.Sprintf("测试班级-%d", time.Now().UnixNano()),
		Grades:    model.IntArray{10},
		ClassType: "Group",
		Fee:       decimal.NewFromInt(5000),
	}
	if err := testDB.WithContext(ctx).Create(class).Error; err != nil {
		t.Fatalf("创建班级失败: %v", err)
	}

	cleanup = func() {
		testDB.Where("student_id = ?", student.ID).Delete(&model.Payment{})
		testDB.Where("student_id = ?", student.ID).Delete(&model.StudentClass{})
		testDB.Where("id = ?", class.ID).Delete(&model.Class{})
		testDB.Where("id = ?", student.ID).Delete(&model.Student{})
	}
	return
}

// ═══════════════════════════════════════════════════════════
// Test: Transaction Rollback / Commit
// ═══════════════════════════════════════════════════════════

func TestTransaction_Rollback(t *testing.T) {
	student, class, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx 失败: %v", err)
	}

	txRepo := repo.WithTx(tx)

	// 在事务内创建选课关系
	enrollment := &model.StudentClass{
		StudentID: student.ID,
		ClassID:   class.ID,
	}
	if err := txRepo.Enrollment.Create(ctx, enrollment); err != nil {
		tx.Rollback()
		t.Fatalf("事务内创建选课关系失败: %v", err)
	}

	// 回滚事务
	tx.Rollback()

	// 验证数据未持久化
	_, err = repo.Enrollment.GetByStudentAndClass(ctx, student.ID, class.ID)
	if err == nil {
		t.Fatal("期望回滚后查不到选课关系，但实际查到了")
	}
}

func TestTransaction_Commit(t *testing.T) {
	student, class, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	if err != nil {
		t.Fatalf("BeginTx 失败: %v", err)
	}

	txRepo := repo.WithTx(tx)

	enrollment := &model.StudentClass{
		StudentID: student.ID,
		ClassID:   class.ID,
	}
	if err := txRepo.Enrollment.Create(ctx, enrollment); err != nil {
		tx.Rollback()
		t.Fatalf("事务内创建选课关系失败: %v", err)
	}

	if err := tx.Commit().Error; err != nil {
		t.Fatalf("Commit 失败: %v", err)
	}

	found, err := repo.Enrollment.GetByStudentAndClass(ctx, student.ID, class.ID)
	if err != nil {
		t.Fatalf("提交后查询选课关系失败: %v", err)
	}
	if found.StudentID != student.ID {
		t.Errorf("StudentID 不匹配: expected %s, got %s", student.ID, found.StudentID)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Unique Constraint (one payment per student/class/month/year)
// ═══════════════════════════════════════════════════════════

func TestUniquePaymentPerMonth(t *testing.T) {
	student, class, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	p1 := &model.Payment{
		StudentID: student.ID,
		ClassID:   class.ID,
		Month:     3,
		Year:      2026,
		Amount:    decimal.NewFromInt(5000),
		Status:    model.PaymentStatusPending,
	}
	if err := repo.Payment.Create(ctx, p1); err != nil {
		t.Fatalf("创建第一条缴费记录失败: %v", err)
	}

	// 同一 (student, class, month, year) 直接 Create 应违反唯一约束
	p2 := &model.Payment{
		StudentID: student.ID,
		ClassID:   class.ID,
		Month:     3,
		Year:      2026,
		Amount:    decimal.NewFromInt(5000),
		Status:    model.PaymentStatusPending,
	}
	if err := repo.Payment.Create(ctx, p2); err == nil {
		t.Fatal("期望唯一约束违反，但创建成功了")
	}
}

func TestPayment_BatchCreate_SkipsExisting(t *testing.T) {
	student, class, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := []model.Payment{
		{StudentID: student.ID, ClassID: class.ID, Month: 6, Year: 2026,
			Amount: decimal.NewFromInt(5000), Status: model.PaymentStatusPending},
		{StudentID: student.ID, ClassID: class.ID, Month: 7, Year: 2026,
			Amount: decimal.NewFromInt(5000), Status: model.PaymentStatusPending},
	}
	if err := repo.Payment.BatchCreate(ctx, first); err != nil {
		t.Fatalf("第一次 BatchCreate 失败: %v", err)
	}

	// 重复批量插入应跳过已存在的月份而不报错
	second := []model.Payment{
		{StudentID: student.ID, ClassID: class.ID, Month: 6, Year: 2026,
			Amount: decimal.NewFromInt(9999), Status: model.PaymentStatusPending},
		{StudentID: student.ID, ClassID: class.ID, Month: 8, Year: 2026,
			Amount: decimal.NewFromInt(5000), Status: model.PaymentStatusPending},
	}
	if err := repo.Payment.BatchCreate(ctx, second); err != nil {
		t.Fatalf("第二次 BatchCreate 失败: %v", err)
	}

	// 6 月记录金额应保持原值
	got, err := repo.Payment.GetByKey(ctx, student.ID, class.ID, 6, 2026)
	if err != nil {
		t.Fatalf("查询 6 月缴费记录失败: %v", err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("已存在记录金额不应被覆盖: got %s", got.Amount)
	}

	list, err := repo.Payment.List(ctx, repository.PaymentFilter{StudentID: student.ID})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("期望 3 条缴费记录，得到 %d 条", len(list))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Delete / Update Window
// ═══════════════════════════════════════════════════════════

func TestPayment_DeleteUnpaidInWindow_KeepsPaid(t *testing.T) {
	student, class, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	now := time.Now()
	rows := []model.Payment{
		{StudentID: student.ID, ClassID: class.ID, Month: 5, Year: 2026,
			Amount: decimal.NewFromInt(5000), Status: model.PaymentStatusPaid, PaidAt: &now},
		{StudentID: student.ID, ClassID: class.ID, Month: 6, Year: 2026,
			Amount: decimal.NewFromInt(5000), Status: model.PaymentStatusPending},
		{StudentID: student.ID, ClassID: class.ID, Month: 7, Year: 2026,
			Amount: decimal.NewFromInt(5000), Status: model.PaymentStatusPending},
	}
	if err := repo.Payment.BatchCreate(ctx, rows); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}

	// 从 5 月起删除未支付记录：5 月已支付应保留，6/7 月应删除
	if err := repo.Payment.DeleteUnpaidInWindow(ctx, student.ID, class.ID, 5, 2026); err != nil {
		t.Fatalf("DeleteUnpaidInWindow 失败: %v", err)
	}

	list, err := repo.Payment.List(ctx, repository.PaymentFilter{StudentID: student.ID})
	if err != nil {
		t.Fatalf("List 失败: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("期望仅剩 1 条已支付记录，得到 %d 条", len(list))
	}
	if list[0].Status != model.PaymentStatusPaid {
		t.Errorf("剩余记录应为 paid 状态，得到: %s", list[0].Status)
	}
}

func TestPayment_UpdateAmountInWindow(t *testing.T) {
	student, class, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	now := time.Now()
	rows := []model.Payment{
		{StudentID: student.ID, ClassID: class.ID, Month: 4, Year: 2026,
			Amount: decimal.NewFromInt(5000), Status: model.PaymentStatusPaid, PaidAt: &now},
		{StudentID: student.ID, ClassID: class.ID, Month: 5, Year: 2026,
			Amount: decimal.NewFromInt(5000), Status: model.PaymentStatusOverdue},
		{StudentID: student.ID, ClassID: class.ID, Month: 6, Year: 2026,
			Amount: decimal.NewFromInt(5000), Status: model.PaymentStatusPending},
	}
	if err := repo.Payment.BatchCreate(ctx, rows); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}

	newAmount := decimal.NewFromInt(4500)
	if err := repo.Payment.UpdateAmountInWindow(ctx, student.ID, class.ID, 4, 2026, newAmount); err != nil {
		t.Fatalf("UpdateAmountInWindow 失败: %v", err)
	}

	// 已支付的 4 月记录金额不变
	paid, err := repo.Payment.GetByKey(ctx, student.ID, class.ID, 4, 2026)
	if err != nil {
		t.Fatalf("查询 4 月记录失败: %v", err)
	}
	if !paid.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("已支付记录金额不应改变: got %s", paid.Amount)
	}

	// 逾期的 5 月记录金额同样固定不变
	overdue, err := repo.Payment.GetByKey(ctx, student.ID, class.ID, 5, 2026)
	if err != nil {
		t.Fatalf("查询 5 月记录失败: %v", err)
	}
	if !overdue.Amount.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("逾期记录金额不应改变: got %s", overdue.Amount)
	}

	// 待缴的 6 月记录金额应更新
	pending, err := repo.Payment.GetByKey(ctx, student.ID, class.ID, 6, 2026)
	if err != nil {
		t.Fatalf("查询 6 月记录失败: %v", err)
	}
	if !pending.Amount.Equal(newAmount) {
		t.Errorf("待缴记录金额应更新为 %s，得到 %s", newAmount, pending.Amount)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Class Schedules Replace
// ═══════════════════════════════════════════════════════════

func TestClass_ReplaceSchedules(t *testing.T) {
	_, class, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	first := []model.ClassSchedule{
		{DayOfWeek: 1, StartTime: "08:00", Duration: 90},
		{DayOfWeek: 3, StartTime: "14:00", Duration: 60},
	}
	if err := repo.Class.ReplaceSchedules(ctx, class.ID, first); err != nil {
		t.Fatalf("第一次 ReplaceSchedules 失败: %v", err)
	}

	second := []model.ClassSchedule{
		{DayOfWeek: 6, StartTime: "09:30", Duration: 120},
	}
	if err := repo.Class.ReplaceSchedules(ctx, class.ID, second); err != nil {
		t.Fatalf("第二次 ReplaceSchedules 失败: %v", err)
	}
	defer testDB.Where("class_id = ?", class.ID).Delete(&model.ClassSchedule{})

	got, err := repo.Class.GetByID(ctx, class.ID)
	if err != nil {
		t.Fatalf("查询班级失败: %v", err)
	}
	if len(got.Schedules) != 1 {
		t.Fatalf("期望 1 个时间段，得到 %d 个", len(got.Schedules))
	}
	if got.Schedules[0].DayOfWeek != 6 {
		t.Errorf("期望 day_of_week=6，得到 %d", got.Schedules[0].DayOfWeek)
	}
}
