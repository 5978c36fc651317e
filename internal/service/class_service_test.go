package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/model"
)

func setupClassService(t *testing.T) (ClassService, *mockRepos) {
	t.Helper()
	repo, mocks := newMockRepos()
	svc := NewClassService(repo, zap.NewNop())
	return svc, mocks
}

func seedSubject(t *testing.T, mocks *mockRepos, id, name string) {
	t.Helper()
	if err := mocks.lookups.CreateSubject(context.Background(),
		&model.Subject{ID: id, Name: name}); err != nil {
		t.Fatalf("创建科目失败: %v", err)
	}
}

func TestClassService_Create(t *testing.T) {
	svc, mocks := setupClassService(t)
	seedSubject(t, mocks, "sbj-math", "Mathematics")

	req := &dto.CreateClassRequest{
		Name:       "Grade 10 Maths",
		Grades:     []int{10},
		SubjectIDs: []string{"sbj-math"},
		ClassType:  "Group",
		Fee:        "5000.00",
		Schedules: []dto.ScheduleInput{
			{DayOfWeek: 1, StartTime: "15:30", Duration: 90},
		},
	}
	resp, err := svc.Create(context.Background(), req)
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	if resp.Fee != "5000.00" {
		t.Errorf("期望 Fee=5000.00，实际=%s", resp.Fee)
	}
	if len(resp.Schedules) != 1 || resp.Schedules[0].DayOfWeek != 1 {
		t.Errorf("上课时间不正确: %+v", resp.Schedules)
	}
}

func TestClassService_Create_UnknownSubject(t *testing.T) {
	svc, _ := setupClassService(t)

	req := &dto.CreateClassRequest{
		Name:       "Grade 10 Maths",
		Grades:     []int{10},
		SubjectIDs: []string{"sbj-missing"},
		ClassType:  "Group",
		Fee:        "5000.00",
		Schedules:  []dto.ScheduleInput{{DayOfWeek: 1, StartTime: "15:30", Duration: 90}},
	}
	_, err := svc.Create(context.Background(), req)
	if !errors.Is(err, ErrClassSubjectUnknown) {
		t.Errorf("期望 ErrClassSubjectUnknown，实际: %v", err)
	}
}

func TestClassService_Create_InvalidFee(t *testing.T) {
	svc, mocks := setupClassService(t)
	seedSubject(t, mocks, "sbj-math", "Mathematics")

	req := &dto.CreateClassRequest{
		Name:       "Grade 10 Maths",
		Grades:     []int{10},
		SubjectIDs: []string{"sbj-math"},
		ClassType:  "Group",
		Fee:        "not-a-number",
		Schedules:  []dto.ScheduleInput{{DayOfWeek: 1, StartTime: "15:30", Duration: 90}},
	}
	if _, err := svc.Create(context.Background(), req); !errors.Is(err, ErrClassFeeInvalid) {
		t.Errorf("期望 ErrClassFeeInvalid，实际: %v", err)
	}
}

func TestClassService_GetByID_RosterWithPaymentStatus(t *testing.T) {
	svc, mocks := setupClassService(t)
	seedClass(t, mocks, "cls-a", "5000.00")
	seedStudent(t, mocks, "stu-1")
	seedStudent(t, mocks, "stu-2")
	_ = mocks.enrollments.Create(context.Background(),
		&model.StudentClass{StudentID: "stu-1", ClassID: "cls-a"})
	_ = mocks.enrollments.Create(context.Background(),
		&model.StudentClass{StudentID: "stu-2", ClassID: "cls-a"})
	seedPayment(t, mocks, "stu-1", "cls-a", 9, 2026, "5000.00", model.PaymentStatusPaid)

	detail, err := svc.GetByID(context.Background(), "cls-a", 9, 2026)
	if err != nil {
		t.Fatalf("GetByID 应成功: %v", err)
	}

	if len(detail.Roster) != 2 {
		t.Fatalf("期望点名册 2 人，得到 %d 人", len(detail.Roster))
	}
	statuses := make(map[string]string)
	for _, entry := range detail.Roster {
		statuses[entry.StudentID] = entry.PaymentStatus
	}
	if statuses["stu-1"] != model.PaymentStatusPaid {
		t.Errorf("stu-1 该月应为 paid，得到 %s", statuses["stu-1"])
	}
	// 无记录的学生按待缴展示
	if statuses["stu-2"] != model.PaymentStatusPending {
		t.Errorf("stu-2 无记录应视为 pending，得到 %s", statuses["stu-2"])
	}
}

func TestClassService_Update_FeeChangeAdjustsPendingPayments(t *testing.T) {
	svc, mocks := setupClassService(t)
	seedClass(t, mocks, "cls-a", "5000.00")
	seedStudent(t, mocks, "stu-1")
	seedStudent(t, mocks, "stu-2")
	customFee := feePtr("3000.00")
	_ = mocks.enrollments.Create(context.Background(),
		&model.StudentClass{StudentID: "stu-1", ClassID: "cls-a"})
	_ = mocks.enrollments.Create(context.Background(),
		&model.StudentClass{StudentID: "stu-2", ClassID: "cls-a", CustomFee: customFee})
	seedPayment(t, mocks, "stu-1", "cls-a", 9, 2026, "5000.00", model.PaymentStatusPending)
	seedPayment(t, mocks, "stu-1", "cls-a", 8, 2026, "5000.00", model.PaymentStatusPending) // 过去
	seedPayment(t, mocks, "stu-2", "cls-a", 9, 2026, "3000.00", model.PaymentStatusPending)

	newFee := "5500.00"
	_, err := svc.Update(context.Background(), "cls-a",
		&dto.UpdateClassRequest{Fee: &newFee}, mustDate(t, "2026-09-01"))
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}

	// 未设自定义费用的学生：窗口内金额更新
	p1, _ := mocks.payments.GetByKey(context.Background(), "stu-1", "cls-a", 9, 2026)
	if p1.Amount.StringFixed(2) != "5500.00" {
		t.Errorf("stu-1 九月金额应为 5500.00，得到 %s", p1.Amount)
	}
	// 过去月份不动
	p1Aug, _ := mocks.payments.GetByKey(context.Background(), "stu-1", "cls-a", 8, 2026)
	if p1Aug.Amount.StringFixed(2) != "5000.00" {
		t.Errorf("过去月份金额不应改变，得到 %s", p1Aug.Amount)
	}
	// 自定义费用的学生不受影响
	p2, _ := mocks.payments.GetByKey(context.Background(), "stu-2", "cls-a", 9, 2026)
	if p2.Amount.StringFixed(2) != "3000.00" {
		t.Errorf("自定义费用学生金额不应改变，得到 %s", p2.Amount)
	}
}

func TestClassService_Update_ReplaceSchedules(t *testing.T) {
	svc, mocks := setupClassService(t)
	class := seedClass(t, mocks, "cls-a", "5000.00")
	class.Schedules = []model.ClassSchedule{
		{ID: "sch-old", ClassID: "cls-a", DayOfWeek: 1, StartTime: "08:00", Duration: 60},
	}

	schedules := []dto.ScheduleInput{
		{DayOfWeek: 6, StartTime: "09:00", Duration: 120},
	}
	resp, err := svc.Update(context.Background(), "cls-a",
		&dto.UpdateClassRequest{Schedules: &schedules}, mustDate(t, "2026-09-01"))
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if len(resp.Schedules) != 1 || resp.Schedules[0].DayOfWeek != 6 {
		t.Errorf("上课时间应被整体替换: %+v", resp.Schedules)
	}
}

func TestClassService_Delete_NotFound(t *testing.T) {
	svc, _ := setupClassService(t)

	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrClassNotFound) {
		t.Errorf("期望 ErrClassNotFound，实际: %v", err)
	}
}

func TestClassService_List_StudentCount(t *testing.T) {
	svc, mocks := setupClassService(t)
	seedClass(t, mocks, "cls-a", "5000.00")
	seedStudent(t, mocks, "stu-1")
	_ = mocks.enrollments.Create(context.Background(),
		&model.StudentClass{StudentID: "stu-1", ClassID: "cls-a"})

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(list) != 1 || list[0].StudentCount != 1 {
		t.Errorf("期望班级人数 1，得到 %+v", list)
	}
}
