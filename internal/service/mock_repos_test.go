package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AnukaFonseka/tution-management-app/internal/model"
	"github.com/AnukaFonseka/tution-management-app/internal/repository"
)

// ── Mock 聚合 ──

// mockRepos 持有全部 mock，便于测试直接检查底层数据
type mockRepos struct {
	students    *mockStudentRepo
	classes     *mockClassRepo
	enrollments *mockEnrollmentRepo
	payments    *mockPaymentRepo
	assignments *mockAssignmentRepo
	lookups     *mockLookupRepo
}

// newMockRepos 创建互相关联的 mock 集合与 Repository 聚合
func newMockRepos() (*repository.Repository, *mockRepos) {
	m := &mockRepos{
		students:    newMockStudentRepo(),
		classes:     newMockClassRepo(),
		enrollments: newMockEnrollmentRepo(),
		payments:    newMockPaymentRepo(),
		assignments: newMockAssignmentRepo(),
		lookups:     newMockLookupRepo(),
	}
	m.students.enrollments = m.enrollments
	m.enrollments.classes = m.classes
	m.enrollments.students = m.students

	repo := &repository.Repository{
		Student:    m.students,
		Class:      m.classes,
		Enrollment: m.enrollments,
		Payment:    m.payments,
		Assignment: m.assignments,
		Lookup:     m.lookups,
	}
	return repo, m
}

// ── Mock StudentRepository ──

type mockStudentRepo struct {
	students    map[string]*model.Student
	enrollments *mockEnrollmentRepo
	seq         int
}

func newMockStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: make(map[string]*model.Student)}
}

func (m *mockStudentRepo) Create(_ context.Context, student *model.Student) error {
	if student.ID == "" {
		m.seq++
		student.ID = fmt.Sprintf("stu-%d", m.seq)
	}
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	s, ok := m.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if m.enrollments != nil {
		s.Enrollments, _ = m.enrollments.ListByStudent(ctx, id)
	}
	return s, nil
}

func (m *mockStudentRepo) List(_ context.Context, filter repository.StudentFilter) ([]model.Student, error) {
	var result []model.Student
	for _, s := range m.students {
		if filter.Grade != "" && s.Grade != filter.Grade {
			continue
		}
		if filter.Search != "" && !strings.Contains(s.Name, filter.Search) {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockStudentRepo) Update(_ context.Context, student *model.Student) error {
	m.students[student.ID] = student
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	// 模拟外键级联
	if m.enrollments != nil {
		for key, e := range m.enrollments.items {
			if e.StudentID == id {
				delete(m.enrollments.items, key)
			}
		}
	}
	return nil
}

func (m *mockStudentRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.students)), nil
}

// ── Mock ClassRepository ──

type mockClassRepo struct {
	classes map[string]*model.Class
	seq     int
}

func newMockClassRepo() *mockClassRepo {
	return &mockClassRepo{classes: make(map[string]*model.Class)}
}

func (m *mockClassRepo) Create(_ context.Context, class *model.Class) error {
	if class.ID == "" {
		m.seq++
		class.ID = fmt.Sprintf("cls-%d", m.seq)
	}
	for i := range class.Schedules {
		if class.Schedules[i].ID == "" {
			m.seq++
			class.Schedules[i].ID = fmt.Sprintf("sch-%d", m.seq)
		}
		class.Schedules[i].ClassID = class.ID
	}
	m.classes[class.ID] = class
	return nil
}

func (m *mockClassRepo) GetByID(_ context.Context, id string) (*model.Class, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockClassRepo) List(_ context.Context) ([]model.Class, error) {
	var result []model.Class
	for _, c := range m.classes {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockClassRepo) Update(_ context.Context, class *model.Class) error {
	if existing, ok := m.classes[class.ID]; ok && class.Schedules == nil {
		class.Schedules = existing.Schedules
	}
	m.classes[class.ID] = class
	return nil
}

func (m *mockClassRepo) Delete(_ context.Context, id string) error {
	delete(m.classes, id)
	return nil
}

func (m *mockClassRepo) Count(_ context.Context) (int64, error) {
	return int64(len(m.classes)), nil
}

func (m *mockClassRepo) CountByType(_ context.Context) ([]repository.ClassTypeCount, error) {
	counts := make(map[string]int64)
	for _, c := range m.classes {
		counts[c.ClassType]++
	}
	var result []repository.ClassTypeCount
	for t, n := range counts {
		result = append(result, repository.ClassTypeCount{ClassType: t, Count: n})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClassType < result[j].ClassType })
	return result, nil
}

func (m *mockClassRepo) ReplaceSchedules(_ context.Context, classID string, schedules []model.ClassSchedule) error {
	class, ok := m.classes[classID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for i := range schedules {
		m.seq++
		schedules[i].ID = fmt.Sprintf("sch-%d", m.seq)
		schedules[i].ClassID = classID
	}
	class.Schedules = schedules
	return nil
}

func (m *mockClassRepo) ListAllSchedules(_ context.Context) ([]model.ClassSchedule, error) {
	var result []model.ClassSchedule
	for _, c := range m.classes {
		for _, sch := range c.Schedules {
			sch.Class = c
			result = append(result, sch)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].DayOfWeek != result[j].DayOfWeek {
			return result[i].DayOfWeek < result[j].DayOfWeek
		}
		return result[i].StartTime < result[j].StartTime
	})
	return result, nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	items    map[string]*model.StudentClass // key: studentID|classID
	classes  *mockClassRepo
	students *mockStudentRepo
	seq      int
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{items: make(map[string]*model.StudentClass)}
}

func enrollKey(studentID, classID string) string { return studentID + "|" + classID }

func (m *mockEnrollmentRepo) Create(_ context.Context, enrollment *model.StudentClass) error {
	key := enrollKey(enrollment.StudentID, enrollment.ClassID)
	if _, exists := m.items[key]; exists {
		return fmt.Errorf("duplicate key: %s", key)
	}
	if enrollment.ID == "" {
		m.seq++
		enrollment.ID = fmt.Sprintf("enr-%d", m.seq)
	}
	m.items[key] = enrollment
	return nil
}

func (m *mockEnrollmentRepo) GetByStudentAndClass(_ context.Context, studentID, classID string) (*model.StudentClass, error) {
	if e, ok := m.items[enrollKey(studentID, classID)]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) ListByStudent(_ context.Context, studentID string) ([]model.StudentClass, error) {
	var result []model.StudentClass
	for _, e := range m.items {
		if e.StudentID != studentID {
			continue
		}
		item := *e
		if m.classes != nil {
			if c, ok := m.classes.classes[e.ClassID]; ok {
				item.Class = c
			}
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ClassID < result[j].ClassID })
	return result, nil
}

func (m *mockEnrollmentRepo) ListByClass(_ context.Context, classID string) ([]model.StudentClass, error) {
	var result []model.StudentClass
	for _, e := range m.items {
		if e.ClassID != classID {
			continue
		}
		item := *e
		if m.students != nil {
			if s, ok := m.students.students[e.StudentID]; ok {
				item.Student = s
			}
		}
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StudentID < result[j].StudentID })
	return result, nil
}

func (m *mockEnrollmentRepo) UpdateCustomFee(_ context.Context, studentID, classID string, customFee *decimal.Decimal) error {
	e, ok := m.items[enrollKey(studentID, classID)]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.CustomFee = customFee
	return nil
}

func (m *mockEnrollmentRepo) Delete(_ context.Context, studentID, classID string) error {
	delete(m.items, enrollKey(studentID, classID))
	return nil
}

func (m *mockEnrollmentRepo) CountByClass(_ context.Context, classID string) (int64, error) {
	var n int64
	for _, e := range m.items {
		if e.ClassID == classID {
			n++
		}
	}
	return n, nil
}

// ── Mock PaymentRepository ──

type mockPaymentRepo struct {
	payments map[string]*model.Payment
	seq      int
}

func newMockPaymentRepo() *mockPaymentRepo {
	return &mockPaymentRepo{payments: make(map[string]*model.Payment)}
}

func (m *mockPaymentRepo) findByKey(studentID, classID string, month, year int) *model.Payment {
	for _, p := range m.payments {
		if p.StudentID == studentID && p.ClassID == classID && p.Month == month && p.Year == year {
			return p
		}
	}
	return nil
}

func (m *mockPaymentRepo) Create(_ context.Context, payment *model.Payment) error {
	if m.findByKey(payment.StudentID, payment.ClassID, payment.Month, payment.Year) != nil {
		return fmt.Errorf("duplicate payment: %s/%s %d-%d",
			payment.StudentID, payment.ClassID, payment.Year, payment.Month)
	}
	if payment.ID == "" {
		m.seq++
		payment.ID = fmt.Sprintf("pay-%d", m.seq)
	}
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockPaymentRepo) BatchCreate(_ context.Context, payments []model.Payment) error {
	for i := range payments {
		p := payments[i]
		if m.findByKey(p.StudentID, p.ClassID, p.Month, p.Year) != nil {
			continue
		}
		m.seq++
		p.ID = fmt.Sprintf("pay-%d", m.seq)
		stored := p
		m.payments[p.ID] = &stored
	}
	return nil
}

func (m *mockPaymentRepo) GetByID(_ context.Context, id string) (*model.Payment, error) {
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) GetByKey(_ context.Context, studentID, classID string, month, year int) (*model.Payment, error) {
	if p := m.findByKey(studentID, classID, month, year); p != nil {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPaymentRepo) List(_ context.Context, filter repository.PaymentFilter) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range m.payments {
		if filter.StudentID != "" && p.StudentID != filter.StudentID {
			continue
		}
		if filter.ClassID != "" && p.ClassID != filter.ClassID {
			continue
		}
		if filter.Month != nil && p.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && p.Year != *filter.Year {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		result = append(result, *p)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		return result[i].Month > result[j].Month
	})
	return result, nil
}

func (m *mockPaymentRepo) Update(_ context.Context, payment *model.Payment) error {
	m.payments[payment.ID] = payment
	return nil
}

func (m *mockPaymentRepo) UpdateStatus(_ context.Context, id, status string, paidAt *time.Time) error {
	p, ok := m.payments[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	p.PaidAt = paidAt
	return nil
}

func inWindow(p *model.Payment, month, year int) bool {
	return p.Year > year || (p.Year == year && p.Month >= month)
}

func (m *mockPaymentRepo) DeleteUnpaidInWindow(_ context.Context, studentID, classID string, month, year int) error {
	for id, p := range m.payments {
		if p.StudentID == studentID && p.ClassID == classID &&
			inWindow(p, month, year) && p.Status != model.PaymentStatusPaid {
			delete(m.payments, id)
		}
	}
	return nil
}

func (m *mockPaymentRepo) UpdateAmountInWindow(_ context.Context, studentID, classID string, month, year int, amount decimal.Decimal) error {
	for _, p := range m.payments {
		if p.StudentID == studentID && p.ClassID == classID &&
			inWindow(p, month, year) && p.Status == model.PaymentStatusPending {
			p.Amount = amount
		}
	}
	return nil
}

func (m *mockPaymentRepo) SumByStatus(_ context.Context, month, year int) ([]repository.PaymentStatusTotal, error) {
	totals := make(map[string]*repository.PaymentStatusTotal)
	for _, p := range m.payments {
		if p.Month != month || p.Year != year {
			continue
		}
		row, ok := totals[p.Status]
		if !ok {
			row = &repository.PaymentStatusTotal{Status: p.Status, Total: decimal.Zero}
			totals[p.Status] = row
		}
		row.Total = row.Total.Add(p.Amount)
		row.Count++
	}
	var result []repository.PaymentStatusTotal
	for _, row := range totals {
		result = append(result, *row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Status < result[j].Status })
	return result, nil
}

func (m *mockPaymentRepo) ListRecentPaid(_ context.Context, limit int) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range m.payments {
		if p.Status == model.PaymentStatusPaid {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		ti, tj := time.Time{}, time.Time{}
		if result[i].PaidAt != nil {
			ti = *result[i].PaidAt
		}
		if result[j].PaidAt != nil {
			tj = *result[j].PaidAt
		}
		return ti.After(tj)
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockPaymentRepo) ListRecentByStudent(_ context.Context, studentID string, limit int) ([]model.Payment, error) {
	var result []model.Payment
	for _, p := range m.payments {
		if p.StudentID == studentID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		return result[i].Month > result[j].Month
	})
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// ── Mock AssignmentRepository ──

type mockAssignmentRepo struct {
	assignments map[string]*model.Assignment
	submissions map[string]*model.AssignmentSubmission
	seq         int
}

func newMockAssignmentRepo() *mockAssignmentRepo {
	return &mockAssignmentRepo{
		assignments: make(map[string]*model.Assignment),
		submissions: make(map[string]*model.AssignmentSubmission),
	}
}

func (m *mockAssignmentRepo) Create(_ context.Context, assignment *model.Assignment) error {
	if assignment.ID == "" {
		m.seq++
		assignment.ID = fmt.Sprintf("asg-%d", m.seq)
	}
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockAssignmentRepo) GetByID(_ context.Context, id string) (*model.Assignment, error) {
	a, ok := m.assignments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	a.Submissions = nil
	for _, sub := range m.submissions {
		if sub.AssignmentID == id {
			a.Submissions = append(a.Submissions, *sub)
		}
	}
	sort.Slice(a.Submissions, func(i, j int) bool {
		return a.Submissions[i].StudentID < a.Submissions[j].StudentID
	})
	return a, nil
}

func (m *mockAssignmentRepo) ListByClass(_ context.Context, classID string) ([]model.Assignment, error) {
	var result []model.Assignment
	for _, a := range m.assignments {
		if a.ClassID == classID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Deadline.After(result[j].Deadline) })
	return result, nil
}

func (m *mockAssignmentRepo) Update(_ context.Context, assignment *model.Assignment) error {
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockAssignmentRepo) Delete(_ context.Context, id string) error {
	delete(m.assignments, id)
	for subID, sub := range m.submissions {
		if sub.AssignmentID == id {
			delete(m.submissions, subID)
		}
	}
	return nil
}

func (m *mockAssignmentRepo) BatchCreateSubmissions(_ context.Context, submissions []model.AssignmentSubmission) error {
	for i := range submissions {
		sub := submissions[i]
		exists := false
		for _, existing := range m.submissions {
			if existing.AssignmentID == sub.AssignmentID && existing.StudentID == sub.StudentID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		m.seq++
		sub.ID = fmt.Sprintf("sub-%d", m.seq)
		stored := sub
		m.submissions[sub.ID] = &stored
	}
	return nil
}

func (m *mockAssignmentRepo) GetSubmission(_ context.Context, id string) (*model.AssignmentSubmission, error) {
	if sub, ok := m.submissions[id]; ok {
		return sub, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAssignmentRepo) UpdateSubmission(_ context.Context, submission *model.AssignmentSubmission) error {
	m.submissions[submission.ID] = submission
	return nil
}

// ── Mock LookupRepository ──

type mockLookupRepo struct {
	grades   map[string]*model.Grade
	subjects map[string]*model.Subject
	types    map[string]*model.AssignmentType
	seq      int
}

func newMockLookupRepo() *mockLookupRepo {
	return &mockLookupRepo{
		grades:   make(map[string]*model.Grade),
		subjects: make(map[string]*model.Subject),
		types:    make(map[string]*model.AssignmentType),
	}
}

func (m *mockLookupRepo) CreateGrade(_ context.Context, grade *model.Grade) error {
	if grade.ID == "" {
		m.seq++
		grade.ID = fmt.Sprintf("grd-%d", m.seq)
	}
	m.grades[grade.ID] = grade
	return nil
}

func (m *mockLookupRepo) GetGradeByID(_ context.Context, id string) (*model.Grade, error) {
	if g, ok := m.grades[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLookupRepo) ListGrades(_ context.Context, activeOnly bool) ([]model.Grade, error) {
	var result []model.Grade
	for _, g := range m.grades {
		if activeOnly && !g.IsActive {
			continue
		}
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DisplayOrder < result[j].DisplayOrder })
	return result, nil
}

func (m *mockLookupRepo) UpdateGrade(_ context.Context, grade *model.Grade) error {
	m.grades[grade.ID] = grade
	return nil
}

func (m *mockLookupRepo) DeleteGrade(_ context.Context, id string) error {
	delete(m.grades, id)
	return nil
}

func (m *mockLookupRepo) MaxGradeDisplayOrder(_ context.Context) (int, error) {
	max := 0
	for _, g := range m.grades {
		if g.DisplayOrder > max {
			max = g.DisplayOrder
		}
	}
	return max, nil
}

func (m *mockLookupRepo) GetGradeByDisplayOrder(_ context.Context, order int) (*model.Grade, error) {
	for _, g := range m.grades {
		if g.DisplayOrder == order {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLookupRepo) SwapGradeOrder(_ context.Context, a, b *model.Grade) error {
	ga, ok := m.grades[a.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	gb, ok := m.grades[b.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	ga.DisplayOrder, gb.DisplayOrder = gb.DisplayOrder, ga.DisplayOrder
	return nil
}

func (m *mockLookupRepo) CreateSubject(_ context.Context, subject *model.Subject) error {
	if subject.ID == "" {
		m.seq++
		subject.ID = fmt.Sprintf("sbj-%d", m.seq)
	}
	m.subjects[subject.ID] = subject
	return nil
}

func (m *mockLookupRepo) GetSubjectByID(_ context.Context, id string) (*model.Subject, error) {
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLookupRepo) ListSubjects(_ context.Context) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockLookupRepo) ListSubjectsByIDs(_ context.Context, ids []string) ([]model.Subject, error) {
	var result []model.Subject
	for _, id := range ids {
		if s, ok := m.subjects[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (m *mockLookupRepo) UpdateSubject(_ context.Context, subject *model.Subject) error {
	m.subjects[subject.ID] = subject
	return nil
}

func (m *mockLookupRepo) DeleteSubject(_ context.Context, id string) error {
	delete(m.subjects, id)
	return nil
}

func (m *mockLookupRepo) CreateAssignmentType(_ context.Context, at *model.AssignmentType) error {
	if at.ID == "" {
		m.seq++
		at.ID = fmt.Sprintf("atp-%d", m.seq)
	}
	m.types[at.ID] = at
	return nil
}

func (m *mockLookupRepo) GetAssignmentTypeByID(_ context.Context, id string) (*model.AssignmentType, error) {
	if at, ok := m.types[id]; ok {
		return at, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLookupRepo) ListAssignmentTypes(_ context.Context, activeOnly bool) ([]model.AssignmentType, error) {
	var result []model.AssignmentType
	for _, at := range m.types {
		if activeOnly && !at.IsActive {
			continue
		}
		result = append(result, *at)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockLookupRepo) UpdateAssignmentType(_ context.Context, at *model.AssignmentType) error {
	m.types[at.ID] = at
	return nil
}

func (m *mockLookupRepo) DeleteAssignmentType(_ context.Context, id string) error {
	delete(m.types, id)
	return nil
}
