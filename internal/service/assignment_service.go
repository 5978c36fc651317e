package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/model"
	"github.com/AnukaFonseka/tution-management-app/internal/repository"
)

// ── 作业模块业务错误 ──

var (
	ErrAssignmentNotFound     = errors.New("作业不存在")
	ErrAssignmentDateInvalid  = errors.New("作业日期格式不正确")
	ErrAssignmentTypeUnknown  = errors.New("作业类型不存在")
	ErrSubmissionNotFound     = errors.New("作业提交记录不存在")
	ErrSubmissionMarksInvalid = errors.New("得分不能超过总分")
)

const assignmentDateLayout = "2006-01-02"

// AssignmentService 作业业务接口
//
// 设计说明：
//   - 创建作业时为班级当前在读学生各生成一条空白提交记录；
//     之后加入班级的学生不补建（成绩册以布置时点的名单为准）
type AssignmentService interface {
	Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AssignmentResponse, error)
	ListByClass(ctx context.Context, classID string) ([]dto.AssignmentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error)
	Delete(ctx context.Context, id string) error
	GradeSubmission(ctx context.Context, submissionID string, req *dto.GradeSubmissionRequest, now time.Time) (*dto.SubmissionResponse, error)
}

type assignmentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAssignmentService 创建 AssignmentService 实例
func NewAssignmentService(repo *repository.Repository, logger *zap.Logger) AssignmentService {
	return &assignmentService{repo: repo, logger: logger}
}

// validateType 校验作业类型在字典表中存在（可空）
func (s *assignmentService) validateType(ctx context.Context, typeID *string) error {
	if typeID == nil {
		return nil
	}
	if _, err := s.repo.Lookup.GetAssignmentTypeByID(ctx, *typeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentTypeUnknown
		}
		s.logger.Error("查询作业类型失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Create ──────────────────────

func (s *assignmentService) Create(ctx context.Context, req *dto.CreateAssignmentRequest) (*dto.AssignmentResponse, error) {
	givenDate, err := time.Parse(assignmentDateLayout, req.GivenDate)
	if err != nil {
		return nil, ErrAssignmentDateInvalid
	}
	deadline, err := time.Parse(assignmentDateLayout, req.Deadline)
	if err != nil || deadline.Before(givenDate) {
		return nil, ErrAssignmentDateInvalid
	}
	if err := s.validateType(ctx, req.AssignmentTypeID); err != nil {
		return nil, err
	}

	if _, err := s.repo.Class.GetByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.String("id", req.ClassID), zap.Error(err))
		return nil, err
	}

	assignment := &model.Assignment{
		ClassID:          req.ClassID,
		Name:             req.Name,
		AssignmentTypeID: req.AssignmentTypeID,
		GivenDate:        givenDate,
		Deadline:         deadline,
		DocumentURL:      req.DocumentURL,
		Description:      req.Description,
		TotalMarks:       req.TotalMarks,
	}
	if err := s.repo.Assignment.Create(ctx, assignment); err != nil {
		s.logger.Error("创建作业失败", zap.Error(err))
		return nil, err
	}

	// 为当前在读学生批量生成空白提交记录
	enrollments, err := s.repo.Enrollment.ListByClass(ctx, req.ClassID)
	if err != nil {
		s.logger.Error("查询班级学生失败", zap.String("id", req.ClassID), zap.Error(err))
		return nil, err
	}
	submissions := make([]model.AssignmentSubmission, 0, len(enrollments))
	for _, e := range enrollments {
		submissions = append(submissions, model.AssignmentSubmission{
			AssignmentID: assignment.ID,
			StudentID:    e.StudentID,
		})
	}
	if err := s.repo.Assignment.BatchCreateSubmissions(ctx, submissions); err != nil {
		s.logger.Error("生成提交记录失败", zap.String("assignment_id", assignment.ID), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, assignment.ID)
}

// ────────────────────── GetByID ──────────────────────

func (s *assignmentService) GetByID(ctx context.Context, id string) (*dto.AssignmentResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toAssignmentResponse(assignment)
	return &resp, nil
}

// ────────────────────── ListByClass ──────────────────────

func (s *assignmentService) ListByClass(ctx context.Context, classID string) ([]dto.AssignmentResponse, error) {
	assignments, err := s.repo.Assignment.ListByClass(ctx, classID)
	if err != nil {
		s.logger.Error("列出作业失败", zap.String("class_id", classID), zap.Error(err))
		return nil, err
	}
	result := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		result = append(result, toAssignmentResponse(&assignments[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *assignmentService) Update(ctx context.Context, id string, req *dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	assignment, err := s.repo.Assignment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		assignment.Name = *req.Name
	}
	if req.AssignmentTypeID != nil {
		if err := s.validateType(ctx, req.AssignmentTypeID); err != nil {
			return nil, err
		}
		assignment.AssignmentTypeID = req.AssignmentTypeID
	}
	if req.GivenDate != nil {
		givenDate, err := time.Parse(assignmentDateLayout, *req.GivenDate)
		if err != nil {
			return nil, ErrAssignmentDateInvalid
		}
		assignment.GivenDate = givenDate
	}
	if req.Deadline != nil {
		deadline, err := time.Parse(assignmentDateLayout, *req.Deadline)
		if err != nil {
			return nil, ErrAssignmentDateInvalid
		}
		assignment.Deadline = deadline
	}
	if assignment.Deadline.Before(assignment.GivenDate) {
		return nil, ErrAssignmentDateInvalid
	}
	if req.DocumentURL != nil {
		assignment.DocumentURL = req.DocumentURL
	}
	if req.Description != nil {
		assignment.Description = req.Description
	}
	if req.TotalMarks != nil {
		assignment.TotalMarks = *req.TotalMarks
	}

	assignment.Submissions = nil
	if err := s.repo.Assignment.Update(ctx, assignment); err != nil {
		s.logger.Error("更新作业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *assignmentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Assignment.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentNotFound
		}
		s.logger.Error("查询作业失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 提交记录由外键级联删除
	if err := s.repo.Assignment.Delete(ctx, id); err != nil {
		s.logger.Error("删除作业失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── GradeSubmission ──────────────────────

func (s *assignmentService) GradeSubmission(ctx context.Context, submissionID string, req *dto.GradeSubmissionRequest, now time.Time) (*dto.SubmissionResponse, error) {
	submission, err := s.repo.Assignment.GetSubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		s.logger.Error("查询提交记录失败", zap.String("id", submissionID), zap.Error(err))
		return nil, err
	}

	if req.MarksObtained != nil {
		assignment, err := s.repo.Assignment.GetByID(ctx, submission.AssignmentID)
		if err != nil {
			s.logger.Error("查询作业失败", zap.String("id", submission.AssignmentID), zap.Error(err))
			return nil, err
		}
		if *req.MarksObtained > assignment.TotalMarks {
			return nil, ErrSubmissionMarksInvalid
		}
		submission.MarksObtained = req.MarksObtained
	}
	if req.Remarks != nil {
		submission.Remarks = req.Remarks
	}
	if req.Submitted != nil {
		if *req.Submitted {
			if submission.SubmittedAt == nil {
				submission.SubmittedAt = &now
			}
		} else {
			submission.SubmittedAt = nil
		}
	}

	if err := s.repo.Assignment.UpdateSubmission(ctx, submission); err != nil {
		s.logger.Error("更新提交记录失败", zap.String("id", submissionID), zap.Error(err))
		return nil, err
	}

	resp := toSubmissionResponse(submission)
	return &resp, nil
}

// ────────────────────── 响应转换 ──────────────────────

func toSubmissionResponse(sub *model.AssignmentSubmission) dto.SubmissionResponse {
	resp := dto.SubmissionResponse{
		ID:            sub.ID,
		StudentID:     sub.StudentID,
		MarksObtained: sub.MarksObtained,
		Remarks:       sub.Remarks,
	}
	if sub.Student != nil {
		resp.StudentName = sub.Student.Name
	}
	if sub.SubmittedAt != nil {
		at := sub.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &at
	}
	return resp
}

func toAssignmentResponse(a *model.Assignment) dto.AssignmentResponse {
	resp := dto.AssignmentResponse{
		ID:               a.ID,
		ClassID:          a.ClassID,
		Name:             a.Name,
		AssignmentTypeID: a.AssignmentTypeID,
		GivenDate:        a.GivenDate.Format(assignmentDateLayout),
		Deadline:         a.Deadline.Format(assignmentDateLayout),
		DocumentURL:      a.DocumentURL,
		Description:      a.Description,
		TotalMarks:       a.TotalMarks,
	}
	if a.Type != nil {
		resp.TypeName = a.Type.Name
	}
	for i := range a.Submissions {
		resp.Submissions = append(resp.Submissions, toSubmissionResponse(&a.Submissions[i]))
	}
	return resp
}
