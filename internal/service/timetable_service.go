package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/model"
	"github.com/AnukaFonseka/tution-management-app/internal/repository"
)

// TimetableService 课程表业务接口
type TimetableService interface {
	// Weekly 返回整周课程表，固定七天（0=周日 … 6=周六），每天按开始时间升序
	Weekly(ctx context.Context) (*dto.TimetableResponse, error)
	// Day 返回某一天的课程列表（仪表盘"今日课程"）
	Day(ctx context.Context, dayOfWeek int) (*dto.TimetableDay, error)
}

type timetableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimetableService 创建 TimetableService 实例
func NewTimetableService(repo *repository.Repository, logger *zap.Logger) TimetableService {
	return &timetableService{repo: repo, logger: logger}
}

// ────────────────────── Weekly ──────────────────────

func (s *timetableService) Weekly(ctx context.Context) (*dto.TimetableResponse, error) {
	schedules, err := s.repo.Class.ListAllSchedules(ctx)
	if err != nil {
		s.logger.Error("查询课程表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.TimetableResponse{Days: make([]dto.TimetableDay, 7)}
	for d := 0; d < 7; d++ {
		resp.Days[d] = dto.TimetableDay{DayOfWeek: d, Entries: []dto.TimetableEntry{}}
	}

	for i := range schedules {
		sch := &schedules[i]
		if sch.DayOfWeek < 0 || sch.DayOfWeek > 6 || sch.Class == nil {
			continue
		}
		resp.Days[sch.DayOfWeek].Entries = append(resp.Days[sch.DayOfWeek].Entries, toTimetableEntry(sch))
	}

	for d := range resp.Days {
		entries := resp.Days[d].Entries
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].StartTime < entries[j].StartTime
		})
	}

	return resp, nil
}

// ────────────────────── Day ──────────────────────

func (s *timetableService) Day(ctx context.Context, dayOfWeek int) (*dto.TimetableDay, error) {
	weekly, err := s.Weekly(ctx)
	if err != nil {
		return nil, err
	}
	day := weekly.Days[((dayOfWeek%7)+7)%7]
	return &day, nil
}

// ────────────────────── 响应转换 ──────────────────────

func toTimetableEntry(sch *model.ClassSchedule) dto.TimetableEntry {
	return dto.TimetableEntry{
		ScheduleID: sch.ID,
		ClassID:    sch.ClassID,
		ClassName:  sch.Class.Name,
		ClassType:  sch.Class.ClassType,
		StartTime:  sch.StartTime,
		EndTime:    addMinutes(sch.StartTime, sch.Duration),
		Duration:   sch.Duration,
	}
}

// addMinutes 在 "HH:MM" 上加分钟数，超过午夜时回绕到次日时刻
func addMinutes(startTime string, minutes int) string {
	t, err := time.Parse("15:04", startTime)
	if err != nil {
		// 兼容带秒的 time 列格式
		t, err = time.Parse("15:04:05", startTime)
		if err != nil {
			return startTime
		}
	}
	t = t.Add(time.Duration(minutes) * time.Minute)
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}
