package dto

// ── 课程表模块 DTO ──

// TimetableEntry 课程表中的一节课
type TimetableEntry struct {
	ScheduleID string `json:"schedule_id"`
	ClassID    string `json:"class_id"`
	ClassName  string `json:"class_name"`
	ClassType  string `json:"class_type"`
	StartTime  string `json:"start_time"` // "14:30"
	EndTime    string `json:"end_time"`
	Duration   int    `json:"duration"`
}

// TimetableDay 一周中某天的课程列表，按开始时间升序
type TimetableDay struct {
	DayOfWeek int              `json:"day_of_week"` // 0=周日 … 6=周六
	Entries   []TimetableEntry `json:"entries"`
}

// TimetableResponse 每周课程表，固定七天
type TimetableResponse struct {
	Days []TimetableDay `json:"days"`
}
