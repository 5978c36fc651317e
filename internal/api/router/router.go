package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/AnukaFonseka/tution-management-app/config"
	"github.com/AnukaFonseka/tution-management-app/internal/api/handler"
	"github.com/AnukaFonseka/tution-management-app/internal/api/middleware"
	"github.com/AnukaFonseka/tution-management-app/pkg/redis"
)

// 请求体大小上限
const maxBodyBytes = 1 << 20 // 1 MiB

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// 写操作速率限制（rdb 为 nil 时中间件直接放行）
	rateLimit := middleware.RateLimit(rdb,
		cfg.Server.RateLimit.Requests,
		time.Duration(cfg.Server.RateLimit.WindowSeconds)*time.Second)

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 学生模块
		students := v1.Group("/students")
		{
			students.GET("", h.Student.ListStudents)
			students.GET("/:id", h.Student.GetStudent)
			students.POST("", rateLimit, h.Student.CreateStudent)
			students.PUT("/:id", rateLimit, h.Student.UpdateStudent)
			students.DELETE("/:id", rateLimit, h.Student.DeleteStudent)
		}

		// 班级模块
		classes := v1.Group("/classes")
		{
			classes.GET("", h.Class.ListClasses)
			classes.GET("/:id", h.Class.GetClass)
			classes.POST("", rateLimit, h.Class.CreateClass)
			classes.PUT("/:id", rateLimit, h.Class.UpdateClass)
			classes.DELETE("/:id", rateLimit, h.Class.DeleteClass)
			classes.GET("/:id/assignments", h.Assignment.ListAssignmentsByClass)
			classes.POST("/:id/payments", rateLimit, h.Payment.EnsurePayment)
		}

		// 缴费模块
		payments := v1.Group("/payments")
		{
			payments.GET("", h.Payment.ListPayments)
			payments.GET("/:id", h.Payment.GetPayment)
			payments.PUT("/:id/status", rateLimit, h.Payment.UpdatePaymentStatus)
		}

		// 作业模块
		assignments := v1.Group("/assignments")
		{
			assignments.GET("/:id", h.Assignment.GetAssignment)
			assignments.POST("", rateLimit, h.Assignment.CreateAssignment)
			assignments.PUT("/:id", rateLimit, h.Assignment.UpdateAssignment)
			assignments.DELETE("/:id", rateLimit, h.Assignment.DeleteAssignment)
		}
		v1.PUT("/submissions/:id", rateLimit, h.Assignment.GradeSubmission)

		// 字典表模块：年级
		grades := v1.Group("/grades")
		{
			grades.GET("", h.Lookup.ListGrades)
			grades.POST("", rateLimit, h.Lookup.CreateGrade)
			grades.PUT("/:id", rateLimit, h.Lookup.UpdateGrade)
			grades.PUT("/:id/reorder", rateLimit, h.Lookup.ReorderGrade)
			grades.DELETE("/:id", rateLimit, h.Lookup.DeleteGrade)
		}

		// 字典表模块：科目
		subjects := v1.Group("/subjects")
		{
			subjects.GET("", h.Lookup.ListSubjects)
			subjects.POST("", rateLimit, h.Lookup.CreateSubject)
			subjects.PUT("/:id", rateLimit, h.Lookup.UpdateSubject)
			subjects.DELETE("/:id", rateLimit, h.Lookup.DeleteSubject)
		}

		// 字典表模块：作业类型
		assignmentTypes := v1.Group("/assignment-types")
		{
			assignmentTypes.GET("", h.Lookup.ListAssignmentTypes)
			assignmentTypes.POST("", rateLimit, h.Lookup.CreateAssignmentType)
			assignmentTypes.PUT("/:id", rateLimit, h.Lookup.UpdateAssignmentType)
			assignmentTypes.DELETE("/:id", rateLimit, h.Lookup.DeleteAssignmentType)
		}

		// 课程表模块
		timetable := v1.Group("/timetable")
		{
			timetable.GET("", h.Timetable.GetWeeklyTimetable)
			timetable.GET("/day", h.Timetable.GetDayTimetable)
		}

		// 仪表盘模块
		v1.GET("/dashboard", h.Dashboard.GetOverview)

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/payments", h.Export.ExportPayments)
			export.GET("/timetable", h.Export.ExportTimetable)
		}
	}

	return r
}
