package dashboard

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pollpulse/backend/internal/middleware"
	"github.com/pollpulse/backend/internal/models"
	"github.com/pollpulse/backend/pkg/response"
)

// Handler handles student dashboard HTTP endpoints.
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a dashboard handler.
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the dashboard routes on the given group.
func (h *Handler) Register(g *gin.RouterGroup) {
	g.GET("/:studentId", h.GetDashboard)
	g.GET("/:studentId/statistics", h.GetStatistics)
	g.GET("/:studentId/results", h.GetResults)
	g.GET("/:studentId/active-polls", h.GetActivePolls)
	g.GET("/:studentId/upcoming-polls", h.GetUpcomingPolls)
	g.GET("/:studentId/analytics", h.GetAnalytics)
	g.GET("/:studentId/subjects/:subject/performance", h.GetSubjectPerformance)
	g.PUT("/:studentId/profile", h.UpdateProfile)
}

// studentID validates the path parameter and enforces that a student token
// only reads its own dashboard. Teachers and admins may read any student.
func (h *Handler) studentID(c *gin.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("studentId"))
	if err != nil {
		response.BadRequest(c, "invalid student id")
		return "", false
	}
	if role := c.GetString(middleware.ContextUserRole); role == "" || role == "student" {
		if uid, ok := c.Get(middleware.ContextUserID); ok {
			if tokenID, ok := uid.(uuid.UUID); ok && tokenID != id {
				response.Forbidden(c, "cannot access another student's dashboard")
				return "", false
			}
		}
	}
	return id.String(), true
}

// GetDashboard handles GET /student-dashboard/:studentId.
func (h *Handler) GetDashboard(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	data, err := h.service.GetDashboardData(c.Request.Context(), studentID)
	if err != nil {
		h.logger.Error("dashboard data", zap.String("student_id", studentID), zap.Error(err))
		response.Internal(c, "failed to load dashboard")
		return
	}
	response.OK(c, data)
}

// GetStatistics handles GET /student-dashboard/:studentId/statistics.
func (h *Handler) GetStatistics(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	stats, err := h.service.GetPollStatistics(c.Request.Context(), studentID)
	if err != nil {
		h.logger.Error("poll statistics", zap.String("student_id", studentID), zap.Error(err))
		response.Internal(c, "failed to load statistics")
		return
	}
	response.OK(c, stats)
}

// GetResults handles GET /student-dashboard/:studentId/results.
func (h *Handler) GetResults(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	limit := parseLimit(c.Query("limit"))
	results, err := h.service.GetPollResults(c.Request.Context(), studentID, limit)
	if err != nil {
		h.logger.Error("poll results", zap.String("student_id", studentID), zap.Error(err))
		response.Internal(c, "failed to load results")
		return
	}
	response.OK(c, results)
}

// GetActivePolls handles GET /student-dashboard/:studentId/active-polls.
func (h *Handler) GetActivePolls(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	active, err := h.service.GetActivePolls(c.Request.Context(), studentID)
	if err != nil {
		h.logger.Error("active polls", zap.String("student_id", studentID), zap.Error(err))
		response.Internal(c, "failed to load active polls")
		return
	}
	response.OK(c, active)
}

// GetUpcomingPolls handles GET /student-dashboard/:studentId/upcoming-polls.
func (h *Handler) GetUpcomingPolls(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	limit := parseLimit(c.Query("limit"))
	upcoming, err := h.service.GetUpcomingPolls(c.Request.Context(), studentID, limit)
	if err != nil {
		h.logger.Error("upcoming polls", zap.String("student_id", studentID), zap.Error(err))
		response.Internal(c, "failed to load upcoming polls")
		return
	}
	response.OK(c, upcoming)
}

// GetAnalytics handles GET /student-dashboard/:studentId/analytics.
func (h *Handler) GetAnalytics(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	timeRange := c.DefaultQuery("timeRange", "30d")
	rows, err := h.service.GetStudentAnalytics(c.Request.Context(), studentID, timeRange)
	if err != nil {
		h.logger.Error("student analytics", zap.String("student_id", studentID), zap.Error(err))
		response.Internal(c, "failed to load analytics")
		return
	}
	response.OK(c, rows)
}

// GetSubjectPerformance handles GET /student-dashboard/:studentId/subjects/:subject/performance.
func (h *Handler) GetSubjectPerformance(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	subject := c.Param("subject")
	if subject == "" {
		response.BadRequest(c, "missing subject")
		return
	}
	perf, err := h.service.GetSubjectPerformance(c.Request.Context(), studentID, subject)
	if err != nil {
		h.logger.Error("subject performance", zap.String("student_id", studentID), zap.String("subject", subject), zap.Error(err))
		response.Internal(c, "failed to load subject performance")
		return
	}
	if perf == nil {
		response.NotFound(c, "no completed polls for subject")
		return
	}
	response.OK(c, perf)
}

// UpdateProfile handles PUT /student-dashboard/:studentId/profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	studentID, ok := h.studentID(c)
	if !ok {
		return
	}
	var update models.ProfileUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	profile, err := h.service.UpdateStudentProfile(c.Request.Context(), studentID, update)
	if err != nil {
		h.logger.Error("update profile", zap.String("student_id", studentID), zap.Error(err))
		response.Internal(c, "failed to update profile")
		return
	}
	if profile == nil {
		response.NotFound(c, "student profile not found")
		return
	}
	response.OK(c, profile)
}

func parseLimit(raw string) int64 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
