package dashboard

import (
	"context"

	"github.com/pollpulse/backend/internal/models"
)

// Store is the query surface the service delegates to. The repository
// implements it; tests substitute a fake.
type Store interface {
	GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error)
	UpdateStudentProfile(ctx context.Context, studentID string, update models.ProfileUpdate) (*models.StudentProfile, error)
	GetPollStatistics(ctx context.Context, studentID string) (models.PollStatistics, error)
	GetPollResults(ctx context.Context, studentID string, limit int64) ([]models.PollResult, error)
	GetPollResultByID(ctx context.Context, studentID, pollID string) (*models.PollResult, error)
	GetActivePolls(ctx context.Context, studentID string) ([]models.ActivePoll, error)
	GetUpcomingPolls(ctx context.Context, studentID string, limit int64) ([]models.UpcomingPoll, error)
	CreateStudentPoll(ctx context.Context, rec *models.StudentPollRecord) (string, error)
	UpdateStudentPoll(ctx context.Context, studentID, pollID string, update models.PollUpdate) (*models.StudentPollRecord, error)
	GetStudentPoll(ctx context.Context, studentID, pollID string) (*models.StudentPollRecord, error)
	GetDashboardData(ctx context.Context, studentID string) (*models.DashboardData, error)
	GetStudentAnalytics(ctx context.Context, studentID, timeRange string) ([]models.SubjectAnalytics, error)
	GetSubjectPerformance(ctx context.Context, studentID, subject string) (*models.SubjectPerformance, error)
}

// Service delegates dashboard operations to the store, filling in default
// parameters. It keeps the HTTP surface decoupled from the storage layer.
type Service struct {
	store Store
}

// NewService creates a dashboard service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetDashboardData returns the composite dashboard view.
func (s *Service) GetDashboardData(ctx context.Context, studentID string) (*models.DashboardData, error) {
	return s.store.GetDashboardData(ctx, studentID)
}

// GetPollStatistics returns the student's poll participation counts.
func (s *Service) GetPollStatistics(ctx context.Context, studentID string) (models.PollStatistics, error) {
	return s.store.GetPollStatistics(ctx, studentID)
}

// GetPollResults returns the student's most recent completed polls. A
// non-positive limit falls back to the default of 10.
func (s *Service) GetPollResults(ctx context.Context, studentID string, limit int64) ([]models.PollResult, error) {
	if limit <= 0 {
		limit = defaultResultLimit
	}
	return s.store.GetPollResults(ctx, studentID, limit)
}

// GetActivePolls returns polls the student can act on right now.
func (s *Service) GetActivePolls(ctx context.Context, studentID string) ([]models.ActivePoll, error) {
	return s.store.GetActivePolls(ctx, studentID)
}

// GetUpcomingPolls returns future scheduled polls, soonest first.
func (s *Service) GetUpcomingPolls(ctx context.Context, studentID string, limit int64) ([]models.UpcomingPoll, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	return s.store.GetUpcomingPolls(ctx, studentID, limit)
}

// GetStudentAnalytics returns per-subject aggregates over a trailing
// window; an empty timeRange defaults to 30 days.
func (s *Service) GetStudentAnalytics(ctx context.Context, studentID, timeRange string) ([]models.SubjectAnalytics, error) {
	if timeRange == "" {
		timeRange = "30d"
	}
	return s.store.GetStudentAnalytics(ctx, studentID, timeRange)
}

// GetSubjectPerformance returns the student's aggregate for one subject.
func (s *Service) GetSubjectPerformance(ctx context.Context, studentID, subject string) (*models.SubjectPerformance, error) {
	return s.store.GetSubjectPerformance(ctx, studentID, subject)
}

// UpdateStudentProfile applies a partial profile update.
func (s *Service) UpdateStudentProfile(ctx context.Context, studentID string, update models.ProfileUpdate) (*models.StudentProfile, error) {
	return s.store.UpdateStudentProfile(ctx, studentID, update)
}
