package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pollpulse/backend/internal/models"
)

// fakeStore records the arguments of the last call and returns canned data.
type fakeStore struct {
	lastStudentID string
	lastPollID    string
	lastLimit     int64
	lastTimeRange string
	lastSubject   string
	lastProfile   models.ProfileUpdate

	profile     *models.StudentProfile
	stats       models.PollStatistics
	results     []models.PollResult
	active      []models.ActivePoll
	upcoming    []models.UpcomingPoll
	dashboard   *models.DashboardData
	analytics   []models.SubjectAnalytics
	performance *models.SubjectPerformance
	err         error
}

func (f *fakeStore) GetStudentProfile(_ context.Context, studentID string) (*models.StudentProfile, error) {
	f.lastStudentID = studentID
	return f.profile, f.err
}

func (f *fakeStore) UpdateStudentProfile(_ context.Context, studentID string, update models.ProfileUpdate) (*models.StudentProfile, error) {
	f.lastStudentID = studentID
	f.lastProfile = update
	return f.profile, f.err
}

func (f *fakeStore) GetPollStatistics(_ context.Context, studentID string) (models.PollStatistics, error) {
	f.lastStudentID = studentID
	return f.stats, f.err
}

func (f *fakeStore) GetPollResults(_ context.Context, studentID string, limit int64) ([]models.PollResult, error) {
	f.lastStudentID = studentID
	f.lastLimit = limit
	return f.results, f.err
}

func (f *fakeStore) GetPollResultByID(_ context.Context, studentID, pollID string) (*models.PollResult, error) {
	f.lastStudentID = studentID
	f.lastPollID = pollID
	return nil, f.err
}

func (f *fakeStore) GetActivePolls(_ context.Context, studentID string) ([]models.ActivePoll, error) {
	f.lastStudentID = studentID
	return f.active, f.err
}

func (f *fakeStore) GetUpcomingPolls(_ context.Context, studentID string, limit int64) ([]models.UpcomingPoll, error) {
	f.lastStudentID = studentID
	f.lastLimit = limit
	return f.upcoming, f.err
}

func (f *fakeStore) CreateStudentPoll(_ context.Context, rec *models.StudentPollRecord) (string, error) {
	f.lastStudentID = rec.StudentID
	return "generated-id", f.err
}

func (f *fakeStore) UpdateStudentPoll(_ context.Context, studentID, pollID string, _ models.PollUpdate) (*models.StudentPollRecord, error) {
	f.lastStudentID = studentID
	f.lastPollID = pollID
	return nil, f.err
}

func (f *fakeStore) GetStudentPoll(_ context.Context, studentID, pollID string) (*models.StudentPollRecord, error) {
	f.lastStudentID = studentID
	f.lastPollID = pollID
	return nil, f.err
}

func (f *fakeStore) GetDashboardData(_ context.Context, studentID string) (*models.DashboardData, error) {
	f.lastStudentID = studentID
	return f.dashboard, f.err
}

func (f *fakeStore) GetStudentAnalytics(_ context.Context, studentID, timeRange string) ([]models.SubjectAnalytics, error) {
	f.lastStudentID = studentID
	f.lastTimeRange = timeRange
	return f.analytics, f.err
}

func (f *fakeStore) GetSubjectPerformance(_ context.Context, studentID, subject string) (*models.SubjectPerformance, error) {
	f.lastStudentID = studentID
	f.lastSubject = subject
	return f.performance, f.err
}

func TestServiceDefaultLimits(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.GetPollResults(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), store.lastLimit)

	_, err = svc.GetPollResults(ctx, "s1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), store.lastLimit)

	_, err = svc.GetUpcomingPolls(ctx, "s1", -1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), store.lastLimit)
}

func TestServiceDefaultTimeRange(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.GetStudentAnalytics(ctx, "s1", "")
	require.NoError(t, err)
	assert.Equal(t, "30d", store.lastTimeRange)

	// Non-empty ranges pass through untouched; the repository owns the
	// unknown-range fallback.
	_, err = svc.GetStudentAnalytics(ctx, "s1", "90d")
	require.NoError(t, err)
	assert.Equal(t, "90d", store.lastTimeRange)
}

func TestServiceDelegation(t *testing.T) {
	store := &fakeStore{
		dashboard: &models.DashboardData{StudentName: "Ada Lovelace"},
		stats:     models.PollStatistics{Total: 4, Taken: 3, Absent: 1},
	}
	svc := NewService(store)
	ctx := context.Background()

	data, err := svc.GetDashboardData(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", data.StudentName)
	assert.Equal(t, "s1", store.lastStudentID)

	stats, err := svc.GetPollStatistics(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, "s2", store.lastStudentID)

	first := "Ada"
	_, err = svc.UpdateStudentProfile(ctx, "s3", models.ProfileUpdate{FirstName: &first})
	require.NoError(t, err)
	require.NotNil(t, store.lastProfile.FirstName)
	assert.Equal(t, "Ada", *store.lastProfile.FirstName)
	assert.Nil(t, store.lastProfile.LastName)
}
