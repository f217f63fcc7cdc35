package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/pollpulse/backend/internal/models"
)

const (
	// pollSessionBudget is the fixed time a student has once a poll starts.
	pollSessionBudget = 30 * time.Minute

	// startingWindow is how close a scheduled poll's start time must be
	// before it shows up as "starting" among the active polls.
	startingWindow = 5 * time.Minute

	defaultResultLimit   = 10
	defaultUpcomingLimit = 10

	dateLayout     = "Jan 2, 2006"
	dateTimeLayout = "Jan 2, 2006 3:04 PM"
)

// Repository issues dashboard queries against the student poll and profile
// collections. Collection handles are resolved once on first use. Methods
// pick up a Mongo session from ctx when the caller runs them inside
// mongo.WithSession; the repository never starts sessions itself.
type Repository struct {
	db           *mongo.Database
	pollsName    string
	profilesName string

	once     sync.Once
	polls    *mongo.Collection
	profiles *mongo.Collection
}

// NewRepository creates a dashboard repository over the given database.
func NewRepository(db *mongo.Database, pollsCollection, profilesCollection string) *Repository {
	return &Repository{db: db, pollsName: pollsCollection, profilesName: profilesCollection}
}

func (r *Repository) collections() (polls, profiles *mongo.Collection) {
	r.once.Do(func() {
		r.polls = r.db.Collection(r.pollsName)
		r.profiles = r.db.Collection(r.profilesName)
	})
	return r.polls, r.profiles
}

// GetStudentProfile returns the student's profile, or nil when absent.
func (r *Repository) GetStudentProfile(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	_, profiles := r.collections()

	var profile models.StudentProfile
	err := profiles.FindOne(ctx, bson.M{"studentId": studentID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student profile: %w", err)
	}
	return &profile, nil
}

// UpdateStudentProfile applies a partial update ($set only, no field
// removal) and stamps updatedAt. Returns the updated profile, or nil when
// no profile exists for the student.
func (r *Repository) UpdateStudentProfile(ctx context.Context, studentID string, update models.ProfileUpdate) (*models.StudentProfile, error) {
	_, profiles := r.collections()

	set := bson.M{"updatedAt": time.Now()}
	if update.FirstName != nil {
		set["firstName"] = *update.FirstName
	}
	if update.LastName != nil {
		set["lastName"] = *update.LastName
	}
	if update.Avatar != nil {
		set["avatar"] = *update.Avatar
	}
	if update.Grade != nil {
		set["grade"] = *update.Grade
	}
	if update.Subjects != nil {
		set["subjects"] = update.Subjects
	}
	if update.Preferences != nil {
		set["preferences"] = *update.Preferences
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var profile models.StudentProfile
	err := profiles.FindOneAndUpdate(ctx, bson.M{"studentId": studentID}, bson.M{"$set": set}, opts).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update student profile: %w", err)
	}
	return &profile, nil
}

type pollStatsRow struct {
	Total  int `bson:"total"`
	Taken  int `bson:"taken"`
	Absent int `bson:"absent"`
}

// GetPollStatistics counts the student's poll records by outcome. A student
// with no records gets all zeros, not an error.
func (r *Repository) GetPollStatistics(ctx context.Context, studentID string) (models.PollStatistics, error) {
	polls, _ := r.collections()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"studentId": studentID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": 1},
			"taken": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$in": bson.A{"$status", bson.A{models.StatusCompleted, models.StatusInProgress}}}, 1, 0},
			}},
			"absent": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$status", models.StatusAbsent}}, 1, 0},
			}},
		}}},
	}

	cursor, err := polls.Aggregate(ctx, pipeline)
	if err != nil {
		return models.PollStatistics{}, fmt.Errorf("poll statistics: %w", err)
	}
	var rows []pollStatsRow
	if err := cursor.All(ctx, &rows); err != nil {
		return models.PollStatistics{}, fmt.Errorf("poll statistics decode: %w", err)
	}
	return statisticsFrom(rows), nil
}

// GetPollResults returns up to limit most recently completed polls.
func (r *Repository) GetPollResults(ctx context.Context, studentID string, limit int64) ([]models.PollResult, error) {
	polls, _ := r.collections()
	if limit <= 0 {
		limit = defaultResultLimit
	}

	filter := bson.M{"studentId": studentID, "status": models.StatusCompleted}
	opts := options.Find().
		SetSort(bson.D{{Key: "completedAt", Value: -1}}).
		SetLimit(limit)

	cursor, err := polls.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("poll results: %w", err)
	}
	var records []models.StudentPollRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("poll results decode: %w", err)
	}

	results := make([]models.PollResult, 0, len(records))
	for _, rec := range records {
		results = append(results, toPollResult(rec))
	}
	return results, nil
}

// GetPollResultByID returns one completed poll result, or nil when the
// student has no completed record for that poll.
func (r *Repository) GetPollResultByID(ctx context.Context, studentID, pollID string) (*models.PollResult, error) {
	polls, _ := r.collections()

	var rec models.StudentPollRecord
	err := polls.FindOne(ctx, bson.M{"studentId": studentID, "pollId": pollID, "status": models.StatusCompleted}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("poll result by id: %w", err)
	}
	result := toPollResult(rec)
	return &result, nil
}

// GetActivePolls returns polls the student can act on right now: records in
// progress (status "ongoing", countdown timer) plus scheduled records whose
// start time falls within the next few minutes (status "starting").
func (r *Repository) GetActivePolls(ctx context.Context, studentID string) ([]models.ActivePoll, error) {
	polls, _ := r.collections()
	now := time.Now()

	filter := bson.M{
		"studentId": studentID,
		"$or": bson.A{
			bson.M{"status": models.StatusInProgress},
			bson.M{"status": models.StatusScheduled, "scheduledFor": bson.M{"$gt": now, "$lte": now.Add(startingWindow)}},
		},
	}

	cursor, err := polls.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("active polls: %w", err)
	}
	var records []models.StudentPollRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("active polls decode: %w", err)
	}

	active := make([]models.ActivePoll, 0, len(records))
	for _, rec := range records {
		active = append(active, toActivePoll(rec, now))
	}
	return active, nil
}

// GetUpcomingPolls returns up to limit scheduled polls whose start time is
// strictly in the future, soonest first.
func (r *Repository) GetUpcomingPolls(ctx context.Context, studentID string, limit int64) ([]models.UpcomingPoll, error) {
	polls, _ := r.collections()
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	now := time.Now()

	filter := bson.M{
		"studentId":    studentID,
		"status":       models.StatusScheduled,
		"scheduledFor": bson.M{"$gt": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "scheduledFor", Value: 1}}).
		SetLimit(limit)

	cursor, err := polls.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("upcoming polls: %w", err)
	}
	var records []models.StudentPollRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("upcoming polls decode: %w", err)
	}

	upcoming := make([]models.UpcomingPoll, 0, len(records))
	for _, rec := range records {
		upcoming = append(upcoming, toUpcomingPoll(rec, now))
	}
	return upcoming, nil
}

// CreateStudentPoll inserts a new poll record and returns its generated id.
func (r *Repository) CreateStudentPoll(ctx context.Context, rec *models.StudentPollRecord) (string, error) {
	polls, _ := r.collections()

	now := time.Now()
	if rec.Status == "" {
		rec.Status = models.StatusScheduled
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	res, err := polls.InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("create student poll: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("create student poll: unexpected inserted id %v", res.InsertedID)
	}
	return oid.Hex(), nil
}

// UpdateStudentPoll applies a partial update to a (student, poll) record and
// stamps updatedAt. Returns the updated record, or nil when absent.
func (r *Repository) UpdateStudentPoll(ctx context.Context, studentID, pollID string, update models.PollUpdate) (*models.StudentPollRecord, error) {
	polls, _ := r.collections()

	set := bson.M{"updatedAt": time.Now()}
	if update.PollTitle != nil {
		set["pollTitle"] = *update.PollTitle
	}
	if update.Subject != nil {
		set["subject"] = *update.Subject
	}
	if update.Score != nil {
		set["score"] = *update.Score
	}
	if update.MaxScore != nil {
		set["maxScore"] = *update.MaxScore
	}
	if update.Percentage != nil {
		set["percentage"] = *update.Percentage
	}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.StartedAt != nil {
		set["startedAt"] = *update.StartedAt
	}
	if update.CompletedAt != nil {
		set["completedAt"] = *update.CompletedAt
	}
	if update.ScheduledFor != nil {
		set["scheduledFor"] = *update.ScheduledFor
	}
	if update.Answers != nil {
		set["answers"] = update.Answers
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var rec models.StudentPollRecord
	err := polls.FindOneAndUpdate(ctx, bson.M{"studentId": studentID, "pollId": pollID}, bson.M{"$set": set}, opts).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update student poll: %w", err)
	}
	return &rec, nil
}

// GetStudentPoll returns the raw (student, poll) record, or nil when absent.
func (r *Repository) GetStudentPoll(ctx context.Context, studentID, pollID string) (*models.StudentPollRecord, error) {
	polls, _ := r.collections()

	var rec models.StudentPollRecord
	err := polls.FindOne(ctx, bson.M{"studentId": studentID, "pollId": pollID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get student poll: %w", err)
	}
	return &rec, nil
}

// GetDashboardData composes the full dashboard view. The five constituent
// reads run concurrently; any failure fails the whole composite. A missing
// profile degrades to the default display name rather than failing.
func (r *Repository) GetDashboardData(ctx context.Context, studentID string) (*models.DashboardData, error) {
	var (
		profile  *models.StudentProfile
		stats    models.PollStatistics
		results  []models.PollResult
		active   []models.ActivePoll
		upcoming []models.UpcomingPoll
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		profile, err = r.GetStudentProfile(gctx, studentID)
		return err
	})
	g.Go(func() (err error) {
		stats, err = r.GetPollStatistics(gctx, studentID)
		return err
	})
	g.Go(func() (err error) {
		results, err = r.GetPollResults(gctx, studentID, 5)
		return err
	})
	g.Go(func() (err error) {
		active, err = r.GetActivePolls(gctx, studentID)
		return err
	})
	g.Go(func() (err error) {
		upcoming, err = r.GetUpcomingPolls(gctx, studentID, 5)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &models.DashboardData{
		StudentName:    displayName(profile),
		PollStatistics: stats,
		PollResults:    results,
		ActivePolls:    active,
		UpcomingPolls:  upcoming,
	}, nil
}

// GetStudentAnalytics aggregates the student's records per subject over a
// trailing window ("7d", "30d" or "90d"; anything else falls back to 30d),
// sorted by average score descending.
func (r *Repository) GetStudentAnalytics(ctx context.Context, studentID, timeRange string) ([]models.SubjectAnalytics, error) {
	polls, _ := r.collections()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"studentId": studentID,
			"createdAt": bson.M{"$gte": windowStart(timeRange, time.Now())},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":           "$subject",
			"totalPolls":    bson.M{"$sum": 1},
			"averageScore":  bson.M{"$avg": "$percentage"},
			"bestScore":     bson.M{"$max": "$percentage"},
			"totalScore":    bson.M{"$sum": "$score"},
			"totalMaxScore": bson.M{"$sum": "$maxScore"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "averageScore", Value: -1}}}},
	}

	cursor, err := polls.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("student analytics: %w", err)
	}
	var rows []models.SubjectAnalytics
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("student analytics decode: %w", err)
	}
	return rows, nil
}

type subjectPerformanceRow struct {
	TotalPolls   int       `bson:"totalPolls"`
	AverageScore float64   `bson:"averageScore"`
	BestScore    float64   `bson:"bestScore"`
	WorstScore   float64   `bson:"worstScore"`
	Percentages  []float64 `bson:"percentages"`
}

// GetSubjectPerformance aggregates the student's completed polls in one
// subject. Improvement compares the most recent percentage against the mean
// of all prior ones. Returns nil when the student has no completed polls in
// the subject.
func (r *Repository) GetSubjectPerformance(ctx context.Context, studentID, subject string) (*models.SubjectPerformance, error) {
	polls, _ := r.collections()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"studentId": studentID, "subject": subject, "status": models.StatusCompleted}}},
		{{Key: "$sort", Value: bson.D{{Key: "completedAt", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalPolls":   bson.M{"$sum": 1},
			"averageScore": bson.M{"$avg": "$percentage"},
			"bestScore":    bson.M{"$max": "$percentage"},
			"worstScore":   bson.M{"$min": "$percentage"},
			"percentages":  bson.M{"$push": "$percentage"},
		}}},
	}

	cursor, err := polls.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("subject performance: %w", err)
	}
	var rows []subjectPerformanceRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("subject performance decode: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	return &models.SubjectPerformance{
		TotalPolls:   row.TotalPolls,
		AverageScore: row.AverageScore,
		BestScore:    row.BestScore,
		WorstScore:   row.WorstScore,
		Improvement:  improvementOf(row.Percentages),
	}, nil
}

func statisticsFrom(rows []pollStatsRow) models.PollStatistics {
	if len(rows) == 0 {
		return models.PollStatistics{}
	}
	return models.PollStatistics{Total: rows[0].Total, Taken: rows[0].Taken, Absent: rows[0].Absent}
}

func displayName(profile *models.StudentProfile) string {
	if profile == nil {
		return "Student"
	}
	return profile.FirstName + " " + profile.LastName
}

func toPollResult(rec models.StudentPollRecord) models.PollResult {
	return models.PollResult{
		ID:         rec.PollID,
		Name:       rec.PollTitle,
		Subject:    rec.Subject,
		Score:      rec.Score,
		MaxScore:   rec.MaxScore,
		Date:       formatDate(rec.CompletedAt),
		Percentage: rec.Percentage,
	}
}

func toActivePoll(rec models.StudentPollRecord, now time.Time) models.ActivePoll {
	status := models.ActiveStarting
	if rec.Status == models.StatusInProgress {
		status = models.ActiveOngoing
	}
	return models.ActivePoll{
		ID:     rec.PollID,
		Title:  rec.PollTitle,
		Type:   rec.PollType,
		Timer:  remainingTime(rec.StartedAt, now),
		Status: status,
	}
}

func toUpcomingPoll(rec models.StudentPollRecord, now time.Time) models.UpcomingPoll {
	var scheduled string
	var priority models.Priority = models.PriorityLow
	if rec.ScheduledFor != nil {
		scheduled = rec.ScheduledFor.Format(dateTimeLayout)
		priority = priorityFor(*rec.ScheduledFor, now)
	}
	return models.UpcomingPoll{
		ID:            rec.PollID,
		Title:         rec.PollTitle,
		ScheduledTime: scheduled,
		Type:          rec.PollType,
		Priority:      priority,
	}
}

// remainingTime formats the time left in the fixed poll session budget as
// MM:SS. A record with no start time reads "00:00".
func remainingTime(startedAt *time.Time, now time.Time) string {
	if startedAt == nil {
		return "00:00"
	}
	elapsed := int(now.Sub(*startedAt).Seconds())
	remaining := int(pollSessionBudget.Seconds()) - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
}

// priorityFor ranks an upcoming poll: within the hour is high, within the
// day is medium, anything later is low.
func priorityFor(scheduledFor, now time.Time) models.Priority {
	until := scheduledFor.Sub(now)
	switch {
	case until <= time.Hour:
		return models.PriorityHigh
	case until <= 24*time.Hour:
		return models.PriorityMedium
	default:
		return models.PriorityLow
	}
}

// windowStart returns the lower bound of an analytics time window. Unknown
// ranges silently fall back to 30 days.
func windowStart(timeRange string, now time.Time) time.Time {
	switch timeRange {
	case "7d":
		return now.AddDate(0, 0, -7)
	case "90d":
		return now.AddDate(0, 0, -90)
	default: // "30d" and anything unrecognized
		return now.AddDate(0, 0, -30)
	}
}

// improvementOf compares the most recent percentage (last element; callers
// push in completedAt order) against the mean of all prior ones.
func improvementOf(percentages []float64) float64 {
	if len(percentages) < 2 {
		return 0
	}
	latest := percentages[len(percentages)-1]
	var sum float64
	for _, p := range percentages[:len(percentages)-1] {
		sum += p
	}
	return latest - sum/float64(len(percentages)-1)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
