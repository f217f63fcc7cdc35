package models

// PollStatistics counts a student's poll records by participation outcome.
// total = taken + absent + still-scheduled.
type PollStatistics struct {
	Total  int `json:"total"`
	Taken  int `json:"taken"`
	Absent int `json:"absent"`
}

// PollResult is one completed poll shaped for the results list.
type PollResult struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Subject    string  `json:"subject"`
	Score      float64 `json:"score"`
	MaxScore   float64 `json:"maxScore"`
	Date       string  `json:"date"` // display string, e.g. "Mar 5, 2026"
	Percentage float64 `json:"percentage"`
}

// ActivePollStatus distinguishes polls already running from ones about to.
type ActivePollStatus string

const (
	ActiveOngoing  ActivePollStatus = "ongoing"
	ActiveStarting ActivePollStatus = "starting"
)

// ActivePoll is a poll a student can act on right now.
type ActivePoll struct {
	ID     string           `json:"id"`
	Title  string           `json:"title"`
	Type   PollType         `json:"type"`
	Timer  string           `json:"timer"` // MM:SS remaining, "00:00" if not started
	Status ActivePollStatus `json:"status"`
}

// Priority ranks how soon an upcoming poll starts.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// UpcomingPoll is a scheduled poll shaped for the upcoming list.
type UpcomingPoll struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	ScheduledTime string   `json:"scheduledTime"` // display string
	Type          PollType `json:"type"`
	Priority      Priority `json:"priority"`
}

// DashboardData is the composite dashboard view.
type DashboardData struct {
	StudentName    string         `json:"studentName"`
	PollStatistics PollStatistics `json:"pollStatistics"`
	PollResults    []PollResult   `json:"pollResults"`
	ActivePolls    []ActivePoll   `json:"activePolls"`
	UpcomingPolls  []UpcomingPoll `json:"upcomingPolls"`
}

// SubjectAnalytics is one per-subject row of the analytics aggregation.
// Subject decodes from the aggregation group key.
type SubjectAnalytics struct {
	Subject       string  `bson:"_id" json:"subject"`
	TotalPolls    int     `bson:"totalPolls" json:"totalPolls"`
	AverageScore  float64 `bson:"averageScore" json:"averageScore"`
	BestScore     float64 `bson:"bestScore" json:"bestScore"`
	TotalScore    float64 `bson:"totalScore" json:"totalScore"`
	TotalMaxScore float64 `bson:"totalMaxScore" json:"totalMaxScore"`
}

// SubjectPerformance summarizes a student's completed polls in one subject.
// Improvement is the latest percentage minus the mean of all prior ones;
// zero when there are fewer than two completed polls.
type SubjectPerformance struct {
	TotalPolls   int     `json:"totalPolls"`
	AverageScore float64 `json:"averageScore"`
	BestScore    float64 `json:"bestScore"`
	WorstScore   float64 `json:"worstScore"`
	Improvement  float64 `json:"improvement"`
}
