package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Theme is the dashboard color scheme preference.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// NotificationSettings holds per-channel notification opt-ins.
type NotificationSettings struct {
	Email         bool `bson:"email" json:"email"`
	Push          bool `bson:"push" json:"push"`
	PollReminders bool `bson:"pollReminders" json:"pollReminders"`
}

// Preferences holds a student's display and notification preferences.
type Preferences struct {
	Theme           Theme                `bson:"theme" json:"theme"`
	Notifications   NotificationSettings `bson:"notifications" json:"notifications"`
	DashboardLayout string               `bson:"dashboardLayout" json:"dashboardLayout"`
}

// ProfileStatistics is the denormalized summary block written at account
// provisioning time. Dashboard queries never read it; live aggregation over
// poll records is authoritative.
type ProfileStatistics struct {
	TotalPollsTaken  int        `bson:"totalPollsTaken" json:"totalPollsTaken"`
	TotalPollsAbsent int        `bson:"totalPollsAbsent" json:"totalPollsAbsent"`
	AverageScore     float64    `bson:"averageScore" json:"averageScore"`
	BestSubject      string     `bson:"bestSubject,omitempty" json:"bestSubject,omitempty"`
	LastActive       *time.Time `bson:"lastActive,omitempty" json:"lastActive,omitempty"`
}

// StudentProfile is one student's identity, preferences and summary stats.
type StudentProfile struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID   string             `bson:"studentId" json:"studentId"`
	AuthUID     string             `bson:"authUid" json:"authUid"`
	FirstName   string             `bson:"firstName" json:"firstName"`
	LastName    string             `bson:"lastName" json:"lastName"`
	Email       string             `bson:"email" json:"email"`
	Avatar      string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Grade       string             `bson:"grade,omitempty" json:"grade,omitempty"`
	Subjects    []string           `bson:"subjects" json:"subjects"`
	Preferences Preferences        `bson:"preferences" json:"preferences"`
	Statistics  ProfileStatistics  `bson:"statistics" json:"statistics"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ProfileUpdate is a partial profile update. Nil fields are left untouched.
// Preferences replaces the whole preferences subdocument when set.
type ProfileUpdate struct {
	FirstName   *string      `json:"firstName,omitempty"`
	LastName    *string      `json:"lastName,omitempty"`
	Avatar      *string      `json:"avatar,omitempty"`
	Grade       *string      `json:"grade,omitempty"`
	Subjects    []string     `json:"subjects,omitempty"`
	Preferences *Preferences `json:"preferences,omitempty"`
}
