package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PollType is the kind of poll a student participated in.
type PollType string

const (
	PollTypeMCQ       PollType = "MCQ"
	PollTypeWordCloud PollType = "Word Cloud"
	PollTypeOpenEnded PollType = "Open Ended"
)

// PollStatus is the lifecycle state of a student's poll record.
type PollStatus string

const (
	StatusScheduled  PollStatus = "scheduled"
	StatusInProgress PollStatus = "in_progress"
	StatusCompleted  PollStatus = "completed"
	StatusAbsent     PollStatus = "absent"
)

// AnswerValue is the polymorphic answer payload. Exactly one of the fields
// is set depending on the question type: Text for open-ended, Number for
// numeric, Choices for MCQ selections.
type AnswerValue struct {
	Text    *string  `bson:"text,omitempty" json:"text,omitempty"`
	Number  *float64 `bson:"number,omitempty" json:"number,omitempty"`
	Choices []string `bson:"choices,omitempty" json:"choices,omitempty"`
}

// PollAnswer is one answered question within a poll record.
type PollAnswer struct {
	QuestionID string      `bson:"questionId" json:"questionId"`
	Answer     AnswerValue `bson:"answer" json:"answer"`
	IsCorrect  bool        `bson:"isCorrect" json:"isCorrect"`
	AnsweredAt time.Time   `bson:"answeredAt" json:"answeredAt"`
}

// StudentPollRecord is one student's participation in a single poll.
// Created and transitioned by the poll-taking subsystem; the dashboard
// reads it and shapes it into display DTOs.
type StudentPollRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudentID    string             `bson:"studentId" json:"studentId"`
	PollID       string             `bson:"pollId" json:"pollId"`
	RoomID       string             `bson:"roomId" json:"roomId"`
	PollTitle    string             `bson:"pollTitle" json:"pollTitle"`
	PollType     PollType           `bson:"pollType" json:"pollType"`
	Subject      string             `bson:"subject" json:"subject"`
	Score        float64            `bson:"score" json:"score"`
	MaxScore     float64            `bson:"maxScore" json:"maxScore"`
	Percentage   float64            `bson:"percentage" json:"percentage"`
	Status       PollStatus         `bson:"status" json:"status"`
	StartedAt    *time.Time         `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	CompletedAt  *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	ScheduledFor *time.Time         `bson:"scheduledFor,omitempty" json:"scheduledFor,omitempty"`
	Answers      []PollAnswer       `bson:"answers" json:"answers"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PollUpdate is a partial update of a poll record. Nil fields are left
// untouched; set fields are written with $set semantics.
type PollUpdate struct {
	PollTitle    *string      `json:"pollTitle,omitempty"`
	Subject      *string      `json:"subject,omitempty"`
	Score        *float64     `json:"score,omitempty"`
	MaxScore     *float64     `json:"maxScore,omitempty"`
	Percentage   *float64     `json:"percentage,omitempty"`
	Status       *PollStatus  `json:"status,omitempty"`
	StartedAt    *time.Time   `json:"startedAt,omitempty"`
	CompletedAt  *time.Time   `json:"completedAt,omitempty"`
	ScheduledFor *time.Time   `json:"scheduledFor,omitempty"`
	Answers      []PollAnswer `json:"answers,omitempty"`
}
