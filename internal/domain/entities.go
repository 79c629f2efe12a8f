package domain

import (
	"context"
	"errors"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrFailedPrecondition = errors.New("failed precondition")
	ErrRateLimited        = errors.New("rate limited")
	ErrUpstream           = errors.New("upstream failure")
	ErrInternal           = errors.New("internal error")
)

// Supported interview domains.
const (
	DomainJava         = "Java"
	DomainPython       = "Python"
	DomainDataScience  = "Data Science"
	DomainCloud        = "Cloud"
	DomainQA           = "QA"
	DomainHR           = "HR"
	DomainElectrical   = "Electrical"
	DomainJavaScript   = "JavaScript"
	DomainReact        = "React"
	DomainNodeJS       = "Node.js"
	DomainSystemDesign = "System Design"
	DefaultDomainLabel = "General"
)

// Domains lists the supported interview domains in display order.
var Domains = []string{
	DomainJava, DomainPython, DomainDataScience, DomainCloud, DomainQA, DomainHR,
	DomainElectrical, DomainJavaScript, DomainReact, DomainNodeJS, DomainSystemDesign,
}

// IsSupportedDomain reports whether d is one of Domains.
func IsSupportedDomain(d string) bool {
	for _, x := range Domains {
		if x == d {
			return true
		}
	}
	return false
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// IsSupportedDifficulty reports whether d is Easy, Medium or Hard.
func IsSupportedDifficulty(d Difficulty) bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is a catalog entry. Sessions keep a snapshot so later catalog
// edits never change a running interview.
type Question struct {
	ID         string     `json:"id" yaml:"id"`
	Text       string     `json:"question" yaml:"question"`
	Category   string     `json:"category" yaml:"category"`
	Difficulty Difficulty `json:"difficulty" yaml:"difficulty"`
}

type SessionStatus string

const (
	SessionInProgress SessionStatus = "in-progress"
	SessionCompleted  SessionStatus = "completed"
)

// Session is one interview attempt.
// Invariants: Status completed implies CompletedAt and TotalScore are set.
type Session struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Domain      string        `json:"domain"`
	Questions   []Question    `json:"questions"`
	Status      SessionStatus `json:"status"`
	StartedAt   time.Time     `json:"startedAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
	TotalScore  *float64      `json:"totalScore,omitempty"`
}

// LineCorrection is one sentence-level suggestion.
type LineCorrection struct {
	Original    string `json:"original"`
	Corrected   string `json:"corrected"`
	Explanation string `json:"explanation"`
}

// FillerCount is the number of occurrences of one filler word.
type FillerCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// FillerAnalysis is the output of the communication analyzer.
type FillerAnalysis struct {
	TotalWords         int           `json:"totalWords"`
	FillerCount        int           `json:"fillerCount"`
	FillerPercentage   float64       `json:"fillerPercentage"`
	FoundFillers       []FillerCount `json:"foundFillers"`
	CommunicationScore float64       `json:"communicationScore"`
	Feedback           string        `json:"feedback"`
}

// EvaluationResult is the normalized output of any evaluator.
// Invariants: scores in [1,10] with one decimal; Feedback non-empty; slices non-nil.
type EvaluationResult struct {
	Score                float64          `json:"score"`
	TechnicalScore       float64          `json:"technicalScore"`
	CommunicationScore   float64          `json:"communicationScore"`
	Feedback             string           `json:"feedback"`
	IdealAnswer          string           `json:"idealAnswer"`
	Strengths            []string         `json:"strengths"`
	AreasToImprove       []string         `json:"areasToImprove"`
	Mistakes             []string         `json:"mistakes"`
	LineByLineCorrection []LineCorrection `json:"lineByLineCorrection"`
	Provider             string           `json:"-"`
}

// Response is the stored evaluation of one answer.
// Invariants: unique per (SessionID, QuestionID).
type Response struct {
	ID                   string           `json:"id"`
	SessionID            string           `json:"interviewId"`
	UserID               string           `json:"userId"`
	QuestionID           string           `json:"questionId"`
	QuestionText         string           `json:"questionText"`
	Answer               string           `json:"userAnswer"`
	Score                float64          `json:"score"`
	TechnicalScore       float64          `json:"technicalScore"`
	CommunicationScore   float64          `json:"communicationScore"`
	FocusScore           *float64         `json:"focusScore,omitempty"`
	Feedback             string           `json:"feedback"`
	IdealAnswer          string           `json:"idealAnswer"`
	Strengths            []string         `json:"strengths"`
	AreasToImprove       []string         `json:"areasToImprove"`
	Mistakes             []string         `json:"mistakes"`
	LineByLineCorrection []LineCorrection `json:"lineByLineCorrection"`
	FillerAnalysis       *FillerAnalysis  `json:"fillerAnalysis,omitempty"`
	Provider             string           `json:"provider,omitempty"`
	EvaluatedAt          time.Time        `json:"evaluatedAt"`
	SubmittedAt          time.Time        `json:"submittedAt"`
	CreatedAt            time.Time        `json:"createdAt"`
}

// Report aggregates all responses of a session.
// Invariants: at most one per SessionID; immutable once created.
type Report struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"interviewId"`
	UserID          string    `json:"userId"`
	Domain          string    `json:"domain"`
	TotalQuestions  int       `json:"totalQuestions"`
	AverageScore    float64   `json:"averageScore"`
	Strengths       []string  `json:"strengths"`
	Gaps            []string  `json:"gaps"`
	Recommendations []string  `json:"recommendations"`
	OverallFeedback string    `json:"overallFeedback"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Event types published after state changes.
const (
	EventAnswerEvaluated = "answer.evaluated"
	EventReportGenerated = "report.generated"
)

// Event is a best-effort notification about a state change.
type Event struct {
	Type       string    `json:"type"`
	SessionID  string    `json:"sessionId"`
	UserID     string    `json:"userId"`
	QuestionID string    `json:"questionId,omitempty"`
	Score      float64   `json:"score"`
	At         time.Time `json:"at"`
}

// Repositories (ports)

type SessionRepository interface {
	Create(ctx Context, s Session) (string, error)
	Get(ctx Context, id string) (Session, error)
	Complete(ctx Context, id string, totalScore float64, at time.Time) error
}

type ResponseRepository interface {
	// FindOne returns ErrNotFound when no response exists for the key.
	FindOne(ctx Context, sessionID, questionID string) (Response, error)
	// Upsert inserts or replaces the response keyed on (SessionID, QuestionID).
	Upsert(ctx Context, r Response) (Response, error)
	ListBySession(ctx Context, sessionID string) ([]Response, error)
}

type ReportRepository interface {
	GetBySession(ctx Context, sessionID string) (Report, error)
	Get(ctx Context, id string) (Report, error)
	// Create stores r unless a report for the session already exists, in
	// which case the existing report is returned.
	Create(ctx Context, r Report) (Report, error)
	ListByUser(ctx Context, userID string) ([]Report, error)
}

type UserRepository interface {
	Create(ctx Context, u User) (string, error)
	GetByEmail(ctx Context, email string) (User, error)
	Get(ctx Context, id string) (User, error)
}

// QuestionCatalog (port)

type QuestionCatalog interface {
	Domains() []string
	Questions(domain string) ([]Question, error)
}

// Evaluator (port)

type Evaluator interface {
	Evaluate(ctx Context, question, answer, domain string) (EvaluationResult, error)
}

// LLMClient (port) sends one prompt to a remote model and returns its raw text.
type LLMClient interface {
	Name() string
	Generate(ctx Context, prompt string) (string, error)
}

// EventPublisher (port)

type EventPublisher interface {
	Publish(ctx Context, e Event) error
}

// Context is an alias so ports read naturally without importing context everywhere.
type Context = context.Context
