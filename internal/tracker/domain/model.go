package domain

import "time"

// Priority classifies how urgent a bug is. The backend and the dashboard
// agree on exactly these three values.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Project is a named container for bug reports. IDs are minted client-side
// and are globally unique; the server enforces uniqueness on insert.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Bugs      []Bug     `json:"bugs"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bug is a defect report scoped to a single project. Its ID is only unique
// within that project, so every operation addressing a bug carries the
// project ID as well.
type Bug struct {
	ID               string    `json:"id"`
	ProjectID        string    `json:"projectId"`
	Title            string    `json:"title"`
	StepsToReproduce string    `json:"stepsToReproduce"`
	ActualResult     string    `json:"actualResult"`
	ExpectedResult   string    `json:"expectedResult"`
	Priority         Priority  `json:"priority"`
	Device           string    `json:"device"`
	ScreenshotURL    string    `json:"screenshotUrl,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// BugDraft is the user-supplied part of a bug report. The ID is allocated by
// the store and the creation timestamp by the server.
type BugDraft struct {
	ProjectID        string   `json:"projectId"`
	Title            string   `json:"title"`
	StepsToReproduce string   `json:"stepsToReproduce"`
	ActualResult     string   `json:"actualResult"`
	ExpectedResult   string   `json:"expectedResult"`
	Priority         Priority `json:"priority"`
	Device           string   `json:"device"`
	ScreenshotURL    string   `json:"screenshotUrl,omitempty"`
}

// Validate checks the fields that must be present before a draft is sent to
// the server, so obvious mistakes never cost a round trip.
func (d BugDraft) Validate() error {
	if d.ProjectID == "" {
		return ErrProjectIDRequired
	}
	if d.Title == "" {
		return ErrTitleRequired
	}
	if !d.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

// FlattenBugs derives the global bug list from a project list, preserving
// project order. The flattened list is never authoritative; it is recomputed
// whenever the project list changes.
func FlattenBugs(projects []Project) []Bug {
	var out []Bug
	for _, p := range projects {
		out = append(out, p.Bugs...)
	}
	return out
}
