package domain

import "time"

type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

var Severities = []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}

func (s Severity) Valid() bool {
	for _, v := range Severities {
		if s == v {
			return true
		}
	}
	return false
}

type Status string

const (
	StatusActive        Status = "Active"
	StatusResolved      Status = "Resolved"
	StatusInvestigating Status = "Investigating"
)

var Statuses = []Status{StatusActive, StatusResolved, StatusInvestigating}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

const DefaultReporter = "Anonymous"

// ThreatReport is an operator-entered, persisted report.
type ThreatReport struct {
	ID          int        `json:"id"`
	Timestamp   time.Time  `json:"timestamp"`
	ThreatType  string     `json:"threat_type"`
	Area        string     `json:"area"`
	Severity    Severity   `json:"severity"`
	Description string     `json:"description"`
	Reporter    string     `json:"reporter"`
	Status      Status     `json:"status"`
	Updated     *time.Time `json:"updated,omitempty"`
}

// NewReport carries the caller-supplied fields of a report before the store
// assigns its id.
type NewReport struct {
	ThreatType  string `json:"threat_type"`
	Area        string `json:"area"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Reporter    string `json:"reporter"`
}
