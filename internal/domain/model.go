package domain

import "time"

// Core domain models. Dataset types mirror the on-disk product documents; the
// adapters own the JSON field casing of those files.

// Dataset is one wholly-loaded product collection (Issues, Concessions or
// CurrentProducts). Products keep their source order.
type Dataset struct {
	Products []Product `json:"products"`
}

// Empty reports whether the dataset has no products.
func (d Dataset) Empty() bool { return len(d.Products) == 0 }

type Product struct {
	Area        string     `json:"area"`
	ProductName string     `json:"productName"`
	Platforms   []Platform `json:"platforms"`
}

type Platform struct {
	Name    string   `json:"name"`
	Threats []string `json:"threats"`
}

// Affected reports whether threatID is listed for the platform. Comparison is
// exact and case-sensitive.
func (p Platform) Affected(threatID string) bool {
	for _, t := range p.Threats {
		if t == threatID {
			return true
		}
	}
	return false
}

type MatchType string

const (
	MatchCritical     MatchType = "critical"
	MatchRegeneration MatchType = "regeneration"
)

const (
	MessageCritical     = "Threat Active - No Action Possible"
	MessageRegeneration = "Threat Detected - Product Regeneration Required"
)

// Match is derived per query and never persisted.
type Match struct {
	Platform  string    `json:"platform"`
	Message   string    `json:"message"`
	Area      string    `json:"area"`
	Threat    string    `json:"threat"`
	Type      MatchType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
}

type MatchResult struct {
	Area         string  `json:"area"`
	Threat       string  `json:"threat"`
	Matches      []Match `json:"matches"`
	TotalMatches int     `json:"totalMatches"`
}

// DatasetName identifies one of the three backing product datasets.
type DatasetName string

const (
	DatasetIssues      DatasetName = "issues"
	DatasetConcessions DatasetName = "concessions"
	DatasetCurrent     DatasetName = "current"
)
