package domain

// ItemType identifies the kind of source an item came from.
type ItemType string

const (
	TypeFeed        ItemType = "feed"
	TypeMarketTrend ItemType = "market-trend"
	TypeSocial      ItemType = "social"
)

// RiskLevel grades an opportunity as judged by the classifier.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// Item is one piece of candidate content gathered during a run. Items live
// for a single run only; nothing but their fingerprints is persisted.
type Item struct {
	Source    string
	Title     string
	Link      string
	Summary   string
	Published string
	Type      ItemType
	ImageURL  string

	// Set by the analysis dispatcher. Verdict is nil when classification
	// failed or was skipped for this item.
	Verdict       *Verdict
	IsOpportunity bool
}

// Verdict is the structured classifier output for a single item.
type Verdict struct {
	IsOpportunity   bool      `json:"is_opportunity"`
	OpportunityType string    `json:"opportunity_type"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Explanation     string    `json:"explanation"`
}
