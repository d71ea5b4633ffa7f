package models

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "Positive"
	SentimentNeutral  SentimentLabel = "Neutral"
	SentimentNegative SentimentLabel = "Negative"
)

// SentimentLabels lists every label in display order.
var SentimentLabels = []SentimentLabel{SentimentPositive, SentimentNeutral, SentimentNegative}

type SentimentScore struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
	Compound float64 `json:"compound"`
}

type SentimentResult struct {
	Text   string         `json:"text"`
	Scores SentimentScore `json:"scores"`
	Label  SentimentLabel `json:"label"`
}

type Recommendation struct {
	Tier        string  `json:"tier"`
	Stars       int     `json:"stars"`
	Explanation string  `json:"explanation"`
	Percentage  float64 `json:"positive_percentage"`
}

type ChartSeries struct {
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	Values []int    `json:"values"`
}
