package models

// ReviewTable is a parsed upload. Records keep every original column so the
// labeled download can reproduce them.
type ReviewTable struct {
	Header      []string
	Records     [][]string
	ReviewIndex int
}

func (t *ReviewTable) Reviews() []string {
	reviews := make([]string, 0, len(t.Records))
	for _, record := range t.Records {
		reviews = append(reviews, record[t.ReviewIndex])
	}
	return reviews
}

type LabeledReview struct {
	Review string         `json:"review"`
	Label  SentimentLabel `json:"sentiment"`
}

type SentimentBreakdown struct {
	Positive float64 `json:"positive"`
	Neutral  float64 `json:"neutral"`
	Negative float64 `json:"negative"`
}

type BatchCharts struct {
	Pie ChartSeries `json:"pie"`
	Bar ChartSeries `json:"bar"`
}

type BatchResult struct {
	Table          *ReviewTable           `json:"-"`
	Rows           []LabeledReview        `json:"rows"`
	Counts         map[SentimentLabel]int `json:"counts"`
	Percentages    SentimentBreakdown     `json:"percentages"`
	Recommendation Recommendation         `json:"recommendation"`
	Charts         BatchCharts            `json:"charts"`
}

func (b *BatchResult) Total() int {
	return len(b.Rows)
}
