package sentiment

import (
	"html"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/reviewsense/internal/models"
)

const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]*>`)
)

// Scorer produces the four polarity scores for a piece of text.
type Scorer interface {
	PolarityScores(text string) models.SentimentScore
}

type vaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVADERScorer() Scorer {
	return vaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v vaderScorer) PolarityScores(text string) models.SentimentScore {
	s := v.analyzer.PolarityScores(text)
	return models.SentimentScore{
		Positive: s.Positive,
		Neutral:  s.Neutral,
		Negative: s.Negative,
		Compound: s.Compound,
	}
}

type Options struct {
	// StripMarkup flattens markdown and drops links before scoring.
	StripMarkup bool
}

type Analyzer struct {
	scorer Scorer
	opts   Options
}

func NewAnalyzer(scorer Scorer, opts Options) *Analyzer {
	if scorer == nil {
		scorer = NewVADERScorer()
	}
	return &Analyzer{scorer: scorer, opts: opts}
}

func (a *Analyzer) Score(text string) models.SentimentScore {
	if a.opts.StripMarkup {
		text = ConvertMarkdownToText(text)
	}
	return a.scorer.PolarityScores(text)
}

func (a *Analyzer) Analyze(text string) models.SentimentResult {
	scores := a.Score(text)
	return models.SentimentResult{
		Text:   text,
		Scores: scores,
		Label:  Classify(scores.Compound),
	}
}

// Label implements processing.Labeler.
func (a *Analyzer) Label(text string) models.SentimentLabel {
	return Classify(a.Score(text).Compound)
}

// Classify maps a compound score onto a label. Both thresholds are inclusive.
func Classify(compound float64) models.SentimentLabel {
	if compound >= PositiveThreshold {
		return models.SentimentPositive
	} else if compound <= NegativeThreshold {
		return models.SentimentNegative
	}
	return models.SentimentNeutral
}

func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1") // keep only the text
	input = urlPattern.ReplaceAllString(input, "")

	return input
}

func ConvertMarkdownToText(input string) string {
	input = RemoveLinks(input)
	output := blackfriday.Run([]byte(input),
		blackfriday.WithNoExtensions(),
		blackfriday.WithRenderer(newPlainRenderer()))
	plainText := tagPattern.ReplaceAllString(string(output), " ")

	return html.UnescapeString(strings.Join(strings.Fields(plainText), " "))
}

// No smartypants: apostrophes have to survive for VADER's negation rules.
// Renderers keep per-document state so one is built per call.
func newPlainRenderer() *blackfriday.HTMLRenderer {
	return blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.HTMLFlagsNone,
	})
}
