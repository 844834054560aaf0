package domain

// SentimentScorer assigns a polarity score and label to a piece of text.
// Used for articles whose provider does not supply sentiment.
type SentimentScorer interface {
	Score(text string) (float64, string)
}
