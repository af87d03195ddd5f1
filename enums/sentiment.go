package enums

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

type PostStatus string

const (
	// PostStatusOpportunity marks a mention the classifier considers a likely sales lead.
	PostStatusOpportunity PostStatus = "opportunity"
	PostStatusNeutral     PostStatus = "neutral"
)
