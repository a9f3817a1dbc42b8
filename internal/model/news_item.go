package model

// NewsItem is one raw report from the threat simulator feed.
type NewsItem struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp,omitempty"`
	SourceType string `json:"sourceType,omitempty"`
}

// IngestionStatus describes the most recent successfully ingested threat.
type IngestionStatus struct {
	LastArticleTitle *string `json:"lastArticleTitle"`
	LastProcessedAt  *string `json:"lastProcessedAt"`
}
