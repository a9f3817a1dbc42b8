package dto

import "github.com/Cepha0Z/Explosion-Threat-Zone-Simulator/internal/model"

// ArticleResponse is the trimmed article shape served to the map client.
type ArticleResponse struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func ToArticleResponses(articles []model.Article) []ArticleResponse {
	out := make([]ArticleResponse, len(articles))
	for i, a := range articles {
		out[i] = ArticleResponse{
			Title:       a.Title,
			URL:         a.URL,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			Description: a.Description,
			Image:       a.URLToImage,
		}
	}
	return out
}
