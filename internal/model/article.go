package model

// ArticleSource identifies the outlet that published an article.
type ArticleSource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Article is a raw news record as returned by the upstream news API.
type Article struct {
	Source      ArticleSource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content"`
}
