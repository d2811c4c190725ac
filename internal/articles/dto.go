package articles

import (
	"time"

	"github.com/angelmondragon/articles-api/pkg/db/models"
)

// ArticleDTO is the article payload returned to clients.
type ArticleDTO struct {
	ID        int64     `json:"id"`
	AuthorID  int64     `json:"authorId"`
	Subject   string    `json:"subject"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewArticleDTO maps a persisted article into its response shape.
func NewArticleDTO(m *models.Article) ArticleDTO {
	return ArticleDTO{
		ID:        m.ID,
		AuthorID:  m.AuthorID,
		Subject:   m.Subject,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ArticlesData nests article payloads under the "articles" key of the envelope
// data: a slice for list, a single ArticleDTO for the other operations.
type ArticlesData[T any] struct {
	Articles   T      `json:"articles"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// Single wraps one article for the envelope.
func Single(a ArticleDTO) ArticlesData[ArticleDTO] {
	return ArticlesData[ArticleDTO]{Articles: a}
}

// ListResult is a page (or the whole collection) of articles, newest first.
type ListResult struct {
	Articles   []ArticleDTO
	NextCursor string
}

// Data wraps the list result for the envelope.
func (r ListResult) Data() ArticlesData[[]ArticleDTO] {
	items := r.Articles
	if items == nil {
		items = []ArticleDTO{}
	}
	return ArticlesData[[]ArticleDTO]{Articles: items, NextCursor: r.NextCursor}
}

func toDTOs(rows []models.Article) []ArticleDTO {
	out := make([]ArticleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewArticleDTO(&rows[i]))
	}
	return out
}

func newArticleModel(authorID int64, subject, content string) *models.Article {
	return &models.Article{AuthorID: authorID, Subject: subject, Content: content}
}
