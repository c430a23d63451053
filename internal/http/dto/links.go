package dto

import (
	"time"

	"urlshortener/internal/domain/models"
)

// Request
type (
	CreateLinkRequest struct {
		OriginalURL string `json:"original_url"`
	}

	// UpdateLinkRequest - частичное обновление, отсутствующие поля не трогаем
	UpdateLinkRequest struct {
		OriginalURL *string `json:"original_url,omitempty"`
		IsActive    *bool   `json:"is_active,omitempty"`
	}
)

// Response
type LinkResponse struct {
	ID          int64     `json:"id"`
	OriginalURL string    `json:"original_url"`
	ShortCode   string    `json:"short_code"`
	ShortURL    string    `json:"short_url"`
	UpdateURL   string    `json:"update_url"`
	Clicks      int64     `json:"clicks"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LinkURLs строит абсолютные адреса ссылки.
type LinkURLs interface {
	ShortURL(code string) string
	UpdateURL(id int64) string
}

// Request → Domain
func (r UpdateLinkRequest) ToDomain() models.LinkPatch {
	return models.LinkPatch{
		OriginalURL: r.OriginalURL,
		IsActive:    r.IsActive,
	}
}

// Domain → Response
func LinkResponseFromDomain(l models.ShortenedLink, urls LinkURLs) LinkResponse {
	return LinkResponse{
		ID:          l.ID,
		OriginalURL: l.OriginalURL,
		ShortCode:   l.ShortCode,
		ShortURL:    urls.ShortURL(l.ShortCode),
		UpdateURL:   urls.UpdateURL(l.ID),
		Clicks:      l.Clicks,
		IsActive:    l.IsActive,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

func LinksResponseFromDomain(links []models.ShortenedLink, urls LinkURLs) []LinkResponse {
	resp := make([]LinkResponse, len(links))
	for i, l := range links {
		resp[i] = LinkResponseFromDomain(l, urls)
	}
	return resp
}
