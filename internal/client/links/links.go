// Package links keeps the client-side mirror of the user's shortened links
// and the operations of the "my links" screen.
package links

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"urlshortener/internal/client/api"
	"urlshortener/internal/client/forms"
	"urlshortener/internal/domain/models"

	"github.com/rs/zerolog"
)

//go:generate mockgen -source=links.go -destination=../../mocks/mock_links_api.go -package=mocks
type LinksAPI interface {
	ListLinks(ctx context.Context) ([]api.ShortenedLink, error)
	CreateLink(ctx context.Context, originalURL string) (api.ShortenedLink, error)
	UpdateLink(ctx context.Context, id int64, update api.LinkUpdate) (api.ShortenedLink, error)
	DeleteLink(ctx context.Context, id int64) error
}

// Clipboard - системный буфер обмена.
type Clipboard interface {
	SetText(text string) error
}

// Sharer - системный диалог "поделиться".
type Sharer interface {
	Share(ctx context.Context, message string) error
}

// Collection - зеркало списка ссылок. Ответ сервера на update не читается,
// зеркало меняется локально после успешного вызова.
type Collection struct {
	api LinksAPI
	log *zerolog.Logger

	mu    sync.RWMutex
	links []api.ShortenedLink
}

func NewCollection(linksAPI LinksAPI, log *zerolog.Logger) (*Collection, error) {
	if linksAPI == nil {
		return nil, errors.New("links api cannot be nil")
	}
	if log == nil {
		return nil, errors.New("logger cannot be nil")
	}
	return &Collection{api: linksAPI, log: log, links: []api.ShortenedLink{}}, nil
}

// Load заменяет зеркало списком с сервера. При любой ошибке зеркало пустое.
func (c *Collection) Load(ctx context.Context) error {
	fetched, err := c.api.ListLinks(ctx)
	if err != nil {
		c.log.Error().Err(err).Msg("Error fetching links")
		c.replace(nil)
		return fmt.Errorf("failed to load links: %w", err)
	}

	c.replace(fetched)
	c.log.Debug().Int("count", len(fetched)).Msg("Links loaded")
	return nil
}

// Create валидирует URL и создает ссылку. Зеркало не трогается,
// новая ссылка появится после следующего Load.
func (c *Collection) Create(ctx context.Context, originalURL string) (api.ShortenedLink, error) {
	if err := forms.ValidateURL(originalURL); err != nil {
		return api.ShortenedLink{}, err
	}

	link, err := c.api.CreateLink(ctx, originalURL)
	if err != nil {
		return api.ShortenedLink{}, fmt.Errorf("failed to create link: %w", err)
	}
	return link, nil
}

// ToggleActive отправляет !link.IsActive и переворачивает флаг в зеркале.
func (c *Collection) ToggleActive(ctx context.Context, link api.ShortenedLink) error {
	target := !link.IsActive
	if _, err := c.api.UpdateLink(ctx, link.ID, api.LinkUpdate{IsActive: &target}); err != nil {
		c.log.Warn().Err(err).Int64("id", link.ID).Msg("Toggle active failed")
		return fmt.Errorf("failed to update link status: %w", err)
	}

	c.mutate(link.ID, func(l *api.ShortenedLink) {
		l.IsActive = !l.IsActive
	})
	return nil
}

func (c *Collection) UpdateURL(ctx context.Context, id int64, newURL string) error {
	if err := forms.ValidateEditURL(newURL); err != nil {
		return err
	}

	if _, err := c.api.UpdateLink(ctx, id, api.LinkUpdate{OriginalURL: &newURL}); err != nil {
		c.log.Warn().Err(err).Int64("id", id).Msg("Update failed")
		return fmt.Errorf("failed to update URL: %w", err)
	}

	c.mutate(id, func(l *api.ShortenedLink) {
		l.OriginalURL = newURL
	})
	return nil
}

// Delete удаляет ссылку на сервере, затем из зеркала. 404 - ошибка,
// зеркало не меняется.
func (c *Collection) Delete(ctx context.Context, id int64) error {
	if err := c.api.DeleteLink(ctx, id); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.links[:0:0]
	for _, l := range c.links {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	c.links = kept
	return nil
}

// Links возвращает копию зеркала.
func (c *Collection) Links() []api.ShortenedLink {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]api.ShortenedLink, len(c.links))
	copy(out, c.links)
	return out
}

func (c *Collection) Find(id int64) (api.ShortenedLink, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, l := range c.links {
		if l.ID == id {
			return l, true
		}
	}
	return api.ShortenedLink{}, false
}

// Copy кладет короткую ссылку в буфер обмена.
func (c *Collection) Copy(id int64, clipboard Clipboard) error {
	short, err := c.shortURL(id)
	if err != nil {
		return err
	}
	if err := clipboard.SetText(short); err != nil {
		return fmt.Errorf("failed to copy link: %w", err)
	}
	return nil
}

func (c *Collection) Share(ctx context.Context, id int64, sharer Sharer) error {
	short, err := c.shortURL(id)
	if err != nil {
		return err
	}
	if err := sharer.Share(ctx, ShareMessage(short)); err != nil {
		return fmt.Errorf("failed to share link: %w", err)
	}
	return nil
}

func ShareMessage(shortURL string) string {
	return fmt.Sprintf("Check out this link: %s\n", shortURL)
}

func (c *Collection) shortURL(id int64) (string, error) {
	link, ok := c.Find(id)
	if !ok {
		return "", fmt.Errorf("%w: id %d", models.ErrLinkNotInView, id)
	}
	if link.ShortURL == "" {
		return "", models.ErrShortLinkUnavailable
	}
	return link.ShortURL, nil
}

func (c *Collection) replace(links []api.ShortenedLink) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.links = make([]api.ShortenedLink, len(links))
	copy(c.links, links)
}

func (c *Collection) mutate(id int64, fn func(l *api.ShortenedLink)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.links {
		if c.links[i].ID == id {
			fn(&c.links[i])
		}
	}
}
