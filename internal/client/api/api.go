// Package api wraps the shortener REST endpoints on top of the gateway.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"urlshortener/internal/client/gateway"
	"urlshortener/internal/client/session"
	"urlshortener/internal/domain/models"
)

// Пути относительно base URL (.../api)
const (
	RegisterPath     = "/accounts/register/"
	LoginPath        = "/accounts/login/"
	TokenRefreshPath = "/accounts/token/refresh/" // объявлен, клиент не вызывает
	CreateLinkPath   = "/links/urls/create/"
	ListLinksPath    = "/links/urls/list/"
)

func UpdateLinkPath(id int64) string {
	return fmt.Sprintf("/links/urls/%d/update/", id)
}

func DeleteLinkPath(id int64) string {
	return fmt.Sprintf("/links/urls/%d/delete/", id)
}

// Сообщения по умолчанию, когда в теле ошибки нет detail/message
const (
	fallbackRegister = "Please try again"
	fallbackLogin    = "Invalid credentials"
	fallbackCreate   = "Failed to create link"
	fallbackList     = "Failed to load links"
	fallbackUpdate   = "Failed to update link"
	fallbackDelete   = "Failed to delete link"
)

type (
	ShortenedLink struct {
		ID          int64     `json:"id"`
		OriginalURL string    `json:"original_url"`
		ShortURL    string    `json:"short_url"`
		UpdateURL   string    `json:"update_url,omitempty"`
		Clicks      int64     `json:"clicks"`
		IsActive    bool      `json:"is_active"`
		CreatedAt   time.Time `json:"created_at"`
	}

	RegisterRequest struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	RegisteredUser struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	LoginResponse struct {
		Access  string              `json:"access"`
		Refresh string              `json:"refresh"`
		User    session.UserProfile `json:"user"`
	}

	// LinkUpdate - частичное обновление, nil поля не отправляются
	LinkUpdate struct {
		OriginalURL *string `json:"original_url,omitempty"`
		IsActive    *bool   `json:"is_active,omitempty"`
	}

	createLinkRequest struct {
		OriginalURL string `json:"original_url"`
	}
)

// Doer - транспорт, в проде *gateway.Gateway.
type Doer interface {
	Do(ctx context.Context, method, path string, body any, opts ...gateway.RequestOption) (*http.Response, error)
}

type Client struct {
	doer Doer
}

func NewClient(doer Doer) (*Client, error) {
	if doer == nil {
		return nil, errors.New("doer cannot be nil")
	}
	return &Client{doer: doer}, nil
}

// Register создает аккаунт. Токены не выдаются, дальше нужен Login.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (RegisteredUser, error) {
	var user RegisteredUser
	err := c.call(ctx, http.MethodPost, RegisterPath, req, &user, registerMessage, gateway.WithoutAuth())
	return user, err
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	var resp LoginResponse
	if err := c.call(ctx, http.MethodPost, LoginPath, req, &resp, messageOr(fallbackLogin), gateway.WithoutAuth()); err != nil {
		return LoginResponse{}, err
	}
	if resp.Access == "" {
		return LoginResponse{}, &models.APIError{Status: http.StatusOK, Message: "login response has no access token"}
	}
	return resp, nil
}

func (c *Client) CreateLink(ctx context.Context, originalURL string) (ShortenedLink, error) {
	var link ShortenedLink
	err := c.call(ctx, http.MethodPost, CreateLinkPath, createLinkRequest{OriginalURL: originalURL}, &link, messageOr(fallbackCreate))
	return link, err
}

func (c *Client) ListLinks(ctx context.Context) ([]ShortenedLink, error) {
	var links []ShortenedLink
	if err := c.call(ctx, http.MethodGet, ListLinksPath, nil, &links, messageOr(fallbackList)); err != nil {
		return nil, err
	}
	if links == nil {
		links = []ShortenedLink{}
	}
	return links, nil
}

func (c *Client) UpdateLink(ctx context.Context, id int64, update LinkUpdate) (ShortenedLink, error) {
	var link ShortenedLink
	err := c.call(ctx, http.MethodPut, UpdateLinkPath(id), update, &link, messageOr(fallbackUpdate))
	return link, err
}

func (c *Client) DeleteLink(ctx context.Context, id int64) error {
	return c.call(ctx, http.MethodDelete, DeleteLinkPath(id), nil, nil, messageOr(fallbackDelete))
}

// call отправляет запрос и декодирует тело в out. Пустое тело считается {}.
func (c *Client) call(
	ctx context.Context,
	method, path string,
	body, out any,
	extract func(errorBody) string,
	opts ...gateway.RequestOption,
) error {
	resp, err := c.doer.Do(ctx, method, path, body, opts...)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		var eb errorBody
		if len(strings.TrimSpace(string(raw))) > 0 {
			// битый JSON в теле ошибки не страшен, сработает fallback
			_ = json.Unmarshal(raw, &eb)
		}
		return &models.APIError{
			Status:  resp.StatusCode,
			Message: extract(eb),
			Body:    string(raw),
		}
	}

	if out == nil || len(strings.TrimSpace(string(raw))) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorBody - известные поля ошибок DRF.
type errorBody struct {
	Detail   string   `json:"detail"`
	Message  string   `json:"message"`
	Username []string `json:"username"`
}

func messageOr(fallback string) func(errorBody) string {
	return func(eb errorBody) string {
		switch {
		case eb.Detail != "":
			return eb.Detail
		case eb.Message != "":
			return eb.Message
		default:
			return fallback
		}
	}
}

func registerMessage(eb errorBody) string {
	if eb.Detail == "" && eb.Message == "" && len(eb.Username) > 0 && eb.Username[0] != "" {
		return eb.Username[0]
	}
	return messageOr(fallbackRegister)(eb)
}
