package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"urlshortener/internal/domain/models"
)

const networkErrorMessage = "Could not connect to server. Please check your connection."

// describeError превращает ошибку в сообщение для пользователя.
func describeError(err error) string {
	var (
		validationErr *models.ValidationError
		networkErr    *models.NetworkError
		apiErr        *models.APIError
		storageErr    *models.StorageError
	)

	switch {
	case errors.As(err, &validationErr):
		names := make([]string, 0, len(validationErr.Fields))
		for name := range validationErr.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		var b strings.Builder
		b.WriteString("Please fix the following:")
		for _, name := range names {
			fmt.Fprintf(&b, "\n  %s: %s", name, validationErr.Fields[name])
		}
		return b.String()
	case errors.As(err, &networkErr):
		return networkErrorMessage
	case errors.As(err, &apiErr):
		return "Error: " + apiErr.Message
	case errors.Is(err, models.ErrShortLinkUnavailable):
		return "Error: Short link is not available"
	case errors.As(err, &storageErr):
		return "Error: could not access the saved session: " + storageErr.Err.Error()
	default:
		return "Error: " + err.Error()
	}
}

// WriterClipboard печатает ссылку в терминал: у CLI нет системного буфера.
type WriterClipboard struct {
	w io.Writer
}

func NewWriterClipboard(w io.Writer) *WriterClipboard {
	return &WriterClipboard{w: w}
}

func (c *WriterClipboard) SetText(text string) error {
	_, err := fmt.Fprintln(c.w, text)
	return err
}

// WriterSharer печатает сообщение для отправки.
type WriterSharer struct {
	w io.Writer
}

func NewWriterSharer(w io.Writer) *WriterSharer {
	return &WriterSharer{w: w}
}

func (s *WriterSharer) Share(_ context.Context, message string) error {
	_, err := io.WriteString(s.w, message)
	return err
}
