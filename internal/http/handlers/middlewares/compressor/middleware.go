package compressor

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"urlshortener/internal/http/httputils"
)

// MiddlewareCompressing возвращает middleware для gzip сжатия/распаковки
func MiddlewareCompressing() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Обработка входящего сжатого контента
			if err := decompressRequest(r); err != nil {
				httputils.WriteDetail(w, http.StatusBadRequest, "invalid gzip data")
				return
			}

			if !acceptsGzip(r) {
				next.ServeHTTP(w, r)
				return
			}

			gw := &gzipResponseWriter{ResponseWriter: w}
			defer gw.Close()
			next.ServeHTTP(gw, r)
		})
	}
}

// decompressRequest распаковывает входящий gzip-контент
func decompressRequest(r *http.Request) error {
	if !strings.Contains(r.Header.Get(httputils.HeaderContentEncoding), httputils.EncodingGzip) {
		return nil
	}

	gz, err := gzip.NewReader(r.Body)
	if err != nil {
		return err
	}
	r.Body = gz
	r.Header.Del(httputils.HeaderContentEncoding)
	return nil
}

// acceptsGzip проверяет поддержку gzip клиентом
func acceptsGzip(r *http.Request) bool {
	return strings.Contains(r.Header.Get(httputils.HeaderAcceptEncoding), httputils.EncodingGzip)
}

// isCompressible - сжимаем только текстовые ответы
func isCompressible(contentType string) bool {
	return strings.HasPrefix(contentType, httputils.MIMEApplicationJSON) ||
		strings.HasPrefix(contentType, httputils.MIMETextHTML) ||
		strings.HasPrefix(contentType, httputils.MIMETextPlain)
}

// gzipResponseWriter решает о сжатии в момент записи заголовка,
// когда Content-Type ответа уже известен.
type gzipResponseWriter struct {
	http.ResponseWriter
	writer      io.Writer
	gz          *gzip.Writer
	wroteHeader bool
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.wroteHeader {
		return
	}
	w.wroteHeader = true

	w.writer = w.ResponseWriter
	if status != http.StatusNoContent && isCompressible(w.Header().Get(httputils.HeaderContentType)) {
		w.Header().Set(httputils.HeaderContentEncoding, httputils.EncodingGzip)
		w.Header().Del(httputils.HeaderContentLength)
		w.gz = gzip.NewWriter(w.ResponseWriter)
		w.writer = w.gz
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.writer.Write(b)
}

func (w *gzipResponseWriter) Close() error {
	if w.gz == nil {
		return nil
	}
	return w.gz.Close()
}
