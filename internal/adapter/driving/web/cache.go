package web

import (
	"net/http"

	"github.com/sxt-cloud/azure-costs-dashboard-go/internal/shared/metrics"
)

// cachedResponse guarda uma resposta completa no cache por caminho.
type cachedResponse struct {
	status      int
	contentType string
	body        []byte
}

// responseRecorder captures a handler's output so it can be stored.
type responseRecorder struct {
	http.ResponseWriter
	status int
	body   []byte
}

func (rec *responseRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *responseRecorder) Write(p []byte) (int, error) {
	rec.body = append(rec.body, p...)
	return rec.ResponseWriter.Write(p)
}

// cached serve respostas do cache por caminho de requisição; somente
// respostas 200 são armazenadas (TTL da configuração).
func (s *Server) cached(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path

		if entry, ok := s.cache.Get(key); ok {
			cached := entry.(cachedResponse)
			metrics.CacheHits.WithLabelValues("hit").Inc()
			w.Header().Set("Content-Type", cached.contentType)
			w.WriteHeader(cached.status)
			w.Write(cached.body)
			return
		}
		metrics.CacheHits.WithLabelValues("miss").Inc()

		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		if rec.status == http.StatusOK {
			s.cache.SetDefault(key, cachedResponse{
				status:      rec.status,
				contentType: rec.Header().Get("Content-Type"),
				body:        rec.body,
			})
		}
	}
}
