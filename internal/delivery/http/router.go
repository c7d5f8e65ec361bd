package http //nolint:revive // directory-based package name, imported with alias

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const requestTimeout = 30 * time.Second

func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Post("/api/payments", h.HandlePayment)

	r.Route("/api/proof-of-payment", func(r chi.Router) {
		r.Post("/generate/{transactionId}", h.HandleGenerateProof)
		r.Get("/download/{transactionId}", h.HandleDownloadProof)
		r.Get("/view/{transactionId}", h.HandleViewProof)
		r.Get("/status/{transactionId}", h.HandleProofStatus)
		r.Get("/history", h.HandleHistory)
		r.Post("/bulk-generate", h.HandleBulkGenerate)
	})

	r.Get("/api/verify/{transactionId}", h.HandleVerify)

	return r
}
