package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Totarae/BatchConsole/internal/api"
	"github.com/Totarae/BatchConsole/internal/handlers"
	"github.com/Totarae/BatchConsole/internal/middleware"
	"github.com/Totarae/BatchConsole/internal/session"
	"github.com/Totarae/BatchConsole/internal/templates"
)

// NewRouter создаёт маршрутизатор консоли. media может быть nil,
// тогда изображения предпросмотра через консоль не отдаются.
func NewRouter(handler *handlers.Handler, sessions *session.Manager, media http.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.LoggingMiddleware(logger)) // Подключаем логирование
	r.Use(chimw.Recoverer)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(templates.Static()))))
	if media != nil {
		r.Handle("/media/*", media)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.GzipMiddleware) // Gzip-сжатие
		r.Use(sessions.Middleware)

		r.Get("/", handler.Root)
		r.Get("/index/", handler.Index)
		r.Get("/status_checker", handler.StatusChecker)

		r.Get("/fragments/batches", handler.BatchesFragment)
		r.Get("/fragments/status", handler.StatusFragment)

		r.Post("/modal/close", handler.CloseModal)

		r.Get("/batches/new", handler.NewBatch)
		r.Post("/batches", handler.CreateBatch)
		r.Get("/batches/{batchNumber}/preview", handler.Preview)
		r.Get("/batches/{batchNumber}/delete", handler.ConfirmDelete)
		r.Post("/batches/{batchNumber}/delete", handler.DeleteBatch)

		r.Get("/status_checker/{batchNumber}/edit", handler.EditBatch)
		r.Post("/status_checker/{batchNumber}/edit", handler.SaveBatch)
	})
	return r
}

// NewAPIRouter создаёт маршрутизатор REST API бэкенда.
func NewAPIRouter(handler *api.Handler, media http.Handler, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.LoggingMiddleware(logger))
	r.Use(chimw.Recoverer)

	if media != nil {
		r.Handle("/media/*", media)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.GzipMiddleware)

		r.Get("/health", handler.Health)

		r.Route("/api", func(r chi.Router) {
			r.Get("/batches", handler.ListBatches)
			r.Post("/batches", handler.CreateBatch)
			r.Get("/batches/{batchNumber}", handler.GetBatch)
			r.Put("/batches/{batchNumber}", handler.UpdateBatch)
			r.Delete("/batches/{batchNumber}", handler.DeleteBatch)

			r.Get("/preview/{batchNumber}", handler.Preview)
			r.Get("/status_checker_data", handler.StatusCheckerData)
			r.Get("/metros_escaneados", handler.Metros)
			r.Get("/metros_data", handler.MetrosData)
		})
	})
	return r
}
