package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/safework-lab/talos/pkg/usecase"
)

// Server is the REST surface consumed by the (external) dashboard
type Server struct {
	router *chi.Mux
	uc     *usecase.UseCases
}

func New(uc *usecase.UseCases) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}

	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/groups", s.handleAddGroup)
		r.Post("/items", s.handleAddItem)
		r.Get("/items", s.handleListItems)
		r.Delete("/items/{groupID}/{itemNumber}", s.handleDeleteItem)
		r.Post("/items/{groupID}/{itemNumber}/documents", s.handleGenerateDocuments)
		r.Get("/items/{groupID}/{itemNumber}/documents", s.handleListDocuments)

		r.Route("/documents/{groupID}/{itemNumber}/{documentNumber}", func(r chi.Router) {
			r.Get("/", s.handleGetDocument)
			r.Delete("/", s.handleDeleteDocument)
			r.Post("/publish", s.handlePublish)
			r.Get("/reminders", s.handleDueReminders)
			r.Post("/targets", s.handleAttachTargets)
			r.Post("/targets/{targetID}/complete", s.handleCompleteTarget)
			r.Post("/rows", s.handleAddRow)
			r.Post("/rows/{rowID}/done", s.handleMarkRowDone)
		})

		r.Post("/risk/evaluate", s.handleEvaluateRisk)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
