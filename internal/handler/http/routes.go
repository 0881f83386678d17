package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/session/login", h.login)
	})

	// routes requiring a valid session token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Post("/api/session/logout", h.logout)
		r.Get("/api/session", h.whoAmI)
		r.Put("/api/account/password", h.changePassword)

		r.Get("/api/users", h.listUsers)
		r.Post("/api/users", h.createUser)
		r.Delete("/api/users/{email}", h.deleteUser)
		r.Put("/api/users/{email}/password", h.resetPassword)
		r.Put("/api/users/{email}/role", h.changeRole)

		r.Get("/api/schema", h.getSchema)
		r.Put("/api/schema", h.updateSchema)

		r.Post("/api/records", h.addRecord)
		r.Put("/api/records/{id}", h.updateRecord)
		r.Delete("/api/records/{id}", h.deleteRecord)

		r.Get("/api/data", h.getData)
		r.Get("/api/data/meta", h.getMetadata)
		r.Post("/api/data/import", h.importRows)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
