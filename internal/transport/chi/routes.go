package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerOptions configures route registration.
type ServerOptions struct {
	BaseRouter chi.Router
	// AdminKeys guard /admin routes. Empty disables auth.
	AdminKeys        []string
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler registers the API routes on opts.BaseRouter (or a new router) and returns it.
func Handler(s *Server, opts ServerOptions) http.Handler {
	r := opts.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if opts.ErrorHandlerFunc == nil {
		opts.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, err.Error())
		}
	}
	b := binder{s: s, onErr: opts.ErrorHandlerFunc}

	r.Get("/search", b.search)
	r.Get("/profiles/{id}", b.getProfile)
	r.Get("/examples", s.ListExamples)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Group(func(r chi.Router) {
		r.Use(BearerAuthMiddleware(opts.AdminKeys))
		r.Post("/admin/enrichment", s.RunEnrichment)
	})
	return r
}

// binder decodes path and query parameters before calling the Server.
type binder struct {
	s     *Server
	onErr func(w http.ResponseWriter, r *http.Request, err error)
}

func (b binder) search(w http.ResponseWriter, r *http.Request) {
	var params SearchParams

	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &params.Q); err != nil {
		b.onErr(w, r, fmt.Errorf("invalid format for parameter q: %w", err))
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		b.onErr(w, r, fmt.Errorf("invalid format for parameter limit: %w", err))
		return
	}

	b.s.Search(w, r, params)
}

func (b binder) getProfile(w http.ResponseWriter, r *http.Request) {
	var id int64

	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		b.onErr(w, r, fmt.Errorf("invalid format for parameter id: %w", err))
		return
	}

	b.s.GetProfile(w, r, id)
}
