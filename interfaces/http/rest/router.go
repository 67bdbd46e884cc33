package rest

import (
	"net/http"

	"caseboard/application/actions"
	"caseboard/application/ports"
	"caseboard/application/session"
	"caseboard/interfaces/http/rest/handlers"
	"caseboard/interfaces/http/rest/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	sessions      *session.Manager
	dispatcher    *actions.Dispatcher
	sketches      ports.SketchRepository
	settingsStore ports.SettingsStore
	enableCORS    bool
	logger        *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	sessions *session.Manager,
	dispatcher *actions.Dispatcher,
	sketches ports.SketchRepository,
	settingsStore ports.SettingsStore,
	enableCORS bool,
	logger *zap.Logger,
) *Router {
	return &Router{
		sessions:      sessions,
		dispatcher:    dispatcher,
		sketches:      sketches,
		settingsStore: settingsStore,
		enableCORS:    enableCORS,
		logger:        logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))

	if rt.enableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000", "https://*.caseboard.io"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	sketchHandler := handlers.NewSketchHandler(rt.sessions, rt.sketches, rt.settingsStore, rt.logger)
	nodeHandler := handlers.NewNodeHandler(rt.sessions, rt.sketches, rt.logger)
	viewHandler := handlers.NewViewHandler(rt.sessions, rt.logger)
	selectionHandler := handlers.NewSelectionHandler(rt.sessions, rt.logger)
	settingsHandler := handlers.NewSettingsHandler(rt.sessions, rt.logger)
	actionHandler := handlers.NewActionHandler(rt.sessions, rt.dispatcher, rt.logger)

	router.Route("/api/v2", func(r chi.Router) {
		r.Route("/sketches", func(r chi.Router) {
			r.Post("/", sketchHandler.CreateSketch)
			r.Get("/", sketchHandler.ListSketches)

			r.Route("/{sketchID}", func(r chi.Router) {
				r.Get("/", sketchHandler.GetSketch)
				r.Delete("/", sketchHandler.DeleteSketch)
				r.Post("/close", sketchHandler.CloseSketch)
				r.Post("/save", sketchHandler.SaveSketch)
				r.Get("/graph-data", sketchHandler.GetGraphData)
				r.Get("/table-view", viewHandler.GetTableView)

				r.Route("/nodes", func(r chi.Router) {
					r.Post("/", nodeHandler.UpsertNode)
					r.Get("/{nodeID}", nodeHandler.GetNode)
					r.Delete("/{nodeID}", nodeHandler.DeleteNode)
					r.Post("/bulk-delete", nodeHandler.BulkDeleteNodes)
				})

				r.Route("/edges", func(r chi.Router) {
					r.Post("/", nodeHandler.CreateEdge)
					r.Delete("/{edgeID}", nodeHandler.DeleteEdge)
				})

				r.Route("/selection", func(r chi.Router) {
					r.Get("/", selectionHandler.GetSelection)
					r.Put("/", selectionHandler.SetSelection)
					r.Delete("/", selectionHandler.ClearSelection)
					r.Post("/toggle", selectionHandler.ToggleSelection)
					r.Post("/select-visible", selectionHandler.SelectVisible)
				})

				r.Route("/settings", func(r chi.Router) {
					r.Get("/", settingsHandler.GetSettings)
					r.Get("/{category}/controls", settingsHandler.GetControls)
					r.Put("/{category}/{key}", settingsHandler.UpdateSetting)
					r.Get("/{category}/presets", settingsHandler.ListPresets)
					r.Post("/{category}/presets/{name}/apply", settingsHandler.ApplyPreset)
				})

				r.Route("/actions", func(r chi.Router) {
					r.Get("/", actionHandler.ListActions)
					r.Post("/dispatch", actionHandler.DispatchAction)
				})
			})
		})
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
