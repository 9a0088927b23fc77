// internal/wire/wire.go
package wire

import (
	"catalog-api/internal/adaptor"
	"catalog-api/internal/data/repository"
	"catalog-api/internal/usecase"
	"catalog-api/pkg/middleware"
	"catalog-api/pkg/storage"
	"catalog-api/pkg/utils"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring menginisialisasi semua dependencies
func Wiring(repo *repository.Repository, blobs storage.BlobStore, config *utils.Config, logger *zap.Logger) *App {
	// Initialize services dan handlers
	service := usecase.NewService(repo, blobs, config, logger)
	handler := adaptor.NewHandler(service, config, logger)

	// Setup router
	router := setupRouter(handler, service, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

// setupRouter konfigurasi Chi router
func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Forwarding headers count only when sent by a configured proxy
	ips := middleware.NewIPResolver(config.Security.TrustedProxies, logger)

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger, ips))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.Security.AllowedOrigins))
	r.Use(middleware.RateLimit(config.Security.RateLimitRPS, config.Security.RateLimitBurst, ips, logger))

	// Envelope for unmatched routes; set before Route so sub-routers inherit it
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Not found", "The requested resource was not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, http.StatusMethodNotAllowed, utils.Response{
			Message: "Method not allowed",
			Error:   "The HTTP method is not allowed for this endpoint.",
		})
	})

	authenticate := middleware.Authenticate(service.Token, logger.With(zap.String("middleware", "auth")))

	// Apply routes
	r.Route("/api", func(r chi.Router) {
		wireAuth(r, handler.Auth, authenticate)
		wireUser(r, handler.User, authenticate)
		wireAdmin(r, handler.Admin, authenticate, logger)
		wireCategory(r, handler.Category, authenticate)
		wireProduct(r, handler.Product, authenticate)
	})

	// Uploaded thumbnails
	r.Handle("/storage/*", http.StripPrefix("/storage/", noDirListing(http.FileServer(http.Dir(config.Storage.Path)))))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", map[string]string{"status": "ok"})
	})

	return r
}

func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			utils.ResponseNotFound(w, "Not found", "The requested resource was not found.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
