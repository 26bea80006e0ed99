package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tokopintar/catalog-backend/api/controllers"
	"github.com/tokopintar/catalog-backend/api/middleware"
	"github.com/tokopintar/catalog-backend/internal/identity"
	product "github.com/tokopintar/catalog-backend/internal/products"
	"github.com/tokopintar/catalog-backend/pkg/config"
	"github.com/tokopintar/catalog-backend/pkg/db"
	"github.com/tokopintar/catalog-backend/pkg/imagekit"
	"github.com/tokopintar/catalog-backend/pkg/logger"
	"github.com/tokopintar/catalog-backend/pkg/metrics"
	"github.com/tokopintar/catalog-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface needs.
type RouterParams struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        db.Pinger
	RedisPinger     redis.Pinger
	ImageKitPinger  imagekit.Pinger
	IdentityService identity.Service
	ProductService  product.Service
	RateLimiter     middleware.RateLimiter
	MetricsRegistry *prometheus.Registry
	HTTPMetrics     *metrics.HTTPMetrics
}

func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(params.HTTPMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, params.DBPinger, params.RedisPinger, params.ImageKitPinger))
	})

	if params.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	signInPolicy := middleware.NewAuthRateLimitPolicy(
		"sign-in",
		cfg.AuthRateLimit.SignInWindow,
		cfg.AuthRateLimit.SignInIPLimit,
		cfg.AuthRateLimit.SignInEmailLimit,
	)
	signUpPolicy := middleware.NewAuthRateLimitPolicy(
		"sign-up",
		cfg.AuthRateLimit.SignUpWindow,
		cfg.AuthRateLimit.SignUpIPLimit,
		cfg.AuthRateLimit.SignUpEmailLimit,
	)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(signUpPolicy, params.RateLimiter, logg)).
			Post("/sign-up", controllers.AuthSignUp(params.IdentityService, logg))
		r.With(middleware.AuthRateLimit(signInPolicy, params.RateLimiter, logg)).
			Post("/sign-in", controllers.AuthSignIn(params.IdentityService, logg))
		r.Post("/sign-out", controllers.AuthSignOut(params.IdentityService, logg))
		r.Get("/session", controllers.AuthSession(params.IdentityService, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.With(middleware.OptionalAuth(params.IdentityService, logg)).
			Post("/", controllers.CreateProduct(params.ProductService, logg))
		r.Get("/", controllers.ListProducts(params.ProductService, logg))
		r.Get("/{productId}", controllers.GetProduct(params.ProductService, logg))
	})

	return r
}
