package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/articles-api/api/controllers"
	"github.com/angelmondragon/articles-api/api/middleware"
	"github.com/angelmondragon/articles-api/api/responses"
	"github.com/angelmondragon/articles-api/internal/articles"
	"github.com/angelmondragon/articles-api/internal/members"
	"github.com/angelmondragon/articles-api/pkg/auth/session"
	"github.com/angelmondragon/articles-api/pkg/config"
	"github.com/angelmondragon/articles-api/pkg/enums"
	pkgerrors "github.com/angelmondragon/articles-api/pkg/errors"
	"github.com/angelmondragon/articles-api/pkg/logger"
	"github.com/angelmondragon/articles-api/pkg/metrics"
	"github.com/angelmondragon/articles-api/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	sessions session.AccessSessionChecker,
	rateLimiter redis.RateLimiter,
	idempotencyStore redis.IdempotencyStore,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	articleService articles.Service,
	memberService members.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		responses.WriteErrorStatus(r.Context(), logg, w, http.StatusMethodNotAllowed, pkgerrors.New(pkgerrors.CodeValidation, "method not allowed"))
	})

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginUsernameLimit,
	).WithTrustedProxyHops(cfg.AuthRateLimit.TrustedProxyHops)
	joinPolicy := middleware.NewAuthRateLimitPolicy(
		"join",
		cfg.AuthRateLimit.JoinWindow,
		cfg.AuthRateLimit.JoinIPLimit,
		cfg.AuthRateLimit.JoinUsernameLimit,
	).WithTrustedProxyHops(cfg.AuthRateLimit.TrustedProxyHops)

	authenticated := middleware.Auth(cfg.JWT, sessions, logg)
	anyMember := middleware.RequireRole(logg, enums.MemberRoleUser, enums.MemberRoleAdmin)
	adminOnly := middleware.RequireRole(logg, enums.MemberRoleAdmin)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(registry))
	}

	r.Route("/api/v1/members", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, rateLimiter, logg)).Post("/login", controllers.MemberLogin(memberService, logg))
		r.With(middleware.AuthRateLimit(joinPolicy, rateLimiter, logg)).Post("/join", controllers.MemberJoin(memberService, logg))
		r.Post("/refresh", controllers.MemberRefresh(memberService, logg))
		r.Post("/logout", controllers.MemberLogout(memberService, logg))
		r.With(authenticated, anyMember).Get("/me", controllers.MemberMe(memberService, logg))
	})

	r.Route("/api/v1/articles", func(r chi.Router) {
		r.Get("/", controllers.ListArticles(articleService, logg))
		r.Get("/{id}", controllers.GetArticle(articleService, logg))

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.With(anyMember, middleware.Idempotency(idempotencyStore, logg)).Post("/", controllers.CreateArticle(articleService, logg))
			r.With(adminOnly).Patch("/{id}", controllers.UpdateArticle(articleService, logg))
			r.With(adminOnly).Delete("/{id}", controllers.DeleteArticle(articleService, logg))
		})
	})

	return r
}
