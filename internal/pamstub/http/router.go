package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/pamconnect/internal/pamstub/service"
	"github.com/aussiebroadwan/pamconnect/internal/pamstub/store"
	"github.com/aussiebroadwan/pamconnect/pkg/httpx"
	"github.com/aussiebroadwan/pamconnect/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/aussiebroadwan/pamconnect/api/pamstub" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	registry     *prometheus.Registry
	metrics      *Metrics

	store         store.Store
	PlayerService *service.PlayerService

	// AdminToken enables the /admin routes when set.
	AdminToken string
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger, reg *prometheus.Registry) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		registry:     reg,
		metrics:      NewMetrics(reg),
		store:        st,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerPlayer()
	r.registerAccount()
	r.registerAdmin()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			PAM Stub API
//	@version		0.1.0
//	@description	Stand-in player-account-management backend implementing the player contract used by pamconnect: login, registration, logout, balance and profile.
//	@description
//	@description				Authenticated calls carry the session id returned by login in the X-SessionId header.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/pamconnect
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	SessionAuth
//	@in							header
//	@name						X-SessionId
//	@description				Session id returned by login or registration.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerPlayer() {
	// POST login - strict limit per IP and username (brute force prevention)
	r.Mux.Handle("POST /v1/player/login/player",
		httpx.Chain(&LoginHandler{PlayerService: r.PlayerService, Metrics: r.metrics},
			httpx.RateLimitByIPAndJSONField(httpx.StrictLimit, "username"),
		),
	)

	// PUT register - strict limit per IP
	r.Mux.Handle("PUT /v1/player/register",
		httpx.Chain(&RegisterHandler{PlayerService: r.PlayerService, Metrics: r.metrics},
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// DELETE session - lenient, the session header is the only input
	r.Mux.Handle("DELETE /v1/player/session/player",
		httpx.Chain(&LogoutHandler{PlayerService: r.PlayerService},
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerAccount() {
	h := &AccountHandler{PlayerService: r.PlayerService}

	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.SessionMiddleware(r.PlayerService), // 401 unknown/expired, 403 revoked
			httpx.RateLimitByPlayer(httpx.ModerateLimit),
			httpx.RequireOwnPlayer("id"),
		)
	}

	r.Mux.Handle("GET /v1/player/{id}/balance", secured(h.HandleBalance))
	r.Mux.Handle("GET /v1/player/{id}/profile", secured(h.HandleProfile))
}

func (r *Router) registerAdmin() {
	if r.AdminToken == "" {
		return
	}

	h := &AdminHandler{PlayerService: r.PlayerService, Token: r.AdminToken}
	r.Mux.Handle("POST /admin/players/{id}/block", h.RequireToken(http.HandlerFunc(h.HandleBlock)))
	r.Mux.Handle("POST /admin/players/{id}/credit", h.RequireToken(http.HandlerFunc(h.HandleCredit)))
}

func (r *Router) registerSystem() {
	// Probes and metrics - public limits (monitoring systems poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
	r.Mux.Handle("GET /metrics",
		httpx.Chain(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}),
			httpx.RateLimitByIP(httpx.PublicLimit),
		),
	)
}
