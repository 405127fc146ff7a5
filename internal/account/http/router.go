package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/meridianhq/accounts/internal/account/service"
	"github.com/meridianhq/accounts/internal/account/store"
	"github.com/meridianhq/accounts/pkg/httpx"
	"github.com/meridianhq/accounts/pkg/jwtx"
	"github.com/meridianhq/accounts/pkg/slogx"

	_ "github.com/meridianhq/accounts/api/account" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store          store.Store
	AccountService *service.AccountService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccount()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Meridian Account Service API
//	@version		0.1.0
//	@description	Account lifecycle service: registration, login with JWT sessions,
//	@description	email confirmation and password reset via single-use emailed tokens.
//
//	@contact.name				Meridian Team
//	@contact.url				https://github.com/meridianhq/accounts
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT session token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAccount() {
	// POST /register - strict rate limit by IP (account creation + outbound mail)
	registerHandler := &RegisterHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /api/account/register",
		httpx.Chain(registerHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /login - strict rate limit by IP (authentication attempts)
	loginHandler := &LoginHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /api/account/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// GET /refresh-user-token - authenticated, lenient rate limit by user
	refreshHandler := &RefreshUserTokenHandler{AccountService: r.AccountService}
	r.Mux.Handle("GET /api/account/refresh-user-token",
		httpx.Chain(refreshHandler,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.LenientLimit),
		),
	)

	// PUT /confirm-email - moderate rate limit (token redemption)
	confirmHandler := &ConfirmEmailHandler{AccountService: r.AccountService}
	r.Mux.Handle("PUT /api/account/confirm-email",
		httpx.Chain(confirmHandler,
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)

	// POST /resend-email-confirmation-link - strict rate limit (outbound mail)
	resendHandler := &ResendConfirmationHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /api/account/resend-email-confirmation-link/{email}",
		httpx.Chain(resendHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// POST /forgot-username-or-password - strict rate limit (outbound mail)
	forgotHandler := &ForgotPasswordHandler{AccountService: r.AccountService}
	r.Mux.Handle("POST /api/account/forgot-username-or-password/{email}",
		httpx.Chain(forgotHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// PUT /reset-password - strict rate limit (credential change)
	resetHandler := &ResetPasswordHandler{AccountService: r.AccountService}
	r.Mux.Handle("PUT /api/account/reset-password",
		httpx.Chain(resetHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
