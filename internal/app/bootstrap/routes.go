// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/careconnect/careconnect/internal/app/admission"
	bookingsfeature "github.com/careconnect/careconnect/internal/app/features/bookings"
	dashboardfeature "github.com/careconnect/careconnect/internal/app/features/dashboard"
	eventsfeature "github.com/careconnect/careconnect/internal/app/features/events"
	feedbackfeature "github.com/careconnect/careconnect/internal/app/features/feedback"
	healthfeature "github.com/careconnect/careconnect/internal/app/features/health"
	identitiesfeature "github.com/careconnect/careconnect/internal/app/features/identities"
	loginfeature "github.com/careconnect/careconnect/internal/app/features/login"
	logoutfeature "github.com/careconnect/careconnect/internal/app/features/logout"
	outreachfeature "github.com/careconnect/careconnect/internal/app/features/outreach"
	"github.com/careconnect/careconnect/internal/app/policy/eligibility"
	bookingstore "github.com/careconnect/careconnect/internal/app/store/bookings"
	eventstore "github.com/careconnect/careconnect/internal/app/store/events"
	feedbackstore "github.com/careconnect/careconnect/internal/app/store/feedback"
	identitystore "github.com/careconnect/careconnect/internal/app/store/identities"
	outboxstore "github.com/careconnect/careconnect/internal/app/store/notifications"
	outreachstore "github.com/careconnect/careconnect/internal/app/store/outreach"
	userstore "github.com/careconnect/careconnect/internal/app/store/users"
	"github.com/careconnect/careconnect/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. It creates the session manager, wires
// the stores and the admission workflow, and mounts the feature routers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	events := eventstore.New(db)
	bookings := bookingstore.New(db)
	identities := identitystore.New(db)
	users := userstore.New(db)
	outreach := outreachstore.New(db)
	feedback := feedbackstore.New(db)
	outbox := outboxstore.New(db)

	policy := eligibility.Policy{IncomeThreshold: appCfg.IncomeThreshold}
	flow := admission.New(events, bookings, identities, outbox, policy, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, sessionMgr, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Role-based dashboard
	dashboardHandler := dashboardfeature.NewHandler(events, bookings, identities, outreach, outbox, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler))

	// Event catalog and management
	eventsHandler := eventsfeature.NewHandler(events, bookings, flow, logger)
	r.Mount("/events", eventsfeature.Routes(eventsHandler))

	// Public booking submission and feedback live under the event path.
	bookingsHandler := bookingsfeature.NewHandler(flow, bookings, logger)
	r.Mount("/events/{id}/bookings", bookingsfeature.PublicRoutes(bookingsHandler))

	feedbackHandler := feedbackfeature.NewHandler(feedback, events, logger)
	r.Mount("/events/{id}/feedback", feedbackfeature.PublicRoutes(feedbackHandler))

	// Staff booking management (check-in, cancel, per-event lists)
	r.Mount("/bookings", bookingsfeature.StaffRoutes(bookingsHandler))

	// Staff feedback review
	r.Mount("/feedback", feedbackfeature.StaffRoutes(feedbackHandler))

	// Outreach logging
	outreachHandler := outreachfeature.NewHandler(outreach, events, logger)
	r.Mount("/outreach", outreachfeature.Routes(outreachHandler))

	// Staff view of stored person profiles
	identitiesHandler := identitiesfeature.NewHandler(identities, logger)
	r.Mount("/identities", identitiesfeature.Routes(identitiesHandler))

	return r, nil
}
