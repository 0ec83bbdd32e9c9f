// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request body limits. AppConfig is
// everything specific to this application: the Mongo connection, session
// cookies, the SMS gateway credentials, and the admission policy knobs.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: careconnect-session)
	SessionDomain string // Cookie domain (blank means current host)

	// SMS gateway configuration. When SMSEnabled is false the outbox
	// dispatcher logs messages instead of sending them.
	SMSEnabled    bool
	SMSAccountSID string // Twilio account SID
	SMSAuthToken  string // Twilio auth token
	SMSSenderID   string // Alphanumeric sender id, max 11 chars

	// Admission policy configuration
	IncomeThreshold int // Monthly-income ceiling for restricted events

	// Outbox dispatcher poll interval
	OutboxPollInterval time.Duration

	// Admin account bootstrap. When both are set an active admin user
	// is ensured on startup.
	AdminEmail    string
	AdminPassword string
}
