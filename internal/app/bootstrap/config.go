// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"

	"github.com/careconnect/careconnect/internal/app/policy/eligibility"
	"github.com/careconnect/careconnect/internal/app/system/sms"
)

// appConfigKeys defines the configuration keys for CareConnect.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: CARECONNECT_MONGO_URI, CARECONNECT_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "careconnect", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "careconnect-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// SMS gateway configuration
	{Name: "sms_enabled", Default: false, Desc: "Send SMS through Twilio; when false messages are logged instead"},
	{Name: "sms_account_sid", Default: "", Desc: "Twilio account SID"},
	{Name: "sms_auth_token", Default: "", Desc: "Twilio auth token"},
	{Name: "sms_sender_id", Default: "CareConnect", Desc: "SMS sender id (max 11 characters)"},

	// Admission policy
	{Name: "income_threshold", Default: eligibility.DefaultIncomeThreshold, Desc: "Monthly-income ceiling for restricted events"},

	// Outbox dispatcher
	{Name: "outbox_poll_interval", Default: "15s", Desc: "How often the SMS outbox is polled (e.g., 15s, 1m)"},

	// Admin bootstrap
	{Name: "admin_email", Default: "", Desc: "Email of the admin user ensured on startup (blank disables)"},
	{Name: "admin_password", Default: "", Desc: "Password for the bootstrapped admin user"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, CARECONNECT_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "CARECONNECT", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),

		SMSEnabled:    appValues.Bool("sms_enabled"),
		SMSAccountSID: appValues.String("sms_account_sid"),
		SMSAuthToken:  appValues.String("sms_auth_token"),
		SMSSenderID:   appValues.String("sms_sender_id"),

		IncomeThreshold: appValues.Int("income_threshold"),

		OutboxPollInterval: appValues.Duration("outbox_poll_interval", 15*time.Second),

		AdminEmail:    appValues.String("admin_email"),
		AdminPassword: appValues.String("admin_password"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// CareConnect validates the MongoDB URI and the SMS gateway settings so
// configuration errors surface before anything connects.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if err := sms.ValidateSenderID(appCfg.SMSSenderID); err != nil {
		return err
	}

	if appCfg.SMSEnabled && (appCfg.SMSAccountSID == "" || appCfg.SMSAuthToken == "") {
		return fmt.Errorf("sms_enabled requires sms_account_sid and sms_auth_token")
	}

	if appCfg.IncomeThreshold <= 0 {
		return fmt.Errorf("income_threshold must be positive, got %d", appCfg.IncomeThreshold)
	}

	if appCfg.OutboxPollInterval <= 0 {
		return fmt.Errorf("outbox_poll_interval must be positive")
	}

	if (appCfg.AdminEmail == "") != (appCfg.AdminPassword == "") {
		return fmt.Errorf("admin_email and admin_password must be set together")
	}

	return nil
}
