// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	outboxstore "github.com/careconnect/careconnect/internal/app/store/notifications"
	userstore "github.com/careconnect/careconnect/internal/app/store/users"
	"github.com/careconnect/careconnect/internal/app/system/sms"
	"github.com/careconnect/careconnect/internal/app/system/workers"
)

// outboxDispatch is started here and stopped in Shutdown.
var outboxDispatch *workers.OutboxDispatch

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// CareConnect ensures the bootstrap admin account exists and starts the
// SMS outbox dispatcher.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		users := userstore.New(deps.MongoDatabase)
		if err := users.EnsureAdmin(ctx, appCfg.AdminEmail, appCfg.AdminPassword); err != nil {
			return fmt.Errorf("ensure admin account: %w", err)
		}
		logger.Info("admin account ensured", zap.String("email", appCfg.AdminEmail))
	}

	gateway := buildSMSGateway(appCfg, logger)
	outbox := outboxstore.New(deps.MongoDatabase)
	outboxDispatch = workers.NewOutboxDispatch(outbox, gateway, appCfg.SMSSenderID, logger, appCfg.OutboxPollInterval)
	outboxDispatch.Start()

	return nil
}

func buildSMSGateway(appCfg AppConfig, logger *zap.Logger) sms.Gateway {
	if appCfg.SMSEnabled {
		return sms.NewTwilioGateway(appCfg.SMSAccountSID, appCfg.SMSAuthToken, logger)
	}
	return &sms.LogGateway{Log: logger}
}
