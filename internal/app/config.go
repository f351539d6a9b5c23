package app

import "time"

// Config is the application-level configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// Environment is the deployment environment (development, staging,
	// production); it drives log formatting.
	Environment string `env:"APP_ENV" envDefault:"development"`

	// CookieSecrets signs session cookies; first entry signs, the rest
	// verify, enabling rotation.
	CookieSecrets []string `env:"COOKIE_SECRETS,required" envSeparator:","`

	// SupportContact appears on suspension terminal pages.
	SupportContact string `env:"SUPPORT_CONTACT" envDefault:"support@washlane.app"`

	// PlanCatalogPath locates the YAML subscription plan catalog.
	PlanCatalogPath string `env:"PLAN_CATALOG_PATH" envDefault:"config/plans.yaml"`

	// TenantCacheTTL bounds how long resolved tenants stay cached.
	TenantCacheTTL time.Duration `env:"TENANT_CACHE_TTL" envDefault:"5m"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}
