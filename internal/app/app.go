package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/washlane/washlane/internal/admin"
	"github.com/washlane/washlane/pkg/audit"
	"github.com/washlane/washlane/pkg/bizctx"
	"github.com/washlane/washlane/pkg/cookie"
	"github.com/washlane/washlane/pkg/directory"
	"github.com/washlane/washlane/pkg/gate"
	"github.com/washlane/washlane/pkg/httpserver"
	"github.com/washlane/washlane/pkg/identity"
	"github.com/washlane/washlane/pkg/registrar"
	"github.com/washlane/washlane/pkg/session"
	"github.com/washlane/washlane/pkg/subscription"
	"github.com/washlane/washlane/pkg/tenant"
	"github.com/washlane/washlane/svc/business"
)

// App wires the request pipeline: resolver, registrar, session
// continuity, suspension gate and business context publisher, plus the
// platform surfaces around them.
type App struct {
	cfg        Config
	log        *slog.Logger
	pool       *pgxpool.Pool
	redis      *goredis.Client
	users      identity.Store
	sessions   *session.Manager
	continuity *session.Continuity
	resolver   *tenant.Resolver
	schemas    *registrar.Registrar
	gate       *gate.Gate
	publisher  *bizctx.Publisher
	admin      *admin.Handler
}

// New assembles the application from its infrastructure dependencies.
func New(cfg Config, sessCfg session.Config, pool *pgxpool.Pool, redisClient *goredis.Client, log *slog.Logger) (*App, error) {
	cookieMgr, err := cookie.New(cfg.CookieSecrets)
	if err != nil {
		return nil, fmt.Errorf("init cookie manager: %w", err)
	}

	tenants := directory.NewPostgresStore(pool)
	users := identity.NewPostgresStore(pool)

	catalog, err := subscription.LoadCatalog(cfg.PlanCatalogPath)
	if err != nil {
		return nil, fmt.Errorf("load plan catalog: %w", err)
	}
	subStore := subscription.NewPostgresStore(pool)
	subSvc := subscription.NewService(subStore, catalog, log)

	resolver := tenant.NewResolver(tenants,
		tenant.WithCache(tenant.NewRedisCache(redisClient)),
		tenant.WithCacheTTL(cfg.TenantCacheTTL),
		tenant.WithLogger(log),
	)
	schemas := registrar.New(pool, log)

	transport := session.NewCookieTransport(cookieMgr, sessCfg.CookieName, sessCfg.SecureCookies)
	sessions := session.NewManager(session.NewRedisStore(redisClient), transport,
		session.WithConfig(sessCfg),
		session.WithLogger(log),
	)
	continuity := session.NewContinuity(sessions, users, log)

	auditLog := audit.NewLogger(audit.NewPostgresStorage(pool),
		audit.WithTenantIDExtractor(func(ctx context.Context) (string, bool) {
			id, ok := tenant.IDFromContext(ctx)
			if !ok {
				return "", false
			}
			return id.String(), true
		}),
		audit.WithUserIDExtractor(func(ctx context.Context) (string, bool) {
			user, ok := session.CurrentUser(ctx)
			if !ok {
				return "", false
			}
			return strconv.FormatInt(user.ID, 10), true
		}),
	)

	registerSvc := business.NewService(tenants, users, schemas, subSvc, business.WithLogger(log))
	adminHandler := admin.NewHandler(users, tenants, subSvc, schemas, registerSvc, auditLog, log)

	return &App{
		cfg:        cfg,
		log:        log,
		pool:       pool,
		redis:      redisClient,
		users:      users,
		sessions:   sessions,
		continuity: continuity,
		resolver:   resolver,
		schemas:    schemas,
		gate:       gate.New(subStore, auditLog, gate.WithLogger(log)),
		publisher:  bizctx.NewPublisher(log),
		admin:      adminHandler,
	}, nil
}

// Run serves HTTP until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	srv := httpserver.New(
		httpserver.WithAddr(a.cfg.Addr),
		httpserver.WithShutdownTimeout(a.cfg.ShutdownTimeout),
		httpserver.WithLogger(a.log),
	)
	return srv.Run(ctx, a.Router())
}
