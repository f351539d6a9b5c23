package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/washlane/washlane/pkg/directory"
)

// PathPrefix is the routing convention for tenant-scoped traffic.
const PathPrefix = "/business/"

// Source records how a tenant was resolved.
type Source string

const (
	SourcePath   Source = "path"
	SourceHost   Source = "host"
	SourcePublic Source = "public"
)

// Resolution is the outcome of tenant resolution for one request. Path is
// the tenant-relative path downstream routing should see; for public and
// host resolutions it equals the original request path.
type Resolution struct {
	Tenant *directory.Tenant
	Path   string
	Source Source
}

// Resolver resolves inbound requests to tenants. It consults the routing
// cache before the directory and lazily creates a domain binding the first
// time a tenant is reached through a given hostname.
type Resolver struct {
	store  directory.Store
	cache  Cache
	ttl    time.Duration
	log    *slog.Logger
	public *directory.Tenant

	mu    sync.Mutex
	bound map[string]struct{} // (tenant id, host) pairs already ensured
}

// NewResolver creates a Resolver.
func NewResolver(store directory.Store, opts ...Option) *Resolver {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return &Resolver{
		store: store,
		cache: cfg.cache,
		ttl:   cfg.cacheTTL,
		log:   cfg.logger,
		bound: make(map[string]struct{}),
	}
}

// Resolve maps (host, path) to a Resolution. Unknown or unresolvable slugs
// fall back to the public tenant; only directory infrastructure failures on
// tenant-looking paths surface as errors.
func (r *Resolver) Resolve(ctx context.Context, host, path string) (*Resolution, error) {
	host = stripPort(host)

	if slug, rest, ok := SplitTenantPath(path); ok {
		t, err := r.lookupBySlug(ctx, slug)
		switch {
		case err == nil:
			r.ensureBinding(ctx, t, host)
			return &Resolution{Tenant: t, Path: rest, Source: SourcePath}, nil
		case errors.Is(err, directory.ErrTenantNotFound):
			// fall through to the public tenant below
		default:
			return nil, fmt.Errorf("resolve slug %q: %w", slug, errors.Join(ErrDirectoryUnavailable, err))
		}
	} else if host != "" {
		t, err := r.lookupByHost(ctx, host)
		switch {
		case err == nil:
			return &Resolution{Tenant: t, Path: path, Source: SourceHost}, nil
		case errors.Is(err, directory.ErrTenantNotFound):
			// fall through to the public tenant below
		default:
			// Host resolution is best effort; a flaky directory must not
			// take down public traffic.
			r.log.WarnContext(ctx, "host resolution failed", "host", host, "error", err)
		}
	}

	public, err := r.publicTenant(ctx)
	if err != nil {
		return nil, err
	}
	return &Resolution{Tenant: public, Path: path, Source: SourcePublic}, nil
}

// SplitTenantPath extracts the routing key from a tenant-convention path.
// "/business/acme/dashboard/" yields ("acme", "/dashboard/", true).
func SplitTenantPath(path string) (slug, rest string, ok bool) {
	if !strings.HasPrefix(path, PathPrefix) {
		return "", "", false
	}
	trimmed := strings.TrimPrefix(path, PathPrefix)
	if trimmed == "" {
		return "", "", false
	}
	slug, rest, found := strings.Cut(trimmed, "/")
	if slug == "" {
		return "", "", false
	}
	if !found {
		return slug, "/", true
	}
	return slug, "/" + rest, true
}

func (r *Resolver) lookupBySlug(ctx context.Context, slug string) (*directory.Tenant, error) {
	key := "slug:" + slug
	if t, ok := r.cache.Get(ctx, key); ok {
		return t, nil
	}
	t, err := r.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, t, r.ttl)
	return t, nil
}

func (r *Resolver) lookupByHost(ctx context.Context, host string) (*directory.Tenant, error) {
	key := "host:" + host
	if t, ok := r.cache.Get(ctx, key); ok {
		return t, nil
	}
	t, err := r.store.GetByDomain(ctx, host)
	if err != nil {
		return nil, err
	}
	r.cache.Set(ctx, key, t, r.ttl)
	return t, nil
}

func (r *Resolver) publicTenant(ctx context.Context) (*directory.Tenant, error) {
	if r.public != nil {
		return r.public, nil
	}
	t, err := r.lookupBySlug(ctx, directory.PublicSlug)
	if err != nil {
		return nil, fmt.Errorf("resolve public tenant: %w", errors.Join(ErrDirectoryUnavailable, err))
	}
	// The public tenant never changes; pin it for the process lifetime.
	r.public = t
	return t, nil
}

// ensureBinding lazily records a domain binding the first time a tenant is
// reached via a hostname. Failures are logged, never fatal: the binding is
// a convenience for host-based access, not a prerequisite for this request.
func (r *Resolver) ensureBinding(ctx context.Context, t *directory.Tenant, host string) {
	if host == "" || t.IsPublic() {
		return
	}

	key := bindKey(t.ID, host)
	r.mu.Lock()
	if _, done := r.bound[key]; done {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	if _, err := r.store.EnsureBinding(ctx, t.ID, host); err != nil {
		r.log.WarnContext(ctx, "failed to ensure domain binding",
			"tenant_id", t.ID, "host", host, "error", err)
		return
	}

	r.mu.Lock()
	r.bound[key] = struct{}{}
	r.mu.Unlock()
}

func bindKey(id uuid.UUID, host string) string {
	return id.String() + "|" + host
}

// stripPort drops a port suffix without mangling bare IPv6 hosts.
func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
