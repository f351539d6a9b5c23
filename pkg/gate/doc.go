// Package gate enforces the layered suspension checks that run before
// any tenant-scoped handler.
//
// The chain is strictly ordered: user, business, subscription, employee.
// The first tripped stage short-circuits the request with a terminal,
// stage-specific HTML page carrying the suspension reason and a support
// contact. When several flags are set at once, the earlier stage wins.
//
// Policy edges baked into the chain:
//
//   - Exempt paths (auth, static assets, health checks, admin, root)
//     bypass every stage, so a suspended user can still log out.
//   - A tenant without a subscription record passes with a warning;
//     pre-subscription tenants must not be bricked.
//   - The tenant owner is never blocked by the employee stage. Owner
//     identity is authoritative and cannot be revoked via an employee
//     table edge case.
//   - Superusers skip the whole chain. Every such bypass is written to
//     the audit log.
package gate
