// Package gatekit is a subscription-entitlement engine: it decides whether
// a user may access a gated feature right now, how many uses they have left
// today, and how many trial days remain.
//
// The engine is built from small, separately usable packages:
//
//   - svc/subscription: pure status resolution (admin / pro / trial / free)
//     over two generations of profile schema, plus a process-lifetime
//     session cache with optimistic updates.
//   - svc/gate: per-feature daily quotas for free users, failing open on
//     every local fault.
//   - pkg/cache: TTL caching with obfuscated persistence, lazy expiry and
//     bounded local growth.
//   - pkg/kv: interchangeable storage backends (memory, SQLite, Redis).
//   - pkg/codec: reversible obfuscation for values at rest.
//   - pkg/config, pkg/logger: environment configuration and slog setup.
//
// Rendering, routing, payments and transport to the profile store are
// intentionally out of scope; the profile source is an injected
// collaborator.
package gatekit
