// Package projectservice implements project provisioning and access-tier
// resolution inside carbono.
//
// Layering:
// - domain: entities, tier ordering rules, errors
// - application: provisioning pipeline, resolver, grant writes, reconciler
// - ports: stable boundaries for persistence and the profile directory
// - adapters: concrete HTTP, memory, and postgres implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
//   - Keep this module self-contained under account-core context.
//   - Principal identities resolve to profiles only through the
//     ProfileDirectory port; never import account-service adapters here.
package projectservice
