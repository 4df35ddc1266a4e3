// Package accountservice implements account and profile management inside
// carbono.
//
// Layering:
// - domain: core entities, invariants, errors
// - application: registration pipeline and queries using explicit ports
// - ports: stable boundaries for persistence and credential hashing
// - adapters: concrete HTTP, memory, postgres, and bcrypt implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
//   - Keep this module self-contained under account-core context.
//   - Other modules read profiles only through the directory lookup exposed by
//     the application service, never through this module's adapters.
package accountservice
