// Package auth provides authentication and authorization for devconnect.
//
// # Components
//
//   - Password hashing: bcrypt with random salt (HashPassword /
//     CheckPassword). DummyCompare keeps login timing uniform when the
//     email is unknown.
//
//   - Token service: HS256 JWTs signed with the configured secret.
//     Issue(subject, ttl) and Verify(token) with distinct
//     ErrExpiredToken / ErrInvalidToken results. Tokens are stateless;
//     rotating the secret invalidates all of them, and no revocation
//     list exists.
//
//   - HTTP gate: RequireAuth middleware extracts the bearer token,
//     verifies it, and attaches the subject id to the request context
//     via WithIdentity/IdentityFromContext. The gate never reads the
//     identity store, so a token outlives its identity until expiry.
//
//   - Ownership policy: Authorize(actor, owner) is a pure id equality
//     check applied by handlers before every mutation of posts,
//     comments, and profile deletion.
package auth
