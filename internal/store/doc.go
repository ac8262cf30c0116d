// Package store provides persistent storage for devconnect using SQLite.
//
// # Data Models
//
//   - Identity: Registered account with email, bcrypt password hash, avatar
//   - Post: User post with denormalized author name/avatar
//   - Comment: Comment attached to a post
//   - Like: (post, identity) pair, toggled by the like endpoint
//   - Profile: One-per-identity public profile with embedded Experience
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// Foreign keys carry the account-deletion cascade: deleting an identity
// removes its profile, experience, posts, and every comment and like it
// left anywhere.
//
// # Error Handling
//
// Common errors:
//
//   - ErrNotFound: Requested entity does not exist
//   - ErrDuplicateEmail: Email already registered
//   - ErrProfileNotFound: Identity has no profile yet
//
// All methods accept context.Context for cancellation support.
package store
