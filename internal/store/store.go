// ABOUTME: Store interface and data types for devconnect persistence
// ABOUTME: Defines Identity, Post, Comment, Profile structs and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that is already taken
var ErrDuplicateEmail = errors.New("email already registered")

// ErrProfileNotFound is returned when an identity has no profile yet
var ErrProfileNotFound = errors.New("profile not found")

// Identity represents a registered account
type Identity struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Avatar       string
	CreatedAt    time.Time
}

// Post represents a post authored by an identity. Author name and avatar
// are denormalized at creation time so deleted identities keep attribution.
type Post struct {
	ID           string
	OwnerID      string
	AuthorName   string
	AuthorAvatar string
	Body         string
	CreatedAt    time.Time
	Likes        []Like
	Comments     []Comment
}

// Like records that an identity liked a post
type Like struct {
	PostID     string
	IdentityID string
	CreatedAt  time.Time
}

// Comment represents a comment attached to a post
type Comment struct {
	ID           string
	PostID       string
	OwnerID      string
	AuthorName   string
	AuthorAvatar string
	Body         string
	CreatedAt    time.Time
}

// SocialLinks holds optional social media URLs on a profile
type SocialLinks struct {
	Youtube   string
	Twitter   string
	Facebook  string
	LinkedIn  string
	Instagram string
}

// Experience is a work history entry under a profile.
// From and To are passed through as client-supplied date strings.
type Experience struct {
	ID          string
	ProfileID   string
	Title       string
	Company     string
	Location    string
	From        string
	To          string
	Current     bool
	Description string
	CreatedAt   time.Time
}

// Profile represents an identity's public profile. OwnerName and
// OwnerAvatar are joined from the identities table on reads.
type Profile struct {
	ID             string
	OwnerID        string
	OwnerName      string
	OwnerAvatar    string
	Company        string
	Website        string
	Location       string
	Status         string
	Skills         []string
	Bio            string
	GithubUsername string
	Social         SocialLinks
	Experience     []Experience
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Store defines the interface for devconnect persistence
type Store interface {
	// Identities
	CreateIdentity(ctx context.Context, id *Identity) error
	GetIdentity(ctx context.Context, id string) (*Identity, error)
	GetIdentityByEmail(ctx context.Context, email string) (*Identity, error)
	// DeleteIdentity removes the identity and, via foreign key cascades,
	// its profile, posts, comments and likes.
	DeleteIdentity(ctx context.Context, id string) error

	// Posts
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)
	ListPosts(ctx context.Context) ([]*Post, error)
	// DeletePost deletes a post scoped to its owner so the ownership
	// check and the write hit the same row.
	DeletePost(ctx context.Context, id, ownerID string) error

	// Likes
	ToggleLike(ctx context.Context, postID, identityID string) ([]Like, error)

	// Comments
	AddComment(ctx context.Context, comment *Comment) error
	DeleteComment(ctx context.Context, postID, commentID string) error
	ListComments(ctx context.Context, postID string) ([]Comment, error)

	// Profiles
	UpsertProfile(ctx context.Context, profile *Profile) (*Profile, error)
	GetProfileByOwner(ctx context.Context, ownerID string) (*Profile, error)
	ListProfiles(ctx context.Context) ([]*Profile, error)
	AddExperience(ctx context.Context, profileID string, exp *Experience) error
	DeleteExperience(ctx context.Context, profileID, expID string) error

	// Close releases any resources held by the store
	Close() error
}
