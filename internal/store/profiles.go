// ABOUTME: SQLite operations for profiles and embedded experience entries
// ABOUTME: Profiles join owner name/avatar from identities on every read

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

const profileColumns = `
	p.id, p.owner_id, i.name, i.avatar,
	p.company, p.website, p.location, p.status, p.skills, p.bio, p.github_username,
	p.youtube, p.twitter, p.facebook, p.linkedin, p.instagram,
	p.created_at, p.updated_at
`

// UpsertProfile creates the owner's profile or replaces its fields if
// one already exists. The stored profile is returned with owner info
// and experience entries attached.
func (s *SQLiteStore) UpsertProfile(ctx context.Context, profile *Profile) (*Profile, error) {
	skills := strings.Join(profile.Skills, ",")

	existing, err := s.GetProfileByOwner(ctx, profile.OwnerID)
	if err != nil && err != ErrProfileNotFound {
		return nil, err
	}

	if existing != nil {
		query := `
			UPDATE profiles
			SET company = ?, website = ?, location = ?, status = ?, skills = ?,
				bio = ?, github_username = ?,
				youtube = ?, twitter = ?, facebook = ?, linkedin = ?, instagram = ?,
				updated_at = ?
			WHERE owner_id = ?
		`
		_, err = s.db.ExecContext(ctx, query,
			profile.Company, profile.Website, profile.Location, profile.Status, skills,
			profile.Bio, profile.GithubUsername,
			profile.Social.Youtube, profile.Social.Twitter, profile.Social.Facebook,
			profile.Social.LinkedIn, profile.Social.Instagram,
			formatTime(profile.UpdatedAt),
			profile.OwnerID,
		)
		if err != nil {
			return nil, fmt.Errorf("updating profile: %w", err)
		}
	} else {
		query := `
			INSERT INTO profiles (
				id, owner_id, company, website, location, status, skills,
				bio, github_username,
				youtube, twitter, facebook, linkedin, instagram,
				created_at, updated_at
			)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err = s.db.ExecContext(ctx, query,
			profile.ID, profile.OwnerID,
			profile.Company, profile.Website, profile.Location, profile.Status, skills,
			profile.Bio, profile.GithubUsername,
			profile.Social.Youtube, profile.Social.Twitter, profile.Social.Facebook,
			profile.Social.LinkedIn, profile.Social.Instagram,
			formatTime(profile.CreatedAt), formatTime(profile.UpdatedAt),
		)
		if err != nil {
			return nil, fmt.Errorf("inserting profile: %w", err)
		}
		s.logger.Debug("created profile", "owner", profile.OwnerID)
	}

	return s.GetProfileByOwner(ctx, profile.OwnerID)
}

// GetProfileByOwner retrieves a profile by its owner's identity id.
// Returns ErrProfileNotFound if the identity has no profile.
func (s *SQLiteStore) GetProfileByOwner(ctx context.Context, ownerID string) (*Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN identities i ON i.id = p.owner_id
		WHERE p.owner_id = ?
	`

	profile, err := s.scanProfile(s.db.QueryRowContext(ctx, query, ownerID).Scan)
	if err != nil {
		return nil, err
	}

	if profile.Experience, err = s.listExperience(ctx, profile.ID); err != nil {
		return nil, err
	}

	return profile, nil
}

// ListProfiles returns all profiles with owner info and experience attached.
func (s *SQLiteStore) ListProfiles(ctx context.Context) ([]*Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles p
		JOIN identities i ON i.id = p.owner_id
		ORDER BY p.created_at DESC, p.rowid DESC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]*Profile, 0)
	for rows.Next() {
		profile, err := s.scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating profiles: %w", err)
	}

	for _, profile := range profiles {
		if profile.Experience, err = s.listExperience(ctx, profile.ID); err != nil {
			return nil, err
		}
	}

	return profiles, nil
}

func (s *SQLiteStore) scanProfile(scan func(...any) error) (*Profile, error) {
	var profile Profile
	var skills, createdAtStr, updatedAtStr string

	err := scan(
		&profile.ID, &profile.OwnerID, &profile.OwnerName, &profile.OwnerAvatar,
		&profile.Company, &profile.Website, &profile.Location, &profile.Status,
		&skills, &profile.Bio, &profile.GithubUsername,
		&profile.Social.Youtube, &profile.Social.Twitter, &profile.Social.Facebook,
		&profile.Social.LinkedIn, &profile.Social.Instagram,
		&createdAtStr, &updatedAtStr,
	)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning profile: %w", err)
	}

	if skills != "" {
		profile.Skills = strings.Split(skills, ",")
	} else {
		profile.Skills = []string{}
	}

	if profile.CreatedAt, err = parseTime(createdAtStr); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if profile.UpdatedAt, err = parseTime(updatedAtStr); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &profile, nil
}

// AddExperience inserts a work history entry under a profile.
func (s *SQLiteStore) AddExperience(ctx context.Context, profileID string, exp *Experience) error {
	query := `
		INSERT INTO experience (
			id, profile_id, title, company, location,
			from_date, to_date, current, description, created_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	current := 0
	if exp.Current {
		current = 1
	}

	_, err := s.db.ExecContext(ctx, query,
		exp.ID, profileID, exp.Title, exp.Company, exp.Location,
		exp.From, exp.To, current, exp.Description,
		formatTime(exp.CreatedAt),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrProfileNotFound
		}
		return fmt.Errorf("inserting experience: %w", err)
	}

	s.logger.Debug("added experience", "id", exp.ID, "profile", profileID)
	return nil
}

// DeleteExperience removes an experience entry from a profile.
// Deleting an id that isn't there is not an error, matching the
// filter-and-save semantics of the profile update path.
func (s *SQLiteStore) DeleteExperience(ctx context.Context, profileID, expID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM experience WHERE id = ? AND profile_id = ?`, expID, profileID)
	if err != nil {
		return fmt.Errorf("deleting experience: %w", err)
	}
	return nil
}

func (s *SQLiteStore) listExperience(ctx context.Context, profileID string) ([]Experience, error) {
	query := `
		SELECT id, profile_id, title, company, location,
			from_date, to_date, current, description, created_at
		FROM experience
		WHERE profile_id = ?
		ORDER BY created_at DESC, rowid DESC
	`

	rows, err := s.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("querying experience: %w", err)
	}
	defer rows.Close()

	entries := make([]Experience, 0)
	for rows.Next() {
		var exp Experience
		var current int
		var createdAtStr string
		if err := rows.Scan(
			&exp.ID, &exp.ProfileID, &exp.Title, &exp.Company, &exp.Location,
			&exp.From, &exp.To, &current, &exp.Description, &createdAtStr,
		); err != nil {
			return nil, fmt.Errorf("scanning experience: %w", err)
		}
		exp.Current = current != 0
		if exp.CreatedAt, err = parseTime(createdAtStr); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		entries = append(entries, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating experience: %w", err)
	}

	return entries, nil
}
