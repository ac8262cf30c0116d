// ABOUTME: Profile handlers: list, lookup, upsert, experience, account deletion
// ABOUTME: Profiles are public reads; every write is scoped to the caller

package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jgrassis/devconnect/internal/auth"
	"github.com/jgrassis/devconnect/internal/store"
)

// UpsertProfileRequest is the JSON request body for POST /profiles.
// Skills arrive as a comma-separated string.
type UpsertProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Status         string `json:"status"`
	Skills         string `json:"skills"`
	Bio            string `json:"bio"`
	GithubUsername string `json:"github_username"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// ExperienceRequest is the JSON request body for PUT /profiles/experience.
type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// SocialResponse is the JSON shape of a profile's social links.
type SocialResponse struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// ExperienceResponse is the JSON shape of one work history entry.
type ExperienceResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	From        string `json:"from"`
	To          string `json:"to,omitempty"`
	Current     bool   `json:"current"`
	Description string `json:"description,omitempty"`
}

// ProfileResponse is the JSON shape of a profile.
type ProfileResponse struct {
	ID             string               `json:"id"`
	OwnerID        string               `json:"owner_id"`
	OwnerName      string               `json:"owner_name"`
	OwnerAvatar    string               `json:"owner_avatar"`
	Company        string               `json:"company,omitempty"`
	Website        string               `json:"website,omitempty"`
	Location       string               `json:"location,omitempty"`
	Status         string               `json:"status"`
	Skills         []string             `json:"skills"`
	Bio            string               `json:"bio,omitempty"`
	GithubUsername string               `json:"github_username,omitempty"`
	Social         SocialResponse       `json:"social"`
	Experience     []ExperienceResponse `json:"experience"`
	CreatedAt      string               `json:"created_at"`
	UpdatedAt      string               `json:"updated_at"`
}

func profileResponse(profile *store.Profile) ProfileResponse {
	experience := make([]ExperienceResponse, len(profile.Experience))
	for i, exp := range profile.Experience {
		experience[i] = ExperienceResponse{
			ID:          exp.ID,
			Title:       exp.Title,
			Company:     exp.Company,
			Location:    exp.Location,
			From:        exp.From,
			To:          exp.To,
			Current:     exp.Current,
			Description: exp.Description,
		}
	}
	return ProfileResponse{
		ID:             profile.ID,
		OwnerID:        profile.OwnerID,
		OwnerName:      profile.OwnerName,
		OwnerAvatar:    profile.OwnerAvatar,
		Company:        profile.Company,
		Website:        profile.Website,
		Location:       profile.Location,
		Status:         profile.Status,
		Skills:         profile.Skills,
		Bio:            profile.Bio,
		GithubUsername: profile.GithubUsername,
		Social: SocialResponse{
			Youtube:   profile.Social.Youtube,
			Twitter:   profile.Social.Twitter,
			Facebook:  profile.Social.Facebook,
			LinkedIn:  profile.Social.LinkedIn,
			Instagram: profile.Social.Instagram,
		},
		Experience: experience,
		CreatedAt:  profile.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  profile.UpdatedAt.Format(time.RFC3339),
	}
}

// parseSkills splits a comma-separated skills string, trimming each
// entry and dropping empties.
func parseSkills(raw string) []string {
	var skills []string
	for _, skill := range strings.Split(raw, ",") {
		if s := strings.TrimSpace(skill); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// handleListProfiles handles GET /profiles.
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := s.store.ListProfiles(r.Context())
	if err != nil {
		s.internalError(w, "failed to list profiles", err)
		return
	}

	out := make([]ProfileResponse, len(profiles))
	for i, profile := range profiles {
		out[i] = profileResponse(profile)
	}
	s.sendJSON(w, http.StatusOK, out)
}

// handleGetProfileByUser handles GET /profiles/user/:user_id.
func (s *Server) handleGetProfileByUser(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.GetProfileByOwner(r.Context(), param(r, "user_id"))
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			s.sendJSONError(w, http.StatusBadRequest, "Profile not found")
			return
		}
		s.internalError(w, "failed to get profile", err)
		return
	}

	s.sendJSON(w, http.StatusOK, profileResponse(profile))
}

// handleMyProfile handles GET /profiles/me.
func (s *Server) handleMyProfile(w http.ResponseWriter, r *http.Request) {
	identityID := auth.MustIdentityFromContext(r.Context())

	profile, err := s.store.GetProfileByOwner(r.Context(), identityID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			s.sendJSONError(w, http.StatusBadRequest, "There's no profile for this user")
			return
		}
		s.internalError(w, "failed to get profile", err)
		return
	}

	s.sendJSON(w, http.StatusOK, profileResponse(profile))
}

// handleUpsertProfile handles POST /profiles. Creates the caller's
// profile if absent, otherwise replaces the mutable fields.
func (s *Server) handleUpsertProfile(w http.ResponseWriter, r *http.Request) {
	var req UpsertProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var msgs []string
	if strings.TrimSpace(req.Status) == "" {
		msgs = append(msgs, "Status is required")
	}
	skills := parseSkills(req.Skills)
	if len(skills) == 0 {
		msgs = append(msgs, "Skills is required")
	}
	if len(msgs) > 0 {
		s.sendValidationErrors(w, msgs)
		return
	}

	identityID := auth.MustIdentityFromContext(r.Context())
	now := time.Now().UTC()
	profile := &store.Profile{
		// ID and CreatedAt only matter on first insert; an existing
		// profile keeps its own.
		ID:             uuid.New().String(),
		CreatedAt:      now,
		UpdatedAt:      now,
		OwnerID:        identityID,
		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Status:         req.Status,
		Skills:         skills,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,
		Social: store.SocialLinks{
			Youtube:   req.Youtube,
			Twitter:   req.Twitter,
			Facebook:  req.Facebook,
			LinkedIn:  req.LinkedIn,
			Instagram: req.Instagram,
		},
	}

	saved, err := s.store.UpsertProfile(r.Context(), profile)
	if err != nil {
		s.internalError(w, "failed to upsert profile", err)
		return
	}

	s.sendJSON(w, http.StatusOK, profileResponse(saved))
}

// handleDeleteAccount handles DELETE /profiles.
// Removes the caller's identity; the profile, posts, comments and
// likes go with it through foreign key cascades.
func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	identityID := auth.MustIdentityFromContext(r.Context())

	if err := s.store.DeleteIdentity(r.Context(), identityID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusUnauthorized, "token is not valid")
			return
		}
		s.internalError(w, "failed to delete account", err)
		return
	}

	s.logger.Info("deleted account", "id", identityID)
	s.sendJSON(w, http.StatusOK, map[string]string{"msg": "User deleted"})
}

// handleAddExperience handles PUT /profiles/experience.
func (s *Server) handleAddExperience(w http.ResponseWriter, r *http.Request) {
	var req ExperienceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	var msgs []string
	if strings.TrimSpace(req.Title) == "" {
		msgs = append(msgs, "Title is required")
	}
	if strings.TrimSpace(req.Company) == "" {
		msgs = append(msgs, "Company is required")
	}
	if strings.TrimSpace(req.From) == "" {
		msgs = append(msgs, "From Date is required")
	}
	if len(msgs) > 0 {
		s.sendValidationErrors(w, msgs)
		return
	}

	identityID := auth.MustIdentityFromContext(r.Context())
	profile, err := s.store.GetProfileByOwner(r.Context(), identityID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			s.sendJSONError(w, http.StatusBadRequest, "There's no profile for this user")
			return
		}
		s.internalError(w, "failed to get profile", err)
		return
	}

	exp := &store.Experience{
		ID:          uuid.New().String(),
		ProfileID:   profile.ID,
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.store.AddExperience(r.Context(), profile.ID, exp); err != nil {
		s.internalError(w, "failed to add experience", err)
		return
	}

	updated, err := s.store.GetProfileByOwner(r.Context(), identityID)
	if err != nil {
		s.internalError(w, "failed to reload profile", err)
		return
	}

	s.sendJSON(w, http.StatusOK, profileResponse(updated))
}

// handleDeleteExperience handles DELETE /profiles/experience/:exp_id.
// The delete is scoped to the caller's profile, so an id belonging to
// someone else's profile is a no-op.
func (s *Server) handleDeleteExperience(w http.ResponseWriter, r *http.Request) {
	identityID := auth.MustIdentityFromContext(r.Context())

	profile, err := s.store.GetProfileByOwner(r.Context(), identityID)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			s.sendJSONError(w, http.StatusBadRequest, "There's no profile for this user")
			return
		}
		s.internalError(w, "failed to get profile", err)
		return
	}

	if err := s.store.DeleteExperience(r.Context(), profile.ID, param(r, "exp_id")); err != nil {
		s.internalError(w, "failed to delete experience", err)
		return
	}

	updated, err := s.store.GetProfileByOwner(r.Context(), identityID)
	if err != nil {
		s.internalError(w, "failed to reload profile", err)
		return
	}

	s.sendJSON(w, http.StatusOK, profileResponse(updated))
}
