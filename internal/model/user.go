package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProfileStore defines persistence operations for user profiles.
type ProfileStore interface {
	Get(ctx context.Context, uid uuid.UUID) (Profile, error)
	Write(ctx context.Context, uid uuid.UUID, fields ProfileFields) (Profile, error)
}

// Profile is the mutable, user-editable document describing a user.
type Profile struct {
	UID          uuid.UUID
	Name         string
	Email        string
	ProfileImage string
	Designation  string
	Github       string
	Linkedin     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProfileFields is the writable subset of a profile. Write replaces the
// stored document with exactly these fields; partial merges are the
// caller's responsibility.
type ProfileFields struct {
	Name         string
	Email        string
	ProfileImage string
	Designation  string
	Github       string
	Linkedin     string
}

// Fields returns the writable subset of p.
func (p Profile) Fields() ProfileFields {
	return ProfileFields{
		Name:         p.Name,
		Email:        p.Email,
		ProfileImage: p.ProfileImage,
		Designation:  p.Designation,
		Github:       p.Github,
		Linkedin:     p.Linkedin,
	}
}
