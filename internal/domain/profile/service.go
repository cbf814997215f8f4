package profile

import (
	"context"
	"strings"

	"github.com/medilog/medilog/pkg/apperr"
)

// Service manages the user profile keyed by the authenticated subject.
type Service struct {
	users Repository
}

// NewService creates the profile domain service.
func NewService(users Repository) *Service {
	return &Service{users: users}
}

// UpdateRequest is a partial profile update. Nil means the field was absent
// from the request and keeps its stored value.
type UpdateRequest struct {
	FullName           *string           `json:"fullName"`
	Age                *int              `json:"age"`
	Gender             *string           `json:"gender"`
	BloodGroup         *string           `json:"bloodGroup"`
	Height             *float64          `json:"height"`
	Weight             *float64          `json:"weight"`
	Diabetes           *Diabetes         `json:"diabetes"`
	BloodPressure      *string           `json:"bloodPressure"`
	Allergies          []string          `json:"allergies"`
	ChronicConditions  []string          `json:"chronicConditions"`
	CurrentMedications []string          `json:"currentMedications"`
	EmergencyContact   *EmergencyContact `json:"emergencyContact"`
}

// OnboardingRequest carries the initial profile captured right after the
// first sign-in.
type OnboardingRequest struct {
	Email      string   `json:"email"`
	FullName   string   `json:"fullName"`
	Age        *int     `json:"age"`
	Gender     string   `json:"gender"`
	BloodGroup string   `json:"bloodGroup"`
	Height     *float64 `json:"height"`
	Weight     *float64 `json:"weight"`
}

// Get loads the profile for the authenticated subject.
func (s *Service) Get(ctx context.Context, externalID string) (*User, error) {
	return s.users.GetByExternalID(ctx, externalID)
}

// Update applies a partial profile update. Email and the external subject
// are never updatable here. Profile completeness is recomputed from the
// resulting record, so completing the basics over several requests still
// marks the profile complete.
func (s *Service) Update(ctx context.Context, externalID string, req UpdateRequest) (*User, error) {
	u, err := s.users.GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		u.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Age != nil {
		if *req.Age < 0 || *req.Age > 150 {
			return nil, apperr.Validation("age must be between 0 and 150")
		}
		u.Age = req.Age
	}
	if req.Gender != nil {
		if !ValidGender(*req.Gender) {
			return nil, apperr.Validation("invalid gender: " + *req.Gender)
		}
		u.Gender = *req.Gender
	}
	if req.BloodGroup != nil {
		if !ValidBloodGroup(*req.BloodGroup) {
			return nil, apperr.Validation("invalid blood group: " + *req.BloodGroup)
		}
		u.BloodGroup = *req.BloodGroup
	}
	if req.Height != nil {
		if *req.Height < 0 {
			return nil, apperr.Validation("height cannot be negative")
		}
		u.Height = req.Height
	}
	if req.Weight != nil {
		if *req.Weight < 0 {
			return nil, apperr.Validation("weight cannot be negative")
		}
		u.Weight = req.Weight
	}
	if req.Diabetes != nil {
		u.Diabetes = *req.Diabetes
	}
	if req.BloodPressure != nil {
		u.BloodPressure = *req.BloodPressure
	}
	if req.Allergies != nil {
		u.Allergies = req.Allergies
	}
	if req.ChronicConditions != nil {
		u.ChronicConditions = req.ChronicConditions
	}
	if req.CurrentMedications != nil {
		u.CurrentMedications = req.CurrentMedications
	}
	if req.EmergencyContact != nil {
		u.EmergencyContact = *req.EmergencyContact
	}

	if u.basicsComplete() {
		u.ProfileComplete = true
	}

	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Onboard records the initial profile. A pre-existing account with the same
// email, created before the auth provider was linked, is claimed instead of
// duplicated.
func (s *Service) Onboard(ctx context.Context, externalID string, req OnboardingRequest) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperr.Validation("email is required")
	}
	if !ValidGender(req.Gender) {
		return nil, apperr.Validation("invalid gender: " + req.Gender)
	}
	if !ValidBloodGroup(req.BloodGroup) {
		return nil, apperr.Validation("invalid blood group: " + req.BloodGroup)
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		u.ExternalID = externalID
		applyOnboarding(u, req)
		if err := s.users.Update(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	case apperr.IsNotFound(err):
		u = &User{ExternalID: externalID, Email: email}
		applyOnboarding(u, req)
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
		return u, nil
	default:
		return nil, err
	}
}

func applyOnboarding(u *User, req OnboardingRequest) {
	u.FullName = strings.TrimSpace(req.FullName)
	u.Age = req.Age
	u.Gender = req.Gender
	u.BloodGroup = req.BloodGroup
	u.Height = req.Height
	u.Weight = req.Weight
	u.ProfileComplete = true
}
