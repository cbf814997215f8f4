// Package profile holds the user's health profile: demographics, baseline
// conditions, and the emergency contact. Identity itself is delegated to the
// external auth provider; this package only stores what the provider's
// subject maps to.
package profile

import (
	"time"

	"github.com/google/uuid"
)

var genders = map[string]bool{
	"Male": true, "Female": true, "Other": true, "": true,
}

var bloodGroups = map[string]bool{
	"A+": true, "A-": true, "B+": true, "B-": true,
	"AB+": true, "AB-": true, "O+": true, "O-": true, "": true,
}

// ValidGender reports whether g is an accepted gender value.
func ValidGender(g string) bool { return genders[g] }

// ValidBloodGroup reports whether bg is an accepted blood group.
func ValidBloodGroup(bg string) bool { return bloodGroups[bg] }

// Diabetes records whether the user has the condition and which type.
type Diabetes struct {
	HasCondition bool   `json:"hasCondition"`
	Type         string `json:"type"`
}

// EmergencyContact is who to reach when something goes wrong.
type EmergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation"`
}

// User is the stored health profile. ExternalID is the auth provider's
// subject; it is the only identity this service trusts.
type User struct {
	ID                 uuid.UUID        `json:"id"`
	ExternalID         string           `json:"-"`
	Email              string           `json:"email"`
	FullName           string           `json:"fullName"`
	Age                *int             `json:"age,omitempty"`
	Gender             string           `json:"gender"`
	BloodGroup         string           `json:"bloodGroup"`
	Height             *float64         `json:"height,omitempty"`
	Weight             *float64         `json:"weight,omitempty"`
	ProfileComplete    bool             `json:"profileComplete"`
	Diabetes           Diabetes         `json:"diabetes"`
	BloodPressure      string           `json:"bloodPressure"`
	Allergies          []string         `json:"allergies"`
	ChronicConditions  []string         `json:"chronicConditions"`
	CurrentMedications []string         `json:"currentMedications"`
	EmergencyContact   EmergencyContact `json:"emergencyContact"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

func (u *User) normalize() {
	if u.Allergies == nil {
		u.Allergies = []string{}
	}
	if u.ChronicConditions == nil {
		u.ChronicConditions = []string{}
	}
	if u.CurrentMedications == nil {
		u.CurrentMedications = []string{}
	}
}

// basicsComplete reports whether the fields the onboarding flow requires are
// all present.
func (u *User) basicsComplete() bool {
	return u.FullName != "" && u.Age != nil && *u.Age > 0 && u.Gender != "" && u.BloodGroup != ""
}
