package profile

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/medilog/medilog/pkg/apperr"
)

type mockRepo struct {
	users map[uuid.UUID]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *mockRepo) GetByExternalID(_ context.Context, externalID string) (*User, error) {
	for _, u := range m.users {
		if u.ExternalID == externalID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (m *mockRepo) Update(_ context.Context, u *User) error {
	if _, ok := m.users[u.ID]; !ok {
		return apperr.NotFound("user not found")
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func intPtr(v int) *int           { return &v }
func strPtr(v string) *string     { return &v }
func floatPtr(v float64) *float64 { return &v }

func seedUser(t *testing.T, repo *mockRepo, externalID, email string) *User {
	t.Helper()
	u := &User{ExternalID: externalID, Email: email}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestOnboardCreatesUser(t *testing.T) {
	svc := NewService(newMockRepo())

	u, err := svc.Onboard(context.Background(), "ext-1", OnboardingRequest{
		Email:      "Amit@Example.com",
		FullName:   "Amit Shah",
		Age:        intPtr(34),
		Gender:     "Male",
		BloodGroup: "B+",
	})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if u.Email != "amit@example.com" {
		t.Fatalf("email not lowercased: %q", u.Email)
	}
	if !u.ProfileComplete {
		t.Fatal("onboarded profile not marked complete")
	}
}

func TestOnboardClaimsExistingEmail(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	existing := seedUser(t, repo, "", "amit@example.com")

	u, err := svc.Onboard(context.Background(), "ext-1", OnboardingRequest{
		Email:    "amit@example.com",
		FullName: "Amit Shah",
		Age:      intPtr(34),
		Gender:   "Male",
	})
	if err != nil {
		t.Fatalf("onboard: %v", err)
	}
	if u.ID != existing.ID {
		t.Fatalf("created a duplicate instead of claiming: %s vs %s", u.ID, existing.ID)
	}
	if u.ExternalID != "ext-1" {
		t.Fatalf("external id not linked: %q", u.ExternalID)
	}
}

func TestOnboardValidation(t *testing.T) {
	svc := NewService(newMockRepo())

	cases := []struct {
		name string
		req  OnboardingRequest
	}{
		{"missing email", OnboardingRequest{Gender: "Male"}},
		{"bad gender", OnboardingRequest{Email: "a@b.c", Gender: "Robot"}},
		{"bad blood group", OnboardingRequest{Email: "a@b.c", BloodGroup: "C+"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Onboard(context.Background(), "ext-1", tc.req); apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdatePartial(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	u := seedUser(t, repo, "ext-1", "amit@example.com")
	u.FullName = "Amit Shah"
	if err := repo.Update(context.Background(), u); err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.Update(context.Background(), "ext-1", UpdateRequest{
		BloodPressure: strPtr("120/80"),
		Allergies:     []string{"penicillin"},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.FullName != "Amit Shah" {
		t.Fatalf("absent field was reset: %q", updated.FullName)
	}
	if updated.BloodPressure != "120/80" || len(updated.Allergies) != 1 {
		t.Fatalf("present fields not applied: %+v", updated)
	}
}

func TestUpdateCompletesProfileAcrossRequests(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	seedUser(t, repo, "ext-1", "amit@example.com")
	ctx := context.Background()

	u, err := svc.Update(ctx, "ext-1", UpdateRequest{
		FullName: strPtr("Amit Shah"),
		Age:      intPtr(34),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if u.ProfileComplete {
		t.Fatal("profile marked complete with basics missing")
	}

	u, err = svc.Update(ctx, "ext-1", UpdateRequest{
		Gender:     strPtr("Male"),
		BloodGroup: strPtr("B+"),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !u.ProfileComplete {
		t.Fatal("profile not marked complete after basics filled")
	}
}

func TestUpdateValidation(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	seedUser(t, repo, "ext-1", "amit@example.com")

	cases := []struct {
		name string
		req  UpdateRequest
	}{
		{"age too high", UpdateRequest{Age: intPtr(200)}},
		{"negative height", UpdateRequest{Height: floatPtr(-1)}},
		{"bad gender", UpdateRequest{Gender: strPtr("unknown")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Update(context.Background(), "ext-1", tc.req); apperr.KindOf(err) != apperr.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestGetUnknownSubject(t *testing.T) {
	svc := NewService(newMockRepo())
	if _, err := svc.Get(context.Background(), "nobody"); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
