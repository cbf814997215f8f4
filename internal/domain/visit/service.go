package visit

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medilog/medilog/internal/platform/ai"
	"github.com/medilog/medilog/internal/platform/blobstore"
	"github.com/medilog/medilog/pkg/apperr"
)

// Service enforces the visit lifecycle: which fields a request may touch is
// decided by the record's current status, never by the caller.
type Service struct {
	visits Repository
	ai     ai.Client
	images blobstore.ImageStore
}

// NewService creates the visit domain service.
func NewService(visits Repository, aiClient ai.Client, images blobstore.ImageStore) *Service {
	return &Service{visits: visits, ai: aiClient, images: images}
}

// Create persists a new visit. Chief complaint is required; status defaults
// to Draft.
func (s *Service) Create(ctx context.Context, ownerID string, v *Visit) error {
	if strings.TrimSpace(v.ChiefComplaint) == "" {
		return apperr.Validation("chief complaint is required")
	}
	if v.Status == "" {
		v.Status = StatusDraft
	}
	if !ValidStatus(v.Status) {
		return apperr.Validation("invalid status: " + v.Status)
	}
	if v.VisitDate.IsZero() {
		v.VisitDate = time.Now()
	}
	v.UserID = ownerID
	return s.visits.Create(ctx, v)
}

// Get loads an owned visit.
func (s *Service) Get(ctx context.Context, ownerID string, id uuid.UUID) (*Visit, error) {
	return s.visits.GetByOwner(ctx, id, ownerID)
}

// Update applies a partial update under the lifecycle lock. Once a visit is
// Completed, any clinical field in the patch rejects the entire update;
// only the prescription may still change. Status moves forward only.
func (s *Service) Update(ctx context.Context, ownerID string, id uuid.UUID, patch Patch) (*Visit, error) {
	v, err := s.visits.GetByOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if v.Completed() {
		if field, ok := patch.ClinicalField(); ok {
			return nil, apperr.Newf(apperr.KindPolicyViolation,
				"clinical summary is locked after completion (%s); only the prescription can be updated", field)
		}
		if raw, ok := patch["prescribedMedicines"]; ok {
			if err := applyMedicines(v, raw); err != nil {
				return nil, err
			}
			if err := s.visits.Update(ctx, v); err != nil {
				return nil, err
			}
		}
		return v, nil
	}

	// Draft or Awaiting Doctor: status may only move forward.
	if raw, ok := patch["status"]; ok {
		var next string
		if err := json.Unmarshal(raw, &next); err != nil {
			return nil, apperr.Validation("invalid status value")
		}
		if !ValidStatus(next) {
			return nil, apperr.Validation("invalid status: " + next)
		}
		if statusRank[next] < statusRank[v.Status] {
			return nil, apperr.Newf(apperr.KindPolicyViolation,
				"status cannot move backward from %s to %s", v.Status, next)
		}
	}

	for field, raw := range patch {
		apply, ok := clinicalFields[field]
		if !ok {
			apply, ok = facilityFields[field]
		}
		if !ok {
			continue
		}
		if err := apply(v, raw); err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, "invalid value for "+field, err)
		}
	}
	if raw, ok := patch["prescribedMedicines"]; ok {
		if err := applyMedicines(v, raw); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(v.ChiefComplaint) == "" {
		return nil, apperr.Validation("chief complaint is required")
	}

	if err := s.visits.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func applyMedicines(v *Visit, raw json.RawMessage) error {
	var meds []Medicine
	if err := json.Unmarshal(raw, &meds); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid prescribedMedicines value", err)
	}
	if meds == nil {
		meds = []Medicine{}
	}
	v.PrescribedMedicines = meds
	return nil
}

// SavePrescription replaces the prescription and moves the visit to
// Completed, whatever its prior status. Missing addedAt timestamps are
// stamped; caller-supplied ones are preserved. Validation happens before
// any write so a rejected call leaves the stored prescription untouched.
func (s *Service) SavePrescription(ctx context.Context, ownerID string, id uuid.UUID, medicines []Medicine) (*Visit, error) {
	if len(medicines) == 0 {
		return nil, apperr.Validation("prescribedMedicines array is required")
	}
	for _, m := range medicines {
		if strings.TrimSpace(m.MedicineName) == "" {
			return nil, apperr.Validation("each medicine must have a name")
		}
	}

	v, err := s.visits.GetByOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	for i := range medicines {
		if medicines[i].AddedAt == nil {
			t := now
			medicines[i].AddedAt = &t
		}
	}

	v.PrescribedMedicines = medicines
	v.Status = StatusCompleted

	if err := s.visits.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes an owned visit.
func (s *Service) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	found, err := s.visits.DeleteByOwner(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if !found {
		return apperr.NotFound("visit not found")
	}
	return nil
}

// List returns the owner's visits with the total count. Date filters are
// validated here so a malformed value fails the request instead of the
// database cast.
func (s *Service) List(ctx context.Context, ownerID string, f ListFilter, limit, offset int) ([]*Visit, int, error) {
	if f.DateFrom != "" {
		if _, err := time.Parse("2006-01-02", f.DateFrom); err != nil {
			return nil, 0, apperr.Validation("invalid dateFrom, expected YYYY-MM-DD")
		}
	}
	if f.DateTo != "" {
		if _, err := time.Parse("2006-01-02", f.DateTo); err != nil {
			return nil, 0, apperr.Validation("invalid dateTo, expected YYYY-MM-DD")
		}
	}
	return s.visits.ListByOwner(ctx, ownerID, f, limit, offset)
}

// AttachPrescriptionImage stores an uploaded prescription image and records
// its URL on the visit.
func (s *Service) AttachPrescriptionImage(ctx context.Context, ownerID string, id uuid.UUID, contentType string, r io.Reader, size int64) (*Visit, error) {
	v, err := s.visits.GetByOwner(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	url, err := s.images.Put(ctx, "visit-"+id.String(), contentType, r, size)
	if err != nil {
		switch {
		case errors.Is(err, blobstore.ErrInvalidContentType):
			return nil, apperr.Validation("only image files are allowed")
		case errors.Is(err, blobstore.ErrFileTooLarge):
			return nil, apperr.Validation("image must be under 5MB")
		default:
			return nil, apperr.ExternalService("failed to store prescription image", err)
		}
	}

	v.PrescriptionURL = url
	if err := s.visits.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// GenerateSummary drafts a structured clinical visit summary from the
// patient-reported form data. A summarizer failure is surfaced: the caller
// has no safe substitute for a structured clinical document.
func (s *Service) GenerateSummary(ctx context.Context, req SummaryRequest) (string, error) {
	if strings.TrimSpace(req.ChiefComplaint) == "" {
		return "", apperr.Validation("chief complaint is required to generate a summary")
	}

	summary, err := s.ai.Complete(ctx, buildSummaryPrompt(req, time.Now()))
	if err != nil {
		return "", apperr.ExternalService("failed to generate summary, please try again", err)
	}
	return summary, nil
}
