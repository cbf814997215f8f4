package visit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Visit statuses. Transitions only ever move forward:
// Draft -> Awaiting Doctor -> Completed.
const (
	StatusDraft          = "Draft"
	StatusAwaitingDoctor = "Awaiting Doctor"
	StatusCompleted      = "Completed"
)

var statusRank = map[string]int{
	StatusDraft:          0,
	StatusAwaitingDoctor: 1,
	StatusCompleted:      2,
}

// ValidStatus reports whether s is one of the three lifecycle statuses.
func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// Onset types for the problem start.
const (
	OnsetSudden  = "Sudden"
	OnsetGradual = "Gradual"
)

// Medicine is one prescribed medicine entry. Prescription fields are not
// gated by the clinical-field lock and stay writable after completion.
type Medicine struct {
	MedicineName string     `json:"medicineName"`
	Dosage       string     `json:"dosage,omitempty"`
	Frequency    string     `json:"frequency,omitempty"`
	Duration     string     `json:"duration,omitempty"`
	Instructions string     `json:"instructions,omitempty"`
	AddedAt      *time.Time `json:"addedAt,omitempty"`
}

// Visit is one record of patient-reported pre-consultation information plus
// the eventual doctor prescription.
type Visit struct {
	ID     uuid.UUID `json:"id"`
	UserID string    `json:"-"`

	VisitDate    time.Time `json:"visitDate"`
	DoctorName   string    `json:"doctorName"`
	HospitalName string    `json:"hospitalName"`
	Specialty    string    `json:"specialty"`
	Status       string    `json:"status"`

	ChiefComplaint        string     `json:"chiefComplaint"`
	ProblemStartDate      *time.Time `json:"problemStartDate,omitempty"`
	OnsetType             string     `json:"onsetType"`
	PainLocation          string     `json:"painLocation"`
	PainCharacter         []string   `json:"painCharacter"`
	SeverityScore         *int       `json:"severityScore,omitempty"`
	AggravatingFactors    string     `json:"aggravatingFactors"`
	RelievingFactors      string     `json:"relievingFactors"`
	AssociatedSymptoms    []string   `json:"associatedSymptoms"`
	MedicineTaken         string     `json:"medicineTaken"`
	SimilarEpisodeBefore  bool       `json:"similarEpisodeBefore"`
	SimilarEpisodeDetails string     `json:"similarEpisodeDetails"`
	RecentHistory         string     `json:"recentHistory"`
	QuestionsForDoctor    []string   `json:"questionsForDoctor"`
	CustomNotes           string     `json:"customNotes"`
	AIGeneratedSummary    string     `json:"aiGeneratedSummary"`

	PrescribedMedicines []Medicine `json:"prescribedMedicines"`
	PrescriptionURL     string     `json:"prescriptionUrl"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Completed reports whether the clinical fields are locked.
func (v *Visit) Completed() bool { return v.Status == StatusCompleted }

// Patch is a partial update keyed by API field name. Keeping raw JSON per
// field lets Update distinguish "absent" from "set to zero value".
type Patch map[string]json.RawMessage

// fieldApplier decodes one patch value into its place on the visit.
type fieldApplier func(*Visit, json.RawMessage) error

func stringField(set func(*Visit, string)) fieldApplier {
	return func(v *Visit, raw json.RawMessage) error {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		set(v, s)
		return nil
	}
}

func stringSliceField(set func(*Visit, []string)) fieldApplier {
	return func(v *Visit, raw json.RawMessage) error {
		var s []string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if s == nil {
			s = []string{}
		}
		// A provided array fully replaces the stored one.
		set(v, s)
		return nil
	}
}

// clinicalFields is the declarative classification the lock policy consults:
// a patch key is a clinical field exactly when it appears here. Prescription
// fields (prescribedMedicines, prescriptionUrl) are deliberately absent.
var clinicalFields = map[string]fieldApplier{
	"chiefComplaint": stringField(func(v *Visit, s string) { v.ChiefComplaint = s }),
	"problemStartDate": func(v *Visit, raw json.RawMessage) error {
		var t *time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return err
		}
		v.ProblemStartDate = t
		return nil
	},
	"onsetType":     stringField(func(v *Visit, s string) { v.OnsetType = s }),
	"painLocation":  stringField(func(v *Visit, s string) { v.PainLocation = s }),
	"painCharacter": stringSliceField(func(v *Visit, s []string) { v.PainCharacter = s }),
	"severityScore": func(v *Visit, raw json.RawMessage) error {
		var n *int
		if err := json.Unmarshal(raw, &n); err != nil {
			return err
		}
		if n != nil && (*n < 1 || *n > 10) {
			return fmt.Errorf("severityScore must be between 1 and 10")
		}
		v.SeverityScore = n
		return nil
	},
	"aggravatingFactors": stringField(func(v *Visit, s string) { v.AggravatingFactors = s }),
	"relievingFactors":   stringField(func(v *Visit, s string) { v.RelievingFactors = s }),
	"associatedSymptoms": stringSliceField(func(v *Visit, s []string) { v.AssociatedSymptoms = s }),
	"medicineTaken":      stringField(func(v *Visit, s string) { v.MedicineTaken = s }),
	"similarEpisodeBefore": func(v *Visit, raw json.RawMessage) error {
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return err
		}
		v.SimilarEpisodeBefore = b
		return nil
	},
	"similarEpisodeDetails": stringField(func(v *Visit, s string) { v.SimilarEpisodeDetails = s }),
	"recentHistory":         stringField(func(v *Visit, s string) { v.RecentHistory = s }),
	"questionsForDoctor":    stringSliceField(func(v *Visit, s []string) { v.QuestionsForDoctor = s }),
	"customNotes":           stringField(func(v *Visit, s string) { v.CustomNotes = s }),
	"aiGeneratedSummary":    stringField(func(v *Visit, s string) { v.AIGeneratedSummary = s }),
	"doctorName":            stringField(func(v *Visit, s string) { v.DoctorName = s }),
	"visitDate": func(v *Visit, raw json.RawMessage) error {
		var t time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return err
		}
		v.VisitDate = t
		return nil
	},
	"status": func(v *Visit, raw json.RawMessage) error {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		if !ValidStatus(s) {
			return fmt.Errorf("invalid status: %s", s)
		}
		v.Status = s
		return nil
	},
}

// facilityFields are editable while the visit is open but are not part of
// the clinical summary: writing them after completion is a no-op rather
// than a policy violation.
var facilityFields = map[string]fieldApplier{
	"hospitalName": stringField(func(v *Visit, s string) { v.HospitalName = s }),
	"specialty":    stringField(func(v *Visit, s string) { v.Specialty = s }),
}

// ClinicalField reports the first clinical field present in the patch, if
// any. Used to reject locked writes with a message naming the field.
func (p Patch) ClinicalField() (string, bool) {
	for key := range p {
		if _, ok := clinicalFields[key]; ok {
			return key, true
		}
	}
	return "", false
}

// normalize ensures slice fields serialize as [] rather than null.
func (v *Visit) normalize() {
	if v.PainCharacter == nil {
		v.PainCharacter = []string{}
	}
	if v.AssociatedSymptoms == nil {
		v.AssociatedSymptoms = []string{}
	}
	if v.QuestionsForDoctor == nil {
		v.QuestionsForDoctor = []string{}
	}
	if v.PrescribedMedicines == nil {
		v.PrescribedMedicines = []Medicine{}
	}
}
