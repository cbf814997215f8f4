package visit

import (
	"encoding/json"
	"testing"
)

func TestPatchClinicalField(t *testing.T) {
	clinical := Patch{"chiefComplaint": json.RawMessage(`"fever"`)}
	if field, ok := clinical.ClinicalField(); !ok || field != "chiefComplaint" {
		t.Errorf("ClinicalField() = %q, %v", field, ok)
	}

	prescriptionOnly := Patch{"prescribedMedicines": json.RawMessage(`[]`)}
	if field, ok := prescriptionOnly.ClinicalField(); ok {
		t.Errorf("prescription field classified as clinical: %q", field)
	}

	unknown := Patch{"somethingElse": json.RawMessage(`1`)}
	if _, ok := unknown.ClinicalField(); ok {
		t.Error("unknown field classified as clinical")
	}

	facility := Patch{
		"hospitalName": json.RawMessage(`"City General"`),
		"specialty":    json.RawMessage(`"Cardiology"`),
	}
	if field, ok := facility.ClinicalField(); ok {
		t.Errorf("facility field classified as clinical: %q", field)
	}
}

func TestSeverityScoreApplier(t *testing.T) {
	apply := clinicalFields["severityScore"]

	var v Visit
	if err := apply(&v, json.RawMessage(`7`)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if v.SeverityScore == nil || *v.SeverityScore != 7 {
		t.Fatalf("severityScore = %v", v.SeverityScore)
	}

	for _, raw := range []string{`0`, `11`, `"high"`} {
		if err := apply(&v, json.RawMessage(raw)); err == nil {
			t.Errorf("severityScore %s accepted", raw)
		}
	}

	// Explicit null clears the score.
	if err := apply(&v, json.RawMessage(`null`)); err != nil {
		t.Fatalf("apply null: %v", err)
	}
	if v.SeverityScore != nil {
		t.Error("null did not clear severityScore")
	}
}

func TestStatusApplier(t *testing.T) {
	apply := clinicalFields["status"]

	var v Visit
	if err := apply(&v, json.RawMessage(`"Awaiting Doctor"`)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if v.Status != StatusAwaitingDoctor {
		t.Fatalf("status = %q", v.Status)
	}
	if err := apply(&v, json.RawMessage(`"Archived"`)); err == nil {
		t.Error("invalid status accepted")
	}
}

func TestSliceApplierReplacesWhole(t *testing.T) {
	v := Visit{PainCharacter: []string{"throbbing", "sharp"}}
	apply := clinicalFields["painCharacter"]

	if err := apply(&v, json.RawMessage(`["dull"]`)); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(v.PainCharacter) != 1 || v.PainCharacter[0] != "dull" {
		t.Fatalf("painCharacter = %v", v.PainCharacter)
	}

	if err := apply(&v, json.RawMessage(`null`)); err != nil {
		t.Fatalf("apply null: %v", err)
	}
	if v.PainCharacter == nil || len(v.PainCharacter) != 0 {
		t.Fatalf("null should reset to empty slice, got %v", v.PainCharacter)
	}
}

func TestNormalize(t *testing.T) {
	var v Visit
	v.normalize()

	data, err := json.Marshal(&v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]json.RawMessage
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, field := range []string{"painCharacter", "associatedSymptoms", "questionsForDoctor", "prescribedMedicines"} {
		if string(out[field]) != "[]" {
			t.Errorf("%s serialized as %s, want []", field, out[field])
		}
	}
}
