package visit

import (
	"fmt"
	"strings"
	"time"
)

// SummaryRequest carries the patient-reported form data the summarizer
// organizes. It is independent of any stored visit so a summary can be
// drafted before the visit is saved.
type SummaryRequest struct {
	PatientName           string   `json:"patientName"`
	PatientGender         string   `json:"patientGender"`
	PatientAge            string   `json:"patientAge"`
	ChiefComplaint        string   `json:"chiefComplaint"`
	ProblemStartDate      string   `json:"problemStartDate"`
	OnsetType             string   `json:"onsetType"`
	PainLocation          string   `json:"painLocation"`
	PainCharacter         []string `json:"painCharacter"`
	SeverityScore         string   `json:"severityScore"`
	AggravatingFactors    string   `json:"aggravatingFactors"`
	RelievingFactors      string   `json:"relievingFactors"`
	AssociatedSymptoms    []string `json:"associatedSymptoms"`
	MedicineTaken         string   `json:"medicineTaken"`
	SimilarEpisodeBefore  bool     `json:"similarEpisodeBefore"`
	SimilarEpisodeDetails string   `json:"similarEpisodeDetails"`
	RecentHistory         string   `json:"recentHistory"`
	ActiveConditions      []string `json:"activeConditions"`
	ActiveMedications     []string `json:"activeMedications"`
	QuestionsForDoctor    []string `json:"questionsForDoctor"`
	CustomNotes           string   `json:"customNotes"`
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func joinOr(items []string, def string) string {
	if len(items) == 0 {
		return def
	}
	return strings.Join(items, ", ")
}

// buildSummaryPrompt renders the summarizer instruction. The model only
// organizes what the patient reported; it is told not to diagnose or
// recommend treatment.
func buildSummaryPrompt(req SummaryRequest, now time.Time) string {
	var b strings.Builder

	b.WriteString("You are a clinical documentation assistant. Generate a structured doctor visit summary from the following patient-reported information. Be concise, professional, and medically accurate. Do not diagnose. Do not recommend treatments. Only organize what the patient has reported.\n\n")

	patient := fmt.Sprintf("%s, %s, %s years",
		orDefault(req.PatientName, "Unknown"),
		orDefault(req.PatientGender, "Unknown"),
		orDefault(req.PatientAge, "Unknown"))

	similar := "No"
	if req.SimilarEpisodeBefore {
		similar = "Yes - " + orDefault(req.SimilarEpisodeDetails, "No details")
	}

	questions := "None"
	if len(req.QuestionsForDoctor) > 0 {
		numbered := make([]string, len(req.QuestionsForDoctor))
		for i, q := range req.QuestionsForDoctor {
			numbered[i] = fmt.Sprintf("%d. %s", i+1, q)
		}
		questions = strings.Join(numbered, ", ")
	}

	fmt.Fprintf(&b, "Patient: %s\n", patient)
	fmt.Fprintf(&b, "Chief Complaint: %s\n", req.ChiefComplaint)
	fmt.Fprintf(&b, "Problem Started: %s, onset was %s\n",
		orDefault(req.ProblemStartDate, "Not specified"), orDefault(req.OnsetType, "Not specified"))
	fmt.Fprintf(&b, "Location: %s\n", orDefault(req.PainLocation, "Not specified"))
	fmt.Fprintf(&b, "Character: %s\n", joinOr(req.PainCharacter, "Not specified"))
	fmt.Fprintf(&b, "Severity: %s/10\n", orDefault(req.SeverityScore, "Not specified"))
	fmt.Fprintf(&b, "Worsens with: %s\n", orDefault(req.AggravatingFactors, "Not reported"))
	fmt.Fprintf(&b, "Improves with: %s\n", orDefault(req.RelievingFactors, "Not reported"))
	fmt.Fprintf(&b, "Associated Symptoms: %s\n", joinOr(req.AssociatedSymptoms, "None"))
	fmt.Fprintf(&b, "Medicines Already Taken: %s\n", orDefault(req.MedicineTaken, "None"))
	fmt.Fprintf(&b, "Similar Episode Before: %s\n", similar)
	fmt.Fprintf(&b, "Recent History: %s\n", orDefault(req.RecentHistory, "None"))
	fmt.Fprintf(&b, "Current Conditions: %s\n", joinOr(req.ActiveConditions, "None on record"))
	fmt.Fprintf(&b, "Current Medications: %s\n", joinOr(req.ActiveMedications, "None on record"))
	fmt.Fprintf(&b, "Questions for Doctor: %s\n", questions)
	fmt.Fprintf(&b, "Additional Notes: %s\n", orDefault(req.CustomNotes, "None"))

	b.WriteString(`
Format your response exactly as follows using these exact headings with no extra text before or after:

PATIENT VISIT SUMMARY
Date: ` + now.Format("02 Jan 2006") + `
Patient: ` + patient + `

CHIEF COMPLAINT
[one clear sentence]

HISTORY OF PRESENT ILLNESS
[two to four sentences covering onset, location, character, severity, aggravating and relieving factors]

MEDICINES ALREADY TAKEN
[bullet list or None]

ASSOCIATED SYMPTOMS
[bullet list or None reported]

CURRENT CONDITIONS AND MEDICATIONS
[list each condition with its medications or None on record]

RELEVANT HISTORY
[one to two sentences or None reported]

QUESTIONS FOR DOCTOR
[numbered list or None]`)

	return b.String()
}
