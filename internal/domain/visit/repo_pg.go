package visit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medilog/medilog/pkg/apperr"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates the PostgreSQL-backed visit repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const visitCols = `id, user_id, visit_date, doctor_name, hospital_name, specialty, status,
	chief_complaint, problem_start_date, onset_type, pain_location, pain_character,
	severity_score, aggravating_factors, relieving_factors, associated_symptoms,
	medicine_taken, similar_episode_before, similar_episode_details, recent_history,
	questions_for_doctor, custom_notes, ai_generated_summary,
	prescribed_medicines, prescription_url, created_at, updated_at`

func scanVisit(row pgx.Row) (*Visit, error) {
	var v Visit
	var medicines []byte
	err := row.Scan(&v.ID, &v.UserID, &v.VisitDate, &v.DoctorName, &v.HospitalName, &v.Specialty, &v.Status,
		&v.ChiefComplaint, &v.ProblemStartDate, &v.OnsetType, &v.PainLocation, &v.PainCharacter,
		&v.SeverityScore, &v.AggravatingFactors, &v.RelievingFactors, &v.AssociatedSymptoms,
		&v.MedicineTaken, &v.SimilarEpisodeBefore, &v.SimilarEpisodeDetails, &v.RecentHistory,
		&v.QuestionsForDoctor, &v.CustomNotes, &v.AIGeneratedSummary,
		&medicines, &v.PrescriptionURL, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(medicines) > 0 {
		if err := json.Unmarshal(medicines, &v.PrescribedMedicines); err != nil {
			return nil, fmt.Errorf("decode prescribed_medicines: %w", err)
		}
	}
	v.normalize()
	return &v, nil
}

func (r *repoPG) Create(ctx context.Context, v *Visit) error {
	v.ID = uuid.New()
	v.normalize()
	medicines, err := json.Marshal(v.PrescribedMedicines)
	if err != nil {
		return fmt.Errorf("encode prescribed_medicines: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO visits (id, user_id, visit_date, doctor_name, hospital_name, specialty, status,
			chief_complaint, problem_start_date, onset_type, pain_location, pain_character,
			severity_score, aggravating_factors, relieving_factors, associated_symptoms,
			medicine_taken, similar_episode_before, similar_episode_details, recent_history,
			questions_for_doctor, custom_notes, ai_generated_summary,
			prescribed_medicines, prescription_url)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25)
		RETURNING created_at, updated_at`,
		v.ID, v.UserID, v.VisitDate, v.DoctorName, v.HospitalName, v.Specialty, v.Status,
		v.ChiefComplaint, v.ProblemStartDate, v.OnsetType, v.PainLocation, v.PainCharacter,
		v.SeverityScore, v.AggravatingFactors, v.RelievingFactors, v.AssociatedSymptoms,
		v.MedicineTaken, v.SimilarEpisodeBefore, v.SimilarEpisodeDetails, v.RecentHistory,
		v.QuestionsForDoctor, v.CustomNotes, v.AIGeneratedSummary,
		medicines, v.PrescriptionURL)
	return row.Scan(&v.CreatedAt, &v.UpdatedAt)
}

func (r *repoPG) GetByOwner(ctx context.Context, id uuid.UUID, ownerID string) (*Visit, error) {
	v, err := scanVisit(r.pool.QueryRow(ctx,
		`SELECT `+visitCols+` FROM visits WHERE id = $1 AND user_id = $2`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("visit not found")
	}
	return v, err
}

func (r *repoPG) Update(ctx context.Context, v *Visit) error {
	v.normalize()
	medicines, err := json.Marshal(v.PrescribedMedicines)
	if err != nil {
		return fmt.Errorf("encode prescribed_medicines: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE visits SET visit_date=$3, doctor_name=$4, hospital_name=$5, specialty=$6, status=$7,
			chief_complaint=$8, problem_start_date=$9, onset_type=$10, pain_location=$11,
			pain_character=$12, severity_score=$13, aggravating_factors=$14, relieving_factors=$15,
			associated_symptoms=$16, medicine_taken=$17, similar_episode_before=$18,
			similar_episode_details=$19, recent_history=$20, questions_for_doctor=$21,
			custom_notes=$22, ai_generated_summary=$23, prescribed_medicines=$24,
			prescription_url=$25, updated_at=NOW()
		WHERE id = $1 AND user_id = $2`,
		v.ID, v.UserID, v.VisitDate, v.DoctorName, v.HospitalName, v.Specialty, v.Status,
		v.ChiefComplaint, v.ProblemStartDate, v.OnsetType, v.PainLocation,
		v.PainCharacter, v.SeverityScore, v.AggravatingFactors, v.RelievingFactors,
		v.AssociatedSymptoms, v.MedicineTaken, v.SimilarEpisodeBefore,
		v.SimilarEpisodeDetails, v.RecentHistory, v.QuestionsForDoctor,
		v.CustomNotes, v.AIGeneratedSummary, medicines,
		v.PrescriptionURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("visit not found")
	}
	return nil
}

func (r *repoPG) DeleteByOwner(ctx context.Context, id uuid.UUID, ownerID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM visits WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// listWhere builds the WHERE clause and argument list for ListByOwner. The
// owner predicate is always first; the date range is inclusive on both ends.
func listWhere(ownerID string, f ListFilter) (string, []interface{}) {
	where := []string{"user_id = $1"}
	args := []interface{}{ownerID}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, fmt.Sprintf(
			`(doctor_name ILIKE %[1]s OR specialty ILIKE %[1]s OR hospital_name ILIKE %[1]s
			OR chief_complaint ILIKE %[1]s OR pain_location ILIKE %[1]s)`, p))
	}
	if f.Specialty != "" {
		where = append(where, fmt.Sprintf("specialty ILIKE %s", arg("%"+f.Specialty+"%")))
	}
	if f.DateFrom != "" {
		where = append(where, fmt.Sprintf("visit_date >= %s::date", arg(f.DateFrom)))
	}
	if f.DateTo != "" {
		// inclusive upper bound
		where = append(where, fmt.Sprintf("visit_date < %s::date + INTERVAL '1 day'", arg(f.DateTo)))
	}

	return strings.Join(where, " AND "), args
}

func (r *repoPG) ListByOwner(ctx context.Context, ownerID string, f ListFilter, limit, offset int) ([]*Visit, int, error) {
	cond, args := listWhere(ownerID, f)

	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM visits WHERE `+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataArgs := append(args, limit, offset)
	rows, err := r.pool.Query(ctx,
		`SELECT `+visitCols+` FROM visits WHERE `+cond+
			fmt.Sprintf(` ORDER BY visit_date DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2),
		dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Visit
	for rows.Next() {
		v, err := scanVisit(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, v)
	}
	return items, total, rows.Err()
}
