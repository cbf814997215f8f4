package profile

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medilog/medilog/pkg/apperr"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates the PostgreSQL-backed profile repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const userCols = `id, external_id, email, full_name, age, gender, blood_group, height, weight,
	profile_complete, diabetes_has_condition, diabetes_type, blood_pressure,
	allergies, chronic_conditions, current_medications,
	emergency_name, emergency_phone, emergency_relation, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.ExternalID, &u.Email, &u.FullName, &u.Age, &u.Gender, &u.BloodGroup,
		&u.Height, &u.Weight, &u.ProfileComplete,
		&u.Diabetes.HasCondition, &u.Diabetes.Type, &u.BloodPressure,
		&u.Allergies, &u.ChronicConditions, &u.CurrentMedications,
		&u.EmergencyContact.Name, &u.EmergencyContact.Phone, &u.EmergencyContact.Relation,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.normalize()
	return &u, nil
}

func (r *repoPG) Create(ctx context.Context, u *User) error {
	u.ID = uuid.New()
	u.normalize()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (id, external_id, email, full_name, age, gender, blood_group, height, weight,
			profile_complete, diabetes_has_condition, diabetes_type, blood_pressure,
			allergies, chronic_conditions, current_medications,
			emergency_name, emergency_phone, emergency_relation)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING created_at, updated_at`,
		u.ID, u.ExternalID, u.Email, u.FullName, u.Age, u.Gender, u.BloodGroup, u.Height, u.Weight,
		u.ProfileComplete, u.Diabetes.HasCondition, u.Diabetes.Type, u.BloodPressure,
		u.Allergies, u.ChronicConditions, u.CurrentMedications,
		u.EmergencyContact.Name, u.EmergencyContact.Phone, u.EmergencyContact.Relation)
	return row.Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *repoPG) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE external_id = $1`, externalID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	return u, err
}

func (r *repoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE LOWER(email) = LOWER($1)`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user not found")
	}
	return u, err
}

func (r *repoPG) Update(ctx context.Context, u *User) error {
	u.normalize()
	tag, err := r.pool.Exec(ctx, `
		UPDATE users SET external_id=$2, email=$3, full_name=$4, age=$5, gender=$6, blood_group=$7,
			height=$8, weight=$9, profile_complete=$10,
			diabetes_has_condition=$11, diabetes_type=$12, blood_pressure=$13,
			allergies=$14, chronic_conditions=$15, current_medications=$16,
			emergency_name=$17, emergency_phone=$18, emergency_relation=$19, updated_at=NOW()
		WHERE id = $1`,
		u.ID, u.ExternalID, u.Email, u.FullName, u.Age, u.Gender, u.BloodGroup,
		u.Height, u.Weight, u.ProfileComplete,
		u.Diabetes.HasCondition, u.Diabetes.Type, u.BloodPressure,
		u.Allergies, u.ChronicConditions, u.CurrentMedications,
		u.EmergencyContact.Name, u.EmergencyContact.Phone, u.EmergencyContact.Relation)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
