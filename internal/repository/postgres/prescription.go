package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medremind/medremind-api/internal/model"
)

// WithTx executes a function within a transaction
func (r *prescriptionRepository) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (r *prescriptionRepository) Create(ctx context.Context, tx *sqlx.Tx, prescription *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (doctor_id, patient_id, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	prescription.CreatedAt = time.Now()
	prescription.UpdatedAt = prescription.CreatedAt

	err := tx.QueryRowxContext(ctx, query,
		prescription.DoctorID,
		prescription.PatientID,
		prescription.Date,
		prescription.CreatedAt,
		prescription.UpdatedAt,
	).Scan(&prescription.ID)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) Get(ctx context.Context, id int64) (*model.Prescription, error) {
	query := `
		SELECT id, doctor_id, patient_id, date, created_at, updated_at
		FROM prescriptions
		WHERE id = $1
	`
	var prescription model.Prescription
	if err := r.db.GetContext(ctx, &prescription, query, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

// GetForUpdate locks the prescription row for the duration of the enclosing
// transaction, serializing concurrent reconciliations of the same prescription.
func (r *prescriptionRepository) GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Prescription, error) {
	query := `
		SELECT id, doctor_id, patient_id, date, created_at, updated_at
		FROM prescriptions
		WHERE id = $1
		FOR UPDATE
	`
	var prescription model.Prescription
	if err := tx.GetContext(ctx, &prescription, query, id); err != nil {
		return nil, fmt.Errorf("failed to get prescription for update: %w", err)
	}
	return &prescription, nil
}

func (r *prescriptionRepository) UpdateFields(ctx context.Context, tx *sqlx.Tx, prescription *model.Prescription) error {
	query := `
		UPDATE prescriptions
		SET patient_id = $1, date = $2, updated_at = $3
		WHERE id = $4
	`
	prescription.UpdatedAt = time.Now()

	result, err := tx.ExecContext(ctx, query,
		prescription.PatientID,
		prescription.Date,
		prescription.UpdatedAt,
		prescription.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("prescription not found")
	}
	return nil
}

// Delete removes the prescription; medicine entries and their reminders go
// with it via FK cascade.
func (r *prescriptionRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("prescription not found")
	}
	return nil
}

func (r *prescriptionRepository) List(ctx context.Context, filters *model.PrescriptionFilters) ([]*model.Prescription, error) {
	query := `
		SELECT id, doctor_id, patient_id, date, created_at, updated_at
		FROM prescriptions
		WHERE TRUE
	`
	args := []interface{}{}
	argCount := 1

	if filters != nil && filters.DoctorID != nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, *filters.DoctorID)
		argCount++
	}

	if filters != nil && filters.PatientID != nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, *filters.PatientID)
		argCount++
	}

	query += " ORDER BY date DESC, id DESC"

	var prescriptions []*model.Prescription
	if err := r.db.SelectContext(ctx, &prescriptions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, nil
}

const listMedicinesQuery = `
	SELECT id, prescription_id, medicine_id, dosage, instructions, duration_days, schedule_times
	FROM prescription_medicines
	WHERE prescription_id = $1
	ORDER BY id ASC
`

func (r *prescriptionRepository) ListMedicines(ctx context.Context, prescriptionID int64) ([]*model.PrescriptionMedicine, error) {
	var medicines []*model.PrescriptionMedicine
	if err := r.db.SelectContext(ctx, &medicines, listMedicinesQuery, prescriptionID); err != nil {
		return nil, fmt.Errorf("failed to list prescription medicines: %w", err)
	}
	return medicines, nil
}

func (r *prescriptionRepository) ListMedicinesTx(ctx context.Context, tx *sqlx.Tx, prescriptionID int64) ([]*model.PrescriptionMedicine, error) {
	var medicines []*model.PrescriptionMedicine
	if err := tx.SelectContext(ctx, &medicines, listMedicinesQuery, prescriptionID); err != nil {
		return nil, fmt.Errorf("failed to list prescription medicines: %w", err)
	}
	return medicines, nil
}

func (r *prescriptionRepository) CreateMedicine(ctx context.Context, tx *sqlx.Tx, medicine *model.PrescriptionMedicine) error {
	query := `
		INSERT INTO prescription_medicines (prescription_id, medicine_id, dosage, instructions, duration_days, schedule_times)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := tx.QueryRowxContext(ctx, query,
		medicine.PrescriptionID,
		medicine.MedicineID,
		medicine.Dosage,
		medicine.Instructions,
		medicine.DurationDays,
		medicine.ScheduleTimes,
	).Scan(&medicine.ID)
	if err != nil {
		return fmt.Errorf("failed to create prescription medicine: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) UpdateMedicine(ctx context.Context, tx *sqlx.Tx, medicine *model.PrescriptionMedicine) error {
	query := `
		UPDATE prescription_medicines
		SET dosage = $1, instructions = $2, duration_days = $3, schedule_times = $4
		WHERE id = $5
	`
	result, err := tx.ExecContext(ctx, query,
		medicine.Dosage,
		medicine.Instructions,
		medicine.DurationDays,
		medicine.ScheduleTimes,
		medicine.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update prescription medicine: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("prescription medicine not found")
	}
	return nil
}

func (r *prescriptionRepository) DeleteMedicines(ctx context.Context, tx *sqlx.Tx, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	query := `DELETE FROM prescription_medicines WHERE id = ANY($1)`
	if _, err := tx.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to delete prescription medicines: %w", err)
	}
	return nil
}
