package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/medremind/medremind-api/internal/model"
)

func (r *reminderRepository) BulkCreate(ctx context.Context, tx *sqlx.Tx, reminders []*model.MedicineReminder) error {
	if len(reminders) == 0 {
		return nil
	}

	now := time.Now()
	for _, reminder := range reminders {
		reminder.CreatedAt = now
		reminder.UpdatedAt = now
	}

	query := `
		INSERT INTO medicine_reminders (prescription_medicine_id, reminder_time, sent, acknowledged, created_at, updated_at)
		VALUES (:prescription_medicine_id, :reminder_time, :sent, :acknowledged, :created_at, :updated_at)
	`
	if _, err := tx.NamedExecContext(ctx, query, reminders); err != nil {
		return fmt.Errorf("failed to bulk create reminders: %w", err)
	}
	return nil
}

// DeleteForPrescription discards every reminder owned by the prescription's
// medicine entries. Reconciliation regenerates the full set afterwards.
func (r *reminderRepository) DeleteForPrescription(ctx context.Context, tx *sqlx.Tx, prescriptionID int64) error {
	query := `
		DELETE FROM medicine_reminders
		WHERE prescription_medicine_id IN (
			SELECT id FROM prescription_medicines WHERE prescription_id = $1
		)
	`
	if _, err := tx.ExecContext(ctx, query, prescriptionID); err != nil {
		return fmt.Errorf("failed to delete prescription reminders: %w", err)
	}
	return nil
}

func (r *reminderRepository) ListPending(ctx context.Context, before time.Time, limit int) ([]*model.ReminderDetail, error) {
	query := `
		SELECT mr.id, mr.prescription_medicine_id, mr.reminder_time, mr.sent,
			   mr.acknowledged, mr.acknowledged_time, mr.created_at, mr.updated_at,
			   pm.dosage, pm.instructions,
			   m.name AS medicine_name, m.type AS medicine_type, m.description AS medicine_description,
			   p.id AS prescription_id,
			   d.id AS doctor_id, d.name AS doctor_name,
			   pt.id AS patient_id, pt.name AS patient_name
		FROM medicine_reminders mr
		JOIN prescription_medicines pm ON pm.id = mr.prescription_medicine_id
		JOIN medicines m ON m.id = pm.medicine_id
		JOIN prescriptions p ON p.id = pm.prescription_id
		JOIN users d ON d.id = p.doctor_id
		JOIN users pt ON pt.id = p.patient_id
		WHERE NOT mr.sent AND mr.reminder_time <= $1
		ORDER BY mr.reminder_time ASC
		LIMIT $2
	`
	var reminders []*model.ReminderDetail
	if err := r.db.SelectContext(ctx, &reminders, query, before, limit); err != nil {
		return nil, fmt.Errorf("failed to list pending reminders: %w", err)
	}
	return reminders, nil
}

func (r *reminderRepository) FilterExisting(ctx context.Context, ids []int64) ([]int64, error) {
	query := `SELECT id FROM medicine_reminders WHERE id = ANY($1)`

	var found []int64
	if err := r.db.SelectContext(ctx, &found, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to look up reminders: %w", err)
	}
	return found, nil
}

// BulkSetStatus flips the named status column to true for every given id.
// Re-setting an already-true column is a no-op: acknowledged_time is stamped
// only on the first transition.
func (r *reminderRepository) BulkSetStatus(ctx context.Context, field model.ReminderStatusField, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	var query string
	switch field {
	case model.ReminderFieldSent:
		query = `UPDATE medicine_reminders SET sent = TRUE, updated_at = NOW() WHERE id = ANY($1)`
	case model.ReminderFieldAcknowledged:
		query = `
			UPDATE medicine_reminders
			SET acknowledged = TRUE,
				acknowledged_time = COALESCE(acknowledged_time, NOW()),
				updated_at = NOW()
			WHERE id = ANY($1)
		`
	default:
		return fmt.Errorf("unknown reminder status field: %s", field)
	}

	if _, err := r.db.ExecContext(ctx, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("failed to bulk update reminder %s status: %w", field, err)
	}
	return nil
}
