package model

import "time"

// ReminderStatusField names a boolean status column that may be bulk-set on reminders.
type ReminderStatusField string

const (
	ReminderFieldSent         ReminderStatusField = "sent"
	ReminderFieldAcknowledged ReminderStatusField = "acknowledged"
)

// MedicineReminder is one concrete reminder instant derived from its owning
// prescription medicine's duration and schedule times.
type MedicineReminder struct {
	ID                     int64      `db:"id" json:"id"`
	PrescriptionMedicineID int64      `db:"prescription_medicine_id" json:"prescription_medicine_id"`
	ReminderTime           time.Time  `db:"reminder_time" json:"reminder_time"`
	Sent                   bool       `db:"sent" json:"sent"`
	Acknowledged           bool       `db:"acknowledged" json:"acknowledged"`
	AcknowledgedTime       *time.Time `db:"acknowledged_time" json:"acknowledged_time,omitempty"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

// ReminderDetail is a pending reminder joined with its owning medicine entry,
// the referenced catalog medicine and the parent prescription's participants.
type ReminderDetail struct {
	MedicineReminder
	Dosage              string `db:"dosage" json:"dosage"`
	Instructions        string `db:"instructions" json:"instructions"`
	MedicineName        string `db:"medicine_name" json:"medicine_name"`
	MedicineType        string `db:"medicine_type" json:"medicine_type"`
	MedicineDescription string `db:"medicine_description" json:"medicine_description"`
	PrescriptionID      int64  `db:"prescription_id" json:"prescription_id"`
	DoctorID            int64  `db:"doctor_id" json:"doctor_id"`
	DoctorName          string `db:"doctor_name" json:"doctor_name"`
	PatientID           int64  `db:"patient_id" json:"patient_id"`
	PatientName         string `db:"patient_name" json:"patient_name"`
}

type BulkStatusRequest struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

type BulkStatusResult struct {
	UpdatedIDs  []int64 `json:"updatedIds"`
	NotFoundIDs []int64 `json:"notFoundIds"`
}
