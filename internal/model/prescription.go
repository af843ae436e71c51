package model

import (
	"time"

	"github.com/lib/pq"
)

// DateFormat is the wire format of a prescription's schedule start date.
const DateFormat = "2006-01-02"

type Prescription struct {
	ID        int64     `db:"id" json:"id"`
	DoctorID  int64     `db:"doctor_id" json:"doctor_id"`
	PatientID int64     `db:"patient_id" json:"patient_id"`
	Date      time.Time `db:"date" json:"date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Medicines []*PrescriptionMedicine `db:"-" json:"medicines"`
}

// PrescriptionMedicine is one medicine line-item within a prescription.
// Its duration and schedule times fully determine the reminder set it owns.
type PrescriptionMedicine struct {
	ID             int64          `db:"id" json:"id"`
	PrescriptionID int64          `db:"prescription_id" json:"prescription_id"`
	MedicineID     int64          `db:"medicine_id" json:"medicine_id"`
	Dosage         string         `db:"dosage" json:"dosage"`
	Instructions   string         `db:"instructions" json:"instructions"`
	DurationDays   int            `db:"duration_days" json:"duration_days"`
	ScheduleTimes  pq.StringArray `db:"schedule_times" json:"schedule_times"`
}

type MedicineItemRequest struct {
	MedicineID    int64    `json:"medicine_id" binding:"required"`
	Dosage        string   `json:"dosage"`
	Instructions  string   `json:"instructions"`
	DurationDays  int      `json:"duration_days"`
	ScheduleTimes []string `json:"schedule_times" binding:"omitempty,dive,hhmm"`
}

type CreatePrescriptionRequest struct {
	PatientID int64                 `json:"patient_id" binding:"required"`
	Date      string                `json:"date" binding:"required,datetime=2006-01-02"`
	Medicines []MedicineItemRequest `json:"medicines" binding:"omitempty,dive"`
}

type UpdatePrescriptionRequest struct {
	PatientID *int64                `json:"patient_id"`
	Date      *string               `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Medicines []MedicineItemRequest `json:"medicines" binding:"dive"`
}

type PrescriptionFilters struct {
	DoctorID  *int64
	PatientID *int64
}
