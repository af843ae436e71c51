package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medremind/medremind-api/internal/model"
)

// All repository interfaces in one file. Mutations that take part in a
// prescription reconciliation accept an explicit *sqlx.Tx so the whole
// reconciliation commits or rolls back as one unit.
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id int64) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	MedicineRepository interface {
		Create(ctx context.Context, medicine *model.Medicine) error
		Get(ctx context.Context, id int64) (*model.Medicine, error)
		Update(ctx context.Context, medicine *model.Medicine) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Medicine, error)
	}

	PrescriptionRepository interface {
		WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error

		Create(ctx context.Context, tx *sqlx.Tx, prescription *model.Prescription) error
		Get(ctx context.Context, id int64) (*model.Prescription, error)
		GetForUpdate(ctx context.Context, tx *sqlx.Tx, id int64) (*model.Prescription, error)
		UpdateFields(ctx context.Context, tx *sqlx.Tx, prescription *model.Prescription) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filters *model.PrescriptionFilters) ([]*model.Prescription, error)

		ListMedicines(ctx context.Context, prescriptionID int64) ([]*model.PrescriptionMedicine, error)
		ListMedicinesTx(ctx context.Context, tx *sqlx.Tx, prescriptionID int64) ([]*model.PrescriptionMedicine, error)
		CreateMedicine(ctx context.Context, tx *sqlx.Tx, medicine *model.PrescriptionMedicine) error
		UpdateMedicine(ctx context.Context, tx *sqlx.Tx, medicine *model.PrescriptionMedicine) error
		DeleteMedicines(ctx context.Context, tx *sqlx.Tx, ids []int64) error
	}

	ReminderRepository interface {
		BulkCreate(ctx context.Context, tx *sqlx.Tx, reminders []*model.MedicineReminder) error
		DeleteForPrescription(ctx context.Context, tx *sqlx.Tx, prescriptionID int64) error
		ListPending(ctx context.Context, before time.Time, limit int) ([]*model.ReminderDetail, error)
		FilterExisting(ctx context.Context, ids []int64) ([]int64, error)
		BulkSetStatus(ctx context.Context, field model.ReminderStatusField, ids []int64) error
	}
)
