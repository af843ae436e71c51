package prescription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medremind/medremind-api/internal/model"
	"github.com/medremind/medremind-api/internal/repository"
	"github.com/medremind/medremind-api/internal/schedule"
	apperrors "github.com/medremind/medremind-api/pkg/errors"
	"github.com/medremind/medremind-api/pkg/logger"
)

// Service owns the prescription lifecycle. Every write that touches medicine
// entries also regenerates their reminders inside the same transaction, so a
// prescription's reminder set always equals durationDays x |scheduleTimes|
// per entry, or nothing committed at all.
type Service struct {
	repo      repository.PrescriptionRepository
	reminders repository.ReminderRepository
	logger    *logger.Logger
}

func NewService(repo repository.PrescriptionRepository, reminders repository.ReminderRepository, logger *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		reminders: reminders,
		logger:    logger,
	}
}

func (s *Service) Create(ctx context.Context, doctorID int64, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if err := validateItems(req.Medicines, false); err != nil {
		return nil, err
	}

	date, err := time.Parse(model.DateFormat, req.Date)
	if err != nil {
		return nil, apperrors.BadRequest("invalid date: must be YYYY-MM-DD", err)
	}

	prescription := &model.Prescription{
		DoctorID:  doctorID,
		PatientID: req.PatientID,
		Date:      date,
		Medicines: []*model.PrescriptionMedicine{},
	}

	err = s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.repo.Create(ctx, tx, prescription); err != nil {
			return err
		}

		for _, item := range req.Medicines {
			medicine := medicineFromItem(prescription.ID, item)
			if err := s.repo.CreateMedicine(ctx, tx, medicine); err != nil {
				return err
			}
			prescription.Medicines = append(prescription.Medicines, medicine)
		}

		return s.regenerateReminders(ctx, tx, prescription.Date, prescription.Medicines)
	})
	if err != nil {
		return nil, wrapInternal(err)
	}

	s.logger.Info("prescription created",
		"prescription_id", prescription.ID,
		"doctor_id", doctorID,
		"medicines", len(prescription.Medicines),
	)
	return prescription, nil
}

// Update applies the basic field changes and reconciles the incoming medicine
// list against the stored entries: absent entries are destroyed together with
// their reminders, matching entries are rewritten in place, new ones are
// created, and the complete reminder set is regenerated from scratch. The
// whole reconciliation runs in one transaction against a row-locked
// prescription.
func (s *Service) Update(ctx context.Context, doctorID, id int64, req *model.UpdatePrescriptionRequest) (*model.Prescription, error) {
	if err := validateItems(req.Medicines, true); err != nil {
		return nil, err
	}

	var date *time.Time
	if req.Date != nil {
		parsed, err := time.Parse(model.DateFormat, *req.Date)
		if err != nil {
			return nil, apperrors.BadRequest("invalid date: must be YYYY-MM-DD", err)
		}
		date = &parsed
	}

	var prescription *model.Prescription
	err := s.repo.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		prescription, err = s.repo.GetForUpdate(ctx, tx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return apperrors.NotFound("prescription", err)
			}
			return err
		}
		if prescription.DoctorID != doctorID {
			// Existence is not revealed to non-owners.
			return apperrors.NotFound("prescription", nil)
		}

		if req.PatientID != nil {
			prescription.PatientID = *req.PatientID
		}
		if date != nil {
			prescription.Date = *date
		}
		if err := s.repo.UpdateFields(ctx, tx, prescription); err != nil {
			return err
		}

		existing, err := s.repo.ListMedicinesTx(ctx, tx, id)
		if err != nil {
			return err
		}
		diff := diffMedicines(id, existing, req.Medicines)

		// Reminders are discarded before their owning entries, and in full:
		// kept entries have theirs recomputed below.
		if err := s.reminders.DeleteForPrescription(ctx, tx, id); err != nil {
			return err
		}
		if err := s.repo.DeleteMedicines(ctx, tx, diff.deleteIDs); err != nil {
			return err
		}
		for _, medicine := range diff.updates {
			if err := s.repo.UpdateMedicine(ctx, tx, medicine); err != nil {
				return err
			}
		}
		for _, medicine := range diff.creates {
			if err := s.repo.CreateMedicine(ctx, tx, medicine); err != nil {
				return err
			}
		}

		fresh, err := s.repo.ListMedicinesTx(ctx, tx, id)
		if err != nil {
			return err
		}
		prescription.Medicines = fresh

		return s.regenerateReminders(ctx, tx, prescription.Date, fresh)
	})
	if err != nil {
		return nil, wrapInternal(err)
	}

	s.logger.Info("prescription updated",
		"prescription_id", id,
		"doctor_id", doctorID,
		"medicines", len(prescription.Medicines),
	)
	return prescription, nil
}

func (s *Service) Get(ctx context.Context, caller *model.AuthUser, id int64) (*model.Prescription, error) {
	prescription, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("prescription", err)
		}
		return nil, apperrors.Internal(err)
	}
	if !canRead(caller, prescription) {
		return nil, apperrors.NotFound("prescription", nil)
	}

	medicines, err := s.repo.ListMedicines(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	prescription.Medicines = medicines
	return prescription, nil
}

// List returns prescriptions scoped to the caller: doctors see what they
// authored, patients what was prescribed to them, pharmacists and admins
// everything.
func (s *Service) List(ctx context.Context, caller *model.AuthUser) ([]*model.Prescription, error) {
	filters := &model.PrescriptionFilters{}
	switch caller.Role {
	case model.RoleDoctor:
		filters.DoctorID = &caller.ID
	case model.RolePatient:
		filters.PatientID = &caller.ID
	}

	prescriptions, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	for _, prescription := range prescriptions {
		medicines, err := s.repo.ListMedicines(ctx, prescription.ID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		prescription.Medicines = medicines
	}
	return prescriptions, nil
}

func (s *Service) Delete(ctx context.Context, caller *model.AuthUser, id int64) error {
	prescription, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("prescription", err)
		}
		return apperrors.Internal(err)
	}

	if caller.Role != model.RoleAdmin && prescription.DoctorID != caller.ID {
		return apperrors.NotFound("prescription", nil)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.Internal(err)
	}

	s.logger.Info("prescription deleted", "prescription_id", id, "user_id", caller.ID)
	return nil
}

// regenerateReminders expands the full medicine-entry set into reminders and
// persists them within the caller's transaction.
func (s *Service) regenerateReminders(ctx context.Context, tx *sqlx.Tx, date time.Time, medicines []*model.PrescriptionMedicine) error {
	entries := make([]schedule.Entry, 0, len(medicines))
	for _, medicine := range medicines {
		entries = append(entries, schedule.EntryFromMedicine(medicine))
	}

	reminders, err := schedule.Expand(date, entries)
	if err != nil {
		return apperrors.BadRequest(err.Error(), err)
	}
	return s.reminders.BulkCreate(ctx, tx, reminders)
}

func canRead(caller *model.AuthUser, prescription *model.Prescription) bool {
	switch caller.Role {
	case model.RoleDoctor:
		return prescription.DoctorID == caller.ID
	case model.RolePatient:
		return prescription.PatientID == caller.ID
	default:
		return true
	}
}

// validateItems rejects malformed schedule payloads before any write happens.
// Update payloads must carry a non-empty schedule_times array per item; create
// payloads may omit it and fall back to the default time.
func validateItems(items []model.MedicineItemRequest, requireTimes bool) error {
	for _, item := range items {
		if requireTimes && len(item.ScheduleTimes) == 0 {
			return apperrors.BadRequest(
				fmt.Sprintf("medicine %d: schedule_times must be a non-empty array of HH:mm strings", item.MedicineID),
				nil,
			)
		}
		for _, t := range item.ScheduleTimes {
			if !schedule.ValidTime(t) {
				err := &schedule.InvalidTimeError{MedicineID: item.MedicineID, Value: t}
				return apperrors.BadRequest(err.Error(), err)
			}
		}
	}
	return nil
}

func medicineFromItem(prescriptionID int64, item model.MedicineItemRequest) *model.PrescriptionMedicine {
	duration := item.DurationDays
	if duration < 1 {
		duration = 1
	}
	times := item.ScheduleTimes
	if len(times) == 0 {
		times = []string{schedule.DefaultTime}
	}
	return &model.PrescriptionMedicine{
		PrescriptionID: prescriptionID,
		MedicineID:     item.MedicineID,
		Dosage:         item.Dosage,
		Instructions:   item.Instructions,
		DurationDays:   duration,
		ScheduleTimes:  times,
	}
}

// wrapInternal keeps client-caused errors intact and masks everything else.
func wrapInternal(err error) error {
	if _, ok := apperrors.As(err); ok {
		return err
	}
	return apperrors.Internal(err)
}
