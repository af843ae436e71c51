package prescription

import "github.com/medremind/medremind-api/internal/model"

// medicineDiff is the outcome of matching an update payload's medicine list
// against a prescription's stored entries.
type medicineDiff struct {
	deleteIDs []int64
	updates   []*model.PrescriptionMedicine
	creates   []*model.PrescriptionMedicine
}

// diffMedicines keys incoming items by medicine id (a repeated id keeps only
// its last occurrence). Stored entries missing from the payload are marked for
// deletion, matches are rewritten in place with the incoming values, and
// leftover incoming items become new entries in payload order.
func diffMedicines(prescriptionID int64, existing []*model.PrescriptionMedicine, incoming []model.MedicineItemRequest) medicineDiff {
	byMedicine := make(map[int64]model.MedicineItemRequest, len(incoming))
	order := make([]int64, 0, len(incoming))
	for _, item := range incoming {
		if _, seen := byMedicine[item.MedicineID]; !seen {
			order = append(order, item.MedicineID)
		}
		byMedicine[item.MedicineID] = item
	}

	var diff medicineDiff
	matched := make(map[int64]bool, len(existing))

	for _, entry := range existing {
		item, ok := byMedicine[entry.MedicineID]
		if !ok {
			diff.deleteIDs = append(diff.deleteIDs, entry.ID)
			continue
		}
		matched[entry.MedicineID] = true

		updated := medicineFromItem(prescriptionID, item)
		updated.ID = entry.ID
		diff.updates = append(diff.updates, updated)
	}

	for _, medicineID := range order {
		if matched[medicineID] {
			continue
		}
		diff.creates = append(diff.creates, medicineFromItem(prescriptionID, byMedicine[medicineID]))
	}

	return diff
}
