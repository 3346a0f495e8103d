package comparison

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cse-motors/motors/internal/validate"
)

type comparisonForm struct {
	Name        string `validate:"required,min=3,max=100"`
	Description string `validate:"omitempty,max=500"`
	Vehicle1ID  int64  `validate:"required,min=1"`
	Vehicle2ID  *int64 `validate:"omitempty,min=1"`
	Vehicle3ID  *int64 `validate:"omitempty,min=1"`
}

var comparisonMessages = map[string]string{
	"Name":        "Please provide a comparison name between 3-100 characters.",
	"Description": "Description cannot exceed 500 characters.",
	"Vehicle1ID":  "Please select at least one vehicle for comparison.",
	"Vehicle2ID":  "Invalid vehicle selection for vehicle 2.",
	"Vehicle3ID":  "Invalid vehicle selection for vehicle 3.",
}

// parseOptionalID maps an absent or empty field to nil, never to zero.
func parseOptionalID(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// Unparseable input keeps the slot present so validation
		// rejects it instead of silently dropping it.
		id = -1
	}
	return &id
}

func parseComparisonForm(r *http.Request) comparisonForm {
	vehicle1, _ := strconv.ParseInt(strings.TrimSpace(r.PostFormValue("vehicle1_id")), 10, 64)
	return comparisonForm{
		Name:        strings.TrimSpace(r.PostFormValue("comparison_name")),
		Description: strings.TrimSpace(r.PostFormValue("comparison_description")),
		Vehicle1ID:  vehicle1,
		Vehicle2ID:  parseOptionalID(r.PostFormValue("vehicle2_id")),
		Vehicle3ID:  parseOptionalID(r.PostFormValue("vehicle3_id")),
	}
}

// validate runs the field rules plus the cross-field invariant: all
// selected vehicle ids must be pairwise distinct.
func (f comparisonForm) validate() []validate.FieldError {
	errs := validate.Struct(f, comparisonMessages)

	seen := map[int64]bool{}
	for _, id := range f.vehicleIDs() {
		if seen[id] {
			errs = append(errs, validate.FieldError{
				Field:   "vehicle_selection",
				Message: "Please select different vehicles for comparison.",
			})
			break
		}
		seen[id] = true
	}

	return errs
}

func (f comparisonForm) vehicleIDs() []int64 {
	ids := []int64{f.Vehicle1ID}
	if f.Vehicle2ID != nil {
		ids = append(ids, *f.Vehicle2ID)
	}
	if f.Vehicle3ID != nil {
		ids = append(ids, *f.Vehicle3ID)
	}
	return ids
}

// viewQuery rebuilds the /compare/view query string so an invalid save can
// redirect back without losing the selection.
func (f comparisonForm) viewQuery() string {
	q := "vehicle1=" + strconv.FormatInt(f.Vehicle1ID, 10)
	q += "&vehicle2="
	if f.Vehicle2ID != nil {
		q += strconv.FormatInt(*f.Vehicle2ID, 10)
	}
	q += "&vehicle3="
	if f.Vehicle3ID != nil {
		q += strconv.FormatInt(*f.Vehicle3ID, 10)
	}
	return q
}
