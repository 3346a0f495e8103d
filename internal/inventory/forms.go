package inventory

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/cse-motors/motors/internal/validate"
)

type classificationForm struct {
	Name string `validate:"required,alphanum"`
}

func parseClassificationForm(r *http.Request) classificationForm {
	return classificationForm{
		Name: strings.TrimSpace(r.PostFormValue("classification_name")),
	}
}

func (f classificationForm) validate() []validate.FieldError {
	return validate.Struct(f, map[string]string{
		"Name.required": "Please provide a classification name.",
		"Name.alphanum": "Classification name cannot contain spaces or special characters.",
	})
}

type vehicleForm struct {
	ClassificationID int64   `validate:"required,min=1"`
	Make             string  `validate:"required,min=3"`
	Model            string  `validate:"required,min=3"`
	Year             int     `validate:"required,min=1000,max=9999"`
	Description      string  `validate:"required,min=10"`
	Price            float64 `validate:"min=0"`
	Miles            int     `validate:"min=0"`
	Color            string  `validate:"required,min=2"`
}

var vehicleMessages = map[string]string{
	"ClassificationID": "Please select a valid classification.",
	"Make":             "Make must be at least 3 characters long.",
	"Model":            "Model must be at least 3 characters long.",
	"Year":             "Year must be exactly 4 digits.",
	"Description":      "Description must be at least 10 characters long.",
	"Price":            "Price must be a positive number.",
	"Miles":            "Miles must be a positive number.",
	"Color":            "Color must be at least 2 characters long.",
}

// parseVehicleForm reads the add-inventory form. Unparseable numbers come
// through as zero values and fail validation with the field's message.
func parseVehicleForm(r *http.Request) vehicleForm {
	classificationID, _ := strconv.ParseInt(r.PostFormValue("classification_id"), 10, 64)
	year, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("inv_year")))
	price, _ := strconv.ParseFloat(strings.TrimSpace(r.PostFormValue("inv_price")), 64)
	miles, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("inv_miles")))

	return vehicleForm{
		ClassificationID: classificationID,
		Make:             strings.TrimSpace(r.PostFormValue("inv_make")),
		Model:            strings.TrimSpace(r.PostFormValue("inv_model")),
		Year:             year,
		Description:      strings.TrimSpace(r.PostFormValue("inv_description")),
		Price:            price,
		Miles:            miles,
		Color:            strings.TrimSpace(r.PostFormValue("inv_color")),
	}
}

func (f vehicleForm) validate() []validate.FieldError {
	return validate.Struct(f, vehicleMessages)
}
