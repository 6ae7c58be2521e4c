package contact

import (
	"strings"

	"github.com/illegalcall/second-opinion/internal/models"
)

// Field is a known form input and the label it gets in the rendered email.
type Field struct {
	Key   string
	Label string
}

// Required inputs, in render order. Email sits between name and phone but is
// optional.
var (
	FieldName      = Field{Key: "name", Label: "Name"}
	FieldEmail     = Field{Key: "email", Label: "Email"}
	FieldPhone     = Field{Key: "phone", Label: "Phone"}
	FieldTreatment = Field{Key: "requested_treatment", Label: "Requested Treatment"}
)

var optionalFields = []Field{
	{Key: "chronic", Label: "Chronic / Meds / HbA1c"},
	{Key: "oral_issues", Label: "Oral pain / bleeding / gum disease"},
	{Key: "mobile_teeth", Label: "Wobbly teeth"},
	{Key: "missing_duration", Label: "Missing teeth duration"},
	{Key: "smoking", Label: "Smoking"},
	{Key: "legal_name", Label: "Full name for plan"},
	{Key: "age", Label: "Age"},
	{Key: "travel_dates", Label: "Travel dates"},
	{Key: "city", Label: "City"},
	{Key: "postcode", Label: "Postcode"},
	{Key: "departure_airport", Label: "Departure airport"},
	{Key: "medications", Label: "Medications & dose"},
	{Key: "medical_conditions", Label: "Medical conditions"},
	{Key: "allergies", Label: "Allergies"},
	{Key: "last_gp", Label: "Last GP appointment"},
	{Key: "last_blood_test", Label: "Last blood test"},
	{Key: "surgeries", Label: "Recent surgeries"},
	{Key: "insurance", Label: "Insurance"},
}

// Fields returns the full vocabulary in render order.
func Fields() []Field {
	all := make([]Field, 0, 4+len(optionalFields))
	all = append(all, FieldName, FieldEmail, FieldPhone, FieldTreatment)
	return append(all, optionalFields...)
}

// ExtractFields reads the first value of every known field, trimmed. Unknown
// keys are ignored and absent fields map to "".
func ExtractFields(values map[string][]string) models.FieldSet {
	fields := make(models.FieldSet, 4+len(optionalFields))
	for _, f := range Fields() {
		var v string
		if vs := values[f.Key]; len(vs) > 0 {
			v = strings.TrimSpace(vs[0])
		}
		fields[f.Key] = v
	}
	return fields
}
