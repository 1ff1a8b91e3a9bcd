package app

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"

	"github.com/PurdueHackers/HelloWorldPortal2017/internal/domain"
)

// SubmitRequest carries a first-time submission. Every field except
// DietaryRestrictions and Website is required.
type SubmitRequest struct {
	ClassYear           string `validate:"required,oneof=freshman sophomore junior senior"`
	GradYear            string `validate:"required,oneof=2026 2027 2028 2029 2030 2031"`
	Major               string `validate:"required"`
	Referral            string `validate:"required,oneof=social_media website flyers class friend none"`
	HackathonCount      int    `validate:"gte=0"`
	ShirtSize           string `validate:"required,oneof=s m l xl xxl"`
	DietaryRestrictions string
	Website             string `validate:"omitempty,url"`
	LongAnswer1         string `validate:"required,max=2000"`
	LongAnswer2         string `validate:"required,max=2000"`
}

// UpdateRequest carries a partial update. Nil fields are not validated and
// not applied; present fields obey the same rules as SubmitRequest.
type UpdateRequest struct {
	ClassYear           *string `validate:"omitempty,oneof=freshman sophomore junior senior"`
	GradYear            *string `validate:"omitempty,oneof=2026 2027 2028 2029 2030 2031"`
	Major               *string `validate:"omitempty,min=1"`
	Referral            *string `validate:"omitempty,oneof=social_media website flyers class friend none"`
	HackathonCount      *int    `validate:"omitempty,gte=0"`
	ShirtSize           *string `validate:"omitempty,oneof=s m l xl xxl"`
	DietaryRestrictions *string
	Website             *string `validate:"omitempty,url"`
	LongAnswer1         *string `validate:"omitempty,min=1,max=2000"`
	LongAnswer2         *string `validate:"omitempty,min=1,max=2000"`
}

func (r *UpdateRequest) patch() *domain.ApplicationPatch {
	return &domain.ApplicationPatch{
		ClassYear:           r.ClassYear,
		GradYear:            r.GradYear,
		Major:               r.Major,
		Referral:            r.Referral,
		HackathonCount:      r.HackathonCount,
		ShirtSize:           r.ShirtSize,
		DietaryRestrictions: r.DietaryRestrictions,
		Website:             r.Website,
		LongAnswer1:         r.LongAnswer1,
		LongAnswer2:         r.LongAnswer2,
	}
}

// ResumeUpload is an incoming resume file.
type ResumeUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

// ValidationError reports per-field validation failures. Field keys use the
// wire names (class_year, grad_year, ...).
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// NewValidationError builds a single-field validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// wireNames maps struct field names to their form/JSON names.
var wireNames = map[string]string{
	"ClassYear":           "class_year",
	"GradYear":            "grad_year",
	"Major":               "major",
	"Referral":            "referral",
	"HackathonCount":      "hackathon_count",
	"ShirtSize":           "shirt_size",
	"DietaryRestrictions": "dietary_restrictions",
	"Website":             "website",
	"LongAnswer1":         "longanswer_1",
	"LongAnswer2":         "longanswer_2",
	"Status":              "status",
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "min":
		return "this field is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "url":
		return "must be a well-formed URL"
	default:
		return "invalid value"
	}
}

// asValidationError converts a validator error into a per-field
// ValidationError. Non-validator errors are returned unchanged.
func asValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := wireNames[fe.StructField()]
		if name == "" {
			name = fe.StructField()
		}
		fields[name] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}
