package validator

import (
	"reflect"
	"strings"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/go-playground/validator/v10"
)

// BusinessValidator wraps validator/v10 with the paper service's enum tags
// and reports fields by their JSON names.
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate runs struct validation and returns nil when s is valid
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	if err := bv.validate.Struct(s); err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

func (bv *BusinessValidator) ValidateBranding(req *BrandingRequest) ValidationErrors {
	return bv.Validate(req)
}

func (bv *BusinessValidator) ValidateCourse(req *CourseRequest) ValidationErrors {
	return bv.Validate(req)
}

func (bv *BusinessValidator) ValidateQuestion(req *QuestionRequest) ValidationErrors {
	errs := bv.Validate(req)
	errs = append(errs, validateParts("subQuestions", req.SubQuestions)...)
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (bv *BusinessValidator) ValidatePaper(req *PaperRequest) ValidationErrors {
	return bv.Validate(req)
}

func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	return bv.Validate(req)
}

func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		return models.QuestionType(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("paper_status", func(fl validator.FieldLevel) bool {
		return models.PaperStatus(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).IsValid()
	})

	bv.validate.RegisterValidation("media_type", func(fl validator.FieldLevel) bool {
		return models.MediaType(fl.Field().String()).IsValid()
	})
}

// validateParts walks nested sub-questions; only the media type is constrained.
func validateParts(path string, parts []models.QuestionPart) ValidationErrors {
	var errs ValidationErrors
	for i, part := range parts {
		field := path + "[" + itoa(i) + "]"
		if !part.MediaType.IsValid() {
			errs = append(errs, ValidationError{
				Field:   field + ".mediaType",
				Message: "must be one of figure, table, table-figure",
				Value:   part.MediaType,
				Rule:    "media_type",
			})
		}
		errs = append(errs, validateParts(field+".subParts", part.SubParts)...)
	}
	return errs
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}
