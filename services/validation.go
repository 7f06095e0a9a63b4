package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/warrenmedia/api-go/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("reaction", validateReaction)

	return v
}

func validateReaction(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.ReactionLike, models.ReactionLove, models.ReactionLaugh:
		return true
	}
	return false
}

// validateInput runs struct validation and turns the first failure into a
// ValidationError with a readable message.
func validateInput(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return ValidationError("Invalid request")
	}

	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return ValidationError(fmt.Sprintf("%s is required", field))
	case "max":
		return ValidationError(fmt.Sprintf("%s too long (max %s characters)", field, fe.Param()))
	case "min":
		return ValidationError(fmt.Sprintf("%s must be at least %s", field, fe.Param()))
	case "url":
		return ValidationError(fmt.Sprintf("%s must be a valid URL", field))
	case "email":
		return ValidationError(fmt.Sprintf("%s must be a valid email address", field))
	case "reaction":
		return ValidationError("Invalid reaction type")
	default:
		return ValidationError(fmt.Sprintf("Invalid %s", field))
	}
}
