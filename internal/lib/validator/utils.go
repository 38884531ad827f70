package validator

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	govalidator "github.com/go-playground/validator/v10"

	"popcorn/proj/internal/domain/fields"
	"popcorn/proj/internal/utils"
)

func getFieldName(obj any, origFieldName string) (fieldName string) {
	t := reflect.TypeOf(obj)
	field, found := t.FieldByName(origFieldName)
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", origFieldName, t.Name()))
	}
	if tag := field.Tag.Get("json"); tag != "" && tag != "-" {
		jsonName := strings.Split(tag, ",")[0]
		if jsonName != "" {
			fieldName = jsonName
		}
	} else {
		fieldName = utils.CamelToSnake(origFieldName)
	}
	return
}

func ProcessValidationErrors(obj any, errs govalidator.ValidationErrors) map[string]string {
	processedErrors := make(map[string]string)
	for _, e := range errs {
		processedErrors[getFieldName(obj, e.StructField())] = GetErrorMsgForField(obj, e)
	}
	return processedErrors
}

func ValidateStruct(validator *govalidator.Validate, obj any) (validationErrs map[string]string) {
	if err := validator.Struct(obj); err != nil {
		validationErrs = ProcessValidationErrors(obj, err.(govalidator.ValidationErrors))
	}
	return
}

func GetErrorMsgForField(obj any, err govalidator.FieldError) (errorMsg string) {
	t := reflect.TypeOf(obj)
	field, found := t.FieldByName(err.StructField())
	if !found {
		panic(fmt.Sprintf("Field %s not found in type %s", err.StructField(), t.Name()))
	}
	errorMsg = field.Tag.Get("errorMsg")
	if errorMsg == "" {
		switch err.Tag() {
		case "required":
			errorMsg = "This field is required"
		case "max":
			errorMsg = fmt.Sprintf("The maximum value is %s", err.Param())
		case "min":
			errorMsg = fmt.Sprintf("The minimum value is %s", err.Param())
		case "gte":
			errorMsg = fmt.Sprintf("Value should be greater than or equal to %s", err.Param())
		case "lte":
			errorMsg = fmt.Sprintf("Value should be less than or equal to %s", err.Param())
		case "lt":
			errorMsg = fmt.Sprintf("Value should be less than %s", err.Param())
		case "gt":
			errorMsg = fmt.Sprintf("Value should be greater than %s", err.Param())
		case "eqfield", "eq":
			errorMsg = fmt.Sprintf("Value should be equal to %s", err.Param())
		case "nefield", "ne":
			errorMsg = fmt.Sprintf("Value should not be equal to %s", err.Param())
		case "oneof":
			errorMsg = fmt.Sprintf("Value should be one of %s", err.Param())
		case "len":
			errorMsg = fmt.Sprintf("Length should be equal to %s", err.Param())
		case "url":
			errorMsg = "Value must be a valid URL"
		case "email":
			errorMsg = "Value must be a valid email address"
		case "alphanum":
			errorMsg = "Value must be alphanumeric"
		case "password":
			errorMsg = "Password must be at least 8 characters long and contain both letters and numbers"
		case "halfstep":
			errorMsg = "Rating must be between 0 and 5 in half-star steps"
		default:
			errorMsg = "This field is invalid"
		}
	}
	return
}

// CUSTOM VALIDATORS

// ValidatePassword builds the "password" validator: minimum 8 characters
// with at least one letter and one digit; with requireSpecial the password
// additionally needs a character that is neither.
func ValidatePassword(requireSpecial bool) govalidator.Func {
	return func(fl govalidator.FieldLevel) bool {
		password := fl.Field().String()
		if len(password) < 8 {
			return false
		}
		var hasLetter, hasDigit, hasSpecial bool
		for _, r := range password {
			switch {
			case unicode.IsLetter(r):
				hasLetter = true
			case unicode.IsDigit(r):
				hasDigit = true
			default:
				hasSpecial = true
			}
		}
		if requireSpecial && !hasSpecial {
			return false
		}
		return hasLetter && hasDigit
	}
}

// ValidateHalfStep checks star ratings for the [0, 5] half-step range.
func ValidateHalfStep(fl govalidator.FieldLevel) bool {
	return fields.Rating(fl.Field().Float()).Valid()
}
