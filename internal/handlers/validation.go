package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"sync"

	"github.com/go-authgate/payapproval/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	phonePattern      = regexp.MustCompile(`^\+?[0-9\s\-()]+$`)
	registerValidator sync.Once
)

// registerValidators adds the custom binding tags used by request structs.
func registerValidators() {
	registerValidator.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return phonePattern.MatchString(fl.Field().String())
		})
	})
}

// failValidation writes a 400 VALIDATION_ERROR envelope for a binding error.
func failValidation(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		response.Fail(c, http.StatusBadRequest, "Validation failed", response.CodeValidation,
			response.FieldError{Message: err.Error()})
		return
	}

	fields := make([]response.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, response.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	response.Fail(c, http.StatusBadRequest, "Validation failed", response.CodeValidation, fields...)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
	case "eqfield":
		return "Passwords must match"
	case "phone":
		return "Invalid phone number format"
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
