package util

import (
	"MoodCheckin/internal/api/dto"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validate  *validator.Validate
	setupOnce sync.Once
)

func init() {
	validate = validator.New()
	validate.SetTagName("binding")
	validate.RegisterTagNameFunc(fieldName)
}

// SetupBindingValidator 让 gin 绑定校验返回的字段名与 json/form 标签一致
func SetupBindingValidator() {
	setupOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterTagNameFunc(fieldName)
		}
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// ValidateDTO 使用与 gin 绑定相同的规则校验
func ValidateDTO(dto any) error {
	return validate.Struct(dto)
}

// FieldErrors 将校验错误转换为对外的字段明细
func FieldErrors(err error) []dto.FieldError {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return nil
	}
	details := make([]dto.FieldError, 0, len(vErrs))
	for _, fe := range vErrs {
		details = append(details, dto.FieldError{
			Field:   fe.Field(),
			Rule:    fe.Tag(),
			Message: describe(fe),
		})
	}
	return details
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a valid date (YYYY-MM-DD)", fe.Field())
	case "oneof", "oneofci":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed on rule %s", fe.Field(), fe.Tag())
	}
}
