package service

import (
	"MoodCheckin/internal/api/dto"
	"MoodCheckin/internal/pkg/util"
	"errors"
	"net/http"

	"github.com/go-sql-driver/mysql"
)

var (
	ErrParamInvalid  = errors.New("invalid parameter")
	ErrInvalidPeriod = errors.New("period must be 'week' or 'month'")
	ErrInvalidUserID = errors.New("user_id must be 1-128 characters")
	ErrInvalidEntry  = errors.New("mood entry rejected by the store")
	UnExpectedError  = errors.New("unexpected error")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:  http.StatusUnprocessableEntity,
	ErrInvalidPeriod: http.StatusUnprocessableEntity,
	ErrInvalidUserID: http.StatusUnprocessableEntity,
	ErrInvalidEntry:  http.StatusUnprocessableEntity,
	UnExpectedError:  http.StatusInternalServerError,
}

// ValidationError 携带字段明细的参数错误
type ValidationError struct {
	Cause   error
	Details []dto.FieldError
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return ErrParamInvalid.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func newValidationError(err error) *ValidationError {
	if details := util.FieldErrors(err); details != nil {
		return &ValidationError{Cause: ErrParamInvalid, Details: details}
	}
	return &ValidationError{Cause: err}
}

// MySQL 数据类错误：越界、非法值、超长、CHECK 约束
var dataErrorCodes = map[uint16]struct{}{
	1264: {},
	1292: {},
	1366: {},
	1406: {},
	3819: {},
}

func isDataError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		_, ok := dataErrorCodes[mysqlErr.Number]
		return ok
	}
	return false
}
