package response

import (
	"MoodCheckin/internal/api/dto"
	"MoodCheckin/internal/pkg/util"
	"MoodCheckin/internal/service"
	"encoding/json"
	"errors"
	"io"
	log "log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	MsgValidation   = "Validation error"
	MsgInvalidJSON  = "Invalid JSON body"
	MsgBodyTooLarge = "Request body too large"
	MsgUnauthorized = "Unauthorized"
	MsgNotFound     = "Route not found"
	MsgTooMany      = "Too many requests"
	MsgMissingKey   = "Server misconfigured: missing API key"
	MsgInternal     = "Internal Server Error"
)

// Success 成功返回封装
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.Response{Success: true, Data: data})
}

// Created 新建/覆盖成功
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.Response{Success: true, Data: data})
}

// Rows 列表类返回，rows 与附加字段平铺在顶层
func Rows(c *gin.Context, rows interface{}, extra gin.H) {
	body := gin.H{"success": true, "rows": rows}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail 失败返回封装
func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, dto.Response{Success: false, Message: message})
}

// FailWithDetails 携带字段明细的失败返回
func FailWithDetails(c *gin.Context, status int, message string, details interface{}) {
	c.AbortWithStatusJSON(status, dto.Response{Success: false, Message: message, Details: details})
}

// Error 集中处理错误，未知错误只记录日志不外泄
func Error(c *gin.Context, err error) {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		if ve.Details != nil {
			FailWithDetails(c, http.StatusUnprocessableEntity, MsgValidation, ve.Details)
			return
		}
		FailWithDetails(c, http.StatusUnprocessableEntity, MsgValidation, []dto.FieldError{{Message: ve.Error()}})
		return
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		FailWithDetails(c, http.StatusUnprocessableEntity, MsgValidation, util.FieldErrors(vErrs))
		return
	}

	var unmarshalTypeError *json.UnmarshalTypeError
	if errors.As(err, &unmarshalTypeError) {
		FailWithDetails(c, http.StatusUnprocessableEntity, MsgValidation, []dto.FieldError{{
			Field:   unmarshalTypeError.Field,
			Rule:    "type",
			Message: unmarshalTypeError.Field + " has an invalid type",
		}})
		return
	}

	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		FailWithDetails(c, http.StatusUnprocessableEntity, MsgValidation, []dto.FieldError{{
			Rule:    "type",
			Message: strconv.Quote(numErr.Num) + " is not a valid number",
		}})
		return
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		Fail(c, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
		return
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		Fail(c, http.StatusBadRequest, MsgInvalidJSON)
		return
	}

	code, ok := service.ErrorMap[err]
	if !ok || code >= http.StatusInternalServerError {
		log.ErrorContext(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "err", err)
		Fail(c, http.StatusInternalServerError, MsgInternal)
		return
	}
	Fail(c, code, err.Error())
}
