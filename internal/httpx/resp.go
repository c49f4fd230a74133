package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LoggerKey is the gin context key holding the request scoped *logrus.Entry
const LoggerKey = "logger"

// Response represents the standard API response structure
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ListData represents the standard list response data structure
type ListData struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
}

// Logger returns the request logger, or the standard logger outside a request
func Logger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(LoggerKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// OK sends a successful response with default message "success"
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// OKMsg sends a successful response with custom message
func OKMsg(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// OKItems sends a successful unpaginated list response
func OKItems(c *gin.Context, items interface{}, total int) {
	OK(c, ListData{Items: items, Total: total})
}

// Fail sends an error response with specified HTTP status, business code, and message
func Fail(c *gin.Context, httpStatus int, code int, message string) {
	c.JSON(httpStatus, Response{
		Code:    code,
		Message: message,
	})
}

// FailErr sends an error response from an AppError.
// The internal error is logged, never returned to the client.
func FailErr(c *gin.Context, err *AppError) {
	if err.Err != nil {
		Logger(c).WithError(err.Err).WithField("code", err.Code).Error(err.Message)
	}

	c.JSON(err.HTTPStatus, Response{
		Code:    err.Code,
		Message: err.Message,
		Data:    err.Data,
	})
}

// FailDNS maps a dns facade error and sends it
func FailDNS(c *gin.Context, err error) {
	FailErr(c, FromDNSError(err))
}
