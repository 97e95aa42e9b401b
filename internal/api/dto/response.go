package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// Response is the envelope for every non-paginated payload.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Pagination describes the page slice of a list response.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// PaginatedResponse is the envelope for list payloads.
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func OKMessage(message string) Response {
	return Response{Success: true, Message: message}
}

func Fail(err error) Response {
	return Response{Success: false, Error: err.Error()}
}

func FailMessage(message string) Response {
	return Response{Success: false, Error: message}
}

func Paginated(data interface{}, page, limit int, total int64) PaginatedResponse {
	return PaginatedResponse{
		Data:       data,
		Pagination: Pagination{Page: page, Limit: limit, Total: total},
	}
}

// PageParams extracts page and limit query params with the listing defaults.
func PageParams(c *gin.Context) (int, int) {
	page := intQuery(c, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := intQuery(c, "limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func intQuery(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
