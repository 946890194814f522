package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrlab/worktime-api/internal/models"
	appErrors "github.com/hrlab/worktime-api/pkg/errors"
)

// Envelope is the JSON body shared by every endpoint. Exactly one of
// Data or Error is set.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Pagination *models.Pagination     `json:"pagination,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
}

// JSON sends a success envelope with optional pagination and meta blocks.
func JSON(c *gin.Context, status int, data interface{}, pagination *models.Pagination, meta ...map[string]interface{}) {
	noStore(c)
	env := Envelope{Data: data, Pagination: pagination}
	for _, m := range meta {
		if m != nil {
			env.Meta = m
		}
	}
	c.JSON(status, env)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data, nil)
}

// Error converts the error to the shared shape and picks the status from it.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	noStore(c)
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a bodyless 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
