package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/itww/admin-api/internal/domain/listing"
	"github.com/itww/admin-api/pkg/apperror"
)

// resourceID reads the id from the path when the route has one and from ?id= otherwise.
func resourceID(c *gin.Context, missing string) (int64, error) {
	raw := c.Param("id")
	if raw == "" {
		raw = c.Query("id")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, apperror.NewInvalidInput(missing, nil)
	}
	return parseID(raw)
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewInvalidInput("Invalid ID", err)
	}
	return id, nil
}

func listQuery(c *gin.Context) listing.Query {
	return listing.ParseQuery(c.Query("page"), c.Query("limit"), c.Query("search"), c.Query("sort"))
}

// hasID reports whether a GET on a collection route asks for one row.
func hasID(c *gin.Context) bool {
	_, ok := c.GetQuery("id")
	return ok
}

// pickID prefers the path id over the body id on the /:id aliases.
func pickID(c *gin.Context, bodyID int64) (int64, error) {
	if raw := c.Param("id"); raw != "" {
		return parseID(raw)
	}
	if bodyID <= 0 {
		return 0, apperror.NewInvalidInput("ID is required", nil)
	}
	return bodyID, nil
}

// bindError turns a binding failure into a 400. Oversized bodies and the first
// failed validation rule get their own message.
func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperror.NewInvalidInput("File too large", err)
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			return apperror.NewInvalidInput(field+" is required", err)
		case "email":
			return apperror.NewInvalidInput(field+" is not valid", err)
		}
	}
	return apperror.NewInvalidInput("Invalid request data", err)
}
