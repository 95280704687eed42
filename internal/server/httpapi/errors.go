package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/biscotto/internal/common"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// messages overrides the response text for errors whose wording depends on
// the endpoint.
type messages struct {
	NotFound    string
	Duplicate   string
	InvalidCode string
}

func (a *API) fail(c *gin.Context, err error, m messages) {
	status, body := a.describe(err, m)
	if status >= http.StatusInternalServerError {
		a.logger.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, body)
}

func (a *API) describe(err error, m messages) (int, gin.H) {
	or := func(s, def string) string {
		if s != "" {
			return s
		}
		return def
	}

	switch {
	case errors.Is(err, common.ErrorValidation):
		msg := strings.TrimPrefix(err.Error(), common.ErrorValidation.Error()+": ")
		return http.StatusBadRequest, gin.H{"message": msg}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, gin.H{"message": or(m.NotFound, "Not found")}
	case errors.Is(err, common.ErrorDuplicateEmail):
		return http.StatusBadRequest, gin.H{"message": or(m.Duplicate, "Email already in use")}
	case errors.Is(err, common.ErrorInvalidCredentials):
		return http.StatusUnauthorized, gin.H{"message": "Invalid email or password"}
	case errors.Is(err, common.ErrorUnauthorized):
		return http.StatusUnauthorized, gin.H{"message": "Invalid token"}
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden, gin.H{"message": "Admin access required"}
	case errors.Is(err, common.ErrorInvalidCode):
		return http.StatusBadRequest, gin.H{"message": or(m.InvalidCode, "Invalid code")}
	case errors.Is(err, common.ErrorCodeExpired):
		return http.StatusBadRequest, gin.H{"message": "Reset code has expired"}
	}

	body := gin.H{"message": "Something went wrong!"}
	if !a.opts.Production {
		body["error"] = err.Error()
	}
	return http.StatusInternalServerError, body
}

// badRequest reports a binding failure with per-field details when the
// validator produced them.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[jsonName(fe.Field())] = fieldMessage(fe)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Validation failed", "errors": fields})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
}

func jsonName(field string) string {
	if field == "" {
		return field
	}
	if field == "UserID" {
		return "userId"
	}
	return strings.ToLower(field[:1]) + field[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must not be negative"
	}
	return "is invalid"
}
