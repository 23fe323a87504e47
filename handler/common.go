package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/annazecevic/catalog-service/domain"
	"github.com/annazecevic/catalog-service/logger"
	"github.com/annazecevic/catalog-service/middleware"
	"github.com/annazecevic/catalog-service/service"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// targetPaths maps each rateable kind to its route prefix.
var targetPaths = map[domain.TargetKind]string{
	domain.TargetSong:  "/songs",
	domain.TargetAlbum: "/albums",
}

var registerOnce sync.Once

// RegisterValidators adds the "genre" and "httpurl" binding tags and reports
// JSON field names in validation errors. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
		rules := map[string]validator.Func{
			"genre": func(fl validator.FieldLevel) bool {
				return domain.GenreExists(int(fl.Field().Int()))
			},
			"httpurl": func(fl validator.FieldLevel) bool {
				return isHTTPURL(fl.Field().String())
			},
		}
		for tag, fn := range rules {
			if err := v.RegisterValidation(tag, fn); err != nil {
				logger.Error(logger.EventServiceStartup, "Failed to register binding validator", logger.Fields(
					"tag", tag,
					"error", err.Error(),
				))
				panic(fmt.Sprintf("register %q validator: %v", tag, err))
			}
		}
	})
}

// isHTTPURL accepts only absolute http and https URLs with a host.
func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}

func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	msg := "invalid request body"
	if errors.As(err, &verrs) {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, describeFieldError(fe))
		}
		msg = strings.Join(parts, "; ")
	}
	logger.Warn(logger.EventValidationFailure, "Request validation failed", logger.Fields(
		"path", c.FullPath(),
		"error", err.Error(),
	))
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "genre":
		return fmt.Sprintf("%s: %v is not a known genre", fe.Field(), fe.Value())
	case "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param())
	case "url":
		return fe.Field() + " must be a valid URL"
	case "httpurl":
		return fe.Field() + " must be an http or https URL"
	}
	return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
}

// respondError translates service errors into status codes. Unexpected
// errors are logged and hidden from the client.
func respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidGenre),
		errors.Is(err, domain.ErrInvalidTargetKind):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		status = http.StatusConflict
	default:
		logger.Error(logger.EventGeneral, "Request failed", logger.Fields(
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err.Error(),
		))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func actorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		UserID:   c.GetString(middleware.ContextUserID),
		Role:     c.GetString(middleware.ContextUserRole),
		ArtistID: c.GetInt64(middleware.ContextArtistID),
	}
}

// idParam parses a positive integer path parameter, answering 400 when it
// is malformed.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

// rejectUnsafeText answers 400 when any value looks like script or SQL
// injection.
func rejectUnsafeText(c *gin.Context, values ...string) bool {
	for _, v := range values {
		if middleware.CheckXSSPatterns(v) || middleware.CheckSQLInjectionPatterns(v) {
			logger.Security(logger.EventValidationFailure, "Suspicious input rejected", logger.Fields(
				"path", c.FullPath(),
				"user_id", c.GetString(middleware.ContextUserID),
				"ip", c.ClientIP(),
			))
			c.JSON(http.StatusBadRequest, gin.H{"error": "input contains forbidden content"})
			return true
		}
	}
	return false
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
