package handler

import (
	"errors"
	"net/http"
	"reflect"
	"strconv"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/apierror"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/middleware"
	"github.com/franmartos11/mvp-kioskos-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Teach the validator to treat decimal.Decimal as a float so numeric
	// tags (min, gt) apply to money fields.
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// bindAndValidate decodes the JSON body into req and runs struct validation,
// writing the 400 response itself. Returns false when the request is bad.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid request body"))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := map[string]string{}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
		}
		c.JSON(http.StatusBadRequest, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondErr maps a domain error to an HTTP status and the standard envelope.
func respondErr(c *gin.Context, err error) {
	var de *service.Error
	if !errors.As(err, &de) {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unclassified error")
		c.JSON(http.StatusInternalServerError, apierror.New("internal server error"))
		return
	}

	switch de.Kind {
	case service.KindValidation:
		c.JSON(http.StatusBadRequest, apierror.New(de.Msg))
	case service.KindConflict, service.KindInvalidState:
		c.JSON(http.StatusConflict, apierror.New(de.Msg))
	case service.KindNotFound:
		c.JSON(http.StatusNotFound, apierror.New(de.Msg))
	default:
		log.Error().Err(de.Err).Str("path", c.Request.URL.Path).Msg(de.Msg)
		c.JSON(http.StatusBadGateway, apierror.New(de.Msg))
	}
}

// callerKiosk extracts the authenticated kiosk from the JWT claims. Every
// tenant-scoped route resolves the kiosk from the token, never from the
// request body or path.
func callerKiosk(c *gin.Context) (uuid.UUID, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, apierror.New("authentication required"))
		return uuid.Nil, false
	}
	id, err := uuid.Parse(claims.KioskID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, apierror.New("malformed token"))
		return uuid.Nil, false
	}
	return id, true
}

func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}
