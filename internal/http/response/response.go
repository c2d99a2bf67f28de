package response

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	domainagg "github.com/yungbote/applytrack-backend/internal/domain/aggregates"
	"github.com/yungbote/applytrack-backend/internal/platform/apierr"
)

// ErrorBody is the only error shape the API returns.
type ErrorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// FieldProblem is one failed binding rule.
type FieldProblem struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
	Param string `json:"param,omitempty"`
}

const internalMessage = "Internal server error"

// StatusFor maps an error to the HTTP status it is reported with.
func StatusFor(err error) int {
	var ae *apierr.Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status
	}
	switch domainagg.CodeOf(err) {
	case domainagg.CodeValidation, domainagg.CodeInvariantViolation, domainagg.CodePreconditionFailed:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// RespondError writes err as {error, details?} and records it on the gin
// context so the request log carries it.
func RespondError(c *gin.Context, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	_ = c.Error(err)
	status := StatusFor(err)
	c.AbortWithStatusJSON(status, bodyFor(status, err))
}

func bodyFor(status int, err error) ErrorBody {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		msg := ae.Code
		if ae.Err != nil {
			msg = ae.Err.Error()
		}
		return ErrorBody{Error: msg, Details: ae.Details}
	}

	var agg *domainagg.Error
	if !errors.As(err, &agg) {
		return ErrorBody{Error: internalMessage, Details: err.Error()}
	}
	body := ErrorBody{Error: agg.Message, Details: agg.Details}
	if status >= http.StatusInternalServerError {
		if agg.Code != domainagg.CodeInternal || strings.TrimSpace(agg.Message) == "" {
			body.Error = internalMessage
		}
		if body.Details == nil && agg.Cause != nil {
			body.Details = agg.Cause.Error()
		}
	}
	if strings.TrimSpace(body.Error) == "" {
		body.Error = http.StatusText(status)
	}
	return body
}

// RespondBindError reports a request body or query that failed to bind.
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		problems := make([]FieldProblem, 0, len(verrs))
		for _, fe := range verrs {
			problems = append(problems, FieldProblem{
				Field: jsonField(fe),
				Rule:  fe.Tag(),
				Param: fe.Param(),
			})
		}
		RespondError(c, apierr.WithDetails(apierr.BadRequest("validation_failed", "Validation failed"), problems))
		return
	}
	RespondError(c, apierr.WithDetails(apierr.BadRequest("invalid_body", "Invalid request body"), err.Error()))
}

func jsonField(fe validator.FieldError) string {
	if f := fe.Field(); f != "" {
		return f
	}
	return fe.StructField()
}

var tagNameOnce sync.Once

// UseJSONFieldNames makes binding errors name fields by their json tag.
func UseJSONFieldNames() {
	tagNameOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
