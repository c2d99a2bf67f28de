package handlers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/applytrack-backend/internal/platform/apierr"
)

func pathID(c *gin.Context, name string) (uint, error) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apierr.BadRequest("invalid_id", "Invalid "+name+": must be a positive integer")
	}
	return uint(id), nil
}

// queryID parses an optional positive integer query parameter.
func queryID(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, apierr.BadRequest("invalid_query", "Invalid "+name+": must be a positive integer")
	}
	v := uint(id)
	return &v, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apierr.BadRequest("invalid_query", "Invalid "+name+": must be true or false")
	}
	return &b, nil
}

func queryString(c *gin.Context, name string) *string {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	return &raw
}

// jsonText accepts a document body sent either as a JSON string holding the
// encoded document or as the document itself.
type jsonText string

func (t *jsonText) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if trimmed == "null" {
		*t = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = jsonText(s)
		return nil
	}
	*t = jsonText(trimmed)
	return nil
}

func formID(c *gin.Context, name string) (*uint, error) {
	raw := strings.TrimSpace(c.PostForm(name))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, apierr.BadRequest("invalid_form", "Invalid "+name+": must be a positive integer")
	}
	v := uint(id)
	return &v, nil
}
