package crud

import (
	"encoding/json"
	"math"

	"github.com/gin-gonic/gin"
)

// Body is a decoded JSON request object, before any resource-specific typing.
type Body map[string]any

// Validation is the result of a create/update validator.
type Validation struct {
	Valid bool
	Error string
}

// Valid is the passing Validation.
var Valid = Validation{Valid: true}

// Invalid returns a failing Validation carrying msg.
func Invalid(msg string) Validation {
	return Validation{Valid: false, Error: msg}
}

const msgInvalidBody = "Invalid JSON body"

// parseBody decodes the request body, which must be a JSON object.
func parseBody(c *gin.Context) (Body, bool) {
	var body Body
	if err := c.ShouldBindJSON(&body); err != nil || body == nil {
		return nil, false
	}
	return body, true
}

// versionOf returns the "version" field of body. An absent or null field is version 1.
func versionOf(body Body) (int, bool) {
	raw, ok := body["version"]
	if !ok || raw == nil {
		return 1, true
	}
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case int:
		return v, true
	case int64:
		return int(v), true
	}
	return 0, false
}
