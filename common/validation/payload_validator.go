package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeInvalidInput is attached to every validation failure
const TextCodeInvalidInput = "INVALID_INPUT"

// PayloadValidator checks loosely typed webhook payloads against a list of
// required fields per payload type. Only presence is checked: a field is
// present when its value is truthy (not missing, null, "", 0, NaN or false).
type PayloadValidator struct {
	rules map[string][]string
}

// NewPayloadValidator creates a validator for the given payload types
func NewPayloadValidator(rules map[string][]string) *PayloadValidator {
	copied := make(map[string][]string, len(rules))
	for payloadType, fields := range rules {
		copied[payloadType] = append([]string(nil), fields...)
	}
	return &PayloadValidator{rules: copied}
}

// Validate returns the required fields of content coerced to strings.
// Unknown payload types, a nil content map and absent fields are rejected
// with a BadInput error.
func (v *PayloadValidator) Validate(payloadType string, content map[string]any) (map[string]string, error) {
	required, ok := v.rules[payloadType]
	if !ok {
		return nil, InvalidInput("unrecognized payload type", map[string]any{"payload_type": payloadType})
	}
	if content == nil {
		return nil, InvalidInput("payload_content is required", map[string]any{"payload_type": payloadType})
	}

	fields := make(map[string]string, len(required))
	var missing []string
	for _, name := range required {
		value, exists := content[name]
		if !exists || !Truthy(value) {
			missing = append(missing, name)
			continue
		}
		fields[name] = Coerce(value)
	}

	if len(missing) > 0 {
		return nil, InvalidInput("missing required fields", map[string]any{
			"payload_type": payloadType,
			"missing":      missing,
		})
	}
	return fields, nil
}

// Truthy reports whether a decoded JSON value counts as present
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	case float64:
		return v != 0 && !math.IsNaN(v)
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case int:
		return v != 0
	case int64:
		return v != 0
	case json.Number:
		f, err := v.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	default:
		return true
	}
}

// Coerce renders a decoded JSON value as the string that is stored.
// Numbers keep their shortest exact form, objects and arrays are re-encoded.
func Coerce(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		encoded, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(encoded)
	}
}

// IsInvalidInput reports whether err came from payload validation
func IsInvalidInput(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.Category == goerrors.CategoryBadInput
}

// InvalidInput builds a BadInput error carrying metadata for logs
func InvalidInput(message string, metadata map[string]any) error {
	err := goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(TextCodeInvalidInput)
	if len(metadata) > 0 {
		err.WithMetadata(metadata)
	}
	return err
}
