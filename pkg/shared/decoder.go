package shared

import (
	"errors"
	"time"

	"github.com/go-playground/form"
	"github.com/google/uuid"
)

// Decoder decodes url.Values (query strings and form bodies) into structs.
// Identifiers decode as uuids and dates use the YYYY-MM-DD wire format.
var Decoder = form.NewDecoder()

func init() {
	Decoder.SetTagName("query")
	Decoder.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		return uuid.Parse(vals[0])
	}, uuid.UUID{})
	Decoder.RegisterCustomTypeFunc(func(vals []string) (interface{}, error) {
		return time.Parse(time.DateOnly, vals[0])
	}, time.Time{})
}

// DecodeErrorField names the offending field of a Decoder error, or ""
// when the error carries no field information.
func DecodeErrorField(err error) string {
	var decodeErrs form.DecodeErrors
	if errors.As(err, &decodeErrs) {
		for field := range decodeErrs {
			return field
		}
	}
	return ""
}
