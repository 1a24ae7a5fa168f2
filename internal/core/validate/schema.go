package validate

import (
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

const maxSummaryLength = 2000

// responseSchema is the structural contract a capability response must
// satisfy before typed decoding. Theme membership in the closed enum is
// deliberately not part of this schema: an unknown theme is a distinct
// failure (ErrInvalidTheme), not a generic schema violation.
var responseSchema = sync.OnceValue(func() *openapi3.Schema {
	fieldSchema := openapi3.NewObjectSchema().
		WithProperty("label", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("value", openapi3.NewStringSchema()).
		WithProperty("confidence", openapi3.NewFloat64Schema().WithMin(0).WithMax(1))
	fieldSchema.Required = []string{"label", "value", "confidence"}

	schema := openapi3.NewObjectSchema().
		WithProperty("theme", openapi3.NewStringSchema().WithMinLength(1)).
		WithProperty("summary", openapi3.NewStringSchema().WithMinLength(1).WithMaxLength(maxSummaryLength)).
		WithProperty("fields", openapi3.NewArraySchema().WithItems(fieldSchema)).
		WithProperty("suggestedFileName", openapi3.NewStringSchema())
	schema.Required = []string{"theme", "summary", "fields"}
	return schema
})
