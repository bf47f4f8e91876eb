package schema

// Schema maps parameter names to their expected types.
// Example: {"speed": Float(), "label": String(), "tags": Slice(String())}
type Schema map[string]Type

// Validate checks that every field named by the schema is present in data
// and holds a value of the declared type.
// Returns an *AggregateError listing all failures found.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	fields := make([]string, 0, len(schema))
	for name := range schema {
		fields = append(fields, name)
	}
	return ValidateFields(schema, data, fields...)
}

// ValidateFields validates only the given fields of data against the schema.
// A field that the schema does not define, or that data lacks, is an error.
func ValidateFields(schema Schema, data map[string]any, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}

	var errs []error

	for _, fieldName := range fields {
		fieldType, exists := schema[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "not defined in schema",
			})
			continue
		}

		value, fieldExists := data[fieldName]
		if !fieldExists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "required",
			})
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}
