// Package schema describes and validates operator parameters.
//
// Every parameter is typed as one of number, boolean, select, string or file, and
// each type describes its own valid range or pattern so hosts can build inputs
// without knowing the operator:
//
//	params := schema.Schema{
//	    {Name: "repeats", Type: schema.Int(1, 64), Default: 2},
//	    {Name: "direction", Type: schema.Select("left", "right")},
//	    {Name: "label", Type: schema.Pattern(`^[a-z-]+$`)},
//	}
//
//	values := params.WithDefaults(map[string]any{"direction": "left"})
//	if err := params.Validate(values); err != nil {
//	    // one *ValidationError per bad field, wrapped in an *AggregateError
//	}
package schema
