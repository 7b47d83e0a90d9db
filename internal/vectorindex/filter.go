package vectorindex

// Filter is a metadata predicate in the index filter grammar:
//
//	{field: value}                      equality
//	{"$or": [{field: v1}, {field: v2}]} membership
//
// An empty or nil filter matches everything.
type Filter map[string]interface{}

const orOperator = "$or"

// Equals builds an equality filter on a single field.
func Equals(field, value string) Filter {
	return Filter{field: value}
}

// AnyOf builds a membership filter: a single value collapses to an
// equality filter, multiple values become an $or of equality clauses.
// No values yields a nil filter (match everything).
func AnyOf(field string, values ...string) Filter {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return Equals(field, values[0])
	}

	clauses := make([]Filter, len(values))
	for i, v := range values {
		clauses[i] = Equals(field, v)
	}
	return Filter{orOperator: clauses}
}

// DocumentScope builds the standard document-id scope filter. Nil or
// empty ids mean all documents.
func DocumentScope(documentIDs []string) Filter {
	return AnyOf(MetaDocumentID, documentIDs...)
}

// Matches evaluates the filter against chunk metadata. Used by the
// in-memory index and for client-side filtering of listed vectors.
func (f Filter) Matches(metadata map[string]string) bool {
	if len(f) == 0 {
		return true
	}

	for field, want := range f {
		if field == orOperator {
			if !matchesAny(want, metadata) {
				return false
			}
			continue
		}

		value, ok := want.(string)
		if !ok || metadata[field] != value {
			return false
		}
	}
	return true
}

func matchesAny(clauses interface{}, metadata map[string]string) bool {
	switch cs := clauses.(type) {
	case []Filter:
		for _, c := range cs {
			if c.Matches(metadata) {
				return true
			}
		}
	case []interface{}:
		for _, raw := range cs {
			if c, ok := raw.(map[string]interface{}); ok && Filter(c).Matches(metadata) {
				return true
			}
		}
	}
	return false
}
