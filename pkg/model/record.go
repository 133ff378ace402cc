package model

// Record is one document of the document store. Data holds the decoded fields as-is.
type Record struct {
	Table string
	Key   string
	Data  map[string]any
}

// Field returns a string field, or empty if absent or not a string
func (r *Record) Field(name string) string {
	if r == nil || r.Data == nil {
		return ""
	}
	s, _ := r.Data[name].(string)
	return s
}

// Condition is an equality predicate on one field
type Condition struct {
	Field string
	Value any
}

// IndexQuery selects records of a table through a secondary index. Key is the partition
// predicate; Filter is evaluated by the store against the index results.
type IndexQuery struct {
	Table  string
	Key    Condition
	Filter []Condition
}

// Match reports whether data satisfies the partition key and every filter
func (q *IndexQuery) Match(data map[string]any) bool {
	if data[q.Key.Field] != q.Key.Value {
		return false
	}
	for _, f := range q.Filter {
		if data[f.Field] != f.Value {
			return false
		}
	}
	return true
}
