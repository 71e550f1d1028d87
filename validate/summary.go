package validate

// DefaultLimit is the number of violations considered when a limit is in
// effect.
const DefaultLimit = 1000

// Group is one distinct (message, location, schema) triple and the
// number of violations that share it.
type Group struct {
	Message  string
	Location string
	Schema   string
	Count    int
}

// Summary groups violations for the report.
type Summary struct {
	Groups     []*Group // in order of first occurrence
	Total      int      // violations found
	Considered int      // violations counted into Groups
}

// Valid tells whether there were no violations.
func (s *Summary) Valid() bool {
	return s.Total == 0
}

// Truncated tells whether the limit left violations uncounted.
func (s *Summary) Truncated() bool {
	return s.Considered < s.Total
}

// Summarize groups the first limit violations. A limit of zero or less
// considers all of them.
func Summarize(vv []Violation, limit int) *Summary {
	s := &Summary{Total: len(vv)}
	if limit > 0 && len(vv) > limit {
		vv = vv[:limit]
	}
	s.Considered = len(vv)

	type key struct{ msg, loc, schema string }
	groups := make(map[key]*Group)
	for _, v := range vv {
		k := key{v.Message, v.SchemaLocation, v.Schema}
		g, ok := groups[k]
		if !ok {
			g = &Group{Message: v.Message, Location: v.SchemaLocation, Schema: v.Schema}
			groups[k] = g
			s.Groups = append(s.Groups, g)
		}
		g.Count++
	}
	return s
}
