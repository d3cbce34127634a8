package punctuality

// Pair is one named value of a Metrics view.
type Pair struct {
	Name  string
	Value float64
}

// Metrics is an ordered name→value view over index-aligned series arrays.
// Lookups resolve to the first occurrence of a name; entries without a
// matching value read as 0.
type Metrics struct {
	pairs []Pair
	index map[string]int
}

// NewMetrics zips names with values. Extra values are ignored.
func NewMetrics(names []string, values []Value) Metrics {
	m := Metrics{
		pairs: make([]Pair, len(names)),
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		var v float64
		if i < len(values) {
			v = values[i].Float()
		}
		m.pairs[i] = Pair{Name: name, Value: v}
		if _, seen := m.index[name]; !seen {
			m.index[name] = i
		}
	}
	return m
}

// Get returns the value for name, or 0 when absent.
func (m Metrics) Get(name string) float64 {
	i, ok := m.index[name]
	if !ok {
		return 0
	}
	return m.pairs[i].Value
}

// Has reports whether name is present.
func (m Metrics) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Len returns the number of entries, duplicates included.
func (m Metrics) Len() int {
	return len(m.pairs)
}

// Pairs returns the entries in their original order.
func (m Metrics) Pairs() []Pair {
	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)
	return out
}
