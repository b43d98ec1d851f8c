// Package market holds the static metro market reference table and its
// lookup. Each entry pairs a cost multiplier (scales baseline channel cost)
// with a reference asset price (basis for revenue per closed deal).
//
// The table is compiled in, ordered, and immutable for the process lifetime.
// Lookup never fails: an unknown market name resolves to DefaultEntry.
package market

// Entry represents one geographic market.
type Entry struct {
	Name                string  `json:"name"`
	CostMultiplier      float64 `json:"cost_multiplier"`
	ReferenceAssetPrice float64 `json:"reference_asset_price"`
}

// DefaultEntry is returned by Resolve for any name not present in the table.
// Absent entries are a normal case, not a failure.
var DefaultEntry = Entry{
	Name:                "National Average",
	CostMultiplier:      1,
	ReferenceAssetPrice: 350000,
}

// table is the reference data, ordered roughly by cost multiplier. CPL and
// revenue figures must reproduce exactly for a given market name, so these
// values are part of the engine's contract.
var table = []Entry{
	{"New York NY", 1.35, 700000},
	{"San Francisco CA", 1.35, 1200000},
	{"Los Angeles CA", 1.3, 900000},
	{"Miami FL", 1.3, 600000},
	{"Boston MA", 1.3, 800000},
	{"Washington DC", 1.3, 750000},
	{"San Jose CA", 1.3, 1300000},
	{"Seattle WA", 1.25, 850000},
	{"San Diego CA", 1.25, 900000},
	{"Austin TX", 1.2, 480000},
	{"Denver CO", 1.2, 550000},
	{"Chicago IL", 1.2, 360000},
	{"Philadelphia PA", 1.2, 350000},
	{"Portland OR", 1.2, 525000},
	{"Phoenix AZ", 1.2, 450000},
	{"Dallas TX", 1.15, 420000},
	{"Atlanta GA", 1.15, 400000},
	{"Tampa FL", 1.15, 380000},
	{"Charlotte NC", 1.15, 380000},
	{"Nashville TN", 1.15, 475000},
	{"Orlando FL", 1.15, 380000},
	{"Houston TX", 1.0, 330000},
	{"Minneapolis MN", 1.0, 370000},
	{"Raleigh NC", 1.0, 420000},
	{"Salt Lake City UT", 1.0, 500000},
	{"Las Vegas NV", 1.0, 430000},
	{"San Antonio TX", 1.0, 320000},
	{"Columbus OH", 1.0, 300000},
	{"Indianapolis IN", 1.0, 290000},
	{"Cincinnati OH", 1.0, 285000},
	{"Kansas City MO", 1.0, 310000},
	{"St. Louis MO", 1.0, 280000},
	{"Oklahoma City OK", 0.9, 260000},
	{"Jacksonville FL", 0.9, 325000},
	{"Cleveland OH", 0.9, 220000},
	{"Pittsburgh PA", 0.9, 275000},
	{"Milwaukee WI", 0.9, 285000},
	{"San Juan PR", 0.85, 300000},
}

// Entries returns the table in its defined order. The returned slice is a
// copy; callers cannot mutate the reference data.
func Entries() []Entry {
	out := make([]Entry, len(table))
	copy(out, table)
	return out
}

// First returns the first table entry, the default market selection.
func First() Entry {
	return table[0]
}

// Lookup finds the entry whose name exactly matches (case-sensitive).
// The second return reports whether the name was present.
func Lookup(name string) (Entry, bool) {
	for _, e := range table {
		if e.Name == name {
			return e, true
		}
	}
	return DefaultEntry, false
}

// Resolve returns the entry for name, or DefaultEntry if absent.
// Total and deterministic; never returns an error.
func Resolve(name string) Entry {
	e, _ := Lookup(name)
	return e
}
