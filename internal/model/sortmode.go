package model

import "strings"

// SortMode orders the fetched list by creation date.
type SortMode int

const (
	OldestFirst SortMode = iota
	NewestFirst
)

func (m SortMode) Valid() bool { return m == OldestFirst || m == NewestFirst }

func (m SortMode) String() string {
	switch m {
	case OldestFirst:
		return "oldest-first"
	case NewestFirst:
		return "newest-first"
	}
	return "unknown"
}

// Label is the human form shown in the board header.
func (m SortMode) Label() string {
	if m == NewestFirst {
		return "Newest first"
	}
	return "Oldest first"
}

// Next cycles to the other mode.
func (m SortMode) Next() SortMode {
	if m == OldestFirst {
		return NewestFirst
	}
	return OldestFirst
}

// ParseSortMode accepts "oldest-first"/"newest-first" and the older
// "newestLast"/"newestFirst" spellings. ok is false for anything else.
func ParseSortMode(s string) (mode SortMode, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oldest-first", "oldestfirst", "oldest", "newestlast":
		return OldestFirst, true
	case "newest-first", "newestfirst", "newest":
		return NewestFirst, true
	}
	return OldestFirst, false
}
