package model

import "strings"

// Tristate is a yes/no/any filter. The zero value leaves the engine default in place.
type Tristate int

const (
	Unset Tristate = iota
	Any
	Yes
	No
)

// ParseTristate accepts true/false, yes/no, 1/0 and any.
func ParseTristate(s string) Tristate {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return Yes
	case "false", "no", "0":
		return No
	case "any", "all":
		return Any
	}
	return Unset
}

func (t Tristate) String() string {
	switch t {
	case Yes:
		return "true"
	case No:
		return "false"
	case Any:
		return "any"
	}
	return ""
}

// DateRange is a {start, end} pair of local dates or relative tokens.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ListingQuery is the normalized filter set of a listing request.
type ListingQuery struct {
	Keywords     string
	Location     string
	Categories   []string
	EventTypes   []string
	TicketPrices []string
	DateRanges   []DateRange
	Online       Tristate
	Featured     Tristate
	Cancelled    Tristate
	OrderBy      string
	Order        string
	Offset       int
	PerPage      int
	// Page, when positive, replaces Offset once PerPage is known.
	Page int
	Lang string

	// Statuses defaults to published events.
	Statuses []Status
	Author   int64
	Exclude  []int64

	// UpcomingOnly keeps the future window even when date ranges are given.
	UpcomingOnly bool
	// PastOnly selects events that already ended instead of the default window.
	PastOnly bool
	// NoWindow drops the default future window.
	NoWindow bool
	// Unbounded allows per_page <= 0 to mean every record.
	Unbounded bool
	// Seed drives rand ordering so pages of one listing agree.
	Seed int64
}
