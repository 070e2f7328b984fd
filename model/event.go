package model

import "time"

const (
	TicketPaid = "paid"
	TicketFree = "free"
)

// Event is the typed view of an event_listing post and its metadata.
type Event struct {
	ID                   int64     `json:"id"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Status               Status    `json:"status"`
	StartDate            string    `json:"start_date,omitempty"`
	StartTime            string    `json:"start_time,omitempty"`
	EndDate              string    `json:"end_date,omitempty"`
	EndTime              string    `json:"end_time,omitempty"`
	Timezone             string    `json:"timezone,omitempty"`
	Location             string    `json:"location,omitempty"`
	Online               bool      `json:"online"`
	Address              string    `json:"address,omitempty"`
	Pincode              string    `json:"pincode,omitempty"`
	Banner               string    `json:"banner,omitempty"`
	TicketOption         string    `json:"ticket_option,omitempty"`
	TicketPrice          string    `json:"ticket_price,omitempty"`
	Registration         string    `json:"registration,omitempty"`
	RegistrationDeadline string    `json:"registration_deadline,omitempty"`
	Expires              string    `json:"expires,omitempty"`
	Cancelled            bool      `json:"cancelled"`
	Featured             bool      `json:"featured"`
	ViewCount            int64     `json:"view_count"`
	Author               int64     `json:"author"`
	DJIDs                []int64   `json:"dj_ids,omitempty"`
	LocalID              int64     `json:"local_id,omitempty"`
	DJName               string    `json:"dj_name,omitempty"`
	LocalName            string    `json:"local_name,omitempty"`
	Categories           []int64   `json:"categories,omitempty"`
	Types                []int64   `json:"types,omitempty"`
	Thumbnail            int64     `json:"thumbnail,omitempty"`
	MenuOrder            int       `json:"menu_order"`
	UniqueKey            string    `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	// Meta holds every stored meta value keyed without the leading underscore.
	Meta map[string]string `json:"-"`
}

// IsFree reports whether the ticket option marks the event as free.
func (e *Event) IsFree() bool {
	return e.TicketOption == TicketFree
}
