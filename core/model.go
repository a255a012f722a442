package core

// TimeLayout is the timestamp format the remote calendar API speaks,
// e.g. "2024-01-01 10:00:00".
const TimeLayout = "2006-01-02 15:04:05"

// Event is the remote API's representation of a calendar event. The
// server owns it; this client only holds transient copies. Timestamps
// stay in their wire form and are parsed at the point of use.
type Event struct {
	Id          int    `json:"id,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
}

// Entry is the denormalized copy of an Event handed to the calendar
// grid widget.
type Entry struct {
	Id          int    `json:"id"`
	Title       string `json:"title"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Description string `json:"description"`
	AllDay      bool   `json:"allDay"`
}

// Entry converts the wire event into its rendering form. Events from
// this API are never all-day.
func (e Event) Entry() Entry {
	return Entry{
		Id:          e.Id,
		Title:       e.Title,
		Start:       e.StartTime,
		End:         e.EndTime,
		Description: e.Description,
		AllDay:      false,
	}
}

// Category is the server-computed classification of an event relative
// to the current time. The client never derives it locally, it only
// asks the matching endpoint for it.
type Category string

const (
	CategoryRunning   Category = "running"
	CategoryUpcoming  Category = "upcoming"
	CategoryCompleted Category = "completed"
)

// ParseCategory maps a route parameter onto a Category.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryRunning, CategoryUpcoming, CategoryCompleted:
		return Category(s), nil
	}

	return "", ErrInvalidCategory
}

// Credentials is the auth form draft.
type Credentials struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// EventDraft is the creation modal's form draft. Date and time arrive
// as separate fields the way the form collects them; Resolve combines
// them into wire timestamps.
type EventDraft struct {
	Title       string `form:"title" json:"title"`
	Description string `form:"description" json:"description"`
	StartDate   string `form:"start_date" json:"start_date"`
	StartTime   string `form:"start_time" json:"start_time"`
	EndDate     string `form:"end_date" json:"end_date"`
	EndTime     string `form:"end_time" json:"end_time"`
}

// EventPatch is a partial event update sent to the remote API.
type EventPatch struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
}
