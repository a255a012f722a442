package core

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

var alphanumeric = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// FieldErrors maps form field names to inline validation messages.
type FieldErrors map[string]string

// ValidateCredentials runs the client-side auth form checks. A non-empty
// result means no network call may be issued.
func ValidateCredentials(creds Credentials) FieldErrors {
	fieldErrors := FieldErrors{}

	switch {
	case creds.Username == "":
		fieldErrors["username"] = "Username is required."
	case !alphanumeric.MatchString(creds.Username):
		fieldErrors["username"] = "Username must contain only alphanumeric characters."
	}

	switch {
	case creds.Password == "":
		fieldErrors["password"] = "Password is required."
	case len(creds.Password) < 6:
		fieldErrors["password"] = "Password must be at least 6 characters."
	}

	if len(fieldErrors) == 0 {
		return nil
	}

	return fieldErrors
}

// Resolve turns the creation form draft into a wire patch, applying the
// end defaults: a missing end date falls back to the start date, and a
// missing end time falls back to the start time plus one hour. The
// added hour is real time arithmetic, so 23:30 rolls over into the next
// day instead of producing an out-of-range clock value.
func (d EventDraft) Resolve() (EventPatch, error) {
	if d.Title == "" || d.StartDate == "" || d.StartTime == "" {
		return EventPatch{}, errors.New("Title, start date, and start time are required.")
	}

	start, err := time.Parse(TimeLayout, d.StartDate+" "+d.StartTime+":00")
	if err != nil {
		return EventPatch{}, fmt.Errorf("invalid start date/time: %w", err)
	}

	end, err := d.resolveEnd(start)
	if err != nil {
		return EventPatch{}, err
	}

	if end.Before(start) {
		return EventPatch{}, errors.New("end time must be after start time")
	}

	return EventPatch{
		Title:       d.Title,
		Description: d.Description,
		StartTime:   start.Format(TimeLayout),
		EndTime:     end.Format(TimeLayout),
	}, nil
}

func (d EventDraft) resolveEnd(start time.Time) (time.Time, error) {
	endDate := d.EndDate
	if endDate == "" {
		endDate = d.StartDate
	}

	endTime := d.EndTime
	if endTime == "" {
		rolled := start.Add(time.Hour)
		if d.EndDate == "" {
			// No end fields at all: the whole default, date included,
			// comes from the rolled start.
			return rolled, nil
		}
		endTime = rolled.Format("15:04")
	}

	end, err := time.Parse(TimeLayout, endDate+" "+endTime+":00")
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid end date/time: %w", err)
	}

	return end, nil
}
