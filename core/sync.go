package core

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// fetchOrder fixes the arrival order of the merged calendar list. The
// flattened result is not time-sorted; it keeps the slice order below.
var fetchOrder = []Category{CategoryRunning, CategoryUpcoming, CategoryCompleted}

// FetchAllEvents issues the three category fetches concurrently and
// joins them all-or-nothing: the first failure cancels the remaining
// calls and fails the whole fetch, so the caller never renders a
// partial merge.
func FetchAllEvents(ctx context.Context, api API, session Session) ([]Entry, error) {
	group, ctx := errgroup.WithContext(ctx)
	slices := make([][]Event, len(fetchOrder))

	for i, category := range fetchOrder {
		group.Go(func() error {
			events, err := api.ListEvents(ctx, session, category)
			if err != nil {
				return err
			}

			slices[i] = events

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	var entries []Entry

	for _, events := range slices {
		for _, event := range events {
			entries = append(entries, event.Entry())
		}
	}

	return entries, nil
}

// EventList is the calendar view's in-memory event list and its single
// source of truth: every mutation goes through it, never through the
// rendering widget's internal objects. It has a single writer (the
// owning view flow), so it carries no lock.
type EventList struct {
	entries []Entry
}

func NewEventList(entries []Entry) *EventList {
	return &EventList{entries: entries}
}

func (l *EventList) Entries() []Entry {
	return l.entries
}

// ReplaceByID swaps the entry with the updated one's id in place,
// leaving every other entry untouched. This is the post-update
// shortcut: category membership is not recomputed until the next full
// reload, so the list may diverge from the server's labels. Returns
// false when no entry carries that id.
func (l *EventList) ReplaceByID(updated Entry) bool {
	for i, entry := range l.entries {
		if entry.Id == updated.Id {
			l.entries[i] = updated
			return true
		}
	}

	return false
}

// RemoveByID drops the entry after a confirmed deletion.
func (l *EventList) RemoveByID(id int) bool {
	for i, entry := range l.entries {
		if entry.Id == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return true
		}
	}

	return false
}
