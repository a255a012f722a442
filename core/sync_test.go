package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFetchAllEvents(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	session := Session{Token: "tok"}

	t.Run("merges disjoint slices in arrival order", func(t *testing.T) {
		t.Parallel()

		api := new(MockAPI)
		api.On("ListEvents", mock.Anything, session, CategoryRunning).
			Return([]Event{{Id: 1, Title: "Alpha", StartTime: "2024-01-01 10:00:00", EndTime: "2024-01-01 11:00:00"}}, nil)
		api.On("ListEvents", mock.Anything, session, CategoryUpcoming).
			Return([]Event{{Id: 2, Title: "Beta"}, {Id: 3, Title: "Gamma"}}, nil)
		api.On("ListEvents", mock.Anything, session, CategoryCompleted).
			Return([]Event{{Id: 4, Title: "Delta"}}, nil)

		entries, err := FetchAllEvents(ctx, api, session)
		require.NoError(t, err)
		require.Len(t, entries, 4)

		ids := make([]int, 0, len(entries))
		for _, entry := range entries {
			ids = append(ids, entry.Id)
			assert.False(t, entry.AllDay)
		}
		assert.Equal(t, []int{1, 2, 3, 4}, ids)

		assert.Equal(t, Entry{
			Id:     1,
			Title:  "Alpha",
			Start:  "2024-01-01 10:00:00",
			End:    "2024-01-01 11:00:00",
			AllDay: false,
		}, entries[0])

		api.AssertExpectations(t)
	})

	t.Run("single failure fails the whole join", func(t *testing.T) {
		t.Parallel()

		api := new(MockAPI)
		api.On("ListEvents", mock.Anything, session, CategoryRunning).
			Return([]Event{{Id: 1, Title: "Alpha"}}, nil).Maybe()
		api.On("ListEvents", mock.Anything, session, CategoryUpcoming).
			Return(nil, errors.New("Failed to fetch events"))
		api.On("ListEvents", mock.Anything, session, CategoryCompleted).
			Return([]Event{{Id: 4, Title: "Delta"}}, nil).Maybe()

		entries, err := FetchAllEvents(ctx, api, session)
		require.EqualError(t, err, "Failed to fetch events")
		assert.Nil(t, entries)
	})

	t.Run("empty slices merge to an empty list", func(t *testing.T) {
		t.Parallel()

		api := new(MockAPI)
		for _, category := range []Category{CategoryRunning, CategoryUpcoming, CategoryCompleted} {
			api.On("ListEvents", mock.Anything, session, category).Return([]Event{}, nil)
		}

		entries, err := FetchAllEvents(ctx, api, session)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestEventList_ReplaceByID(t *testing.T) {
	t.Parallel()

	list := NewEventList([]Entry{
		{Id: 1, Title: "Alpha"},
		{Id: 2, Title: "Beta", Description: "untouched"},
		{Id: 3, Title: "Gamma"},
	})

	replaced := list.ReplaceByID(Entry{Id: 2, Title: "Beta v2", Description: "updated"})
	require.True(t, replaced)

	entries := list.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "Alpha", entries[0].Title)
	assert.Equal(t, "Beta v2", entries[1].Title)
	assert.Equal(t, "updated", entries[1].Description)
	assert.Equal(t, "Gamma", entries[2].Title)

	assert.False(t, list.ReplaceByID(Entry{Id: 99, Title: "Nobody"}))
	assert.Len(t, list.Entries(), 3)
}

func TestEventList_RemoveByID(t *testing.T) {
	t.Parallel()

	list := NewEventList([]Entry{
		{Id: 1, Title: "Alpha"},
		{Id: 2, Title: "Beta"},
	})

	require.True(t, list.RemoveByID(1))

	entries := list.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].Id)

	assert.False(t, list.RemoveByID(1))
}
