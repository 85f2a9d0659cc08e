package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/lattice/store"
)

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	s := newTestStore(t)
	seed, err := store.DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, s.Import(context.Background(), seed))
	return s
}

func userNames(users []store.User) []string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		names = append(names, u.Name)
	}
	return names
}

func postIDs(posts []store.Post) []string {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestListUsers(t *testing.T) {
	s := seededStore(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns all in order", "", []string{"Jeremy", "Amy", "Moses"}},
		{"lowercase prefix", "jer", []string{"Jeremy"}},
		{"uppercase query", "AMY", []string{"Amy"}},
		{"substring in several names", "m", []string{"Jeremy", "Amy", "Moses"}},
		{"substring in the middle", "ose", []string{"Moses"}},
		{"no match", "zed", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userNames(s.ListUsers(tt.query)))
		})
	}
}

func TestListUsers_DoesNotMatchEmail(t *testing.T) {
	s := seededStore(t)
	assert.Empty(t, s.ListUsers("example.com"))
}

func TestListPosts(t *testing.T) {
	s := seededStore(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns all including unpublished", "", []string{"101", "102", "103"}},
		{"body only match", "blah", []string{"101"}},
		{"title only match", "mastering", []string{"103"}},
		{"title match on several posts", "graphql", []string{"101", "102"}},
		{"body match ignores case", "YADA", []string{"102"}},
		{"no match", "rust", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, postIDs(s.ListPosts(tt.query)))
		})
	}
}

func TestListComments(t *testing.T) {
	s := seededStore(t)

	comments := s.ListComments()
	require.Len(t, comments, 4)
	assert.Equal(t, "401", comments[0].ID)
	assert.Equal(t, "404", comments[3].ID)
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	users := []store.User{{ID: "1", Name: "Jeremy"}, {ID: "2", Name: "Amy"}}
	filtered := store.FilterUsers(users, "amy")

	require.Len(t, filtered, 1)
	assert.Equal(t, "Jeremy", users[0].Name)
	assert.Equal(t, "Amy", users[1].Name)

	posts := []store.Post{{ID: "1", Title: "a", Body: "b"}}
	assert.Equal(t, posts, store.FilterPosts(posts, ""))
}

func TestListUsers_ReturnsCopies(t *testing.T) {
	s := seededStore(t)

	users := s.ListUsers("")
	users[0].Name = "Changed"

	assert.Equal(t, "Jeremy", s.ListUsers("")[0].Name)
}
