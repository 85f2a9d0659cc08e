package store

import "strings"

// ListUsers returns users whose name contains query, ignoring case.
// An empty query returns every user in insertion order.
func (s *Store) ListUsers(query string) []User {
	return FilterUsers(s.Users(), query)
}

// ListPosts returns posts whose title or body contains query, ignoring case.
// An empty query returns every post. Unpublished posts are included.
func (s *Store) ListPosts(query string) []Post {
	return FilterPosts(s.Posts(), query)
}

// ListComments returns every comment. Comments are never filtered.
func (s *Store) ListComments() []Comment {
	return s.Comments()
}

// FilterUsers keeps users whose name contains query, ignoring case.
func FilterUsers(users []User, query string) []User {
	if query == "" {
		return users
	}
	q := strings.ToLower(query)

	out := []User{}
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) {
			out = append(out, u)
		}
	}
	return out
}

// FilterPosts keeps posts whose title or body contains query, ignoring case.
func FilterPosts(posts []Post, query string) []Post {
	if query == "" {
		return posts
	}
	q := strings.ToLower(query)

	out := []Post{}
	for _, p := range posts {
		titleMatch := strings.Contains(strings.ToLower(p.Title), q)
		bodyMatch := strings.Contains(strings.ToLower(p.Body), q)
		if titleMatch || bodyMatch {
			out = append(out, p)
		}
	}
	return out
}
