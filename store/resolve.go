package store

// Relationship resolvers. Each call scans the live collections under the read
// lock and returns copies; nothing is cached between calls.

// AuthorOf returns the user referenced by rec's author field.
// A dangling reference yields false, never an error.
func (s *Store) AuthorOf(rec Authored) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByID(rec.AuthorID())
}

// PostsOf returns the posts written by user, in collection order.
func (s *Store) PostsOf(user User) []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Post{}
	for _, p := range s.posts {
		if p.Author == user.ID {
			out = append(out, p)
		}
	}
	return out
}

// CommentsOf returns the comments written by user, in collection order.
func (s *Store) CommentsOf(user User) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Comment{}
	for _, c := range s.comments {
		if c.Author == user.ID {
			out = append(out, c)
		}
	}
	return out
}

// CommentsOnPost returns the comments on post, in collection order.
func (s *Store) CommentsOnPost(post Post) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Comment{}
	for _, c := range s.comments {
		if c.Post == post.ID {
			out = append(out, c)
		}
	}
	return out
}

// PostOf returns the post a comment belongs to.
// A dangling reference yields false, never an error.
func (s *Store) PostOf(comment Comment) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.postByID(comment.Post)
}
