package store

import (
	"sync"

	"github.com/jacentio/lattice/internal/unique"
)

// maxIDAttempts bounds retries when a generated id is already taken.
const maxIDAttempts = 8

// Store holds users, posts and comments with referential integrity.
type Store struct {
	mu       sync.RWMutex
	config   Config
	registry *Registry

	users    []User
	posts    []Post
	comments []Comment

	// emails maps a unique constraint key to the owning user id.
	emails map[string]string
}

// New creates a new empty Store.
func New(config Config) *Store {
	config.validate()
	return &Store{
		config:   config,
		registry: DefaultRegistry(),
		emails:   make(map[string]string),
	}
}

// Registry returns the relationship registry that drives cascading deletes.
func (s *Store) Registry() *Registry {
	return s.registry
}

// Users returns all users in insertion order.
func (s *Store) Users() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.users)
}

// Posts returns all posts in insertion order.
func (s *Store) Posts() []Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.posts)
}

// Comments returns all comments in insertion order.
func (s *Store) Comments() []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneSlice(s.comments)
}

// UserByID returns the user with the given id.
func (s *Store) UserByID(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userByID(id)
}

// PostByID returns the post with the given id.
func (s *Store) PostByID(id string) (Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.postByID(id)
}

// CommentByID returns the comment with the given id.
func (s *Store) CommentByID(id string) (Comment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commentByID(id)
}

// The helpers below expect s.mu to be held by the caller.

func (s *Store) userByID(id string) (User, bool) {
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return User{}, false
}

func (s *Store) postByID(id string) (Post, bool) {
	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return Post{}, false
}

func (s *Store) commentByID(id string) (Comment, bool) {
	for _, c := range s.comments {
		if c.ID == id {
			return c, true
		}
	}
	return Comment{}, false
}

func emailKey(email string) string {
	return unique.Key(TypeUser, "email", email)
}

func (s *Store) emailTaken(email string) bool {
	_, ok := s.emails[emailKey(email)]
	return ok
}

// newID generates an id not yet used in the collection checked by exists.
func (s *Store) newID(exists func(id string) bool) (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.config.NewID()
		if id != "" && !exists(id) {
			return id, nil
		}
	}
	return "", ErrIDGeneration
}

func (s *Store) insertUser(u User) {
	if u.Age != nil {
		age := *u.Age
		u.Age = &age
	}
	s.users = append(s.users, u)
	s.emails[emailKey(u.Email)] = u.ID
}

func (s *Store) insertPost(p Post) {
	s.posts = append(s.posts, p)
}

func (s *Store) insertComment(c Comment) {
	s.comments = append(s.comments, c)
}

// childEntity is a record that can appear on the child side of a relationship.
type childEntity interface {
	Entity
	ParentReferencer
}

// children returns the records of a child entity type in collection order.
func (s *Store) children(entityType string) []childEntity {
	var out []childEntity
	switch entityType {
	case TypePost:
		for _, p := range s.posts {
			out = append(out, p)
		}
	case TypeComment:
		for _, c := range s.comments {
			out = append(out, c)
		}
	}
	return out
}

// cascadeRefs walks the registry breadth-first from root and returns the set
// of refs to remove, root included. A record reachable through more than one
// relationship appears once.
func (s *Store) cascadeRefs(root Entity) map[string]struct{} {
	type node struct {
		entityType string
		id         string
	}

	refs := map[string]struct{}{root.EntityRef(): {}}
	queue := []node{{entityType: root.EntityType(), id: root.EntityID()}}

	for len(queue) > 0 {
		parent := queue[0]
		queue = queue[1:]

		for _, rel := range s.registry.ChildrenOf(parent.entityType) {
			for _, child := range s.children(rel.ChildType) {
				if child.ParentID(rel.ParentKeyAttr) != parent.id {
					continue
				}
				ref := child.EntityRef()
				if _, seen := refs[ref]; seen {
					continue
				}
				refs[ref] = struct{}{}
				queue = append(queue, node{entityType: child.EntityType(), id: child.EntityID()})
			}
		}
	}

	return refs
}

// recordSet groups records by collection, each in collection order.
type recordSet struct {
	users    []User
	posts    []Post
	comments []Comment
}

// selectRefs returns the records whose ref is in refs without removing them.
func (s *Store) selectRefs(refs map[string]struct{}) recordSet {
	var r recordSet
	for _, u := range s.users {
		if _, ok := refs[u.EntityRef()]; ok {
			r.users = append(r.users, u)
		}
	}
	for _, p := range s.posts {
		if _, ok := refs[p.EntityRef()]; ok {
			r.posts = append(r.posts, p)
		}
	}
	for _, c := range s.comments {
		if _, ok := refs[c.EntityRef()]; ok {
			r.comments = append(r.comments, c)
		}
	}
	return r
}

// removeRefs deletes every record whose ref is in refs.
func (s *Store) removeRefs(refs map[string]struct{}) {
	s.users = removeMatching(s.users, refs, func(u User) {
		delete(s.emails, emailKey(u.Email))
	})
	s.posts = removeMatching(s.posts, refs, nil)
	s.comments = removeMatching(s.comments, refs, nil)
}

// removeMatching filters records in place, calling onRemove for each dropped record.
func removeMatching[T Entity](records []T, refs map[string]struct{}, onRemove func(T)) []T {
	kept := records[:0]
	for _, rec := range records {
		if _, ok := refs[rec.EntityRef()]; ok {
			if onRemove != nil {
				onRemove(rec)
			}
			continue
		}
		kept = append(kept, rec)
	}
	clear(records[len(kept):])
	return kept
}

func cloneSlice[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
