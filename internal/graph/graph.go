// Package graph renders store records as response nodes, following
// relationships named by a selection such as "posts.comments.author,comments".
package graph

import (
	"sort"
	"strings"

	"github.com/jacentio/lattice/store"
)

// Relationship fields per entity type.
const (
	FieldPosts    = "posts"
	FieldComments = "comments"
	FieldAuthor   = "author"
	FieldPost     = "post"
)

// Selection is a tree of relationship fields to expand.
type Selection map[string]Selection

// Node is a rendered record. Expanded relationships replace the raw foreign key.
type Node map[string]any

// ParseSelection parses a comma-separated list of dotted field paths.
// Empty segments are skipped.
func ParseSelection(expr string) Selection {
	sel := Selection{}
	for _, path := range strings.Split(expr, ",") {
		cur := sel
		for _, field := range strings.Split(path, ".") {
			field = strings.TrimSpace(field)
			if field == "" {
				break
			}
			next, ok := cur[field]
			if !ok {
				next = Selection{}
				cur[field] = next
			}
			cur = next
		}
	}
	return sel
}

// String renders the selection back into its canonical, sorted form.
func (s Selection) String() string {
	var paths []string
	s.collect("", &paths)
	sort.Strings(paths)
	return strings.Join(paths, ",")
}

func (s Selection) collect(prefix string, paths *[]string) {
	for field, sub := range s {
		path := field
		if prefix != "" {
			path = prefix + "." + field
		}
		if len(sub) == 0 {
			*paths = append(*paths, path)
			continue
		}
		sub.collect(path, paths)
	}
}

// Expander resolves relationships through a store. Expansion stops at
// maxDepth levels below the root, so cyclic selections terminate.
type Expander struct {
	store    *store.Store
	maxDepth int
}

// NewExpander creates an expander. A negative maxDepth is treated as zero.
func NewExpander(s *store.Store, maxDepth int) *Expander {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &Expander{store: s, maxDepth: maxDepth}
}

// Users renders each user.
func (e *Expander) Users(users []store.User, sel Selection) []Node {
	nodes := make([]Node, 0, len(users))
	for _, u := range users {
		nodes = append(nodes, e.user(u, sel, 0))
	}
	return nodes
}

// Posts renders each post.
func (e *Expander) Posts(posts []store.Post, sel Selection) []Node {
	nodes := make([]Node, 0, len(posts))
	for _, p := range posts {
		nodes = append(nodes, e.post(p, sel, 0))
	}
	return nodes
}

// Comments renders each comment.
func (e *Expander) Comments(comments []store.Comment, sel Selection) []Node {
	nodes := make([]Node, 0, len(comments))
	for _, c := range comments {
		nodes = append(nodes, e.comment(c, sel, 0))
	}
	return nodes
}

// User renders a single user.
func (e *Expander) User(u store.User, sel Selection) Node {
	return e.user(u, sel, 0)
}

// Post renders a single post.
func (e *Expander) Post(p store.Post, sel Selection) Node {
	return e.post(p, sel, 0)
}

// Comment renders a single comment.
func (e *Expander) Comment(c store.Comment, sel Selection) Node {
	return e.comment(c, sel, 0)
}

func (e *Expander) user(u store.User, sel Selection, depth int) Node {
	n := Node{"id": u.ID, "name": u.Name, "email": u.Email}
	if u.Age != nil {
		n["age"] = *u.Age
	}
	if depth >= e.maxDepth {
		return n
	}

	if sub, ok := sel[FieldPosts]; ok {
		posts := e.store.PostsOf(u)
		children := make([]Node, 0, len(posts))
		for _, p := range posts {
			children = append(children, e.post(p, sub, depth+1))
		}
		n[FieldPosts] = children
	}
	if sub, ok := sel[FieldComments]; ok {
		comments := e.store.CommentsOf(u)
		children := make([]Node, 0, len(comments))
		for _, c := range comments {
			children = append(children, e.comment(c, sub, depth+1))
		}
		n[FieldComments] = children
	}
	return n
}

func (e *Expander) post(p store.Post, sel Selection, depth int) Node {
	n := Node{
		"id":        p.ID,
		"title":     p.Title,
		"body":      p.Body,
		"published": p.Published,
		FieldAuthor: p.Author,
	}
	if depth >= e.maxDepth {
		return n
	}

	if sub, ok := sel[FieldAuthor]; ok {
		n[FieldAuthor] = e.author(p, sub, depth)
	}
	if sub, ok := sel[FieldComments]; ok {
		comments := e.store.CommentsOnPost(p)
		children := make([]Node, 0, len(comments))
		for _, c := range comments {
			children = append(children, e.comment(c, sub, depth+1))
		}
		n[FieldComments] = children
	}
	return n
}

func (e *Expander) comment(c store.Comment, sel Selection, depth int) Node {
	n := Node{
		"id":        c.ID,
		"text":      c.Text,
		FieldAuthor: c.Author,
		FieldPost:   c.Post,
	}
	if depth >= e.maxDepth {
		return n
	}

	if sub, ok := sel[FieldAuthor]; ok {
		n[FieldAuthor] = e.author(c, sub, depth)
	}
	if sub, ok := sel[FieldPost]; ok {
		// A missing post renders as null
		if p, found := e.store.PostOf(c); found {
			n[FieldPost] = e.post(p, sub, depth+1)
		} else {
			n[FieldPost] = nil
		}
	}
	return n
}

// author returns the expanded author or nil when the reference dangles.
func (e *Expander) author(rec store.Authored, sel Selection, depth int) any {
	u, ok := e.store.AuthorOf(rec)
	if !ok {
		return nil
	}
	return e.user(u, sel, depth+1)
}
