package store

import (
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInternalStore() *Store {
	return New(Config{Logger: slog.New(slog.DiscardHandler)})
}

// --- Dangling references ---
// Records are appended directly to bypass the integrity checks.

func TestAuthorOf_DanglingReference(t *testing.T) {
	s := newInternalStore()
	s.insertPost(Post{ID: "p1", Title: "Orphan", Body: "no author", Published: true, Author: "ghost"})

	post, ok := s.PostByID("p1")
	require.True(t, ok)

	author, ok := s.AuthorOf(post)
	assert.False(t, ok)
	assert.Equal(t, User{}, author)
}

func TestPostOf_DanglingReference(t *testing.T) {
	s := newInternalStore()
	s.insertUser(User{ID: "u1", Name: "Amy", Email: "amy@example.com"})
	s.insertComment(Comment{ID: "c1", Text: "lost", Author: "u1", Post: "ghost"})

	comment, ok := s.CommentByID("c1")
	require.True(t, ok)

	_, ok = s.PostOf(comment)
	assert.False(t, ok)
	_, ok = s.AuthorOf(comment)
	assert.True(t, ok)
}

// --- cascadeRefs ---

func TestCascadeRefs_SetSemantics(t *testing.T) {
	s := newInternalStore()
	s.insertUser(User{ID: "u1", Email: "u1@example.com"})
	s.insertUser(User{ID: "u2", Email: "u2@example.com"})
	s.insertPost(Post{ID: "p1", Published: true, Author: "u1"})
	s.insertPost(Post{ID: "p2", Published: true, Author: "u2"})
	s.insertComment(Comment{ID: "c1", Author: "u1", Post: "p1"}) // reachable twice
	s.insertComment(Comment{ID: "c2", Author: "u2", Post: "p1"})
	s.insertComment(Comment{ID: "c3", Author: "u1", Post: "p2"})
	s.insertComment(Comment{ID: "c4", Author: "u2", Post: "p2"})

	user, ok := s.userByID("u1")
	require.True(t, ok)

	refs := s.cascadeRefs(user)

	want := []string{"user#u1", "post#p1", "comment#c1", "comment#c2", "comment#c3"}
	assert.Len(t, refs, len(want))
	for _, ref := range want {
		assert.Contains(t, refs, ref)
	}
	assert.NotContains(t, refs, "post#p2")
	assert.NotContains(t, refs, "comment#c4")
}

func TestCascadeRefs_SameIDDifferentTypes(t *testing.T) {
	s := newInternalStore()
	s.insertUser(User{ID: "1", Email: "a@example.com"})
	s.insertUser(User{ID: "2", Email: "b@example.com"})
	s.insertPost(Post{ID: "2", Published: true, Author: "2"})
	s.insertComment(Comment{ID: "1", Author: "2", Post: "2"})

	user, ok := s.userByID("1")
	require.True(t, ok)

	refs := s.cascadeRefs(user)
	assert.Equal(t, map[string]struct{}{"user#1": {}}, refs)
}

func TestCascadeRefs_CustomRegistry(t *testing.T) {
	s := newInternalStore()
	s.registry = NewRegistry()
	s.registry.Register(Relationship{ParentType: TypeUser, ChildType: TypePost, ParentKeyAttr: AttrAuthor})

	s.insertUser(User{ID: "u1", Email: "u1@example.com"})
	s.insertPost(Post{ID: "p1", Published: true, Author: "u1"})
	s.insertComment(Comment{ID: "c1", Author: "u1", Post: "p1"})

	user, _ := s.userByID("u1")
	refs := s.cascadeRefs(user)

	assert.Contains(t, refs, "post#p1")
	assert.NotContains(t, refs, "comment#c1")
}

// --- removeRefs ---

func TestRemoveRefs_ReleasesEmail(t *testing.T) {
	s := newInternalStore()
	s.insertUser(User{ID: "u1", Email: "amy@example.com"})
	require.True(t, s.emailTaken("amy@example.com"))

	s.removeRefs(map[string]struct{}{"user#u1": {}})

	assert.False(t, s.emailTaken("amy@example.com"))
	assert.Empty(t, s.users)
}

func TestRemoveMatching_KeepsOrder(t *testing.T) {
	posts := []Post{{ID: "a"}, {ID: "b"}, {ID: "c"}, {ID: "d"}}
	var dropped []string

	kept := removeMatching(posts, map[string]struct{}{"post#b": {}, "post#d": {}}, func(p Post) {
		dropped = append(dropped, p.ID)
	})

	assert.Equal(t, []Post{{ID: "a"}, {ID: "c"}}, kept)
	assert.Equal(t, []string{"b", "d"}, dropped)
}

// --- newChange ---

func TestNewChange_Image(t *testing.T) {
	age := 38
	change, err := newChange(OpInsert, User{ID: "1", Name: "Jeremy", Email: "jeremy@example.com", Age: &age})
	require.NoError(t, err)

	assert.Equal(t, OpInsert, change.Op)
	assert.Equal(t, TypeUser, change.EntityType)
	assert.Equal(t, "user#1", change.EntityRef)

	ref, ok := change.Image["entity_ref"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "user#1", ref.Value)

	name, ok := change.Image["name"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "Jeremy", name.Value)

	ageAttr, ok := change.Image["age"].(*types.AttributeValueMemberN)
	require.True(t, ok)
	assert.Equal(t, "38", ageAttr.Value)
}

func TestNewChange_OmitsMissingAge(t *testing.T) {
	change, err := newChange(OpRemove, User{ID: "2", Name: "Amy", Email: "amy@example.com"})
	require.NoError(t, err)

	_, ok := change.Image["age"]
	assert.False(t, ok)
}

func TestNewChange_PostBoolean(t *testing.T) {
	change, err := newChange(OpInsert, Post{ID: "101", Published: true, Author: "1"})
	require.NoError(t, err)

	published, ok := change.Image["published"].(*types.AttributeValueMemberBOOL)
	require.True(t, ok)
	assert.True(t, published.Value)
}
