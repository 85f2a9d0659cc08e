package store

// Entity type names.
const (
	TypeUser    = "user"
	TypePost    = "post"
	TypeComment = "comment"
)

// Entity is the base interface for all stored record types.
type Entity interface {
	// EntityID returns the record identifier.
	EntityID() string

	// EntityRef returns the type-qualified reference (e.g., "post#uuid").
	EntityRef() string

	// EntityType returns the entity type name (e.g., "post").
	EntityType() string
}

// ParentReferencer is implemented by entities that hold foreign keys.
type ParentReferencer interface {
	// ParentID returns the id stored in the named foreign key attribute,
	// or an empty string if the entity has no such attribute.
	ParentID(attr string) string
}

// Authored is implemented by records that carry an author foreign key.
type Authored interface {
	AuthorID() string
}

// User is a registered author.
type User struct {
	ID    string `json:"id" yaml:"id" dynamodbav:"id"`
	Name  string `json:"name" yaml:"name" dynamodbav:"name"`
	Email string `json:"email" yaml:"email" dynamodbav:"email"`
	Age   *int   `json:"age,omitempty" yaml:"age,omitempty" dynamodbav:"age,omitempty"`
}

func (u User) EntityID() string   { return u.ID }
func (u User) EntityRef() string  { return entityRef(TypeUser, u.ID) }
func (u User) EntityType() string { return TypeUser }

// Post is an article written by a user.
type Post struct {
	ID        string `json:"id" yaml:"id" dynamodbav:"id"`
	Title     string `json:"title" yaml:"title" dynamodbav:"title"`
	Body      string `json:"body" yaml:"body" dynamodbav:"body"`
	Published bool   `json:"published" yaml:"published" dynamodbav:"published"`
	Author    string `json:"author" yaml:"author" dynamodbav:"author"`
}

func (p Post) EntityID() string   { return p.ID }
func (p Post) EntityRef() string  { return entityRef(TypePost, p.ID) }
func (p Post) EntityType() string { return TypePost }
func (p Post) AuthorID() string   { return p.Author }

func (p Post) ParentID(attr string) string {
	if attr == AttrAuthor {
		return p.Author
	}
	return ""
}

// Comment is a reply by a user on a published post.
type Comment struct {
	ID     string `json:"id" yaml:"id" dynamodbav:"id"`
	Text   string `json:"text" yaml:"text" dynamodbav:"text"`
	Author string `json:"author" yaml:"author" dynamodbav:"author"`
	Post   string `json:"post" yaml:"post" dynamodbav:"post"`
}

func (c Comment) EntityID() string   { return c.ID }
func (c Comment) EntityRef() string  { return entityRef(TypeComment, c.ID) }
func (c Comment) EntityType() string { return TypeComment }
func (c Comment) AuthorID() string   { return c.Author }

func (c Comment) ParentID(attr string) string {
	switch attr {
	case AttrAuthor:
		return c.Author
	case AttrPost:
		return c.Post
	}
	return ""
}

// NewUser holds the fields accepted by CreateUser.
type NewUser struct {
	Name  string
	Email string
	Age   *int
}

// NewPost holds the fields accepted by CreatePost.
type NewPost struct {
	Title     string
	Body      string
	Published bool
	Author    string
}

// NewComment holds the fields accepted by CreateComment.
type NewComment struct {
	Text   string
	Author string
	Post   string
}

func entityRef(entityType, id string) string {
	return entityType + "#" + id
}
