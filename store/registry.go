package store

// Foreign key attribute names.
const (
	AttrAuthor = "author"
	AttrPost   = "post"
)

// Relationship defines a parent-child relationship for cascade operations.
type Relationship struct {
	// ParentType is the parent entity type (e.g., "user").
	ParentType string

	// ChildType is the child entity type (e.g., "post").
	ChildType string

	// ParentKeyAttr is the attribute name in child that references parent (e.g., "author").
	ParentKeyAttr string
}

// Registry holds all known entity relationships for cascade operations.
type Registry struct {
	relationships []Relationship
	byParent      map[string][]Relationship
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		relationships: []Relationship{},
		byParent:      make(map[string][]Relationship),
	}
}

// DefaultRegistry returns the registry for users, posts and comments:
// posts and comments belong to their author, comments belong to their post.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Relationship{ParentType: TypeUser, ChildType: TypePost, ParentKeyAttr: AttrAuthor})
	r.Register(Relationship{ParentType: TypeUser, ChildType: TypeComment, ParentKeyAttr: AttrAuthor})
	r.Register(Relationship{ParentType: TypePost, ChildType: TypeComment, ParentKeyAttr: AttrPost})
	return r
}

// Register adds a relationship to the registry.
func (r *Registry) Register(rel Relationship) {
	r.relationships = append(r.relationships, rel)
	r.byParent[rel.ParentType] = append(r.byParent[rel.ParentType], rel)
}

// ChildrenOf returns all child relationships for a given parent type.
func (r *Registry) ChildrenOf(parentType string) []Relationship {
	return r.byParent[parentType]
}

// AllRelationships returns all registered relationships.
func (r *Registry) AllRelationships() []Relationship {
	return r.relationships
}

// HasChildren returns true if the parent type has any registered child relationships.
func (r *Registry) HasChildren(parentType string) bool {
	return len(r.byParent[parentType]) > 0
}
