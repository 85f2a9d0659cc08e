package store

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed default_seed.yaml
var defaultSeedYAML []byte

// Seed is a fixture of records with fixed ids.
type Seed struct {
	Users    []User    `yaml:"users"`
	Posts    []Post    `yaml:"posts"`
	Comments []Comment `yaml:"comments"`
}

// LoadSeed decodes a YAML seed fixture. Unknown fields are rejected.
// An empty document yields an empty seed.
func LoadSeed(r io.Reader) (Seed, error) {
	var seed Seed
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&seed); err != nil {
		if errors.Is(err, io.EOF) {
			return Seed{}, nil
		}
		return Seed{}, fmt.Errorf("decode seed: %w", err)
	}
	return seed, nil
}

// DefaultSeed returns the built-in demo data.
func DefaultSeed() (Seed, error) {
	return LoadSeed(bytes.NewReader(defaultSeedYAML))
}

// DefaultSeedYAML returns the built-in demo data as YAML.
func DefaultSeedYAML() []byte {
	return bytes.Clone(defaultSeedYAML)
}

// Import inserts seed records with their own ids. The same invariants as the
// create operations apply, and ids must be non-empty and unused within their
// collection. Either every record is inserted or none is.
func (s *Store) Import(ctx context.Context, seed Seed) error {
	changes, err := s.importSeed(seed)
	if err != nil {
		return err
	}

	s.config.Logger.Info("seed imported",
		"users", len(seed.Users),
		"posts", len(seed.Posts),
		"comments", len(seed.Comments),
	)
	s.publish(ctx, changes)
	return nil
}

func (s *Store) importSeed(seed Seed) ([]Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	userIDs := make(map[string]struct{})
	emails := make(map[string]struct{})
	for _, u := range s.users {
		userIDs[u.ID] = struct{}{}
	}
	for key := range s.emails {
		emails[key] = struct{}{}
	}

	// published tracks every known post id and whether it accepts comments.
	published := make(map[string]bool)
	for _, p := range s.posts {
		published[p.ID] = p.Published
	}

	commentIDs := make(map[string]struct{})
	for _, c := range s.comments {
		commentIDs[c.ID] = struct{}{}
	}

	// 1. Validate everything against existing state plus earlier seed records
	for _, u := range seed.Users {
		if u.ID == "" {
			return nil, validationError("seed user: id is required")
		}
		if _, ok := userIDs[u.ID]; ok {
			return nil, conflictError(fmt.Sprintf("seed user %q: id already exists", u.ID))
		}
		key := emailKey(u.Email)
		if _, ok := emails[key]; ok {
			return nil, conflictError(fmt.Sprintf("seed user %q: email already exists", u.ID))
		}
		userIDs[u.ID] = struct{}{}
		emails[key] = struct{}{}
	}

	for _, p := range seed.Posts {
		if p.ID == "" {
			return nil, validationError("seed post: id is required")
		}
		if _, ok := published[p.ID]; ok {
			return nil, conflictError(fmt.Sprintf("seed post %q: id already exists", p.ID))
		}
		if _, ok := userIDs[p.Author]; !ok {
			return nil, validationError(fmt.Sprintf("seed post %q: author not found", p.ID))
		}
		published[p.ID] = p.Published
	}

	for _, c := range seed.Comments {
		if c.ID == "" {
			return nil, validationError("seed comment: id is required")
		}
		if _, ok := commentIDs[c.ID]; ok {
			return nil, conflictError(fmt.Sprintf("seed comment %q: id already exists", c.ID))
		}
		_, authorExists := userIDs[c.Author]
		if !authorExists || !published[c.Post] {
			return nil, validationError(fmt.Sprintf("seed comment %q: author or post not found", c.ID))
		}
		commentIDs[c.ID] = struct{}{}
	}

	// 2. Build change records
	changes := make([]Change, 0, len(seed.Users)+len(seed.Posts)+len(seed.Comments))
	for _, e := range (recordSet{users: seed.Users, posts: seed.Posts, comments: seed.Comments}).entities() {
		change, err := newChange(OpInsert, e)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}

	// 3. Commit
	for _, u := range seed.Users {
		s.insertUser(u)
	}
	for _, p := range seed.Posts {
		s.insertPost(p)
	}
	for _, c := range seed.Comments {
		s.insertComment(c)
	}
	return changes, nil
}
