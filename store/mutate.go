package store

import "context"

// CreateUser creates a user with a generated id.
// Returns ErrConflict if another user already has the same email.
func (s *Store) CreateUser(ctx context.Context, in NewUser) (User, error) {
	user, changes, err := s.createUser(in)
	if err != nil {
		return User{}, err
	}

	s.config.Logger.Debug("user created", "ref", user.EntityRef())
	s.publish(ctx, changes)
	return user, nil
}

func (s *Store) createUser(in NewUser) (User, []Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 1. Unique email (exact match)
	if s.emailTaken(in.Email) {
		return User{}, nil, conflictError("email already exists")
	}

	// 2. Build the record
	id, err := s.newID(func(id string) bool {
		_, ok := s.userByID(id)
		return ok
	})
	if err != nil {
		return User{}, nil, err
	}
	user := User{ID: id, Name: in.Name, Email: in.Email}
	if in.Age != nil {
		age := *in.Age
		user.Age = &age
	}

	change, err := newChange(OpInsert, user)
	if err != nil {
		return User{}, nil, err
	}

	// 3. Commit
	s.insertUser(user)
	return user, []Change{change}, nil
}

// CreatePost creates a post with a generated id.
// Returns ErrValidation if the author doesn't exist.
func (s *Store) CreatePost(ctx context.Context, in NewPost) (Post, error) {
	post, changes, err := s.createPost(in)
	if err != nil {
		return Post{}, err
	}

	s.config.Logger.Debug("post created",
		"ref", post.EntityRef(),
		"author", post.Author,
	)
	s.publish(ctx, changes)
	return post, nil
}

func (s *Store) createPost(in NewPost) (Post, []Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userByID(in.Author); !ok {
		return Post{}, nil, validationError("author not found")
	}

	id, err := s.newID(func(id string) bool {
		_, ok := s.postByID(id)
		return ok
	})
	if err != nil {
		return Post{}, nil, err
	}
	post := Post{
		ID:        id,
		Title:     in.Title,
		Body:      in.Body,
		Published: in.Published,
		Author:    in.Author,
	}

	change, err := newChange(OpInsert, post)
	if err != nil {
		return Post{}, nil, err
	}

	s.insertPost(post)
	return post, []Change{change}, nil
}

// CreateComment creates a comment with a generated id.
// Returns ErrValidation if the author doesn't exist or the post doesn't
// exist or isn't published. The error doesn't say which check failed.
func (s *Store) CreateComment(ctx context.Context, in NewComment) (Comment, error) {
	comment, changes, err := s.createComment(in)
	if err != nil {
		return Comment{}, err
	}

	s.config.Logger.Debug("comment created",
		"ref", comment.EntityRef(),
		"author", comment.Author,
		"post", comment.Post,
	)
	s.publish(ctx, changes)
	return comment, nil
}

func (s *Store) createComment(in NewComment) (Comment, []Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, authorExists := s.userByID(in.Author)
	post, postExists := s.postByID(in.Post)
	if !authorExists || !postExists || !post.Published {
		return Comment{}, nil, validationError("author or post not found")
	}

	id, err := s.newID(func(id string) bool {
		_, ok := s.commentByID(id)
		return ok
	})
	if err != nil {
		return Comment{}, nil, err
	}
	comment := Comment{
		ID:     id,
		Text:   in.Text,
		Author: in.Author,
		Post:   in.Post,
	}

	change, err := newChange(OpInsert, comment)
	if err != nil {
		return Comment{}, nil, err
	}

	s.insertComment(comment)
	return comment, []Change{change}, nil
}

// DeleteUser removes a user and everything that depends on it: the user's
// posts, every comment on those posts and every comment the user wrote.
// The removal is applied as one commit. Returns ErrNotFound if no user has id.
func (s *Store) DeleteUser(ctx context.Context, id string) (User, error) {
	user, removed, changes, err := s.deleteUser(id)
	if err != nil {
		return User{}, err
	}

	s.config.Logger.Info("cascade delete completed",
		"ref", user.EntityRef(),
		"posts", len(removed.posts),
		"comments", len(removed.comments),
	)
	s.publish(ctx, changes)
	return user, nil
}

func (s *Store) deleteUser(id string) (User, recordSet, []Change, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.userByID(id)
	if !ok {
		return User{}, recordSet{}, nil, notFoundError("user not found")
	}

	// 1. Collect everything reachable through the registry
	refs := s.cascadeRefs(user)
	removed := s.selectRefs(refs)

	// 2. Build change records before touching state
	changes := make([]Change, 0, len(refs))
	for _, e := range removed.entities() {
		change, err := newChange(OpRemove, e)
		if err != nil {
			return User{}, recordSet{}, nil, err
		}
		changes = append(changes, change)
	}

	// 3. Commit
	s.removeRefs(refs)
	return user, removed, changes, nil
}

// entities flattens a record set: users, then posts, then comments.
func (r recordSet) entities() []Entity {
	out := make([]Entity, 0, len(r.users)+len(r.posts)+len(r.comments))
	for _, u := range r.users {
		out = append(out, u)
	}
	for _, p := range r.posts {
		out = append(out, p)
	}
	for _, c := range r.comments {
		out = append(out, c)
	}
	return out
}
