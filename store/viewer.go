package store

// Me returns the fixed identity of the current viewer.
// It is not a stored user and never changes with store contents.
func Me() User {
	return User{
		ID:    "12345",
		Name:  "Mike",
		Email: "mike@example.com",
	}
}
