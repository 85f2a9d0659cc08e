// Package store provides an in-process data layer for users, posts and comments
// with referential integrity and cascading deletes.
//
// Lattice backs a graph query API. It answers filtered reads, resolves
// relationships on demand and validates every foreign key before a write is
// committed.
//
// # Key Features
//
//   - Author and post validation on child creation (atomic)
//   - Unique email constraint across users
//   - Cascading deletes driven by a relationship [Registry]
//   - Case-insensitive substring filtering of users and posts
//   - Change feed of committed mutations via [Publisher]
//
// # Entities
//
// All records implement the [Entity] interface:
//
//	type Entity interface {
//	    EntityID() string
//	    EntityRef() string
//	    EntityType() string
//	}
//
// Records holding foreign keys also implement [ParentReferencer], which the
// cascade uses to find children declared in the registry.
//
// # Concurrency
//
// A [Store] is safe for concurrent use. Every public operation runs under a
// single read/write lock, so writes are serializable and two concurrent
// CreateUser calls with the same email cannot both succeed. Each resolver
// call observes a consistent snapshot, but separate resolver calls made while
// building one response re-read the live store and may observe writes that
// landed in between.
//
// # Errors
//
// Mutations fail with a [*Error] carrying one of a closed set of kinds:
//
//   - [KindConflict] ([ErrConflict]) - email already exists
//   - [KindValidation] ([ErrValidation]) - author or post reference is invalid
//   - [KindNotFound] ([ErrNotFound]) - delete target doesn't exist
//
// Reads never fail. Resolvers return an absent result for a dangling reference.
package store
