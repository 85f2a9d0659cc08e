// Package stream delivers the store's change feed as DynamoDB Streams events
// and audits cascading deletes.
//
// A [Publisher] is plugged into store.Config. Every committed mutation
// arrives as one events.DynamoDBEvent with INSERT records carrying a
// NewImage and REMOVE records carrying an OldImage. The [Handler] checks
// that no surviving post or comment still references a removed user or post.
package stream
