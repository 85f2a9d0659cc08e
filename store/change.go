package store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ChangeOp is the kind of change applied to a record.
type ChangeOp string

// Change operations, named after their DynamoDB Streams event names.
const (
	OpInsert ChangeOp = "INSERT"
	OpRemove ChangeOp = "REMOVE"
)

// Change describes one record inserted or removed by a committed mutation.
type Change struct {
	// Op is INSERT for created records and REMOVE for deleted ones.
	Op ChangeOp

	// EntityType is the record's type name.
	EntityType string

	// EntityRef is the record's type-qualified reference.
	EntityRef string

	// Image is the record as an attribute-value map. It always carries
	// "entity_ref" and "entity_type" alongside the record's own fields.
	Image map[string]types.AttributeValue
}

// Publisher receives the changes of committed mutations.
// A batch holds every change of one mutation, so a cascading delete
// is delivered as a single batch.
type Publisher interface {
	Publish(ctx context.Context, changes []Change) error
}

// newChange builds the change record for an entity.
func newChange(op ChangeOp, e Entity) (Change, error) {
	image, err := attributevalue.MarshalMap(e)
	if err != nil {
		return Change{}, fmt.Errorf("marshal %s: %w", e.EntityRef(), err)
	}
	image["entity_ref"] = &types.AttributeValueMemberS{Value: e.EntityRef()}
	image["entity_type"] = &types.AttributeValueMemberS{Value: e.EntityType()}

	return Change{
		Op:         op,
		EntityType: e.EntityType(),
		EntityRef:  e.EntityRef(),
		Image:      image,
	}, nil
}

// publish hands a committed batch to the configured publisher.
// The mutation is already visible, so failures are logged and not returned.
func (s *Store) publish(ctx context.Context, changes []Change) {
	if s.config.Publisher == nil || len(changes) == 0 {
		return
	}
	if err := s.config.Publisher.Publish(ctx, changes); err != nil {
		s.config.Logger.Warn("failed to publish changes",
			"changes", len(changes),
			"error", err,
		)
	}
}
