package stream

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jacentio/lattice/store"
)

const (
	eventSource    = "lattice:store"
	streamViewType = "NEW_AND_OLD_IMAGES"
)

// Publisher implements store.Publisher by converting each batch into a
// DynamoDB Streams event and handing it to a Handler.
type Publisher struct {
	handler *Handler
	seq     atomic.Int64
	now     func() time.Time
}

// NewPublisher creates a publisher that delivers to h.
func NewPublisher(h *Handler) *Publisher {
	return &Publisher{handler: h, now: time.Now}
}

// Publish converts changes and runs them through the handler.
func (p *Publisher) Publish(ctx context.Context, changes []store.Change) error {
	return p.handler.HandleChanges(ctx, p.Event(changes))
}

// Event converts a change batch into a stream event. Sequence numbers keep
// increasing across batches.
func (p *Publisher) Event(changes []store.Change) events.DynamoDBEvent {
	created := events.SecondsEpochTime{Time: p.now().UTC()}
	records := make([]events.DynamoDBEventRecord, 0, len(changes))

	for _, ch := range changes {
		seq := strconv.FormatInt(p.seq.Add(1), 10)
		record := events.DynamoDBEventRecord{
			EventID:     seq,
			EventName:   string(ch.Op),
			EventSource: eventSource,
			Change: events.DynamoDBStreamRecord{
				ApproximateCreationDateTime: created,
				Keys: map[string]events.DynamoDBAttributeValue{
					"entity_ref": events.NewStringAttribute(ch.EntityRef),
				},
				SequenceNumber: seq,
				StreamViewType: streamViewType,
			},
		}

		image := ConvertImage(ch.Image)
		switch ch.Op {
		case store.OpInsert:
			record.Change.NewImage = image
		case store.OpRemove:
			record.Change.OldImage = image
		}
		records = append(records, record)
	}

	return events.DynamoDBEvent{Records: records}
}

// ConvertImage converts an attribute-value map into its stream representation.
// Attribute types without a stream equivalent are dropped.
func ConvertImage(image map[string]types.AttributeValue) map[string]events.DynamoDBAttributeValue {
	result := make(map[string]events.DynamoDBAttributeValue, len(image))
	for k, v := range image {
		if converted, ok := convertValue(v); ok {
			result[k] = converted
		}
	}
	return result
}

func convertValue(v types.AttributeValue) (events.DynamoDBAttributeValue, bool) {
	switch tv := v.(type) {
	case *types.AttributeValueMemberS:
		return events.NewStringAttribute(tv.Value), true
	case *types.AttributeValueMemberN:
		return events.NewNumberAttribute(tv.Value), true
	case *types.AttributeValueMemberBOOL:
		return events.NewBooleanAttribute(tv.Value), true
	case *types.AttributeValueMemberB:
		return events.NewBinaryAttribute(tv.Value), true
	case *types.AttributeValueMemberNULL:
		return events.NewNullAttribute(), true
	case *types.AttributeValueMemberSS:
		return events.NewStringSetAttribute(tv.Value), true
	case *types.AttributeValueMemberNS:
		return events.NewNumberSetAttribute(tv.Value), true
	case *types.AttributeValueMemberM:
		return events.NewMapAttribute(ConvertImage(tv.Value)), true
	case *types.AttributeValueMemberL:
		list := make([]events.DynamoDBAttributeValue, 0, len(tv.Value))
		for _, item := range tv.Value {
			if converted, ok := convertValue(item); ok {
				list = append(list, converted)
			}
		}
		return events.NewListAttribute(list), true
	}
	return events.DynamoDBAttributeValue{}, false
}

// NewAuditedStore creates a store whose change feed is audited by a Handler
// reading back from that same store.
func NewAuditedStore(cfg store.Config, logger *slog.Logger) (*store.Store, *Handler) {
	h := NewHandler(nil, logger)
	cfg.Publisher = NewPublisher(h)
	h.store = store.New(cfg)
	return h.store, h
}
