package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-lambda-go/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jacentio/lattice/store"
)

// ErrDanglingReference is returned when a record survives a cascade while
// still referencing a removed user or post.
var ErrDanglingReference = errors.New("lattice: dangling reference after delete")

var (
	recordsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lattice_stream_records_total",
		Help: "Change records processed, by event name and entity type.",
	}, []string{"event", "entity_type"})

	danglingReferences = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lattice_stream_dangling_references_total",
		Help: "Removed entities still referenced by surviving records.",
	}, []string{"entity_type"})
)

// Handler processes change events and audits cascading deletes.
type Handler struct {
	store  *store.Store
	logger *slog.Logger
}

// NewHandler creates a new stream handler.
func NewHandler(s *store.Store, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:  s,
		logger: logger,
	}
}

// HandleChanges processes a batch of change records in order.
// Processing stops at the first record that fails its audit.
func (h *Handler) HandleChanges(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.processRecord(record); err != nil {
			h.logger.Error("failed to process record",
				"eventID", record.EventID,
				"error", err,
			)
			return err
		}
	}
	return nil
}

// processRecord processes a single change record.
func (h *Handler) processRecord(record events.DynamoDBEventRecord) error {
	image := record.Change.NewImage
	if record.EventName == string(store.OpRemove) {
		image = record.Change.OldImage
	}

	entityType := getStringAttr(image, "entity_type")
	entityRef := getStringAttr(image, "entity_ref")
	recordsProcessed.WithLabelValues(record.EventName, entityType).Inc()

	// Only removals can leave dangling references behind
	if record.EventName != string(store.OpRemove) {
		h.logger.Debug("change recorded",
			"event", record.EventName,
			"entityRef", entityRef,
		)
		return nil
	}

	id := getStringAttr(image, "id")
	remaining := h.referencesTo(entityType, id)

	h.logger.Info("removal audited",
		"entityRef", entityRef,
		"remainingReferences", remaining,
	)

	if remaining > 0 {
		danglingReferences.WithLabelValues(entityType).Inc()
		return fmt.Errorf("%w: %s referenced by %d records", ErrDanglingReference, entityRef, remaining)
	}
	return nil
}

// referencesTo counts surviving records that point at a removed entity.
func (h *Handler) referencesTo(entityType, id string) int {
	if h.store == nil || id == "" {
		return 0
	}

	switch entityType {
	case store.TypeUser:
		user := store.User{ID: id}
		return len(h.store.PostsOf(user)) + len(h.store.CommentsOf(user))
	case store.TypePost:
		return len(h.store.CommentsOnPost(store.Post{ID: id}))
	}
	return 0
}

// getStringAttr extracts a string attribute from a stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok && v.DataType() == events.DataTypeString {
		return v.String()
	}
	return ""
}
