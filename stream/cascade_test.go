package stream_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/lattice/store"
	"github.com/jacentio/lattice/stream"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := store.DefaultConfig()
	cfg.Logger = discardLogger()
	return store.New(cfg)
}

func removeEvent(entityType, id string) events.DynamoDBEvent {
	return events.DynamoDBEvent{Records: []events.DynamoDBEventRecord{{
		EventID:   "1",
		EventName: string(store.OpRemove),
		Change: events.DynamoDBStreamRecord{
			OldImage: map[string]events.DynamoDBAttributeValue{
				"entity_type": events.NewStringAttribute(entityType),
				"entity_ref":  events.NewStringAttribute(entityType + "#" + id),
				"id":          events.NewStringAttribute(id),
			},
		},
	}}}
}

func TestNewHandler(t *testing.T) {
	h := stream.NewHandler(newStore(t), nil)
	require.NotNil(t, h)
}

func TestHandleChanges_Empty(t *testing.T) {
	h := stream.NewHandler(newStore(t), discardLogger())
	assert.NoError(t, h.HandleChanges(context.Background(), events.DynamoDBEvent{}))
}

func TestHandleChanges_CanceledContext(t *testing.T) {
	h := stream.NewHandler(newStore(t), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.HandleChanges(ctx, removeEvent(store.TypeUser, "1"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandleChanges_CleanRemoval(t *testing.T) {
	h := stream.NewHandler(newStore(t), discardLogger())
	assert.NoError(t, h.HandleChanges(context.Background(), removeEvent(store.TypeUser, "gone")))
}

func TestHandleChanges_DanglingUserReference(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, store.NewUser{Name: "Amy", Email: "amy@example.com"})
	require.NoError(t, err)
	_, err = s.CreatePost(ctx, store.NewPost{Title: "t", Body: "b", Published: true, Author: u.ID})
	require.NoError(t, err)

	h := stream.NewHandler(s, discardLogger())
	err = h.HandleChanges(ctx, removeEvent(store.TypeUser, u.ID))

	assert.ErrorIs(t, err, stream.ErrDanglingReference)
}

func TestHandleChanges_DanglingPostReference(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, store.NewUser{Name: "Amy", Email: "amy@example.com"})
	require.NoError(t, err)
	p, err := s.CreatePost(ctx, store.NewPost{Title: "t", Body: "b", Published: true, Author: u.ID})
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, store.NewComment{Text: "hi", Author: u.ID, Post: p.ID})
	require.NoError(t, err)

	h := stream.NewHandler(s, discardLogger())

	assert.ErrorIs(t, h.HandleChanges(ctx, removeEvent(store.TypePost, p.ID)), stream.ErrDanglingReference)
	assert.NoError(t, h.HandleChanges(ctx, removeEvent(store.TypeComment, "any")))
}

// auditingPublisher wraps a Publisher and keeps the last audit error, since
// the store only logs publish failures.
type auditingPublisher struct {
	inner *stream.Publisher
	err   error
	calls int
}

func (p *auditingPublisher) Publish(ctx context.Context, changes []store.Change) error {
	p.calls++
	p.err = p.inner.Publish(ctx, changes)
	return p.err
}

func TestPublisher_AuditsCascadeDelete(t *testing.T) {
	ctx := context.Background()
	pub := &auditingPublisher{}

	cfg := store.DefaultConfig()
	cfg.Logger = discardLogger()
	cfg.Publisher = pub
	s := store.New(cfg)
	pub.inner = stream.NewPublisher(stream.NewHandler(s, discardLogger()))

	u1, err := s.CreateUser(ctx, store.NewUser{Name: "Amy", Email: "amy@example.com"})
	require.NoError(t, err)
	u2, err := s.CreateUser(ctx, store.NewUser{Name: "Moses", Email: "moses@example.com"})
	require.NoError(t, err)
	p1, err := s.CreatePost(ctx, store.NewPost{Title: "t", Body: "b", Published: true, Author: u1.ID})
	require.NoError(t, err)
	_, err = s.CreateComment(ctx, store.NewComment{Text: "hi", Author: u2.ID, Post: p1.ID})
	require.NoError(t, err)
	require.NoError(t, pub.err)

	_, err = s.DeleteUser(ctx, u1.ID)
	require.NoError(t, err)

	assert.Equal(t, 5, pub.calls)
	assert.NoError(t, pub.err)
}

func TestPublisher_Event(t *testing.T) {
	p := stream.NewPublisher(stream.NewHandler(nil, discardLogger()))

	changes := []store.Change{
		{
			Op:         store.OpInsert,
			EntityType: store.TypeUser,
			EntityRef:  "user#1",
			Image: map[string]types.AttributeValue{
				"id":          &types.AttributeValueMemberS{Value: "1"},
				"entity_type": &types.AttributeValueMemberS{Value: store.TypeUser},
			},
		},
		{
			Op:         store.OpRemove,
			EntityType: store.TypePost,
			EntityRef:  "post#2",
			Image: map[string]types.AttributeValue{
				"id": &types.AttributeValueMemberS{Value: "2"},
			},
		},
	}

	event := p.Event(changes)
	require.Len(t, event.Records, 2)

	insert := event.Records[0]
	assert.Equal(t, "INSERT", insert.EventName)
	assert.Equal(t, "1", insert.EventID)
	assert.Equal(t, "1", insert.Change.SequenceNumber)
	assert.Equal(t, "user#1", insert.Change.Keys["entity_ref"].String())
	assert.Equal(t, "1", insert.Change.NewImage["id"].String())
	assert.Nil(t, insert.Change.OldImage)

	remove := event.Records[1]
	assert.Equal(t, "REMOVE", remove.EventName)
	assert.Equal(t, "2", remove.Change.SequenceNumber)
	assert.Equal(t, "2", remove.Change.OldImage["id"].String())
	assert.Nil(t, remove.Change.NewImage)

	// Sequence numbers continue across batches
	next := p.Event(changes[:1])
	assert.Equal(t, "3", next.Records[0].Change.SequenceNumber)
}

func TestConvertImage(t *testing.T) {
	image := map[string]types.AttributeValue{
		"s":    &types.AttributeValueMemberS{Value: "text"},
		"n":    &types.AttributeValueMemberN{Value: "42"},
		"bool": &types.AttributeValueMemberBOOL{Value: true},
		"b":    &types.AttributeValueMemberB{Value: []byte("raw")},
		"null": &types.AttributeValueMemberNULL{Value: true},
		"ss":   &types.AttributeValueMemberSS{Value: []string{"a", "b"}},
		"ns":   &types.AttributeValueMemberNS{Value: []string{"1", "2"}},
		"m": &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"inner": &types.AttributeValueMemberS{Value: "x"},
		}},
		"l": &types.AttributeValueMemberL{Value: []types.AttributeValue{
			&types.AttributeValueMemberN{Value: "1"},
		}},
		"bs": &types.AttributeValueMemberBS{Value: [][]byte{[]byte("x")}},
	}

	got := stream.ConvertImage(image)

	assert.Equal(t, "text", got["s"].String())
	assert.Equal(t, "42", got["n"].Number())
	assert.True(t, got["bool"].Boolean())
	assert.Equal(t, []byte("raw"), got["b"].Binary())
	assert.True(t, got["null"].IsNull())
	assert.Equal(t, []string{"a", "b"}, got["ss"].StringSet())
	assert.Equal(t, []string{"1", "2"}, got["ns"].NumberSet())
	assert.Equal(t, "x", got["m"].Map()["inner"].String())
	require.Len(t, got["l"].List(), 1)
	assert.Equal(t, "1", got["l"].List()[0].Number())

	_, ok := got["bs"]
	assert.False(t, ok)
}

func TestNewAuditedStore(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := store.DefaultConfig()
	cfg.Logger = logger
	s, h := stream.NewAuditedStore(cfg, logger)
	require.NotNil(t, s)
	require.NotNil(t, h)

	seed, err := store.DefaultSeed()
	require.NoError(t, err)
	require.NoError(t, s.Import(context.Background(), seed))

	_, err = s.DeleteUser(context.Background(), "1")
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "removal audited")
	assert.NotContains(t, logs.String(), "failed to publish")
}
