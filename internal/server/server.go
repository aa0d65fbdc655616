package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/alfredjeanlab/tracker/internal/auth"
	"github.com/alfredjeanlab/tracker/internal/blob"
	"github.com/alfredjeanlab/tracker/internal/category"
	"github.com/alfredjeanlab/tracker/internal/events"
	"github.com/alfredjeanlab/tracker/internal/model"
	"github.com/alfredjeanlab/tracker/internal/store"
	"github.com/alfredjeanlab/tracker/internal/wiki"
)

// Options configures a TrackerServer. Zero values select the defaults:
// no-op publishing, store-backed authorization, inline attachment content
// and the default wiki formatter rooted at "/".
type Options struct {
	Publisher  events.Publisher
	Authorizer auth.Authorizer
	Blobs      blob.Store
	Formatter  *wiki.Formatter

	// AuthToken is the bearer token granting the service identity.
	AuthToken string
	// ServiceUser names the service identity.
	ServiceUser string
	// MaxCategoryDepth bounds category trees; zero means category.DefaultMaxDepth.
	MaxCategoryDepth int
}

// TrackerServer implements api.TrackerServiceServer and the HTTP API.
type TrackerServer struct {
	store     store.Store
	publisher events.Publisher
	authz     auth.Authorizer
	authn     *auth.Authenticator
	blobs     blob.Store
	formatter *wiki.Formatter
	tree      category.Builder
	sseHub    *sseHub

	droppedTokens atomic.Int64
}

// NewTrackerServer returns a TrackerServer backed by the given store.
func NewTrackerServer(s store.Store, opts Options) *TrackerServer {
	ts := &TrackerServer{
		store:     s,
		publisher: opts.Publisher,
		authz:     opts.Authorizer,
		authn:     auth.NewAuthenticator(s, opts.AuthToken, opts.ServiceUser),
		blobs:     opts.Blobs,
		formatter: opts.Formatter,
		tree:      category.Builder{MaxDepth: opts.MaxCategoryDepth},
		sseHub:    newSSEHub(),
	}
	if ts.publisher == nil {
		ts.publisher = &events.NoopPublisher{}
	}
	if ts.authz == nil {
		ts.authz = auth.NewStoreAuthorizer(s)
	}
	if ts.formatter == nil {
		ts.formatter = wiki.DefaultFormatter("/")
	}
	return ts
}

// Authenticator resolves request credentials to an identity.
func (s *TrackerServer) Authenticator() *auth.Authenticator {
	return s.authn
}

// recordAndPublish persists an event to the store, publishes it to NATS and
// fans it out to SSE clients. All three are best-effort; failures are logged
// but do not fail the caller.
func (s *TrackerServer) recordAndPublish(ctx context.Context, topic, entityID string, who auth.Identity, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Warn("failed to marshal event", "topic", topic, "entity_id", entityID, "error", err)
		return
	}
	if err := s.store.RecordEvent(ctx, &model.Event{
		Topic:    topic,
		EntityID: entityID,
		Actor:    who.Username,
		Payload:  payload,
	}); err != nil {
		slog.Warn("failed to record event", "topic", topic, "entity_id", entityID, "error", err)
	}
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		slog.Warn("failed to publish event", "topic", topic, "entity_id", entityID, "error", err)
	}
	s.sseHub.broadcast(topic, payload)
}

// authorize checks who may perform action in projectID. An unknown project
// is reported as not found.
func (s *TrackerServer) authorize(ctx context.Context, who auth.Identity, projectID int64, action auth.Action) error {
	err := s.authz.Authorize(ctx, who, projectID, action)
	if err != nil {
		return storeError(err, fmt.Sprintf("project %d", projectID))
	}
	return nil
}

func categoryEntity(id int64) string { return fmt.Sprintf("category:%d", id) }

func issueEntity(id int64) string { return fmt.Sprintf("issue:%d", id) }
