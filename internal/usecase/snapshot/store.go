package snapshot

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	snapshotv1 "github.com/muhammadchandra19/venue-ledger/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/venue-ledger/pkg/errors"
	"github.com/muhammadchandra19/venue-ledger/pkg/logger"
	"github.com/muhammadchandra19/venue-ledger/pkg/redis"
)

const (
	snapshotKeyPrefix = "snapshot:"
	venuesKey         = "snapshot-venues"
)

// Store persists ledger snapshots in Redis, one key per venue plus a hash
// indexing the venues that have one.
type Store struct {
	logger      *logger.Logger
	redisclient redis.Client
}

var _ snapshotv1.Store = (*Store)(nil)

// NewSnapshotStore creates a snapshot store on top of redisclient.
func NewSnapshotStore(redisclient redis.Client, logger *logger.Logger) *Store {
	return &Store{
		redisclient: redisclient,
		logger:      logger,
	}
}

// Store writes the snapshot of one venue, replacing the previous one.
func (s *Store) Store(ctx context.Context, snapshot *snapshotv1.Snapshot) error {
	if snapshot == nil {
		return errors.NewTracer("snapshot cannot be nil")
	}
	venueField := logger.NewField("venue", snapshot.Venue)

	buf, err := json.Marshal(snapshot)
	if err != nil {
		s.logger.ErrorContext(ctx, err, venueField)
		return errors.NewTracer("snapshot_marshal_error").Wrap(err)
	}

	if err := s.redisclient.Set(ctx, snapshotKeyPrefix+snapshot.Venue, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err, venueField, logger.NewField("action", "store snapshot"))
		return errors.NewTracer("snapshot_store_error").Wrap(err)
	}
	if _, err := s.redisclient.HSet(ctx, venuesKey, map[string]any{
		snapshot.Venue: snapshot.TakenAt.UTC().Format(time.RFC3339),
	}); err != nil {
		s.logger.ErrorContext(ctx, err, venueField, logger.NewField("action", "index snapshot"))
		return errors.NewTracer("snapshot_index_error").Wrap(err)
	}

	s.logger.DebugContext(ctx, "snapshot stored", venueField, logger.NewField("orders", len(snapshot.Orders)))
	return nil
}

// Load reads the snapshot of venue. It returns nil without error when the
// venue has none.
func (s *Store) Load(ctx context.Context, venue string) (*snapshotv1.Snapshot, error) {
	venueField := logger.NewField("venue", venue)

	data, err := s.redisclient.Get(ctx, snapshotKeyPrefix+venue)
	if err != nil {
		s.logger.ErrorContext(ctx, err, venueField, logger.NewField("action", "load snapshot"))
		return nil, errors.NewTracer("snapshot_load_error").Wrap(err)
	}
	if data == "" {
		s.logger.WarnContext(ctx, "no snapshot found", venueField)
		return nil, nil
	}

	var snapshot snapshotv1.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		s.logger.ErrorContext(ctx, err, venueField, logger.NewField("action", "unmarshal snapshot"))
		return nil, errors.NewTracer("snapshot_unmarshal_error").Wrap(err)
	}
	return &snapshot, nil
}

// Venues lists the venues with a stored snapshot.
func (s *Store) Venues(ctx context.Context) ([]string, error) {
	fields, err := s.redisclient.HGetAll(ctx, venuesKey)
	if err != nil {
		s.logger.ErrorContext(ctx, err, logger.NewField("action", "list snapshots"))
		return nil, errors.NewTracer("snapshot_list_error").Wrap(err)
	}
	venues := make([]string, 0, len(fields))
	for venue := range fields {
		venues = append(venues, venue)
	}
	sort.Strings(venues)
	return venues, nil
}
