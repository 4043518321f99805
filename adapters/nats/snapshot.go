package nats

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/codewandler/bhvr-go/core/snapshot"
)

const opTimeout = 5 * time.Second

type SnapshotStoreConfig struct {
	Connect Connector
	Bucket  string
}

// SnapshotStore persists behavior snapshots in a JetStream KV bucket.
type SnapshotStore struct {
	kv jetstream.KeyValue
}

func NewSnapshotStore(cfg SnapshotStoreConfig) (*SnapshotStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("bucket is required")
	}

	doConnect := cfg.Connect
	if doConnect == nil {
		doConnect = ConnectDefault()
	}

	nc, _, err := doConnect()
	if err != nil {
		return nil, err
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, err
	}

	kv, err := js.CreateOrUpdateKeyValue(context.Background(), jetstream.KeyValueConfig{
		Bucket:   cfg.Bucket,
		Storage:  jetstream.FileStorage,
		MaxBytes: 1024 * 1024,
	})
	if err != nil {
		return nil, err
	}

	return &SnapshotStore{kv: kv}, nil
}

func (s *SnapshotStore) Save(ctx context.Context, key string, snap snapshot.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	_, err = s.kv.Put(ctx, key, data)
	return err
}

func (s *SnapshotStore) Load(ctx context.Context, key string) (snapshot.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return snapshot.Snapshot{}, snapshot.ErrNotFound
		}
		return snapshot.Snapshot{}, err
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal(entry.Value(), &snap); err != nil {
		return snapshot.Snapshot{}, err
	}
	return snap, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	err := s.kv.Delete(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) {
		return nil
	}
	return err
}

var _ snapshot.Store = (*SnapshotStore)(nil)
