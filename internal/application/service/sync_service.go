package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	"github.com/gokmen-54/nalburos-web-deploy/internal/gate"
)

// SyncService drives the outbound sync event queue for finalized sales.
type SyncService struct {
	store  store.RecordStore
	gate   *gate.Gate
	logger *zap.Logger
}

// NewSyncService creates a new sync service
func NewSyncService(rs store.RecordStore, g *gate.Gate, logger *zap.Logger) *SyncService {
	return &SyncService{store: rs, gate: g, logger: logger}
}

// SyncResult reports how a batch sync went.
type SyncResult struct {
	Synced int `json:"synced"`
	Failed int `json:"failed"`
}

// SyncOfflineEvents marks the matching PENDING events SYNCED, bumping the
// attempt counter. Events already SYNCED count as successful and are left
// untouched, so replays of the same id list are harmless.
func (s *SyncService) SyncOfflineEvents(ctx context.Context, ids []uuid.UUID) (*SyncResult, error) {
	return gate.Run(ctx, s.gate, func(ctx context.Context) (*SyncResult, error) {
		events, err := store.Load[entity.SyncEvent](ctx, s.store, store.SyncEvents)
		if err != nil {
			return nil, err
		}

		wanted := make(map[uuid.UUID]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}

		result := &SyncResult{}
		for i := range events {
			event := &events[i]
			if !wanted[event.ID] {
				continue
			}
			if event.Status == enum.SyncEventStatusSynced {
				result.Synced++
				continue
			}
			event.Attempts++
			event.UpdatedAt = time.Now().UTC()
			if err := s.deliver(ctx, event); err != nil {
				event.Status = enum.SyncEventStatusFailed
				event.Error = err.Error()
				result.Failed++
				continue
			}
			event.Status = enum.SyncEventStatusSynced
			event.Error = ""
			result.Synced++
		}

		if err := store.Save(ctx, s.store, store.SyncEvents, events); err != nil {
			return nil, err
		}

		s.logger.Info("offline events synced",
			zap.Int("synced", result.Synced),
			zap.Int("failed", result.Failed))
		return result, nil
	})
}

// ListEvents returns sync events, newest first. Read-only; bypasses the
// gate.
func (s *SyncService) ListEvents(ctx context.Context) ([]entity.SyncEvent, error) {
	return store.Load[entity.SyncEvent](ctx, s.store, store.SyncEvents)
}

// deliver is the hook point for a real outbound transport. The reference
// behavior treats delivery as unconditionally successful.
func (s *SyncService) deliver(_ context.Context, _ *entity.SyncEvent) error {
	return nil
}
