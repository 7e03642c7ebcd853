package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuskit/catalog-system/internal/core/domain"
	"github.com/campuskit/catalog-system/internal/core/ports"
)

// ItemService implements catalog management. Item updates replace the whole
// record; there are no partial semantics here.
type ItemService struct {
	repo  ports.ItemRepository
	audit ports.AuditSink
	log   zerolog.Logger
}

func NewItemService(repo ports.ItemRepository, audit ports.AuditSink, log zerolog.Logger) *ItemService {
	return &ItemService{repo: repo, audit: audit, log: log}
}

func (s *ItemService) List(ctx context.Context) ([]domain.Item, error) {
	return s.repo.FindAll(ctx)
}

func (s *ItemService) Get(ctx context.Context, id int64) (*domain.Item, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ItemService) Search(ctx context.Context, query string) ([]domain.Item, error) {
	return s.repo.Search(ctx, query)
}

func (s *ItemService) Create(ctx context.Context, actor domain.Principal, name, description string, price float64) (int64, error) {
	id, err := s.repo.Create(ctx, name, description, price)
	if err != nil {
		return 0, fmt.Errorf("create item: %w", err)
	}

	s.record(actor, id, domain.AuditCreate)
	s.log.Info().Int64("item_id", id).Str("actor", actor.Username).Msg("item created")
	return id, nil
}

func (s *ItemService) Update(ctx context.Context, actor domain.Principal, id int64, name, description string, price float64) error {
	found, err := s.repo.Update(ctx, id, name, description, price)
	if err != nil {
		return fmt.Errorf("update item %d: %w", id, err)
	}
	if !found {
		return domain.ErrItemNotFound
	}

	s.record(actor, id, domain.AuditUpdate)
	s.log.Info().Int64("item_id", id).Str("actor", actor.Username).Msg("item updated")
	return nil
}

// Delete is unconditional for any authorized role.
func (s *ItemService) Delete(ctx context.Context, actor domain.Principal, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	if !found {
		return domain.ErrItemNotFound
	}

	s.record(actor, id, domain.AuditDelete)
	s.log.Info().Int64("item_id", id).Str("actor", actor.Username).Msg("item deleted")
	return nil
}

func (s *ItemService) record(actor domain.Principal, id int64, action domain.AuditAction) {
	if s.audit == nil {
		return
	}
	s.audit.Record(domain.AuditEvent{
		Kind:      "item",
		RecordID:  id,
		Action:    action,
		ActorID:   actor.ID,
		Actor:     actor.Username,
		Timestamp: time.Now().UTC(),
	})
}
