package service

import (
	"context"

	"listabot/internal/domain"
	"listabot/internal/models"

	"github.com/rs/zerolog"
)

// ContactService wraps the roster repository for the bot handlers.
type ContactService struct {
	repo   domain.ContactRepository
	logger *zerolog.Logger
}

func NewContactService(repo domain.ContactRepository, logger *zerolog.Logger) *ContactService {
	return &ContactService{
		repo:   repo,
		logger: logger,
	}
}

func (s *ContactService) List(ctx context.Context) ([]models.Contact, error) {
	return s.repo.ReadAll(ctx)
}

func (s *ContactService) ByStatus(ctx context.Context, status string) ([]models.Contact, error) {
	return s.repo.FilterByStatus(ctx, status)
}

func (s *ContactService) Pending(ctx context.Context) ([]models.Contact, error) {
	return s.repo.FilterByStatus(ctx, models.StatusPending)
}

// SetStatus applies one status change, note included for "Contactar
// Luego".
func (s *ContactService) SetStatus(ctx context.Context, target models.Contact, status, note string) error {
	if err := s.repo.UpdateStatus(ctx, target, status, note); err != nil {
		s.logger.Error().Err(err).Str("phone", target.Phone).Str("status", status).Msg("status update failed")
		return err
	}
	s.logger.Info().Str("phone", target.Phone).Str("status", status).Msg("status updated")
	return nil
}

func (s *ContactService) Add(ctx context.Context, c models.Contact) (domain.UpsertResult, error) {
	res, err := s.repo.Upsert(ctx, c)
	if err != nil {
		s.logger.Error().Err(err).Str("phone", c.Phone).Msg("upsert failed")
		return res, err
	}
	return res, nil
}

// Summary counts rows per display status. Claim tags collapse into one
// "En contacto" bucket.
func (s *ContactService) Summary(ctx context.Context) (map[string]int, error) {
	contacts, err := s.repo.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, c := range contacts {
		st := c.Status
		if models.IsInContact(st) {
			st = "En contacto"
		}
		counts[st]++
	}
	return counts, nil
}
