package service

import (
	"context"
	"time"

	"listabot/internal/domain"
	"listabot/internal/models"

	"github.com/rs/zerolog"
)

// StateService fronts the session store for the bot handlers.
type StateService struct {
	stateRepo domain.StateRepository
	logger    *zerolog.Logger
}

func NewStateService(stateRepo domain.StateRepository, logger *zerolog.Logger) *StateService {
	return &StateService{
		stateRepo: stateRepo,
		logger:    logger,
	}
}

// GetUserState always returns a usable state, an empty one for users the
// store does not know yet.
func (s *StateService) GetUserState(ctx context.Context, userID int64) (*models.UserState, error) {
	state, err := s.stateRepo.GetState(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to get user state")
		return nil, err
	}
	if state == nil {
		state = models.NewUserState(userID)
	}
	return state, nil
}

func (s *StateService) SetUserState(ctx context.Context, state *models.UserState) error {
	state.UpdatedAt = time.Now()
	return s.stateRepo.SetState(ctx, state)
}

func (s *StateService) ClearUserState(ctx context.Context, userID int64) error {
	return s.stateRepo.ClearState(ctx, userID)
}

func (s *StateService) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return s.stateRepo.CheckRateLimit(ctx, userID, limit, window)
}
