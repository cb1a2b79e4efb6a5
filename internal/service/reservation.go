package service

import (
	"context"

	"listabot/internal/domain"
	"listabot/internal/models"

	"github.com/rs/zerolog"
)

// ReservationService implements the claim protocol over the roster.
// A claim takes a batch of pending rows, tags each Estado cell with
// "En contacto - <owner>" in one bulk write, and remembers the batch in
// the owner's session. Rows resolved while claimed keep their final
// status; a release reverts only what is still tagged.
//
// There is no cross-process locking. Two users claiming concurrently
// are serialized by the single update loop of the bot; a second bot
// instance on the same roster is not supported.
type ReservationService struct {
	contacts domain.ContactRepository
	states   domain.StateRepository
	logger   *zerolog.Logger
}

func NewReservationService(contacts domain.ContactRepository, states domain.StateRepository, logger *zerolog.Logger) *ReservationService {
	return &ReservationService{
		contacts: contacts,
		states:   states,
		logger:   logger,
	}
}

func (s *ReservationService) userState(ctx context.Context, userID int64) (*models.UserState, error) {
	state, err := s.states.GetState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		state = models.NewUserState(userID)
	}
	return state, nil
}

// Preview shows up to limit pending rows without claiming them, and
// pins them in the session so the following Claim takes the same rows
// when they are still pending.
func (s *ReservationService) Preview(ctx context.Context, userID int64, limit int) ([]models.Contact, error) {
	contacts, err := s.contacts.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var (
		rows    []models.Contact
		indices []int
		keys    []models.RowKey
	)
	for i, c := range contacts {
		if len(rows) >= limit {
			break
		}
		if c.Status == models.StatusPending {
			rows = append(rows, c)
			indices = append(indices, i)
			keys = append(keys, c.Key())
		}
	}
	if len(rows) == 0 {
		return nil, nil
	}

	state, err := s.userState(ctx, userID)
	if err != nil {
		return nil, err
	}
	state.CurrentStep = models.StepPreview
	state.Preview = &models.Preview{Keys: keys, Indices: indices, Limit: limit}
	if err := s.states.SetState(ctx, state); err != nil {
		return nil, err
	}
	return rows, nil
}

// Claim reserves up to limit pending rows for the owner label. Rows the
// user previewed are bound first, re-validated against a fresh snapshot;
// whatever was resolved by others in the meantime is replaced from the
// front of the pending order. All tags land in one bulk overwrite.
func (s *ReservationService) Claim(ctx context.Context, userID int64, owner string, limit int) ([]models.Contact, error) {
	state, err := s.userState(ctx, userID)
	if err != nil {
		return nil, err
	}

	contacts, err := s.contacts.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	// nothing pending is not an error, and must not write the store
	chosen := s.chooseRows(contacts, state.Preview, limit)
	if len(chosen) == 0 {
		return nil, nil
	}

	tag := models.InContact(owner)
	claimed := make([]models.Contact, 0, len(chosen))
	for _, i := range chosen {
		contacts[i].Status = tag
		contacts[i].Note = ""
		claimed = append(claimed, contacts[i])
	}

	if err := s.contacts.Overwrite(ctx, contacts); err != nil {
		return nil, err
	}

	state.CurrentStep = models.StepEditing
	state.Preview = nil
	state.Reservation = &models.Reservation{Owner: owner, Rows: claimed, Indices: chosen}
	if err := s.states.SetState(ctx, state); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("claim written but session save failed")
	}

	s.logger.Info().Int64("user_id", userID).Str("owner", owner).Int("rows", len(claimed)).Msg("rows claimed")
	return claimed, nil
}

// chooseRows picks the claim batch: previewed indices still pending
// first, then previewed keys, then the front of the pending order.
func (s *ReservationService) chooseRows(contacts []models.Contact, preview *models.Preview, limit int) []int {
	seen := make(map[int]bool)
	var chosen []int

	take := func(i int) {
		if len(chosen) < limit && !seen[i] {
			seen[i] = true
			chosen = append(chosen, i)
		}
	}

	if preview != nil {
		for _, i := range preview.Indices {
			if i >= 0 && i < len(contacts) && contacts[i].Status == models.StatusPending {
				take(i)
			}
		}
		if len(chosen) == 0 {
			for _, k := range preview.Keys {
				for i, c := range contacts {
					if c.Status == models.StatusPending && k.Matches(c) {
						take(i)
						break
					}
				}
			}
		}
	}

	for i, c := range contacts {
		if len(chosen) >= limit {
			break
		}
		if c.Status == models.StatusPending {
			take(i)
		}
	}
	return chosen
}

// ActiveRows returns the still-claimed rows of the user's reservation as
// stored right now. Rows resolved to a final status since the claim are
// dropped silently.
func (s *ReservationService) ActiveRows(ctx context.Context, userID int64) ([]models.Contact, error) {
	state, err := s.userState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !state.Reservation.Active() {
		return nil, nil
	}

	contacts, err := s.contacts.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	active, adopted := resolveActive(contacts, state.Reservation)
	if adopted != "" && state.Reservation.Owner == "" {
		state.Reservation.Owner = adopted
		if err := s.states.SetState(ctx, state); err != nil {
			s.logger.Warn().Err(err).Int64("user_id", userID).Msg("failed to persist adopted owner")
		}
	}

	rows := make([]models.Contact, 0, len(active))
	for _, i := range active {
		rows = append(rows, contacts[i])
	}
	return rows, nil
}

// Release reverts the unresolved claimed rows to Pendiente, clears their
// notes, and drops the reservation from the session. Resolved rows keep
// the status the user gave them. Bookkeeping is cleared even when the
// write fails so a broken reservation cannot wedge the session.
func (s *ReservationService) Release(ctx context.Context, userID int64) (int, error) {
	state, err := s.userState(ctx, userID)
	if err != nil {
		return 0, err
	}
	if !state.Reservation.Active() {
		return 0, domain.ErrNothingReserved
	}

	contacts, readErr := s.contacts.ReadAll(ctx)
	released := 0
	var writeErr error
	if readErr == nil {
		active, _ := resolveActive(contacts, state.Reservation)
		for _, i := range active {
			contacts[i].Status = models.StatusPending
			contacts[i].Note = ""
			released++
		}
		if released > 0 {
			writeErr = s.contacts.Overwrite(ctx, contacts)
		}
	}

	state.Reservation = nil
	state.ClearFlow()
	if err := s.states.SetState(ctx, state); err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to clear reservation from session")
	}

	if readErr != nil {
		return 0, readErr
	}
	if writeErr != nil {
		return 0, writeErr
	}
	s.logger.Info().Int64("user_id", userID).Int("rows", released).Msg("reservation released")
	return released, nil
}

// resolveActive locates the reservation's rows in a fresh snapshot by
// stored index first and by business key as fallback, keeping only rows
// still tagged for the owner. When the session lost its owner label the
// tag of an index-resolved row supplies it.
func resolveActive(contacts []models.Contact, res *models.Reservation) (indices []int, adoptedOwner string) {
	owner := res.Owner

	for _, i := range res.Indices {
		if i < 0 || i >= len(contacts) {
			continue
		}
		st := contacts[i].Status
		if !models.IsInContact(st) {
			continue
		}
		tagOwner := models.InContactOwner(st)
		if owner == "" {
			owner = tagOwner
			adoptedOwner = tagOwner
		}
		if tagOwner == owner {
			indices = append(indices, i)
		}
	}

	if len(indices) == 0 && owner != "" {
		tag := models.InContact(owner)
		seen := make(map[int]bool)
		for _, r := range res.Rows {
			key := r.Key()
			for i, c := range contacts {
				if !seen[i] && c.Status == tag && key.Matches(c) {
					seen[i] = true
					indices = append(indices, i)
					break
				}
			}
		}
	}
	return indices, adoptedOwner
}
