package store

import (
	"context"

	"egazette/internal/utils"
	"egazette/pkg/types"
)

// Profiles holds user profiles and their auth state. Both collections are
// keyed by userId; at most one record per user.
type Profiles struct {
	store *Store
}

func NewProfiles(s *Store) *Profiles {
	return &Profiles{store: s}
}

// SaveAuthState replaces any existing auth state for the user. Logging in
// again refreshes the token rather than stacking sessions.
func (p *Profiles) SaveAuthState(ctx context.Context, state *types.AuthState) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	state.ID = utils.NanoID()
	state.UpdatedAt = p.store.now().UTC()
	if state.LoggedInAt.IsZero() {
		state.LoggedInAt = state.UpdatedAt
	}

	states, err := collectionLocked[types.AuthState](ctx, p.store, KeyAuthState)
	if err != nil {
		return err
	}

	kept := make([]types.AuthState, 0, len(states)+1)
	for _, existing := range states {
		if existing.UserID != state.UserID {
			kept = append(kept, existing)
		}
	}
	kept = append(kept, *state)

	return saveCollectionLocked(ctx, p.store, KeyAuthState, kept)
}

func (p *Profiles) AuthStateByUser(ctx context.Context, userID string) (*types.AuthState, error) {
	states, err := FilterByUserID[types.AuthState](ctx, p.store, KeyAuthState, userID)
	if err != nil {
		return nil, err
	}
	if len(states) == 0 {
		return nil, types.ErrProfileNotFound
	}
	return &states[0], nil
}

// ClearAuthState drops the user's session record on logout.
func (p *Profiles) ClearAuthState(ctx context.Context, userID string) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	states, err := collectionLocked[types.AuthState](ctx, p.store, KeyAuthState)
	if err != nil {
		return err
	}

	kept := make([]types.AuthState, 0, len(states))
	for _, state := range states {
		if state.UserID != userID {
			kept = append(kept, state)
		}
	}

	return saveCollectionLocked(ctx, p.store, KeyAuthState, kept)
}

// SaveProfile upserts the user's profile by userId.
func (p *Profiles) SaveProfile(ctx context.Context, profile *types.UserProfile) error {
	p.store.mu.Lock()
	defer p.store.mu.Unlock()

	profile.UpdatedAt = p.store.now().UTC()

	profiles, err := collectionLocked[types.UserProfile](ctx, p.store, KeyUserProfile)
	if err != nil {
		return err
	}

	replaced := false
	for i := range profiles {
		if profiles[i].UserID == profile.UserID {
			profile.ID = profiles[i].ID
			profiles[i] = *profile
			replaced = true
			break
		}
	}
	if !replaced {
		profile.ID = utils.NanoID()
		profiles = append(profiles, *profile)
	}

	return saveCollectionLocked(ctx, p.store, KeyUserProfile, profiles)
}

func (p *Profiles) ProfileByUser(ctx context.Context, userID string) (*types.UserProfile, error) {
	profiles, err := FilterByUserID[types.UserProfile](ctx, p.store, KeyUserProfile, userID)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, types.ErrProfileNotFound
	}
	return &profiles[0], nil
}
