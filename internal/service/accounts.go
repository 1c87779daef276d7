package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"tradehub-api/internal/model"
	"tradehub-api/internal/repository"
)

// ErrUnknownViewer means the profile lookup found no record for an
// already-authenticated steamid. Identity creation happens at login,
// so this is an integrity fault, not a user-facing not-found.
var ErrUnknownViewer = errors.New("no directory record for authenticated viewer")

// AccountService handles the viewer profile projection and the
// login-time identity upsert.
type AccountService struct {
	users repository.UserRepository
}

// NewAccountService creates the account service.
func NewAccountService(users repository.UserRepository) *AccountService {
	return &AccountService{users: users}
}

// Profile returns the viewer's own profile view.
func (s *AccountService) Profile(ctx context.Context, steamID string) (*model.Profile, error) {
	user, err := s.users.FindUser(ctx, steamID)
	if err != nil {
		return nil, fmt.Errorf("profile lookup failed: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownViewer, steamID)
	}

	return &model.Profile{
		Name:   user.Name,
		Avatar: user.Avatar,
		Credit: user.Credit,
	}, nil
}

// LoginUpsert records an externally-authenticated identity: first
// login creates the user with zero credit, later logins update name
// and avatar only when they drifted. Identical logins write nothing,
// and credit and trade URL are never touched here.
func (s *AccountService) LoginUpsert(ctx context.Context, steamID, name, avatar string) (*model.User, error) {
	user, err := s.users.FindUser(ctx, steamID)
	if err != nil {
		return nil, fmt.Errorf("login lookup failed: %w", err)
	}

	if user == nil {
		user = &model.User{
			SteamID: steamID,
			Name:    name,
			Avatar:  avatar,
			Credit:  0,
		}
		if err := s.users.InsertUser(ctx, *user); err != nil {
			return nil, fmt.Errorf("login insert failed: %w", err)
		}
		log.Printf("[AccountService] created directory record for %s", steamID)
		return user, nil
	}

	if user.Name != name || user.Avatar != avatar {
		if err := s.users.UpdateIdentity(ctx, steamID, name, avatar); err != nil {
			return nil, fmt.Errorf("login update failed: %w", err)
		}
		user.Name = name
		user.Avatar = avatar
	}

	return user, nil
}
