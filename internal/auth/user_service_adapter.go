package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecipientAdapter resolves mail recipients for booking notifications
// through the auth repository, keeping notifications free of a users import.
type RecipientAdapter struct {
	repo Repository
}

func NewRecipientAdapter(repo Repository) *RecipientAdapter {
	return &RecipientAdapter{
		repo: repo,
	}
}

// GetRecipient returns the email and display name of a user
func (a *RecipientAdapter) GetRecipient(ctx context.Context, userID uuid.UUID) (email, name string, err error) {
	user, err := a.repo.FindByID(ctx, userID.String())
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}

	return user.Email, user.Name, nil
}
