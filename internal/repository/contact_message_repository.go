package repository

import (
	"app/internal/domain/model"
	"context"
)

type ContactMessageRepository interface {
	Create(ctx context.Context, m model.ContactMessage) (model.ContactMessage, error)
}
