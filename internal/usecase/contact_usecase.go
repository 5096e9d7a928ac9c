package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ContactUsecase struct {
	contactRepo repo.ContactMessageRepository
}

// DI
func NewContactUsecase(contactRepo repo.ContactMessageRepository) *ContactUsecase {
	return &ContactUsecase{contactRepo: contactRepo}
}

type SubmitContactInput struct {
	Name    string
	Email   string
	Message string
}

// SubmitMessage はお問い合わせを保存する。
func (u *ContactUsecase) SubmitMessage(ctx context.Context, in SubmitContactInput) (model.ContactMessage, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return model.ContactMessage{}, NewHTTPError(http.StatusBadRequest, "invalid name")
	}

	email := strings.TrimSpace(in.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return model.ContactMessage{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}

	message := strings.TrimSpace(in.Message)
	if message == "" {
		return model.ContactMessage{}, NewHTTPError(http.StatusBadRequest, "invalid message")
	}

	m, err := u.contactRepo.Create(ctx, model.ContactMessage{
		Name:    name,
		Email:   email,
		Message: message,
	})
	if err != nil {
		return model.ContactMessage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return m, nil
}
