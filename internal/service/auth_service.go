package service

import (
	"context"
	"errors"

	"github.com/timetracking-api/internal/domain"
	"github.com/timetracking-api/internal/dto"
	"github.com/timetracking-api/internal/repository"
	"github.com/timetracking-api/pkg/token"
	"golang.org/x/crypto/bcrypt"
)

// AuthService определяет интерфейс аутентификации
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	personRepo repository.PersonRepository
	tokens     *token.Manager
}

// NewAuthService создаёт новый экземпляр сервиса
func NewAuthService(personRepo repository.PersonRepository, tokens *token.Manager) AuthService {
	return &authService{
		personRepo: personRepo,
		tokens:     tokens,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	person, err := s.personRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrPersonNotFound) {
			// Не раскрываем, существует ли учётная запись
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(person.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !person.Active {
		return nil, domain.ErrPersonInactive
	}

	signed, expiresIn, err := s.tokens.Generate(person)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		Token:     signed,
		ExpiresIn: expiresIn,
	}, nil
}
