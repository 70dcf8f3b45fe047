package services

import (
	"context"
	"log"
	"net/mail"
	"strings"

	"taskdesk/internal/apperrors"
	"taskdesk/internal/authz"
	"taskdesk/internal/models"
	"taskdesk/internal/repositories"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     models.Role
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, actor authz.Identity) ([]models.UserSummary, error)
}

type userService struct {
	repo         repositories.UserRepository
	authService  AuthService
	emailService EmailService
}

func NewUserService(repo repositories.UserRepository, authService AuthService, emailService EmailService) UserService {
	return &userService{
		repo:         repo,
		authService:  authService,
		emailService: emailService,
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)

	if len(name) < 2 {
		return nil, apperrors.Validation("name must be at least 2 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperrors.Validation("must be a valid email")
	}
	if len(in.Password) < 6 {
		return nil, apperrors.Validation("password must be at least 6 characters")
	}
	role := in.Role
	if role == "" {
		role = models.RoleTeam
	}
	if !models.IsValidRole(role) {
		return nil, apperrors.Validation("role must be either LEAD or TEAM")
	}

	hash, err := s.authService.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.emailService != nil {
		// best effort, never fails the registration
		if err := s.emailService.SendWelcomeEmail(user.Email, user.Name); err != nil {
			log.Printf("[user][register] warning: failed to send welcome email to %s: %v", user.Email, err)
		}
	}

	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, email)
}

// List returns all users ordered by name. LEAD callers get the full summary;
// TEAM callers get just enough to render names next to tasks and history.
func (s *userService) List(ctx context.Context, actor authz.Identity) ([]models.UserSummary, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if actor.IsLead() {
		return users, nil
	}
	for i := range users {
		users[i].Email = ""
	}
	return users, nil
}
