package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/academic-service/internal/auth"
	"github.com/SAP-F-2025/academic-service/internal/events"
	"github.com/SAP-F-2025/academic-service/internal/models"
	"github.com/SAP-F-2025/academic-service/internal/repositories"
	"github.com/SAP-F-2025/academic-service/internal/validator"
	"gorm.io/datatypes"
)

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	hasher    *auth.PasswordHasher
	tokens    *auth.TokenManager
	publisher events.EventPublisher
}

func NewAuthService(deps Dependencies) AuthService {
	return &authService{
		repo:      deps.Repo,
		logger:    deps.Logger,
		validator: deps.Validator,
		hasher:    deps.Hasher,
		tokens:    deps.Tokens,
		publisher: deps.Publisher,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	s.logger.Info("Registering user", "email", req.Email, "role", req.Role)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	// Unique-field pre-checks surface a precise Conflict; the unique
	// indexes remain the last word under concurrency.
	if exists, err := s.repo.User().ExistsByEmail(ctx, req.Email); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	} else if exists {
		return nil, ErrDuplicateEmail
	}
	if exists, err := s.repo.User().ExistsByUsername(ctx, req.Username); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	} else if exists {
		return nil, ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: password hashing failed: %v", ErrDependencyFailure, err)
	}

	user := &models.User{
		Name:         req.Name,
		Surname:      req.Surname,
		Username:     req.Username,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		PasswordHash: hash,
		CourseIDs:    datatypes.JSONSlice[uint]{},
		IsActive:     true,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Role)

	s.publishEvent(ctx, events.NewAcademicEvent(events.EventUserRegistered, user.ID, 0, map[string]interface{}{
		"role": string(user.Role),
	}))

	return buildUserResponse(ctx, s.repo, user)
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" {
		return nil, ValidationErrors{*NewValidationError("email", "email or username is required", nil)}
	}

	user, err := s.repo.User().GetByEmailOrUsername(ctx, identifier)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			// Same answer as a bad password; no account enumeration.
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}

	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Compare(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("%w: token issuing failed: %v", ErrDependencyFailure, err)
	}

	profile, err := buildUserResponse(ctx, s.repo, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in", "user_id", user.ID)

	return &LoginResponse{
		Token: token,
		User:  profile,
	}, nil
}

// publishEvent sends a domain event best-effort; a broker outage never
// fails the operation that already committed.
func (s *authService) publishEvent(ctx context.Context, event *events.AcademicEvent) {
	if err := s.publisher.PublishAcademicEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
