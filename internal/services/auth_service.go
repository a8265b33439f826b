package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"github.com/SAP-F-2025/assessment-paper-service/internal/validator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const tokenKeyLength = 40

type authService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
	demo      DemoAccountService
	// demoEnabled turns on the demo login bootstrap.
	demoEnabled bool
}

func NewAuthService(repo repositories.Repository, logger *slog.Logger, v *validator.BusinessValidator, demo DemoAccountService, demoEnabled bool) AuthService {
	return &authService{
		repo:        repo,
		logger:      logger,
		validator:   v,
		demo:        demo,
		demoEnabled: demoEnabled,
	}
}

// Login checks stored credentials first. A demo username with the demo
// password is then accepted when the bootstrap is enabled, creating the
// account on first use and reusing an existing one as is.
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	user, err := s.repo.User().GetByUsername(ctx, nil, req.Username)
	if err != nil && !repositories.IsNotFoundError(err) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		if !s.demoEnabled || !s.demo.IsDemoUsername(req.Username) || req.Password != DemoPassword {
			s.logger.Info("Login rejected", "username", req.Username)
			return nil, ErrInvalidCredentials
		}
		user, err = s.demo.Provision(ctx, req.Username)
		if err != nil {
			return nil, err
		}
	}

	resp, err := s.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User logged in", "user_id", user.ID, "role", resp.User.Role)
	return resp, nil
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*LoginResponse, error) {
	if errs := s.validator.ValidateRegister(req); len(errs) > 0 {
		return nil, errs
	}

	exists, err := s.repo.User().ExistsByUsername(ctx, nil, req.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, duplicateUsername(req.Username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		fullName = req.Username
	}
	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Profile: &models.Profile{
			Role:     RoleForPosition(req.Position),
			FullName: fullName,
			Position: req.Position,
			DeptID:   req.DeptID,
		},
	}
	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		if repositories.IsDuplicateKeyError(err) {
			return nil, duplicateUsername(req.Username)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.logger.Info("User registered", "user_id", user.ID, "role", user.Profile.Role)
	return s.issue(ctx, user)
}

func (s *authService) CurrentUser(ctx context.Context, userID uint) (*UserSummary, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	summary := summarize(user)
	return &summary, nil
}

func (s *authService) ResolveToken(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, ErrInvalidToken
	}
	user, err := s.repo.Token().GetUserByKey(ctx, nil, key)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to resolve token: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user, its profile and token, and detaches the
// papers it created.
func (s *authService) DeleteAccount(ctx context.Context, userID uint) error {
	err := s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if err := tx.Paper().ClearCreator(ctx, nil, userID); err != nil {
			return err
		}
		return tx.User().Delete(ctx, nil, userID)
	})
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete account: %w", err)
	}
	s.logger.Info("Account deleted", "user_id", userID)
	return nil
}

// ===== HELPERS =====

// issue returns the user's token, creating it and a default profile when missing.
func (s *authService) issue(ctx context.Context, user *models.User) (*LoginResponse, error) {
	token, err := s.repo.Token().GetOrCreate(ctx, nil, user.ID, newTokenKey())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	if user.Profile == nil {
		profile, err := s.repo.User().EnsureProfile(ctx, nil, &models.Profile{
			UserID:   user.ID,
			Role:     models.RoleCreator,
			FullName: user.Username,
			Position: "Lecturer",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to ensure profile: %w", err)
		}
		user.Profile = profile
	}

	return &LoginResponse{Token: token.Key, User: summarize(user)}, nil
}

// RoleForPosition maps a self-declared position to a workflow role.
func RoleForPosition(position string) models.UserRole {
	switch strings.ToLower(strings.TrimSpace(position)) {
	case "coordinator":
		return models.RoleReviewer
	case "head of programme", "head of department":
		return models.RoleEndorser
	}
	return models.RoleCreator
}

func summarize(user *models.User) UserSummary {
	summary := UserSummary{ID: user.ID, Username: user.Username, Role: models.RoleCreator}
	if p := user.Profile; p != nil {
		summary.Role = p.Role
		summary.FullName = p.FullName
		summary.Position = p.Position
		summary.DeptID = p.DeptID
	}
	return summary
}

func duplicateUsername(username string) ValidationErrors {
	return validator.Field("username", "a user with that username already exists", username, "unique")
}

// newTokenKey returns 40 hex characters.
func newTokenKey() string {
	raw := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	return raw[:tokenKeyLength]
}
