package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/assessment-paper-service/internal/models"
	"github.com/SAP-F-2025/assessment-paper-service/internal/repositories"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the shared password of every demo account.
const DemoPassword = "password"

type demoProfile struct {
	Position string
	FullName string
}

var demoProfiles = map[string]demoProfile{
	"creator":  {Position: "Lecturer", FullName: "Demo Creator"},
	"reviewer": {Position: "Coordinator", FullName: "Demo Reviewer"},
	"endorser": {Position: "Head of Programme", FullName: "Dr. Academic Endorser"},
	"admin":    {Position: "IT Unit Administrator", FullName: "System Administrator"},
}

// DemoUsernames in seeding order.
var DemoUsernames = []string{"creator", "reviewer", "endorser", "admin"}

type demoAccountService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewDemoAccountService(repo repositories.Repository, logger *slog.Logger) DemoAccountService {
	return &demoAccountService{repo: repo, logger: logger}
}

func (s *demoAccountService) IsDemoUsername(username string) bool {
	_, ok := demoProfiles[username]
	return ok
}

// Provision is safe to race: the account and profile inserts are
// conflict-tolerant and both are re-read afterwards.
func (s *demoAccountService) Provision(ctx context.Context, username string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	var user *models.User
	err = s.repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		created, err := tx.User().CreateIfAbsent(ctx, nil, &models.User{
			Username:     username,
			PasswordHash: string(hash),
		})
		if err != nil {
			return err
		}
		if created {
			s.logger.Info("Provisioned demo account", "username", username)
		}

		user, err = tx.User().GetByUsername(ctx, nil, username)
		if err != nil {
			return err
		}

		details := demoProfileFor(username)
		role := models.UserRole(username)
		if !role.IsValid() {
			role = models.RoleCreator
		}
		profile, err := tx.User().EnsureProfile(ctx, nil, &models.Profile{
			UserID:   user.ID,
			Role:     role,
			FullName: details.FullName,
			Position: details.Position,
		})
		if err != nil {
			return err
		}
		user.Profile = profile
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to provision demo account %s: %w", username, err)
	}
	return user, nil
}

func (s *demoAccountService) SeedAll(ctx context.Context) ([]*models.User, error) {
	users := make([]*models.User, 0, len(DemoUsernames))
	for _, username := range DemoUsernames {
		user, err := s.Provision(ctx, username)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// demoProfileFor falls back to a generic academic profile for unknown names.
func demoProfileFor(username string) demoProfile {
	if p, ok := demoProfiles[username]; ok {
		return p
	}
	title := username
	if title != "" {
		title = strings.ToUpper(title[:1]) + title[1:]
	}
	return demoProfile{Position: "Academic Staff", FullName: "Demo " + title}
}
