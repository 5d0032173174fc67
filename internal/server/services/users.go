package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophreach/internal/common"
	"github.com/dmitrijs2005/gophreach/internal/logging"
	"github.com/dmitrijs2005/gophreach/internal/server/auth"
	"github.com/dmitrijs2005/gophreach/internal/server/config"
	"github.com/dmitrijs2005/gophreach/internal/server/models"
	"github.com/dmitrijs2005/gophreach/internal/server/repositories/repomanager"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult carries the session token and the identity it encodes.
type LoginResult struct {
	AccessToken string          `json:"access_token"`
	Identity    models.Identity `json:"identity"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// UserService provides authentication and user administration:
//   - Login: verify a password and mint a session token
//   - CreateUser / ListUsers: administrator-only user management
//   - Me: echo the session identity
type UserService struct {
	clock
	repomanager                 repomanager.RepositoryManager
	ledger                      *LedgerService
	logger                      logging.Logger
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	bcryptCost                  int
}

func NewUserService(m repomanager.RepositoryManager, ledger *LedgerService, cfg *config.Config, logger logging.Logger) *UserService {
	return &UserService{
		clock:                       defaultClock(),
		repomanager:                 m,
		ledger:                      ledger,
		logger:                      logger,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		bcryptCost:                  bcrypt.DefaultCost,
	}
}

// Login verifies the password of the user registered under email. Unknown
// users and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, common.Validationf("email and password are required")
	}

	snap, err := s.repomanager.Users().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	u, addr, ok := snap.ByEmail(email)
	if !ok {
		return nil, common.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrUnauthorized
	}
	if !u.Active {
		return nil, common.Forbiddenf("user %s is inactive", u.Email)
	}

	identity := models.Identity{UserID: u.ID, DisplayName: u.Name, Email: u.Email, Role: u.Role}
	token, err := auth.GenerateToken(identity, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	now := s.now()
	if err := s.repomanager.Users().TouchLogin(ctx, addr, now); err != nil {
		s.logger.Warn(ctx, "last login update failed", "user_id", u.ID, "error", err)
	}
	s.ledger.recordQuietly(ctx, models.Activity{
		Timestamp:   now,
		ActorUserID: u.ID,
		Kind:        models.KindLogin,
		Detail:      "Inicio de sesión",
	})

	return &LoginResult{AccessToken: token, Identity: identity}, nil
}

// CreateUser adds an active user. Emails are unique ignoring case.
func (s *UserService) CreateUser(ctx context.Context, id *models.Identity, req CreateUserRequest) (*models.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, common.Validationf("name, email and password are required")
	}
	role := models.RoleCollaborator
	if req.Role != "" {
		var err error
		if role, err = models.ParseRole(req.Role); err != nil {
			return nil, err
		}
	}

	snap, err := s.repomanager.Users().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if _, _, exists := snap.ByEmail(req.Email); exists {
		return nil, fmt.Errorf("%w: user %s", common.ErrConflict, req.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, common.Validationf("password is too long")
		}
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u := models.User{
		ID:           s.newID(),
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: string(hash),
		Active:       true,
		CreatedAt:    s.now(),
	}
	if err := s.repomanager.Users().Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user created", "user_id", u.ID, "role", u.Role, "by", id.UserID)
	u.PasswordHash = ""
	return &u, nil
}

// ListUsers returns every user without password hashes.
func (s *UserService) ListUsers(ctx context.Context, id *models.Identity) ([]models.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	snap, err := s.repomanager.Users().Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	all := snap.All()
	out := make([]models.User, len(all))
	for i, u := range all {
		u.PasswordHash = ""
		out[i] = u
	}
	return out, nil
}

func (s *UserService) Me(_ context.Context, id *models.Identity) (*models.Identity, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	me := *id
	return &me, nil
}
