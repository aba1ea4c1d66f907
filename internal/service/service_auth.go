package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/speakai-app/speakai-server/internal/config"
	"github.com/speakai-app/speakai-server/internal/logger"
	"github.com/speakai-app/speakai-server/internal/store"
	"github.com/speakai-app/speakai-server/internal/utils"
	"github.com/speakai-app/speakai-server/internal/validators"
	"github.com/speakai-app/speakai-server/models"
)

// authService is the concrete implementation of AuthService. It hashes
// passwords with bcrypt and issues HMAC-SHA256 JWT tokens.
type authService struct {
	userRepository store.UserRepository

	// tokenSignKey is the HMAC secret used to sign and verify JWT tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued JWT.
	tokenIssuer string

	// tokenDuration controls how long a newly issued JWT remains valid.
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an AuthService wired to the given
// UserRepository and populated with token parameters from cfg.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		tokenSignKey:   cfg.TokenSignKey,
		tokenIssuer:    cfg.TokenIssuer,
		tokenDuration:  cfg.TokenDuration,
		logger:         logger,
	}
}

// Register creates a new account. The email is lowercased before storage
// so lookups are case-insensitive. Returns the persisted user with a
// signed token, or:
//   - a validators error wrapped in ErrInvalidDataProvided;
//   - store.ErrEmailAlreadyExists when the email is taken.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if err := validators.ValidateRegisterRequest(req); err != nil {
		return models.User{}, models.Token{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("password hashing failed")
		return models.User{}, models.Token{}, fmt.Errorf("password hashing failed: %w", err)
	}

	user := models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: passwordHash,
		Preferences:  models.DefaultPreferences(),
	}

	registered, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("email", user.Email).Msg("user creation ended with error")
		return models.User{}, models.Token{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, registered.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Int64("userID", registered.UserID).Msg("token generation failed")
		return models.User{}, models.Token{}, fmt.Errorf("token generation failed: %w", err)
	}

	return registered, token, nil
}

// Login authenticates existing credentials. Both an unknown email and a
// wrong password surface as ErrWrongPassword so responses do not leak
// which accounts exist.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	if err := validators.ValidateLoginRequest(req); err != nil {
		return models.User{}, models.Token{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	foundUser, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.User{}, models.Token{}, ErrWrongPassword
		}
		log.Err(err).Str("email", email).Msg("user search by email failed")
		return models.User{}, models.Token{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !utils.CheckPassword(foundUser.PasswordHash, req.Password) {
		log.Warn().Int64("userID", foundUser.UserID).Msg("wrong password")
		return models.User{}, models.Token{}, ErrWrongPassword
	}

	token, err := utils.GenerateJWTToken(a.tokenIssuer, foundUser.UserID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		log.Err(err).Int64("userID", foundUser.UserID).Msg("token generation failed")
		return models.User{}, models.Token{}, fmt.Errorf("token generation failed: %w", err)
	}

	return foundUser, token, nil
}

// ValidateToken verifies a compact JWT string against the configured sign
// key and issuer.
func (a *authService) ValidateToken(tokenString string) (models.Token, error) {
	return utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
}

// GetUser loads the account behind an authenticated user id.
func (a *authService) GetUser(ctx context.Context, userID int64) (models.User, error) {
	return a.userRepository.FindUserByID(ctx, userID)
}
