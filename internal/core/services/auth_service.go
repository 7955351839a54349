package services

import (
	"context"
	"errors"
	"time"

	"familybank/internal/adapters/persistence/models"
	"familybank/internal/adapters/persistence/repositories"
	"familybank/internal/config"
	"familybank/internal/core/domain"
	"familybank/internal/pkg/jwt"
	"familybank/internal/pkg/password"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenRevoked     = errors.New("token revoked")
	ErrWeakPassword     = errors.New("password does not meet requirements")
	ErrOldPasswordWrong = errors.New("old password is incorrect")
)

// AuthService handles signup, login and token lifecycle
type AuthService struct {
	memberRepo       repositories.MemberRepository
	refreshTokenRepo repositories.RefreshTokenRepository
	cfg              *config.Config
	log              *logrus.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	memberRepo repositories.MemberRepository,
	refreshTokenRepo repositories.RefreshTokenRepository,
	cfg *config.Config,
	log *logrus.Logger,
) *AuthService {
	return &AuthService{
		memberRepo:       memberRepo,
		refreshTokenRepo: refreshTokenRepo,
		cfg:              cfg,
		log:              log,
	}
}

// SignupInput represents signup input
type SignupInput struct {
	Fullname string `json:"fullname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Member       *models.MemberResponse `json:"member"`
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
}

// Signup registers a new member. New accounts always start as an active
// regular member; roles are promoted by an admin afterward.
func (s *AuthService) Signup(ctx context.Context, input *SignupInput) (*models.MemberResponse, error) {
	if !password.Valid(input.Password) {
		return nil, ErrWeakPassword
	}

	exists, err := s.memberRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUsernameTaken
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		Username:  input.Username,
		Name:      input.Fullname,
		Email:     input.Email,
		Password:  hashedPassword,
		Role:      string(domain.RoleMember),
		Status:    string(domain.MemberActive),
		StartDate: time.Now(),
	}

	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, err
	}

	s.log.WithField("username", member.Username).Info("member signed up")
	return member.ToResponse(), nil
}

// Login authenticates a member and issues a token pair
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	member, err := s.memberRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if member.Status != string(domain.MemberActive) {
		return nil, domain.ErrMemberInactive
	}

	if !password.Verify(input.Password, member.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, member.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	s.log.WithField("username", member.Username).Info("member logged in")

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates the refresh token and issues a new pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	member, err := s.memberRepo.GetByID(ctx, claims.MemberID)
	if err != nil {
		return nil, domain.ErrMemberNotFound
	}

	if member.Status != string(domain.MemberActive) {
		return nil, domain.ErrMemberInactive
	}

	// Token rotation: the old refresh token dies here
	if err := s.refreshTokenRepo.Revoke(ctx, storedToken.ID); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(member)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, member.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Member:       member.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash)
}

// LogoutAll revokes all refresh tokens for a member
func (s *AuthService) LogoutAll(ctx context.Context, memberID uint) error {
	return s.refreshTokenRepo.RevokeAllByMemberID(ctx, memberID)
}

// ChangePasswordInput represents change password input
type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}

// ChangePassword updates a member's password after verifying the old one.
// All other sessions are revoked.
func (s *AuthService) ChangePassword(ctx context.Context, username string, input *ChangePasswordInput) error {
	if !password.Valid(input.NewPassword) {
		return ErrWeakPassword
	}

	member, err := s.memberRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMemberNotFound
		}
		return err
	}

	if !password.Verify(input.OldPassword, member.Password) {
		return ErrOldPasswordWrong
	}

	hashedPassword, err := password.Hash(input.NewPassword)
	if err != nil {
		return err
	}

	member.Password = hashedPassword
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return err
	}

	if err := s.refreshTokenRepo.RevokeAllByMemberID(ctx, member.ID); err != nil {
		return err
	}

	s.log.WithField("username", username).Info("password changed")
	return nil
}

// GetMemberByID gets a member by ID
func (s *AuthService) GetMemberByID(ctx context.Context, memberID uint) (*models.Member, error) {
	return s.memberRepo.GetByID(ctx, memberID)
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(member *models.Member) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		member.ID,
		member.Username,
		member.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	tokenID := uuid.New().String()

	refreshToken, err := jwt.GenerateRefreshToken(
		member.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// storeRefreshToken stores a refresh token in the database
func (s *AuthService) storeRefreshToken(ctx context.Context, memberID uint, refreshToken string) error {
	token := &models.RefreshToken{
		MemberID:  memberID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}

	return s.refreshTokenRepo.Create(ctx, token)
}
