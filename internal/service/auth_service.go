package service

import (
	"context"
	"fmt"
	"strings"

	"baldguard/internal/auth"
	"baldguard/internal/model"
	"baldguard/internal/repository"
)

// GoogleVerifier resolves Google credentials into identity claims.
type GoogleVerifier interface {
	Verify(ctx context.Context, accessToken, idToken string) (*auth.GoogleClaims, error)
}

// AuthResult is what a successful login produces.
type AuthResult struct {
	AccessToken string
	ExpiresIn   int
	User        *model.User
	IsNewUser   bool
}

// AuthService handles both login paths and session issuance.
type AuthService interface {
	AuthenticateWithGoogle(ctx context.Context, accessToken, idToken string) (*AuthResult, error)
	AuthenticateWithEmail(ctx context.Context, email, name string, picture *string) (*AuthResult, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	google     GoogleVerifier
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, google GoogleVerifier) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		google:     google,
	}
}

// AuthenticateWithGoogle verifies the Google credential, upserts the user in
// the directory, and issues a session token.
func (s *authService) AuthenticateWithGoogle(ctx context.Context, accessToken, idToken string) (*AuthResult, error) {
	claims, err := s.google.Verify(ctx, accessToken, idToken)
	if err != nil {
		return nil, err
	}

	identity := model.IdentityClaims{
		Email: claims.Email,
		Name:  claims.Name,
	}
	if claims.Picture != "" {
		identity.Picture = &claims.Picture
	}
	if claims.Subject != "" {
		identity.GoogleID = &claims.Subject
	}

	return s.login(ctx, identity)
}

// AuthenticateWithEmail treats the request body as trusted identity claims.
// There is no ownership proof on this path; it exists for the mobile client
// as a deliberately lower-trust login.
func (s *authService) AuthenticateWithEmail(ctx context.Context, email, name string, picture *string) (*AuthResult, error) {
	identity := model.IdentityClaims{
		Email:   strings.ToLower(strings.TrimSpace(email)),
		Name:    strings.TrimSpace(name),
		Picture: picture,
	}
	return s.login(ctx, identity)
}

func (s *authService) login(ctx context.Context, identity model.IdentityClaims) (*AuthResult, error) {
	user, isNew, err := s.userRepo.FindOrCreate(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("find or create user: %w", err)
	}

	token, err := s.jwtService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	return &AuthResult{
		AccessToken: token,
		ExpiresIn:   int(s.jwtService.TTL().Seconds()),
		User:        user,
		IsNewUser:   isNew,
	}, nil
}
