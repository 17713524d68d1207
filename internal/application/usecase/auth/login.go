package auth

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/itww/admin-api/internal/domain/user"
	"github.com/itww/admin-api/pkg/apperror"
	"github.com/itww/admin-api/pkg/auth"
	"github.com/itww/admin-api/pkg/logger"
)

var ErrInvalidCredentials = errors.New("email or password is incorrect")

type LoginUseCase struct {
	userRepo user.Repository
	jwtSvc   *auth.JWTService
	logger   logger.Logger
}

func NewLoginUseCase(repo user.Repository, jwtSvc *auth.JWTService, log logger.Logger) *LoginUseCase {
	return &LoginUseCase{
		userRepo: repo,
		jwtSvc:   jwtSvc,
		logger:   log,
	}
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User  *user.User
	Token string
}

var tracer = otel.Tracer("auth_usecase")

func invalidCredentials() error {
	return apperror.NewAppError(apperror.ErrUnauthorized, "Invalid credentials", "email or password is incorrect", ErrInvalidCredentials)
}

// SignIn never tells an unknown email apart from a wrong password.
func (uc *LoginUseCase) SignIn(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	ctx, span := tracer.Start(ctx, "SignIn")
	defer span.End()

	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		return nil, apperror.NewInvalidInput("Email and password are required", nil)
	}

	u, err := uc.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			err = invalidCredentials()
		}
		span.RecordError(err)
		return nil, err
	}

	if !auth.CheckPasswordHash(input.Password, u.PasswordHash) {
		err := invalidCredentials()
		span.RecordError(err)
		return nil, err
	}

	token, err := uc.jwtSvc.GenerateToken(auth.Principal{ID: u.ID, Email: u.Email})
	if err != nil {
		uc.logger.Error("Failed to generate token", err, zap.Int64("user_id", u.ID))
		err = apperror.NewInternal("Failed to sign in", err)
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("user_id", u.ID))
	return &LoginOutput{User: u, Token: token}, nil
}

// Me loads the row behind an already verified principal.
func (uc *LoginUseCase) Me(ctx context.Context, p auth.Principal) (*user.User, error) {
	ctx, span := tracer.Start(ctx, "Me")
	defer span.End()

	if p.ID <= 0 {
		return nil, apperror.NewUnauthorized("no verified principal", nil)
	}
	u, err := uc.userRepo.FindByID(ctx, p.ID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return u, nil
}
