package service

import (
	"context"
	"strings"

	"github.com/brandkit/brandkit/internal/auth/domain"
	"github.com/brandkit/brandkit/internal/auth/password"
	"github.com/brandkit/brandkit/internal/auth/token"
	"github.com/brandkit/brandkit/internal/clock"
	"github.com/brandkit/brandkit/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	clock  clock.Clock
	repo   domain.Repository
	issuer *token.Issuer
}

type ServiceParam struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Repo   domain.Repository
	Issuer *token.Issuer
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:     p.DB,
		log:    p.Log.Named("auth.service"),
		genID:  p.GenID,
		clock:  p.Clock,
		repo:   p.Repo,
		issuer: p.Issuer,
	}
}

func (s *Service) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return domain.TokenResponse{}, domain.ErrInvalidEmail
	}
	if len(req.Password) < 8 {
		return domain.TokenResponse{}, domain.ErrInvalidPassword
	}

	role := strings.TrimSpace(req.Role)
	switch role {
	case "":
		role = domain.RoleCustomer
	case domain.RoleCustomer, domain.RoleSeller:
	default:
		// admin accounts are provisioned out of band
		return domain.TokenResponse{}, domain.ErrInvalidRole
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return domain.TokenResponse{}, err
	}

	now := s.clock.Now()
	user := &domain.User{
		ID:           s.genID.Generate(),
		Email:        email,
		PasswordHash: hash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, user); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.TokenResponse{}, domain.ErrUserExists
		}
		return domain.TokenResponse{}, err
	}

	s.log.Info("user registered", zap.String("user_id", user.ID.String()), zap.String("role", user.Role))
	return s.issueToken(user)
}

func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	if user == nil || !password.Verify(req.Password, user.PasswordHash) {
		return domain.TokenResponse{}, domain.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

func (s *Service) Verify(ctx context.Context, raw string) (domain.Claims, error) {
	_ = ctx
	return s.issuer.Verify(raw)
}

func (s *Service) issueToken(user *domain.User) (domain.TokenResponse, error) {
	signed, expiresAt, err := s.issuer.Issue(user)
	if err != nil {
		return domain.TokenResponse{}, err
	}
	return domain.TokenResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User: domain.UserView{
			ID:          user.ID.String(),
			Email:       user.Email,
			DisplayName: user.DisplayName,
			Role:        user.Role,
		},
	}, nil
}
