package service

import (
	"context"
	"errors"
	"time"

	"sispar/internal/dto"
	"sispar/internal/models"
	"sispar/internal/repository"
	"sispar/pkg/auth"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrCollaboratorNotFound = errors.New("collaborator not found")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidRole          = errors.New("invalid role")
)

type CollaboratorService struct {
	repo       *repository.CollaboratorRepository
	jwtManager *auth.JWTManager
	logger     *zap.Logger
}

func NewCollaboratorService(repo *repository.CollaboratorRepository, jwtManager *auth.JWTManager, logger *zap.Logger) *CollaboratorService {
	return &CollaboratorService{
		repo:       repo,
		jwtManager: jwtManager,
		logger:     logger,
	}
}

func (s *CollaboratorService) Register(ctx context.Context, req *dto.RegisterCollaboratorRequest) (*dto.AuthResponse, error) {
	existing, _ := s.repo.GetByEmail(ctx, req.Email)
	if existing != nil {
		return nil, ErrEmailTaken
	}

	role := models.RoleUser
	if req.Role != "" {
		role = models.Role(req.Role)
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	collaborator := &models.Collaborator{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  hashedPassword,
		Position:  req.Position,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Salary > 0 {
		collaborator.Salary = decimal.NullDecimal{Decimal: decimal.NewFromFloat(req.Salary), Valid: true}
	}

	if err := s.repo.Create(ctx, collaborator); err != nil {
		return nil, err
	}

	s.logger.Info("Collaborator registered",
		zap.String("id", collaborator.ID.String()),
		zap.String("email", collaborator.Email),
	)
	return s.authResponse(collaborator)
}

func (s *CollaboratorService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	collaborator, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPasswordHash(req.Password, collaborator.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(collaborator)
}

func (s *CollaboratorService) Refresh(ctx context.Context, refreshToken string) (*dto.AuthResponse, error) {
	claims, err := s.jwtManager.ValidateToken(refreshToken)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}

	collaborator, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrCollaboratorNotFound
	}

	return s.authResponse(collaborator)
}

func (s *CollaboratorService) Get(ctx context.Context, id uuid.UUID) (*dto.CollaboratorResponse, error) {
	collaborator, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrCollaboratorNotFound
	}
	resp := toCollaboratorResponse(collaborator)
	return &resp, nil
}

func (s *CollaboratorService) List(ctx context.Context) ([]dto.CollaboratorResponse, error) {
	collaborators, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CollaboratorResponse, 0, len(collaborators))
	for _, c := range collaborators {
		responses = append(responses, toCollaboratorResponse(c))
	}
	return responses, nil
}

func (s *CollaboratorService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCollaboratorRequest) (*dto.CollaboratorResponse, error) {
	collaborator, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrCollaboratorNotFound
	}

	if req.Name != "" {
		collaborator.Name = req.Name
	}
	if req.Email != "" && req.Email != collaborator.Email {
		if existing, _ := s.repo.GetByEmail(ctx, req.Email); existing != nil {
			return nil, ErrEmailTaken
		}
		collaborator.Email = req.Email
	}
	if req.Password != "" {
		hashed, err := auth.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		collaborator.Password = hashed
	}
	if req.Position != "" {
		collaborator.Position = req.Position
	}
	if req.Salary > 0 {
		collaborator.Salary = decimal.NullDecimal{Decimal: decimal.NewFromFloat(req.Salary), Valid: true}
	}

	if err := s.repo.Update(ctx, collaborator); err != nil {
		return nil, err
	}

	resp := toCollaboratorResponse(collaborator)
	return &resp, nil
}

// Promote grants the admin role. Demotion goes through the same call with
// the user role.
func (s *CollaboratorService) Promote(ctx context.Context, id uuid.UUID, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrCollaboratorNotFound
	}

	if err := s.repo.UpdateRole(ctx, id, role); err != nil {
		return err
	}

	s.logger.Info("Collaborator role changed",
		zap.String("id", id.String()),
		zap.String("role", string(role)),
	)
	return nil
}

func (s *CollaboratorService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrCollaboratorNotFound
	}
	return s.repo.Delete(ctx, id)
}

func (s *CollaboratorService) authResponse(c *models.Collaborator) (*dto.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateToken(c.ID.String(), c.Name, c.Email, string(c.Role))
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken(c.ID.String())
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.jwtManager.GetTokenDuration().Seconds()),
		User:         toCollaboratorResponse(c),
	}, nil
}

func toCollaboratorResponse(c *models.Collaborator) dto.CollaboratorResponse {
	resp := dto.CollaboratorResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Position:  c.Position,
		Role:      string(c.Role),
		CreatedAt: c.CreatedAt.Format(time.RFC3339),
	}
	if c.Salary.Valid {
		resp.Salary = c.Salary.Decimal.InexactFloat64()
	}
	return resp
}
