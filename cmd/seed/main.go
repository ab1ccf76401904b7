package main

import (
	"context"
	"flag"
	"log"
	"time"

	"sispar/internal/models"
	"sispar/internal/repository"
	"sispar/internal/service"
	"sispar/pkg/auth"
	"sispar/pkg/config"
	"sispar/pkg/logger"
	"sispar/pkg/postgres"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	promote := flag.String("promote", "", "promote the collaborator with this email to admin and exit")
	verify := flag.Bool("verify", false, "recompute receipt validation fields and report drift, then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	collaboratorRepo := repository.NewCollaboratorRepository(db, appLogger)
	reimbursementRepo := repository.NewReimbursementRepository(db, appLogger)
	receiptRepo := repository.NewReceiptRepository(db, appLogger)

	switch {
	case *promote != "":
		promoteCollaborator(ctx, collaboratorRepo, *promote, appLogger)
	case *verify:
		verifyReceipts(ctx, receiptRepo, reimbursementRepo, cfg.OCR.TolerancePercent, appLogger)
	default:
		seed(ctx, collaboratorRepo, reimbursementRepo, appLogger)
	}
}

func promoteCollaborator(ctx context.Context, repo *repository.CollaboratorRepository, email string, appLogger *zap.Logger) {
	collaborator, err := repo.GetByEmail(ctx, email)
	if err != nil {
		appLogger.Fatal("Collaborator not found", zap.String("email", email), zap.Error(err))
	}
	if err := repo.UpdateRole(ctx, collaborator.ID, models.RoleAdmin); err != nil {
		appLogger.Fatal("Failed to promote collaborator", zap.Error(err))
	}
	appLogger.Info("Collaborator promoted to admin", zap.String("email", email))
}

// verifyReceipts recomputes every receipt's validation status and
// discrepancy from the stored extracted text and the current declared
// value, and reports rows whose stored fields drifted.
func verifyReceipts(
	ctx context.Context,
	receiptRepo *repository.ReceiptRepository,
	reimbursementRepo *repository.ReimbursementRepository,
	tolerancePercent float64,
	appLogger *zap.Logger,
) {
	receipts, err := receiptRepo.List(ctx)
	if err != nil {
		appLogger.Fatal("Failed to list receipts", zap.Error(err))
	}

	drifted := 0
	for _, receipt := range receipts {
		reimbursement, err := reimbursementRepo.GetByID(ctx, receipt.ReimbursementID)
		if err != nil {
			appLogger.Warn("Receipt references missing reimbursement",
				zap.String("receipt_id", receipt.ID.String()),
				zap.String("reimbursement_id", receipt.ReimbursementID.String()),
			)
			drifted++
			continue
		}

		var extracted decimal.NullDecimal
		if largest, ok := service.LargestMonetaryValue(receipt.ExtractedText); ok {
			extracted = decimal.NullDecimal{Decimal: largest, Valid: true}
		}
		expected := service.ValidateAmounts(reimbursement.DeclaredValue, extracted, tolerancePercent)

		statusDrift := receipt.ValidationStatus != expected.Status
		discrepancyDrift := receipt.Discrepancy.Valid != expected.Discrepancy.Valid ||
			(receipt.Discrepancy.Valid && !receipt.Discrepancy.Decimal.Equal(expected.Discrepancy.Decimal))

		if statusDrift || discrepancyDrift {
			drifted++
			appLogger.Warn("Receipt validation fields drifted",
				zap.String("receipt_id", receipt.ID.String()),
				zap.String("stored_status", receipt.ValidationStatus),
				zap.String("expected_status", expected.Status),
			)
		}
	}

	appLogger.Info("Receipt verification finished",
		zap.Int("total", len(receipts)),
		zap.Int("drifted", drifted),
	)
}

func seed(
	ctx context.Context,
	collaboratorRepo *repository.CollaboratorRepository,
	reimbursementRepo *repository.ReimbursementRepository,
	appLogger *zap.Logger,
) {
	appLogger.Info("Seeding demo data...")

	admin := seedCollaborator(ctx, collaboratorRepo, appLogger, "Ana Souza", "ana.souza@sispar.com.br", "admin123", "Gestora Financeira", models.RoleAdmin, 12000)
	user := seedCollaborator(ctx, collaboratorRepo, appLogger, "Carlos Lima", "carlos.lima@sispar.com.br", "carlos123", "Analista Comercial", models.RoleUser, 6500)

	if user != nil {
		seedReimbursement(ctx, reimbursementRepo, appLogger, user, "Viagem a cliente", "Combustível", 250.00, -30)
		seedReimbursement(ctx, reimbursementRepo, appLogger, user, "Almoço com fornecedor", "Alimentação", 98.50, -12)
		seedReimbursement(ctx, reimbursementRepo, appLogger, user, "Estacionamento congresso", "Transporte", 45.00, -3)
	}
	_ = admin

	appLogger.Info("Seeding complete")
}

func seedCollaborator(
	ctx context.Context,
	repo *repository.CollaboratorRepository,
	appLogger *zap.Logger,
	name, email, password, position string,
	role models.Role,
	salary float64,
) *models.Collaborator {
	if existing, _ := repo.GetByEmail(ctx, email); existing != nil {
		appLogger.Info("Collaborator already exists, skipping", zap.String("email", email))
		return existing
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		appLogger.Fatal("Failed to hash password", zap.Error(err))
	}

	now := time.Now()
	collaborator := &models.Collaborator{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		Position:  position,
		Salary:    decimal.NullDecimal{Decimal: decimal.NewFromFloat(salary), Valid: true},
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, collaborator); err != nil {
		appLogger.Fatal("Failed to seed collaborator", zap.String("email", email), zap.Error(err))
	}
	appLogger.Info("Collaborator seeded", zap.String("email", email), zap.String("role", string(role)))
	return collaborator
}

func seedReimbursement(
	ctx context.Context,
	repo *repository.ReimbursementRepository,
	appLogger *zap.Logger,
	collaborator *models.Collaborator,
	description, expenseType string,
	value float64,
	daysAgo int,
) {
	now := time.Now()
	m := &models.Reimbursement{
		ID:               uuid.New(),
		CollaboratorName: collaborator.Name,
		CollaboratorID:   collaborator.ID,
		Company:          "Wilson Sons",
		Description:      description,
		ExpenseType:      expenseType,
		CostCenter:       "CC-1042",
		Currency:         "BRL",
		DeclaredValue:    decimal.NewFromFloat(value),
		Expense:          decimal.NewFromFloat(value),
		Status:           models.StatusPending,
		Date:             now.AddDate(0, 0, daysAgo),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := repo.Create(ctx, m); err != nil {
		appLogger.Fatal("Failed to seed reimbursement", zap.Error(err))
	}
	appLogger.Info("Reimbursement seeded",
		zap.String("description", description),
		zap.Float64("value", value),
	)
}
