package api

import (
	"sispar/docs"
	"sispar/internal/api/handlers"
	"sispar/pkg/auth"
	"sispar/pkg/config"
	"sispar/pkg/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

func SetupRouter(
	serverCfg *config.ServerConfig,
	collaboratorHandler *handlers.CollaboratorHandler,
	reimbursementHandler *handlers.ReimbursementHandler,
	receiptHandler *handlers.ReceiptHandler,
	analysisHandler *handlers.AnalysisHandler,
	chatHandler *handlers.ChatHandler,
	jwtManager *auth.JWTManager,
	appLogger *zap.Logger,
) *fiber.App {
	app := fiber.New(fiber.Config{
		BodyLimit:    20 * 1024 * 1024, // receipt uploads
		ReadTimeout:  serverCfg.ReadTimeout,
		WriteTimeout: serverCfg.WriteTimeout,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"erro": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))
	app.Use(logger.New())

	_ = docs.SwaggerInfo // ensure docs package is imported and init() is called
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Public auth routes
	collaborator := app.Group("/colaborador")
	collaborator.Post("/cadastrar", collaboratorHandler.Register)
	collaborator.Post("/login", collaboratorHandler.Login)
	collaborator.Post("/refresh", collaboratorHandler.Refresh)

	authRequired := middleware.AuthMiddleware(jwtManager, appLogger)
	adminRequired := middleware.AdminRequired(appLogger)

	// Protected collaborator routes
	collaborator.Get("/todos-colaboradores", authRequired, collaboratorHandler.List)
	collaborator.Get("/:id", authRequired, collaboratorHandler.Get)
	collaborator.Put("/:id", authRequired, collaboratorHandler.Update)
	collaborator.Post("/:id/promover", authRequired, adminRequired, collaboratorHandler.Promote)
	collaborator.Delete("/:id", authRequired, adminRequired, collaboratorHandler.Delete)

	// Reimbursements
	reimbursements := app.Group("/reembolsos", authRequired)
	reimbursements.Post("", reimbursementHandler.Create)
	reimbursements.Get("", reimbursementHandler.List)
	reimbursements.Get("/:id", reimbursementHandler.Get)
	reimbursements.Put("/:id", reimbursementHandler.Update)
	reimbursements.Delete("/:id", reimbursementHandler.Delete)
	reimbursements.Post("/:id/aprovar", reimbursementHandler.Approve)
	reimbursements.Post("/:id/rejeitar", reimbursementHandler.Reject)
	reimbursements.Post("/:id/enviar-analise", reimbursementHandler.SubmitForReview)
	reimbursements.Post("/:id/analisar-ia", analysisHandler.Analyze)
	reimbursements.Post("/:id/aprovar-com-ia", analysisHandler.ApproveWithAI)
	reimbursements.Get("/:id/analise", analysisHandler.Latest)

	// Receipts
	app.Post("/ocr", authRequired, receiptHandler.Upload)
	receipts := app.Group("/comprovantes", authRequired)
	receipts.Get("", receiptHandler.List)
	receipts.Get("/:id", receiptHandler.Get)
	receipts.Post("/:id/revalidar", receiptHandler.Revalidate)
	receipts.Get("/:id/arquivo", receiptHandler.Download)

	// Analysis dashboard and batch
	analyses := app.Group("/analises", authRequired)
	analyses.Get("", analysisHandler.Dashboard)
	analyses.Post("/lote", analysisHandler.AnalyzeBatch)

	// Chatbot
	app.Post("/chatbot/perguntar", authRequired, chatHandler.Ask)

	return app
}
