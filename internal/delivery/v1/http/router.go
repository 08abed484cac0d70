package http

import (
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	_ "github.com/zaytuna-store/go-backend/docs" // Импорт сгенерированных файлов
	"github.com/zaytuna-store/go-backend/internal/usecase"
	"github.com/zaytuna-store/go-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(
	prUC usecase.ProductUC,
	orUC usecase.OrderUC,
	leadUC usecase.LeadUC,
	userUC usecase.UserUC,
	authMW *AuthMiddleware,
	verifier WebhookVerifier,
) {
	r.router.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("http://localhost:8080/swagger/doc.json"), // ссылка на JSON
	))

	prHandler := NewProductHandler(prUC, r.logger)
	orHandler := NewOrderHandler(orUC, r.logger)
	leadHandler := NewLeadHandler(leadUC, r.logger)
	userHandler := NewUserHandler(userUC, r.logger)
	whHandler := NewWebhookHandler(userUC, verifier, r.logger)

	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerPublicRoutes(v1, prHandler, orHandler, leadHandler, whHandler)

		v1.Route("/admin", func(admin chi.Router) {
			admin.Use(authMW.RequireAuth)
			registerAdminRoutes(admin, prHandler, orHandler, leadHandler, userHandler)
		})
	})
}

func registerPublicRoutes(router chi.Router, prHandler *ProductHandler,
	orHandler *OrderHandler, leadHandler *LeadHandler, whHandler *WebhookHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listActive)
		pr.Get("/{id}", prHandler.getProduct)
	})

	router.Post("/orders", orHandler.createOrder)
	router.Post("/leads", leadHandler.createLead)
	router.Post("/webhooks/users", whHandler.handleUserEvent)
}

func registerAdminRoutes(router chi.Router, prHandler *ProductHandler,
	orHandler *OrderHandler, leadHandler *LeadHandler, userHandler *UserHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listAll)
		pr.Post("/", prHandler.createProduct)
		pr.Get("/stats", prHandler.stockStats)
		pr.Get("/name-check", prHandler.checkName)
		pr.Post("/uploads", prHandler.generateUploadURL)
		pr.Post("/stock-backfill", prHandler.backfillStock)
		pr.Patch("/{id}", prHandler.updateProduct)
		pr.Delete("/{id}", prHandler.deleteProduct)
		pr.Post("/{id}/archive", prHandler.archiveProduct)
		pr.Put("/{id}/stock", prHandler.setStock)
	})

	router.Route("/orders", func(or chi.Router) {
		or.Get("/", orHandler.listOrders)
		or.Get("/stats", orHandler.orderStats)
		or.Get("/{id}", orHandler.getOrder)
		or.Patch("/{id}/status", orHandler.updateOrderStatus)
	})

	router.Route("/leads", func(ld chi.Router) {
		ld.Get("/", leadHandler.listLeads)
		ld.Get("/stats", leadHandler.leadStats)
		ld.Get("/{id}", leadHandler.getLead)
		ld.Patch("/{id}/status", leadHandler.updateLeadStatus)
	})

	router.Route("/users", func(us chi.Router) {
		us.Get("/", userHandler.listUsers)
		us.Put("/{id}/role", userHandler.updateRole)
	})
}
