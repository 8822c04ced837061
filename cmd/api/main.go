package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/config"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/db"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/handlers"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/middleware"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/models"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/realtime"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/lifecycle"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/notify"
	"github.com/Windi-Fikriyansyah/freelancehub_be/internal/services/payments"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.Proposal{},
		&models.TimeEntry{},
		&models.Notification{},
		&models.Review{},
		&models.Message{},
	); err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis not reachable:", err)
	}

	hub := realtime.NewHub()
	go hub.Run()
	go realtime.SubscribeNotifications(context.Background(), rdb, hub)

	notifySvc := notify.New(gdb, hub, rdb)
	lifecycleSvc := lifecycle.New(gdb, notifySvc)
	paymentsSvc := payments.New(cfg.StripeSecretKey, notifySvc)

	authH := &handlers.AuthHandler{
		DB:        gdb,
		JWTSecret: cfg.JWTSecret,
		Expires:   cfg.JWTExpiresMin,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		Expires:         cfg.JWTExpiresMin,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	profileH := handlers.NewProfileHandler(gdb)
	projectH := handlers.NewProjectHandler(gdb, lifecycleSvc)
	proposalH := handlers.NewProposalHandler(gdb, lifecycleSvc)
	timeH := handlers.NewTimeHandler(gdb, lifecycleSvc)
	notifH := handlers.NewNotificationHandler(gdb)
	reviewH := handlers.NewReviewHandler(gdb)
	messageH := handlers.NewMessageHandler(gdb, notifySvc)
	paymentH := handlers.NewPaymentHandler(gdb, paymentsSvc)
	adminH := handlers.NewAdminHandler(gdb)
	wsH := handlers.NewWSHandler(hub, cfg.JWTSecret)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://127.0.0.1:3000, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true,
	}))

	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/logout", authH.Logout)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)
	api.Get("/projects", projectH.List)
	api.Get("/users/:id", profileH.GetUser)
	api.Get("/freelancers", profileH.SearchFreelancers)
	api.Get("/reviews", reviewH.List)

	// protected (JWT cookie)
	protected := api.Group("/",
		middleware.JWTFromCookie(cfg.JWTSecret),
		middleware.AttachJWTLocals(),
		middleware.RequireActive(gdb),
	)

	protected.Get("/me", profileH.Me)
	protected.Get("/profile/me", profileH.Me)
	protected.Post("/profile", profileH.Update)

	// projects
	protected.Post("/projects",
		middleware.RequireRoles("client"),
		projectH.Create,
	)
	protected.Get("/projects/my",
		middleware.RequireRoles("freelancer"),
		projectH.My,
	)
	protected.Get("/projects/:id", projectH.GetDetail)
	protected.Patch("/projects/:id",
		middleware.RequireRoles("freelancer"),
		projectH.UpdateStatus,
	)

	// proposals
	protected.Post("/projects/:id/proposals",
		middleware.RequireRoles("freelancer"),
		proposalH.Submit,
	)
	protected.Get("/projects/:id/proposals",
		middleware.RequireRoles("client"),
		proposalH.ListByProject,
	)
	protected.Get("/proposals/my",
		middleware.RequireRoles("freelancer"),
		proposalH.My,
	)
	protected.Post("/proposals/:id/accept",
		middleware.RequireRoles("client"),
		proposalH.Accept,
	)
	protected.Post("/proposals/:id/reject",
		middleware.RequireRoles("client"),
		proposalH.Reject,
	)

	// time tracking
	protected.Post("/time/start",
		middleware.RequireRoles("freelancer"),
		timeH.Start,
	)
	protected.Post("/time/stop",
		middleware.RequireRoles("freelancer"),
		timeH.Stop,
	)
	protected.Get("/time", timeH.List)

	// notifications
	protected.Get("/notifications", notifH.List)
	protected.Get("/notifications/unread-count", notifH.UnreadCount)
	protected.Patch("/notifications/read-all", notifH.MarkAllRead)
	protected.Patch("/notifications/:id/read", notifH.MarkRead)

	// reviews & messages
	protected.Post("/reviews", reviewH.Create)
	protected.Post("/messages", messageH.Send)
	protected.Get("/messages", messageH.List)

	// payments
	protected.Post("/payments/intent",
		middleware.RequireRoles("client"),
		paymentH.CreateIntent,
	)
	protected.Post("/payments/record",
		middleware.RequireRoles("client"),
		paymentH.Record,
	)

	// admin only
	admin := protected.Group("/admin", middleware.RequireRoles("admin"))
	admin.Get("/users", adminH.Users)
	admin.Get("/projects", adminH.Projects)
	admin.Post("/users/:id/suspend", adminH.Suspend)

	// WebSocket push (autentikasi via query param token)
	app.Get("/ws/notifications", websocket.New(wsH.Notifications))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
