package api

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SundayYogurt/account_service/config"
	"github.com/SundayYogurt/account_service/infra/queue"
	"github.com/SundayYogurt/account_service/internal/api/rest/handlers"
	"github.com/SundayYogurt/account_service/internal/helper"
	"github.com/SundayYogurt/account_service/internal/repository"
	"github.com/SundayYogurt/account_service/internal/services"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("database ping error: %v", err)
	}
	log.Println("database connected")

	db := client.Database(cfg.MongoDB)

	// ---------- Repositories ----------
	userRepo := repository.NewUserRepository(db)

	// uniqueness lives in the store, not in the pre-checks
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("index creation error: %v", err)
	}
	log.Println("unique indexes ready")

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)

	authHelper := helper.SetupAuth(cfg.AccessTokenSecret, cfg.AccessTokenLifetime)

	// ---------- Service ----------
	userSvc := services.NewUserService(userRepo, kafkaProducer, authHelper, cfg.BaseURL)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Handler ----------
	// registered last: SetupRoutes mounts the auth middleware, which
	// guards every route added after it
	userHandler := handlers.NewUserHandler(userSvc, authHelper)
	userHandler.SetupRoutes(app)

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}
