package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/studyhard/account-service/internal/auth"
	"github.com/studyhard/account-service/internal/config"
	"github.com/studyhard/account-service/internal/database"
	"github.com/studyhard/account-service/internal/handler"
	"github.com/studyhard/account-service/internal/mailer"
	"github.com/studyhard/account-service/internal/queue"
	"github.com/studyhard/account-service/internal/repository"
	"github.com/studyhard/account-service/internal/router"
	"github.com/studyhard/account-service/internal/sweep"
	"github.com/studyhard/account-service/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(migrateCtx, db); err != nil {
		log.Fatalf("database migrate: %v", err)
	}
	cancel()

	tokens := utils.NewTokens(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, cfg.ResetTTL)
	users := repository.NewUserRepo(db)
	notify := queue.NewPublisher(cfg.AMQPURL)
	svc := auth.NewService(users, tokens, notify, cfg.BcryptCost, cfg.AppURL, cfg.AdminRole)

	// Background workers: the mail consumer drains the outbound queue and
	// the sweeper purges long-deactivated accounts.
	ctx := context.Background()
	smtp := mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	go func() {
		if err := queue.StartMailConsumer(ctx, cfg.AMQPURL, smtp); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()
	go sweep.Run(ctx, users, 24*time.Hour)

	e := echo.New()
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}
	router.Register(e, cfg, tokens,
		handler.NewAuthHandler(cfg, svc), handler.NewUserHandler(svc),
		config.LoadRateLimitConfig(), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
