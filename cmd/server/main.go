package main

import (
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"auth_backend/internal/app/di"
	"auth_backend/internal/app/router"
	authhandler "auth_backend/internal/feature/auth/transport/handler"
	authusecase "auth_backend/internal/feature/auth/usecase"
	userhandler "auth_backend/internal/feature/user/transport/handler"
	userusecase "auth_backend/internal/feature/user/usecase"
	"auth_backend/internal/platform/config"
	infradb "auth_backend/internal/platform/db"
	jwtmw "auth_backend/internal/platform/jwt"
	infraredis "auth_backend/internal/platform/redis"
)

// sessionTTL はセッショントークンとクッキーの有効期間です。
const sessionTTL = 7 * 24 * time.Hour

func main() {
	// 設定読み込み（JWT_SECRET / SENDER_EMAIL 欠如時はここで停止する）
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// db
	db := infradb.OpenDB(cfg)

	// Redis（任意。利用不可ならキャッシュなしで動作）
	var rdb *redisv9.Client
	if cfg.RedisHost == "" {
		rdb = nil
	} else if tmp, err := infraredis.NewRedisClient(cfg); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := di.NewUserRepository(rdb, db)

	// Token issuer / Notifier
	tokens := jwtmw.NewGenerator(cfg.JWTSecret, sessionTTL)
	notifier, err := di.NewNotifier(cfg)
	if err != nil {
		log.Fatal(err)
	}

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokens, notifier)
	userUC := userusecase.NewUserUsecase(userRepo)

	// Handler
	cookieOpts := authhandler.NewCookieOptions(cfg.IsProduction())
	authH := authhandler.NewAuthHandler(authUC, cookieOpts)
	userH := userhandler.NewUserHandler(userUC)

	// ルータ生成
	r := router.NewRouter(authH, userH, tokens, cfg.FrontendOrigin)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
