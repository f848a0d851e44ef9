package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "auth_backend/internal/feature/auth/transport/handler"
	userhandler "auth_backend/internal/feature/user/transport/handler"
	"auth_backend/internal/platform/http/handler"
	jwtmw "auth_backend/internal/platform/jwt"
)

// NewRouter builds the Gin engine with the full route table.
// The frontend sends credentialed cross-origin requests, so CORS is pinned to
// a single origin with credentials allowed.
func NewRouter(authH *authhandler.AuthHandler, userH *userhandler.UserHandler,
	verifier jwtmw.Verifier, frontendOrigin string) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)

	auth := r.Group("/api/auth")
	{
		// 新規ユーザー登録（セッションクッキー発行）
		auth.POST("/register", authH.Register)
		// ログイン（セッションクッキー発行）
		auth.POST("/login", authH.Login)
		// ログアウト（クッキー削除のみ）
		auth.POST("/logout", authH.Logout)
		// パスワードリセットはログイン不能なユーザーが使うため認証不要
		auth.POST("/send-reset-otp", authH.SendResetOTP)
		auth.POST("/reset-password", authH.ResetPassword)

		// 認証必須のルート
		// jwtmw.AuthRequired() がクッキーを検証しユーザーIDを解決する
		guarded := auth.Group("")
		guarded.Use(jwtmw.AuthRequired(verifier))
		{
			guarded.POST("/send-verify-otp", authH.SendVerifyOTP)
			guarded.POST("/verify-account", authH.VerifyAccount)
			guarded.GET("/is-authenticated", authH.IsAuthenticated)
		}
	}

	user := r.Group("/api/user")
	user.Use(jwtmw.AuthRequired(verifier))
	{
		user.POST("/data", userH.GetUserData)
	}

	return r
}
