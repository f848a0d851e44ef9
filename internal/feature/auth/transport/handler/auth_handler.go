// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"auth_backend/internal/api"
	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/transport/http/dto"
	"auth_backend/internal/feature/auth/usecase"
	jwtmw "auth_backend/internal/platform/jwt"
)

// sessionMaxAge はセッションクッキーの有効期間（秒）です。トークンの有効期間と一致させます。
const sessionMaxAge = 7 * 24 * 60 * 60

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Register は新規ユーザーを登録し、ユーザーとセッショントークンを返します。
	Register(ctx context.Context, name, email, password string) (*entity.User, string, error)
	// Login はユーザーを認証し、成功時にユーザーとセッショントークンを返します。
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	// SendVerifyOTP はメール認証用OTPを生成して送信します。
	SendVerifyOTP(ctx context.Context, userID string) error
	// VerifyEmail は供給されたOTPでアカウントを認証済みにします。
	VerifyEmail(ctx context.Context, userID, code string) error
	// SendResetOTP はパスワードリセット用OTPを生成して送信します。
	SendResetOTP(ctx context.Context, email string) error
	// ResetPassword はリセットOTPを検証し、新しいパスワードを保存します。
	ResetPassword(ctx context.Context, email, code, newPassword string) error
}

// CookieOptions はセッションクッキーの環境別属性を保持します。
// 本番環境ではSecure + SameSite=None（クロスオリジンのフロントエンド用）、
// それ以外ではSameSite=Laxを使用します。
type CookieOptions struct {
	Secure   bool
	SameSite http.SameSite
}

// NewCookieOptions は環境名からクッキー属性を導出します。
func NewCookieOptions(production bool) CookieOptions {
	if production {
		return CookieOptions{Secure: true, SameSite: http.SameSiteNoneMode}
	}
	return CookieOptions{Secure: false, SameSite: http.SameSiteLaxMode}
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth    AuthUsecase
	cookies CookieOptions
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase, cookies CookieOptions) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies}
}

// setSessionCookie はセッショントークンをHTTP-onlyクッキーとして設定します。
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(jwtmw.CookieName, token, sessionMaxAge, "/", "", h.cookies.Secure, true)
}

// clearSessionCookie はセッションクッキーを同一属性で削除します。
// ログアウトはクライアント側の破棄指示のみで、サーバー側の失効は行いません。
func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(h.cookies.SameSite)
	c.SetCookie(jwtmw.CookieName, "", -1, "/", "", h.cookies.Secure, true)
}

// Register はユーザー登録APIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時はセッションクッキーを設定して201を返却
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("register validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail("Missing details"))
		return
	}

	_, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			slog.Warn("register conflict", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusConflict, api.Fail("User already exists"))
			return
		}
		slog.Error("register failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.Fail("registration failed"))
		return
	}

	h.setSessionCookie(c, token)
	slog.Info("user registered", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, api.OK("User registered successfully. Check your email."))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却（未登録メールとパスワード不一致は同一メッセージ）
// - 成功時はセッションクッキーとユーザーサマリー付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.Fail("Email and password are required"))
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、実際の失敗理由を公開しない
			slog.Warn("login failed", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, api.Fail("Invalid email or password"))
			return
		}
		slog.Error("login failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.Fail("login failed"))
		return
	}

	h.setSessionCookie(c, token)
	slog.Info("user login successful", "email", req.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, api.LoginResponse{
		Success: true,
		Message: "User logged in successfully",
		User:    api.UserSummary{ID: user.ID, Name: user.Name, Email: user.Email},
	})
}

// Logout はセッションクッキーを削除します。常に成功します。
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, api.OK("Logged out successfully"))
}

// SendVerifyOTP はメール認証用OTPの発行・送信エンドポイントを処理します。
// ユーザーIDはセッションガードが解決したものを使用します。
func (h *AuthHandler) SendVerifyOTP(c *gin.Context) {
	userID, ok := jwtmw.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Fail("not authorized, login again"))
		return
	}

	if err := h.auth.SendVerifyOTP(c.Request.Context(), userID); err != nil {
		h.writeOTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.OK("Verification OTP sent to email"))
}

// VerifyAccount はOTPによるメール認証エンドポイントを処理します。
func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	userID, ok := jwtmw.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Fail("not authorized, login again"))
		return
	}

	var req dto.VerifyAccountReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("Missing details"))
		return
	}

	if err := h.auth.VerifyEmail(c.Request.Context(), userID, req.OTP); err != nil {
		h.writeOTPError(c, err)
		return
	}

	slog.Info("account verified", "user_id", userID)
	c.JSON(http.StatusOK, api.OK("Email verified successfully"))
}

// IsAuthenticated はセッションの有効性チェックエンドポイントを処理します。
// 実際の検証はセッションガードが行うため、ここに到達した時点で認証済みです。
func (h *AuthHandler) IsAuthenticated(c *gin.Context) {
	c.JSON(http.StatusOK, api.Response{Success: true})
}

// SendResetOTP はパスワードリセット用OTPの発行・送信エンドポイントを処理します。
func (h *AuthHandler) SendResetOTP(c *gin.Context) {
	var req dto.SendResetOTPReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("Email is required"))
		return
	}

	if err := h.auth.SendResetOTP(c.Request.Context(), req.Email); err != nil {
		h.writeOTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.OK("Password reset OTP sent to email"))
}

// ResetPassword はOTPによるパスワードリセットエンドポイントを処理します。
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.Fail("Email, OTP, and new password are required"))
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		h.writeOTPError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.OK("Password has been reset successfully"))
}

// writeOTPError はOTPフロー共通のエラーをHTTPステータスへマッピングします。
func (h *AuthHandler) writeOTPError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrUserNotFound):
		c.JSON(http.StatusNotFound, api.Fail("User not found"))
	case errors.Is(err, usecase.ErrAlreadyVerified):
		c.JSON(http.StatusBadRequest, api.Fail("Already verified"))
	case errors.Is(err, domain.ErrOTPInvalid):
		c.JSON(http.StatusBadRequest, api.Fail("Invalid OTP"))
	case errors.Is(err, domain.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, api.Fail("OTP expired"))
	case errors.Is(err, usecase.ErrNotificationFailure):
		slog.Error("OTP email delivery failed", "error", err)
		c.JSON(http.StatusBadGateway, api.Fail("Failed to send OTP email"))
	default:
		slog.Error("OTP operation failed", "error", err)
		c.JSON(http.StatusInternalServerError, api.Fail("something went wrong"))
	}
}
