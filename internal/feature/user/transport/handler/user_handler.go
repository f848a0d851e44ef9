// Package handler はuserフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"auth_backend/internal/api"
	authusecase "auth_backend/internal/feature/auth/usecase"
	"auth_backend/internal/feature/user/usecase"
	jwtmw "auth_backend/internal/platform/jwt"
)

// UserUsecase はユーザーデータ取得のユースケースを定義します。
type UserUsecase interface {
	// GetUserData は指定されたユーザーの表示用データを返します。
	GetUserData(ctx context.Context, userID string) (*usecase.UserData, error)
}

// UserHandler はユーザーデータのHTTPリクエストを処理します。
type UserHandler struct {
	users UserUsecase
}

// NewUserHandler はUserHandlerの新しいインスタンスを生成します。
func NewUserHandler(users UserUsecase) *UserHandler {
	return &UserHandler{users: users}
}

// GetUserData は/api/user/dataエンドポイントを処理します。
// ユーザーIDはセッションガードが解決したものを使用します。
func (h *UserHandler) GetUserData(c *gin.Context) {
	userID, ok := jwtmw.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.Fail("not authorized, login again"))
		return
	}

	data, err := h.users.GetUserData(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, authusecase.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, api.Fail("User not found"))
			return
		}
		slog.Error("user data lookup failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.Fail("something went wrong"))
		return
	}

	c.JSON(http.StatusOK, api.UserDataResponse{
		Success: true,
		UserData: api.UserData{
			Name:              data.Name,
			IsAccountVerified: data.IsAccountVerified,
		},
	})
}
