package dto

// VerifyAccountReq は/api/auth/verify-accountエンドポイントのリクエストボディを表します。
// ユーザーIDはセッションクッキーから解決されるため、ボディにはOTPのみを含みます。
type VerifyAccountReq struct {
	OTP string `json:"otp" binding:"required,len=6,numeric"`
}

// SendResetOTPReq は/api/auth/send-reset-otpエンドポイントのリクエストボディを表します。
type SendResetOTPReq struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordReq は/api/auth/reset-passwordエンドポイントのリクエストボディを表します。
type ResetPasswordReq struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6,numeric"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}
