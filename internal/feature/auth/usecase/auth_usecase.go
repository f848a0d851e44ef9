// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
	"auth_backend/internal/feature/auth/otp"
)

const (
	// verifyOTPTTL はメール認証用OTPの有効期間です。
	verifyOTPTTL = 24 * time.Hour

	// resetOTPTTL はパスワードリセット用OTPの有効期間です。
	// リセットはリスクが高いため、認証より短く設定しています。
	resetOTPTTL = 15 * time.Minute
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByID(ctx context.Context, id string) (*entity.User, error)

	// UpdateByID は単一レコードに対する read-modify-write を直列化して実行します。
	// fnがエラーを返した場合は何も永続化せず、そのエラーをそのまま返します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	UpdateByID(ctx context.Context, id string, fn func(*entity.User) error) (*entity.User, error)

	// UpdateByEmail はUpdateByIDと同じセマンティクスで、メールアドレスをキーに実行します。
	UpdateByEmail(ctx context.Context, email string, fn func(*entity.User) error) (*entity.User, error)
}

// TokenIssuer はセッショントークン発行のインターフェースを定義します。
type TokenIssuer interface {
	// IssueToken は指定されたユーザーの署名済みセッショントークンを生成します。
	IssueToken(userID string) (string, error)
}

// Notifier はメール送信を抽象化します。成功/失敗のみを返し、リトライは行いません。
type Notifier interface {
	Send(ctx context.Context, to, subject, textBody, htmlBody string) error
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users    UserRepository
	tokens   TokenIssuer
	notifier Notifier
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, tokens TokenIssuer, notifier Notifier) *authUsecase {
	return &authUsecase{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
	}
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、セッショントークンを発行します。
// ウェルカムメールはベストエフォートで送信し、失敗しても登録の成否には影響しません。
func (u *authUsecase) Register(ctx context.Context, name, email, password string) (*entity.User, string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Name: name, Email: email, Password: string(hashed)}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	// ウェルカムメールの失敗は警告ログのみ（登録はロールバックしない）
	body := fmt.Sprintf("Hello %s,\n\nYour account has been successfully created with email ID: %s.\n\nThank you for registering!", name, email)
	if err := u.notifier.Send(ctx, email, "Welcome to My Website", body, ""); err != nil {
		slog.Warn("welcome email failed", "error", err, "email", email)
	}

	return user, token, nil
}

// Login はユーザーを認証し、成功時にセッショントークンを返します。
// ユーザー列挙を防ぐため、未登録メールとパスワード不一致は同一のエラーになります。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))
	if err != nil || compareErr != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return user, token, nil
}

// SendVerifyOTP はメール認証用OTPを生成・保存し、ユーザーにメール送信します。
// 新しいコードは保留中の古いコードを置き換えます。
// 送信失敗時はErrNotificationFailureを返します。
func (u *authUsecase) SendVerifyOTP(ctx context.Context, userID string) error {
	code, err := otp.Generate(otp.DefaultDigits)
	if err != nil {
		return err
	}

	user, err := u.users.UpdateByID(ctx, userID, func(user *entity.User) error {
		if user.IsAccountVerified {
			return ErrAlreadyVerified
		}
		user.BindOTP(entity.OTPPurposeVerify, code, time.Now().Add(verifyOTPTTL))
		return nil
	})
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your OTP is %s. Verify your account using this OTP.", code)
	if err := u.notifier.Send(ctx, user.Email, "Account Verification OTP", body, ""); err != nil {
		slog.Warn("verification OTP email failed", "error", err, "email", user.Email)
		return fmt.Errorf("%w: %w", ErrNotificationFailure, err)
	}

	return nil
}

// VerifyEmail は供給されたOTPを検証し、成功時にアカウントを認証済みにします。
// OTPペアのクリアとIsAccountVerifiedの反転は同一の直列化更新で行われます。
func (u *authUsecase) VerifyEmail(ctx context.Context, userID, code string) error {
	_, err := u.users.UpdateByID(ctx, userID, func(user *entity.User) error {
		return user.ConsumeOTP(entity.OTPPurposeVerify, code, time.Now())
	})
	return err
}

// SendResetOTP はパスワードリセット用OTPを生成・保存し、ユーザーにメール送信します。
// 送信失敗時はErrNotificationFailureを返します。
func (u *authUsecase) SendResetOTP(ctx context.Context, email string) error {
	code, err := otp.Generate(otp.DefaultDigits)
	if err != nil {
		return err
	}

	user, err := u.users.UpdateByEmail(ctx, email, func(user *entity.User) error {
		user.BindOTP(entity.OTPPurposeReset, code, time.Now().Add(resetOTPTTL))
		return nil
	})
	if err != nil {
		return err
	}

	body := fmt.Sprintf("Your OTP for resetting your password is %s. Use this to reset your password.", code)
	if err := u.notifier.Send(ctx, user.Email, "Password Reset OTP", body, ""); err != nil {
		slog.Warn("reset OTP email failed", "error", err, "email", user.Email)
		return fmt.Errorf("%w: %w", ErrNotificationFailure, err)
	}

	return nil
}

// ResetPassword はリセットOTPを検証し、成功時に新しいパスワードを保存します。
// OTP消費とパスワード上書きは同一の直列化更新で行われます。
func (u *authUsecase) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = u.users.UpdateByEmail(ctx, email, func(user *entity.User) error {
		if err := user.ConsumeOTP(entity.OTPPurposeReset, code, time.Now()); err != nil {
			return err
		}
		user.Password = string(hashed)
		return nil
	})
	return err
}
