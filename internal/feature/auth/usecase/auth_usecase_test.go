package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"auth_backend/internal/feature/auth/domain"
	"auth_backend/internal/feature/auth/domain/entity"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
// It simulates database operations during testing.
type mockUserRepository struct {
	CreateFunc        func(ctx context.Context, user *entity.User) error
	FindByEmailFunc   func(ctx context.Context, email string) (*entity.User, error)
	FindByIDFunc      func(ctx context.Context, id string) (*entity.User, error)
	UpdateByIDFunc    func(ctx context.Context, id string, fn func(*entity.User) error) (*entity.User, error)
	UpdateByEmailFunc func(ctx context.Context, email string, fn func(*entity.User) error) (*entity.User, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = "generated-id"
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) UpdateByID(ctx context.Context, id string, fn func(*entity.User) error) (*entity.User, error) {
	if m.UpdateByIDFunc != nil {
		return m.UpdateByIDFunc(ctx, id, fn)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) UpdateByEmail(ctx context.Context, email string, fn func(*entity.User) error) (*entity.User, error) {
	if m.UpdateByEmailFunc != nil {
		return m.UpdateByEmailFunc(ctx, email, fn)
	}
	return nil, ErrUserNotFound
}

// inMemoryUpdate builds update closures that apply fn against a single shared
// user record, mimicking the repository's serialized read-modify-write.
func inMemoryUpdate(user *entity.User) func(ctx context.Context, key string, fn func(*entity.User) error) (*entity.User, error) {
	return func(ctx context.Context, key string, fn func(*entity.User) error) (*entity.User, error) {
		if err := fn(user); err != nil {
			return nil, err
		}
		return user, nil
	}
}

// mockTokenIssuer is a mock implementation of the TokenIssuer interface.
type mockTokenIssuer struct {
	IssueTokenFunc func(userID string) (string, error)
}

func (m *mockTokenIssuer) IssueToken(userID string) (string, error) {
	if m.IssueTokenFunc != nil {
		return m.IssueTokenFunc(userID)
	}
	return "mock-session-token", nil
}

// mockNotifier is a mock implementation of the Notifier interface.
type mockNotifier struct {
	SendFunc func(ctx context.Context, to, subject, textBody, htmlBody string) error
	sent     []string // subjects in send order
}

func (m *mockNotifier) Send(ctx context.Context, to, subject, textBody, htmlBody string) error {
	m.sent = append(m.sent, subject)
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, textBody, htmlBody)
	}
	return nil
}

func TestAuthUsecase_Register(t *testing.T) {
	t.Run("successful registration issues a token", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				// Verify that the password is hashed
				if user.Password == "password123" {
					t.Error("password is not hashed")
				}
				if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password123")); err != nil {
					t.Errorf("invalid bcrypt hash: %v", err)
				}
				if user.IsAccountVerified {
					t.Error("new user must start unverified")
				}
				user.ID = "user-1"
				return nil
			},
		}
		notifier := &mockNotifier{}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, notifier)
		user, token, err := uc.Register(context.Background(), "Alice", "a@x.com", "password123")

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != "user-1" {
			t.Errorf("unexpected user id: %s", user.ID)
		}
		if token != "mock-session-token" {
			t.Errorf("unexpected token: %s", token)
		}
		if len(notifier.sent) != 1 || notifier.sent[0] != "Welcome to My Website" {
			t.Errorf("expected welcome email, got %v", notifier.sent)
		}
	})

	t.Run("duplicate email returns conflict", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return ErrEmailAlreadyExists
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, &mockNotifier{})
		_, _, err := uc.Register(context.Background(), "Alice", "a@x.com", "password123")

		if !errors.Is(err, ErrEmailAlreadyExists) {
			t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
		}
	})

	t.Run("welcome email failure does not fail registration", func(t *testing.T) {
		notifier := &mockNotifier{
			SendFunc: func(ctx context.Context, to, subject, textBody, htmlBody string) error {
				return errors.New("smtp down")
			},
		}

		uc := NewAuthUsecase(&mockUserRepository{}, &mockTokenIssuer{}, notifier)
		_, token, err := uc.Register(context.Background(), "Alice", "a@x.com", "password123")

		if err != nil {
			t.Fatalf("registration must succeed despite mail failure: %v", err)
		}
		if token == "" {
			t.Error("token is empty")
		}
	})

	t.Run("token issue failure fails registration", func(t *testing.T) {
		issuer := &mockTokenIssuer{
			IssueTokenFunc: func(userID string) (string, error) {
				return "", errors.New("secret not configured")
			},
		}

		uc := NewAuthUsecase(&mockUserRepository{}, issuer, &mockNotifier{})
		_, _, err := uc.Register(context.Background(), "Alice", "a@x.com", "password123")

		if err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestAuthUsecase_Login(t *testing.T) {
	password := "password123"
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	testUser := &entity.User{
		ID:       "user-1",
		Name:     "Alice",
		Email:    "a@x.com",
		Password: string(hashedPassword),
	}

	findAlice := func(ctx context.Context, email string) (*entity.User, error) {
		if email == testUser.Email {
			return testUser, nil
		}
		return nil, ErrUserNotFound
	}

	t.Run("successful login", func(t *testing.T) {
		issuer := &mockTokenIssuer{
			IssueTokenFunc: func(userID string) (string, error) {
				if userID != testUser.ID {
					t.Errorf("unexpected userID: %s", userID)
				}
				return "mock-session-token", nil
			},
		}

		uc := NewAuthUsecase(&mockUserRepository{FindByEmailFunc: findAlice}, issuer, &mockNotifier{})
		user, token, err := uc.Login(context.Background(), "a@x.com", password)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if user.ID != testUser.ID {
			t.Errorf("unexpected user: %+v", user)
		}
		if token != "mock-session-token" {
			t.Errorf("unexpected token: %s", token)
		}
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{FindByEmailFunc: findAlice}, &mockTokenIssuer{}, &mockNotifier{})

		_, _, unknownErr := uc.Login(context.Background(), "nobody@x.com", password)
		_, _, wrongPwErr := uc.Login(context.Background(), "a@x.com", "wrong-password")

		if !errors.Is(unknownErr, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", unknownErr)
		}
		if !errors.Is(wrongPwErr, domain.ErrInvalidCredentials) {
			t.Errorf("expected ErrInvalidCredentials for wrong password, got %v", wrongPwErr)
		}
		if unknownErr.Error() != wrongPwErr.Error() {
			t.Errorf("messages differ: %q vs %q", unknownErr, wrongPwErr)
		}
	})
}

func TestAuthUsecase_SendVerifyOTP(t *testing.T) {
	t.Run("binds a six digit code with 24h expiry and emails it", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Email: "a@x.com"}
		mockRepo := &mockUserRepository{UpdateByIDFunc: inMemoryUpdate(user)}
		var sentBody string
		notifier := &mockNotifier{
			SendFunc: func(ctx context.Context, to, subject, textBody, htmlBody string) error {
				if to != "a@x.com" {
					t.Errorf("unexpected recipient: %s", to)
				}
				sentBody = textBody
				return nil
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, notifier)
		before := time.Now()
		if err := uc.SendVerifyOTP(context.Background(), "user-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if user.VerifyOtp == nil || len(*user.VerifyOtp) != 6 {
			t.Fatalf("expected bound 6-digit code, got %v", user.VerifyOtp)
		}
		if !strings.Contains(sentBody, *user.VerifyOtp) {
			t.Errorf("email body %q does not carry the code", sentBody)
		}
		if user.VerifyOtpExpireAt == nil {
			t.Fatal("expiry not bound")
		}
		got := user.VerifyOtpExpireAt.Sub(before)
		if got < 23*time.Hour || got > 25*time.Hour {
			t.Errorf("expected ~24h TTL, got %v", got)
		}
	})

	t.Run("already verified account", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Email: "a@x.com", IsAccountVerified: true}
		mockRepo := &mockUserRepository{UpdateByIDFunc: inMemoryUpdate(user)}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, &mockNotifier{})
		err := uc.SendVerifyOTP(context.Background(), "user-1")

		if !errors.Is(err, ErrAlreadyVerified) {
			t.Errorf("expected ErrAlreadyVerified, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, &mockTokenIssuer{}, &mockNotifier{})
		err := uc.SendVerifyOTP(context.Background(), "missing")

		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("notifier failure is surfaced", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Email: "a@x.com"}
		mockRepo := &mockUserRepository{UpdateByIDFunc: inMemoryUpdate(user)}
		notifier := &mockNotifier{
			SendFunc: func(ctx context.Context, to, subject, textBody, htmlBody string) error {
				return errors.New("smtp down")
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, notifier)
		err := uc.SendVerifyOTP(context.Background(), "user-1")

		if !errors.Is(err, ErrNotificationFailure) {
			t.Errorf("expected ErrNotificationFailure, got %v", err)
		}
	})
}

func TestAuthUsecase_VerifyEmail(t *testing.T) {
	t.Run("correct code verifies the account", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Email: "a@x.com"}
		user.BindOTP(entity.OTPPurposeVerify, "123456", time.Now().Add(24*time.Hour))
		mockRepo := &mockUserRepository{UpdateByIDFunc: inMemoryUpdate(user)}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, &mockNotifier{})

		if err := uc.VerifyEmail(context.Background(), "user-1", "000000"); !errors.Is(err, domain.ErrOTPInvalid) {
			t.Errorf("expected ErrOTPInvalid for wrong code, got %v", err)
		}
		if err := uc.VerifyEmail(context.Background(), "user-1", "123456"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !user.IsAccountVerified {
			t.Error("account not verified")
		}
	})

	t.Run("expired code", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Email: "a@x.com"}
		user.BindOTP(entity.OTPPurposeVerify, "123456", time.Now().Add(-time.Minute))
		mockRepo := &mockUserRepository{UpdateByIDFunc: inMemoryUpdate(user)}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, &mockNotifier{})
		err := uc.VerifyEmail(context.Background(), "user-1", "123456")

		if !errors.Is(err, domain.ErrOTPExpired) {
			t.Errorf("expected ErrOTPExpired, got %v", err)
		}
	})
}

func TestAuthUsecase_SendResetOTP(t *testing.T) {
	t.Run("binds a code with 15m expiry", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Email: "a@x.com"}
		mockRepo := &mockUserRepository{UpdateByEmailFunc: inMemoryUpdate(user)}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, &mockNotifier{})
		before := time.Now()
		if err := uc.SendResetOTP(context.Background(), "a@x.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if user.ResetOtp == nil || len(*user.ResetOtp) != 6 {
			t.Fatalf("expected bound 6-digit code, got %v", user.ResetOtp)
		}
		got := user.ResetOtpExpireAt.Sub(before)
		if got < 14*time.Minute || got > 16*time.Minute {
			t.Errorf("expected ~15m TTL, got %v", got)
		}
	})

	t.Run("regeneration supersedes the pending code", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Email: "a@x.com"}
		mockRepo := &mockUserRepository{UpdateByEmailFunc: inMemoryUpdate(user)}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, &mockNotifier{})
		if err := uc.SendResetOTP(context.Background(), "a@x.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		first := *user.ResetOtp
		if err := uc.SendResetOTP(context.Background(), "a@x.com"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if first != *user.ResetOtp {
			// The earlier code must no longer be consumable.
			err := uc.ResetPassword(context.Background(), "a@x.com", first, "new-password-1")
			if !errors.Is(err, domain.ErrOTPInvalid) {
				t.Errorf("expected ErrOTPInvalid for superseded code, got %v", err)
			}
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, &mockTokenIssuer{}, &mockNotifier{})
		err := uc.SendResetOTP(context.Background(), "missing@x.com")

		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("notifier failure is surfaced", func(t *testing.T) {
		user := &entity.User{ID: "user-1", Email: "a@x.com"}
		mockRepo := &mockUserRepository{UpdateByEmailFunc: inMemoryUpdate(user)}
		notifier := &mockNotifier{
			SendFunc: func(ctx context.Context, to, subject, textBody, htmlBody string) error {
				return errors.New("smtp down")
			},
		}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, notifier)
		err := uc.SendResetOTP(context.Background(), "a@x.com")

		if !errors.Is(err, ErrNotificationFailure) {
			t.Errorf("expected ErrNotificationFailure, got %v", err)
		}
	})
}

func TestAuthUsecase_ResetPassword(t *testing.T) {
	t.Run("correct code updates the password and clears the pair", func(t *testing.T) {
		oldHash, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
		user := &entity.User{ID: "user-1", Email: "a@x.com", Password: string(oldHash)}
		user.BindOTP(entity.OTPPurposeReset, "654321", time.Now().Add(15*time.Minute))
		mockRepo := &mockUserRepository{UpdateByEmailFunc: inMemoryUpdate(user)}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, &mockNotifier{})
		if err := uc.ResetPassword(context.Background(), "a@x.com", "654321", "new-password-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("new-password-1")); err != nil {
			t.Errorf("password not updated: %v", err)
		}
		if user.ResetOtp != nil || user.ResetOtpExpireAt != nil {
			t.Error("reset pair not cleared")
		}

		// The consumed code cannot be replayed.
		err := uc.ResetPassword(context.Background(), "a@x.com", "654321", "another-password")
		if !errors.Is(err, domain.ErrOTPInvalid) {
			t.Errorf("expected ErrOTPInvalid on replay, got %v", err)
		}
	})

	t.Run("expired code leaves the password untouched", func(t *testing.T) {
		oldHash, _ := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
		user := &entity.User{ID: "user-1", Email: "a@x.com", Password: string(oldHash)}
		// Bound 16 minutes ago with a 15 minute window.
		user.BindOTP(entity.OTPPurposeReset, "654321", time.Now().Add(-time.Minute))
		mockRepo := &mockUserRepository{UpdateByEmailFunc: inMemoryUpdate(user)}

		uc := NewAuthUsecase(mockRepo, &mockTokenIssuer{}, &mockNotifier{})
		err := uc.ResetPassword(context.Background(), "a@x.com", "654321", "new-password-1")

		if !errors.Is(err, domain.ErrOTPExpired) {
			t.Errorf("expected ErrOTPExpired, got %v", err)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("old-password")); err != nil {
			t.Error("password must not change on expired code")
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, &mockTokenIssuer{}, &mockNotifier{})
		err := uc.ResetPassword(context.Background(), "missing@x.com", "654321", "new-password-1")

		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})
}
