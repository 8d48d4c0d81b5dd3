package auth

import (
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"booklibrary/internal/config"
	"booklibrary/internal/entities"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&entities.User{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func testService(t *testing.T) *Service {
	t.Helper()
	return NewService(setupTestDB(t), config.Auth{BcryptCost: 4})
}

func TestService_Register(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid user",
			username: "alice",
			email:    "alice@example.com",
			password: "password12345",
			wantErr:  nil,
		},
		{
			name:     "missing username",
			username: "",
			email:    "alice@example.com",
			password: "password12345",
			wantErr:  ErrUsernameRequired,
		},
		{
			name:     "missing email",
			username: "alice",
			email:    "",
			password: "password12345",
			wantErr:  ErrEmailRequired,
		},
		{
			name:     "missing password",
			username: "alice",
			email:    "alice@example.com",
			password: "",
			wantErr:  ErrPasswordRequired,
		},
		{
			name:     "password too short",
			username: "alice",
			email:    "alice@example.com",
			password: "short",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "invalid username",
			username: "a b!",
			email:    "alice@example.com",
			password: "password12345",
			wantErr:  ErrUsernameInvalid,
		},
		{
			name:     "invalid email",
			username: "alice",
			email:    "not-an-email",
			password: "password12345",
			wantErr:  ErrEmailInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testService(t)

			user, err := svc.Register(tt.username, tt.email, tt.password)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Register() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Register() unexpected error: %v", err)
			}
			if user.ID == 0 {
				t.Error("Register() user has no ID")
			}
			if user.PasswordHash == tt.password {
				t.Error("Register() stored the password in plain text")
			}
		})
	}
}

func TestService_Register_DuplicateUsername(t *testing.T) {
	svc := testService(t)

	if _, err := svc.Register("alice", "alice@example.com", "password12345"); err != nil {
		t.Fatalf("first Register() failed: %v", err)
	}

	_, err := svc.Register("alice", "other@example.com", "password12345")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Register() error = %v, want ErrUserExists", err)
	}
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	svc := testService(t)

	if _, err := svc.Register("alice", "alice@example.com", "password12345"); err != nil {
		t.Fatalf("first Register() failed: %v", err)
	}

	_, err := svc.Register("bob", "alice@example.com", "password12345")
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("Register() error = %v, want ErrUserExists", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	svc := testService(t)

	registered, err := svc.Register("alice", "alice@example.com", "password12345")
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	t.Run("by username", func(t *testing.T) {
		user, err := svc.Authenticate("alice", "password12345")
		if err != nil {
			t.Fatalf("Authenticate() failed: %v", err)
		}
		if user.ID != registered.ID {
			t.Errorf("Authenticate() user ID = %d, want %d", user.ID, registered.ID)
		}
		if user.LastLoginAt == nil {
			t.Error("Authenticate() did not record last login")
		}
	})

	t.Run("by email", func(t *testing.T) {
		if _, err := svc.Authenticate("alice@example.com", "password12345"); err != nil {
			t.Fatalf("Authenticate() failed: %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate("alice", "wrongpassword")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.Authenticate("nobody", "password12345")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Authenticate() error = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestService_GetUserByID(t *testing.T) {
	svc := testService(t)

	registered, err := svc.Register("alice", "alice@example.com", "password12345")
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	user, err := svc.GetUserByID(registered.ID)
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("GetUserByID() username = %q, want alice", user.Username)
	}

	if _, err := svc.GetUserByID(9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("GetUserByID() error = %v, want ErrUserNotFound", err)
	}
}
