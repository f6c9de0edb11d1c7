package services

import (
	"testing"

	"shallowfind/internal/testutil"
)

func TestCreateUser(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		user, err := svc.CreateUser("alice@test.com", "password123", "Alice", "Smith")
		testutil.AssertNoError(t, err)
		if user.Password == "password123" {
			t.Error("expected password to be hashed")
		}
		if !svc.VerifyPassword(user, "password123") {
			t.Error("expected password to verify")
		}
		if svc.VerifyPassword(user, "wrong") {
			t.Error("expected wrong password to fail verification")
		}
	})

	t.Run("duplicate_email", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		_, err := svc.CreateUser("bob@test.com", "password123", "Bob", "Jones")
		testutil.AssertNoError(t, err)

		_, err = svc.CreateUser("bob@test.com", "different456", "Bobby", "Jones")
		testutil.AssertAppError(t, err, "DUPLICATE_EMAIL")
	})
}

func TestRefreshTokenHash(t *testing.T) {
	t.Run("store_and_fetch", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)
		user := testutil.CreateTestUser(t, db)

		testutil.AssertNoError(t, svc.StoreRefreshTokenHash(user.ID, "abc123"))

		hash, err := svc.GetRefreshTokenHash(user.ID)
		testutil.AssertNoError(t, err)
		if hash != "abc123" {
			t.Errorf("expected stored hash abc123, got %s", hash)
		}

		stored, err := svc.GetUserByID(user.ID)
		testutil.AssertNoError(t, err)
		if stored.LastLoginAt == nil {
			t.Error("expected last login timestamp to be set")
		}
	})

	t.Run("unknown_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewUserService(db)

		err := svc.StoreRefreshTokenHash("66666666-6666-7666-8666-666666666666", "abc123")
		testutil.AssertAppError(t, err, "USER_NOT_FOUND")
	})
}
