// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"testing"

	"github.com/google/uuid"

	"oikos/internal/models"
)

func TestUserStoreCreate(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-create@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create("Test User", email, "testpass123", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("expected non-nil UUID")
	}
	if user.Email != email {
		t.Errorf("email: got %q, want %q", user.Email, email)
	}
	if user.Name != "Test User" {
		t.Errorf("name: got %q, want %q", user.Name, "Test User")
	}
	if user.Role != models.RoleEditor {
		t.Errorf("role: got %q, want %q", user.Role, models.RoleEditor)
	}
	if user.TOTPEnabled {
		t.Error("expected totp_enabled=false for new user")
	}
	if !user.IsActive {
		t.Error("expected new user to be active")
	}
	if user.PasswordHash == "" {
		t.Error("expected non-empty password hash")
	}
	if user.PasswordHash == "testpass123" {
		t.Error("password hash must not be plaintext")
	}
}

func TestUserStoreFindByEmail(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-findbyemail@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	// Not found case.
	user, err := s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail (not found): %v", err)
	}
	if user != nil {
		t.Error("expected nil for non-existent user")
	}

	created, err := s.Create("Find Me", email, "pass", models.RoleUser)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	user, err = s.FindByEmail(email)
	if err != nil {
		t.Fatalf("FindByEmail: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != created.ID {
		t.Errorf("ID mismatch: got %s, want %s", user.ID, created.ID)
	}
}

func TestUserStoreCheckPassword(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-checkpass@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create("Pass User", email, "correct-horse", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if !s.CheckPassword(user, "correct-horse") {
		t.Error("expected correct password to verify")
	}
	if s.CheckPassword(user, "wrong-horse") {
		t.Error("expected wrong password to fail")
	}
}

func TestUserStoreTOTPLifecycle(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-totp@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create("TOTP User", email, "pass", models.RoleAdmin)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !user.Needs2FASetup() {
		t.Error("new user should need 2FA setup")
	}

	if err := s.SetTOTPSecret(user.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret: %v", err)
	}
	if err := s.EnableTOTP(user.ID); err != nil {
		t.Fatalf("EnableTOTP: %v", err)
	}

	user, err = s.FindByID(user.ID)
	if err != nil || user == nil {
		t.Fatalf("FindByID: %v", err)
	}
	if !user.TOTPEnabled {
		t.Error("expected totp_enabled=true after EnableTOTP")
	}
	if user.TOTPSecret == nil || *user.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Error("expected stored TOTP secret")
	}

	if err := s.ResetTOTP(user.ID); err != nil {
		t.Fatalf("ResetTOTP: %v", err)
	}
	user, _ = s.FindByID(user.ID)
	if user.TOTPEnabled || user.TOTPSecret != nil {
		t.Error("expected TOTP cleared after reset")
	}
	if !user.Needs2FASetup() {
		t.Error("user should need 2FA setup again after reset")
	}
}

func TestUserStoreTouchLogin(t *testing.T) {
	db := testDB(t)
	s := NewUserStore(db)

	email := "test-touchlogin@store-test.local"
	t.Cleanup(func() { cleanUsers(t, db, email) })

	user, err := s.Create("Login User", email, "pass", models.RoleEditor)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if user.LastLoginAt != nil {
		t.Error("expected no last_login_at for new user")
	}

	if err := s.TouchLogin(user.ID); err != nil {
		t.Fatalf("TouchLogin: %v", err)
	}

	user, _ = s.FindByID(user.ID)
	if user.LastLoginAt == nil {
		t.Error("expected last_login_at after TouchLogin")
	}
}
