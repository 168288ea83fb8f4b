// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestUserRolePredicates(t *testing.T) {
	admin := &User{Role: RoleAdmin, IsActive: true}
	if !admin.IsAdmin() {
		t.Error("active admin should be admin")
	}
	if !admin.CanManage() {
		t.Error("active admin should be able to manage")
	}

	editor := &User{Role: RoleEditor, IsActive: true}
	if editor.IsAdmin() {
		t.Error("editor is not admin")
	}
	if !editor.CanManage() {
		t.Error("active editor should be able to manage")
	}

	inactive := &User{Role: RoleAdmin, IsActive: false}
	if inactive.CanManage() {
		t.Error("inactive admin must not manage")
	}
}

func TestUserNeeds2FASetup(t *testing.T) {
	u := &User{TOTPEnabled: false}
	if !u.Needs2FASetup() {
		t.Error("user without TOTP needs setup")
	}
	u.TOTPEnabled = true
	if u.Needs2FASetup() {
		t.Error("enrolled user does not need setup")
	}
}

func TestContactReferenceNumber(t *testing.T) {
	c := &Contact{ID: uuid.MustParse("a1b2c3d4-0000-0000-0000-000000000000")}
	ref := c.ReferenceNumber()
	if ref != "MSG-A1B2C3D4" {
		t.Errorf("ReferenceNumber() = %q, want MSG-A1B2C3D4", ref)
	}
}

func TestContactIsRead(t *testing.T) {
	c := &Contact{}
	if c.IsRead() {
		t.Error("fresh contact is unread")
	}
	now := c.CreatedAt
	c.ReadAt = &now
	if !c.IsRead() {
		t.Error("contact with read_at is read")
	}
}
