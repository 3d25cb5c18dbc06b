// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain vocabulary shared by handlers and services:
// security log levels and event names, and the validated input types for
// portfolio content.
package model

// Security log levels. LevelDanger is shown as an error in the admin UI.
const (
	LevelInfo    = "INFO"
	LevelSuccess = "SUCCESS"
	LevelWarning = "WARNING"
	LevelDanger  = "DANGER"
)

// Levels lists every valid level, lowest severity first.
var Levels = []string{LevelInfo, LevelSuccess, LevelWarning, LevelDanger}

// ValidLevel reports whether level is one of Levels.
func ValidLevel(level string) bool {
	for _, l := range Levels {
		if l == level {
			return true
		}
	}
	return false
}

// Security log event names.
const (
	EventCreateProject    = "CREATE_PROJECT"
	EventUpdateProject    = "UPDATE_PROJECT"
	EventDeleteProject    = "DELETE_PROJECT"
	EventCreateSkill      = "CREATE_SKILL"
	EventUpdateSkill      = "UPDATE_SKILL"
	EventDeleteSkill      = "DELETE_SKILL"
	EventCreateExperience = "CREATE_EXPERIENCE"
	EventUpdateExperience = "UPDATE_EXPERIENCE"
	EventDeleteExperience = "DELETE_EXPERIENCE"
	EventUpdateSettings   = "UPDATE_SETTINGS"
	EventUpdateProfile    = "UPDATE_PROFILE"
	EventUploadFile       = "UPLOAD_FILE"
	EventContactMessage   = "CONTACT_MESSAGE"

	EventAdminLogin             = "ADMIN_LOGIN"
	EventAdminLogout            = "ADMIN_LOGOUT"
	EventLoginFailed            = "LOGIN_FAILED"
	EventAccountLocked          = "ACCOUNT_LOCKED"
	EventPasswordResetRequested = "PASSWORD_RESET_REQUESTED"
	EventPasswordReset          = "PASSWORD_RESET"

	EventSystemWarning = "SYSTEM_WARNING"
	EventSystemError   = "SYSTEM_ERROR"
)
