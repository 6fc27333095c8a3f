// Package session holds the authenticated user, their scope and the permission gate.
package session

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/vijayholve/scm-app-frontend/core/entity"
)

type UserType string

const (
	Admin   UserType = "ADMIN"
	Teacher UserType = "TEACHER"
	Student UserType = "STUDENT"
	Guest   UserType = "GUEST"
)

// ParseUserType is case-insensitive; unknown values are Guest.
func ParseUserType(s string) UserType {
	switch t := UserType(strings.ToUpper(strings.TrimSpace(s))); t {
	case Admin, Teacher, Student:
		return t
	}
	return Guest
}

// Scope is what a user is attached to: a student's own school, class and
// division, or a teacher's allocated class/division pairs.
type Scope struct {
	SchoolID         entity.ID           `json:"schoolId,omitempty"`
	ClassID          entity.ID           `json:"classId,omitempty"`
	DivisionID       entity.ID           `json:"divisionId,omitempty"`
	AllocatedClasses []entity.Allocation `json:"allocatedClasses,omitempty"`
}

// Profile is the user information received at login.
type Profile struct {
	UserID    entity.ID `json:"userId"`
	UserName  string    `json:"userName"`
	Type      UserType  `json:"type"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	Email     string    `json:"email,omitempty"`
	AccountID entity.ID `json:"accountId"`
}

type Session struct {
	AccessToken string       `json:"accessToken"`
	Profile     Profile      `json:"profile"`
	RoleName    string       `json:"roleName,omitempty"`
	Permissions []Permission `json:"permissions"`
	Scope       Scope        `json:"scope"`

	table permissionTable
}

// New builds a session and indexes its permissions.
func New(token string, profile Profile, roleName string, perms []Permission, scope Scope) *Session {
	profile.Type = ParseUserType(string(profile.Type))
	s := &Session{
		AccessToken: token,
		Profile:     profile,
		RoleName:    roleName,
		Permissions: perms,
		Scope:       scope,
	}
	s.table = newPermissionTable(perms)
	return s
}

// UnmarshalJSON rebuilds the permission table of a stored session.
func (s *Session) UnmarshalJSON(b []byte) error {
	type stored Session
	var st stored
	if err := json.Unmarshal(b, &st); err != nil {
		return err
	}
	*s = Session(st)
	s.Profile.Type = ParseUserType(string(s.Profile.Type))
	s.table = newPermissionTable(s.Permissions)
	return nil
}

func (s *Session) IsAuthenticated() bool {
	return s != nil && s.AccessToken != ""
}

func (s *Session) Type() UserType {
	if s == nil {
		return Guest
	}
	return s.Profile.Type
}

func (s *Session) UserID() entity.ID {
	if s == nil {
		return ""
	}
	return s.Profile.UserID
}

func (s *Session) AccountID() entity.ID {
	if s == nil {
		return ""
	}
	return s.Profile.AccountID
}

func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	name := strings.TrimSpace(s.Profile.FirstName + " " + s.Profile.LastName)
	if name == "" {
		return s.Profile.UserName
	}
	return name
}

// ExpiresAt reads the token's exp claim without verifying the signature.
func (s *Session) ExpiresAt() (time.Time, bool) {
	if !s.IsAuthenticated() {
		return time.Time{}, false
	}
	token, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := token.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token is known to be expired at now.
// Tokens without a readable exp never expire client side.
func (s *Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}
