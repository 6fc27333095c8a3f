package inmemdb

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNameTaken      = errors.New("user name already taken")
)

type passwordTable struct {
	sync.RWMutex
	table map[string][]byte
}

func (t *passwordTable) remove(id string) {
	t.Lock()
	delete(t.table, id)
	t.Unlock()
}

type Role struct {
	ID          int
	Name        string
	Permissions []session.Permission
}

func (db *DB) Role(userType string) (Role, bool) {
	r, ok := db.roles[strings.ToUpper(userType)]
	return r, ok
}

// Allows reports whether users of the given type may perform act on kind.
func (db *DB) Allows(userType string, kind entity.Kind, act session.Action) bool {
	role, ok := db.Role(userType)
	if !ok {
		return false
	}
	for _, p := range role.Permissions {
		if strings.EqualFold(p.EntityName, string(kind)) {
			return p.Actions.Allows(act)
		}
	}
	return false
}

func (db *DB) SetPassword(userID, pwd string) error {
	if _, err := db.Get(UsersTable, userID); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.MinCost)
	if err != nil {
		return errors.Wrap(err, "hashing password")
	}
	db.pwd.Lock()
	db.pwd.table[userID] = hash
	db.pwd.Unlock()
	return nil
}

// Authenticate finds the user of the account by name and type and checks
// their password.
func (db *DB) Authenticate(accountID, userName, userType, pwd string) (entity.Record, error) {
	u, ok := db.findUser(accountID, userName)
	if !ok || !strings.EqualFold(u.Text("type"), userType) {
		return nil, ErrInvalidCredentials
	}
	db.pwd.RLock()
	hash, ok := db.pwd.table[u.ID().String()]
	db.pwd.RUnlock()
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(pwd)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// CheckUserName fails when another user of the account already uses name.
func (db *DB) CheckUserName(accountID, name, exceptID string) error {
	if u, ok := db.findUser(accountID, name); ok && u.ID().String() != exceptID {
		return ErrUserNameTaken
	}
	return nil
}

func (db *DB) findUser(accountID, name string) (entity.Record, bool) {
	t := db.tables[UsersTable]
	t.RLock()
	defer t.RUnlock()
	for _, u := range t.rows {
		if u.Text("accountId") == accountID && strings.EqualFold(u.Text("userName"), name) {
			return clone(u), true
		}
	}
	return nil, false
}

func grant(kind entity.Kind, acts ...session.Action) session.Permission {
	var set session.ActionSet
	for _, a := range acts {
		switch a {
		case session.ActionAdd:
			set.Add = true
		case session.ActionView:
			set.View = true
		case session.ActionEdit:
			set.Edit = true
		case session.ActionDelete:
			set.Delete = true
		}
	}
	return session.Permission{Name: string(kind) + "_ACCESS", EntityName: string(kind), Actions: set}
}

func defaultRoles() map[string]Role {
	const (
		add  = session.ActionAdd
		view = session.ActionView
		edit = session.ActionEdit
		del  = session.ActionDelete
	)
	var all []session.Permission
	for _, k := range []entity.Kind{
		entity.KindStudent, entity.KindTeacher, entity.KindClass, entity.KindSchool,
		entity.KindDivision, entity.KindSubject, entity.KindAttendance, entity.KindAssignment,
		entity.KindAnnouncement, entity.KindFee, entity.KindTimetable,
	} {
		all = append(all, grant(k, add, view, edit, del))
	}
	return map[string]Role{
		"ADMIN": {ID: 1, Name: "ADMIN", Permissions: all},
		"TEACHER": {ID: 2, Name: "TEACHER", Permissions: []session.Permission{
			grant(entity.KindStudent, view, edit),
			grant(entity.KindAttendance, add, view, edit),
			grant(entity.KindAssignment, add, view, edit),
			grant(entity.KindAnnouncement, add, view),
			grant(entity.KindClass, view),
			grant(entity.KindTimetable, view),
		}},
		"STUDENT": {ID: 3, Name: "STUDENT", Permissions: []session.Permission{
			grant(entity.KindAttendance, view),
			grant(entity.KindAssignment, view),
			grant(entity.KindAnnouncement, view),
			grant(entity.KindFee, view),
			grant(entity.KindClass, view),
			grant(entity.KindTimetable, view),
		}},
	}
}
