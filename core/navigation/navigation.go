// Package navigation defines the screens each role can reach.
package navigation

import (
	"strings"

	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

// Screen is a navigation target. Entity screens also need Action on the
// entity, view when unset.
type Screen struct {
	Name   string
	Entity entity.Kind
	Action session.Action
}

var (
	Login         = Screen{Name: "Login"}
	Dashboard     = Screen{Name: "Dashboard"}
	Profile       = Screen{Name: "Profile"}
	Timetable     = Screen{Name: "Timetable"}
	Students      = Screen{Name: "Students", Entity: entity.KindStudent}
	Teachers      = Screen{Name: "Teachers", Entity: entity.KindTeacher}
	Classes       = Screen{Name: "Classes", Entity: entity.KindClass}
	Assignments   = Screen{Name: "Assignments", Entity: entity.KindAssignment}
	Attendance    = Screen{Name: "Attendance", Entity: entity.KindAttendance}
	Fees          = Screen{Name: "Fees", Entity: entity.KindFee}
	Announcements = Screen{Name: "Announcements", Entity: entity.KindAnnouncement}
)

var trees = map[session.UserType][]Screen{
	session.Admin:   {Dashboard, Students, Teachers, Classes, Assignments, Attendance, Fees, Announcements, Profile},
	session.Teacher: {Dashboard, Attendance, Assignments, Announcements, Profile},
	session.Student: {Dashboard, Timetable, Assignments, Attendance, Fees, Announcements, Profile},
	session.Guest:   {Login},
}

// Tree returns the role's screens in menu order.
func Tree(t session.UserType) []Screen {
	tree, ok := trees[t]
	if !ok {
		tree = trees[session.Guest]
	}
	out := make([]Screen, len(tree))
	copy(out, tree)
	return out
}

// Reachable reports whether the named screen is in the session's tree and allowed.
func Reachable(s *session.Session, name string) bool {
	for _, scr := range treeFor(s) {
		if strings.EqualFold(scr.Name, name) {
			return allowed(s, scr)
		}
	}
	return false
}

// Visible returns the session's tree without the screens it cannot view.
func Visible(s *session.Session) []Screen {
	tree := treeFor(s)
	out := tree[:0]
	for _, scr := range tree {
		if allowed(s, scr) {
			out = append(out, scr)
		}
	}
	return out
}

func treeFor(s *session.Session) []Screen {
	if !s.IsAuthenticated() {
		return Tree(session.Guest)
	}
	return Tree(s.Type())
}

func allowed(s *session.Session, scr Screen) bool {
	if scr.Entity == "" {
		return true
	}
	act := scr.Action
	if act == "" {
		act = session.ActionView
	}
	return s.HasPermission(string(scr.Entity), act)
}
