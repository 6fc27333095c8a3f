package session

import "strings"

type Action string

const (
	ActionAdd    Action = "add"
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

func ParseAction(s string) (Action, bool) {
	switch a := Action(strings.ToLower(strings.TrimSpace(s))); a {
	case ActionAdd, ActionView, ActionEdit, ActionDelete:
		return a, true
	}
	return "", false
}

type ActionSet struct {
	Add    bool `json:"add"`
	View   bool `json:"view"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

func (a ActionSet) Allows(act Action) bool {
	switch act {
	case ActionAdd:
		return a.Add
	case ActionView:
		return a.View
	case ActionEdit:
		return a.Edit
	case ActionDelete:
		return a.Delete
	}
	return false
}

type Permission struct {
	ID         int       `json:"id,omitempty"`
	Name       string    `json:"name,omitempty"`
	EntityName string    `json:"entityName"`
	Actions    ActionSet `json:"actions"`
}

// permissionTable is keyed by upper-cased entity name. The first entry for a name wins.
type permissionTable map[string]ActionSet

func newPermissionTable(perms []Permission) permissionTable {
	t := make(permissionTable, len(perms))
	for _, p := range perms {
		key := strings.ToUpper(strings.TrimSpace(p.EntityName))
		if key == "" {
			continue
		}
		if _, ok := t[key]; ok {
			continue
		}
		t[key] = p.Actions
	}
	return t
}

// HasPermission never fails: an anonymous session, an unknown entity or an
// unknown action is simply denied.
func (s *Session) HasPermission(entityName string, action Action) bool {
	if s == nil {
		return false
	}
	key := strings.ToUpper(strings.TrimSpace(entityName))
	if s.table != nil {
		return s.table[key].Allows(action)
	}
	for _, p := range s.Permissions {
		if strings.EqualFold(strings.TrimSpace(p.EntityName), key) {
			return p.Actions.Allows(action)
		}
	}
	return false
}
