// Package inmemdb is the in-memory storage of the mock backend.
package inmemdb

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core/entity"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnknownTable = errors.New("unknown table")
)

const UsersTable = "users"

// Tables served by the mock backend, keyed the same as their API path segment.
var Tables = []string{
	UsersTable, "schools", "classes", "divisions", "subjects",
	"attendance", "assignments", "announcements", "fees", "timetable",
}

type (
	DB struct {
		tables map[string]*table
		pwd    *passwordTable
		roles  map[string]Role
	}

	table struct {
		sync.RWMutex
		pkCount int
		rows    map[string]entity.Record
	}
)

func Open() *DB {
	db := &DB{
		tables: make(map[string]*table, len(Tables)),
		pwd:    &passwordTable{table: make(map[string][]byte)},
		roles:  defaultRoles(),
	}
	for _, name := range Tables {
		db.tables[name] = &table{rows: make(map[string]entity.Record)}
	}
	return db
}

func (db *DB) table(name string) (*table, error) {
	t, ok := db.tables[name]
	if !ok {
		return nil, errors.Wrap(ErrUnknownTable, name)
	}
	return t, nil
}

// Query is a page request over one table.
type Query struct {
	AccountID    string
	Type         string // users only
	Page         int
	Size         int
	Search       string
	SortBy       string
	SortDir      string
	Filters      map[string]string
	ClassList    []string
	DivisionList []string
}

// Query returns one page of matching rows and the total number of matches.
func (db *DB) Query(name string, q Query) ([]entity.Record, int, error) {
	t, err := db.table(name)
	if err != nil {
		return nil, 0, err
	}
	t.RLock()
	rows := make([]entity.Record, 0, len(t.rows))
	for _, r := range t.rows {
		if match(name, r, q) {
			rows = append(rows, clone(r))
		}
	}
	t.RUnlock()

	sortBy := q.SortBy
	if sortBy == "" {
		sortBy = "id"
	}
	desc := strings.EqualFold(q.SortDir, "desc")
	sort.SliceStable(rows, func(i, j int) bool {
		c := compare(rows[i].Text(sortBy), rows[j].Text(sortBy))
		if c == 0 {
			c = compare(rows[i].ID().String(), rows[j].ID().String())
		}
		if desc {
			return c > 0
		}
		return c < 0
	})

	total := len(rows)
	size := q.Size
	if size <= 0 {
		size = 10
	}
	start := q.Page * size
	if start < 0 || start >= total {
		return []entity.Record{}, total, nil
	}
	end := start + size
	if end > total {
		end = total
	}
	return rows[start:end], total, nil
}

// selfKeys name the reference key a table's own id answers to, so that a
// class filter on the classes table matches the class itself.
var selfKeys = map[string]string{
	"schools":   "schoolId",
	"classes":   "classId",
	"divisions": "divisionId",
	"subjects":  "subjectId",
}

// match applies q to r. Filters on keys r does not carry are ignored.
func match(table string, r entity.Record, q Query) bool {
	field := func(key string) (string, bool) {
		if selfKeys[table] == key {
			return r.ID().String(), true
		}
		if _, ok := r[key]; !ok {
			return "", false
		}
		return r.Text(key), true
	}
	if q.AccountID != "" && r.Text("accountId") != q.AccountID {
		return false
	}
	if q.Type != "" && !strings.EqualFold(r.Text("type"), q.Type) {
		return false
	}
	for k, v := range q.Filters {
		if got, ok := field(k); ok && v != "" && got != v {
			return false
		}
	}
	if got, ok := field("classId"); ok && len(q.ClassList) > 0 && !contains(q.ClassList, got) {
		return false
	}
	if got, ok := field("divisionId"); ok && len(q.DivisionList) > 0 && !contains(q.DivisionList, got) {
		return false
	}
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		for k, v := range r {
			if k == "id" || k == "accountId" {
				continue
			}
			if _, ok := v.(string); ok && strings.Contains(strings.ToLower(r.Text(k)), s) {
				return true
			}
		}
		return false
	}
	return true
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

func compare(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func clone(r entity.Record) entity.Record {
	out := make(entity.Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func (db *DB) Get(name, id string) (entity.Record, error) {
	t, err := db.table(name)
	if err != nil {
		return nil, err
	}
	t.RLock()
	defer t.RUnlock()
	r, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(r), nil
}

// Create stores rec under the next id and fills the derived name fields.
func (db *DB) Create(name string, rec entity.Record) (entity.Record, error) {
	t, err := db.table(name)
	if err != nil {
		return nil, err
	}
	rec = clone(rec)
	db.enrich(rec)

	t.Lock()
	defer t.Unlock()
	t.pkCount++
	rec["id"] = t.pkCount
	t.rows[strconv.Itoa(t.pkCount)] = rec
	return clone(rec), nil
}

// Update merges rec into the stored row. The id never changes.
func (db *DB) Update(name, id string, rec entity.Record) (entity.Record, error) {
	t, err := db.table(name)
	if err != nil {
		return nil, err
	}
	t.RLock()
	cur, ok := t.rows[id]
	t.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	merged := clone(cur)
	for k, v := range rec {
		if k != "id" {
			merged[k] = v
		}
	}
	db.enrich(merged)

	t.Lock()
	defer t.Unlock()
	if _, ok = t.rows[id]; !ok {
		return nil, ErrNotFound
	}
	t.rows[id] = merged
	return clone(merged), nil
}

func (db *DB) Delete(name, id string) error {
	t, err := db.table(name)
	if err != nil {
		return err
	}
	t.Lock()
	defer t.Unlock()
	if _, ok := t.rows[id]; !ok {
		return ErrNotFound
	}
	delete(t.rows, id)
	if name == UsersTable {
		db.pwd.remove(id)
	}
	return nil
}

// refs maps a reference key to its table and the derived display field.
var refs = []struct{ key, table, nameKey string }{
	{"schoolId", "schools", "schoolName"},
	{"classId", "classes", "className"},
	{"divisionId", "divisions", "divisionName"},
	{"subjectId", "subjects", "subjectName"},
	{"studentId", UsersTable, "studentName"},
}

func (db *DB) enrich(rec entity.Record) {
	for _, ref := range refs {
		id := rec.Text(ref.key)
		if id == "" {
			continue
		}
		other, err := db.Get(ref.table, id)
		if err != nil {
			continue
		}
		label := other.Text("name")
		if ref.table == UsersTable {
			label = strings.TrimSpace(other.Text("firstName") + " " + other.Text("lastName"))
		}
		rec[ref.nameKey] = label
	}
}
