package inmemdb

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core/entity"
)

const (
	SeedAccountID = "1"
	SeedPassword  = "password123"
)

var seedFirstNames = []string{
	"Asha", "Rohan", "Meera", "Kabir", "Isha", "Arjun", "Diya", "Vihaan", "Anaya", "Reyansh", "Sara", "Advait",
}

// Seed fills an empty DB with one account holding an admin, a teacher and a
// dozen students with their school data. All users share SeedPassword.
func Seed(db *DB) error {
	add := func(table string, rec entity.Record) (entity.Record, error) {
		rec["accountId"] = 1
		return db.Create(table, rec)
	}

	for _, r := range []entity.Record{
		{"name": "Greenfield High School", "address": "12 Park Road"},
		{"name": "Riverside Academy", "address": "4 River Lane"},
	} {
		if _, err := add("schools", r); err != nil {
			return errors.Wrap(err, "seeding schools")
		}
	}
	for _, r := range []entity.Record{
		{"name": "Grade 9", "section": "A", "schoolId": 1, "subjects": []string{"Mathematics", "Science"}, "teacherAssigned": 2},
		{"name": "Grade 10", "section": "A", "schoolId": 1, "subjects": []string{"Mathematics", "English"}, "teacherAssigned": 2},
	} {
		if _, err := add("classes", r); err != nil {
			return errors.Wrap(err, "seeding classes")
		}
	}
	for _, r := range []entity.Record{
		{"name": "A", "classId": 1},
		{"name": "B", "classId": 1},
		{"name": "A", "classId": 2},
	} {
		if _, err := add("divisions", r); err != nil {
			return errors.Wrap(err, "seeding divisions")
		}
	}
	for _, r := range []entity.Record{
		{"name": "Mathematics", "code": "MATH"},
		{"name": "Science", "code": "SCI"},
		{"name": "English", "code": "ENG"},
	} {
		if _, err := add("subjects", r); err != nil {
			return errors.Wrap(err, "seeding subjects")
		}
	}

	users := []entity.Record{
		{"type": "ADMIN", "userName": "admin", "firstName": "Alice", "lastName": "Admin", "email": "admin@example.com"},
		{
			"type": "TEACHER", "userName": "teacher", "firstName": "Tom", "lastName": "Teacher", "email": "teacher@example.com",
			"subject": "Mathematics", "schoolId": 1,
			"allocatedClasses": []map[string]interface{}{{"classId": 1, "divisionId": 1}, {"classId": 2, "divisionId": 3}},
		},
		{
			"type": "STUDENT", "userName": "student", "firstName": "Sam", "lastName": "Student", "email": "student@example.com",
			"rollNo": "100", "schoolId": 1, "classId": 1, "divisionId": 1,
		},
	}
	divisions := []struct{ class, division int }{{1, 1}, {1, 2}, {2, 3}}
	for i, name := range seedFirstNames {
		d := divisions[i%len(divisions)]
		users = append(users, entity.Record{
			"type": "STUDENT", "userName": fmt.Sprintf("student%02d", i+1), "firstName": name, "lastName": "Kumar",
			"email": fmt.Sprintf("student%02d@example.com", i+1), "rollNo": fmt.Sprintf("%d", 101+i),
			"schoolId": 1, "classId": d.class, "divisionId": d.division,
		})
	}
	for _, u := range users {
		rec, err := add(UsersTable, u)
		if err != nil {
			return errors.Wrap(err, "seeding users")
		}
		if err = db.SetPassword(rec.ID().String(), SeedPassword); err != nil {
			return err
		}
	}

	for _, seed := range []struct {
		table string
		rows  []entity.Record
	}{
		{"attendance", []entity.Record{
			{"attendanceDate": "2024-03-01", "schoolId": 1, "classId": 1, "divisionId": 1, "subjectId": 1,
				"entries": []map[string]interface{}{{"studentId": 3, "status": "Present"}, {"studentId": 4, "status": "Absent"}}},
			{"attendanceDate": "2024-03-01", "schoolId": 1, "classId": 2, "divisionId": 3, "subjectId": 1},
		}},
		{"assignments", []entity.Record{
			{"name": "Algebra worksheet", "description": "Exercises 1 to 20", "subjectId": 1, "status": "ACTIVE",
				"deadLine": "2024-03-15", "schoolId": 1, "classId": 1, "divisionId": 1, "teacherId": 2},
			{"name": "Essay", "description": "My favourite book", "subjectId": 3, "status": "ACTIVE",
				"deadLine": "2024-03-20", "schoolId": 1, "classId": 2, "divisionId": 3, "teacherId": 2},
		}},
		{"announcements", []entity.Record{
			{"title": "Sports day", "message": "Sports day is on Friday.", "targetAudience": "all", "date": "2024-03-05", "schoolId": 1},
			{"title": "Staff meeting", "message": "Meeting at 4pm.", "targetAudience": "teachers", "date": "2024-03-06", "schoolId": 1},
		}},
		{"fees", []entity.Record{
			{"studentId": 3, "amount": 1500, "dueDate": "2024-04-01", "status": "Pending", "schoolId": 1, "classId": 1, "divisionId": 1},
			{"studentId": 4, "amount": 1500, "dueDate": "2024-04-01", "status": "Paid", "schoolId": 1, "classId": 1, "divisionId": 1},
			{"studentId": 5, "amount": 1500, "dueDate": "2024-04-01", "status": "Pending", "schoolId": 1, "classId": 1, "divisionId": 2},
		}},
		{"timetable", []entity.Record{
			{"day": "Monday", "time": "09:00", "subjectName": "Mathematics", "teacherId": 2, "schoolId": 1, "classId": 1, "divisionId": 1},
			{"day": "Monday", "time": "10:00", "subjectName": "Science", "schoolId": 1, "classId": 1, "divisionId": 1},
			{"day": "Tuesday", "time": "09:00", "subjectName": "English", "schoolId": 1, "classId": 2, "divisionId": 3},
		}},
	} {
		for _, r := range seed.rows {
			if _, err := add(seed.table, r); err != nil {
				return errors.Wrapf(err, "seeding %s", seed.table)
			}
		}
	}
	return nil
}
