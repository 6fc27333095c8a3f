package entity

import (
	"sort"
	"strings"

	"github.com/vijayholve/scm-app-frontend/core/form"
)

// Column is a grid column: the record key and its header.
type Column struct {
	Key    string
	Header string
}

// Descriptor binds an entity to its endpoints, grid and form.
type Descriptor struct {
	Name     string // registry key, e.g. "students"
	Title    string
	Kind     Kind
	Path     string // resource base, e.g. "/api/users"
	UserType string // set for resources backed by the users endpoints
	Columns  []Column
	Fields   []form.Field
	Filters  []string
}

var (
	studentColumns = []Column{
		{"id", "ID"}, {"rollNo", "Roll No"}, {"firstName", "First Name"}, {"lastName", "Last Name"},
		{"email", "Email"}, {"className", "Class"}, {"divisionName", "Division"},
	}
	teacherColumns = []Column{
		{"id", "ID"}, {"firstName", "First Name"}, {"lastName", "Last Name"},
		{"email", "Email"}, {"mobile", "Mobile"}, {"subject", "Subject"},
	}
	classColumns        = []Column{{"id", "ID"}, {"name", "Name"}, {"section", "Section"}, {"teacherAssigned", "Teacher"}}
	schoolColumns       = []Column{{"id", "ID"}, {"name", "Name"}, {"address", "Address"}}
	divisionColumns     = []Column{{"id", "ID"}, {"name", "Name"}, {"classId", "Class"}}
	subjectColumns      = []Column{{"id", "ID"}, {"name", "Name"}, {"code", "Code"}}
	attendanceColumns   = []Column{
		{"id", "ID"}, {"subjectName", "Subject"}, {"attendanceDate", "Date"},
		{"className", "Class"}, {"schoolName", "School"}, {"divisionName", "Division"},
	}
	assignmentColumns = []Column{
		{"id", "ID"}, {"name", "Name"}, {"subjectName", "Subject"}, {"deadLine", "Deadline"},
		{"className", "Class"}, {"status", "Status"},
	}
	announcementColumns = []Column{{"id", "ID"}, {"title", "Title"}, {"targetAudience", "Audience"}, {"date", "Date"}}
	feeColumns          = []Column{
		{"id", "ID"}, {"studentName", "Student"}, {"amount", "Amount"}, {"dueDate", "Due Date"}, {"status", "Status"},
	}
	timetableColumns = []Column{{"id", "ID"}, {"day", "Day"}, {"time", "Time"}, {"subjectName", "Subject"}}
)

var scopeFilters = []string{"schoolId", "classId", "divisionId"}

var registry = []Descriptor{
	{
		Name: "students", Title: "Students", Kind: KindStudent, Path: "/api/users", UserType: "STUDENT",
		Columns: studentColumns, Filters: scopeFilters,
		Fields: []form.Field{
			{Name: "firstName", Label: "First Name", Type: form.Text, Required: true},
			{Name: "lastName", Label: "Last Name", Type: form.Text, Required: true},
			{Name: "userName", Label: "Username", Type: form.Text, Required: true},
			{Name: "password", Label: "Password", Type: form.Password},
			{Name: "email", Label: "Email", Type: form.Email, Required: true},
			{Name: "mobile", Label: "Mobile", Type: form.Tel},
			{Name: "rollNo", Label: "Roll No", Type: form.Text},
			{Name: "dob", Label: "Date of Birth", Type: form.Date},
			{Name: "address", Label: "Address", Type: form.TextArea},
			{Name: "schoolId", Label: "School", Type: form.Select, Required: true},
			{Name: "classId", Label: "Class", Type: form.Select, Required: true},
			{Name: "divisionId", Label: "Division", Type: form.Select},
		},
	},
	{
		Name: "teachers", Title: "Teachers", Kind: KindTeacher, Path: "/api/users", UserType: "TEACHER",
		Columns: teacherColumns, Filters: []string{"schoolId"},
		Fields: []form.Field{
			{Name: "firstName", Label: "First Name", Type: form.Text, Required: true},
			{Name: "lastName", Label: "Last Name", Type: form.Text, Required: true},
			{Name: "userName", Label: "Username", Type: form.Text, Required: true},
			{Name: "password", Label: "Password", Type: form.Password},
			{Name: "email", Label: "Email", Type: form.Email, Required: true},
			{Name: "mobile", Label: "Mobile", Type: form.Tel},
			{Name: "subject", Label: "Subject", Type: form.Text},
			{Name: "schoolId", Label: "School", Type: form.Select, Required: true},
		},
	},
	{
		Name: "classes", Title: "Classes", Kind: KindClass, Path: "/api/classes",
		Columns: classColumns, Filters: []string{"schoolId"},
		Fields: []form.Field{
			{Name: "name", Label: "Class Name", Type: form.Text, Required: true},
			{Name: "section", Label: "Section", Type: form.Text},
			{Name: "schoolId", Label: "School", Type: form.Select, Required: true},
			{Name: "teacherAssigned", Label: "Class Teacher", Type: form.Select},
		},
	},
	{
		Name: "schools", Title: "Schools", Kind: KindSchool, Path: "/api/schools",
		Columns: schoolColumns,
		Fields: []form.Field{
			{Name: "name", Label: "School Name", Type: form.Text, Required: true},
			{Name: "address", Label: "Address", Type: form.TextArea},
		},
	},
	{
		Name: "divisions", Title: "Divisions", Kind: KindDivision, Path: "/api/divisions",
		Columns: divisionColumns, Filters: []string{"classId"},
		Fields: []form.Field{
			{Name: "name", Label: "Division Name", Type: form.Text, Required: true},
			{Name: "classId", Label: "Class", Type: form.Select, Required: true},
		},
	},
	{
		Name: "subjects", Title: "Subjects", Kind: KindSubject, Path: "/api/subjects",
		Columns: subjectColumns,
		Fields: []form.Field{
			{Name: "name", Label: "Subject Name", Type: form.Text, Required: true},
			{Name: "code", Label: "Code", Type: form.Text},
		},
	},
	{
		Name: "attendance", Title: "Attendance", Kind: KindAttendance, Path: "/api/attendance",
		Columns: attendanceColumns, Filters: scopeFilters,
		Fields: []form.Field{
			{Name: "attendanceDate", Label: "Date", Type: form.Date, Required: true},
			{Name: "subjectId", Label: "Subject", Type: form.Select, Required: true},
			{Name: "schoolId", Label: "School", Type: form.Select, Required: true},
			{Name: "classId", Label: "Class", Type: form.Select, Required: true},
			{Name: "divisionId", Label: "Division", Type: form.Select},
		},
	},
	{
		Name: "assignments", Title: "Assignments", Kind: KindAssignment, Path: "/api/assignments",
		Columns: assignmentColumns, Filters: scopeFilters,
		Fields: []form.Field{
			{Name: "name", Label: "Assignment Name", Type: form.Text, Required: true},
			{Name: "description", Label: "Description", Type: form.TextArea},
			{Name: "subjectId", Label: "Subject", Type: form.Select, Required: true},
			{Name: "deadLine", Label: "Deadline", Type: form.Date, Required: true},
			{Name: "status", Label: "Status", Type: form.Select, Options: []form.Option{
				{Label: "Active", Value: "ACTIVE"}, {Label: "Closed", Value: "CLOSED"},
			}},
			{Name: "schoolId", Label: "School", Type: form.Select, Required: true},
			{Name: "classId", Label: "Class", Type: form.Select, Required: true},
			{Name: "divisionId", Label: "Division", Type: form.Select},
		},
	},
	{
		Name: "announcements", Title: "Announcements", Kind: KindAnnouncement, Path: "/api/announcements",
		Columns: announcementColumns, Filters: []string{"schoolId"},
		Fields: []form.Field{
			{Name: "title", Label: "Title", Type: form.Text, Required: true},
			{Name: "message", Label: "Message", Type: form.TextArea, Required: true},
			{Name: "targetAudience", Label: "Audience", Type: form.Select, Required: true, Options: []form.Option{
				{Label: "Everyone", Value: "all"}, {Label: "Students", Value: "students"}, {Label: "Teachers", Value: "teachers"},
			}},
			{Name: "date", Label: "Date", Type: form.Date},
			{Name: "schoolId", Label: "School", Type: form.Select},
		},
	},
	{
		Name: "fees", Title: "Fees", Kind: KindFee, Path: "/api/fees",
		Columns: feeColumns, Filters: scopeFilters,
		Fields: []form.Field{
			{Name: "studentId", Label: "Student", Type: form.Select, Required: true},
			{Name: "amount", Label: "Amount", Type: form.Number, Required: true},
			{Name: "dueDate", Label: "Due Date", Type: form.Date, Required: true},
			{Name: "status", Label: "Status", Type: form.Select, Required: true, Options: []form.Option{
				{Label: "Paid", Value: "Paid"}, {Label: "Pending", Value: "Pending"},
			}},
		},
	},
	{
		Name: "timetable", Title: "Timetable", Kind: KindTimetable, Path: "/api/timetable",
		Columns: timetableColumns, Filters: scopeFilters,
		Fields: []form.Field{
			{Name: "day", Label: "Day", Type: form.Text, Required: true},
			{Name: "time", Label: "Time", Type: form.Text, Required: true},
			{Name: "subjectName", Label: "Subject", Type: form.Text, Required: true},
			{Name: "classId", Label: "Class", Type: form.Select, Required: true},
			{Name: "divisionId", Label: "Division", Type: form.Select},
		},
	},
}

// Lookup finds a descriptor by its registry name or its kind, ignoring case.
func Lookup(name string) (Descriptor, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range registry {
		if d.Name == name || strings.ToLower(string(d.Kind)) == name {
			return d, true
		}
	}
	return Descriptor{}, false
}

// Names returns the sorted registry names.
func Names() []string {
	names := make([]string, len(registry))
	for i, d := range registry {
		names[i] = d.Name
	}
	sort.Strings(names)
	return names
}

func Descriptors() []Descriptor {
	out := make([]Descriptor, len(registry))
	copy(out, registry)
	return out
}
