package entity

import "github.com/volatiletech/null/v8"

// Kind is the entity name permissions are granted on.
type Kind string

const (
	KindStudent      Kind = "STUDENT"
	KindTeacher      Kind = "TEACHER"
	KindClass        Kind = "CLASS"
	KindSchool       Kind = "SCHOOL"
	KindDivision     Kind = "DIVISION"
	KindSubject      Kind = "SUBJECT"
	KindAttendance   Kind = "ATTENDANCE"
	KindAssignment   Kind = "ASSIGNMENT"
	KindAnnouncement Kind = "ANNOUNCEMENT"
	KindFee          Kind = "FEE"
	KindTimetable    Kind = "TIMETABLE"
)

type Student struct {
	ID            ID          `json:"id"`
	UserName      string      `json:"userName,omitempty"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	Email         string      `json:"email,omitempty"`
	Mobile        string      `json:"mobile,omitempty"`
	RollNo        string      `json:"rollNo,omitempty"`
	Dob           string      `json:"dob,omitempty"`
	Address       string      `json:"address,omitempty"`
	ParentContact string      `json:"parentContact,omitempty"`
	SchoolID      ID          `json:"schoolId,omitempty"`
	ClassID       ID          `json:"classId,omitempty"`
	DivisionID    ID          `json:"divisionId,omitempty"`
	SchoolName    string      `json:"schoolName,omitempty"`
	ClassName     string      `json:"className,omitempty"`
	DivisionName  string      `json:"divisionName,omitempty"`
	ProfilePic    null.String `json:"profilePic"`
}

type Allocation struct {
	ClassID    ID `json:"classId"`
	DivisionID ID `json:"divisionId"`
}

type Teacher struct {
	ID               ID           `json:"id"`
	UserName         string       `json:"userName,omitempty"`
	FirstName        string       `json:"firstName"`
	LastName         string       `json:"lastName"`
	Email            string       `json:"email,omitempty"`
	Mobile           string       `json:"mobile,omitempty"`
	Subject          string       `json:"subject,omitempty"`
	SchoolID         ID           `json:"schoolId,omitempty"`
	AllocatedClasses []Allocation `json:"allocatedClasses,omitempty"`
	ProfilePic       null.String  `json:"profilePic"`
}

type ScheduleItem struct {
	Day     string `json:"day"`
	Time    string `json:"time"`
	Subject string `json:"subject"`
}

type Class struct {
	ID              ID             `json:"id"`
	Name            string         `json:"name"`
	Section         string         `json:"section,omitempty"`
	SchoolID        ID             `json:"schoolId,omitempty"`
	Subjects        []string       `json:"subjects,omitempty"`
	TeacherAssigned ID             `json:"teacherAssigned,omitempty"`
	Schedule        []ScheduleItem `json:"schedule,omitempty"`
}

type School struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

type Division struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	ClassID ID     `json:"classId,omitempty"`
}

type Subject struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type AttendanceEntry struct {
	StudentID ID     `json:"studentId"`
	Status    string `json:"status"` // Present | Absent
}

type Attendance struct {
	ID             ID                `json:"id"`
	AttendanceDate string            `json:"attendanceDate"`
	SchoolID       ID                `json:"schoolId,omitempty"`
	ClassID        ID                `json:"classId,omitempty"`
	DivisionID     ID                `json:"divisionId,omitempty"`
	SubjectID      ID                `json:"subjectId,omitempty"`
	SubjectName    string            `json:"subjectName,omitempty"`
	SchoolName     string            `json:"schoolName,omitempty"`
	ClassName      string            `json:"className,omitempty"`
	DivisionName   string            `json:"divisionName,omitempty"`
	Entries        []AttendanceEntry `json:"entries,omitempty"`
}

type Submission struct {
	StudentID   ID          `json:"studentId"`
	SubmittedAt null.Time   `json:"submittedAt"`
	FileURL     null.String `json:"fileUrl"`
	Grade       null.String `json:"grade"`
	Remarks     null.String `json:"remarks"`
}

type Assignment struct {
	ID            ID           `json:"id"`
	Name          string       `json:"name"`
	Description   string       `json:"description,omitempty"`
	SubjectID     ID           `json:"subjectId,omitempty"`
	SubjectName   string       `json:"subjectName,omitempty"`
	Status        string       `json:"status,omitempty"`
	DeadLine      string       `json:"deadLine,omitempty"`
	SchoolID      ID           `json:"schoolId,omitempty"`
	ClassID       ID           `json:"classId,omitempty"`
	DivisionID    ID           `json:"divisionId,omitempty"`
	ClassName     string       `json:"className,omitempty"`
	DivisionName  string       `json:"divisionName,omitempty"`
	TeacherID     ID           `json:"teacherId,omitempty"`
	AttachmentURL null.String  `json:"attachmentUrl"`
	Submissions   []Submission `json:"submissions,omitempty"`
}

type Announcement struct {
	ID             ID     `json:"id"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	TargetAudience string `json:"targetAudience,omitempty"` // all | students | teachers
	Date           string `json:"date,omitempty"`
	SchoolID       ID     `json:"schoolId,omitempty"`
}

type Fee struct {
	ID          ID          `json:"id"`
	StudentID   ID          `json:"studentId"`
	StudentName string      `json:"studentName,omitempty"`
	Amount      float64     `json:"amount"`
	DueDate     string      `json:"dueDate"`
	Status      string      `json:"status"` // Paid | Pending
	ReceiptURL  null.String `json:"receiptUrl"`
	SchoolID    ID          `json:"schoolId,omitempty"`
	ClassID     ID          `json:"classId,omitempty"`
	DivisionID  ID          `json:"divisionId,omitempty"`
}

type TimetableEntry struct {
	ID          ID     `json:"id"`
	Day         string `json:"day"`
	Time        string `json:"time"`
	SubjectName string `json:"subjectName"`
	TeacherID   ID     `json:"teacherId,omitempty"`
	SchoolID    ID     `json:"schoolId,omitempty"`
	ClassID     ID     `json:"classId,omitempty"`
	DivisionID  ID     `json:"divisionId,omitempty"`
}

func (Student) Columns() []Column { return studentColumns }

func (Teacher) Columns() []Column { return teacherColumns }

func (Class) Columns() []Column { return classColumns }

func (School) Columns() []Column { return schoolColumns }

func (Division) Columns() []Column { return divisionColumns }

func (Subject) Columns() []Column { return subjectColumns }

func (Attendance) Columns() []Column { return attendanceColumns }

func (Assignment) Columns() []Column { return assignmentColumns }

func (Announcement) Columns() []Column { return announcementColumns }

func (Fee) Columns() []Column { return feeColumns }

func (TimetableEntry) Columns() []Column { return timetableColumns }
