package api_test

import (
	"bytes"
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	inmemdb "github.com/vijayholve/scm-app-frontend/apps/mockapi/store"
	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/listing"
	"github.com/vijayholve/scm-app-frontend/core/session"
	"github.com/vijayholve/scm-app-frontend/services/api"
	"github.com/vijayholve/scm-app-frontend/tests"
)

func TestBackend_login(t *testing.T) {
	b := testutil.StartBackend(t)
	c, mgr := b.NewClient(t)

	sess := testutil.Login(t, c, mgr, "teacher", "TEACHER")
	assert.Equal(t, session.Teacher, sess.Type())
	assert.Equal(t, entity.ID("1"), sess.AccountID())
	assert.Equal(t, "Tom Teacher", sess.DisplayName())
	assert.Equal(t, entity.ID("1"), sess.Scope.SchoolID)
	assert.Len(t, sess.Scope.AllocatedClasses, 2)
	assert.True(t, sess.HasPermission("ATTENDANCE", session.ActionAdd))
	assert.False(t, sess.HasPermission("FEE", session.ActionView))
	exp, ok := sess.ExpiresAt()
	assert.True(t, ok)
	assert.False(t, exp.IsZero())

	_, err := c.Login(context.Background(), api.LoginRequest{UserName: "teacher", Password: "bad", AccountID: "1", Type: "TEACHER"})
	assert.Equal(t, http.StatusUnauthorized, api.StatusOf(err))
	assert.Same(t, sess, mgr.Current(), "a failed login keeps the session")
}

func TestBackend_crud(t *testing.T) {
	b := testutil.StartBackend(t)
	c, mgr := b.NewClient(t)
	testutil.Login(t, c, mgr, "admin", "ADMIN")
	ctx := context.Background()

	fee, err := c.Fees().Save(ctx, map[string]interface{}{"studentId": 3, "amount": 250.5, "dueDate": "2024-05-01", "status": "Pending"})
	require.NoError(t, err)
	assert.Equal(t, entity.ID("4"), fee.ID)
	assert.Equal(t, "Sam Student", fee.StudentName)

	stored, err := b.DB.Get("fees", "4")
	require.NoError(t, err)
	assert.Equal(t, "1", stored.Text("createdBy"))

	fee, err = c.Fees().Update(ctx, "4", map[string]interface{}{"status": "Paid"})
	require.NoError(t, err)
	assert.Equal(t, "Paid", fee.Status)
	assert.Equal(t, 250.5, fee.Amount)

	got, err := c.Fees().Get(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, fee, got)

	require.NoError(t, c.Fees().Delete(ctx, "4"))
	_, err = c.Fees().Get(ctx, "4")
	assert.Equal(t, http.StatusNotFound, api.StatusOf(err))

	_, err = c.Schools().Save(ctx, map[string]string{"address": "nowhere"})
	apiErr, ok := err.(*api.Error)
	require.True(t, ok, "%T: %v", err, err)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, map[string]string{"name": "is required"}, apiErr.Fields)
}

func TestBackend_list(t *testing.T) {
	b := testutil.StartBackend(t)
	c, mgr := b.NewClient(t)
	sess := testutil.Login(t, c, mgr, "teacher", "TEACHER")
	ctx := context.Background()

	l := listing.New(c.Students().Fetcher(sess), listing.WithPageSize(4))
	require.NoError(t, l.Load(ctx))
	assert.Equal(t, listing.Loaded, l.State())
	assert.Equal(t, 9, l.Page().Total, "students of the allocated classes")
	assert.Equal(t, 3, l.Page().Pages())
	assert.Len(t, l.Items(), 4)

	require.NoError(t, l.SetFilter(ctx, "divisionId", "3"))
	assert.Equal(t, 4, l.Page().Total)
	for _, st := range l.Items() {
		assert.Equal(t, entity.ID("3"), st.DivisionID)
		assert.Equal(t, "Grade 10", st.ClassName)
	}

	require.NoError(t, l.SetSearch(ctx, "meera"))
	require.Len(t, l.Items(), 1)
	assert.Equal(t, "Meera", l.Items()[0].FirstName)
}

func TestBackend_expiredToken(t *testing.T) {
	b := testutil.StartBackend(t)
	c, mgr := b.NewClient(t)
	sess := testutil.Login(t, c, mgr, "admin", "ADMIN")
	ctx := context.Background()

	forged := session.New(sess.AccessToken+"x", sess.Profile, sess.RoleName, sess.Permissions, sess.Scope)
	require.NoError(t, mgr.Login(ctx, forged))

	_, err := c.Students().Page(ctx, "1", api.PageRequest{Size: 1})
	assert.Equal(t, api.ErrSessionExpired, err)
	assert.Nil(t, mgr.Current())
}

func TestBackend_referenceData(t *testing.T) {
	b := testutil.StartBackend(t)
	c, mgr := b.NewClient(t)
	testutil.Login(t, c, mgr, "admin", "ADMIN")

	rd, err := c.ReferenceData(context.Background(), "1")
	require.NoError(t, err)
	assert.Len(t, rd.Schools, 2)
	assert.Len(t, rd.Classes, 2)
	assert.Len(t, rd.Divisions, 3)
	assert.Len(t, rd.Subjects, 3)

	defs := rd.FilterDefs()
	require.Len(t, defs, 3)
	assert.Equal(t, "classId", defs[1].Key)
	assert.Equal(t, listing.Option{Label: "Grade 9 A", Value: "1"}, defs[1].Options[0])
}

func TestBackend_dashboard(t *testing.T) {
	tests := []struct {
		userName, userType string
		want               api.DashboardStats
	}{
		{"admin", "ADMIN", api.DashboardStats{Students: 13, Teachers: 1, Classes: 2, Fees: 3, PendingFees: 2}},
		{"teacher", "TEACHER", api.DashboardStats{Students: 9, Classes: 2}},
		{"student", "STUDENT", api.DashboardStats{Classes: 1, Fees: 2, PendingFees: 1}},
	}
	b := testutil.StartBackend(t)
	for _, tc := range tests {
		t.Run(tc.userName, func(t *testing.T) {
			c, mgr := b.NewClient(t)
			sess := testutil.Login(t, c, mgr, tc.userName, tc.userType)

			got, err := c.Dashboard(context.Background(), sess)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBackend_importStudents(t *testing.T) {
	b := testutil.StartBackend(t)
	c, mgr := b.NewClient(t)
	testutil.Login(t, c, mgr, "admin", "ADMIN")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"userName", "firstName", "lastName"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"zoe", "Zoe", "Park"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"admin", "Dup", "User"}))
	var sheet bytes.Buffer
	require.NoError(t, f.Write(&sheet))

	res, err := c.ImportStudents(context.Background(), "students.xlsx", &sheet, map[string]string{"classId": "1", "divisionId": ""})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, []api.ImportRowError{{Row: 3, Message: "user name already taken"}}, res.Skipped)

	_, total, err := b.DB.Query("users", inmemdb.Query{AccountID: "1", Type: "STUDENT", Filters: map[string]string{"classId": "1"}})
	require.NoError(t, err)
	assert.Equal(t, 10, total)
}
