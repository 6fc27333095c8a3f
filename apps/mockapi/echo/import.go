package echoapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	inmemdb "github.com/vijayholve/scm-app-frontend/apps/mockapi/store"
	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

type (
	ImportRowError struct {
		Row     int    `json:"row"`
		Message string `json:"message"`
	}

	ImportResponse struct {
		Imported int              `json:"imported"`
		Skipped  []ImportRowError `json:"skipped"`
	}
)

func registerImportAPI(g *echo.Group, jwt echo.MiddlewareFunc, s *server) {
	g.POST("/students/import", s.importStudents, jwt, s.permissionMiddleware(entity.KindStudent, session.ActionAdd))
}

// importStudents reads the first sheet of an uploaded workbook. The header row
// names the columns by field key ("firstName") or label ("First Name"); the
// schoolId, classId and divisionId form values apply to every row.
func (s *server) importStudents(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	file, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening upload")
	}
	defer file.Close()

	f, err := excelize.OpenReader(file)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid xlsx file")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return errors.Wrapf(err, "reading sheet %s", sheets[0])
	}
	if len(rows) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "sheet is empty")
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	keys := headerKeys(rows[0])
	resp := ImportResponse{Skipped: []ImportRowError{}}

	for i, row := range rows[1:] {
		rowNum := i + 2
		rec := entity.Record{}
		for j, cell := range row {
			if j < len(keys) && keys[j] != "" && strings.TrimSpace(cell) != "" {
				rec[keys[j]] = strings.TrimSpace(cell)
			}
		}
		if len(rec) == 0 {
			continue
		}
		for _, k := range []string{"schoolId", "classId", "divisionId"} {
			if v := ctx.FormValue(k); v != "" {
				rec[k] = v
			}
		}
		rec["type"] = "STUDENT"
		rec["accountId"] = claims.AccountID
		rec["createdBy"] = claims.Subject

		if err = requireFields(rec, userRequired); err != nil {
			resp.Skipped = append(resp.Skipped, ImportRowError{Row: rowNum, Message: missingFields(rec)})
			continue
		}
		if err = s.deps.DB.CheckUserName(claims.AccountID, rec.Text("userName"), ""); err != nil {
			resp.Skipped = append(resp.Skipped, ImportRowError{Row: rowNum, Message: err.Error()})
			continue
		}
		pwd := rec.Text("password")
		delete(rec, "password")
		usr, err := s.deps.DB.Create(inmemdb.UsersTable, rec)
		if err != nil {
			return errors.Wrapf(err, "importing row %d", rowNum)
		}
		if pwd != "" {
			if err = s.deps.DB.SetPassword(usr.ID().String(), pwd); err != nil {
				return errors.Wrap(err, "setting password")
			}
		}
		resp.Imported++
	}
	if resp.Imported > 0 {
		s.deps.Logger.Info(fmt.Sprintf("imported %d students", resp.Imported))
	}
	return ctx.JSON(http.StatusOK, resp)
}

func headerKeys(header []string) []string {
	known := map[string]string{"password": "password"}
	if d, ok := entity.Lookup("students"); ok {
		for _, fld := range d.Fields {
			known[normalize(fld.Name)] = fld.Name
			known[normalize(fld.Label)] = fld.Name
		}
		for _, col := range d.Columns {
			if _, ok := known[normalize(col.Header)]; !ok {
				known[normalize(col.Header)] = col.Key
			}
		}
	}
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = known[normalize(h)]
	}
	return keys
}

func normalize(s string) string {
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}

func missingFields(rec entity.Record) string {
	var missing []string
	for _, k := range userRequired {
		if rec.Text(k) == "" {
			missing = append(missing, k)
		}
	}
	return "missing " + strings.Join(missing, ", ")
}
