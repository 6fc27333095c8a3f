package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/pkg/errors"
)

const ImportStudentsPath = "/api/students/import"

type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  []ImportRowError `json:"skipped"`
}

// ImportStudents uploads an xlsx sheet of students. Non-empty values of
// placement (schoolId, classId, divisionId) apply to every row.
func (c *Client) ImportStudents(ctx context.Context, name string, sheet io.Reader, placement map[string]string) (ImportResult, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return ImportResult{}, errors.Wrap(err, "creating form file")
	}
	if _, err = io.Copy(fw, sheet); err != nil {
		return ImportResult{}, errors.Wrap(err, "reading sheet")
	}
	for k, v := range placement {
		if v == "" {
			continue
		}
		if err = mw.WriteField(k, v); err != nil {
			return ImportResult{}, errors.Wrapf(err, "writing field %s", k)
		}
	}
	if err = mw.Close(); err != nil {
		return ImportResult{}, errors.Wrap(err, "closing form")
	}

	var res ImportResult
	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        ImportStudentsPath,
		raw:         buf.Bytes(),
		contentType: mw.FormDataContentType(),
	}, &res)
	return res, err
}
