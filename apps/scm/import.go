package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

func (cli *commandLine) importStudents(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("import")
	file := fs.String("file", "", "The xlsx sheet of students.")
	school := fs.String("school", "", "School ID for every row.")
	class := fs.String("class", "", "Class ID for every row.")
	division := fs.String("division", "", "Division ID for every row.")
	d, _, err := cli.gate(fs, args, session.ActionAdd)
	if err != nil {
		return err
	}
	if d.Kind != entity.KindStudent {
		return errors.Errorf("only students can be imported, not %s", d.Name)
	}
	if *file == "" {
		fs.Usage()
		return errHelp
	}

	sheet, err := os.Open(*file)
	if err != nil {
		return errors.Wrap(err, "opening sheet")
	}
	defer sheet.Close()

	res, err := cli.client.ImportStudents(ctx, filepath.Base(*file), sheet, map[string]string{
		"schoolId":   *school,
		"classId":    *class,
		"divisionId": *division,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Imported %d students\n", res.Imported)
	if len(res.Skipped) == 0 {
		return nil
	}
	tw := cli.table()
	fmt.Fprintln(tw, "Row\tReason")
	for _, s := range res.Skipped {
		fmt.Fprintf(tw, "%d\t%s\n", s.Row, s.Message)
	}
	return tw.Flush()
}
