package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/listing"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

const exportPageSize = 100

// export writes every record matching the filters to an xlsx sheet,
// one column per grid column.
func (cli *commandLine) export(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("export")
	ff := addFilterFlags(fs)
	out := fs.String("out", "", "The xlsx file to write.")
	d, sess, err := cli.gate(fs, args, session.ActionView)
	if err != nil {
		return err
	}
	if *out == "" {
		fs.Usage()
		return errHelp
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err = writeRow(f, sheet, 1, headers(d.Columns)); err != nil {
		return err
	}

	l := listing.New(cli.client.Records(d).Fetcher(sess),
		listing.WithFilters(ff.filters()),
		listing.WithPageSize(exportPageSize),
	)
	if err = load(ctx, l, ff, 1); err != nil {
		return err
	}
	row := 2
	for {
		for _, rec := range l.Items() {
			cells, err := entity.Cells(rec, d.Columns)
			if err != nil {
				return err
			}
			if err = writeRow(f, sheet, row, cells); err != nil {
				return err
			}
			row++
		}
		if !l.Page().HasNext() {
			break
		}
		if err = l.Next(ctx); err != nil {
			return err
		}
	}

	if err = f.SaveAs(*out); err != nil {
		return errors.Wrapf(err, "saving %s", *out)
	}
	fmt.Fprintf(cli.out, "Exported %d %s to %s\n", row-2, d.Name, *out)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]interface{}, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return errors.Wrapf(f.SetSheetRow(sheet, cell, &vals), "writing row %d", row)
}
