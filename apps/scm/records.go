package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core"
	"github.com/vijayholve/scm-app-frontend/core/entity"
	"github.com/vijayholve/scm-app-frontend/core/form"
	"github.com/vijayholve/scm-app-frontend/core/listing"
	"github.com/vijayholve/scm-app-frontend/core/session"
)

// filterFlags are the search and scope flags shared by list and export.
type filterFlags struct {
	search, school, class, division *string
}

func addFilterFlags(fs *flag.FlagSet) filterFlags {
	return filterFlags{
		search:   fs.String("search", "", "Search text."),
		school:   fs.String("school", "", "Filter by school ID."),
		class:    fs.String("class", "", "Filter by class ID."),
		division: fs.String("division", "", "Filter by division ID."),
	}
}

func (ff filterFlags) filters() listing.FilterSet {
	out := listing.FilterSet{}
	for k, v := range map[string]string{"schoolId": *ff.school, "classId": *ff.class, "divisionId": *ff.division} {
		if v = core.CleanString(v); v != "" {
			out[k] = v
		}
	}
	return out
}

// load fetches the first page matching ff, then moves to page (1-based).
func load(ctx context.Context, l *listing.List[entity.Record], ff filterFlags, page int) error {
	var err error
	if s := core.CleanString(*ff.search); s != "" {
		err = l.SetSearch(ctx, s)
	} else {
		err = l.Load(ctx)
	}
	if err != nil || page <= 1 {
		return err
	}
	return l.GoTo(ctx, page-1)
}

func (cli *commandLine) list(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("list")
	ff := addFilterFlags(fs)
	page := fs.Int("page", 1, "Page number, starting at 1.")
	size := fs.Int("size", cli.pageSize, "Page size.")
	d, sess, err := cli.gate(fs, args, session.ActionView)
	if err != nil {
		return err
	}

	opts := []listing.ListOption{listing.WithFilters(ff.filters()), listing.WithName(d.Title)}
	if *size > 0 {
		opts = append(opts, listing.WithPageSize(*size))
	}
	l := listing.New(cli.client.Records(d).Fetcher(sess), opts...)
	if err = load(ctx, l, ff, *page); err != nil {
		return err
	}

	items := l.Items()
	if len(items) == 0 {
		fmt.Fprintf(cli.out, "No %s found.\n", strings.ToLower(d.Title))
		return nil
	}
	tw := cli.table()
	fmt.Fprintln(tw, strings.Join(headers(d.Columns), "\t"))
	for _, rec := range items {
		row, err := entity.Cells(rec, d.Columns)
		if err != nil {
			return err
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err = tw.Flush(); err != nil {
		return err
	}
	p := l.Page()
	fmt.Fprintf(cli.out, "Page %d of %d, %d total\n", p.Index+1, p.Pages(), p.Total)
	return nil
}

func headers(cols []entity.Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Header
	}
	return out
}

func (cli *commandLine) show(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("show")
	id := fs.String("id", "", "The record ID.")
	d, _, err := cli.gate(fs, args, session.ActionView)
	if err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}
	rec, err := cli.client.Records(d).Get(ctx, *id)
	if err != nil {
		return err
	}
	return cli.printRecord(rec)
}

func (cli *commandLine) printRecord(rec entity.Record) error {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	tw := cli.table()
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, rec.Text(k))
	}
	return tw.Flush()
}

// newForm returns the entity form; saved receives the server copy after a submit.
func (cli *commandLine) newForm(d entity.Descriptor, saved *entity.Record) *form.Form {
	res := cli.client.Records(d)
	return form.New(d.Fields, form.Submitter{
		Create: func(ctx context.Context, v form.Values) error {
			rec, err := res.Save(ctx, payload(d, v))
			*saved = rec
			return err
		},
		Update: func(ctx context.Context, id string, v form.Values) error {
			rec, err := res.Update(ctx, id, payload(d, v))
			*saved = rec
			return err
		},
	}, nil)
}

// payload sends number fields as JSON numbers, or null once cleared; form
// values are all strings.
func payload(d entity.Descriptor, v form.Values) entity.Record {
	out := make(entity.Record, len(v))
	for k, val := range v {
		out[k] = val
	}
	for _, fld := range d.Fields {
		val, ok := v[fld.Name]
		if !ok || fld.Type != form.Number {
			continue
		}
		if val == "" {
			out[fld.Name] = nil
		} else {
			out[fld.Name] = json.Number(val)
		}
	}
	return out
}

func setAll(f *form.Form, values map[string]string) error {
	for k, v := range values {
		if err := f.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (cli *commandLine) add(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("add")
	d, _, err := cli.gate(fs, args, session.ActionAdd)
	if err != nil {
		return err
	}
	values, err := parseAssignments(fs.Args())
	if err != nil {
		return err
	}

	var saved entity.Record
	f := cli.newForm(d, &saved)
	if err = setAll(f, values); err != nil {
		return err
	}
	if _, err = f.Submit(ctx, ""); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Created %s %s\n", d.Name, saved.ID())
	return nil
}

func (cli *commandLine) edit(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("edit")
	id := fs.String("id", "", "The record ID.")
	d, _, err := cli.gate(fs, args, session.ActionEdit)
	if err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}
	values, err := parseAssignments(fs.Args())
	if err != nil {
		return err
	}

	current, err := cli.client.Records(d).Get(ctx, *id)
	if err != nil {
		return err
	}
	var saved entity.Record
	f := cli.newForm(d, &saved)
	prefill := form.Values{}
	for _, fld := range d.Fields {
		if _, ok := current[fld.Name]; ok {
			prefill[fld.Name] = current.Text(fld.Name)
		}
	}
	f.Load(prefill)
	if err = setAll(f, values); err != nil {
		return err
	}
	if _, err = f.Submit(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Updated %s %s\n", d.Name, saved.ID())
	return nil
}

func (cli *commandLine) remove(ctx context.Context, args []string) error {
	fs := cli.newFlagSet("delete")
	id := fs.String("id", "", "The record ID.")
	yes := fs.Bool("yes", false, "Do not ask for confirmation.")
	d, sess, err := cli.gate(fs, args, session.ActionDelete)
	if err != nil {
		return err
	}
	if *id == "" {
		fs.Usage()
		return errHelp
	}

	confirm := cli.confirm
	if *yes {
		confirm = func(context.Context, string) (bool, error) { return true, nil }
	}
	res := cli.client.Records(d)
	l := listing.New(res.Fetcher(sess),
		listing.WithName(strings.TrimSuffix(strings.ToLower(d.Title), "s")),
		listing.WithDeleter(res.Deleter()),
		listing.WithConfirmer(confirm),
	)
	deleted, err := l.Delete(ctx, *id)
	if deleted {
		fmt.Fprintf(cli.out, "Deleted %s %s\n", d.Name, *id)
		return errors.Wrap(err, "refreshing list")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cli.out, "Cancelled")
	return nil
}
