// Package form drives a declared set of fields through validation and a
// create-or-update submission.
package form

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/vijayholve/scm-app-frontend/core"
)

type FieldType string

const (
	Text     FieldType = "text"
	Password FieldType = "password"
	Email    FieldType = "email"
	Tel      FieldType = "tel"
	Number   FieldType = "number"
	Date     FieldType = "date"
	Select   FieldType = "select"
	TextArea FieldType = "textarea"
)

type Option struct {
	Label string
	Value string
}

type Field struct {
	Name     string
	Label    string
	Type     FieldType
	Required bool
	Options  []Option
	Disabled bool
}

type Values map[string]string

func (v Values) clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Submitter performs the network side of a submission.
type Submitter struct {
	Create func(ctx context.Context, v Values) error
	Update func(ctx context.Context, id string, v Values) error
}

type Mode string

const (
	ModeCreate Mode = "create"
	ModeUpdate Mode = "update"
)

var (
	ErrUnknownField = errors.New("unknown field")
	errInvalid      = errors.New("please fix the highlighted fields")
)

// typeTags maps field types to the validator tags checked on non-empty values.
var typeTags = map[FieldType]struct{ tag, text string }{
	Email:  {"email", "must be a valid email address"},
	Number: {"numeric", "must be a number"},
	Date:   {"ymd", "must be a date formatted as YYYY-MM-DD"},
	Tel:    {"e164|phone", "must be a valid phone number"},
}

type Form struct {
	mu       sync.Mutex
	fields   []Field
	index    map[string]int
	values   Values
	errs     map[string]string
	submit   Submitter
	validate *validator.Validate
	mode     Mode
}

// New returns a form over fields. A nil validate uses core.NewValidator.
func New(fields []Field, submit Submitter, validate *validator.Validate) *Form {
	if validate == nil {
		validate, _ = core.NewValidator()
	}
	f := &Form{
		fields:   fields,
		index:    make(map[string]int, len(fields)),
		values:   make(Values, len(fields)),
		errs:     map[string]string{},
		submit:   submit,
		validate: validate,
		mode:     ModeCreate,
	}
	for i, fld := range fields {
		f.index[fld.Name] = i
	}
	return f
}

func (f *Form) Fields() []Field {
	out := make([]Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// Set stores a value. Unknown names are rejected so typos surface instead of being sent.
func (f *Form) Set(name, value string) error {
	if _, ok := f.index[name]; !ok {
		return errors.Wrap(ErrUnknownField, name)
	}
	f.mu.Lock()
	f.values[name] = value
	f.mu.Unlock()
	return nil
}

func (f *Form) Get(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// Load prefills the form, keeping only declared fields.
func (f *Form) Load(v Values) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, val := range v {
		if _, ok := f.index[k]; ok {
			f.values[k] = val
		}
	}
}

func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values.clone()
}

func (f *Form) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Mode reports the mode of the latest submission.
func (f *Form) Mode() Mode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.mode
}

// Validate checks every field and returns a *core.ValidationError listing the failures
// in declaration order.
func (f *Form) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.validateLocked()
}

func (f *Form) validateLocked() error {
	var flds []core.FieldError
	for _, fld := range f.fields {
		if msg := f.check(fld, core.CleanString(f.values[fld.Name])); msg != "" {
			flds = append(flds, core.FieldError{Field: fld.Name, Error: msg})
		}
	}
	f.errs = make(map[string]string, len(flds))
	for _, fe := range flds {
		f.errs[fe.Field] = fe.Error
	}
	if len(flds) > 0 {
		return core.NewValidationError(errInvalid, flds...)
	}
	return nil
}

func (f *Form) check(fld Field, value string) string {
	if fld.Disabled {
		return ""
	}
	if value == "" {
		if fld.Required {
			return fmt.Sprintf("%s is required.", fld.Label)
		}
		return ""
	}
	if fld.Type == Select && len(fld.Options) > 0 {
		for _, opt := range fld.Options {
			if opt.Value == value {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of %s.", fld.Label, optionValues(fld.Options))
	}
	if tt, ok := typeTags[fld.Type]; ok {
		if err := f.validate.Var(value, tt.tag); err != nil {
			return fmt.Sprintf("%s %s.", fld.Label, tt.text)
		}
	}
	return ""
}

func optionValues(opts []Option) string {
	vals := make([]string, len(opts))
	for i, o := range opts {
		vals[i] = o.Value
	}
	return strings.Join(vals, ", ")
}

// Submit validates and then creates (empty id) or updates the record.
// Invalid input never reaches the submitter. Values are kept whatever the outcome.
func (f *Form) Submit(ctx context.Context, id string) (Mode, error) {
	f.mu.Lock()
	mode := ModeCreate
	if id != "" {
		mode = ModeUpdate
	}
	f.mode = mode
	if err := f.validateLocked(); err != nil {
		f.mu.Unlock()
		return mode, err
	}
	// An update keeps empty values so a cleared field reaches the server.
	values := f.values.clone()
	if mode == ModeCreate {
		for _, fld := range f.fields {
			if values[fld.Name] == "" {
				delete(values, fld.Name)
			}
		}
	}
	f.mu.Unlock()

	var err error
	switch mode {
	case ModeCreate:
		if f.submit.Create == nil {
			return mode, errors.New("form: create not supported")
		}
		err = f.submit.Create(ctx, values)
	case ModeUpdate:
		if f.submit.Update == nil {
			return mode, errors.New("form: update not supported")
		}
		err = f.submit.Update(ctx, id, values)
	}
	return mode, err
}
