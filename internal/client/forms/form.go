// Package forms implements the input forms of the CLI: login, signup,
// add-device and edit-profile.
//
// A Form keeps a draft of field values, checks required fields before any
// server call and maps the *models.OperationError it gets back onto its
// fields. Field errors are shown beside their input, everything else in a
// banner at the top.
package forms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/dmitrijs2005/homelights/internal/client/client"
	"github.com/dmitrijs2005/homelights/internal/client/models"
)

// RequiredMessage is the field error for an empty required field.
const RequiredMessage = "is required"

type Field struct {
	Name     string
	Label    string
	Required bool
	Masked   bool
	ReadOnly bool
}

// SubmitFunc performs the store operation bound to a form.
type SubmitFunc func(ctx context.Context, values map[string]string) error

type Form struct {
	Title  string
	Fields []Field
	Values map[string]string

	Loading bool
	Success bool
	Errors  *models.OperationError

	submit SubmitFunc
}

func New(title string, fields []Field, initial map[string]string, submit SubmitFunc) *Form {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = initial[f.Name]
	}
	return &Form{Title: title, Fields: fields, Values: values, submit: submit}
}

// Field returns the definition of name.
func (f *Form) Field(name string) (Field, bool) {
	for _, fd := range f.Fields {
		if fd.Name == name {
			return fd, true
		}
	}
	return Field{}, false
}

// Set updates the draft and clears any error reported for that field.
// Read-only and unknown fields are ignored.
func (f *Form) Set(name, value string) {
	fd, ok := f.Field(name)
	if !ok || fd.ReadOnly {
		return
	}
	f.Values[name] = value
	f.Errors = f.Errors.WithoutField(name)
}

// Validate checks required fields. It returns nil when all are present.
func (f *Form) Validate() *models.OperationError {
	missing := make(map[string]string)
	for _, fd := range f.Fields {
		if fd.Required && strings.TrimSpace(f.Values[fd.Name]) == "" {
			missing[fd.Name] = RequiredMessage
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return models.NewFieldError(missing, client.ErrValidation)
}

// Submit validates the draft and runs the bound operation. Errors that are
// not *models.OperationError are shown as a general message and returned.
func (f *Form) Submit(ctx context.Context) error {
	f.Loading = true
	f.Success = false
	defer func() { f.Loading = false }()

	if verr := f.Validate(); verr != nil {
		f.Errors = verr
		return verr
	}

	err := f.submit(ctx, maps.Clone(f.Values))
	if err != nil {
		var opErr *models.OperationError
		if errors.As(err, &opErr) {
			f.Errors = opErr
			return opErr
		}
		f.Errors = models.NewGeneralError(models.KindOperation, client.UnexpectedErrorMessage, err)
		return err
	}

	f.Errors = nil
	f.Success = true
	return nil
}

// Render writes the form with its errors to w.
func (f *Form) Render(w io.Writer) error {
	var b strings.Builder

	fmt.Fprintf(&b, "== %s ==\n", f.Title)
	if msg := f.Errors.Message(); msg != "" {
		fmt.Fprintf(&b, "[!] %s\n", msg)
	}
	for _, fd := range f.Fields {
		v := f.Values[fd.Name]
		if fd.Masked && v != "" {
			v = strings.Repeat("*", 8)
		}
		if fd.ReadOnly {
			v += " (read-only)"
		}
		fmt.Fprintf(&b, "  %-14s %s", fd.Label+":", v)
		if e := f.Errors.FieldError(fd.Name); e != "" {
			fmt.Fprintf(&b, "  <- %s %s", fd.Label, e)
		}
		b.WriteString("\n")
	}
	if f.Loading {
		b.WriteString("  ...\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
