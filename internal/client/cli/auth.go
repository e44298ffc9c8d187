package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/homelights/internal/client/forms"
	"github.com/dmitrijs2005/homelights/internal/client/models"
	"github.com/dmitrijs2005/homelights/internal/shared"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// fillForm prompts for every editable field. Masked fields are read without
// echo. An empty answer keeps the value the form already holds.
func (a *App) fillForm(f *forms.Form) error {
	a.printf("== %s ==\n", f.Title)
	for _, fd := range f.Fields {
		if fd.ReadOnly {
			a.printf("%s: %s\n", fd.Label, f.Values[fd.Name])
			continue
		}

		current := f.Values[fd.Name]
		var value string
		if fd.Masked {
			b, err := getPassword(fd.Label, a.out)
			if err != nil {
				return err
			}
			value = string(b)
			shared.WipeByteArray(b)
		} else {
			prompt := fd.Label
			if current != "" {
				prompt += " [" + current + "]"
			}
			s, err := getSimpleText(a.reader, prompt, a.out)
			if err != nil {
				return err
			}
			value = s
		}

		if value == "" && current != "" {
			continue
		}
		f.Set(fd.Name, value)
	}
	return nil
}

// runForm fills and submits f. On failure the form is rendered with its
// errors and the error is returned.
func (a *App) runForm(ctx context.Context, f *forms.Form) error {
	if err := a.fillForm(f); err != nil {
		return err
	}
	if err := f.Submit(ctx); err != nil {
		a.outMu.Lock()
		_ = f.Render(a.out)
		a.outMu.Unlock()

		var opErr *models.OperationError
		if !errors.As(err, &opErr) {
			a.log.Error(ctx, "form submit failed", "form", f.Title, "error", err)
		}
		return err
	}
	return nil
}

// Signup registers a new account and logs into it.
func (a *App) Signup(ctx context.Context) error {
	if err := a.runForm(ctx, forms.NewSignupForm(a.session)); err != nil {
		return err
	}
	return a.Dashboard(ctx)
}

// Login authenticates and shows the dashboard. The username prompt offers
// the last user who logged in on this machine.
func (a *App) Login(ctx context.Context) error {
	f := forms.NewLoginForm(a.session)
	if a.creds != nil {
		if last, err := a.creds.LastUser(ctx); err == nil && last != "" {
			f.Set("username", last)
		} else if err != nil {
			a.log.Warn(ctx, "error reading last user", "error", err)
		}
	}
	if err := a.runForm(ctx, f); err != nil {
		return err
	}
	return a.Dashboard(ctx)
}

// Logout drops the widgets and the session. The persisted credential is
// deleted with it.
func (a *App) Logout(ctx context.Context) error {
	a.closeWidgets(ctx)
	a.session.Logout()
	a.printf("Logged out.\n")
	return nil
}
