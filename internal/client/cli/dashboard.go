package cli

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/homelights/internal/client/forms"
	"github.com/dmitrijs2005/homelights/internal/client/models"
)

const noDevicesMessage = "You have no LIFX lights registered! Please add some using the 'add' command."

const instructionsText = `Welcome to Your Smart Light Dashboard

Control your LIFX lights from anywhere: switch them on or off, adjust the
brightness and change colors.

Getting Started
  1. Sign up: run 'signup' to create a new account.
  2. Complete the registration form: your username, a password, your
     personal details and your LIFX token.
  3. Log in: run 'login' with your new credentials.

Adding Your LIFX Lights
  Each light must first be registered with the LIFX cloud through the
  LIFX mobile application.
  1. Create a LIFX account in the LIFX app if you have none.
  2. Register your lights and connect them to your Wi-Fi network.
  3. Make sure the lights can be controlled from the LIFX app.
  4. Run 'add' and enter the details of each light.

Using the Dashboard
  dashboard                 all lights and their current state
  toggle <name>             turn a light on or off
  brightness <name> <n>     set brightness, 0 to 100
  color <name> <#hex>       set color
  all on|off                every light at once
  flush                     send pending changes now
`

// greeting returns the salutation for the hour of t.
func greeting(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Good Morning"
	case h < 18:
		return "Good Afternoon"
	default:
		return "Good Evening"
	}
}

// errorText picks the text a user should see for err.
func errorText(err error) string {
	var opErr *models.OperationError
	if errors.As(err, &opErr) {
		if msg := opErr.Message(); msg != "" {
			return msg
		}
	}
	return err.Error()
}

// Dashboard greets the user and lists their lights.
func (a *App) Dashboard(ctx context.Context) error {
	name := "Guest"
	user := a.session.CurrentUser()
	if user != nil {
		name = user.Username
	}

	var b strings.Builder
	b.WriteString(greeting(a.now()) + ", " + name + "!\n")

	if user == nil {
		b.WriteString("Log in or sign up to control your lights. Type 'instructions' to get started.\n")
		a.printf("%s", b.String())
		return nil
	}

	devices := a.session.Devices()
	if len(devices) == 0 {
		b.WriteString(noDevicesMessage + "\n")
	}
	for _, d := range devices {
		a.mu.Lock()
		l, ok := a.lights[d.Name]
		a.mu.Unlock()
		if ok {
			d = l.Snapshot()
		}
		b.WriteString("  " + d.String() + "\n")
	}
	a.printf("%s", b.String())
	return nil
}

func (a *App) Instructions(ctx context.Context) error {
	a.printf("%s", instructionsText)
	return nil
}

// Profile shows the profile form pre-filled with the current values and
// saves the edits.
func (a *App) Profile(ctx context.Context) error {
	user := a.session.CurrentUser()
	if user == nil {
		a.printf("please log in first\n")
		return models.NewGeneralError(models.KindAuthInvalid, "please log in first", nil)
	}

	f := forms.NewProfileForm(a.session, *user)
	if err := a.runForm(ctx, f); err != nil {
		return err
	}
	a.printf("Profile updated.\n")
	return nil
}
