package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/homelights/internal/client/forms"
	"github.com/dmitrijs2005/homelights/internal/client/models"
)

// AddDevice registers a new light through the add-device form.
func (a *App) AddDevice(ctx context.Context) error {
	f := forms.NewAddDeviceForm(a.session)
	if err := a.runForm(ctx, f); err != nil {
		return err
	}
	a.printf("Added %s.\n", f.Values["name"])
	return nil
}

func (a *App) RemoveDevice(ctx context.Context, name string) error {
	a.dropLight(name)
	if err := a.session.RemoveDevice(ctx, name); err != nil {
		a.printf("[!] %s\n", errorText(err))
		return err
	}
	a.printf("Removed %s.\n", name)
	return nil
}

// Toggle flips the power state of a light. The change is sent after the
// debounce interval.
func (a *App) Toggle(ctx context.Context, name string) error {
	l, err := a.light(name)
	if err != nil {
		a.printf("[!] %s\n", err)
		return err
	}
	l.Toggle()
	a.printLight(l.Snapshot())
	return nil
}

func (a *App) Brightness(ctx context.Context, name, value string) error {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		a.printf("[!] %s\n", models.ErrInvalidBrightness)
		return models.ErrInvalidBrightness
	}
	l, err := a.light(name)
	if err != nil {
		a.printf("[!] %s\n", err)
		return err
	}
	if err := l.SetBrightness(v); err != nil {
		a.printf("[!] %s\n", err)
		return err
	}
	a.printLight(l.Snapshot())
	return nil
}

func (a *App) Color(ctx context.Context, name, value string) error {
	l, err := a.light(name)
	if err != nil {
		a.printf("[!] %s\n", err)
		return err
	}
	if err := l.SetColor(value); err != nil {
		a.printf("[!] %s\n", err)
		return err
	}
	a.printLight(l.Snapshot())
	return nil
}

// All applies one change to every light: "on", "off", "brightness <n>" or
// "color <#hex>".
func (a *App) All(ctx context.Context, args []string) error {
	fleet := a.allLights()

	var err error
	switch {
	case len(args) == 1 && (args[0] == "on" || args[0] == "off"):
		err = fleet.SetStatus(models.Status(args[0]))
	case len(args) == 2 && args[0] == "brightness":
		v, perr := strconv.ParseFloat(args[1], 64)
		if perr != nil {
			err = models.ErrInvalidBrightness
			break
		}
		err = fleet.SetBrightness(v)
	case len(args) == 2 && args[0] == "color":
		err = fleet.SetColor(args[1])
	default:
		err = fmt.Errorf("usage: all on|off|brightness <0-100>|color <#hex>")
	}
	if err != nil {
		a.printf("[!] %s\n", err)
		return err
	}
	a.printf("all lights %s (pending)\n", fleet.Snapshot())
	return nil
}

// Flush sends every pending change now and waits for the responses.
func (a *App) Flush(ctx context.Context) error {
	a.mu.Lock()
	var targets []interface{ Flush(context.Context) error }
	for _, l := range a.lights {
		targets = append(targets, l)
	}
	if a.fleet != nil {
		targets = append(targets, a.fleet)
	}
	a.mu.Unlock()

	var firstErr error
	for _, t := range targets {
		if err := t.Flush(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) printLight(d models.Device) {
	a.printf("%s (pending)\n", d)
}
