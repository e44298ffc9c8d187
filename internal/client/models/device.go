package models

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

// Status is the power state of a light.
type Status string

const (
	StatusOn  Status = "on"
	StatusOff Status = "off"
)

// Toggle returns the opposite power state. Anything that is not "on" is
// treated as off.
func (s Status) Toggle() Status {
	if s == StatusOn {
		return StatusOff
	}
	return StatusOn
}

func (s Status) Valid() bool {
	return s == StatusOn || s == StatusOff
}

// Device is a controllable smart light. Name is unique within an account.
type Device struct {
	Name         string  `json:"name"`
	SerialNumber string  `json:"serial_number"`
	Type         string  `json:"type"`
	Room         string  `json:"room"`
	Status       Status  `json:"status"`
	Brightness   float64 `json:"brightness"`
	Color        string  `json:"color"`
}

// NewDevice is the add-device payload.
type NewDevice struct {
	Name         string `json:"name"`
	SerialNumber string `json:"serial_number"`
	Type         string `json:"type"`
	Room         string `json:"room"`
	Status       Status `json:"status"`
}

// LightAction is a partial state change for one light or the whole fleet.
// Nil fields are left untouched by the backend.
type LightAction struct {
	Status     *Status  `json:"status,omitempty"`
	Brightness *float64 `json:"brightness,omitempty"`
	Color      *string  `json:"color,omitempty"`
}

var (
	ErrInvalidStatus     = errors.New("status must be on or off")
	ErrInvalidBrightness = errors.New("brightness must be between 0 and 100")
	ErrInvalidColor      = errors.New("color must be a hex string like #ff8800")
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ActionFromDevice snapshots the controllable fields of d.
func ActionFromDevice(d Device) LightAction {
	status, brightness, color := d.Status, d.Brightness, d.Color
	return LightAction{Status: &status, Brightness: &brightness, Color: &color}
}

func (a LightAction) IsEmpty() bool {
	return a.Status == nil && a.Brightness == nil && a.Color == nil
}

// Merge returns a copy of a overlaid with the non-nil fields of other.
func (a LightAction) Merge(other LightAction) LightAction {
	if other.Status != nil {
		v := *other.Status
		a.Status = &v
	}
	if other.Brightness != nil {
		v := *other.Brightness
		a.Brightness = &v
	}
	if other.Color != nil {
		v := *other.Color
		a.Color = &v
	}
	return a
}

// ApplyTo writes the non-nil fields of a into d.
func (a LightAction) ApplyTo(d *Device) {
	if a.Status != nil {
		d.Status = *a.Status
	}
	if a.Brightness != nil {
		d.Brightness = *a.Brightness
	}
	if a.Color != nil {
		d.Color = *a.Color
	}
}

func (a LightAction) Validate() error {
	if a.Status != nil && !a.Status.Valid() {
		return ErrInvalidStatus
	}
	if a.Brightness != nil && (math.IsNaN(*a.Brightness) || *a.Brightness < 0 || *a.Brightness > 100) {
		return ErrInvalidBrightness
	}
	if a.Color != nil && !hexColor.MatchString(*a.Color) {
		return ErrInvalidColor
	}
	return nil
}

func (a LightAction) String() string {
	s := ""
	if a.Status != nil {
		s += fmt.Sprintf("status=%s ", *a.Status)
	}
	if a.Brightness != nil {
		s += fmt.Sprintf("brightness=%g ", *a.Brightness)
	}
	if a.Color != nil {
		s += fmt.Sprintf("color=%s ", *a.Color)
	}
	if s == "" {
		return "{}"
	}
	return "{" + s[:len(s)-1] + "}"
}

func (d Device) String() string {
	return fmt.Sprintf("%-16s %-4s %5.0f%%  %-8s room=%s type=%s serial=%s",
		d.Name, d.Status, d.Brightness, d.Color, d.Room, d.Type, d.SerialNumber)
}
