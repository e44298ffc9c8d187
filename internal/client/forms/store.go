package forms

import (
	"context"

	"github.com/dmitrijs2005/homelights/internal/client/models"
)

// Store is the subset of the session the forms submit to.
type Store interface {
	Login(ctx context.Context, username, password string) error
	Signup(ctx context.Context, req models.SignupRequest) error
	AddDevice(ctx context.Context, d models.NewDevice) error
	UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error
}

func NewLoginForm(store Store) *Form {
	return New("Log in", []Field{
		{Name: "username", Label: "Username", Required: true},
		{Name: "password", Label: "Password", Required: true, Masked: true},
	}, nil, func(ctx context.Context, v map[string]string) error {
		return store.Login(ctx, v["username"], v["password"])
	})
}

func NewSignupForm(store Store) *Form {
	return New("Sign up", []Field{
		{Name: "username", Label: "Username", Required: true},
		{Name: "password", Label: "Password", Required: true, Masked: true},
		{Name: "firstName", Label: "First name", Required: true},
		{Name: "lastName", Label: "Last name", Required: true},
		{Name: "email", Label: "Email", Required: true},
		{Name: "lifxToken", Label: "LIFX token", Required: true, Masked: true},
	}, nil, func(ctx context.Context, v map[string]string) error {
		return store.Signup(ctx, models.SignupRequest{
			Username:  v["username"],
			Password:  v["password"],
			FirstName: v["firstName"],
			LastName:  v["lastName"],
			Email:     v["email"],
			LifxToken: v["lifxToken"],
		})
	})
}

// NewAddDeviceForm rejects a status other than on/off before calling the store.
func NewAddDeviceForm(store Store) *Form {
	return New("Add device", []Field{
		{Name: "name", Label: "Name", Required: true},
		{Name: "serial_number", Label: "Serial number", Required: true},
		{Name: "type", Label: "Type", Required: true},
		{Name: "room", Label: "Room", Required: true},
		{Name: "status", Label: "Status", Required: true},
	}, map[string]string{"status": string(models.StatusOff)}, func(ctx context.Context, v map[string]string) error {
		status := models.Status(v["status"])
		if !status.Valid() {
			return models.NewFieldError(map[string]string{"status": "must be on or off"}, models.ErrInvalidStatus)
		}
		return store.AddDevice(ctx, models.NewDevice{
			Name:         v["name"],
			SerialNumber: v["serial_number"],
			Type:         v["type"],
			Room:         v["room"],
			Status:       status,
		})
	})
}

// NewProfileForm is pre-filled from user. The username is shown but never sent.
func NewProfileForm(store Store, user models.UserProfile) *Form {
	return New("Profile", []Field{
		{Name: "username", Label: "Username", ReadOnly: true},
		{Name: "firstName", Label: "First name"},
		{Name: "lastName", Label: "Last name"},
		{Name: "email", Label: "Email"},
		{Name: "lifxToken", Label: "LIFX token", Masked: true},
	}, map[string]string{
		"username":  user.Username,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"email":     user.Email,
		"lifxToken": user.LifxToken,
	}, func(ctx context.Context, v map[string]string) error {
		return store.UpdateProfile(ctx, models.ProfileUpdate{
			FirstName: v["firstName"],
			LastName:  v["lastName"],
			Email:     v["email"],
			LifxToken: v["lifxToken"],
		})
	})
}
