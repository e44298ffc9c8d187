package client

import (
	"context"
	"encoding/json"

	"github.com/dmitrijs2005/homelights/internal/client/models"
)

// Client is the transport contract between the session store and the
// home-automation backend.
type Client interface {
	Request(ctx context.Context, endpoint string, payload any, method string) (json.RawMessage, error)

	SetToken(token string)
	ClearToken()

	Signup(ctx context.Context, req models.SignupRequest) (string, error)
	Login(ctx context.Context, username, password string) (string, error)

	GetUser(ctx context.Context, username string) (*models.UserProfile, error)
	UpdateUser(ctx context.Context, username string, upd models.ProfileUpdate) (*models.UserProfile, error)

	GetDevices(ctx context.Context) ([]models.Device, error)
	AddDevice(ctx context.Context, d models.NewDevice) (*models.Device, error)
	RemoveDevice(ctx context.Context, name string) (string, error)

	ControlLight(ctx context.Context, name string, action models.LightAction) (string, error)
	ControlLights(ctx context.Context, action models.LightAction) (string, error)
}
