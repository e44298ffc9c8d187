package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/homelights/internal/client/models"
)

// call runs Request and decodes the envelope into T.
func call[T any](ctx context.Context, c *HTTPClient, endpoint string, payload any, method string) (T, error) {
	var out T
	raw, err := c.Request(ctx, endpoint, payload, method)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s %s response: %w", method, endpoint, err)
	}
	return out, nil
}

func (c *HTTPClient) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	res, err := call[struct {
		Token string `json:"token"`
	}](ctx, c, "auth/register", req, http.MethodPost)
	return res.Token, err
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	res, err := call[struct {
		Token string `json:"token"`
	}](ctx, c, "auth/token", models.Credentials{Username: username, Password: password}, http.MethodPost)
	return res.Token, err
}

func (c *HTTPClient) GetUser(ctx context.Context, username string) (*models.UserProfile, error) {
	res, err := call[struct {
		User *models.UserProfile `json:"user"`
	}](ctx, c, "users/"+url.PathEscape(username), nil, http.MethodGet)
	if err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, fmt.Errorf("get user %s: empty response", username)
	}
	return res.User, nil
}

func (c *HTTPClient) UpdateUser(ctx context.Context, username string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	res, err := call[struct {
		User *models.UserProfile `json:"user"`
	}](ctx, c, "users/"+url.PathEscape(username), upd, http.MethodPatch)
	if err != nil {
		return nil, err
	}
	if res.User == nil {
		return nil, fmt.Errorf("update user %s: empty response", username)
	}
	return res.User, nil
}

func (c *HTTPClient) GetDevices(ctx context.Context) ([]models.Device, error) {
	res, err := call[struct {
		Devices []models.Device `json:"devices"`
	}](ctx, c, "devices", nil, http.MethodGet)
	if err != nil {
		return nil, err
	}
	if res.Devices == nil {
		return []models.Device{}, nil
	}
	return res.Devices, nil
}

func (c *HTTPClient) AddDevice(ctx context.Context, d models.NewDevice) (*models.Device, error) {
	res, err := call[struct {
		Device *models.Device `json:"device"`
	}](ctx, c, "devices", d, http.MethodPost)
	if err != nil {
		return nil, err
	}
	if res.Device == nil {
		return nil, fmt.Errorf("add device %s: empty response", d.Name)
	}
	return res.Device, nil
}

// RemoveDevice returns the name the backend reports as deleted.
func (c *HTTPClient) RemoveDevice(ctx context.Context, name string) (string, error) {
	res, err := call[struct {
		Deleted string `json:"deleted"`
	}](ctx, c, "devices/"+url.PathEscape(name), nil, http.MethodDelete)
	return res.Deleted, err
}

func (c *HTTPClient) ControlLight(ctx context.Context, name string, action models.LightAction) (string, error) {
	res, err := call[struct {
		Message string `json:"message"`
	}](ctx, c, "devices/lights/"+url.PathEscape(name), action, http.MethodPatch)
	return res.Message, err
}

func (c *HTTPClient) ControlLights(ctx context.Context, action models.LightAction) (string, error) {
	res, err := call[struct {
		Message string `json:"message"`
	}](ctx, c, "devices/lights", action, http.MethodPatch)
	return res.Message, err
}
