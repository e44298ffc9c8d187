package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/dmitrijs2005/homelights/internal/client/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// fakeGateway implements client.Client for unit tests of Session.
type fakeGateway struct {
	mu sync.Mutex

	LoginRet  string
	LoginErr  error
	SignupRet string
	SignupErr error

	UserRet *models.UserProfile
	UserErr error

	UpdateRet *models.UserProfile
	UpdateErr error

	DevicesRet []models.Device
	DevicesErr error

	AddRet *models.Device
	AddErr error

	RemoveRet string
	RemoveErr error

	ControlRet string
	ControlErr error

	Token string

	LastLoginUser  string
	LastLoginPass  string
	LastSignup     models.SignupRequest
	LastGetUser    string
	LastUpdateUser string
	LastUpdate     models.ProfileUpdate
	LastAdd        models.NewDevice
	LastRemove     string
	LastControl    string
	LastAction     models.LightAction

	GetUserCalls    int
	GetDevicesCalls int
	ControlCalls    int
}

func (f *fakeGateway) Request(ctx context.Context, endpoint string, payload any, method string) (json.RawMessage, error) {
	return json.RawMessage(`{}`), nil
}

func (f *fakeGateway) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Token = token
}

func (f *fakeGateway) ClearToken() { f.SetToken("") }

func (f *fakeGateway) Signup(ctx context.Context, req models.SignupRequest) (string, error) {
	f.LastSignup = req
	return f.SignupRet, f.SignupErr
}

func (f *fakeGateway) Login(ctx context.Context, username, password string) (string, error) {
	f.LastLoginUser, f.LastLoginPass = username, password
	return f.LoginRet, f.LoginErr
}

func (f *fakeGateway) GetUser(ctx context.Context, username string) (*models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetUserCalls++
	f.LastGetUser = username
	if f.UserErr != nil {
		return nil, f.UserErr
	}
	u := *f.UserRet
	return &u, nil
}

func (f *fakeGateway) UpdateUser(ctx context.Context, username string, upd models.ProfileUpdate) (*models.UserProfile, error) {
	f.LastUpdateUser, f.LastUpdate = username, upd
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeGateway) GetDevices(ctx context.Context) ([]models.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetDevicesCalls++
	if f.DevicesErr != nil {
		return nil, f.DevicesErr
	}
	return append([]models.Device(nil), f.DevicesRet...), nil
}

func (f *fakeGateway) AddDevice(ctx context.Context, d models.NewDevice) (*models.Device, error) {
	f.LastAdd = d
	return f.AddRet, f.AddErr
}

func (f *fakeGateway) RemoveDevice(ctx context.Context, name string) (string, error) {
	f.LastRemove = name
	return f.RemoveRet, f.RemoveErr
}

func (f *fakeGateway) ControlLight(ctx context.Context, name string, action models.LightAction) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ControlCalls++
	f.LastControl, f.LastAction = name, action
	return f.ControlRet, f.ControlErr
}

func (f *fakeGateway) ControlLights(ctx context.Context, action models.LightAction) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ControlCalls++
	f.LastControl, f.LastAction = "", action
	return f.ControlRet, f.ControlErr
}

// memStorage is an in-memory CredentialStorage.
type memStorage struct {
	Token     string
	LoadErr   error
	SaveErr   error
	DeleteErr error

	Deletes int
}

func (m *memStorage) Load(ctx context.Context) (string, error) { return m.Token, m.LoadErr }

func (m *memStorage) Save(ctx context.Context, token string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Token = token
	return nil
}

func (m *memStorage) Delete(ctx context.Context) error {
	m.Deletes++
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.Token = ""
	return nil
}

func tokenFor(t *testing.T, username string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": username}).SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}
