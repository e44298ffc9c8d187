// Package services contains application services for the homelights client.
// This file defines the Session: the single owner of the credential, the
// user profile and the device collection for one running client.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/homelights/internal/client/client"
	"github.com/dmitrijs2005/homelights/internal/client/models"
	"github.com/dmitrijs2005/homelights/internal/logging"
	"github.com/dmitrijs2005/homelights/internal/tokenx"
	"golang.org/x/sync/singleflight"
)

// Operation keys under which failures are recorded.
const (
	OpLogin         = "login"
	OpSignup        = "signup"
	OpLoadProfile   = "loadProfile"
	OpUpdateProfile = "updateProfile"
	OpAddDevice     = "addDevice"
	OpRemoveDevice  = "removeDevice"
	OpControlLight  = "controlLight"
	OpControlLights = "controlLights"
)

// CredentialStorage persists the credential between runs.
// Load returns "" when nothing is stored.
type CredentialStorage interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Delete(ctx context.Context) error
}

// Session holds the authenticated state of one running client.
//
// Lifecycle: NewSession, RestoreSession, operations..., Close.
//
// Every operation computes its replacement value before taking the lock, so
// readers never observe a partially updated state. The credential and the
// profile are always cleared together.
type Session struct {
	client  client.Client
	storage CredentialStorage
	log     logging.Logger

	mu      sync.RWMutex
	token   string
	user    *models.UserProfile
	devices []models.Device
	errs    map[string]*models.OperationError

	loads singleflight.Group
}

func NewSession(c client.Client, storage CredentialStorage, log logging.Logger) *Session {
	return &Session{
		client:  c,
		storage: storage,
		log:     log.With("component", "session"),
		errs:    make(map[string]*models.OperationError),
	}
}

// RestoreSession adopts a previously persisted credential. A credential that
// is not a well-formed token is deleted and the session stays anonymous.
// Failures while loading the profile reset the session and are recorded
// under OpLoadProfile, unexpected ones as KindOperation with a generic
// message. Only storage failures are returned.
func (s *Session) RestoreSession(ctx context.Context) error {
	token, err := s.storage.Load(ctx)
	if err != nil {
		return fmt.Errorf("load credential: %w", err)
	}
	if token == "" {
		return nil
	}

	if _, err := tokenx.Inspect(token); err != nil {
		s.log.Warn(ctx, "discarding malformed credential", "error", err)
		if err := s.storage.Delete(ctx); err != nil {
			return fmt.Errorf("delete credential: %w", err)
		}
		return nil
	}

	s.setToken(token)

	var opErr *models.OperationError
	if err := s.LoadProfile(ctx); err != nil && !errors.As(err, &opErr) {
		s.mu.Lock()
		s.errs[OpLoadProfile] = models.NewGeneralError(models.KindOperation, client.UnexpectedErrorMessage, err)
		s.mu.Unlock()
	}
	return nil
}

func (s *Session) Login(ctx context.Context, username, password string) error {
	s.ClearError(OpLogin)

	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		return s.fail(ctx, OpLogin, err)
	}
	if err := s.adopt(ctx, token); err != nil {
		return err
	}
	s.log.Info(ctx, "logged in", "username", username)
	return s.LoadProfile(ctx)
}

func (s *Session) Signup(ctx context.Context, req models.SignupRequest) error {
	s.ClearError(OpSignup)

	token, err := s.client.Signup(ctx, req)
	if err != nil {
		return s.fail(ctx, OpSignup, err)
	}
	if err := s.adopt(ctx, token); err != nil {
		return err
	}
	s.log.Info(ctx, "signed up", "username", req.Username)
	return s.LoadProfile(ctx)
}

// LoadProfile fetches the profile and then the device collection. Any
// failure resets the whole session. Concurrent calls share one round trip.
func (s *Session) LoadProfile(ctx context.Context) error {
	_, err, _ := s.loads.Do("profile", func() (any, error) {
		return nil, s.loadProfile(ctx)
	})
	return err
}

func (s *Session) loadProfile(ctx context.Context) error {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()

	if token == "" {
		return s.failLoad(ctx, client.ErrNoCredential)
	}

	username, err := tokenx.Username(token)
	if err != nil {
		return s.failLoad(ctx,
			models.NewGeneralError(models.KindAuthInvalid, "session is invalid, please log in again", err))
	}

	user, err := s.client.GetUser(ctx, username)
	if err != nil {
		return s.failLoad(ctx, err)
	}
	devices, err := s.client.GetDevices(ctx)
	if err != nil {
		return s.failLoad(ctx, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != token {
		return client.ErrNoCredential
	}
	s.user = user
	s.devices = devices
	delete(s.errs, OpLoadProfile)
	return nil
}

func (s *Session) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) error {
	s.ClearError(OpUpdateProfile)

	s.mu.RLock()
	var username string
	if s.user != nil {
		username = s.user.Username
	}
	s.mu.RUnlock()
	if username == "" {
		return s.fail(ctx, OpUpdateProfile, client.ErrNoCredential)
	}

	user, err := s.client.UpdateUser(ctx, username, upd)
	if err != nil {
		return s.fail(ctx, OpUpdateProfile, err)
	}

	s.mu.Lock()
	if s.user != nil && s.user.Username == username {
		s.user = user
	}
	s.mu.Unlock()
	return nil
}

// Logout clears the session and the persisted credential. It never fails:
// a storage error is logged and otherwise ignored.
func (s *Session) Logout() {
	s.reset()

	s.mu.Lock()
	s.errs = make(map[string]*models.OperationError)
	s.mu.Unlock()
}

// Close drops in-memory state without touching the persisted credential.
func (s *Session) Close() error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.devices = nil
	s.mu.Unlock()
	s.client.ClearToken()
	return nil
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// CurrentUser returns a copy of the profile, or nil when none is loaded.
func (s *Session) CurrentUser() *models.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// LastError returns the failure recorded for op, if any.
func (s *Session) LastError(op string) *models.OperationError {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errs[op]
}

func (s *Session) ClearError(op string) {
	s.mu.Lock()
	delete(s.errs, op)
	s.mu.Unlock()
}

func (s *Session) setToken(token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.client.SetToken(token)
}

func (s *Session) adopt(ctx context.Context, token string) error {
	if err := s.storage.Save(ctx, token); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}
	s.setToken(token)
	return nil
}

func (s *Session) reset() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.devices = nil
	s.mu.Unlock()

	s.client.ClearToken()

	if err := s.storage.Delete(context.Background()); err != nil {
		s.log.Warn(context.Background(), "failed to delete persisted credential", "error", err)
	}
}

// fail records an expected failure under op and returns it as an
// *models.OperationError. Anything else is returned unchanged.
func (s *Session) fail(ctx context.Context, op string, err error) error {
	opErr, ok := toOperationError(err)
	if !ok {
		s.log.Error(ctx, "operation failed", "op", op, "error", err)
		return err
	}

	s.mu.Lock()
	s.errs[op] = opErr
	s.mu.Unlock()

	s.log.Warn(ctx, "operation failed", "op", op, "kind", opErr.Kind, "error", err)

	if opErr.Kind == models.KindAuthInvalid && resetsOnAuthFailure(op) {
		s.reset()
	}
	return opErr
}

// failLoad resets the session whatever the cause, then records err.
func (s *Session) failLoad(ctx context.Context, err error) error {
	s.reset()
	return s.fail(ctx, OpLoadProfile, err)
}

// resetsOnAuthFailure reports whether an auth failure of op means the held
// credential is no longer usable. Login and signup hold none yet, light
// control leaves recovery to the caller and profile loads reset on their own.
func resetsOnAuthFailure(op string) bool {
	switch op {
	case OpLogin, OpSignup, OpControlLight, OpControlLights, OpLoadProfile:
		return false
	}
	return true
}

func toOperationError(err error) (*models.OperationError, bool) {
	var opErr *models.OperationError
	if errors.As(err, &opErr) {
		return opErr, true
	}

	var ve *client.ValidationError
	if errors.As(err, &ve) {
		return models.NewFieldError(ve.Fields, err), true
	}

	var re *client.ResponseError
	if errors.As(err, &re) {
		kind := models.KindOperation
		if re.Status == http.StatusUnauthorized {
			kind = models.KindAuthInvalid
		}
		return models.NewGeneralError(kind, re.Message, err), true
	}

	switch {
	case errors.Is(err, client.ErrUnavailable):
		return models.NewGeneralError(models.KindNetwork, models.UnreachableMessage, err), true
	case errors.Is(err, client.ErrNoCredential):
		return models.NewGeneralError(models.KindAuthInvalid, "please log in first", err), true
	}
	return nil, false
}
