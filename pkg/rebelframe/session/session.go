// Package session keeps track of the logged in user. It authenticates
// against the backend, persists the access token in a credential store and
// tells subscribers when the user logs in or out.
package session

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/cloud"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/internal"
)

const (
	accountAccessToken = "cloudAccessToken"
	accountUserID      = "loggedinUserId"
)

var (
	ErrNoStore       = errors.New("session: no credential store")
	ErrNoTransport   = errors.New("session: no cloud client")
	ErrMissingToken  = errors.New("session: response carried no access token")
	ErrMissingUser   = errors.New("session: response carried no user")
	ErrNotLoggedIn   = errors.New("session: not logged in")
	ErrEmptyIdentity = errors.New("session: email and password are required")
)

// Poster schedules a function on the UI goroutine.
type Poster interface {
	Post(fn func())
}

// Options configures a Manager.
type Options struct {
	Store   Store // required
	Cloud   *cloud.Client
	Service string // credential namespace, usually the application id
	Salt    string
	// UserType is sent with password logins.
	UserType string

	// Loop, when set, runs session change handlers on the UI goroutine.
	Loop   Poster
	Logger *slog.Logger
}

// User is the logged in account as returned by the backend.
type User struct {
	ID    ID     `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// ID accepts both string and numeric JSON identifiers.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(data, []byte(`"`)) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	*id = ID(data)
	return nil
}

type authResponse struct {
	AccessToken *struct {
		AccessToken string `json:"access_token"`
	} `json:"access_token"`
	User *User `json:"user"`
}

type listener struct {
	id uint64
	fn func(authenticated bool)
}

// Manager implements the session gate consumed by the window manager.
type Manager struct {
	opts Options
	log  *slog.Logger

	mu        sync.Mutex
	user      *User
	token     string
	next      uint64
	listeners []listener
}

// New restores any persisted session from the store.
func New(opts Options) (*Manager, error) {
	if opts.Store == nil {
		return nil, ErrNoStore
	}
	if opts.Logger == nil {
		opts.Logger = internal.GetInternalLogger()
	}
	if opts.UserType == "" {
		opts.UserType = "rebelframe"
	}

	m := &Manager{
		opts: opts,
		log:  opts.Logger.With("component", "session"),
	}

	token, err := m.credential(accountAccessToken)
	if err != nil {
		return nil, err
	}
	userID, err := m.credential(accountUserID)
	if err != nil {
		return nil, err
	}

	m.token = token
	if userID != "" {
		m.user = &User{ID: ID(userID)}
	}
	m.applyToken()

	m.log.Debug("Session restored", "authenticated", m.user != nil)
	return m, nil
}

func (m *Manager) credential(account string) (string, error) {
	v, err := m.opts.Store.Credential(m.opts.Service, account)
	if errors.Is(err, ErrNoCredential) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %s: %w", account, err)
	}
	return v, nil
}

// HashPassword returns the hex SHA-1 of password followed by salt, the form
// the backend expects.
func HashPassword(password, salt string) string {
	sum := sha1.Sum([]byte(password + salt))
	return hex.EncodeToString(sum[:])
}

func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

func (m *Manager) CurrentUserID() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return "", false
	}
	return string(m.user.ID), true
}

// User returns a copy of the logged in user, or nil.
func (m *Manager) User() *User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return nil
	}
	u := *m.user
	return &u
}

// AccessToken returns the current backend token.
func (m *Manager) AccessToken() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// OnSessionChange registers fn to be told about logins and logouts.
func (m *Manager) OnSessionChange(fn func(authenticated bool)) (cancel func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.next++
	id := m.next
	m.listeners = append(m.listeners, listener{id: id, fn: fn})

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.listeners = slices.DeleteFunc(m.listeners, func(l listener) bool { return l.id == id })
	}
}

// Login authenticates with email and password. The password is never sent
// or stored in clear.
func (m *Manager) Login(ctx context.Context, email, password string) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrEmptyIdentity
	}
	if m.opts.Cloud == nil {
		return nil, ErrNoTransport
	}

	hashed := HashPassword(password, m.opts.Salt)

	var resp authResponse
	err := m.opts.Cloud.DoJSON(ctx, cloud.Request{
		Method: "POST",
		Path:   "/oauth/access_token",
		Data: map[string]any{
			"username":         email,
			"password":         hashed,
			"include_entities": true,
			"user_type":        m.opts.UserType,
			"grant_type":       "client_credentials",
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == nil || resp.AccessToken.AccessToken == "" {
		return nil, ErrMissingToken
	}
	if resp.User == nil {
		return nil, ErrMissingUser
	}

	if err := m.opts.Store.SetCredential(m.opts.Service, email, hashed); err != nil {
		return nil, fmt.Errorf("store credentials: %w", err)
	}
	resp.User.Email = email

	return m.loggedIn(resp)
}

// Signup registers a new account and logs it in. Extra fields are sent
// alongside email and the hashed password.
func (m *Manager) Signup(ctx context.Context, email, password string, fields map[string]any) (*User, error) {
	if email == "" || password == "" {
		return nil, ErrEmptyIdentity
	}
	if m.opts.Cloud == nil {
		return nil, ErrNoTransport
	}

	hashed := HashPassword(password, m.opts.Salt)
	if err := m.opts.Store.SetCredential(m.opts.Service, email, hashed); err != nil {
		return nil, fmt.Errorf("store credentials: %w", err)
	}

	data := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		data[k] = v
	}
	data["email"] = email
	data["password"] = hashed

	var resp authResponse
	if err := m.opts.Cloud.DoJSON(ctx, cloud.Request{Method: "POST", Path: "/user", Data: data}, &resp); err != nil {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if resp.User == nil {
		return nil, ErrMissingUser
	}
	if resp.User.Email == "" {
		resp.User.Email = email
	}

	return m.loggedIn(resp)
}

func (m *Manager) loggedIn(resp authResponse) (*User, error) {
	if resp.AccessToken != nil && resp.AccessToken.AccessToken != "" {
		if err := m.setToken(resp.AccessToken.AccessToken); err != nil {
			return nil, err
		}
	}
	if err := m.opts.Store.SetCredential(m.opts.Service, accountUserID, string(resp.User.ID)); err != nil {
		return nil, fmt.Errorf("store user id: %w", err)
	}

	m.mu.Lock()
	u := *resp.User
	m.user = &u
	m.mu.Unlock()

	m.log.Info("Logged in", "user", u.ID)
	m.notify(true)
	return &u, nil
}

func (m *Manager) setToken(token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	m.applyToken()

	if token == "" {
		return m.opts.Store.DelCredential(m.opts.Service, accountAccessToken)
	}
	return m.opts.Store.SetCredential(m.opts.Service, accountAccessToken, token)
}

func (m *Manager) applyToken() {
	if m.opts.Cloud != nil {
		m.opts.Cloud.SetToken(m.AccessToken())
	}
}

// Logout forgets the user and the access token. Stored password hashes are
// kept so the account can be offered again.
func (m *Manager) Logout() error {
	m.mu.Lock()
	if m.user == nil {
		m.mu.Unlock()
		return ErrNotLoggedIn
	}
	id := m.user.ID
	m.user = nil
	m.mu.Unlock()

	if err := m.opts.Store.DelCredential(m.opts.Service, accountUserID); err != nil {
		m.log.Warn("Could not remove user id", "error", err)
	}
	if err := m.setToken(""); err != nil {
		m.log.Warn("Could not remove access token", "error", err)
	}

	m.log.Info("Logged out", "user", id)
	m.notify(false)
	return nil
}

// StoredPassword returns the password hash remembered for email.
func (m *Manager) StoredPassword(email string) (string, bool) {
	v, err := m.opts.Store.Credential(m.opts.Service, email)
	if err != nil {
		return "", false
	}
	return v, true
}

func (m *Manager) notify(authenticated bool) {
	m.mu.Lock()
	fns := make([]func(bool), 0, len(m.listeners))
	for _, l := range m.listeners {
		fns = append(fns, l.fn)
	}
	m.mu.Unlock()

	run := func() {
		for _, fn := range fns {
			fn(authenticated)
		}
	}
	if m.opts.Loop != nil {
		m.opts.Loop.Post(run)
		return
	}
	run()
}
