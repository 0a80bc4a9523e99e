// FilePath: internal/dashboard/dashboard.go
package dashboard

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/itsatony/irrigador/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// State of the dashboard controller
type State int

const (
	StateIdle State = iota
	StateUnauthenticated
	StateLoading
	StateLoaded
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// User-facing notices
const (
	NoticeSessionExpired   = "Session expired or unauthorized. Please log in again."
	NoticeLoadFailed       = "Could not load the dashboard data."
	NoticeConnectionFailed = "Connection error while loading the dashboard."
	NoticeCommandFailed    = "Failed to start manual watering: "
	NoticeCommandNetwork   = "Connection error while trying to water manually."
)

var (
	// ErrBusy is returned when another network sequence is still running
	ErrBusy = stderrors.New("dashboard is busy")
	// ErrNoSession is returned when no session token is stored
	ErrNoSession = stderrors.New("no session")
	// ErrInvalidState is returned when an action is not allowed in the current state
	ErrInvalidState = stderrors.New("action not allowed in current state")
)

const DefaultFetchTimeout = 10 * time.Second

// View renders the controller state
type View interface {
	Render(state State, fields Fields)
}

// Notifier shows a one-off message to the user
type Notifier interface {
	Notify(msg string)
}

// Navigator sends the user to the login page
type Navigator interface {
	RedirectToLogin()
}

type Options struct {
	DeviceID     string
	Session      Session
	Source       DataSource
	Issuer       IrrigationCommandIssuer
	View         View
	Notifier     Notifier
	Navigator    Navigator
	Formatter    *Formatter
	FetchTimeout time.Duration
}

// Controller gates the dashboard on the session and keeps the displayed
// fields in sync with the latest reading. Only one network sequence runs at
// a time.
type Controller struct {
	deviceID     string
	session      Session
	source       DataSource
	issuer       IrrigationCommandIssuer
	view         View
	notifier     Notifier
	navigator    Navigator
	formatter    *Formatter
	fetchTimeout time.Duration

	busy sync.Mutex

	mu     sync.RWMutex
	state  State
	fields Fields
}

func NewController(opts Options) (*Controller, error) {
	switch {
	case opts.Session == nil:
		return nil, errors.NewValidationError("session is required", nil)
	case opts.Source == nil:
		return nil, errors.NewValidationError("data source is required", nil)
	case opts.Issuer == nil:
		return nil, errors.NewValidationError("command issuer is required", nil)
	case opts.View == nil, opts.Notifier == nil, opts.Navigator == nil:
		return nil, errors.NewValidationError("view, notifier and navigator are required", nil)
	}

	if opts.Formatter == nil {
		opts.Formatter = NewFormatter(DefaultDateLayout, time.Local)
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}

	return &Controller{
		deviceID:     opts.DeviceID,
		session:      opts.Session,
		source:       opts.Source,
		issuer:       opts.Issuer,
		view:         opts.View,
		notifier:     opts.Notifier,
		navigator:    opts.Navigator,
		formatter:    opts.Formatter,
		fetchTimeout: opts.FetchTimeout,
		state:        StateIdle,
	}, nil
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Controller) Fields() Fields {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fields
}

// Load checks the session and fetches the latest reading. Without a session
// the user is redirected to login and nothing is fetched.
func (c *Controller) Load(ctx context.Context) error {
	if !c.busy.TryLock() {
		return ErrBusy
	}
	defer c.busy.Unlock()

	if c.session.Token() == "" {
		c.signOut()
		c.navigator.RedirectToLogin()
		return ErrNoSession
	}
	return c.fetch(ctx, true)
}

// Refresh re-fetches from Loaded or Error.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.busy.TryLock() {
		return ErrBusy
	}
	defer c.busy.Unlock()

	if st := c.State(); st != StateLoaded && st != StateError {
		return ErrInvalidState
	}
	if c.session.Token() == "" {
		c.expireSession()
		return ErrNoSession
	}
	return c.fetch(ctx, false)
}

// TriggerManualAction issues the watering command, reports the outcome and
// re-fetches. An authorization failure ends the session instead, and a logout
// while the command is pending suppresses the re-fetch.
func (c *Controller) TriggerManualAction(ctx context.Context) error {
	if !c.busy.TryLock() {
		return ErrBusy
	}
	defer c.busy.Unlock()

	if st := c.State(); st != StateLoaded && st != StateError {
		return ErrInvalidState
	}
	if c.session.Token() == "" {
		c.expireSession()
		return ErrNoSession
	}

	cmdCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	ack, cmdErr := c.issuer.Trigger(cmdCtx, c.deviceID)
	cancel()

	if cmdErr != nil {
		if errors.IsUnauthorized(cmdErr) {
			c.expireSession()
			return cmdErr
		}
		nuts.L.Warnf("[Dashboard] Manual watering failed for %s: %v", c.deviceID, cmdErr)
		c.notifier.Notify(commandFailureNotice(cmdErr))
	} else {
		nuts.L.Infof("[Dashboard] Manual watering %s acknowledged for %s", ack.RequestID, c.deviceID)
		c.notifier.Notify(ack.Message)
	}

	fetchErr := c.fetch(ctx, false)
	if cmdErr != nil {
		return cmdErr
	}
	return fetchErr
}

// Logout clears the session and redirects to login. It does not wait for a
// running operation; whatever that operation returns later is discarded.
func (c *Controller) Logout() error {
	err := c.session.Clear()
	c.signOut()
	c.navigator.RedirectToLogin()
	return err
}

// fetch loads the latest reading with the token currently in the session.
// Only Load may start from Unauthenticated; every other caller stops once
// the session has ended.
func (c *Controller) fetch(ctx context.Context, fromSignedOut bool) error {
	token := c.session.Token()

	c.mu.Lock()
	if c.state == StateUnauthenticated && !fromSignedOut {
		c.mu.Unlock()
		return ErrNoSession
	}
	if token == "" {
		c.mu.Unlock()
		c.expireSession()
		return ErrNoSession
	}
	c.state = StateLoading
	fields := c.fields
	c.mu.Unlock()
	c.view.Render(StateLoading, fields)

	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	reading, err := c.source.Latest(ctx, c.deviceID, token)
	if err != nil {
		c.fail(err)
		return err
	}

	fields = c.formatter.Format(*reading)

	c.mu.Lock()
	if c.state != StateLoading {
		// logged out while the request was in flight
		c.mu.Unlock()
		return ErrNoSession
	}
	c.state = StateLoaded
	c.fields = fields
	c.mu.Unlock()

	c.view.Render(StateLoaded, fields)
	return nil
}

func (c *Controller) fail(err error) {
	c.mu.Lock()
	if c.state != StateLoading {
		c.mu.Unlock()
		return
	}
	if errors.IsUnauthorized(err) {
		c.mu.Unlock()
		c.expireSession()
		return
	}
	c.state = StateError
	fields := c.fields
	c.mu.Unlock()

	nuts.L.Warnf("[Dashboard] Failed to load snapshot for %s: %v", c.deviceID, err)
	c.view.Render(StateError, fields)
	c.notifier.Notify(loadFailureNotice(err))
}

// expireSession ends a session the backend rejected. Once signed out, a
// repeated expiry only makes sure the stored token is gone.
func (c *Controller) expireSession() {
	if err := c.session.Clear(); err != nil {
		nuts.L.Errorf("[Dashboard] Failed to clear session: %v", err)
	}
	if !c.signOut() {
		return
	}
	c.notifier.Notify(NoticeSessionExpired)
	c.navigator.RedirectToLogin()
}

// signOut moves to Unauthenticated and drops the displayed reading. It
// reports whether the state changed.
func (c *Controller) signOut() bool {
	c.mu.Lock()
	changed := c.state != StateUnauthenticated
	c.state = StateUnauthenticated
	c.fields = Fields{}
	c.mu.Unlock()

	c.view.Render(StateUnauthenticated, Fields{})
	return changed
}

func loadFailureNotice(err error) string {
	if isConnectionFailure(err) {
		return NoticeConnectionFailed
	}
	return NoticeLoadFailed
}

func commandFailureNotice(err error) string {
	if isConnectionFailure(err) {
		return NoticeCommandNetwork
	}
	msg := "unknown error."
	if apiErr, ok := errors.As(err); ok && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return NoticeCommandFailed + msg
}

func isConnectionFailure(err error) bool {
	return errors.IsNetwork(err) ||
		stderrors.Is(err, context.DeadlineExceeded) ||
		stderrors.Is(err, context.Canceled)
}
