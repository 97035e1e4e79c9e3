// Package flow implements the sign-in screen state machine.
//
// The controller owns the in-progress record, the persisted visitor list,
// the agent settings, and the active screen. Screens never change state on
// their own; every transition is an explicit method with its guard, so the
// whole flow is unit-testable without a terminal attached.
package flow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/huepham/openhouse/internal/client"
	"github.com/huepham/openhouse/internal/settings"
	"github.com/huepham/openhouse/internal/visitor"
)

// Screen identifies the active screen.
type Screen string

const (
	ScreenDisclosure  Screen = "disclosure"
	ScreenVisitorInfo Screen = "info"
	ScreenSignature   Screen = "signature"
	ScreenDone        Screen = "done"
	ScreenLogin       Screen = "login"
	ScreenCRM         Screen = "crm"
)

// Store is the persistence the controller needs.
type Store interface {
	Visitors() []visitor.Record
	SaveVisitors([]visitor.Record) error
	Settings() settings.Settings
	SaveSettings(settings.Settings) error
}

// API is the remote user service surface the controller uses.
type API interface {
	Login(ctx context.Context, username, password string) (*client.LoginResponse, error)
	CreateUser(ctx context.Context, payload client.UserCreate) (*client.User, error)
	SetToken(token string)
}

// Status is the outcome of the most recent background submission.
type Status struct {
	Submitting bool
	LastError  string
	LastUser   *client.User
}

// Controller drives the sign-in flow and its side effects: persistence on
// completed sign-ins, background submission to the user service, and auth
// gating for the CRM screen.
//
// All navigation happens on one goroutine; only the submission status is
// shared with the background submission goroutine, so the mutex guards just
// those fields.
type Controller struct {
	store Store
	api   API
	now   func() time.Time

	screen   Screen
	current  visitor.Record
	visitors []visitor.Record
	settings settings.Settings

	authenticated bool
	username      string

	mu     sync.Mutex
	status Status
	cancel context.CancelFunc
	done   chan struct{}
}

// New loads persisted state and starts at the disclosure screen with a
// fresh record.
func New(st Store, api API) *Controller {
	return &Controller{
		store:    st,
		api:      api,
		now:      time.Now,
		screen:   ScreenDisclosure,
		current:  visitor.New(),
		visitors: st.Visitors(),
		settings: st.Settings(),
	}
}

// Screen returns the active screen.
func (c *Controller) Screen() Screen { return c.screen }

// Current returns the in-progress record for screens to edit.
func (c *Controller) Current() *visitor.Record { return &c.current }

// Visitors returns the completed sign-in list in insertion order.
func (c *Controller) Visitors() []visitor.Record { return c.visitors }

// Settings returns the current agent settings.
func (c *Controller) Settings() settings.Settings { return c.settings }

// Authenticated reports whether an agent has logged in this session.
func (c *Controller) Authenticated() bool { return c.authenticated }

// Username returns the logged-in agent's username, or "".
func (c *Controller) Username() string { return c.username }

// SetSettings saves edited agent settings.
func (c *Controller) SetSettings(cfg settings.Settings) error {
	cfg.Normalize()
	if err := c.store.SaveSettings(cfg); err != nil {
		return err
	}
	c.settings = cfg
	return nil
}

// AcceptDisclosure records the acknowledgement and advances to the
// visitor-info screen. Continuing without agreeing is not allowed.
func (c *Controller) AcceptDisclosure(agreed bool) error {
	if c.screen != ScreenDisclosure {
		return c.wrongScreen("accept disclosure", ScreenDisclosure)
	}
	if !agreed {
		return fmt.Errorf("the disclosure must be acknowledged to continue")
	}
	c.current.AgreedToDisclosure = true
	c.screen = ScreenVisitorInfo
	return nil
}

// BackToDisclosure returns from the visitor-info screen.
func (c *Controller) BackToDisclosure() error {
	if c.screen != ScreenVisitorInfo {
		return c.wrongScreen("go back to disclosure", ScreenVisitorInfo)
	}
	c.screen = ScreenDisclosure
	return nil
}

// ContinueToSignature advances once a name and email are filled in.
func (c *Controller) ContinueToSignature() error {
	if c.screen != ScreenVisitorInfo {
		return c.wrongScreen("continue to signature", ScreenVisitorInfo)
	}
	if !c.current.HasContactInfo() {
		return fmt.Errorf("full name and email are required")
	}
	c.screen = ScreenSignature
	return nil
}

// BackToVisitorInfo returns from the signature screen.
func (c *Controller) BackToVisitorInfo() error {
	if c.screen != ScreenSignature {
		return c.wrongScreen("go back to visitor info", ScreenSignature)
	}
	c.screen = ScreenVisitorInfo
	return nil
}

// CompleteSignature finalizes the current record: stamps signed-at, appends
// it to the visitor list, persists the list and settings, and starts a
// background submission to the user service.
func (c *Controller) CompleteSignature(signaturePNG []byte) error {
	if c.screen != ScreenSignature {
		return c.wrongScreen("complete signature", ScreenSignature)
	}
	if len(signaturePNG) == 0 {
		return fmt.Errorf("a signature is required")
	}
	if !c.current.Signable() {
		return fmt.Errorf("record is missing disclosure agreement or contact info")
	}

	signed := c.now()
	c.current.SignedAt = &signed
	c.current.SignaturePNG = signaturePNG

	c.visitors = append(c.visitors, c.current)
	if err := c.store.SaveVisitors(c.visitors); err != nil {
		return err
	}
	if err := c.store.SaveSettings(c.settings); err != nil {
		return err
	}

	c.screen = ScreenDone
	c.submit(c.current)
	return nil
}

// Finish resets for the next visitor and returns to the disclosure screen.
// A submission still pending for the previous visitor is cancelled and its
// result discarded, so it can never land in the fresh status fields.
func (c *Controller) Finish() error {
	if c.screen != ScreenDone {
		return c.wrongScreen("finish", ScreenDone)
	}

	c.cancelSubmission()
	c.mu.Lock()
	c.status = Status{}
	c.done = nil
	c.mu.Unlock()

	c.current = visitor.New()
	c.screen = ScreenDisclosure
	return nil
}

// Login authenticates against the user service. Success unlocks the CRM
// screen and lands on the disclosure screen.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	if _, err := c.api.Login(ctx, username, password); err != nil {
		c.authenticated = false
		return err
	}
	c.authenticated = true
	c.username = username
	c.screen = ScreenDisclosure
	return nil
}

// Logout clears the auth state and cached token and shows the login screen.
func (c *Controller) Logout() {
	c.authenticated = false
	c.username = ""
	c.api.SetToken("")
	c.screen = ScreenLogin
}

// OpenLogin shows the login screen.
func (c *Controller) OpenLogin() {
	c.screen = ScreenLogin
}

// CloseLogin dismisses the login screen without authenticating.
func (c *Controller) CloseLogin() error {
	if c.screen != ScreenLogin {
		return c.wrongScreen("close login", ScreenLogin)
	}
	c.screen = ScreenDisclosure
	return nil
}

// OpenCRM shows the CRM screen; it is reachable only when authenticated.
func (c *Controller) OpenCRM() error {
	if !c.authenticated {
		return fmt.Errorf("log in to view the CRM")
	}
	c.screen = ScreenCRM
	return nil
}

// CloseCRM returns from the CRM to the disclosure screen.
func (c *Controller) CloseCRM() error {
	if c.screen != ScreenCRM {
		return c.wrongScreen("close CRM", ScreenCRM)
	}
	c.screen = ScreenDisclosure
	return nil
}

// ClearVisitors bulk-clears the sign-in list and persists.
func (c *Controller) ClearVisitors() error {
	if err := c.store.SaveVisitors(nil); err != nil {
		return err
	}
	c.visitors = nil
	return nil
}

// SubmissionStatus returns a snapshot of the background submission state.
func (c *Controller) SubmissionStatus() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// WaitForSubmission blocks until the in-flight submission, if any, finishes
// or ctx expires.
func (c *Controller) WaitForSubmission(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// submit sends the record to the user service in the background. Any prior
// pending submission is cancelled first.
func (c *Controller) submit(rec visitor.Record) {
	c.cancelSubmission()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.mu.Lock()
	c.status = Status{Submitting: true}
	c.cancel = cancel
	c.done = done
	c.mu.Unlock()

	payload := submissionPayload(rec, c.settings)
	go func() {
		defer close(done)
		user, err := c.api.CreateUser(ctx, payload)

		c.mu.Lock()
		defer c.mu.Unlock()
		if ctx.Err() != nil {
			// Cancelled: the status fields belong to a newer session now.
			return
		}
		c.status.Submitting = false
		if err != nil {
			c.status.LastError = err.Error()
			return
		}
		c.status.LastUser = user
	}()
}

// cancelSubmission cancels a pending submission, if any.
func (c *Controller) cancelSubmission() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// submissionPayload derives the create-user request from a signed record.
func submissionPayload(rec visitor.Record, cfg settings.Settings) client.UserCreate {
	first, last := rec.SplitName()

	note := "Signed in at " + cfg.PropertyAddress
	if rec.HasAgent && rec.AgentName != "" {
		note += "; agent: " + rec.AgentName
	}

	return client.UserCreate{
		FirstName:  first,
		LastName:   last,
		Email:      rec.Email,
		Phone:      rec.Phone,
		Note:       note,
		LeadSource: "open_house",
	}
}

func (c *Controller) wrongScreen(action string, want Screen) error {
	return fmt.Errorf("cannot %s from the %s screen (expected %s)", action, c.screen, want)
}
