package form

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"

	"github.com/diogo/askweb/internal/api"
	apierrors "github.com/diogo/askweb/internal/errors"
	"github.com/diogo/askweb/internal/models"
)

// Controller mediates one request/response cycle per submit. It is built once
// per session and owns its view for the session's lifetime.
//
// Begin and Complete must be called from the same goroutine (the UI loop).
// Submit runs a whole cycle on the calling goroutine.
type Controller struct {
	predictor api.Predictor
	view      View
	logw      io.Writer
	verbose   bool

	inFlight atomic.Bool
	status   atomic.Int32
}

// Option configures a Controller
type Option func(*Controller)

// WithLogWriter enables verbose failure logging to w
func WithLogWriter(w io.Writer) Option {
	return func(c *Controller) {
		c.logw = w
		c.verbose = w != nil
	}
}

// NewController binds a predictor to a view
func NewController(predictor api.Predictor, view View, opts ...Option) *Controller {
	c := &Controller{
		predictor: predictor,
		view:      view,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status returns the current mode
func (c *Controller) Status() Status {
	return Status(c.status.Load())
}

// InFlight reports whether a cycle is between Begin and Complete
func (c *Controller) InFlight() bool {
	return c.inFlight.Load()
}

// Submit runs one full cycle: validate, predict, render, clean up.
// It returns the error that was rendered, if any.
func (c *Controller) Submit(ctx context.Context, input string) error {
	question, err := c.Begin(input)
	if err != nil {
		return err
	}

	var (
		answer  *models.Answer
		callErr error
	)
	defer func() {
		if r := recover(); r != nil {
			c.Complete(nil, fmt.Errorf("predict panicked: %v", r))
			panic(r)
		}
		c.Complete(answer, callErr)
	}()

	answer, callErr = c.predictor.Predict(ctx, question)
	return callErr
}

// Begin validates input and, when it is usable, switches the view to its
// loading state. It returns the trimmed question to send.
//
// An empty question raises the alert and changes nothing else. A call while a
// cycle is in flight returns ErrBusy without touching the view.
func (c *Controller) Begin(input string) (string, error) {
	question := strings.TrimSpace(input)
	if question == "" {
		c.view.Alert(models.MessageEmptyQuestion)
		return "", apierrors.ErrEmptyQuestion
	}

	if !c.inFlight.CompareAndSwap(false, true) {
		return "", apierrors.ErrBusy
	}

	c.status.Store(int32(StatusLoading))
	c.view.SetSubmitEnabled(false)
	c.view.SetLoading(true)
	c.view.SetError(false, "")
	c.view.SetOutput(models.PlaceholderSearching, true)

	return question, nil
}

// Complete renders the outcome of the cycle started by Begin and restores the
// interactive state. Cleanup runs on both paths.
func (c *Controller) Complete(answer *models.Answer, err error) {
	defer c.finish()

	if err != nil {
		c.status.Store(int32(StatusError))
		c.logf("%s: %v", models.MessageFetchFailed, err)
		c.view.SetError(true, err.Error())
		c.view.SetOutput(models.PlaceholderInitial, true)
		return
	}

	c.status.Store(int32(StatusSuccess))
	if answer != nil && answer.ServerError != "" {
		c.logf("server reported: %s", answer.ServerError)
	}
	c.view.SetOutput(answer.Display(), !answer.HasAnswer())
}

// finish re-enables the form; it always runs last in a cycle
func (c *Controller) finish() {
	c.view.SetSubmitEnabled(true)
	c.view.SetLoading(false)
	c.inFlight.Store(false)
}

func (c *Controller) logf(format string, args ...any) {
	if !c.verbose {
		return
	}
	fmt.Fprintf(c.logw, "[verbose] "+format+"\n", args...)
}
