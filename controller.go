package formstate

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/tbxark/formstate/extract"
	"github.com/tbxark/formstate/patch"
	"github.com/tbxark/formstate/store"
	"github.com/tbxark/formstate/types"
)

// Controller owns the state of one form and runs validation against it. All
// methods are safe for concurrent use.
//
// Every validation run is tagged with an epoch taken together with the value
// snapshot it validates. When the validator returns, its errors are applied only
// if no newer run was issued in the meantime, so the most recently started
// validation wins regardless of which one finishes last.
type Controller[T any] struct {
	id        string
	fields    patch.Fields
	validator Validator[T]
	submit    SubmitFunc[T]
	extractor extract.Extractor
	logger    *slog.Logger

	mu    sync.Mutex
	state store.State[T]
	epoch atomic.Uint64

	listeners map[uint64]func(store.State[T])
	nextSub   uint64
}

// New creates a controller seeded with cfg.InitialValues and cfg.InitialErrors.
func New[T any](cfg Config[T]) *Controller[T] {
	id := cfg.ID
	if id == "" {
		id = uuid.New().String()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	extractor := cfg.Extractor
	if extractor == nil {
		extractor = extract.Default{}
	}
	return &Controller[T]{
		id:        id,
		fields:    patch.FieldsOf[T](),
		validator: cfg.Validator,
		submit:    cfg.OnSubmit,
		extractor: extractor,
		logger:    logger.With("form_id", id),
		state:     store.New(cfg.InitialValues, cfg.InitialErrors),
		listeners: make(map[uint64]func(store.State[T])),
	}
}

func (c *Controller[T]) ID() string {
	return c.id
}

// HandleChange stores the value extracted from control under name, then
// validates the updated values unless opts.SkipValidation is set. The value is
// applied before validation starts and stays applied whatever the validator
// returns.
//
// A typed field can reject the value: partial input such as "-" for a number
// field returns patch.ErrTypeMismatch and leaves the state untouched. Keep the
// raw text in the input control until it parses.
func (c *Controller[T]) HandleChange(ctx context.Context, name string, control extract.Control, opts ChangeOptions) error {
	if err := c.fields.Check(name); err != nil {
		return fmt.Errorf("formstate: change: %w", err)
	}
	value := c.extractor.Extract(control)
	c.logger.Debug("Field changed", "field", name, "value", value)
	return c.update(ctx, types.Patch{name: value}, opts)
}

// UpdateValues merges values onto the latest form values and validates the
// result unless opts.SkipValidation is set.
func (c *Controller[T]) UpdateValues(ctx context.Context, values types.Patch, opts ChangeOptions) error {
	c.logger.Debug("Updating values", "fields", values.Fields())
	return c.update(ctx, values, opts)
}

func (c *Controller[T]) update(ctx context.Context, values types.Patch, opts ChangeOptions) error {
	state, seq, err := c.commit(!opts.SkipValidation, store.PatchValues{Values: values.Clone()})
	if err != nil {
		return fmt.Errorf("formstate: update values: %w", err)
	}
	if opts.SkipValidation {
		return nil
	}
	_, err = c.runValidation(ctx, seq, state.Values)
	return err
}

// HandleSubmit marks the form as attempted, validates the current values and
// calls the submit callback when they are valid. It reports whether the callback
// ran. A result superseded by a newer validation does not submit.
func (c *Controller[T]) HandleSubmit(ctx context.Context) (bool, error) {
	state, seq, err := c.commit(true, store.SetPristine{Pristine: false})
	if err != nil {
		return false, fmt.Errorf("formstate: submit: %w", err)
	}
	result, err := c.runValidation(ctx, seq, state.Values)
	if err != nil {
		return false, err
	}
	if result.Stale {
		c.logger.Debug("Submit skipped, validation superseded", "epoch", seq)
		return false, nil
	}
	if !result.Valid() {
		c.logger.Debug("Submit blocked by validation errors", "fields", result.Errors.Fields())
		return false, nil
	}
	if c.submit != nil {
		if err := c.submit(ctx, state.Values); err != nil {
			return false, fmt.Errorf("formstate: submit: %w", err)
		}
	}
	c.logger.Debug("Submitted form", "version", state.Version)
	return true, nil
}

// Validate runs the validation pipeline against the current values.
func (c *Controller[T]) Validate(ctx context.Context) (ValidationResult, error) {
	state, seq, err := c.commit(true)
	if err != nil {
		return ValidationResult{}, err
	}
	return c.runValidation(ctx, seq, state.Values)
}

// SetValidationErrors layers errs on top of the current errors. Fields not named
// in errs keep their message; an empty message clears a field.
func (c *Controller[T]) SetValidationErrors(errs types.ErrorMap) {
	c.mu.Lock()
	merged := c.state.Errors.Merge(errs)
	next, _ := store.Reduce(c.state, store.SetErrors{Errors: merged})
	c.state = next
	listeners := c.listenersLocked()
	c.mu.Unlock()

	c.logger.Debug("Merged validation errors", "fields", merged.Fields(), "valid", next.IsValid)
	c.publish(listeners, next)
}

// Reset restores the values and errors the controller was created with. Any
// validation still running is discarded when it returns.
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	next, _ := store.Reduce(c.state, store.ResetForm{})
	c.state = next
	seq := c.epoch.Add(1)
	listeners := c.listenersLocked()
	c.mu.Unlock()

	c.logger.Debug("Reset form", "epoch", seq)
	c.publish(listeners, next)
}

// runValidation validates values on behalf of the run tagged seq and applies the
// result if seq is still the latest epoch.
func (c *Controller[T]) runValidation(ctx context.Context, seq uint64, values T) (ValidationResult, error) {
	errs := types.ErrorMap{}
	if c.validator != nil {
		res, err := c.validator.Validate(ctx, values)
		if err != nil {
			c.logger.Debug("Validator failed", "epoch", seq, "error", err)
			return ValidationResult{}, fmt.Errorf("formstate: validate: %w", err)
		}
		errs = res.Normalize()
	}

	c.mu.Lock()
	if latest := c.epoch.Load(); seq != latest {
		c.mu.Unlock()
		c.logger.Debug("Discarding stale validation result", "epoch", seq, "latest", latest)
		return ValidationResult{Errors: errs, Stale: true}, nil
	}
	next, _ := store.Reduce(c.state, store.SetErrors{Errors: errs})
	c.state = next
	listeners := c.listenersLocked()
	c.mu.Unlock()

	c.logger.Debug("Applied validation result", "epoch", seq, "fields", errs.Fields())
	c.publish(listeners, next)
	return ValidationResult{Errors: errs}, nil
}

// commit reduces actions atomically. With issue set it also opens a new
// validation epoch bound to the resulting state.
func (c *Controller[T]) commit(issue bool, actions ...store.Action) (store.State[T], uint64, error) {
	c.mu.Lock()
	next := c.state
	for _, a := range actions {
		reduced, err := store.Reduce(next, a)
		if err != nil {
			current := c.state
			c.mu.Unlock()
			return current, 0, err
		}
		c.logger.Debug("Dispatched action", "action", a.Kind(), "version", reduced.Version)
		next = reduced
	}
	c.state = next
	var seq uint64
	if issue {
		seq = c.epoch.Add(1)
	}
	var listeners []func(store.State[T])
	if len(actions) > 0 {
		listeners = c.listenersLocked()
	}
	c.mu.Unlock()

	c.publish(listeners, next)
	return next, seq, nil
}
