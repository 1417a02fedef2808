// Package screen holds the controllers behind each console page. A
// controller loads data into a View, runs at most one mutation at a time
// through its Gate and reports each mutation as an Outcome.
package screen

import (
	"context"
	"errors"

	"github.com/Harshitk-cp/sump-console/internal/apiclient"
	"github.com/Harshitk-cp/sump-console/internal/validate"
)

const (
	UnexpectedErrorMessage = "An unexpected error occurred"
	NoTenantMessage        = "No tenant selected"
)

var ErrNoTenant = errors.New(NoTenantMessage)

type Status int

const (
	Loading Status = iota
	Error
	Empty
	Loaded
)

func (s Status) String() string {
	switch s {
	case Error:
		return "error"
	case Empty:
		return "empty"
	case Loaded:
		return "loaded"
	default:
		return "loading"
	}
}

type View[T any] struct {
	Status  Status
	Data    T
	Message string
}

func (v View[T]) IsLoaded() bool { return v.Status == Loaded }

// Message picks the text shown for err: validation and API errors speak for
// themselves, anything else gets fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if fe, ok := validate.AsFieldError(err); ok {
		return fe.Message
	}
	if apiErr, ok := apiclient.AsAPIError(err); ok {
		return apiErr.Message
	}
	if errors.Is(err, ErrNoTenant) || errors.Is(err, ErrBusy) || errors.Is(err, ErrNotConfirmed) {
		return err.Error()
	}
	return fallback
}

// TenantSource yields the selected tenant id. identity.Store satisfies it.
type TenantSource interface {
	Get() string
}

func load[T any](ctx context.Context, fallback string, fetch func(context.Context) (T, error), empty func(T) bool) View[T] {
	data, err := fetch(ctx)
	if err != nil {
		return View[T]{Status: Error, Message: Message(err, fallback)}
	}
	if empty != nil && empty(data) {
		return View[T]{Status: Empty, Data: data}
	}
	return View[T]{Status: Loaded, Data: data}
}

func tenantOf(ids TenantSource) (string, error) {
	if ids == nil {
		return "", ErrNoTenant
	}
	id := ids.Get()
	if id == "" {
		return "", ErrNoTenant
	}
	return id, nil
}
