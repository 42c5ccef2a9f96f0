// Package crud builds gin handlers implementing list/get/create/update/delete
// for any resource type persisted as a single collection, with optimistic
// locking on update.
package crud

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/saxenaaman628/ballot-board/internal/telemetry"
)

// ErrInvalid marks errors from build/apply callbacks that should be reported
// to the caller as 400 rather than as a server failure.
var ErrInvalid = errors.New("invalid input")

// Invalidf returns an error wrapping ErrInvalid whose message is shown to the client.
func Invalidf(format string, args ...any) error {
	return &invalidError{msg: fmt.Sprintf(format, args...)}
}

type invalidError struct{ msg string }

func (e *invalidError) Error() string        { return e.msg }
func (e *invalidError) Is(target error) bool { return target == ErrInvalid }

// Record is the shape every managed resource has. A version of 0 means the
// record predates versioning and is treated as version 1.
type Record interface {
	GetID() string
	GetVersion() int
	SetVersion(v int)
}

// Versioned is embedded by records to implement the version half of Record.
type Versioned struct {
	Version int `json:"version,omitempty" mapstructure:"version"`
}

// GetVersion returns the stored version, defaulting to 1 when absent.
func (v *Versioned) GetVersion() int {
	if v.Version < 1 {
		return 1
	}
	return v.Version
}

func (v *Versioned) SetVersion(n int) { v.Version = n }

// Resource describes one resource type.
type Resource[T Record] struct {
	// Name is the lower-case singular label, e.g. "ballot".
	Name    string
	LoadAll func(ctx context.Context) ([]T, error)
	SaveAll func(ctx context.Context, items []T) error
	Tracer  telemetry.Tracer
}

// Collection is satisfied by *store.Collection.
type Collection[T any] interface {
	LoadAll(ctx context.Context) ([]T, error)
	SaveAll(ctx context.Context, items []T) error
}

// NewResource binds a resource name to a collection.
func NewResource[T Record](name string, col Collection[T], tracer telemetry.Tracer) Resource[T] {
	if tracer == nil {
		tracer = telemetry.NopTracer{}
	}
	return Resource[T]{
		Name:    name,
		LoadAll: col.LoadAll,
		SaveAll: col.SaveAll,
		Tracer:  tracer,
	}
}

// Title returns the capitalised resource name used in messages.
func (r Resource[T]) Title() string {
	return Capitalize(r.Name)
}

func (r Resource[T]) tracer() telemetry.Tracer {
	if r.Tracer == nil {
		return telemetry.NopTracer{}
	}
	return r.Tracer
}

func (r Resource[T]) notFound() string {
	return r.Title() + " not found"
}

func (r Resource[T]) conflict() string {
	return "Version conflict - " + r.Name + " was modified by another request. Please refresh and try again."
}

// Capitalize upper-cases the first rune of s.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + s[size:]
}

func indexOf[T Record](items []T, id string) int {
	for i, item := range items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}

func spanName(name, op string) string {
	return strings.ToLower(name) + "." + op
}
