package crud

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/saxenaaman628/ballot-board/internal/telemetry"
)

// ListOptions customises the list handler. All fields are optional.
type ListOptions[T Record] struct {
	Filter    func(c *gin.Context, item T) bool
	Less      func(a, b T) bool
	Transform func(c *gin.Context, items []T) any
}

type GetOptions[T Record] struct {
	// Attributes adds span attributes computed from the found item.
	Attributes func(item T) map[string]any
}

type CreateOptions[T Record] struct {
	Validate func(body Body) Validation
	// Build constructs the new record. existing is the current collection.
	Build func(body Body, existing []T) (T, error)
}

type UpdateOptions[T Record] struct {
	Validate func(body Body) Validation
	// Apply merges body into current and returns the record to store.
	Apply func(current T, body Body) (T, error)
	// SkipVersionCheck disables the optimistic lock for append-only updates.
	SkipVersionCheck bool
}

type DeleteOptions[T Record] struct {
	Response func(item T) any
}

// fail records a persistence or callback error for the error middleware and
// aborts the request.
func fail(c *gin.Context, span telemetry.Span, err error) {
	span.SetStatus(false, err.Error())
	_ = c.Error(err)
	c.Abort()
}

func reject(c *gin.Context, span telemetry.Span, status int, msg string) {
	span.SetStatus(false, msg)
	c.JSON(status, gin.H{"error": msg})
}

// List returns a handler for GET /<resources>.
func List[T Record](res Resource[T], opts ListOptions[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		span := res.tracer().Start(c.Request.Context(), spanName(res.Name, "list"))
		defer span.End()

		items, err := res.LoadAll(c.Request.Context())
		if err != nil {
			fail(c, span, err)
			return
		}

		result := make([]T, 0, len(items))
		for _, item := range items {
			if opts.Filter == nil || opts.Filter(c, item) {
				result = append(result, item)
			}
		}
		if opts.Less != nil {
			sort.SliceStable(result, func(i, j int) bool { return opts.Less(result[i], result[j]) })
		}
		span.SetAttribute(res.Name+".count", len(result))

		if opts.Transform != nil {
			c.JSON(http.StatusOK, opts.Transform(c, result))
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// Get returns a handler for GET /<resources>/:id.
func Get[T Record](res Resource[T], opts GetOptions[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		span := res.tracer().Start(c.Request.Context(), spanName(res.Name, "get"))
		defer span.End()

		id := c.Param("id")
		span.SetAttribute(res.Name+".id", id)
		items, err := res.LoadAll(c.Request.Context())
		if err != nil {
			fail(c, span, err)
			return
		}

		i := indexOf(items, id)
		if i < 0 {
			reject(c, span, http.StatusNotFound, res.notFound())
			return
		}
		item := items[i]
		if opts.Attributes != nil {
			for k, v := range opts.Attributes(item) {
				span.SetAttribute(k, v)
			}
		}
		c.JSON(http.StatusOK, item)
	}
}

// Delete returns a handler for DELETE /<resources>/:id.
func Delete[T Record](res Resource[T], opts DeleteOptions[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		span := res.tracer().Start(c.Request.Context(), spanName(res.Name, "delete"))
		defer span.End()

		id := c.Param("id")
		span.SetAttribute(res.Name+".id", id)
		items, err := res.LoadAll(c.Request.Context())
		if err != nil {
			fail(c, span, err)
			return
		}

		i := indexOf(items, id)
		if i < 0 {
			reject(c, span, http.StatusNotFound, res.notFound())
			return
		}
		deleted := items[i]
		remaining := append(items[:i:i], items[i+1:]...)
		if err := res.SaveAll(c.Request.Context(), remaining); err != nil {
			fail(c, span, err)
			return
		}

		if opts.Response != nil {
			c.JSON(http.StatusOK, opts.Response(deleted))
			return
		}
		resp := gin.H{"message": res.Title() + " deleted successfully"}
		resp["deleted"+res.Title()] = gin.H{"id": deleted.GetID()}
		c.JSON(http.StatusOK, resp)
	}
}

// Create returns a handler for POST /<resources>.
func Create[T Record](res Resource[T], opts CreateOptions[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		span := res.tracer().Start(c.Request.Context(), spanName(res.Name, "create"))
		defer span.End()

		body, ok := parseBody(c)
		if !ok {
			reject(c, span, http.StatusBadRequest, msgInvalidBody)
			return
		}
		if opts.Validate != nil {
			if v := opts.Validate(body); !v.Valid {
				reject(c, span, http.StatusBadRequest, v.Error)
				return
			}
		}

		items, err := res.LoadAll(c.Request.Context())
		if err != nil {
			fail(c, span, err)
			return
		}
		item, err := opts.Build(body, items)
		if err != nil {
			if errors.Is(err, ErrInvalid) {
				reject(c, span, http.StatusBadRequest, err.Error())
				return
			}
			fail(c, span, err)
			return
		}
		item.SetVersion(1)
		span.SetAttribute(res.Name+".id", item.GetID())

		if err := res.SaveAll(c.Request.Context(), append(items, item)); err != nil {
			fail(c, span, err)
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// Update returns a handler for PUT /<resources>/:id. Unless SkipVersionCheck
// is set, the body's version must equal the stored version; the stored
// version is then incremented by one.
func Update[T Record](res Resource[T], opts UpdateOptions[T]) gin.HandlerFunc {
	return func(c *gin.Context) {
		span := res.tracer().Start(c.Request.Context(), spanName(res.Name, "update"))
		defer span.End()

		id := c.Param("id")
		span.SetAttribute(res.Name+".id", id)
		body, ok := parseBody(c)
		if !ok {
			reject(c, span, http.StatusBadRequest, msgInvalidBody)
			return
		}
		version, ok := versionOf(body)
		if !ok {
			reject(c, span, http.StatusBadRequest, "version must be an integer")
			return
		}
		if opts.Validate != nil {
			if v := opts.Validate(body); !v.Valid {
				reject(c, span, http.StatusBadRequest, v.Error)
				return
			}
		}

		items, err := res.LoadAll(c.Request.Context())
		if err != nil {
			fail(c, span, err)
			return
		}
		i := indexOf(items, id)
		if i < 0 {
			reject(c, span, http.StatusNotFound, res.notFound())
			return
		}

		current := items[i]
		currentVersion := current.GetVersion()
		span.SetAttribute(res.Name+".version", currentVersion)
		if !opts.SkipVersionCheck && version != currentVersion {
			span.SetStatus(false, "version conflict")
			c.JSON(http.StatusConflict, gin.H{
				"error":          res.conflict(),
				"currentVersion": currentVersion,
			})
			return
		}

		updated, err := opts.Apply(current, body)
		if err != nil {
			if errors.Is(err, ErrInvalid) {
				reject(c, span, http.StatusBadRequest, err.Error())
				return
			}
			fail(c, span, err)
			return
		}
		if updated.GetID() != current.GetID() {
			fail(c, span, errors.New(res.Name+": update changed record id"))
			return
		}
		updated.SetVersion(currentVersion + 1)

		next := make([]T, len(items))
		copy(next, items)
		next[i] = updated
		if err := res.SaveAll(c.Request.Context(), next); err != nil {
			fail(c, span, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}
