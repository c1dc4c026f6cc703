package repositories

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/yigit/kaddem/internal/pkg/apperrors"
	"github.com/yigit/kaddem/internal/remote"
)

// DefaultContextPath is the backend context path shared by every resource
const DefaultContextPath = "kaddem"

// Option configures a repository
type Option func(*settings)

type settings struct {
	contextPath string
}

// WithContextPath overrides the backend context path. Surrounding slashes
// are ignored and an empty path keeps the default.
func WithContextPath(path string) Option {
	return func(s *settings) {
		if p := strings.Trim(path, "/"); p != "" {
			s.contextPath = p
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{contextPath: DefaultContextPath}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// endpoints holds the backend paths of one resource. The backend names
// them after the singular noun, e.g. retrieve-all-etudiants, add-etudiant.
type endpoints struct {
	root   string
	list   string
	get    string
	add    string
	update string
	remove string
}

func newEndpoints(contextPath, noun string) endpoints {
	root := contextPath + "/" + noun
	return endpoints{
		root:   root,
		list:   root + "/retrieve-all-" + noun + "s",
		get:    root + "/retrieve-" + noun,
		add:    root + "/add-" + noun,
		update: root + "/update-" + noun,
		remove: root + "/remove-" + noun,
	}
}

// resource implements the CRUD contract shared by every collection
type resource[T any] struct {
	client *remote.Client
	name   string
	paths  endpoints
	idOf   func(T) int64
}

func newResource[T any](client *remote.Client, name, noun string, idOf func(T) int64, opts []Option) *resource[T] {
	return &resource[T]{
		client: client,
		name:   name,
		paths:  newEndpoints(newSettings(opts).contextPath, noun),
		idOf:   idOf,
	}
}

func withID(path string, id int64) string {
	return path + "/" + strconv.FormatInt(id, 10)
}

// List retrieves the whole collection
func (r *resource[T]) List(ctx context.Context) ([]T, error) {
	var items []T
	err := r.client.Do(ctx, remote.Request{
		Action: "list " + r.name,
		Method: http.MethodGet,
		Path:   r.paths.list,
	}, &items)
	if remote.IsEmptyBody(err) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// GetByID retrieves one item. The backend answers an unknown id with an
// empty body, which is reported as not found like a 404.
func (r *resource[T]) GetByID(ctx context.Context, id int64) (T, error) {
	var item T
	err := r.client.Do(ctx, remote.Request{
		Action:   "get " + r.name,
		Method:   http.MethodGet,
		Path:     withID(r.paths.get, id),
		Resource: r.name,
		ID:       id,
	}, &item)
	if remote.IsEmptyBody(err) {
		return item, apperrors.NewNotFoundError(r.name, id)
	}
	return item, err
}

// Create posts an item without id and returns it with the id assigned remotely
func (r *resource[T]) Create(ctx context.Context, item T) (T, error) {
	var created T
	action := "create " + r.name
	err := r.client.Do(ctx, remote.Request{
		Action: action,
		Method: http.MethodPost,
		Path:   r.paths.add,
		Body:   item,
	}, &created)
	if remote.IsEmptyBody(err) {
		return created, apperrors.NewNetworkError(action, fmt.Errorf("backend returned no %s", r.name))
	}
	return created, err
}

// Update replaces an existing item identified by its id
func (r *resource[T]) Update(ctx context.Context, item T) (T, error) {
	var updated T
	id := r.idOf(item)
	err := r.client.Do(ctx, remote.Request{
		Action:   "update " + r.name,
		Method:   http.MethodPut,
		Path:     r.paths.update,
		Body:     item,
		Resource: r.name,
		ID:       id,
	}, &updated)
	if remote.IsEmptyBody(err) {
		return item, nil
	}
	return updated, err
}

// Delete removes the item with id
func (r *resource[T]) Delete(ctx context.Context, id int64) error {
	return r.client.Do(ctx, remote.Request{
		Action:   "delete " + r.name,
		Method:   http.MethodDelete,
		Path:     withID(r.paths.remove, id),
		Resource: r.name,
		ID:       id,
	}, nil)
}
