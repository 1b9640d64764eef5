package handler

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/99minutos/staff-portal/internal/core/loginform"
)

const defaultFormCacheSize = 4096

// FormRegistry holds the mounted login form of each browser run, keyed by
// client id. Least recently used forms are dropped once the cache is full.
type FormRegistry struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *loginform.Form]
	build func() *loginform.Form
}

func NewFormRegistry(size int, build func() *loginform.Form) (*FormRegistry, error) {
	if size <= 0 {
		size = defaultFormCacheSize
	}
	cache, err := lru.New[string, *loginform.Form](size)
	if err != nil {
		return nil, err
	}
	return &FormRegistry{cache: cache, build: build}, nil
}

// Mount returns the client's form, creating it on first use.
func (r *FormRegistry) Mount(clientID string) *loginform.Form {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f, ok := r.cache.Get(clientID); ok {
		return f
	}
	f := r.build()
	r.cache.Add(clientID, f)
	return f
}

// Unmount drops the client's form; the next visit starts from a blank one.
func (r *FormRegistry) Unmount(clientID string) {
	r.cache.Remove(clientID)
}

// Len reports the number of mounted forms.
func (r *FormRegistry) Len() int {
	return r.cache.Len()
}
