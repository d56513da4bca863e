// Package library finds audio files on disk and hands out ephemeral
// handles for them.
package library

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// HandlePrefix marks an ephemeral handle. Handles live only as long as the
// Registry that issued them.
const HandlePrefix = "blob:musicify/"

// Registry maps ephemeral handles to file paths. A file keeps the same
// handle for the registry's lifetime.
type Registry struct {
	mutex    sync.RWMutex
	byPath   map[string]string
	byHandle map[string]string
}

func NewRegistry() *Registry {
	return &Registry{
		byPath:   make(map[string]string),
		byHandle: make(map[string]string),
	}
}

// Handle returns the handle for path, issuing one on first use.
func (r *Registry) Handle(path string) string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if h, ok := r.byPath[path]; ok {
		return h
	}
	h := HandlePrefix + uuid.NewString()
	r.byPath[path] = h
	r.byHandle[h] = path
	return h
}

// Resolve returns the file behind a handle.
func (r *Registry) Resolve(handle string) (string, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	path, ok := r.byHandle[handle]
	return path, ok
}

// IsHandle reports whether src looks like a handle from any registry.
func (r *Registry) IsHandle(src string) bool {
	return strings.HasPrefix(src, HandlePrefix)
}

// Revoke forgets the handle for path, used when the file disappears.
func (r *Registry) Revoke(path string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if h, ok := r.byPath[path]; ok {
		delete(r.byHandle, h)
		delete(r.byPath, path)
	}
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.byHandle)
}
