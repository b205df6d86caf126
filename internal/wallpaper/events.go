package wallpaper

import (
	"sync"
	"time"

	"github.com/jmylchreest/tinctd/internal/colour"
)

// EventType names a notification emitted by the service.
type EventType string

const (
	// EventWallpaperChanged fires after the display layer accepted a new wallpaper.
	EventWallpaperChanged EventType = "wallpaper-changed"

	// EventColorsGenerated fires after a theme was extracted for the new wallpaper.
	EventColorsGenerated EventType = "colors-generated"

	// EventModeChanged fires after the light/dark mode switched.
	EventModeChanged EventType = "mode-changed"
)

// Event is delivered to subscribers.
type Event struct {
	Type  EventType     `json:"type"`
	Time  time.Time     `json:"time"`
	Path  string        `json:"path,omitempty"`
	Theme *colour.Theme `json:"theme,omitempty"`
	Dark  *bool         `json:"dark,omitempty"`
}

// subscribers is a callback registry. Callbacks run synchronously on the
// emitting goroutine, in subscription order, and must not block.
type subscribers struct {
	mu   sync.RWMutex
	next int
	fns  map[int]func(Event)
	ids  []int
}

func (s *subscribers) add(fn func(Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fns == nil {
		s.fns = make(map[int]func(Event))
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	s.ids = append(s.ids, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.fns, id)
			for i, v := range s.ids {
				if v == id {
					s.ids = append(s.ids[:i], s.ids[i+1:]...)
					break
				}
			}
		})
	}
}

func (s *subscribers) emit(ev Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.ids))
	for _, id := range s.ids {
		fns = append(fns, s.fns[id])
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
