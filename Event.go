/*
Copyright 2011-2025 Frederic Langlet
Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
you may obtain a copy of the License at

                http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package layerio

import (
	"fmt"
	"sync"
	"time"
)

const (
	EVT_REFILL        = 0 // Buffered reader pulled data from the raw stream
	EVT_FLUSH         = 1 // Buffered writer pushed data to the raw stream
	EVT_PARTIAL_WRITE = 2 // Raw stream accepted less data than requested
	EVT_SEEK          = 3 // Stream position changed
	EVT_TRUNCATE      = 4 // Stream resized
	EVT_CLOSE         = 5 // Stream closed
	EVT_DECODE_CHUNK  = 6 // Text stream decoded a chunk
	EVT_RETRY         = 7 // Interrupted system call retried
)

// Event a stream event
type Event struct {
	eventType int
	name      string
	size      int64
	position  int64
	eventTime time.Time
	msg       string
}

// NewEventFromString creates a new Event instance that wraps a message
func NewEventFromString(evtType int, name, msg string, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, name: name, position: -1, msg: msg, eventTime: evtTime}
}

// NewEvent creates a new Event instance with size and position info.
// A negative position means 'unknown'.
func NewEvent(evtType int, name string, size, position int64, evtTime time.Time) *Event {
	if evtTime.IsZero() {
		evtTime = time.Now()
	}

	return &Event{eventType: evtType, name: name, size: size, position: position, eventTime: evtTime}
}

// Type returns the type info
func (this *Event) Type() int {
	return this.eventType
}

// Name returns the name of the stream that emitted the event
func (this *Event) Name() string {
	return this.name
}

// Time returns the time info
func (this *Event) Time() time.Time {
	return this.eventTime
}

// Size returns the size info
func (this *Event) Size() int64 {
	return this.size
}

// Position returns the position info (-1 if unknown)
func (this *Event) Position() int64 {
	return this.position
}

// TypeName returns the name of the event type
func (this *Event) TypeName() string {
	switch this.eventType {
	case EVT_REFILL:
		return "REFILL"

	case EVT_FLUSH:
		return "FLUSH"

	case EVT_PARTIAL_WRITE:
		return "PARTIAL_WRITE"

	case EVT_SEEK:
		return "SEEK"

	case EVT_TRUNCATE:
		return "TRUNCATE"

	case EVT_CLOSE:
		return "CLOSE"

	case EVT_DECODE_CHUNK:
		return "DECODE_CHUNK"

	case EVT_RETRY:
		return "RETRY"
	}

	return "UNKNOWN"
}

// String returns a string representation of this event.
// If the event wraps a message, the message is returned.
// Otherwise a string is built from the fields.
func (this *Event) String() string {
	if len(this.msg) > 0 {
		return this.msg
	}

	pos := ""

	if this.position >= 0 {
		pos = fmt.Sprintf(", \"position\":%d", this.position)
	}

	return fmt.Sprintf("{ \"type\":\"%s\", \"stream\":%q, \"size\":%d%s, \"time\":%d }",
		this.TypeName(), this.name, this.size, pos, this.eventTime.UnixNano()/1000000)
}

// Listener is an interface implemented by event processors
type Listener interface {
	// ProcessEvent is the method called whenever a Listener receives an event.
	ProcessEvent(evt *Event)
}

// Listeners a list of listeners safe for concurrent registration
type Listeners struct {
	lock      sync.RWMutex
	listeners []Listener
}

// AddListener adds an event listener.
// Returns true if the listener has been added.
func (this *Listeners) AddListener(bl Listener) bool {
	if bl == nil {
		return false
	}

	this.lock.Lock()
	this.listeners = append(this.listeners, bl)
	this.lock.Unlock()
	return true
}

// RemoveListener removes an event listener.
// Returns true if the listener has been removed.
func (this *Listeners) RemoveListener(bl Listener) bool {
	if bl == nil {
		return false
	}

	this.lock.Lock()
	defer this.lock.Unlock()

	for i, e := range this.listeners {
		if e == bl {
			this.listeners = append(this.listeners[:i], this.listeners[i+1:]...)
			return true
		}
	}

	return false
}

// HasListeners returns true if at least one listener is registered
func (this *Listeners) HasListeners() bool {
	this.lock.RLock()
	defer this.lock.RUnlock()
	return len(this.listeners) > 0
}

// Notify sends the event to all the registered listeners
func (this *Listeners) Notify(evt *Event) {
	this.lock.RLock()
	defer this.lock.RUnlock()

	for _, bl := range this.listeners {
		bl.ProcessEvent(evt)
	}
}
