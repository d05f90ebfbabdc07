// Package notify collects user-facing notifications raised while commands run.
package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Type is the severity of a notification.
type Type int

const (
	TypeSuccess Type = iota
	TypeError
	TypeWarning
	TypeInfo
)

func (t Type) String() string {
	switch t {
	case TypeSuccess:
		return "success"
	case TypeError:
		return "error"
	case TypeWarning:
		return "warning"
	case TypeInfo:
		return "info"
	}
	return fmt.Sprintf("type(%d)", int(t))
}

// Notification is one message shown to the user.
type Notification struct {
	ID        int       `json:"id"`
	Type      Type      `json:"-"`
	TypeName  string    `json:"type"`
	Headline  string    `json:"headline"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Sticky    bool      `json:"sticky,omitempty"`
}

// Center holds live notifications. An identical live notification is not added twice.
// It is safe for concurrent use.
type Center struct {
	mu     sync.Mutex
	nextID int
	items  []Notification
	sink   io.Writer
	now    func() time.Time
}

// NewCenter creates a Center. When sink is non-nil each new notification is also
// written to it as a single line.
func NewCenter(sink io.Writer) *Center {
	return &Center{sink: sink, now: time.Now}
}

// Add records n and returns its id. A duplicate of a live notification returns the existing id.
func (c *Center) Add(n Notification) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.items {
		if existing.Type == n.Type && existing.Headline == n.Headline && existing.Message == n.Message {
			return existing.ID
		}
	}
	c.nextID++
	n.ID = c.nextID
	n.TypeName = n.Type.String()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = c.now()
	}
	c.items = append(c.items, n)
	if c.sink != nil {
		_, _ = io.WriteString(c.sink, format(n))
	}
	return n.ID
}

func (c *Center) Error(headline, message string) {
	c.Add(Notification{Type: TypeError, Headline: headline, Message: message, Sticky: true})
}

func (c *Center) Warning(headline, message string) {
	c.Add(Notification{Type: TypeWarning, Headline: headline, Message: message})
}

func (c *Center) Success(headline, message string) {
	c.Add(Notification{Type: TypeSuccess, Headline: headline, Message: message})
}

func (c *Center) Info(headline, message string) {
	c.Add(Notification{Type: TypeInfo, Headline: headline, Message: message})
}

// List returns a copy of the live notifications in the order they were added.
func (c *Center) List() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Notification(nil), c.items...)
}

// Errors returns only the error notifications.
func (c *Center) Errors() []Notification {
	var out []Notification
	for _, n := range c.List() {
		if n.Type == TypeError {
			out = append(out, n)
		}
	}
	return out
}

// Remove drops the notification with id. Unknown ids are ignored.
func (c *Center) Remove(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// RemoveAll drops every notification.
func (c *Center) RemoveAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

func format(n Notification) string {
	var b strings.Builder
	b.WriteString(n.Type.String())
	b.WriteString(": ")
	if n.Headline != "" {
		b.WriteString(n.Headline)
		if n.Message != "" {
			b.WriteString(": ")
		}
	}
	b.WriteString(n.Message)
	b.WriteByte('\n')
	return b.String()
}
