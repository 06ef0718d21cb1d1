// Package repository implements the item operations on top of the document
// store. Every mutation persists the whole document before it is acknowledged
// and every read reloads it first, so a restarted process always answers with
// what the last acknowledged mutation wrote.
package repository

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/Pyle49R/littlenodedatabase/internal/database"
	"github.com/Pyle49R/littlenodedatabase/internal/lnerror"
	"github.com/Pyle49R/littlenodedatabase/internal/model"
	"github.com/gofrs/uuid"
)

// Length bounds applied to incoming fields. Validation runs against the raw
// string while the trimmed string is what gets persisted, preserving the
// reference behavior for inputs with surrounding whitespace near a boundary.
const (
	NameMaxLength  = 100
	ValueMaxLength = 500
)

// A Repository owns the in-memory view of the items collection.
//
// The mutex serializes every load→mutate→save (and load→answer) section, so
// two racing requests cannot interleave on the shared document.
type Repository struct {
	mu sync.Mutex
	db database.Client
}

// New returns a repository backed by the given document store.
func New(db database.Client) *Repository {
	return &Repository{db: db}
}

// Create validates both fields, appends a new item with a fresh id and
// persists the document before returning the item.
func (r *Repository) Create(name, value string) (*model.Item, error) {
	if !within(name, NameMaxLength) {
		return nil, lnerror.InvalidInput("name is required and must be 1 to 100 characters long")
	}
	if !within(value, ValueMaxLength) {
		return nil, lnerror.InvalidInput("value is required and must be 1 to 500 characters long")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.db.Load()
	if err != nil {
		return nil, err
	}

	item := &model.Item{
		ID:    uuid.Must(uuid.NewV4()).String(),
		Name:  strings.TrimSpace(name),
		Value: strings.TrimSpace(value),
		Time:  time.Now().UnixMilli(),
	}
	doc.Items = append(doc.Items, item)

	if err := r.db.Save(doc); err != nil {
		return nil, err
	}
	return item, nil
}

// List returns all items as currently persisted, in insertion order.
func (r *Repository) List() ([]*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.db.Load()
	if err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// QueryByName returns the items whose name equals the given one, keeping
// their original relative order. No match yields an empty slice.
func (r *Repository) QueryByName(name string) ([]*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.db.Load()
	if err != nil {
		return nil, err
	}

	items := make([]*model.Item, 0)
	for _, item := range doc.Items {
		if item.Name == name {
			items = append(items, item)
		}
	}
	return items, nil
}

// Update applies a partial update to the item with the given id. Supplied
// fields are updated only when they pass validation, out-of-bounds fields are
// silently ignored rather than rejected. The timestamp refreshes either way.
func (r *Repository) Update(id string, name, value *string) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.db.Load()
	if err != nil {
		return nil, err
	}

	item := find(doc, id)
	if item == nil {
		return nil, lnerror.NotFound("no item with the given id")
	}

	if name != nil && within(*name, NameMaxLength) {
		item.Name = strings.TrimSpace(*name)
	}
	if value != nil && within(*value, ValueMaxLength) {
		item.Value = strings.TrimSpace(*value)
	}
	item.Time = time.Now().UnixMilli()

	if err := r.db.Save(doc); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes the item with the given id and returns it.
func (r *Repository) Delete(id string) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.db.Load()
	if err != nil {
		return nil, err
	}

	for i, item := range doc.Items {
		if item.ID != id {
			continue
		}
		doc.Items = append(doc.Items[:i], doc.Items[i+1:]...)
		if err := r.db.Save(doc); err != nil {
			return nil, err
		}
		return item, nil
	}
	return nil, lnerror.NotFound("no item with the given id")
}

// DeleteAll clears the collection and returns the prior item count.
func (r *Repository) DeleteAll() (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.db.Load()
	if err != nil {
		return 0, err
	}

	count := len(doc.Items)
	doc.Items = []*model.Item{}

	if err := r.db.Save(doc); err != nil {
		return 0, err
	}
	return count, nil
}

func find(doc *model.Document, id string) *model.Item {
	for _, item := range doc.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// within checks the raw (pre-trim) length against 1..max, counted in
// characters so multibyte input is not penalized.
func within(field string, max int) bool {
	n := utf8.RuneCountInString(field)
	return n >= 1 && n <= max
}
