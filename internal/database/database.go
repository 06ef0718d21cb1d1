package database

import (
	"github.com/Pyle49R/littlenodedatabase/internal/model"
)

// A Client can interact with the persisted document.
type Client interface {
	// Load returns the current document. When no document has been
	// persisted yet, it returns an empty one.
	Load() (*model.Document, error)
	// Save atomically replaces the whole persisted representation with
	// the given document. Once it returns, any subsequent Load observes
	// exactly this state.
	Save(doc *model.Document) error
	// Close the database.
	Close() error
}
