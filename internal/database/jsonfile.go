package database

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Pyle49R/littlenodedatabase/internal/model"
	"github.com/pkg/errors"
)

// The persisted form is a single plain JSON document so it stays readable by
// simple tools. Save goes through a temporary file followed by a rename, a
// reader never observes a document mixing pre- and post-update item sets.
type jsonfile struct {
	path string
}

// JSONInit writes the durable initial state (an empty document) if the
// database file does not exist yet.
func JSONInit(database string) error {
	_, err := os.Stat(database)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return errors.Wrap(err, "could not stat database")
	}

	c := &jsonfile{path: database}
	return c.Save(&model.Document{Items: []*model.Item{}})
}

// JSONOpen returns a new document store backed by the given JSON file.
func JSONOpen(database string) (Client, error) {
	if err := JSONInit(database); err != nil {
		return nil, errors.Wrap(err, "could not init database")
	}

	return &jsonfile{path: database}, nil
}

// Load returns the current document.
func (c *jsonfile) Load() (*model.Document, error) {
	doc := &model.Document{Items: []*model.Item{}}

	payload, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return nil, errors.Wrap(err, "could not read database")
	}

	if len(payload) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(payload, doc); err != nil {
		return nil, errors.Wrap(err, "could not parse database")
	}
	if doc.Items == nil {
		doc.Items = []*model.Item{}
	}
	return doc, nil
}

// Save atomically replaces the whole persisted representation.
func (c *jsonfile) Save(doc *model.Document) error {
	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not serialize document")
	}

	tmp, err := os.CreateTemp(filepath.Dir(c.path), filepath.Base(c.path)+".*")
	if err != nil {
		return errors.Wrap(err, "could not create temporary file")
	}
	defer os.Remove(tmp.Name())

	if _, err = tmp.Write(payload); err != nil {
		tmp.Close()
		return errors.Wrap(err, "could not write document")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "could not flush document")
	}

	return errors.Wrap(os.Rename(tmp.Name(), c.path), "could not replace database")
}

// Close the database.
func (c *jsonfile) Close() error {
	return nil
}
