package model

type (
	// An Item represents a stored record and the rendered API response.
	Item struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Value string `json:"value"`
		// Time is the last creation or modification timestamp in
		// milliseconds since epoch. It is always set by the store.
		Time int64 `json:"time"`
	}

	// A Document is the whole persisted collection. Insertion order is
	// preserved: create appends, update rewrites in place, delete removes.
	Document struct {
		Items []*Item `json:"items"`
	}
)
