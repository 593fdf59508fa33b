// package models defines the data model for the lyrics finder
package models

import (
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Query is the pending artist/title input of a search form.
type Query struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// SongRef identifies the song whose lyrics are displayed.
//
// It is a copy of the [Query] taken at submit time, so later edits to the form never change it.
type SongRef struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
}

// Ref snapshots q as a [SongRef].
func (q Query) Ref() SongRef {
	return SongRef{Artist: q.Artist, Title: q.Title}
}
