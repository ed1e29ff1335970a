package repositories

import (
	"context"

	"people-api/internal/models"
)

// PersonRepository is the datastore access layer for people
type PersonRepository interface {
	// Create inserts a person and fills in the datastore-assigned ID
	Create(ctx context.Context, person *models.Person) error

	// GetByID returns the person or a NotFoundError
	GetByID(ctx context.Context, id int) (*models.Person, error)

	// Update saves the mutable fields of an existing person
	Update(ctx context.Context, person *models.Person) error

	// Delete removes the person; deleting a missing ID returns a NotFoundError
	Delete(ctx context.Context, id int) error

	// List returns every person ordered by ID
	List(ctx context.Context) ([]models.Person, error)

	// Health pings the underlying connection
	Health(ctx context.Context) error
}
