package services

import (
	"context"

	"people-api/internal/models"
)

// PersonService defines the CRUD operations shared by the function dispatcher and the route table
type PersonService interface {
	// Transfer-object operations
	ListPeople(ctx context.Context) ([]models.PersonDto, error)
	GetPerson(ctx context.Context, id int) (*models.PersonDto, error)
	CreatePerson(ctx context.Context, req *models.CreatePersonDto) (*models.PersonDto, error)
	UpdatePerson(ctx context.Context, req *models.PersonDto) (bool, error)
	DeletePerson(ctx context.Context, id int) (bool, error)

	// Entity operations
	AddPerson(ctx context.Context, person *models.Person) error
	ListEntities(ctx context.Context) ([]models.Person, error)

	Health(ctx context.Context) error
}
