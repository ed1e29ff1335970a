package services

import (
	"context"
	"fmt"

	"people-api/internal/models"
	"people-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// personService implements the PersonService interface
type personService struct {
	personRepo repositories.PersonRepository
	logger     *logrus.Logger
}

// NewPersonService creates a new person service instance
func NewPersonService(personRepo repositories.PersonRepository, logger *logrus.Logger) PersonService {
	if logger == nil {
		logger = logrus.New()
	}
	return &personService{
		personRepo: personRepo,
		logger:     logger,
	}
}

// ListPeople returns every person as a transfer object
func (s *personService) ListPeople(ctx context.Context) ([]models.PersonDto, error) {
	people, err := s.personRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return models.ToPersonDtos(people), nil
}

// GetPerson returns a not-found repository error when the ID does not exist
func (s *personService) GetPerson(ctx context.Context, id int) (*models.PersonDto, error) {
	person, err := s.personRepo.GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person: %w", err)
	}

	dto := person.ToDto()
	return &dto, nil
}

// CreatePerson persists a new person and returns it with its assigned ID
func (s *personService) CreatePerson(ctx context.Context, req *models.CreatePersonDto) (*models.PersonDto, error) {
	if req == nil {
		return nil, fmt.Errorf("create person request cannot be nil")
	}

	person := req.ToEntity()
	if err := s.personRepo.Create(ctx, person); err != nil {
		return nil, fmt.Errorf("failed to create person: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"person_id": person.ID,
		"name":      person.GetDisplayName(),
	}).Info("Person created")

	dto := person.ToDto()
	return &dto, nil
}

// UpdatePerson overwrites the names of an existing person.
// It reports false without error when the ID does not exist.
func (s *personService) UpdatePerson(ctx context.Context, req *models.PersonDto) (bool, error) {
	if req == nil {
		return false, fmt.Errorf("update person request cannot be nil")
	}

	person, err := s.personRepo.GetByID(ctx, req.ID)
	if err != nil {
		if repositories.IsNotFound(err) {
			s.logger.WithField("person_id", req.ID).Debug("Update skipped, person not found")
			return false, nil
		}
		return false, fmt.Errorf("failed to get person: %w", err)
	}

	person.Apply(req)

	if err := s.personRepo.Update(ctx, person); err != nil {
		// deleted between read and save
		if repositories.IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update person: %w", err)
	}

	s.logger.WithField("person_id", person.ID).Info("Person updated")
	return true, nil
}

// DeletePerson removes a person. It reports false without error when nothing matched.
func (s *personService) DeletePerson(ctx context.Context, id int) (bool, error) {
	if err := s.personRepo.Delete(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			s.logger.WithField("person_id", id).Debug("Delete skipped, person not found")
			return false, nil
		}
		return false, fmt.Errorf("failed to delete person: %w", err)
	}

	s.logger.WithField("person_id", id).Info("Person deleted")
	return true, nil
}

// AddPerson persists the entity as given, including a client-supplied ID
func (s *personService) AddPerson(ctx context.Context, person *models.Person) error {
	if person == nil {
		return fmt.Errorf("person cannot be nil")
	}

	if err := s.personRepo.Create(ctx, person); err != nil {
		return fmt.Errorf("failed to add person: %w", err)
	}
	return nil
}

// ListEntities returns every stored entity
func (s *personService) ListEntities(ctx context.Context) ([]models.Person, error) {
	people, err := s.personRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

// Health checks that the datastore is reachable
func (s *personService) Health(ctx context.Context) error {
	return s.personRepo.Health(ctx)
}
