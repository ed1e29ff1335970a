package gormdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"people-api/internal/models"
	"people-api/internal/repositories"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const entityPerson = "person"

// personRepository implements PersonRepository on top of gorm
type personRepository struct {
	db     *gorm.DB
	table  string
	logger *logrus.Logger
}

// NewPersonRepository creates a new gorm-backed person repository
func NewPersonRepository(db *gorm.DB, logger *logrus.Logger) repositories.PersonRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &personRepository{
		db:     db,
		table:  models.Person{}.TableName(),
		logger: logger,
	}
}

// Create inserts the person and writes the assigned ID back into it
func (r *personRepository) Create(ctx context.Context, person *models.Person) error {
	explicitID := person.ID != 0

	start := time.Now()
	err := r.db.WithContext(ctx).Create(person).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		r.logQuery("create", time.Since(start), nil)
		return repositories.DuplicateError(entityPerson, person.ID)
	}
	r.logQuery("create", time.Since(start), err)

	if err != nil {
		return repositories.NewRepositoryError("create", entityPerson, person.ID, err)
	}

	if syncsSequence(r.db.Dialector.Name(), explicitID) {
		r.syncSequence(ctx)
	}
	return nil
}

// syncsSequence reports whether an insert leaves a serial sequence behind the table.
// Postgres does not advance the sequence for client-supplied ids; sqlite AUTOINCREMENT does.
func syncsSequence(dialect string, explicitID bool) bool {
	return explicitID && dialect == "postgres"
}

// syncSequence moves the id sequence past the highest stored id, never backwards
func (r *personRepository) syncSequence(ctx context.Context) {
	start := time.Now()
	err := r.db.WithContext(ctx).Exec(fmt.Sprintf(`SELECT setval(s.seq, GREATEST(
		COALESCE((SELECT MAX(id) FROM %s), 1),
		COALESCE(pg_sequence_last_value(s.seq::regclass), 1)))
	FROM (SELECT pg_get_serial_sequence(?, 'id') AS seq) s`, r.table), r.table).Error
	r.logQuery("sync_sequence", time.Since(start), err)
	if err != nil {
		r.logger.WithError(err).Warn("Failed to resync id sequence after explicit-id insert")
	}
}

func (r *personRepository) GetByID(ctx context.Context, id int) (*models.Person, error) {
	var person models.Person

	start := time.Now()
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&person).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logQuery("get_by_id", time.Since(start), nil)
		return nil, repositories.NotFoundError(entityPerson, id)
	}
	r.logQuery("get_by_id", time.Since(start), err)

	if err != nil {
		return nil, repositories.NewRepositoryError("get", entityPerson, id, err)
	}
	return &person, nil
}

// Update overwrites the names of an existing row. Empty names are written too.
func (r *personRepository) Update(ctx context.Context, person *models.Person) error {
	start := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.Person{}).
		Where("id = ?", person.ID).
		Updates(map[string]interface{}{
			"first_name": person.FirstName,
			"last_name":  person.LastName,
		})
	r.logQuery("update", time.Since(start), result.Error)

	if result.Error != nil {
		return repositories.NewRepositoryError("update", entityPerson, person.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NotFoundError(entityPerson, person.ID)
	}
	return nil
}

func (r *personRepository) Delete(ctx context.Context, id int) error {
	start := time.Now()
	result := r.db.WithContext(ctx).Delete(&models.Person{}, id)
	r.logQuery("delete", time.Since(start), result.Error)

	if result.Error != nil {
		return repositories.NewRepositoryError("delete", entityPerson, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.NotFoundError(entityPerson, id)
	}
	return nil
}

// List returns every person ordered by ID
func (r *personRepository) List(ctx context.Context) ([]models.Person, error) {
	people := []models.Person{}

	start := time.Now()
	err := r.db.WithContext(ctx).Order("id").Find(&people).Error
	r.logQuery("list", time.Since(start), err)

	if err != nil {
		return nil, repositories.NewRepositoryError("list", entityPerson, 0, err)
	}
	return people, nil
}

func (r *personRepository) Health(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return repositories.ConnectionError(err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return repositories.ConnectionError(err)
	}
	return nil
}

// logQuery logs a query with its execution time
func (r *personRepository) logQuery(operation string, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
		return
	}
	r.logger.WithFields(fields).Debug("Query executed")
}
