package handlers

import (
	"net/http"

	"people-api/internal/models"
	"people-api/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// PeopleHandler serves the entity-level people route table
type PeopleHandler struct {
	personService services.PersonService
	logger        *logrus.Logger
}

// NewPeopleHandler creates a new people handler
func NewPeopleHandler(personService services.PersonService, logger *logrus.Logger) *PeopleHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &PeopleHandler{
		personService: personService,
		logger:        logger,
	}
}

// @Summary List people
// @Description List every stored person entity
// @Tags people
// @Produce json
// @Success 200 {array} models.Person
// @Failure 500 {object} ErrorResponse
// @Router /people [get]
func (h *PeopleHandler) ListPeople(c *gin.Context) {
	people, err := h.personService.ListEntities(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(statusForError(err), ErrorResponse{
			Error:   "Failed to list people",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, people)
}

// @Summary Add a person
// @Description Persist a person entity as given; a supplied id is kept
// @Tags people
// @Accept json
// @Param person body models.Person true "Person entity"
// @Success 200
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /people [post]
func (h *PeopleHandler) AddPerson(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	var person models.Person
	if err := decodeBody(body, &person); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	if err := h.personService.AddPerson(c.Request.Context(), &person); err != nil {
		status := statusForError(err)
		if status >= http.StatusInternalServerError {
			_ = c.Error(err)
		}
		c.JSON(status, ErrorResponse{
			Error:   "Failed to add person",
			Message: err.Error(),
		})
		return
	}

	c.Status(http.StatusOK)
}

// HealthHandler reports service and datastore health
type HealthHandler struct {
	personService services.PersonService
	version       string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(personService services.PersonService, version string) *HealthHandler {
	return &HealthHandler{personService: personService, version: version}
}

// @Summary Health check
// @Description Report whether the service can reach its datastore
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	if err := h.personService.Health(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "people-api",
			"version": h.version,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "people-api",
		"version": h.version,
	})
}
