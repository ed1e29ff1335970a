package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"people-api/internal/middleware"
	"people-api/internal/models"
	"people-api/internal/services"
	"people-api/pkg/lambda"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AllowedMethods lists the methods the people function dispatches
const AllowedMethods = "GET, POST, PUT, DELETE"

// PeopleFunction is the single-entry people function: it branches on the
// HTTP method and runs one CRUD operation per request
type PeopleFunction struct {
	personService services.PersonService
	logger        *logrus.Logger
}

// NewPeopleFunction creates a new people function
func NewPeopleFunction(personService services.PersonService, logger *logrus.Logger) *PeopleFunction {
	if logger == nil {
		logger = logrus.New()
	}
	return &PeopleFunction{
		personService: personService,
		logger:        logger,
	}
}

// Dispatch routes the request on its method
func (h *PeopleFunction) Dispatch(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	switch method := strings.ToUpper(req.Method); method {
	case http.MethodGet:
		return h.HandleGet(ctx, req)
	case http.MethodPost, http.MethodPut:
		if contentType := req.Header("Content-Type"); !middleware.IsAllowedContentType(contentType, "application/json") {
			return lambda.Error(http.StatusUnsupportedMediaType, "Unsupported Content-Type",
				fmt.Sprintf("Content-Type '%s' is not supported, use application/json", contentType)), nil
		}
		if method == http.MethodPost {
			return h.HandleCreate(ctx, req)
		}
		return h.HandleUpdate(ctx, req)
	case http.MethodDelete:
		return h.HandleDelete(ctx, req)
	default:
		resp := lambda.Error(http.StatusMethodNotAllowed, "Method not allowed",
			fmt.Sprintf("method %s is not supported, use one of: %s", req.Method, AllowedMethods))
		resp.Headers["Allow"] = AllowedMethods
		return resp, nil
	}
}

// HandleGet returns one person when an id query parameter is present, otherwise all people.
// A present but empty id is not an integer.
func (h *PeopleFunction) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	rawID, hasID := req.QueryParams["id"]
	if !hasID {
		people, err := h.personService.ListPeople(ctx)
		if err != nil {
			return h.failure(req, "Failed to list people", err), nil
		}
		return lambda.JSON(http.StatusOK, people)
	}

	id, err := strconv.Atoi(rawID)
	if err != nil {
		return lambda.Error(http.StatusBadRequest, "Invalid person ID", "id must be an integer"), nil
	}

	person, err := h.personService.GetPerson(ctx, id)
	if err != nil {
		return h.failure(req, "Failed to get person", err), nil
	}

	return lambda.JSON(http.StatusOK, person)
}

// HandleCreate persists a new person and returns it with its assigned id
func (h *PeopleFunction) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var createReq models.CreatePersonDto
	if err := decodeBody(req.Body, &createReq); err != nil {
		return lambda.Error(http.StatusBadRequest, "Invalid request body", err.Error()), nil
	}

	person, err := h.personService.CreatePerson(ctx, &createReq)
	if err != nil {
		return h.failure(req, "Failed to create person", err), nil
	}

	return lambda.JSON(http.StatusOK, person)
}

// HandleUpdate overwrites the names of an existing person; an unknown id is a no-op
func (h *PeopleFunction) HandleUpdate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var updateReq models.PersonDto
	if err := decodeBody(req.Body, &updateReq); err != nil {
		return lambda.Error(http.StatusBadRequest, "Invalid request body", err.Error()), nil
	}

	if _, err := h.personService.UpdatePerson(ctx, &updateReq); err != nil {
		return h.failure(req, "Failed to update person", err), nil
	}

	return lambda.Empty(http.StatusOK), nil
}

// HandleDelete removes a person; an unparseable or unknown id is a no-op
func (h *PeopleFunction) HandleDelete(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	id, err := strconv.Atoi(req.QueryParam("id"))
	if err != nil {
		h.logger.WithFields(logrus.Fields{
			"request_id": req.RequestID,
			"id":         req.QueryParam("id"),
		}).Debug("Delete skipped, id is not an integer")
		return lambda.Empty(http.StatusOK), nil
	}

	if _, err := h.personService.DeletePerson(ctx, id); err != nil {
		return h.failure(req, "Failed to delete person", err), nil
	}

	return lambda.Empty(http.StatusOK), nil
}

// ServeFunction exposes the dispatcher on a gin route so the function runs in the local server
// @Summary People function
// @Description Single entry point dispatching on the HTTP method. GET takes an optional id query parameter,
// @Description POST a CreatePersonDto, PUT a PersonDto and DELETE an id query parameter.
// @Tags function
// @Accept json
// @Produce json
// @Param id query int false "Person ID (GET, DELETE)"
// @Param person body models.PersonDto false "Person (POST, PUT)"
// @Success 200 {object} models.PersonDto
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 405 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/people [get]
// @Router /api/people [post]
// @Router /api/people [put]
// @Router /api/people [delete]
func (h *PeopleFunction) ServeFunction(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	req := &lambda.Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Headers:     flatten(c.Request.Header),
		QueryParams: flatten(c.Request.URL.Query()),
		Body:        body,
		RequestID:   c.GetString(middleware.RequestIDKey),
	}

	resp, err := h.Dispatch(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal server error",
			Message: "the request could not be processed",
		})
		return
	}

	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	if len(resp.Body) == 0 {
		c.Status(resp.StatusCode)
		return
	}
	c.Data(resp.StatusCode, resp.Headers["Content-Type"], resp.Body)
}

// failure logs datastore errors and maps them to an error response
func (h *PeopleFunction) failure(req *lambda.Request, errMsg string, err error) *lambda.Response {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithFields(logrus.Fields{
			"request_id": req.RequestID,
			"method":     req.Method,
		}).WithError(err).Error(errMsg)
	}
	return lambda.Error(status, errMsg, err.Error())
}

func flatten(values map[string][]string) map[string]string {
	flat := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			flat[k] = v[0]
		}
	}
	return flat
}
