package lambda

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"
)

// FromAPIGateway converts an API Gateway proxy event into a generic request
func FromAPIGateway(ctx context.Context, event events.APIGatewayProxyRequest) (*Request, error) {
	body := []byte(event.Body)
	if event.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(event.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 body: %w", err)
		}
		body = decoded
	}

	requestID := event.RequestContext.RequestID
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		requestID = lc.AwsRequestID
	}

	return &Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		PathParams:  event.PathParameters,
		RequestID:   requestID,
	}, nil
}

// ToAPIGateway converts a generic response into an API Gateway proxy response
func ToAPIGateway(resp *Response) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(resp.Headers))
	for k, v := range resp.Headers {
		headers[k] = v
	}
	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       string(resp.Body),
	}
}

// NewAPIGatewayHandler wraps a generic handler for the Lambda runtime.
// Handler errors become a 500 JSON body instead of an invocation failure.
func NewAPIGatewayHandler(handler HandlerFunc, logger *logrus.Logger) func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if logger == nil {
		logger = logrus.New()
	}

	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		start := time.Now()

		req, err := FromAPIGateway(ctx, event)
		if err != nil {
			logger.WithError(err).Warn("Rejected malformed event")
			return ToAPIGateway(Error(http.StatusBadRequest, "Invalid request body", err.Error())), nil
		}

		entry := logger.WithFields(logrus.Fields{
			"request_id": req.RequestID,
			"method":     req.Method,
			"path":       req.Path,
		})

		resp, err := handler(ctx, req)
		if err != nil {
			entry.WithError(err).Error("Function handler failed")
			resp = InternalError()
		}

		entry.WithFields(logrus.Fields{
			"status":   resp.StatusCode,
			"duration": time.Since(start),
		}).Info("Function invocation completed")

		return ToAPIGateway(resp), nil
	}
}
