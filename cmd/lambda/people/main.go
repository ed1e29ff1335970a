package main

import (
	"people-api/internal/handlers"
	"people-api/pkg/lambda"
	"people-api/pkg/server"

	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	handler := lambda.GetConnectionManager().Handler(func(c *server.Container) lambda.HandlerFunc {
		return handlers.NewPeopleFunction(c.PersonService, c.Logger).Dispatch
	}, logger)

	awslambda.Start(lambda.NewAPIGatewayHandler(handler, logger))
}
