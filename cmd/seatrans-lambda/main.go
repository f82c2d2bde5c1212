// Package main is the entry point for the seatrans Lambda function.
package main

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"github.com/seatrans/seatrans/handler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	h, err := handler.FromEnv(context.Background(), logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to configure handler")
	}

	lambda.Start(func(ctx context.Context, event json.RawMessage) (any, error) {
		return h.Route(ctx, event)
	})
}
