package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rogerio-castellano/inventory-search/internal/app"
	"github.com/rogerio-castellano/inventory-search/internal/endpoint"
)

func main() {
	ctx := context.Background()

	// Default to DynamoDB when deployed as a function.
	if os.Getenv("STORE_BACKEND") == "" {
		os.Setenv("STORE_BACKEND", "dynamodb")
	}

	a, err := app.New(ctx, "", os.Stdout)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return a.Endpoint.Serve(ctx, endpoint.FromAPIGateway(req)).APIGateway(), nil
	})
}
