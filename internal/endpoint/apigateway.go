package endpoint

import (
	"github.com/aws/aws-lambda-go/events"
)

// FromAPIGateway converts a proxy integration event. A null query string map
// is an empty query.
func FromAPIGateway(ev events.APIGatewayProxyRequest) Request {
	query := make(map[string]string, len(ev.QueryStringParameters))
	for k, v := range ev.QueryStringParameters {
		query[k] = v
	}
	return Request{Method: ev.HTTPMethod, Query: query}
}

// APIGateway converts the response to the proxy integration shape.
func (r Response) APIGateway() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       r.Body,
	}
}
