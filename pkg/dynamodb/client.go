package dynamodb

import (
	"os"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// NewClientFromConfig returns a DynamoDB client. DDB_ENDPOINT overrides the
// endpoint for this client only (a local DynamoDB next to the terminal).
func NewClientFromConfig(cfg sdkaws.Config) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint := os.Getenv("DDB_ENDPOINT"); endpoint != "" {
			o.BaseEndpoint = sdkaws.String(endpoint)
		}
	})
}
