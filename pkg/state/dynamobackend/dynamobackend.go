// Package dynamobackend stores ficha payloads in a DynamoDB table keyed by a
// single string partition key.
package dynamobackend

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/goliatone/go-ficha/pkg/state"
)

const DefaultTable = "ficha_kv"

// API is the subset of the DynamoDB client used by Backend.
type API interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, in *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type kvItem struct {
	Key       string `dynamodbav:"key"`
	Value     string `dynamodbav:"value"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// Backend implements state.Backend on DynamoDB.
//
// Table requirements:
//   - PK: key (string)
type Backend struct {
	ddb       API
	tableName string
	now       func() string
}

var _ state.Backend = (*Backend)(nil)

func New(ddb API, tableName string) *Backend {
	if tableName == "" {
		tableName = DefaultTable
	}
	return &Backend{ddb: ddb, tableName: tableName, now: utcNow}
}

// NewConfigFromEnv builds an aws.Config using environment variables.
//
// Supported env vars (local-friendly):
//   - AWS_REGION (default: us-east-1)
//   - AWS_ACCESS_KEY_ID (default: local)
//   - AWS_SECRET_ACCESS_KEY (default: local)
func NewConfigFromEnv(ctx context.Context) (aws.Config, error) {
	creds := credentials.NewStaticCredentialsProvider(
		getenvDefault("AWS_ACCESS_KEY_ID", "local"),
		getenvDefault("AWS_SECRET_ACCESS_KEY", "local"),
		"",
	)
	return config.LoadDefaultConfig(ctx,
		config.WithRegion(getenvDefault("AWS_REGION", "us-east-1")),
		config.WithCredentialsProvider(creds),
	)
}

// NewClient creates a DynamoDB client. DYNAMODB_ENDPOINT (e.g.
// http://localhost:8000) points the client at DynamoDB Local.
func NewClient(cfg aws.Config) *dynamodb.Client {
	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}

func (b *Backend) Get(ctx context.Context, key string) (string, bool, error) {
	out, err := b.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(b.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", false, fmt.Errorf("dynamobackend: get %q: %w", key, err)
	}
	if len(out.Item) == 0 {
		return "", false, nil
	}

	var it kvItem
	if err := attributevalue.UnmarshalMap(out.Item, &it); err != nil {
		return "", false, fmt.Errorf("dynamobackend: decode %q: %w", key, err)
	}
	return it.Value, true, nil
}

func (b *Backend) Set(ctx context.Context, key, value string) error {
	av, err := attributevalue.MarshalMap(kvItem{Key: key, Value: value, UpdatedAt: b.now()})
	if err != nil {
		return fmt.Errorf("dynamobackend: encode %q: %w", key, err)
	}
	if _, err := b.ddb.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(b.tableName),
		Item:      av,
	}); err != nil {
		return fmt.Errorf("dynamobackend: set %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Delete(ctx context.Context, key string) error {
	if _, err := b.ddb.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(b.tableName),
		Key: map[string]types.AttributeValue{
			"key": &types.AttributeValueMemberS{Value: key},
		},
	}); err != nil {
		return fmt.Errorf("dynamobackend: delete %q: %w", key, err)
	}
	return nil
}

func (b *Backend) Keys(ctx context.Context, prefix string) ([]string, error) {
	paginator := dynamodb.NewScanPaginator(b.ddb, &dynamodb.ScanInput{
		TableName:            aws.String(b.tableName),
		FilterExpression:     aws.String("begins_with(#key, :prefix)"),
		ProjectionExpression: aws.String("#key"),
		ExpressionAttributeNames: map[string]string{
			"#key": "key",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":prefix": &types.AttributeValueMemberS{Value: prefix},
		},
		ConsistentRead: aws.Bool(true),
	})

	var keys []string
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("dynamobackend: keys %q: %w", prefix, err)
		}
		for _, item := range page.Items {
			var it kvItem
			if err := attributevalue.UnmarshalMap(item, &it); err != nil {
				return nil, fmt.Errorf("dynamobackend: decode key: %w", err)
			}
			keys = append(keys, it.Key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
