package account

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

var _ Store = (*DynamoStore)(nil)

// DynamoAPI is the slice of the DynamoDB client the store uses; tests plug
// in a fake.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// DynamoStore implements Store on a DynamoDB table keyed by username.
// Refresh-token lookup scans the table with a contains filter, matching the
// reference record layout; deployments that outgrow the scan should add a
// token-to-username index.
type DynamoStore struct {
	client DynamoAPI
	table  string
}

func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

// NewDynamoClient builds a DynamoDB client from the ambient AWS credential
// chain.
func NewDynamoClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func (s *DynamoStore) FindByUsername(ctx context.Context, username string) (*Account, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &s.table,
		Key: map[string]types.AttributeValue{
			"username": &types.AttributeValueMemberS{Value: username},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamo get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	return unmarshalAccount(out.Item)
}

func (s *DynamoStore) FindByRefreshToken(ctx context.Context, token string) (*Account, error) {
	filter := "contains(refreshTokens, :token)"
	values := map[string]types.AttributeValue{
		":token": &types.AttributeValueMemberS{Value: token},
	}
	var startKey map[string]types.AttributeValue
	for {
		out, err := s.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 &s.table,
			FilterExpression:          &filter,
			ExpressionAttributeValues: values,
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamo scan: %w", err)
		}
		if len(out.Items) > 0 {
			return unmarshalAccount(out.Items[0])
		}
		if len(out.LastEvaluatedKey) == 0 {
			return nil, ErrNotFound
		}
		startKey = out.LastEvaluatedKey
	}
}

func (s *DynamoStore) Save(ctx context.Context, acc *Account) error {
	item, err := attributevalue.MarshalMap(acc)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	if _, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: &s.table,
		Item:      item,
	}); err != nil {
		return fmt.Errorf("dynamo put item: %w", err)
	}
	return nil
}

func (s *DynamoStore) Remove(ctx context.Context, username string) error {
	if _, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: &s.table,
		Key: map[string]types.AttributeValue{
			"username": &types.AttributeValueMemberS{Value: username},
		},
	}); err != nil {
		return fmt.Errorf("dynamo delete item: %w", err)
	}
	return nil
}

func unmarshalAccount(item map[string]types.AttributeValue) (*Account, error) {
	var acc Account
	if err := attributevalue.UnmarshalMap(item, &acc); err != nil {
		return nil, fmt.Errorf("unmarshal account: %w", err)
	}
	return &acc, nil
}
