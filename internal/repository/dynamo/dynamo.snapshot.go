// FilePath: internal/repository/dynamo/dynamo.snapshot.go
package dynamo

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/itsatony/irrigador/internal/errors"
	"github.com/itsatony/irrigador/internal/models"
)

// QueryAPI is the slice of the DynamoDB client the repository needs
type QueryAPI interface {
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// snapshotItem is the table layout: device_id is the partition key and
// timestamp (unix millis) the sort key.
type snapshotItem struct {
	DeviceID      string   `dynamodbav:"device_id"`
	Timestamp     int64    `dynamodbav:"timestamp"`
	ID            string   `dynamodbav:"id"`
	SoilHumidity  *float64 `dynamodbav:"soil_humidity,omitempty"`
	Temperature   *float64 `dynamodbav:"temperature,omitempty"`
	AirHumidity   *float64 `dynamodbav:"air_humidity,omitempty"`
	GeneralStatus *string  `dynamodbav:"general_status,omitempty"`
	LastWatering  *int64   `dynamodbav:"last_watering,omitempty"`
}

type SnapshotStore struct {
	Client    QueryAPI
	TableName string
}

func NewSnapshotStore(client QueryAPI, tableName string) *SnapshotStore {
	return &SnapshotStore{
		Client:    client,
		TableName: tableName,
	}
}

func (store *SnapshotStore) GetLatest(ctx context.Context, deviceID string) (*models.SensorSnapshot, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(store.TableName),
		KeyConditionExpression: aws.String("device_id = :device_id"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":device_id": &types.AttributeValueMemberS{Value: deviceID},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(1),
	}

	output, err := store.Client.Query(ctx, input)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to query latest snapshot", err)
	}
	if len(output.Items) == 0 {
		return nil, errors.NewNotFoundError("snapshot not found", nil)
	}

	var item snapshotItem
	if err := attributevalue.UnmarshalMap(output.Items[0], &item); err != nil {
		return nil, errors.NewDatabaseError("failed to unmarshal snapshot", err)
	}
	return item.toModel(), nil
}

func (item snapshotItem) toModel() *models.SensorSnapshot {
	snapshot := &models.SensorSnapshot{
		ID:            item.ID,
		DeviceID:      item.DeviceID,
		Timestamp:     time.UnixMilli(item.Timestamp).UTC(),
		SoilHumidity:  item.SoilHumidity,
		Temperature:   item.Temperature,
		AirHumidity:   item.AirHumidity,
		GeneralStatus: item.GeneralStatus,
	}
	if item.LastWatering != nil {
		watered := time.UnixMilli(*item.LastWatering).UTC()
		snapshot.LastWatering = &watered
	}
	return snapshot
}
