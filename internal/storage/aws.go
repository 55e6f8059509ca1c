package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/influencer-roi/internal/pkg/logger"
)

// ObjectPutter is the subset of the S3 client used for exports.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ManifestDB is the subset of the DynamoDB client used for the manifest.
type ManifestDB interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// AWSExporter uploads export files to S3 and records them in DynamoDB.
type AWSExporter struct {
	s3Client  ObjectPutter
	dynamoDB  ManifestDB
	bucket    string
	prefix    string
	tableName string
}

// manifestItem represents an export stored in DynamoDB
type manifestItem struct {
	PK string `dynamodbav:"PK"`
	SK string `dynamodbav:"SK"`
	ExportRecord
}

const exportPKPrefix = "EXPORT#"

// NewAWSExporter wires S3 and DynamoDB clients.
func NewAWSExporter(s3Client ObjectPutter, dynamoDB ManifestDB, bucket, prefix, tableName string) *AWSExporter {
	return &AWSExporter{
		s3Client:  s3Client,
		dynamoDB:  dynamoDB,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		tableName: tableName,
	}
}

func (s *AWSExporter) key(rec *ExportRecord) string {
	return path.Join(s.prefix, rec.Report, rec.ID, rec.FileName)
}

func (s *AWSExporter) Save(ctx context.Context, e Export) (*ExportRecord, error) {
	rec, err := newRecord(e)
	if err != nil {
		return nil, err
	}
	key := s.key(rec)

	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(e.Content),
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return nil, fmt.Errorf("uploading to S3: %w", err)
	}
	rec.Location = fmt.Sprintf("s3://%s/%s", s.bucket, key)

	item := manifestItem{
		PK:           exportPKPrefix + rec.Report,
		SK:           rec.CreatedAt.Format(time.RFC3339Nano) + "#" + rec.ID,
		ExportRecord: *rec,
	}
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return nil, fmt.Errorf("marshaling item: %w", err)
	}
	_, err = s.dynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return nil, fmt.Errorf("saving export to DynamoDB: %w", err)
	}

	logger.Info("report exported", "storage", "aws", "report", rec.Report, "id", rec.ID, "location", rec.Location)
	return rec, nil
}

// ListReport returns the exports of one report, newest first.
func (s *AWSExporter) ListReport(ctx context.Context, report string) ([]ExportRecord, error) {
	result, err := s.dynamoDB.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: exportPKPrefix + report},
		},
		ScanIndexForward: aws.Bool(false), // Most recent first
	})
	if err != nil {
		return nil, fmt.Errorf("querying exports from DynamoDB: %w", err)
	}
	return decodeItems(result.Items), nil
}

// List scans every export partition of the manifest table.
func (s *AWSExporter) List(ctx context.Context) ([]ExportRecord, error) {
	records := []ExportRecord{}
	var start map[string]types.AttributeValue
	for {
		result, err := s.dynamoDB.Scan(ctx, &dynamodb.ScanInput{
			TableName:        aws.String(s.tableName),
			FilterExpression: aws.String("begins_with(PK, :prefix)"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":prefix": &types.AttributeValueMemberS{Value: exportPKPrefix},
			},
			ExclusiveStartKey: start,
		})
		if err != nil {
			return nil, fmt.Errorf("scanning exports from DynamoDB: %w", err)
		}
		records = append(records, decodeItems(result.Items)...)
		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		start = result.LastEvaluatedKey
	}
	sortNewestFirst(records)
	return records, nil
}

func decodeItems(items []map[string]types.AttributeValue) []ExportRecord {
	records := make([]ExportRecord, 0, len(items))
	for _, av := range items {
		var item manifestItem
		if err := attributevalue.UnmarshalMap(av, &item); err != nil {
			continue
		}
		records = append(records, item.ExportRecord)
	}
	return records
}
