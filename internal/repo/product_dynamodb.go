package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rogerio-castellano/inventory-search/internal/models"
)

// DynamoDBAPI is the slice of the DynamoDB client the store uses.
type DynamoDBAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
}

// DynamoDBProductStore scans a table, passing filters as a FilterExpression.
// Each search is a single Scan call; pagination is not followed.
type DynamoDBProductStore struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoDBProductStore(client DynamoDBAPI, table string) *DynamoDBProductStore {
	return &DynamoDBProductStore{client: client, table: table}
}

func (s *DynamoDBProductStore) FetchAll(ctx context.Context) ([]models.RawRecord, error) {
	return s.scan(ctx, &dynamodb.ScanInput{TableName: aws.String(s.table)})
}

func (s *DynamoDBProductStore) FetchFiltered(ctx context.Context, f Filter) ([]models.RawRecord, error) {
	if f.Empty() {
		return nil, wrapErr("dynamodb", "scan", ErrEmptyFilter)
	}

	expr, err := buildFilterExpression(f)
	if err != nil {
		return nil, wrapErr("dynamodb", "scan", err)
	}

	return s.scan(ctx, &dynamodb.ScanInput{
		TableName:                 aws.String(s.table),
		FilterExpression:          aws.String(expr.Expression),
		ExpressionAttributeNames:  expr.Names,
		ExpressionAttributeValues: expr.Values,
	})
}

func (s *DynamoDBProductStore) scan(ctx context.Context, in *dynamodb.ScanInput) ([]models.RawRecord, error) {
	out, err := s.client.Scan(ctx, in)
	if err != nil {
		return nil, wrapErr("dynamodb", "scan", err)
	}

	records := make([]models.RawRecord, 0, len(out.Items))
	for _, item := range out.Items {
		records = append(records, fromDynamoItem(item))
	}
	return records, nil
}

func (s *DynamoDBProductStore) Put(ctx context.Context, _ string, record models.RawRecord) error {
	item := make(map[string]types.AttributeValue, len(record))
	for k, av := range record {
		switch av.Kind {
		case models.KindString:
			item[k] = &types.AttributeValueMemberS{Value: av.Text}
		case models.KindNumber:
			item[k] = &types.AttributeValueMemberN{Value: av.Text}
		}
	}

	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return wrapErr("dynamodb", "put", err)
}

type filterExpression struct {
	Expression string
	Names      map[string]string
	Values     map[string]types.AttributeValue
}

// buildFilterExpression renders f with one name placeholder per distinct
// attribute and one value placeholder per condition, in condition order.
func buildFilterExpression(f Filter) (filterExpression, error) {
	expr := filterExpression{
		Names:  map[string]string{},
		Values: map[string]types.AttributeValue{},
	}
	nameFor := map[string]string{}
	parts := make([]string, 0, len(f.Conditions))

	for i, c := range f.Conditions {
		name, ok := nameFor[c.Attribute]
		if !ok {
			name = fmt.Sprintf("#a%d", len(nameFor))
			nameFor[c.Attribute] = name
			expr.Names[name] = c.Attribute
		}
		value := fmt.Sprintf(":v%d", i)

		switch c.Op {
		case OpEquals:
			parts = append(parts, name+" = "+value)
			expr.Values[value] = &types.AttributeValueMemberS{Value: c.Text}
		case OpContains:
			parts = append(parts, "contains("+name+", "+value+")")
			expr.Values[value] = &types.AttributeValueMemberS{Value: c.Text}
		case OpGTE, OpLTE:
			parts = append(parts, name+" "+c.Op.String()+" "+value)
			expr.Values[value] = &types.AttributeValueMemberN{Value: c.Number.String()}
		default:
			return filterExpression{}, fmt.Errorf("unsupported operator %s", c.Op)
		}
	}

	expr.Expression = strings.Join(parts, " AND ")
	return expr, nil
}

func fromDynamoItem(item map[string]types.AttributeValue) models.RawRecord {
	rec := make(models.RawRecord, len(item))
	for k, v := range item {
		switch t := v.(type) {
		case *types.AttributeValueMemberS:
			rec[k] = models.S(t.Value)
		case *types.AttributeValueMemberN:
			rec[k] = models.N(t.Value)
		default:
			rec[k] = models.AttributeValue{Kind: models.KindUnknown}
		}
	}
	return rec
}
