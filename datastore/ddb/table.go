/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/domainstore/entity"
	dserrors "github.com/suparena/domainstore/errors"
	"github.com/suparena/domainstore/storagemodels"
)

// Item attribute names written next to the entity properties.
const (
	AttrPK         = "PK"
	AttrSK         = "SK"
	AttrEntityType = "EntityType"
)

// DefaultKeyTemplate builds both PK and SK from the class name and identity.
const DefaultKeyTemplate = "{class}#{id}"

// maxInsertAttempts bounds identity retries when another writer took the
// identity this process picked.
const maxInsertAttempts = 16

var macroPattern = regexp.MustCompile(`{([^}]+)}`)

// Table stores the entities of one class in a single DynamoDB table, one
// item per entity keyed by the expanded key templates.
//
// Identities come from a process-local sequence. Inserts are conditional
// on the key being free and move the sequence forward on conflict, which
// is enough for a single writer but not a distributed allocator.
type Table struct {
	api   API
	table string
	class *entity.Class
	pkTpl string
	skTpl string
	seq   atomic.Int64
}

// TableOption configures a Table.
type TableOption func(*Table)

// WithKeyTemplates overrides the PK and SK templates. Templates may use the
// {class} and {id} macros.
func WithKeyTemplates(pk, sk string) TableOption {
	return func(t *Table) {
		t.pkTpl, t.skTpl = pk, sk
	}
}

// NewTable returns the table view of class.
func NewTable(api API, tableName string, class *entity.Class, opts ...TableOption) (*Table, error) {
	if api == nil {
		return nil, dserrors.NewInvalidArgumentError("api", "must not be nil")
	}
	if tableName == "" {
		return nil, dserrors.NewInvalidArgumentError("table", "must not be empty")
	}
	if class == nil {
		return nil, dserrors.NewInvalidArgumentError("class", "must not be nil")
	}
	t := &Table{api: api, table: tableName, class: class, pkTpl: DefaultKeyTemplate, skTpl: DefaultKeyTemplate}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Table) Class() *entity.Class { return t.class }

func (t *Table) Name() string { return t.table }

func (t *Table) expand(tpl string, id int64) string {
	return macroPattern.ReplaceAllStringFunc(tpl, func(macro string) string {
		switch macro[1 : len(macro)-1] {
		case "class":
			return t.class.Name()
		case "id":
			return strconv.FormatInt(id, 10)
		}
		return ""
	})
}

func (t *Table) key(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: t.expand(t.pkTpl, id)},
		AttrSK: &types.AttributeValueMemberS{Value: t.expand(t.skTpl, id)},
	}
}

// Save writes e. An entity without identity is inserted under the next
// free identity, which is assigned to e.
func (t *Table) Save(ctx context.Context, e any) (any, error) {
	if err := t.class.Check(e); err != nil {
		return nil, err
	}

	id := t.class.IdentityOf(e)
	if id != 0 {
		t.advance(id)
		if err := t.put(ctx, e, id, false); err != nil {
			return nil, err
		}
		return e, nil
	}

	for attempt := 0; attempt < maxInsertAttempts; attempt++ {
		id = t.seq.Add(1)
		err := t.put(ctx, e, id, true)
		if err == nil {
			if err := t.class.SetIdentity(e, id); err != nil {
				return nil, err
			}
			return e, nil
		}
		if !dserrors.IsConditionFailed(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("no free identity for %s after %d attempts", t.class.Name(), maxInsertAttempts)
}

func (t *Table) advance(id int64) {
	for {
		cur := t.seq.Load()
		if id <= cur || t.seq.CompareAndSwap(cur, id) {
			return
		}
	}
}

func (t *Table) put(ctx context.Context, e any, id int64, insert bool) error {
	item, err := encodeEntity(t.class, e)
	if err != nil {
		return err
	}
	item[t.class.Identity().Name()] = &types.AttributeValueMemberN{Value: strconv.FormatInt(id, 10)}
	for k, v := range t.key(id) {
		item[k] = v
	}
	item[AttrEntityType] = &types.AttributeValueMemberS{Value: t.class.Name()}

	input := &sdk.PutItemInput{
		TableName: &t.table,
		Item:      item,
	}
	if insert {
		input.ConditionExpression = aws.String("attribute_not_exists(PK)")
	}

	if _, err := t.api.PutItem(ctx, input); err != nil {
		var cfe *types.ConditionalCheckFailedException
		if errors.As(err, &cfe) {
			return dserrors.NewConditionFailedError("PutItem", "attribute_not_exists(PK)")
		}
		return fmt.Errorf("PutItem failed: %w", err)
	}
	return nil
}

// Fetch returns the entity stored under id, or nil.
func (t *Table) Fetch(ctx context.Context, id int64) (any, error) {
	out, err := t.api.GetItem(ctx, &sdk.GetItemInput{
		TableName: &t.table,
		Key:       t.key(id),
	})
	if err != nil {
		return nil, fmt.Errorf("GetItem error: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	return decodeEntity(t.class, out.Item)
}

// Remove deletes the item of e. It returns e, or nil when nothing was
// stored under its identity.
func (t *Table) Remove(ctx context.Context, e any) (any, error) {
	if !t.class.Owns(e) {
		return nil, nil
	}
	id := t.class.IdentityOf(e)
	if id == 0 {
		return nil, nil
	}
	out, err := t.api.DeleteItem(ctx, &sdk.DeleteItemInput{
		TableName:    &t.table,
		Key:          t.key(id),
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to delete item in DynamoDB: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, nil
	}
	return e, nil
}

// List scans every item of the class and returns the entities in identity
// order.
func (t *Table) List(ctx context.Context, opts ...storagemodels.ScanOption) ([]any, error) {
	return t.scan(ctx, nil, opts...)
}

// Query returns every entity, in identity order, whose property equals
// value.
func (t *Table) Query(ctx context.Context, property string, value any) ([]any, error) {
	if _, ok := t.class.Property(property); !ok {
		return nil, dserrors.NewInvalidArgumentError(property,
			fmt.Sprintf("%s has no property named %q", t.class.Name(), property))
	}
	av, err := encodeValue(value)
	if err != nil {
		return nil, err
	}
	return t.scan(ctx, &filterClause{name: property, value: av})
}

// First returns the first entity, in identity order, whose property equals
// value.
func (t *Table) First(ctx context.Context, property string, value any) (any, error) {
	items, err := t.Query(ctx, property, value)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return items[0], nil
}

// Size counts the items of the class.
func (t *Table) Size(ctx context.Context) (int, error) {
	input := t.scanInput(nil, storagemodels.DefaultScanOptions())
	input.Select = types.SelectCount

	total := 0
	for {
		out, err := t.api.Scan(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("Scan failed: %w", err)
		}
		total += int(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

type filterClause struct {
	name  string
	value types.AttributeValue
}

func (t *Table) scanInput(extra *filterClause, options storagemodels.ScanOptions) *sdk.ScanInput {
	filter := "#et = :et"
	names := map[string]string{"#et": AttrEntityType}
	values := map[string]types.AttributeValue{
		":et": &types.AttributeValueMemberS{Value: t.class.Name()},
	}
	if extra != nil {
		filter += " AND #p = :p"
		names["#p"] = extra.name
		values[":p"] = extra.value
	}
	return &sdk.ScanInput{
		TableName:                 &t.table,
		FilterExpression:          aws.String(filter),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		Limit:                     aws.Int32(options.PageSize),
	}
}

func (t *Table) scan(ctx context.Context, extra *filterClause, opts ...storagemodels.ScanOption) ([]any, error) {
	options := storagemodels.DefaultScanOptions()
	for _, opt := range opts {
		opt(&options)
	}
	input := t.scanInput(extra, options)
	progress := storagemodels.ScanProgress{StartTime: time.Now()}

	items := make([]any, 0)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out, err := t.api.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("Scan failed: %w", err)
		}
		for _, raw := range out.Items {
			e, err := decodeEntity(t.class, raw)
			if err != nil {
				return nil, err
			}
			items = append(items, e)
		}

		progress.PagesProcessed++
		progress.ItemsProcessed += int64(len(out.Items))
		progress.LastKey = out.LastEvaluatedKey
		if options.ProgressHandler != nil {
			options.ProgressHandler(progress)
		}

		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		if options.MaxPages > 0 && progress.PagesProcessed >= options.MaxPages {
			break
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}

	slices.SortFunc(items, func(a, b any) int {
		return cmp.Compare(t.class.IdentityOf(a), t.class.IdentityOf(b))
	})
	return items, nil
}
