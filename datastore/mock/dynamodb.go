/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory fake of the DynamoDB API for testing
package mock

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Item is one stored DynamoDB item.
type Item = map[string]types.AttributeValue

// DynamoDB is a fake of the GetItem, PutItem, DeleteItem and Scan calls of
// a single-table design keyed by PK and SK. Filter and condition
// expressions are limited to equality clauses joined by AND and to
// attribute_not_exists(PK).
type DynamoDB struct {
	mu          sync.RWMutex
	items       map[string]Item
	getError    error
	putError    error
	deleteError error
	scanError   error
	scans       int
}

// New creates a new empty fake
func New() *DynamoDB {
	return &DynamoDB{items: make(map[string]Item)}
}

// WithGetError makes GetItem calls return an error
func (m *DynamoDB) WithGetError(err error) *DynamoDB {
	m.getError = err
	return m
}

// WithPutError makes PutItem calls return an error
func (m *DynamoDB) WithPutError(err error) *DynamoDB {
	m.putError = err
	return m
}

// WithDeleteError makes DeleteItem calls return an error
func (m *DynamoDB) WithDeleteError(err error) *DynamoDB {
	m.deleteError = err
	return m
}

// WithScanError makes Scan calls return an error
func (m *DynamoDB) WithScanError(err error) *DynamoDB {
	m.scanError = err
	return m
}

func keyOf(item Item) (string, error) {
	pk, okPK := item["PK"].(*types.AttributeValueMemberS)
	sk, okSK := item["SK"].(*types.AttributeValueMemberS)
	if !okPK || !okSK {
		return "", fmt.Errorf("item is missing string PK or SK")
	}
	return pk.Value + "|" + sk.Value, nil
}

func clone(item Item) Item {
	out := make(Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

// GetItem returns the item stored under the key, or an empty output
func (m *DynamoDB) GetItem(_ context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	key, err := keyOf(in.Key)
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[key]
	if !ok {
		return &sdk.GetItemOutput{}, nil
	}
	return &sdk.GetItemOutput{Item: clone(item)}, nil
}

// PutItem stores an item, honouring attribute_not_exists(PK)
func (m *DynamoDB) PutItem(_ context.Context, in *sdk.PutItemInput, _ ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	if m.putError != nil {
		return nil, m.putError
	}
	key, err := keyOf(in.Item)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cond := aws.ToString(in.ConditionExpression); cond != "" {
		if cond != "attribute_not_exists(PK)" {
			return nil, fmt.Errorf("unsupported condition expression %q", cond)
		}
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
		}
	}
	m.items[key] = clone(in.Item)
	return &sdk.PutItemOutput{}, nil
}

// DeleteItem removes an item, returning it when ReturnValues is ALL_OLD
func (m *DynamoDB) DeleteItem(_ context.Context, in *sdk.DeleteItemInput, _ ...func(*sdk.Options)) (*sdk.DeleteItemOutput, error) {
	if m.deleteError != nil {
		return nil, m.deleteError
	}
	key, err := keyOf(in.Key)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.items[key]
	delete(m.items, key)
	out := &sdk.DeleteItemOutput{}
	if ok && in.ReturnValues == types.ReturnValueAllOld {
		out.Attributes = old
	}
	return out, nil
}

// Scan walks items in key order. Limit bounds the items evaluated per page
// before filtering, as DynamoDB does.
func (m *DynamoDB) Scan(_ context.Context, in *sdk.ScanInput, _ ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	if m.scanError != nil {
		return nil, m.scanError
	}
	match, err := compileFilter(aws.ToString(in.FilterExpression), in.ExpressionAttributeNames, in.ExpressionAttributeValues)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.scans++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	start := 0
	if len(in.ExclusiveStartKey) > 0 {
		after, err := keyOf(in.ExclusiveStartKey)
		if err != nil {
			return nil, err
		}
		start, _ = slices.BinarySearch(keys, after)
		if start < len(keys) && keys[start] == after {
			start++
		}
	}

	limit := len(keys)
	if in.Limit != nil && int(*in.Limit) > 0 {
		limit = int(*in.Limit)
	}

	out := &sdk.ScanOutput{}
	end := min(start+limit, len(keys))
	for _, k := range keys[start:end] {
		item := m.items[k]
		out.ScannedCount++
		if !match(item) {
			continue
		}
		out.Count++
		if in.Select != types.SelectCount {
			out.Items = append(out.Items, clone(item))
		}
	}
	if end < len(keys) {
		last := m.items[keys[end-1]]
		out.LastEvaluatedKey = Item{"PK": last["PK"], "SK": last["SK"]}
	}
	return out, nil
}

func compileFilter(expr string, names map[string]string, values map[string]types.AttributeValue) (func(Item) bool, error) {
	if strings.TrimSpace(expr) == "" {
		return func(Item) bool { return true }, nil
	}
	type clause struct {
		attr  string
		value types.AttributeValue
	}
	var clauses []clause
	for _, part := range strings.Split(expr, " AND ") {
		lhs, rhs, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("unsupported filter expression %q", expr)
		}
		lhs, rhs = strings.TrimSpace(lhs), strings.TrimSpace(rhs)
		if strings.HasPrefix(lhs, "#") {
			name, ok := names[lhs]
			if !ok {
				return nil, fmt.Errorf("undefined attribute name %s", lhs)
			}
			lhs = name
		}
		value, ok := values[rhs]
		if !ok {
			return nil, fmt.Errorf("undefined attribute value %s", rhs)
		}
		clauses = append(clauses, clause{attr: lhs, value: value})
	}
	return func(item Item) bool {
		for _, c := range clauses {
			if !reflect.DeepEqual(item[c.attr], c.value) {
				return false
			}
		}
		return true
	}, nil
}

// Helper methods for testing

// Count returns the number of stored items
func (m *DynamoDB) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Scans returns the number of Scan calls served
func (m *DynamoDB) Scans() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.scans
}

// SetItem stores item directly (for testing)
func (m *DynamoDB) SetItem(item Item) error {
	key, err := keyOf(item)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = clone(item)
	return nil
}

// Items returns a copy of the stored items (for testing)
func (m *DynamoDB) Items() map[string]Item {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]Item, len(m.items))
	for k, v := range m.items {
		out[k] = clone(v)
	}
	return out
}

// Clear removes all items
func (m *DynamoDB) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = make(map[string]Item)
}
