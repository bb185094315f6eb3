/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ScanOptions configures a paginated table scan.
type ScanOptions struct {
	PageSize int32 // Items per DynamoDB page (default: 100)
	// MaxPages stops the scan after that many pages; 0 scans everything.
	MaxPages        int
	ProgressHandler func(ScanProgress) // Optional progress callback
}

// ScanProgress is reported after every page.
type ScanProgress struct {
	ItemsProcessed int64
	PagesProcessed int
	LastKey        map[string]types.AttributeValue
	StartTime      time.Time
}

// ScanOption is a functional option for configuring scans
type ScanOption func(*ScanOptions)

// DefaultScanOptions returns default scan options
func DefaultScanOptions() ScanOptions {
	return ScanOptions{PageSize: 100}
}

// WithPageSize sets the DynamoDB page size
func WithPageSize(size int32) ScanOption {
	return func(opts *ScanOptions) {
		if size > 0 {
			opts.PageSize = size
		}
	}
}

// WithMaxPages bounds the number of pages read
func WithMaxPages(n int) ScanOption {
	return func(opts *ScanOptions) {
		opts.MaxPages = n
	}
}

// WithProgressHandler sets a progress callback
func WithProgressHandler(handler func(ScanProgress)) ScanOption {
	return func(opts *ScanOptions) {
		opts.ProgressHandler = handler
	}
}
