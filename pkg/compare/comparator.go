// Package compare reads the metadata of a path in two trees and reports the
// fields, and for regular files the content, that differ.
package compare

import (
	"context"
	"sync/atomic"

	"github.com/sdejongh/treediff/pkg/models"
	"github.com/sdejongh/treediff/pkg/storage"
)

// Comparator compares one relative path present in both trees. It is safe
// for concurrent use.
type Comparator struct {
	reader  *Reader
	content ContentComparator

	bytesCompared atomic.Int64
}

// NewComparator combines a metadata reader with a content comparator
func NewComparator(reader *Reader, content ContentComparator) *Comparator {
	return &Comparator{reader: reader, content: content}
}

// Compare reads rel in the original tree, then in the new tree, and reports
// every difference. Content is only compared when both sides are regular
// files and its difference, if any, is listed last. Sockets, devices and
// FIFOs are compared on metadata alone since reading them may block or never
// end.
func (c *Comparator) Compare(ctx context.Context, original, updated storage.Backend, rel string) (*models.DifferenceReport, error) {
	origEntry, err := c.reader.ReadEntry(ctx, original, rel)
	if err != nil {
		return nil, err
	}
	newEntry, err := c.reader.ReadEntry(ctx, updated, rel)
	if err != nil {
		return nil, err
	}

	identical, diffs := CompareEntries(origEntry, newEntry)

	if origEntry.IsRegular() && newEntry.IsRegular() {
		same, err := c.content.Equal(ctx, original, updated, rel)
		if err != nil {
			return nil, err
		}
		c.bytesCompared.Add(int64(origEntry.Size))

		if !same {
			identical = false
			diffs = append(diffs, models.FieldDiff{Field: models.FieldContent, Original: models.ContentDifferent})
		}
	}

	if diffs == nil {
		diffs = []models.FieldDiff{}
	}
	return &models.DifferenceReport{
		Path:        rel,
		Identical:   identical,
		Differences: diffs,
	}, nil
}

// BytesCompared returns the total size of original files whose content was
// compared so far
func (c *Comparator) BytesCompared() int64 {
	return c.bytesCompared.Load()
}

// ContentMethod names the content comparison in use
func (c *Comparator) ContentMethod() string {
	return c.content.Name()
}
