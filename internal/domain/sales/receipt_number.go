package sales

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lababil/pos/internal/domain/shared"
)

const (
	// DefaultReceiptPrefix is the literal middle segment of receipt numbers
	DefaultReceiptPrefix = "LS"
	receiptSeparator     = "/"
	receiptDateLayout    = "02012006"
	counterKeyPrefix     = "last_receipt_"
)

// ReceiptSequence hands out per-day counters. Next must be atomic: two
// callers never observe the same value for one key.
type ReceiptSequence interface {
	Next(ctx context.Context, key string) (int64, error)
}

// Clock returns the current time
type Clock func() time.Time

// ReceiptNumberGenerator produces numbers like 0001/LS/22092025
type ReceiptNumberGenerator struct {
	sequence ReceiptSequence
	prefix   string
	clock    Clock
	location *time.Location
}

// NewReceiptNumberGenerator creates a generator. A nil clock uses time.Now,
// a nil location uses time.Local.
func NewReceiptNumberGenerator(sequence ReceiptSequence, prefix string, clock Clock, location *time.Location) *ReceiptNumberGenerator {
	if prefix == "" {
		prefix = DefaultReceiptPrefix
	}
	if clock == nil {
		clock = time.Now
	}
	if location == nil {
		location = time.Local
	}
	return &ReceiptNumberGenerator{
		sequence: sequence,
		prefix:   prefix,
		clock:    clock,
		location: location,
	}
}

// Now returns the generator's current time in its location
func (g *ReceiptNumberGenerator) Now() time.Time {
	return g.clock().In(g.location)
}

// Next allocates the next receipt number for today
func (g *ReceiptNumberGenerator) Next(ctx context.Context) (string, error) {
	return g.NextFrom(ctx, nil)
}

// NextFrom allocates the next number from sequence instead of the
// generator's own. A nil sequence uses the generator's.
func (g *ReceiptNumberGenerator) NextFrom(ctx context.Context, sequence ReceiptSequence) (string, error) {
	return g.NumberAt(ctx, sequence, g.Now())
}

// NumberAt allocates the next number for the local day of at. Callers that
// also stamp lines with at keep the receipt suffix and the line date equal.
func (g *ReceiptNumberGenerator) NumberAt(ctx context.Context, sequence ReceiptSequence, at time.Time) (string, error) {
	if sequence == nil {
		sequence = g.sequence
	}
	day := at.In(g.location)
	seq, err := sequence.Next(ctx, CounterKey(day))
	if err != nil {
		return "", fmt.Errorf("failed to allocate receipt sequence: %w", err)
	}
	return FormatReceiptNumber(seq, g.prefix, day), nil
}

// CounterKey returns the storage key of the daily counter, last_receipt_DDMMYYYY
func CounterKey(day time.Time) string {
	return counterKeyPrefix + day.Format(receiptDateLayout)
}

// FormatReceiptNumber renders NNNN/PREFIX/DDMMYYYY. Sequences above 9999
// widen instead of wrapping.
func FormatReceiptNumber(seq int64, prefix string, day time.Time) string {
	return fmt.Sprintf("%04d%s%s%s%s", seq, receiptSeparator, prefix, receiptSeparator, day.Format(receiptDateLayout))
}

// ReceiptNumber is a parsed receipt identifier
type ReceiptNumber struct {
	Sequence int64
	Prefix   string
	Date     time.Time
}

// ParseReceiptNumber splits a receipt identifier into its parts
func ParseReceiptNumber(s string, location *time.Location) (ReceiptNumber, error) {
	parts := strings.Split(s, receiptSeparator)
	if len(parts) != 3 || len(parts[0]) < 4 || parts[1] == "" {
		return ReceiptNumber{}, shared.NewDomainError("INVALID_RECEIPT", "Receipt number must look like 0001/LS/22092025")
	}
	seq, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || seq < 1 {
		return ReceiptNumber{}, shared.NewDomainError("INVALID_RECEIPT", "Receipt sequence must be a positive number")
	}
	if location == nil {
		location = time.Local
	}
	date, err := time.ParseInLocation(receiptDateLayout, parts[2], location)
	if err != nil {
		return ReceiptNumber{}, shared.NewDomainError("INVALID_RECEIPT", "Receipt date must be DDMMYYYY")
	}
	return ReceiptNumber{Sequence: seq, Prefix: parts[1], Date: date}, nil
}

// String renders the receipt number
func (r ReceiptNumber) String() string {
	return FormatReceiptNumber(r.Sequence, r.Prefix, r.Date)
}
