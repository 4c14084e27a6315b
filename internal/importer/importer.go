package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"elitestore-api/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
//
// Expected columns: id, name, price, category, description, image.
// The price column takes dollars with up to two decimals ("299" or "299.00").
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts one product per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if p == nil {
			continue
		}

		if _, err := i.productRepo.Upsert(ctx, *p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.ID, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.ToLower(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	id := pick(record, index, "id")
	name := pick(record, index, "name")
	priceStr := pick(record, index, "price")
	category := pick(record, index, "category")

	if id == "" && name == "" {
		return nil, nil
	}
	if id == "" || name == "" || priceStr == "" || category == "" {
		return nil, fmt.Errorf("invalid product row (missing required fields) for id %q", id)
	}

	cents, err := parsePriceCents(priceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid price for id %q: %w", id, err)
	}

	return &domain.Product{
		ID:          id,
		Name:        name,
		PriceCents:  cents,
		Category:    category,
		Description: pick(record, index, "description"),
		ImageURL:    pick(record, index, "image"),
	}, nil
}

// parsePriceCents converts a dollar amount to cents without going through
// floating point.
func parsePriceCents(s string) (int64, error) {
	whole, frac, _ := strings.Cut(s, ".")
	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, err
	}
	if dollars < 0 {
		return 0, fmt.Errorf("negative price %q", s)
	}
	switch len(frac) {
	case 0:
		return dollars * 100, nil
	case 1:
		frac += "0"
	case 2:
	default:
		return 0, fmt.Errorf("too many decimal places in %q", s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, err
	}
	return dollars*100 + cents, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
