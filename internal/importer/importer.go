package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/service/category"
)

type ProductWriter interface {
	Create(ctx context.Context, credential string, in domain.ProductInput) (*domain.Product, error)
}

type CategoryWriter interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, credential, name string) (*domain.Category, error)
}

// CSVImporter reads catalog CSV files and creates the products through the
// admin API. Categories are matched by name and created when missing.
//
// Columns: name, description, price, stock, category, imageUrl. A row without
// a name continues the description of the product above it.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter
	credential string

	known []domain.Category
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter, credential string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:     csvr,
		products:   products,
		categories: categories,
		credential: credential,
	}
}

type csvRow struct {
	Line     int
	Name     string
	Desc     []string
	Cents    int64
	Stock    int
	Category string
	ImageURL string
}

// Run parses CSV rows and creates one product per named row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("missing name column")
	}

	known, err := i.categories.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list categories: %w", err)
	}
	i.known = known

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row, err := parseRow(record, index, line)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows extend the description of the current product.
		if current != nil {
			current.Desc = append(current.Desc, row.Desc...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Cents <= 0 || row.Category == "" {
		return fmt.Errorf("line %d: invalid product row (missing price or category) for %q", row.Line, row.Name)
	}
	cat, err := i.categoryID(ctx, row.Category)
	if err != nil {
		return fmt.Errorf("line %d: %w", row.Line, err)
	}

	in := domain.ProductInput{
		Name:        row.Name,
		Description: strings.Join(row.Desc, "\n\n"),
		PriceCents:  row.Cents,
		Stock:       row.Stock,
		ImageURL:    row.ImageURL,
		CategoryID:  cat,
	}
	if _, err := i.products.Create(ctx, i.credential, in); err != nil {
		return fmt.Errorf("create product %q: %w", row.Name, err)
	}
	return nil
}

func (i *CSVImporter) categoryID(ctx context.Context, name string) (string, error) {
	if c, ok := category.FindByName(i.known, name); ok {
		return c.ID, nil
	}
	created, err := i.categories.Create(ctx, i.credential, name)
	if err != nil {
		return "", fmt.Errorf("create category %q: %w", name, err)
	}
	i.known = append(i.known, *created)
	return created.ID, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	name := pick(record, index, "name")
	desc := pick(record, index, "description")
	if name == "" && desc == "" {
		return nil, nil
	}

	row := &csvRow{
		Line:     line,
		Name:     name,
		Category: pick(record, index, "category"),
		ImageURL: pick(record, index, "imageurl"),
	}
	if desc != "" {
		row.Desc = []string{desc}
	}
	if name == "" {
		return row, nil
	}

	if v := pick(record, index, "price"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid price %q", line, v)
		}
		row.Cents = int64(math.Round(f * 100))
	}
	if v := pick(record, index, "stock"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("line %d: invalid stock %q", line, v)
		}
		row.Stock = n
	}
	return row, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
