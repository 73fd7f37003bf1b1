package products

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/openshophq/openshop-backend/pkg/enums"
)

// csvColumnCount is the expected layout:
// name, product_no, description, category, quantity, unit, price, tax
const csvColumnCount = 8

// batchRow is one parsed CSV line, prior to staging.
type batchRow struct {
	Name        string
	ProductNo   string
	Description string
	Category    enums.ProductCategory
	Quantity    int
	Unit        string
	Price       decimal.Decimal
	Tax         decimal.Decimal
}

// parseBatchCSV reads the whole file, skipping the header row. Every invalid
// row contributes an error; the combined error aborts the batch.
func parseBatchCSV(reader io.Reader) ([]batchRow, error) {
	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) <= 1 {
		return nil, fmt.Errorf("csv has no data rows")
	}

	var rowErrs error
	rows := make([]batchRow, 0, len(records)-1)
	seen := map[string]int{}

	// Row numbers are 1-based and include the header.
	for i, record := range records[1:] {
		rowNum := i + 2
		row, err := parseBatchRow(record)
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: %w", rowNum, err))
			continue
		}

		key := strings.ToLower(row.Name) + "\x00" + strings.ToLower(row.ProductNo)
		if firstRow, dup := seen[key]; dup {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("row %d: duplicates row %d (%s, %s)", rowNum, firstRow, row.Name, row.ProductNo))
			continue
		}
		seen[key] = rowNum

		rows = append(rows, row)
	}

	if rowErrs != nil {
		return nil, rowErrs
	}
	return rows, nil
}

func parseBatchRow(record []string) (batchRow, error) {
	if len(record) != csvColumnCount {
		return batchRow{}, fmt.Errorf("expected %d columns, got %d", csvColumnCount, len(record))
	}

	name := strings.TrimSpace(record[0])
	productNo := strings.TrimSpace(record[1])
	if name == "" {
		return batchRow{}, fmt.Errorf("name is required")
	}
	if productNo == "" {
		return batchRow{}, fmt.Errorf("product_no is required")
	}

	category := enums.ProductCategoryRandom
	if raw := strings.TrimSpace(record[3]); raw != "" {
		parsed, err := enums.ParseProductCategory(raw)
		if err != nil {
			return batchRow{}, fmt.Errorf("invalid category %q", raw)
		}
		category = parsed
	}

	quantity := 1
	if raw := strings.TrimSpace(record[4]); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return batchRow{}, fmt.Errorf("invalid quantity %q", raw)
		}
		quantity = parsed
	}

	price, err := decimal.NewFromString(strings.TrimSpace(record[6]))
	if err != nil {
		return batchRow{}, fmt.Errorf("invalid price %q", record[6])
	}
	if price.IsNegative() {
		return batchRow{}, fmt.Errorf("price cannot be negative")
	}

	tax := decimal.Zero
	if raw := strings.TrimSpace(record[7]); raw != "" {
		tax, err = decimal.NewFromString(raw)
		if err != nil {
			return batchRow{}, fmt.Errorf("invalid tax %q", raw)
		}
		if tax.IsNegative() {
			return batchRow{}, fmt.Errorf("tax cannot be negative")
		}
	}

	return batchRow{
		Name:        name,
		ProductNo:   productNo,
		Description: strings.TrimSpace(record[2]),
		Category:    category,
		Quantity:    quantity,
		Unit:        strings.TrimSpace(record[5]),
		Price:       price,
		Tax:         tax,
	}, nil
}
