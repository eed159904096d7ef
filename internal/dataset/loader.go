package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"

	"superstore-bi/internal/errors"
	"superstore-bi/internal/models"
)

const (
	parseBatchSize  = 2000
	maxParseWorkers = 8
)

// The fixed external contract of the source file. Loading fails when
// any of these columns is missing from the header.
var requiredColumns = []string{
	"Order ID",
	"Order Date",
	"Customer ID",
	"Product Name",
	"Category",
	"Sub-Category",
	"Sales",
	"Quantity",
	"Discount",
	"Profit",
	"Region",
	"State",
	"City",
}

// Present in the Superstore file and used by the segment filter and
// customer analysis, but not part of the required contract.
var optionalColumns = []string{
	"Customer Name",
	"Segment",
}

// Loader reads the flat Superstore table into an immutable Snapshot.
// The source may be a local path or an http(s) URL.
type Loader struct {
	http   *resty.Client
	logger *slog.Logger
}

func NewLoader(logger *slog.Logger) *Loader {
	return &Loader{
		http:   resty.New().SetRetryCount(2),
		logger: logger,
	}
}

func (l *Loader) Load(ctx context.Context, source string) (*Snapshot, error) {
	start := time.Now()
	l.logger.Info("loading dataset", "source", source)

	reader, cleanup, err := l.open(ctx, source)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, errors.DataLoadWrap(err, "dataset is empty or has no header")
	}

	cols, err := resolveSchema(header)
	if err != nil {
		return nil, err
	}

	var rows [][]string
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.DataLoadWrap(err, "malformed CSV record")
		}
		rows = append(rows, record)
	}

	txs, skipped, err := parseRows(ctx, rows, cols)
	if err != nil {
		return nil, err
	}
	if len(txs) == 0 {
		return nil, errors.DataLoad("no valid records found in dataset")
	}

	snap := NewSnapshot(txs)
	snap.SkippedRows = skipped

	l.logger.Info("dataset loaded",
		"records", len(txs),
		"skipped", skipped,
		"years", snap.Years,
		"duration", time.Since(start),
	)
	return snap, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.Reader, func(), error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		resp, err := l.http.R().SetContext(ctx).Get(source)
		if err != nil {
			return nil, nil, errors.DataLoadWrap(err, "failed to fetch dataset URL")
		}
		if resp.IsError() {
			return nil, nil, errors.DataLoad(fmt.Sprintf("dataset URL returned status %d", resp.StatusCode()))
		}
		return bytes.NewReader(resp.Body()), func() {}, nil
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, nil, errors.DataLoadWrap(err, "failed to open dataset file")
	}
	return file, func() { file.Close() }, nil
}

// columnIndex maps schema column names to header positions. Missing
// optional columns resolve to -1.
type columnIndex map[string]int

func resolveSchema(header []string) (columnIndex, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		positions[strings.TrimSpace(name)] = i
	}

	cols := make(columnIndex, len(requiredColumns)+len(optionalColumns))
	var missing []string
	for _, name := range requiredColumns {
		idx, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = idx
	}
	if len(missing) > 0 {
		return nil, errors.DataLoad(fmt.Sprintf("dataset schema mismatch, missing columns: %s", strings.Join(missing, ", ")))
	}

	for _, name := range optionalColumns {
		if idx, ok := positions[name]; ok {
			cols[name] = idx
		} else {
			cols[name] = -1
		}
	}
	return cols, nil
}

// parseRows converts raw records in parallel batches. Each worker owns
// a disjoint slice range, so no locking is needed. Rows with
// unparseable dates or numerics are skipped, not coerced.
func parseRows(ctx context.Context, rows [][]string, cols columnIndex) ([]models.Transaction, int, error) {
	parsed := make([]*models.Transaction, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParseWorkers)

	for lo := 0; lo < len(rows); lo += parseBatchSize {
		hi := min(lo+parseBatchSize, len(rows))
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			for i := lo; i < hi; i++ {
				if tx, err := parseTransaction(rows[i], cols); err == nil {
					parsed[i] = &tx
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, errors.DataLoadWrap(err, "dataset parsing interrupted")
	}

	txs := make([]models.Transaction, 0, len(rows))
	skipped := 0
	for _, tx := range parsed {
		if tx == nil {
			skipped++
			continue
		}
		txs = append(txs, *tx)
	}
	return txs, skipped, nil
}

func parseTransaction(record []string, cols columnIndex) (models.Transaction, error) {
	field := func(name string) string {
		idx := cols[name]
		if idx < 0 || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	orderID := field("Order ID")
	customerID := field("Customer ID")
	if orderID == "" || customerID == "" {
		return models.Transaction{}, fmt.Errorf("missing order or customer identifier")
	}

	orderDate, err := parseDate(field("Order Date"))
	if err != nil {
		return models.Transaction{}, err
	}

	sales, err := parseAmount(field("Sales"))
	if err != nil {
		return models.Transaction{}, err
	}
	if sales < 0 {
		return models.Transaction{}, fmt.Errorf("negative sales amount")
	}

	quantity, err := strconv.Atoi(field("Quantity"))
	if err != nil {
		return models.Transaction{}, err
	}
	if quantity <= 0 {
		return models.Transaction{}, fmt.Errorf("quantity must be positive")
	}

	discount, err := parseAmount(field("Discount"))
	if err != nil {
		return models.Transaction{}, err
	}

	profit, err := parseAmount(field("Profit"))
	if err != nil {
		return models.Transaction{}, err
	}

	return models.Transaction{
		OrderID:      orderID,
		OrderDate:    orderDate,
		CustomerID:   customerID,
		CustomerName: field("Customer Name"),
		Segment:      field("Segment"),
		ProductName:  field("Product Name"),
		Category:     field("Category"),
		SubCategory:  field("Sub-Category"),
		Sales:        sales,
		Quantity:     quantity,
		Discount:     discount,
		Profit:       profit,
		Region:       field("Region"),
		State:        field("State"),
		City:         field("City"),
	}, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// parseAmount accepts plain floats plus currency symbols, thousands
// separators and a comma decimal point ("$1,234.56", "1234,56").
func parseAmount(value string) (float64, error) {
	s := strings.TrimSpace(strings.ReplaceAll(value, "$", ""))
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") {
		switch {
		case strings.Contains(s, "."):
			s = strings.ReplaceAll(s, ",", "")
		default:
			if parts := strings.Split(s, ","); len(parts) == 2 && len(parts[1]) != 3 {
				s = parts[0] + "." + parts[1]
			} else {
				s = strings.ReplaceAll(s, ",", "")
			}
		}
	}
	return strconv.ParseFloat(s, 64)
}
