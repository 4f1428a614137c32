package pipeline

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"crash-data-audit/internal/logging"
	"crash-data-audit/internal/model"
)

// Loader reads crash report CSVs from disk or over HTTP.
type Loader struct {
	Contract model.Contract
	Location *time.Location
	Retry    RetryConfig
	Client   *http.Client
	Logger   *zap.Logger
}

// Load reads the CSV at pathOrURL. http and https URLs are downloaded with
// retries.
func (l *Loader) Load(ctx context.Context, pathOrURL string) (*model.Dataset, error) {
	log := logging.OrNop(l.Logger).With(zap.String("source", pathOrURL))
	start := time.Now()

	var (
		ds  *model.Dataset
		err error
	)
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		ds, err = l.fetch(ctx, pathOrURL)
	} else {
		ds, err = l.open(pathOrURL)
	}
	if err != nil {
		log.Error("failed to load dataset", zap.Error(err))
		return nil, err
	}
	log.Info("dataset loaded",
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", ds.NumColumns()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return ds, nil
}

func (l *Loader) open(path string) (*model.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()
	return l.Read(file)
}

func (l *Loader) fetch(ctx context.Context, url string) (*model.Dataset, error) {
	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	cfg := l.Retry
	if cfg.MaxAttempts == 0 {
		cfg = DefaultRetryConfig
	}

	var ds *model.Dataset
	err := Retry(ctx, cfg, l.Logger, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return Permanent(fmt.Errorf("invalid url: %w", err))
		}
		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to GET CSV: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("failed to GET CSV: %s", resp.Status)
		case resp.StatusCode >= 400:
			return Permanent(fmt.Errorf("failed to GET CSV: %s", resp.Status))
		}
		ds, err = l.Read(resp.Body)
		if err != nil {
			return Permanent(err)
		}
		return nil
	})
	return ds, err
}

// Read parses CSV from r. Header names are trimmed and stripped of quotes;
// repeated names get a ".1", ".2" suffix and blank ones become "Unnamed: <i>".
// Short rows are padded with nulls. A column is numeric only when all its
// non-null cells are numbers. The contract timestamp column is parsed
// into timestamps, unparsable cells becoming null.
func (l *Loader) Read(r io.Reader) (*model.Dataset, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.New("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	columns := cleanHeader(header)

	var records [][]string
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %w", err)
		}
		if len(record) > len(columns) {
			return nil, fmt.Errorf("line %d: expected %d fields, saw %d", line, len(columns), len(record))
		}
		records = append(records, record)
	}

	rows := make([][]model.Value, len(records))
	for r := range rows {
		rows[r] = make([]model.Value, len(columns))
	}
	raw := make([]string, len(records))
	for i := range columns {
		for r, record := range records {
			raw[r] = ""
			if i < len(record) {
				raw[r] = record[i]
			}
		}
		for r, v := range model.ParseColumn(raw) {
			rows[r][i] = v
		}
	}

	c := l.Contract.WithDefaults()
	loc := l.Location
	if loc == nil {
		loc = time.Local
	}
	for i, col := range columns {
		if col != c.TimestampColumn {
			continue
		}
		for _, row := range rows {
			if t, ok := model.CoerceTime(row[i], loc); ok {
				row[i] = model.Timestamp(t)
			} else {
				row[i] = model.Null()
			}
		}
	}
	return model.NewDataset(columns, rows)
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	suffix := make(map[string]int)
	for i, h := range header {
		name := strings.TrimPrefix(h, "\ufeff")
		name = strings.ReplaceAll(strings.TrimSpace(name), `"`, "")
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if used[name] {
			base := name
			for {
				suffix[base]++
				name = base + "." + strconv.Itoa(suffix[base])
				if !used[name] {
					break
				}
			}
		}
		used[name] = true
		out[i] = name
	}
	return out
}
