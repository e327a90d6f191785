package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-logr/logr"
	"github.com/tidwall/gjson"

	"github.com/Girbilcannon/DecoToolsHelper/internal/httpclient"
)

var _ Fetcher = (*APIFetcher)(nil)

// APIFetcher reads catalogs over HTTP.
type APIFetcher struct {
	httpClient httpclient.Client
	batchSize  int
}

// FetcherOption configures an APIFetcher.
type FetcherOption func(*APIFetcher)

// WithBatchSize sets how many identifiers are requested per bulk query.
// Values outside 1..MaxBatchSize are clamped.
func WithBatchSize(n int) FetcherOption {
	return func(f *APIFetcher) {
		f.batchSize = min(max(n, 1), MaxBatchSize)
	}
}

// NewAPIFetcher creates a catalog fetcher on top of httpClient.
func NewAPIFetcher(httpClient httpclient.Client, opts ...FetcherOption) *APIFetcher {
	f := &APIFetcher{
		httpClient: httpClient,
		batchSize:  MaxBatchSize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// BatchSize returns the effective bulk query size.
func (f *APIFetcher) BatchSize() int {
	return f.batchSize
}

// FetchIDs retrieves the identifier list from the catalog root.
func (f *APIFetcher) FetchIDs(ctx context.Context, src Source) (IDSet, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("catalog", src.Kind)

	data, err := f.httpClient.Get(ctx, src.Endpoint)
	if err != nil {
		return nil, &TransportError{Catalog: src.Kind, URL: src.Endpoint, Err: err}
	}

	ids, err := parseIDList(data)
	if err != nil {
		return nil, &MalformedPayloadError{Catalog: src.Kind, URL: src.Endpoint, Err: err}
	}

	set := NewIDSet(ids...)
	logger.V(1).Info("Fetched catalog identifiers", "received", len(ids), "valid", set.Len())
	return set, nil
}

// parseIDList accepts only a JSON array whose elements are all integers.
func parseIDList(data []byte) ([]int, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("response is not valid JSON")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("expected a JSON array of identifiers, got %s", root.Type)
	}

	var (
		ids    []int
		badErr error
	)
	root.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number || value.Num != math.Trunc(value.Num) {
			badErr = fmt.Errorf("element %d is not an integer: %s", key.Int(), value.Raw)
			return false
		}
		ids = append(ids, int(value.Int()))
		return true
	})
	if badErr != nil {
		return nil, badErr
	}
	return ids, nil
}

// FetchRecords retrieves records for ids in batches of at most the configured
// batch size. A failure in any batch fails the whole call.
func (f *APIFetcher) FetchRecords(ctx context.Context, src Source, ids IDSet) ([]Record, error) {
	logger := logr.FromContextOrDiscard(ctx).WithValues("catalog", src.Kind)

	base, err := url.Parse(src.Endpoint)
	if err != nil {
		return nil, &TransportError{Catalog: src.Kind, URL: src.Endpoint, Err: err}
	}

	records := make([]Record, 0, ids.Len())
	batches := 0
	for start := 0; start < len(ids); start += f.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+f.batchSize, len(ids))
		batchURL := withIDsQuery(base, ids[start:end])

		data, err := f.httpClient.Get(ctx, batchURL)
		if err != nil {
			return nil, &TransportError{Catalog: src.Kind, URL: batchURL, Err: err}
		}

		var batch []Record
		if err := json.Unmarshal(data, &batch); err != nil {
			return nil, &MalformedPayloadError{Catalog: src.Kind, URL: batchURL, Err: err}
		}

		for _, rec := range batch {
			if keep(src.Kind, rec) {
				rec.Name = strings.TrimSpace(rec.Name)
				records = append(records, rec)
			}
		}
		batches++
	}

	logger.V(1).Info("Fetched catalog records",
		"requested", ids.Len(), "batches", batches, "kept", len(records))
	return records, nil
}

// keep applies the per-catalog record filter.
func keep(kind Kind, rec Record) bool {
	if rec.ID <= 0 || strings.TrimSpace(rec.Name) == "" {
		return false
	}
	if kind == KindGuild && rec.Type != guildDecorationType {
		return false
	}
	return true
}

// withIDsQuery appends ids=1,2,3 to base, keeping any query it already has.
// Commas are left unescaped; the catalog API expects a literal list.
func withIDsQuery(base *url.URL, ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}

	u := *base
	param := "ids=" + strings.Join(parts, ",")
	if u.RawQuery == "" {
		u.RawQuery = param
	} else {
		u.RawQuery += "&" + param
	}
	return u.String()
}
