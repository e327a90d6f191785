package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Girbilcannon/DecoToolsHelper/internal/catalog"
	"github.com/Girbilcannon/DecoToolsHelper/internal/httpclient"
)

// fakeCatalog serves an id list at its root and records for ?ids= queries.
type fakeCatalog struct {
	mu          sync.Mutex
	idsBody     string
	records     map[int]map[string]any
	batchSizes  []int
	failOnBatch int
	rawBatch    string
}

func (c *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	defer c.mu.Unlock()

	query := r.URL.Query().Get("ids")
	if query == "" {
		_, _ = w.Write([]byte(c.idsBody))
		return
	}

	parts := strings.Split(query, ",")
	c.batchSizes = append(c.batchSizes, len(parts))
	if c.failOnBatch > 0 && len(c.batchSizes) == c.failOnBatch {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	if c.rawBatch != "" {
		_, _ = w.Write([]byte(c.rawBatch))
		return
	}

	out := make([]map[string]any, 0, len(parts))
	for _, p := range parts {
		id, _ := strconv.Atoi(p)
		if rec, ok := c.records[id]; ok {
			out = append(out, rec)
		}
	}
	if len(out) < len(parts) {
		w.WriteHeader(http.StatusPartialContent)
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (c *fakeCatalog) batches() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int(nil), c.batchSizes...)
}

var _ = Describe("APIFetcher", func() {
	var (
		ctx     context.Context
		fake    *fakeCatalog
		server  *httptest.Server
		fetcher *catalog.APIFetcher
	)

	BeforeEach(func() {
		ctx = context.Background()
		fake = &fakeCatalog{records: map[int]map[string]any{}}
		server = httptest.NewServer(fake)
		fetcher = catalog.NewAPIFetcher(httpclient.NewDefaultClient(0))
	})

	AfterEach(func() {
		server.Close()
	})

	source := func(kind catalog.Kind) catalog.Source {
		return catalog.Source{Kind: kind, Endpoint: server.URL + "/v2/" + string(kind)}
	}

	Describe("FetchIDs", func() {
		It("returns a sorted set without duplicates or non-positive ids", func() {
			fake.idsBody = `[5, 3, 3, -1, 0, 12]`

			ids, err := fetcher.FetchIDs(ctx, source(catalog.KindGuild))
			Expect(err).NotTo(HaveOccurred())
			Expect(ids).To(Equal(catalog.IDSet{3, 5, 12}))
		})

		It("accepts an empty catalog", func() {
			fake.idsBody = `[]`

			ids, err := fetcher.FetchIDs(ctx, source(catalog.KindHomestead))
			Expect(err).NotTo(HaveOccurred())
			Expect(ids.Len()).To(BeZero())
		})

		DescribeTable("rejects malformed payloads",
			func(body string) {
				fake.idsBody = body

				ids, err := fetcher.FetchIDs(ctx, source(catalog.KindGuild))
				Expect(err).To(HaveOccurred())
				Expect(catalog.IsMalformed(err)).To(BeTrue())
				Expect(ids).To(BeNil())
			},
			Entry("not JSON", `<html>oops</html>`),
			Entry("object instead of array", `{"ids":[1,2]}`),
			Entry("string element", `[1,"2",3]`),
			Entry("fractional element", `[1,2.5]`),
			Entry("truncated array", `[1,2,`),
		)

		It("reports transport errors for non-success statuses", func() {
			failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			}))
			defer failing.Close()

			_, err := fetcher.FetchIDs(ctx, catalog.Source{Kind: catalog.KindGuild, Endpoint: failing.URL})
			Expect(err).To(HaveOccurred())
			Expect(catalog.IsTransport(err)).To(BeTrue())

			var httpErr *httpclient.HTTPError
			Expect(err).To(BeAssignableToTypeOf(&catalog.TransportError{}))
			Expect(errors.As(err, &httpErr)).To(BeTrue())
			Expect(httpErr.StatusCode).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("FetchRecords", func() {
		It("never requests more than 50 ids per call", func() {
			ids := make([]int, 0, 120)
			for i := 1; i <= 120; i++ {
				ids = append(ids, i)
				fake.records[i] = map[string]any{"id": i, "name": "Deco " + strconv.Itoa(i)}
			}

			records, err := fetcher.FetchRecords(ctx, source(catalog.KindHomestead), catalog.NewIDSet(ids...))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(HaveLen(120))
			Expect(fake.batches()).To(Equal([]int{50, 50, 20}))
			Expect(records[0].ID).To(Equal(1))
			Expect(records[119].ID).To(Equal(120))
		})

		It("honours a smaller configured batch size", func() {
			fetcher = catalog.NewAPIFetcher(httpclient.NewDefaultClient(0), catalog.WithBatchSize(2))
			for i := 1; i <= 5; i++ {
				fake.records[i] = map[string]any{"id": i, "name": "Deco"}
			}

			_, err := fetcher.FetchRecords(ctx, source(catalog.KindHomestead), catalog.NewIDSet(1, 2, 3, 4, 5))
			Expect(err).NotTo(HaveOccurred())
			Expect(fake.batches()).To(Equal([]int{2, 2, 1}))
		})

		It("clamps batch sizes above the catalog limit", func() {
			Expect(catalog.NewAPIFetcher(nil, catalog.WithBatchSize(500)).BatchSize()).To(Equal(catalog.MaxBatchSize))
			Expect(catalog.NewAPIFetcher(nil, catalog.WithBatchSize(0)).BatchSize()).To(Equal(1))
		})

		It("does not call the catalog for an empty id set", func() {
			records, err := fetcher.FetchRecords(ctx, source(catalog.KindGuild), nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(BeEmpty())
			Expect(fake.batches()).To(BeEmpty())
		})

		It("keeps only decoration-typed guild upgrades with a name", func() {
			fake.records[1] = map[string]any{"id": 1, "name": "Chair", "type": "Decoration"}
			fake.records[2] = map[string]any{"id": 2, "name": "Tavern", "type": "Unlock"}
			fake.records[3] = map[string]any{"id": 3, "name": "   ", "type": "Decoration"}
			fake.records[4] = map[string]any{"id": 4, "name": "  Lantern ", "type": "Decoration"}

			records, err := fetcher.FetchRecords(ctx, source(catalog.KindGuild), catalog.NewIDSet(1, 2, 3, 4))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(Equal([]catalog.Record{
				{ID: 1, Name: "Chair", Type: "Decoration"},
				{ID: 4, Name: "Lantern", Type: "Decoration"},
			}))
		})

		It("does not apply the type filter to the homestead catalog", func() {
			fake.records[7] = map[string]any{"id": 7, "name": "Bench"}

			records, err := fetcher.FetchRecords(ctx, source(catalog.KindHomestead), catalog.NewIDSet(7))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(Equal([]catalog.Record{{ID: 7, Name: "Bench"}}))
		})

		It("drops records with a non-positive id", func() {
			fake.rawBatch = `[{"id":0,"name":"Ghost"},{"id":-4,"name":"Ghost"},{"id":9,"name":"Real"}]`

			records, err := fetcher.FetchRecords(ctx, source(catalog.KindHomestead), catalog.NewIDSet(9))
			Expect(err).NotTo(HaveOccurred())
			Expect(records).To(Equal([]catalog.Record{{ID: 9, Name: "Real"}}))
		})

		It("fails the whole fetch when any batch fails", func() {
			for i := 1; i <= 60; i++ {
				fake.records[i] = map[string]any{"id": i, "name": "Deco"}
			}
			fake.failOnBatch = 2

			ids := make([]int, 60)
			for i := range ids {
				ids[i] = i + 1
			}
			records, err := fetcher.FetchRecords(ctx, source(catalog.KindHomestead), catalog.NewIDSet(ids...))
			Expect(err).To(HaveOccurred())
			Expect(catalog.IsTransport(err)).To(BeTrue())
			Expect(records).To(BeNil())
		})

		It("reports malformed batch bodies", func() {
			fake.rawBatch = `{"text":"all ids provided are invalid"}`

			_, err := fetcher.FetchRecords(ctx, source(catalog.KindGuild), catalog.NewIDSet(1))
			Expect(err).To(HaveOccurred())
			Expect(catalog.IsMalformed(err)).To(BeTrue())
		})

		It("stops between batches once the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			_, err := fetcher.FetchRecords(cctx, source(catalog.KindGuild), catalog.NewIDSet(1, 2))
			Expect(err).To(MatchError(context.Canceled))
			Expect(fake.batches()).To(BeEmpty())
		})
	})
})
