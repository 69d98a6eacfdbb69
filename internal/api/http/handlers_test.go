package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WillyAmmm/Quote-Logger/internal/config"
	"github.com/WillyAmmm/Quote-Logger/internal/extract"
	"github.com/WillyAmmm/Quote-Logger/internal/monitoring"
	"github.com/WillyAmmm/Quote-Logger/internal/query"
	"github.com/WillyAmmm/Quote-Logger/internal/sink"
	"github.com/WillyAmmm/Quote-Logger/internal/store"
)

type fakeSyncer struct {
	mu      sync.Mutex
	rows    [][]sink.Row
	patches [][]sink.Patch
	err     error
}

func (f *fakeSyncer) PushRows(_ context.Context, rows []sink.Row) (sink.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return sink.SyncResult{}, f.err
	}
	f.rows = append(f.rows, rows)
	return sink.SyncResult{Result: "success", Added: len(rows)}, nil
}

func (f *fakeSyncer) PushPatches(_ context.Context, patches []sink.Patch) (sink.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return sink.SyncResult{}, f.err
	}
	f.patches = append(f.patches, patches)
	return sink.SyncResult{Result: "success", StatusUpdates: 1}, nil
}

type fakeFetcher struct {
	rows []sink.Row
	err  error
}

func (f *fakeFetcher) Fetch(_ context.Context, _ string, _ int) ([]sink.Row, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func newTestRouter(t *testing.T, syncer *fakeSyncer, fetcher *fakeFetcher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Default()
	metrics := monitoring.NewMetricsWith(prometheus.NewRegistry())
	st := store.New(fetcher, cfg.Sink.BulkLimit, nil)
	searcher := store.NewSearcher(st, time.Millisecond, cfg.Search.TopN, query.DefaultWindow)
	h := NewHandlers(cfg, nil, metrics, extract.NewAggregator(nil), syncer, st, searcher)

	r := gin.New()
	r.GET("/health", h.Health)
	r.POST("/capture", h.Capture)
	r.GET("/recent", h.Recent)
	r.POST("/search", h.Search)
	r.GET("/options", h.Options)
	r.POST("/save", h.Save)
	r.POST("/refresh", h.Refresh)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func bidPage(loadID string) string {
	return fmt.Sprintf(`<html><body><table id="acceptedLoadsTable"><tbody>
		<tr path="/DATA/AcceptedLoads/FreightAuctionCarrierBid[1]">
			<td jsn="ExternalLoadID">%s</td>
			<td jsn="RateAdjustmentAmount">$1,500.00</td>
			<td jsn="BidActionDateTime">08/29/2025 10:24 AM</td>
			<td jsn="BidResponseEnumVal">Carrier Awarded</td>
			<td jsn="OriginStateCode">KS</td>
			<td jsn="DestinationStateCode">WA</td>
		</tr>
	</tbody></table></body></html>`, loadID)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, &fakeSyncer{}, &fakeFetcher{})
	w := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCaptureExtractsAndSyncs(t *testing.T) {
	syncer := &fakeSyncer{}
	r := newTestRouter(t, syncer, &fakeFetcher{})

	w := doJSON(t, r, http.MethodPost, "/capture", gin.H{
		"contexts": []gin.H{{"label": "main", "html": bidPage("L100")}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 1, body["scraped"])

	require.Len(t, syncer.rows, 1)
	row := syncer.rows[0][0]
	assert.Equal(t, "L100", row.LoadID)
	assert.Equal(t, "UNO", row.Team, "default team applies")
	assert.Equal(t, "Boeing", row.Customer, "default customer applies")
	assert.Equal(t, "Won", row.Status)
}

func TestCaptureHonorsOverrides(t *testing.T) {
	syncer := &fakeSyncer{}
	r := newTestRouter(t, syncer, &fakeFetcher{})

	w := doJSON(t, r, http.MethodPost, "/capture", gin.H{
		"team":     "DOS",
		"customer": "Spirit",
		"contexts": []gin.H{{"html": bidPage("L1")}},
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, syncer.rows, 1)
	assert.Equal(t, "DOS", syncer.rows[0][0].Team)
	assert.Equal(t, "Spirit", syncer.rows[0][0].Customer)
}

func TestCaptureNoRowsIsUnprocessable(t *testing.T) {
	syncer := &fakeSyncer{}
	r := newTestRouter(t, syncer, &fakeFetcher{})

	w := doJSON(t, r, http.MethodPost, "/capture", gin.H{
		"contexts": []gin.H{{"html": "<html><body><p>empty</p></body></html>"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, syncer.rows, "nothing may reach the sink")
}

func TestCaptureSinkFailureIsBadGateway(t *testing.T) {
	syncer := &fakeSyncer{err: fmt.Errorf("sink down")}
	r := newTestRouter(t, syncer, &fakeFetcher{})

	w := doJSON(t, r, http.MethodPost, "/capture", gin.H{
		"contexts": []gin.H{{"html": bidPage("L1")}},
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestCaptureRejectsMissingContexts(t *testing.T) {
	r := newTestRouter(t, &fakeSyncer{}, &fakeFetcher{})
	w := doJSON(t, r, http.MethodPost, "/capture", gin.H{"contexts": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecentReturnsRows(t *testing.T) {
	fetcher := &fakeFetcher{rows: []sink.Row{{LoadID: "L1"}, {LoadID: "L2"}}}
	r := newTestRouter(t, &fakeSyncer{}, fetcher)

	w := doJSON(t, r, http.MethodGet, "/recent?team=UNO", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Len(t, body["rows"], 2)
}

func TestRecentRejectsBadLimit(t *testing.T) {
	r := newTestRouter(t, &fakeSyncer{}, &fakeFetcher{})
	w := doJSON(t, r, http.MethodGet, "/recent?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecentFetchFailureIsBadGateway(t *testing.T) {
	r := newTestRouter(t, &fakeSyncer{}, &fakeFetcher{err: fmt.Errorf("sink down")})
	w := doJSON(t, r, http.MethodGet, "/recent", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestSearchFiltersAndStats(t *testing.T) {
	ts := time.Now().Format("1/2/2006 3:04 PM")
	fetcher := &fakeFetcher{rows: []sink.Row{
		{LoadID: "L1", Customer: "Boeing", OriginState: "KS", Status: "Won", Timestamp: ts},
		{LoadID: "L2", Customer: "Boeing", OriginState: "KS", Status: "Lost", Timestamp: ts},
		{LoadID: "L3", Customer: "Spirit", OriginState: "TX", Status: "Won", Timestamp: ts},
	}}
	r := newTestRouter(t, &fakeSyncer{}, fetcher)

	w := doJSON(t, r, http.MethodPost, "/search", gin.H{
		"filters": gin.H{"customer": "Boeing"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decode(t, w)
	assert.EqualValues(t, 2, body["total"])
	winRate := body["winRate"].(map[string]any)
	assert.EqualValues(t, 50, winRate["pct"])

	options := body["options"].(map[string]any)
	assert.ElementsMatch(t, []any{"Boeing", "Spirit"}, options["customers"])
}

func TestSearchSinkFailureIsBadGateway(t *testing.T) {
	r := newTestRouter(t, &fakeSyncer{}, &fakeFetcher{err: fmt.Errorf("sink down")})
	w := doJSON(t, r, http.MethodPost, "/search", gin.H{"filters": gin.H{}})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestOptionsCascade(t *testing.T) {
	fetcher := &fakeFetcher{rows: []sink.Row{
		{LoadID: "L1", Customer: "Boeing", OriginState: "KS", DestState: "WA", Equipment: "Dry Van"},
		{LoadID: "L2", Customer: "Spirit", OriginState: "TX", DestState: "CA", Equipment: "Flatbed"},
	}}
	r := newTestRouter(t, &fakeSyncer{}, fetcher)

	w := doJSON(t, r, http.MethodGet, "/options?origin=KS", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.ElementsMatch(t, []any{"KS", "TX"}, body["origins"])
	assert.Equal(t, []any{"WA"}, body["dests"], "destinations cascade from the origin")
	assert.ElementsMatch(t, []any{"Boeing", "Spirit"}, body["customers"])
}

func TestSaveCleanRowsPushNothing(t *testing.T) {
	syncer := &fakeSyncer{}
	r := newTestRouter(t, syncer, &fakeFetcher{})

	w := doJSON(t, r, http.MethodPost, "/save", gin.H{
		"original": []gin.H{{"LoadID": "L1", "Status": "Pending", "Rate": "1200", "Notes": ""}},
		"edited":   []gin.H{{"status": "Pending", "rate": "1200", "notes": ""}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 0, decode(t, w)["updated"])
	assert.Empty(t, syncer.patches)
}

func TestSavePushesDirtyPatches(t *testing.T) {
	syncer := &fakeSyncer{}
	r := newTestRouter(t, syncer, &fakeFetcher{})

	w := doJSON(t, r, http.MethodPost, "/save", gin.H{
		"original": []gin.H{{"LoadID": "L1", "Team": "UNO", "Customer": "Boeing", "Status": "Pending", "Rate": "1200", "Notes": ""}},
		"edited":   []gin.H{{"status": "Won", "rate": "1200", "notes": ""}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 1, decode(t, w)["updated"])

	require.Len(t, syncer.patches, 1)
	p := syncer.patches[0][0]
	assert.Equal(t, "L1", p.LoadID)
	require.NotNil(t, p.Status)
	assert.Equal(t, "Won", *p.Status)
	assert.Nil(t, p.Rate)
}

func TestSaveSanitizesNotes(t *testing.T) {
	syncer := &fakeSyncer{}
	r := newTestRouter(t, syncer, &fakeFetcher{})

	w := doJSON(t, r, http.MethodPost, "/save", gin.H{
		"original": []gin.H{{"LoadID": "L1", "Status": "Pending", "Rate": "", "Notes": ""}},
		"edited":   []gin.H{{"status": "Pending", "rate": "", "notes": `call back <script>alert(1)</script>`}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	require.Len(t, syncer.patches, 1)
	p := syncer.patches[0][0]
	require.NotNil(t, p.Notes)
	assert.Equal(t, "call back", *p.Notes)
}

func TestSaveSyncFailureIsBadGateway(t *testing.T) {
	syncer := &fakeSyncer{err: fmt.Errorf("sink down")}
	r := newTestRouter(t, syncer, &fakeFetcher{})

	w := doJSON(t, r, http.MethodPost, "/save", gin.H{
		"original": []gin.H{{"LoadID": "L1", "Status": "Pending", "Rate": "", "Notes": ""}},
		"edited":   []gin.H{{"status": "Won", "rate": "", "notes": ""}},
	})
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestRefreshReloadsDataset(t *testing.T) {
	fetcher := &fakeFetcher{rows: []sink.Row{{LoadID: "L1"}}}
	r := newTestRouter(t, &fakeSyncer{}, fetcher)

	w := doJSON(t, r, http.MethodPost, "/refresh", gin.H{"team": "UNO"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, decode(t, w)["rows"])
}
