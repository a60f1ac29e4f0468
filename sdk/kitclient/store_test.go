package kitclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKitServer is a minimal in-memory rendition of the kit API, just
// enough surface for the store's reconciliation paths.
type fakeKitServer struct {
	mu           sync.Mutex
	nextID       int
	kits         map[string]map[string]int // kitID -> productID -> quantity
	confirmed    map[string]bool
	frequencies  map[string]int64
	failProducts map[string]bool
	failCreate   bool
	requests     int
}

func newFakeKitServer() *fakeKitServer {
	return &fakeKitServer{
		nextID:       100,
		kits:         map[string]map[string]int{},
		confirmed:    map[string]bool{},
		frequencies:  map[string]int64{},
		failProducts: map[string]bool{},
	}
}

func (f *fakeKitServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++

		path := strings.TrimPrefix(r.URL.Path, "/kits")
		switch {
		case path == "" && r.Method == http.MethodPost:
			if f.failCreate {
				writeError(w, http.StatusInternalServerError, "internal_error")
				return
			}
			f.nextID++
			id := itoa(f.nextID)
			f.kits[id] = map[string]int{}
			writeData(w, http.StatusCreated, map[string]any{"id": id, "status": "draft"})

		case strings.HasSuffix(path, "/items") && r.Method == http.MethodPost:
			kitID := strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/items")
			items, ok := f.kits[kitID]
			if !ok {
				writeError(w, http.StatusNotFound, "not_found")
				return
			}
			var body struct {
				ProductID string `json:"product_id"`
				Quantity  int    `json:"quantity"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if f.failProducts[body.ProductID] {
				writeError(w, http.StatusInternalServerError, "internal_error")
				return
			}
			items[body.ProductID] = body.Quantity
			writeData(w, http.StatusCreated, map[string]any{"product_id": body.ProductID, "quantity": body.Quantity})

		case strings.HasSuffix(path, "/frequency") && r.Method == http.MethodPatch:
			kitID := strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/frequency")
			if _, ok := f.kits[kitID]; !ok {
				writeError(w, http.StatusNotFound, "not_found")
				return
			}
			var body struct {
				FrequencyID int64 `json:"frequency_id"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			f.frequencies[kitID] = body.FrequencyID
			writeData(w, http.StatusOK, map[string]any{"id": kitID})

		case strings.HasSuffix(path, "/confirm") && r.Method == http.MethodPost:
			kitID := strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/confirm")
			if _, ok := f.kits[kitID]; !ok {
				writeError(w, http.StatusNotFound, "not_found")
				return
			}
			f.confirmed[kitID] = true
			writeData(w, http.StatusOK, map[string]any{"id": kitID, "status": "confirmed"})

		case r.Method == http.MethodGet:
			kitID := strings.TrimPrefix(path, "/")
			items, ok := f.kits[kitID]
			if !ok {
				writeError(w, http.StatusNotFound, "not_found")
				return
			}
			summaryItems := make([]map[string]any, 0, len(items))
			for productID, quantity := range items {
				summaryItems = append(summaryItems, map[string]any{
					"product_id": productID,
					"quantity":   quantity,
				})
			}
			writeData(w, http.StatusOK, map[string]any{
				"kit":   map[string]any{"id": kitID, "status": "draft"},
				"items": summaryItems,
			})

		default:
			writeError(w, http.StatusNotFound, "not_found")
		}
	})
	return mux
}

func itoa(n int) string {
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data})
}

func writeError(w http.ResponseWriter, status int, errType string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"type": errType, "message": errType},
	})
}

func TestLocalBufferingBeforeServerKitExists(t *testing.T) {
	fake := newFakeKitServer()
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	store := NewStore(New(ts.URL))
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "p1", 1))
	require.NoError(t, store.AddItem(ctx, "p2", 2))
	require.NoError(t, store.UpdateQuantity(ctx, "p1", 3))
	require.NoError(t, store.RemoveItem(ctx, "p2"))

	assert.True(t, strings.HasPrefix(store.KitID(), "-"))
	assert.Equal(t, []LocalItem{{ProductID: "p1", Quantity: 3}}, store.Items())

	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Zero(t, fake.requests, "no server traffic while the kit is a local placeholder")
}

func TestConfirmReplaysBufferedItems(t *testing.T) {
	fake := newFakeKitServer()
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	store := NewStore(New(ts.URL))
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "p1", 1))
	require.NoError(t, store.AddItem(ctx, "p2", 2))
	require.NoError(t, store.SetFrequency(ctx, 3))

	result, err := store.Confirm(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.ReplayErrors)
	assert.Equal(t, "confirmed", result.Kit.Status)

	fake.mu.Lock()
	items := fake.kits[result.Kit.ID]
	frequencyID := fake.frequencies[result.Kit.ID]
	confirmed := fake.confirmed[result.Kit.ID]
	fake.mu.Unlock()

	assert.Equal(t, map[string]int{"p1": 1, "p2": 2}, items)
	assert.Equal(t, int64(3), frequencyID)
	assert.True(t, confirmed)

	// Local state cleared for the next kit.
	assert.Empty(t, store.Items())
	assert.True(t, strings.HasPrefix(store.KitID(), "-"))
}

func TestReplayFailureDoesNotBlockOtherItems(t *testing.T) {
	fake := newFakeKitServer()
	fake.failProducts["bad"] = true
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	store := NewStore(New(ts.URL))
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "bad", 1))
	require.NoError(t, store.AddItem(ctx, "good", 2))

	result, err := store.Confirm(ctx)
	require.NoError(t, err)
	require.Len(t, result.ReplayErrors, 1)
	assert.Equal(t, "confirmed", result.Kit.Status)

	fake.mu.Lock()
	items := fake.kits[result.Kit.ID]
	fake.mu.Unlock()

	assert.Equal(t, map[string]int{"good": 2}, items)
}

func TestServerBackedMutationSyncs(t *testing.T) {
	fake := newFakeKitServer()
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	client := New(ts.URL)
	created, err := client.CreateKit(context.Background())
	require.NoError(t, err)

	store := NewStore(client)
	store.Bind(created.ID)
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "p1", 2))

	fake.mu.Lock()
	items := fake.kits[created.ID]
	fake.mu.Unlock()
	assert.Equal(t, map[string]int{"p1": 2}, items)
	assert.Equal(t, []LocalItem{{ProductID: "p1", Quantity: 2}}, store.Items())
}

func TestExpiredServerKitKeepsBufferedItems(t *testing.T) {
	fake := newFakeKitServer()
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	store := NewStore(New(ts.URL))
	store.Bind("424242") // a kit the server has never heard of
	ctx := context.Background()

	require.NoError(t, store.AddItem(ctx, "p1", 1))

	// The stale binding is replaced by a brand-new server kit right
	// away; the buffered item stays local until Confirm replays it.
	freshID := store.KitID()
	assert.False(t, strings.HasPrefix(freshID, "-"))
	assert.NotEqual(t, "424242", freshID)
	assert.Equal(t, []LocalItem{{ProductID: "p1", Quantity: 1}}, store.Items())

	fake.mu.Lock()
	assert.Empty(t, fake.kits[freshID])
	fake.mu.Unlock()

	result, err := store.Confirm(ctx)
	require.NoError(t, err)
	assert.Equal(t, freshID, result.Kit.ID)

	fake.mu.Lock()
	items := fake.kits[result.Kit.ID]
	fake.mu.Unlock()
	assert.Equal(t, map[string]int{"p1": 1}, items)
}

func TestRebindFallsBackToPlaceholderWhenCreateFails(t *testing.T) {
	fake := newFakeKitServer()
	fake.failCreate = true
	ts := httptest.NewServer(fake.handler())
	defer ts.Close()

	store := NewStore(New(ts.URL))
	store.Bind("424242")
	ctx := context.Background()

	// The stale binding 404s and the replacement kit cannot be created:
	// the store falls back to a local placeholder and the item survives.
	require.NoError(t, store.AddItem(ctx, "p1", 1))

	assert.True(t, strings.HasPrefix(store.KitID(), "-"))
	assert.Equal(t, []LocalItem{{ProductID: "p1", Quantity: 1}}, store.Items())
}
