package property_api_client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"property-map/internal/contextkeys"
	"property-map/internal/core/domain"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method  string
	path    string
	rawPath string
	query   string
	headers http.Header
	body    []byte
}

// newTestServer отвечает заданным статусом и телом и запоминает запросы.
func newTestServer(t *testing.T, status int, body string) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var requests []recordedRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		requests = append(requests, recordedRequest{
			method:  r.Method,
			path:    r.URL.Path,
			rawPath: r.URL.EscapedPath(),
			query:   r.URL.RawQuery,
			headers: r.Header.Clone(),
			body:    b,
		})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest{}, requests...)
	}
}

func TestClientListShapes(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantShape domain.ListingShape
		wantIDs   []domain.PropertyID
		wantTotal *int64
	}{
		{
			name:      "bare array",
			body:      `[{"id":"a","name":"A"},{"id":"b","name":"B"}]`,
			wantShape: domain.ShapeList,
			wantIDs:   []domain.PropertyID{"a", "b"},
		},
		{
			name:      "items envelope with total",
			body:      `{"items":[{"id":1},{"id":2}],"total":25}`,
			wantShape: domain.ShapeItems,
			wantIDs:   []domain.PropertyID{"1", "2"},
			wantTotal: func() *int64 { v := int64(25); return &v }(),
		},
		{
			name:      "bare array with numbers as strings",
			body:      `[{"id":1,"price":"100000.00","bedrooms":"3"},{"id":2,"price":5,"area":null}]`,
			wantShape: domain.ShapeList,
			wantIDs:   []domain.PropertyID{"1", "2"},
		},
		{
			name:      "items envelope with numbers as strings",
			body:      `{"items":[{"id":1,"price":"100000.00"},{"id":2,"price":5}]}`,
			wantShape: domain.ShapeItems,
			wantIDs:   []domain.PropertyID{"1", "2"},
		},
		{
			name:      "items envelope with zero total",
			body:      `{"total":0,"items":[]}`,
			wantShape: domain.ShapeItems,
			wantIDs:   []domain.PropertyID{},
		},
		{
			name:      "keyed object keeps key order",
			body:      `{"z":{"id":"z1","name":"Z"},"meta":"x","a":{"id":7},"count":3,"nested":{"name":"no id"}}`,
			wantShape: domain.ShapeKeyed,
			wantIDs:   []domain.PropertyID{"z1", "7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newTestServer(t, http.StatusOK, tt.body)
			client := NewClient(srv.URL, 0)

			resp, err := client.List(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantShape, resp.Shape)
			got := make([]domain.PropertyID, len(resp.Items))
			for i, p := range resp.Items {
				got[i] = p.ID
			}
			assert.Equal(t, tt.wantIDs, got)
			assert.Equal(t, tt.wantTotal, resp.Total)
		})
	}
}

func TestClientListDecodesFields(t *testing.T) {
	body := `[{"id":42,"name":"Casa","type":"house","price":1500.5,"area":80,"bedrooms":3.0,"bathrooms":2,
		"parkingSpaces":1,"address":"Calle 1","description":"d","latitude":4.6,"longitude":-74.1,
		"mainImageUrl":"https://img/1.jpg"}]`
	srv, _ := newTestServer(t, http.StatusOK, body)

	resp, err := NewClient(srv.URL, 0).List(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	p := resp.Items[0]
	assert.Equal(t, domain.PropertyID("42"), p.ID)
	assert.Equal(t, domain.PropertyTypeHouse, p.Type)
	assert.Equal(t, 1500.5, p.Price)
	assert.Equal(t, 3, p.Bedrooms)
	assert.Equal(t, 1, p.ParkingSpaces)
	assert.Equal(t, -74.1, p.Longitude)
	require.NotNil(t, p.ImageURLs)
	assert.Empty(t, p.ImageURLs)
}

func TestClientListReadsNumericStrings(t *testing.T) {
	body := `[{"id":1,"price":"100000.00","area":" 80.5 ","bedrooms":"3","bathrooms":"n/a","parkingSpaces":null,
		"latitude":"4.6","longitude":-74.1}]`
	srv, _ := newTestServer(t, http.StatusOK, body)

	resp, err := NewClient(srv.URL, 0).List(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	p := resp.Items[0]
	assert.Equal(t, 100000.0, p.Price)
	assert.Equal(t, 80.5, p.Area)
	assert.Equal(t, 3, p.Bedrooms)
	assert.Equal(t, 0, p.Bathrooms)
	assert.Equal(t, 0, p.ParkingSpaces)
	assert.Equal(t, 4.6, p.Latitude)
	assert.Equal(t, -74.1, p.Longitude)
}

func TestClientKeyedSkipsUndecodableRecords(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `{"a":{"id":"1","imageUrls":"not a list"},"b":{"id":"2"}}`)

	resp, err := NewClient(srv.URL, 0).List(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Items, 1)
	assert.Equal(t, domain.PropertyID("2"), resp.Items[0].ID)
}

func TestClientUnexpectedBodyIsNetworkFailure(t *testing.T) {
	for _, body := range []string{``, `"text"`, `{"items":"nope"}`, `[{"id":true}]`} {
		srv, _ := newTestServer(t, http.StatusOK, body)

		_, err := NewClient(srv.URL, 0).List(context.Background())

		assert.ErrorIs(t, err, domain.ErrNetworkFailure, body)
	}
}

func TestClientNonSuccessStatus(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusInternalServerError, `{"error":"boom"}`)
	client := NewClient(srv.URL, 0)
	ctx := context.Background()

	_, err := client.List(ctx)
	require.ErrorIs(t, err, domain.ErrNetworkFailure)
	assert.Contains(t, err.Error(), "500")

	_, err = client.Create(ctx, domain.PropertyInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrNetworkFailure)

	assert.ErrorIs(t, client.Delete(ctx, "1"), domain.ErrNetworkFailure)
}

func TestClientTransportFailure(t *testing.T) {
	srv, _ := newTestServer(t, http.StatusOK, `[]`)
	srv.Close()

	_, err := NewClient(srv.URL, 0).List(context.Background())

	assert.ErrorIs(t, err, domain.ErrNetworkFailure)
}

func TestClientSearchEncodesQuery(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `[]`)
	houses := domain.PropertyType("casa de campo")
	minPrice := 100000.0
	bedrooms := 2.0

	_, err := NewClient(srv.URL+"/", 0).Search(context.Background(), domain.FilterCriteria{
		Type:     &houses,
		MinPrice: &minPrice,
		Bedrooms: &bedrooms,
	})
	require.NoError(t, err)

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodGet, got[0].method)
	assert.Equal(t, "/properties/search", got[0].path)
	assert.Equal(t, "bedrooms=2&minPrice=100000&type=casa+de+campo", got[0].query)
}

func TestClientSearchWithoutCriteria(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, `[]`)

	_, err := NewClient(srv.URL, 0).Search(context.Background(), domain.FilterCriteria{})
	require.NoError(t, err)

	assert.Empty(t, requests()[0].query)
}

func TestClientCreateSendsBodyAndHeaders(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusCreated, `{"id":"srv-1","name":"Casa X","price":100000}`)
	ctx := contextkeys.ContextWithTraceID(context.Background(), "trace-123")

	created, err := NewClient(srv.URL, 0).Create(ctx, domain.PropertyInput{
		Name:      "Casa X",
		Type:      "casa",
		Price:     100000,
		Latitude:  4.6,
		Longitude: -74.1,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PropertyID("srv-1"), created.ID)

	req := requests()[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/properties", req.path)
	assert.Equal(t, "trace-123", req.headers.Get("X-Trace-ID"))
	assert.Equal(t, "application/json", req.headers.Get("Content-Type"))

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(req.body, &sent))
	assert.Equal(t, "Casa X", sent["name"])
	assert.Equal(t, 100000.0, sent["price"])
	assert.Equal(t, 4.6, sent["latitude"])
	assert.Equal(t, []interface{}{}, sent["imageUrls"])
	assert.Contains(t, sent, "parkingSpaces")
	assert.Contains(t, sent, "mainImageUrl")
}

func TestClientUpdateAndDeleteEscapeID(t *testing.T) {
	srv, requests := newTestServer(t, http.StatusOK, ``)
	client := NewClient(srv.URL, 0)
	ctx := context.Background()

	updated, err := client.Update(ctx, "a/b", domain.PropertyInput{Name: "x"})
	require.NoError(t, err)
	assert.Nil(t, updated, "empty PUT body")

	require.NoError(t, client.Delete(ctx, "a/b"))

	got := requests()
	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPut, got[0].method)
	assert.Equal(t, "/properties/a%2Fb", got[0].rawPath)
	assert.Equal(t, http.MethodDelete, got[1].method)
	assert.Empty(t, got[1].body)
	assert.Empty(t, got[1].headers.Get("X-Trace-ID"))
}
