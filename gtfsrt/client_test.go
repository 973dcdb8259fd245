package gtfsrt

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/theoremus-urban-solutions/gtfsrt-trip-finder/config"
)

type recordingObserver struct {
	mu      sync.Mutex
	results []string
}

func (o *recordingObserver) ObserveFeedFetch(result string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.results = append(o.results, result)
}

func TestClient_TripUpdates_JSONWithAPIKey(t *testing.T) {
	body, err := os.ReadFile("testdata/tripupdates.json")
	require.NoError(t, err)

	gotKey := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey <- r.Header.Get("x-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	obs := &recordingObserver{}
	c := NewClient(config.GTFSRTConfig{TripUpdatesURL: srv.URL, APIKey: "secret", TimeoutMS: 2000}, WithObserver(obs))

	feed := c.TripUpdates(context.Background())
	require.True(t, feed.Available(), "feed error: %v", feed.Err)
	assertSample(t, feed.Updates, feed.Timestamp)
	assert.Equal(t, "secret", <-gotKey)
	assert.Equal(t, []string{ResultOK}, obs.results)
}

func TestClient_TripUpdates_CustomHeaderProtobuf(t *testing.T) {
	body, err := proto.Marshal(sampleMessage())
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/x-protobuf")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	c := NewClient(config.GTFSRTConfig{TripUpdatesURL: srv.URL, APIKeyHeader: "Ocp-Apim-Subscription-Key", APIKey: "k"})
	feed := c.TripUpdates(context.Background())
	require.True(t, feed.Available(), "feed error: %v", feed.Err)
	assertSample(t, feed.Updates, feed.Timestamp)
}

func TestClient_TripUpdates_Unavailable(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer slow.Close()

	denied := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer denied.Close()

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"entity": [`))
	}))
	defer garbage.Close()

	tests := []struct {
		name   string
		cfg    config.GTFSRTConfig
		result string
	}{
		{"timeout", config.GTFSRTConfig{TripUpdatesURL: slow.URL, TimeoutMS: 50}, ResultFetchError},
		{"http status", config.GTFSRTConfig{TripUpdatesURL: denied.URL}, ResultFetchError},
		{"undecodable", config.GTFSRTConfig{TripUpdatesURL: garbage.URL}, ResultDecodeError},
		{"missing file", config.GTFSRTConfig{TripUpdatesURL: "testdata/nope.pb"}, ResultFetchError},
		{"no source", config.GTFSRTConfig{}, ResultFetchError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obs := &recordingObserver{}
			feed := NewClient(tt.cfg, WithObserver(obs)).TripUpdates(context.Background())
			assert.False(t, feed.Available())
			assert.Error(t, feed.Err)
			assert.Empty(t, feed.Updates)
			assert.Equal(t, []string{tt.result}, obs.results)
		})
	}
}

func TestClient_Fetch_LocalFile(t *testing.T) {
	c := NewClient(config.GTFSRTConfig{TripUpdatesURL: "testdata/tripupdates.json"})
	assert.Equal(t, "testdata/tripupdates.json", c.Source())

	feed := c.TripUpdates(context.Background())
	require.True(t, feed.Available())
	assertSample(t, feed.Updates, feed.Timestamp)
}

func TestClient_Fetch_NoSource(t *testing.T) {
	_, err := NewClient(config.GTFSRTConfig{}).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNoSource)
}
