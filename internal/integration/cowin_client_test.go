package integration

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manasakl/cowin-notify/internal/entities"
)

const twoCentersJSON = `{
  "centers": [
    {
      "center_id": 1, "name": "Apollo Clinic", "state_name": "Karnataka", "district_name": "BBMP",
      "block_name": "East", "pincode": 560037, "fee_type": "Paid",
      "sessions": [
        {"date": "02-05-2021", "available_capacity": 5, "min_age_limit": 18},
        {"date": "03-05-2021", "available_capacity": 0, "min_age_limit": 45}
      ]
    },
    {
      "center_id": 2, "name": "PHC Marathahalli", "state_name": "Karnataka", "district_name": "BBMP",
      "block_name": "East", "pincode": "560037", "fee_type": "Free",
      "sessions": [
        {"date": "02-05-2021", "available_capacity": 12, "min_age_limit": 18},
        {"date": "not-a-date", "available_capacity": 3, "min_age_limit": 18},
        {"date": "04-05-2021", "min_age_limit": 18}
      ]
    }
  ]
}`

// mockJSONServer creates a test server that serves a fixed JSON response
func mockJSONServer(status int, body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
}

func TestFetchDateExplodesSessions(t *testing.T) {
	var gotQuery, gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		io.WriteString(w, twoCentersJSON)
	}))
	defer server.Close()

	client := NewCowinClient(server.URL, "test-agent", nil)
	date := time.Date(2021, time.May, 2, 0, 0, 0, 0, time.UTC)

	res := client.FetchDate(context.Background(), "560037", date)

	require.Equal(t, entities.DateRows, res.Status)
	require.NoError(t, res.Err)
	assert.Equal(t, "date=02-05-2021&pincode=560037", gotQuery)
	assert.Equal(t, "test-agent", gotUA)

	// one invalid date and one missing capacity are dropped
	require.Len(t, res.Records, 3)
	first := res.Records[0]
	assert.Equal(t, "Apollo Clinic", first.Name)
	assert.Equal(t, "560037", first.Pincode)
	assert.Equal(t, 5, first.AvailableCapacity)
	assert.Equal(t, 18, first.MinAgeLimit)
	assert.Equal(t, "Paid", first.FeeType)
	assert.Equal(t, date, first.Date)

	assert.Equal(t, 45, res.Records[1].MinAgeLimit)
	assert.Equal(t, "560037", res.Records[2].Pincode)
	assert.Equal(t, "Free", res.Records[2].FeeType)
}

func TestFetchDateOutcomes(t *testing.T) {
	date := time.Date(2021, time.May, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status int
		body   string
		want   entities.DateStatus
	}{
		{"missing centers field", http.StatusOK, `{"sessions": []}`, entities.DateNoData},
		{"null centers", http.StatusOK, `{"centers": null}`, entities.DateNoData},
		{"empty centers", http.StatusOK, `{"centers": []}`, entities.DateNoData},
		{"center without sessions", http.StatusOK, `{"centers": [{"name": "X", "sessions": []}]}`, entities.DateNoData},
		{"geo fenced", http.StatusForbidden, `forbidden`, entities.DateError},
		{"bad request", http.StatusBadRequest, `{"errorCode":"APPOIN0018","error":"Invalid Pincode"}`, entities.DateError},
		{"malformed body", http.StatusOK, `{"centers": [`, entities.DateError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockJSONServer(tt.status, tt.body)
			defer server.Close()

			res := NewCowinClient(server.URL, "", nil).FetchDate(context.Background(), "560037", date)
			assert.Equal(t, tt.want, res.Status)
			assert.Empty(t, res.Records)
			if tt.want == entities.DateError {
				assert.Error(t, res.Err)
			} else {
				assert.NoError(t, res.Err)
			}
		})
	}
}

func TestFetchDateTransportError(t *testing.T) {
	server := mockJSONServer(http.StatusOK, `{}`)
	server.Close()

	res := NewCowinClient(server.URL, "", nil).FetchDate(context.Background(), "560037", time.Now())
	assert.Equal(t, entities.DateError, res.Status)
	assert.Error(t, res.Err)
}

func TestFetchWindowQueriesEachDateInOrder(t *testing.T) {
	var dates []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := r.URL.Query().Get("date")
		dates = append(dates, d)
		if d == "02-01-2022" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, `{"centers": []}`)
	}))
	defer server.Close()

	start := time.Date(2021, time.December, 31, 17, 30, 0, 0, time.Local)
	report := NewCowinClient(server.URL, "", nil).FetchWindow(context.Background(), entities.Query{Days: 3, Pincode: "560037"}, start)

	assert.Equal(t, []string{"31-12-2021", "01-01-2022", "02-01-2022"}, dates)
	require.Len(t, report.Results, 3)
	assert.Equal(t, entities.FetchCounts{NoData: 2, Errors: 1}, report.Counts())
	assert.Empty(t, report.Records())
}

func TestFetchWindowZeroDays(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	report := NewCowinClient(server.URL, "", nil).FetchWindow(context.Background(), entities.Query{Days: 0, Pincode: "560037"}, time.Now())
	assert.False(t, called)
	assert.Empty(t, report.Results)
}

func TestFetchWindowCancelled(t *testing.T) {
	server := mockJSONServer(http.StatusOK, twoCentersJSON)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := NewCowinClient(server.URL, "", nil).FetchWindow(ctx, entities.Query{Days: 2, Pincode: "560037"}, time.Now())
	assert.Equal(t, 2, report.Counts().Errors)
}

func TestWindowDates(t *testing.T) {
	start := time.Date(2024, time.February, 28, 23, 59, 0, 0, time.UTC)
	dates := WindowDates(start, 3)
	require.Len(t, dates, 3)
	assert.Equal(t, "28-02-2024", dates[0].Format(entities.DateLayout))
	assert.Equal(t, "29-02-2024", dates[1].Format(entities.DateLayout))
	assert.Equal(t, "01-03-2024", dates[2].Format(entities.DateLayout))
	assert.Nil(t, WindowDates(start, 0))
}

// TestFetchLive hits the public service; it is geo-fenced so failures only skip
func TestFetchLive(t *testing.T) {
	if os.Getenv("CI") == "true" || os.Getenv("COWIN_LIVE") == "" {
		t.Skip("Skipping live availability test (set COWIN_LIVE=1 to run)")
	}

	client := NewCowinClient("", "Mozilla/5.0", nil)
	res := client.FetchDate(context.Background(), "560037", time.Now())
	if res.Status == entities.DateError {
		t.Logf("Warning: live query failed: %v", res.Err)
		t.Skip("Skipping test due to network or geo-fence issues - this is not a code bug")
	}
	t.Logf("Live query returned status=%s rows=%d", res.Status, len(res.Records))
}
