package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotJSON = `{"categoryCount":1,"tagCount":0,
	"articleGroupInfo":[{"articleCount":2,"totalFavorites":3,"totalViews":15,
		"category":{"id":"00000000-0000-0000-0000-000000000001","name":"Tech"}}],
	"tagGroupInfo":[]}`

// scripted answers each call with the next status in codes, repeating the
// last one. 200 answers carry snapshotJSON.
func scripted(t *testing.T, codes ...int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dashboard/stats", r.URL.Path)
		assert.Empty(t, r.URL.RawQuery)

		i := int(calls.Add(1)) - 1
		code := codes[min(i, len(codes)-1)]
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		if code == http.StatusOK {
			w.Write([]byte(snapshotJSON))
			return
		}
		w.Write([]byte(`{"error":"nope"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func fastClient(url string) *Client {
	return New(url+"/", WithRetries(3, time.Millisecond))
}

func TestDashboardStats(t *testing.T) {
	srv, calls := scripted(t, http.StatusOK)

	snap, err := fastClient(srv.URL).DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.CategoryCount)
	require.Len(t, snap.ArticleGroupInfo, 1)
	assert.Equal(t, "Tech", snap.ArticleGroupInfo[0].Category.Name)
	assert.Equal(t, int64(15), snap.ArticleGroupInfo[0].TotalViews)
	assert.NotNil(t, snap.TagGroupInfo)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDashboardStatsRetriesServerErrors(t *testing.T) {
	srv, calls := scripted(t, http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusOK)

	snap, err := fastClient(srv.URL).DashboardStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.CategoryCount)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDashboardStatsGivesUp(t *testing.T) {
	srv, calls := scripted(t, http.StatusServiceUnavailable)

	snap, err := fastClient(srv.URL).DashboardStats(context.Background())
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, ErrServer)
	assert.NotErrorIs(t, err, ErrRequest)
	assert.Equal(t, int32(4), calls.Load(), "one call plus three retries")

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.Code)
	assert.Equal(t, "nope", se.Message)
}

func TestDashboardStatsDoesNotRetryClientErrors(t *testing.T) {
	srv, calls := scripted(t, http.StatusBadRequest, http.StatusOK)

	_, err := fastClient(srv.URL).DashboardStats(context.Background())
	assert.ErrorIs(t, err, ErrRequest)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDashboardStatsUndecodable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("not json"))
	}))
	t.Cleanup(srv.Close)

	_, err := fastClient(srv.URL).DashboardStats(context.Background())
	assert.ErrorIs(t, err, ErrServer)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDashboardStatsTransportError(t *testing.T) {
	srv, _ := scripted(t, http.StatusOK)
	url := srv.URL
	srv.Close()

	_, err := New(url, WithRetries(1, time.Millisecond)).DashboardStats(context.Background())
	assert.Error(t, err)
}

func TestDashboardStatsCanceled(t *testing.T) {
	srv, _ := scripted(t, http.StatusServiceUnavailable)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(srv.URL, WithRetries(5, time.Hour)).DashboardStats(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatusErrorMessage(t *testing.T) {
	assert.Equal(t, "http 503: down", (&StatusError{Code: 503, Message: "down"}).Error())
	assert.Equal(t, "http 404", (&StatusError{Code: 404}).Error())
}
