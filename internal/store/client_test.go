package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRecordsSendsVendorConventions(t *testing.T) {
	var gotPath, gotAuth, gotWorkspace string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotWorkspace = r.Header.Get("Account-Id")

		// Listings are POST requests even though they only read.
		assert.Equal(t, http.MethodPost, r.Method)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total":1,"items":[{"id":"rec-1","title":"Ladder Safety"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", "wksp42")

	records, err := client.ListRecords(context.Background(), CollectionModules)
	require.NoError(t, err)

	require.Len(t, records, 1)
	assert.Equal(t, "rec-1", stringValue(records[0], "id"))
	assert.Equal(t, "/"+tableIDs[CollectionModules]+"/records/list/", gotPath)
	assert.Equal(t, "Token secret", gotAuth)
	assert.Equal(t, "wksp42", gotWorkspace)
}

func TestGetRecordReturnsAPIErrorOnNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Not found."}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", "wksp42")

	_, err := client.GetRecord(context.Background(), CollectionModules, "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestCreateRecordRoundTripsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var fields Record
		require.NoError(t, json.NewDecoder(r.Body).Decode(&fields))

		fields["id"] = "rec-9"
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(fields))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "secret", "wksp42")

	rec, err := client.CreateRecord(context.Background(), CollectionWorkers, Record{fieldTitle: "Jan Kowalski"})
	require.NoError(t, err)

	assert.Equal(t, "rec-9", stringValue(rec, "id"))
	assert.Equal(t, "Jan Kowalski", stringValue(rec, fieldTitle))
}

func TestUnknownCollectionIsRejected(t *testing.T) {
	client := NewClient("http://localhost", "secret", "wksp42")

	_, err := client.ListRecords(context.Background(), "spreadsheets")
	assert.Error(t, err)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&APIError{StatusCode: http.StatusInternalServerError}))
	assert.True(t, IsTransient(&APIError{StatusCode: http.StatusBadGateway}))
	assert.True(t, IsTransient(errors.New("connection refused")))

	// Definitive vendor answers are not transient.
	assert.False(t, IsTransient(&APIError{StatusCode: http.StatusNotFound}))
	assert.False(t, IsTransient(&APIError{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsTransient(nil))
}
