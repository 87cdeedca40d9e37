package plantnet

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tr33-app/tr33-backend/pkg/apperror"
)

func TestIdentifyParsesTopMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "test-key", r.URL.Query().Get("api-key"))

		require.NoError(t, r.ParseMultipartForm(10<<20))
		assert.Equal(t, "auto", r.FormValue("organs"))

		file, header, err := r.FormFile("images")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "tree.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [
				{
					"score": 0.92,
					"species": {
						"scientificNameWithoutAuthor": "Quercus ilex",
						"commonNames": ["Holm Oak", "Evergreen Oak"],
						"family": {"scientificNameWithoutAuthor": "Fagaceae"}
					}
				},
				{
					"score": 0.05,
					"species": {
						"scientificNameWithoutAuthor": "Quercus suber",
						"commonNames": ["Cork Oak"],
						"family": {"scientificNameWithoutAuthor": "Fagaceae"}
					}
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	match, err := client.Identify(context.Background(), bytes.NewReader([]byte("jpeg-bytes")), "tree.jpg")
	require.NoError(t, err)

	assert.Equal(t, "Holm Oak", match.CommonName)
	assert.Equal(t, "Quercus ilex", match.ScientificName)
	assert.Equal(t, "Fagaceae", match.Family)
	assert.InDelta(t, 0.92, match.Score, 1e-9)
}

func TestIdentifyFallsBackToScientificName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [
				{
					"score": 0.4,
					"species": {
						"scientificNameWithoutAuthor": "Quercus ilex",
						"commonNames": [],
						"family": {"scientificNameWithoutAuthor": "Fagaceae"}
					}
				}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	match, err := client.Identify(context.Background(), bytes.NewReader([]byte("jpeg")), "tree.jpg")
	require.NoError(t, err)
	assert.Equal(t, "Quercus ilex", match.CommonName)
}

func TestIdentifyZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	_, err := client.Identify(context.Background(), bytes.NewReader([]byte("jpeg")), "tree.jpg")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestIdentifyNotFoundStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	_, err := client.Identify(context.Background(), bytes.NewReader([]byte("jpeg")), "tree.jpg")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestIdentifyServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")

	_, err := client.Identify(context.Background(), bytes.NewReader([]byte("jpeg")), "tree.jpg")
	assert.ErrorIs(t, err, apperror.ErrTransport)
}

func TestIdentifyUnreachableService(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-key")

	_, err := client.Identify(context.Background(), bytes.NewReader([]byte("jpeg")), "tree.jpg")
	assert.ErrorIs(t, err, apperror.ErrTransport)
}
