package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	c "github.com/getdepot/depot/api/storage/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve starts a stub storage service and returns a client bound to it.
func serve(t *testing.T, handler http.HandlerFunc) *c.Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	client, err := c.NewClient(ts.URL, "test-key")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestNewClient_RejectsSchemelessTarget(t *testing.T) {
	_, err := c.NewClient("127.0.0.1:5000", "key")
	require.Error(t, err)
}

func TestClient_Auth(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		fmt.Fprint(w, "[]")
	})
	_, err := client.ListBuckets(context.Background())
	require.NoError(t, err)
}

func TestClient_ListBuckets(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/bucket", r.URL.Path)
		fmt.Fprint(w, `[{"id":"avatars","name":"avatars","public":true},{"id":"docs","name":"docs","public":false}]`)
	})
	bucks, err := client.ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, bucks, 2)
	assert.True(t, bucks[0].Public)
	assert.Equal(t, "docs", bucks[1].Name)
}

func TestClient_CreateBucket_DefaultsPrivate(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/bucket", r.URL.Path)
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "avatars", req["id"])
		assert.Equal(t, false, req["public"])
		fmt.Fprint(w, `{"id":"avatars","name":"avatars","public":false}`)
	})
	buck, err := client.CreateBucket(context.Background(), "avatars")
	require.NoError(t, err)
	assert.False(t, buck.Public)
}

func TestClient_CreateBucket_Options(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req["public"])
		assert.Equal(t, float64(1048576), req["file_size_limit"])
		fmt.Fprint(w, `{"id":"avatars","name":"avatars","public":true,"file_size_limit":1048576}`)
	})
	buck, err := client.CreateBucket(context.Background(), "avatars",
		c.WithPublic(true), c.WithFileSizeLimit(1048576), c.WithAllowedMimeTypes("image/png"))
	require.NoError(t, err)
	assert.True(t, buck.Public)
}

func TestClient_UpdateBucket(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/bucket/docs", r.URL.Path)
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req["public"])
		fmt.Fprint(w, `{"id":"docs","name":"docs","public":true}`)
	})
	buck, err := client.UpdateBucket(context.Background(), "docs", true)
	require.NoError(t, err)
	assert.True(t, buck.Public)
}

func TestClient_EmptyAndDeleteBucket(t *testing.T) {
	var calls []string
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		fmt.Fprint(w, `{}`)
	})
	require.NoError(t, client.EmptyBucket(context.Background(), "docs"))
	require.NoError(t, client.DeleteBucket(context.Background(), "docs"))
	assert.Equal(t, []string{"POST /bucket/docs/empty", "DELETE /bucket/docs"}, calls)
}

func TestClient_UploadObject(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/object/avatars/photos/me.jpg", r.URL.Path)
		assert.Equal(t, "image/jpeg", r.Header.Get("Content-Type"))
		assert.Equal(t, "true", r.Header.Get("X-Upsert"))
		body, err := ioutil.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(body))
		fmt.Fprint(w, `{"Key":"avatars/photos/me.jpg"}`)
	})
	obj, err := client.UploadObject(context.Background(), "avatars", "photos/me.jpg",
		strings.NewReader("hello"), 5, c.WithUpsert(true))
	require.NoError(t, err)
	assert.Equal(t, int64(5), obj.Size)
	assert.Equal(t, "image/jpeg", obj.ContentType)
}

func TestClient_UpdateObject_UsesPut(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		fmt.Fprint(w, `{}`)
	})
	_, err := client.UpdateObject(context.Background(), "avatars", "a.txt",
		strings.NewReader("x"), 1)
	require.NoError(t, err)
}

func TestClient_DownloadObject(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/object/avatars/a.txt", r.URL.Path)
		fmt.Fprint(w, "contents")
	})
	r, size, err := client.DownloadObject(context.Background(), "avatars", "a.txt")
	require.NoError(t, err)
	defer func() { _ = r.Close() }()
	body, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "contents", string(body))
	assert.Equal(t, int64(8), size)
}

func TestClient_ListObjects_Defaults(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/object/list/avatars", r.URL.Path)
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(100), req["limit"])
		assert.Equal(t, "", req["prefix"])
		fmt.Fprint(w, `[]`)
	})
	_, err := client.ListObjects(context.Background(), "avatars")
	require.NoError(t, err)
}

func TestClient_ListObjects_Options(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "photos", req["prefix"])
		assert.Equal(t, "me", req["search"])
		assert.Equal(t, float64(10), req["limit"])
		fmt.Fprint(w, `[{"name":"photos/me.jpg","size":5}]`)
	})
	objects, err := client.ListObjects(context.Background(), "avatars",
		c.WithPrefix("photos"), c.WithSearch("me"), c.WithLimit(10))
	require.NoError(t, err)
	require.Len(t, objects, 1)
}

func TestClient_RemoveObjects_SingleRequest(t *testing.T) {
	var requests int
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/object/avatars", r.URL.Path)
		var req struct {
			Prefixes []string `json:"prefixes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"a.txt", "b.txt"}, req.Prefixes)
		fmt.Fprint(w, `[{"name":"a.txt"},{"name":"b.txt"}]`)
	})
	removed, err := client.RemoveObjects(context.Background(), "avatars", []string{"a.txt", "b.txt"})
	require.NoError(t, err)
	assert.Len(t, removed, 2)
	assert.Equal(t, 1, requests)
}

func TestClient_RemoveObjects_RejectsEmpty(t *testing.T) {
	var requests int
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
	})
	_, err := client.RemoveObjects(context.Background(), "avatars", nil)
	require.Error(t, err)
	assert.Equal(t, 0, requests)
}

func TestClient_MoveAndCopyObject(t *testing.T) {
	var bodies []map[string]interface{}
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		bodies = append(bodies, req)
		fmt.Fprint(w, `{"Key":"avatars/b.txt"}`)
	})
	require.NoError(t, client.MoveObject(context.Background(), "avatars", "a.txt", "b.txt"))
	key, err := client.CopyObject(context.Background(), "avatars", "a.txt", "b.txt")
	require.NoError(t, err)
	assert.Equal(t, "avatars/b.txt", key)
	require.Len(t, bodies, 2)
	assert.Equal(t, "avatars", bodies[0]["bucketId"])
	assert.Equal(t, "a.txt", bodies[0]["sourceKey"])
	assert.Equal(t, "b.txt", bodies[0]["destinationKey"])
}

func TestClient_ObjectExists(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/object/avatars/here.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})
	exists, err := client.ObjectExists(context.Background(), "avatars", "here.txt")
	require.NoError(t, err)
	assert.True(t, exists)
	exists, err = client.ObjectExists(context.Background(), "avatars", "gone.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClient_PublicObjectURL(t *testing.T) {
	client, err := c.NewClient("https://storage.example.com", "key")
	require.NoError(t, err)
	assert.Equal(t,
		"https://storage.example.com/object/public/avatars/photos/me.jpg",
		client.PublicObjectURL("avatars", "photos/me.jpg"))
}

func TestClient_SignObjectURL(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/object/sign/avatars/a.txt", r.URL.Path)
		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, float64(7200), req["expiresIn"])
		fmt.Fprint(w, `{"signedURL":"/object/sign/avatars/a.txt?token=abc"}`)
	})
	signed, err := client.SignObjectURL(context.Background(), "avatars", "a.txt", 7200*time.Second)
	require.NoError(t, err)
	assert.Equal(t, client.Host()+"/object/sign/avatars/a.txt?token=abc", signed)
}

func TestClient_SignObjectURL_Download(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"signedURL":"/object/sign/avatars/a.txt?token=abc"}`)
	})
	signed, err := client.SignObjectURL(context.Background(), "avatars", "a.txt", time.Hour,
		c.WithDownload("report.txt"))
	require.NoError(t, err)
	assert.Contains(t, signed, "download=report.txt")
	assert.Contains(t, signed, "token=abc")
}

func TestClient_SignObjectURLs(t *testing.T) {
	var requests int
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		assert.Equal(t, "/object/sign/avatars", r.URL.Path)
		var req struct {
			ExpiresIn int64    `json:"expiresIn"`
			Paths     []string `json:"paths"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(7200), req.ExpiresIn)
		assert.Equal(t, []string{"a.txt", "b.txt"}, req.Paths)
		fmt.Fprint(w, `[{"path":"a.txt","signedURL":"/object/sign/avatars/a.txt?token=abc"},{"path":"b.txt","error":"Object not found"}]`)
	})
	signed, err := client.SignObjectURLs(context.Background(), "avatars", []string{"a.txt", "b.txt"}, 7200*time.Second)
	require.NoError(t, err)
	require.Len(t, signed, 2)
	assert.Equal(t, 1, requests)
	assert.Equal(t, client.Host()+"/object/sign/avatars/a.txt?token=abc", signed[0].SignedURL)
	assert.Equal(t, "Object not found", signed[1].Error)
}

func TestClient_SignUploadURL(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/object/upload/sign/avatars/a.txt", r.URL.Path)
		fmt.Fprint(w, `{"url":"/object/upload/sign/avatars/a.txt?token=up"}`)
	})
	signed, err := client.SignUploadURL(context.Background(), "avatars", "a.txt")
	require.NoError(t, err)
	assert.Equal(t, client.Host()+"/object/upload/sign/avatars/a.txt?token=up", signed)
}

func TestClient_APIErrorRelayed(t *testing.T) {
	client := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"statusCode":404,"error":"not_found","message":"Object not found"}`)
	})
	_, err := client.GetBucket(context.Background(), "missing")
	require.Error(t, err)
	apierr, ok := err.(*c.APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apierr.Status)
	assert.Equal(t, "Object not found", err.Error())
}
