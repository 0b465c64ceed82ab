package platform

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func newTestTumblrClient(t *testing.T, apiBase string) *tumblrClient {
	t.Helper()
	return &tumblrClient{
		key:       AppKey{ClientKey: "ck", ClientSecret: "cs"},
		cred:      Credential{Token: "tk", TokenSecret: "ts"},
		page:      "myblog",
		apiBase:   apiBase,
		stageRoot: t.TempDir(),
		http:      resty.New().SetTimeout(5 * time.Second),
	}
}

func requireNoStagedLeftovers(t *testing.T, root string) {
	t.Helper()
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	require.Empty(t, entries, "staging dir should be cleaned up")
}

func drainFile(content string) func(ctx context.Context) (io.ReadCloser, error) {
	return func(ctx context.Context) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

func TestTumblrPublish_TextOnly(t *testing.T) {
	var gotType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/blog/myblog/post", r.URL.Path)
		require.NoError(t, r.ParseForm())
		gotType = r.FormValue("type")
		gotBody = r.FormValue("body")
		_, _ = w.Write([]byte(`{"response":{"id":777}}`))
	}))
	defer server.Close()

	client := newTestTumblrClient(t, server.URL)
	id, err := client.Publish(context.Background(), &PostDraft{Text: "hello tumblr"})

	require.NoError(t, err)
	require.Equal(t, "777", id)
	require.Equal(t, "text", gotType)
	require.Equal(t, "hello tumblr", gotBody)
}

func TestTumblrPublish_GroupsMediaByType(t *testing.T) {
	var postTypes []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		postTypes = append(postTypes, r.FormValue("type"))
		_, _ = w.Write([]byte(`{"response":{"id":888}}`))
	}))
	defer server.Close()

	client := newTestTumblrClient(t, server.URL)
	draft := &PostDraft{
		Text: "mixed media",
		Files: []DraftFile{
			{Name: "a.jpg", ContentType: "image/jpeg", Open: drainFile("img-a")},
			{Name: "b.mp4", ContentType: "video/mp4", Open: drainFile("vid-b")},
			{Name: "c.png", ContentType: "image/png", Open: drainFile("img-c")},
		},
	}

	id, err := client.Publish(context.Background(), draft)

	require.NoError(t, err)
	require.Equal(t, "888", id)
	// 图片一帖、视频一帖
	require.Equal(t, []string{"photo", "video"}, postTypes)
	requireNoStagedLeftovers(t, client.stageRoot)
}

func TestTumblrPublish_StagesRemoteURLs(t *testing.T) {
	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "video/mp4")
		_, _ = w.Write([]byte("remote video bytes"))
	}))
	defer media.Close()

	var gotType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(32<<20))
		gotType = r.FormValue("type")
		_, _ = w.Write([]byte(`{"response":{"id":999}}`))
	}))
	defer server.Close()

	client := newTestTumblrClient(t, server.URL)
	draft := &PostDraft{URLs: []string{media.URL + "/clip.mp4"}}

	_, err := client.Publish(context.Background(), draft)

	require.NoError(t, err)
	require.Equal(t, "video", gotType)
	requireNoStagedLeftovers(t, client.stageRoot)
}

func TestTumblrPublish_CleansUpOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"meta":{"status":500,"msg":"boom"}}`))
	}))
	defer server.Close()

	client := newTestTumblrClient(t, server.URL)
	draft := &PostDraft{
		Files: []DraftFile{{Name: "a.jpg", ContentType: "image/jpeg", Open: drainFile("img")}},
	}

	_, err := client.Publish(context.Background(), draft)

	require.Error(t, err)
	requireNoStagedLeftovers(t, client.stageRoot)
}

func TestTumblrPublish_CleansUpWhenDownloadFails(t *testing.T) {
	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer media.Close()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no post should be created when staging fails")
	}))
	defer server.Close()

	client := newTestTumblrClient(t, server.URL)
	draft := &PostDraft{URLs: []string{media.URL + "/missing.mp4"}}

	_, err := client.Publish(context.Background(), draft)

	require.Error(t, err)
	requireNoStagedLeftovers(t, client.stageRoot)
}
