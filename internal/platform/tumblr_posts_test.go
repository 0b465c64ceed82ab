package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const tumblrUserInfoBody = `{
	"response": {
		"user": {
			"name": "alice",
			"blogs": [
				{"name": "main", "primary": true, "posts": 3, "followers": 10},
				{"name": "side", "posts": 200, "followers": 2}
			]
		}
	}
}`

func TestTumblrGetPosts_PageSizeFollowsBlogTotal(t *testing.T) {
	var gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/info":
			_, _ = w.Write([]byte(tumblrUserInfoBody))
		case "/blog/main/posts":
			gotLimit = r.URL.Query().Get("limit")
			_, _ = w.Write([]byte(`{"response":{"posts":[{"id":1,"type":"text","body":"a"}]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestTumblrClient(t, server.URL)
	client.page = ""

	posts, err := client.GetPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "3", gotLimit)
}

func TestTumblrGetPosts_PageSizeBoundedByMax(t *testing.T) {
	var gotLimit string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/info":
			_, _ = w.Write([]byte(tumblrUserInfoBody))
		case "/blog/side/posts":
			gotLimit = r.URL.Query().Get("limit")
			_, _ = w.Write([]byte(`{"response":{"posts":[]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestTumblrClient(t, server.URL)
	client.page = "side"

	_, err := client.GetPosts(context.Background())
	require.NoError(t, err)
	require.Equal(t, "50", gotLimit)
}

func TestTumblrGetProfile_Idempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tumblrUserInfoBody))
	}))
	defer server.Close()

	client := newTestTumblrClient(t, server.URL)
	client.page = ""

	first, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	second, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestTumblrGetPosts_SkipsMalformedPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/info":
			_, _ = w.Write([]byte(tumblrUserInfoBody))
		case "/blog/main/posts":
			_, _ = w.Write([]byte(`{"response":{"posts":[
				{"id":1,"type":"text","body":"ok"},
				{"id":"not-a-number","type":"text"},
				{"id":2,"type":"text","body":"also ok"}
			]}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := newTestTumblrClient(t, server.URL)
	client.page = ""

	posts, err := client.GetPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	require.Equal(t, "1", posts[0].ID)
	require.Equal(t, "2", posts[1].ID)
}
