package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNormalizeTumblrPost_NotesPartition(t *testing.T) {
	post := &tumblrPost{
		ID:        123,
		Type:      "text",
		Timestamp: 1700000000,
		Body:      "hello",
		Notes: []tumblrNote{
			{Type: "like"},
			{Type: "reblog"},
			{Type: "like"},
			{Type: "reply"},
			{Type: "posted"},
			{Type: "like"},
			{Type: "reblog"},
		},
	}

	view := normalizeTumblrPost(post)

	require.Equal(t, "123", view.ID)
	require.Equal(t, time.Unix(1700000000, 0).UTC(), view.Timestamp)
	require.Equal(t, 3, view.Likes)
	require.Equal(t, 2, view.Shares)
	require.Equal(t, 1, view.Comments)
	require.Equal(t, "hello", view.Text)
}

func TestNormalizeTumblrPost_UnknownTypeIsEmpty(t *testing.T) {
	post := &tumblrPost{
		ID:        456,
		Type:      "audio",
		Timestamp: 1700000000,
		Notes:     []tumblrNote{{Type: "like"}},
	}

	view := normalizeTumblrPost(post)
	require.Equal(t, PostView{}, view)
}

func TestNormalizeTumblrPost_LinkUsesURLAsText(t *testing.T) {
	post := &tumblrPost{
		ID:   1,
		Type: "link",
		URL:  "https://example.com/article",
	}

	view := normalizeTumblrPost(post)
	require.Equal(t, "https://example.com/article", view.Text)
	require.Empty(t, view.Embeds)
}

func TestNormalizeTumblrPost_PhotoEmbedsKeepOrder(t *testing.T) {
	post := &tumblrPost{ID: 2, Type: "photo"}
	post.Photos = make([]struct {
		OriginalSize struct {
			URL string `json:"url"`
		} `json:"original_size"`
	}, 3)
	post.Photos[0].OriginalSize.URL = "https://media.example/a.jpg"
	post.Photos[1].OriginalSize.URL = "https://media.example/b.jpg"
	post.Photos[2].OriginalSize.URL = "https://media.example/c.jpg"

	view := normalizeTumblrPost(post)

	require.Len(t, view.Embeds, 3)
	for i, url := range []string{
		"https://media.example/a.jpg",
		"https://media.example/b.jpg",
		"https://media.example/c.jpg",
	} {
		require.Equal(t, EmbedImage, view.Embeds[i].Kind)
		require.Equal(t, url, view.Embeds[i].URL)
	}
}

func TestNormalizeTumblrPost_VideoPrefersPermalink(t *testing.T) {
	post := &tumblrPost{
		ID:           3,
		Type:         "video",
		PermalinkURL: "https://tumblr.com/v/3",
		VideoURL:     "https://media.example/v.mp4",
		ThumbnailURL: "https://media.example/cover.jpg",
	}

	view := normalizeTumblrPost(post)
	require.Len(t, view.Embeds, 1)
	require.Equal(t, EmbedVideo, view.Embeds[0].Kind)
	require.Equal(t, "https://tumblr.com/v/3", view.Embeds[0].URL)
	require.Equal(t, "https://media.example/cover.jpg", view.Embeds[0].CoverURL)

	post.PermalinkURL = ""
	view = normalizeTumblrPost(post)
	require.Equal(t, "https://media.example/v.mp4", view.Embeds[0].URL)
}

func TestNormalizeTumblrProfile_BlogSelection(t *testing.T) {
	user := &tumblrUser{
		Name: "alice",
		Blogs: []tumblrBlog{
			{Name: "side", Followers: 5, Description: "side blog"},
			{Name: "main", Followers: 42, Description: "main blog", Primary: true},
		},
	}

	// 未指定 page 时取主博客
	profile := normalizeTumblrProfile(user, "")
	require.Equal(t, "main", profile.ID)
	require.Equal(t, 42, profile.Followers)
	require.Equal(t, []string{"side", "main"}, profile.Pages)

	// 指定的 page 优先于主博客
	profile = normalizeTumblrProfile(user, "side")
	require.Equal(t, "side", profile.ID)
	require.Equal(t, 5, profile.Followers)

	// 未命中时退回主博客
	profile = normalizeTumblrProfile(user, "missing")
	require.Equal(t, "main", profile.ID)
}

func TestNormalizeTumblrProfile_NoPrimaryFallsBackToFirst(t *testing.T) {
	user := &tumblrUser{
		Name:  "bob",
		Blogs: []tumblrBlog{{Name: "only", Followers: 1}},
	}

	profile := normalizeTumblrProfile(user, "")
	require.Equal(t, "only", profile.ID)
	require.Equal(t, 1, profile.Followers)
}
