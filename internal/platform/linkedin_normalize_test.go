package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/goccy/go-json"
)

func TestNormalizeLinkedInProfile(t *testing.T) {
	raw := `{
		"id": "abc123",
		"localizedFirstName": "Dana",
		"localizedLastName": "Lee",
		"localizedHeadline": "Engineer",
		"profilePicture": {
			"displayImage~": {
				"elements": [
					{"identifiers": [{"identifier": "https://media.licdn.example/avatar.jpg"}]}
				]
			}
		}
	}`
	var me linkedInMe
	require.NoError(t, json.Unmarshal([]byte(raw), &me))

	profile := normalizeLinkedInProfile(&me, 88, []string{"Acme Corp"})

	require.Equal(t, "abc123", profile.ID)
	require.Equal(t, "Dana Lee", profile.Name)
	require.Equal(t, "Engineer", profile.Bio)
	require.Equal(t, "https://media.licdn.example/avatar.jpg", profile.AvatarURL)
	require.Equal(t, 88, profile.Followers)
	require.Equal(t, []string{"Acme Corp"}, profile.Pages)
}

func TestNormalizeLinkedInPost_HashtagsFromText(t *testing.T) {
	raw := `{
		"id": "urn:li:share:100",
		"created": {"time": 1700000000000},
		"specificContent": {
			"com.linkedin.ugc.ShareContent": {
				"shareCommentary": {"text": "shipping today #golang #backend!"},
				"shareMediaCategory": "NONE"
			}
		},
		"socialDetail": {
			"totalSocialActivityCounts": {"numLikes": 9, "numShares": 2, "numComments": 4}
		}
	}`
	var post linkedInUGCPost
	require.NoError(t, json.Unmarshal([]byte(raw), &post))

	view := normalizeLinkedInPost(&post)

	require.Equal(t, "urn:li:share:100", view.ID)
	require.Equal(t, time.UnixMilli(1700000000000).UTC(), view.Timestamp)
	require.Equal(t, 9, view.Likes)
	require.Equal(t, 2, view.Shares)
	require.Equal(t, 4, view.Comments)
	require.Equal(t, []string{"golang", "backend"}, view.Hashtags)
	require.Empty(t, view.Embeds)
}

func TestNormalizeLinkedInPost_NoSocialDetail(t *testing.T) {
	raw := `{
		"id": "urn:li:share:101",
		"created": {"time": 1700000000000},
		"specificContent": {
			"com.linkedin.ugc.ShareContent": {
				"shareCommentary": {"text": "plain"},
				"shareMediaCategory": "IMAGE",
				"media": [
					{"media": "urn:li:digitalmediaAsset:1", "originalUrl": "https://media.licdn.example/1.jpg"},
					{"media": "urn:li:digitalmediaAsset:2"}
				]
			}
		}
	}`
	var post linkedInUGCPost
	require.NoError(t, json.Unmarshal([]byte(raw), &post))

	view := normalizeLinkedInPost(&post)

	require.Zero(t, view.Likes)
	require.Zero(t, view.Shares)
	require.Zero(t, view.Comments)

	require.Len(t, view.Embeds, 2)
	require.Equal(t, EmbedImage, view.Embeds[0].Kind)
	require.Equal(t, "https://media.licdn.example/1.jpg", view.Embeds[0].URL)
	// originalUrl 缺失时退回 media urn
	require.Equal(t, "urn:li:digitalmediaAsset:2", view.Embeds[1].URL)
}
