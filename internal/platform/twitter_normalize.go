package platform

import (
	"time"
)

// Twitter v1.1 接口的原始载荷（tweet_mode=extended）

type twitterUser struct {
	IDStr                string `json:"id_str"`
	Name                 string `json:"name"`
	ScreenName           string `json:"screen_name"`
	Description          string `json:"description"`
	FollowersCount       int    `json:"followers_count"`
	ProfileImageURLHTTPS string `json:"profile_image_url_https"`
}

type twitterTweet struct {
	IDStr         string `json:"id_str"`
	CreatedAt     string `json:"created_at"`
	FullText      string `json:"full_text"`
	FavoriteCount int    `json:"favorite_count"`
	RetweetCount  int    `json:"retweet_count"`
	Entities      struct {
		Hashtags []struct {
			Text string `json:"text"`
		} `json:"hashtags"`
	} `json:"entities"`
	ExtendedEntities struct {
		Media []twitterMedia `json:"media"`
	} `json:"extended_entities"`
}

type twitterMedia struct {
	Type          string `json:"type"`
	MediaURLHTTPS string `json:"media_url_https"`
	VideoInfo     *struct {
		Variants []struct {
			ContentType string `json:"content_type"`
			URL         string `json:"url"`
		} `json:"variants"`
	} `json:"video_info"`
}

// twitter created_at 的固定格式
const twitterTimeLayout = time.RubyDate

func normalizeTwitterProfile(user *twitterUser) *Profile {
	return &Profile{
		ID:        user.IDStr,
		Name:      user.Name,
		Bio:       user.Description,
		AvatarURL: user.ProfileImageURLHTTPS,
		Followers: user.FollowersCount,
	}
}

// normalizeTwitterTweet v1.1 不提供回复数，Comments 固定为 0
func normalizeTwitterTweet(tweet *twitterTweet) PostView {
	view := PostView{
		ID:     tweet.IDStr,
		Likes:  tweet.FavoriteCount,
		Shares: tweet.RetweetCount,
		Text:   tweet.FullText,
	}

	if ts, err := time.Parse(twitterTimeLayout, tweet.CreatedAt); err == nil {
		view.Timestamp = ts.UTC()
	}

	for _, tag := range tweet.Entities.Hashtags {
		view.Hashtags = append(view.Hashtags, tag.Text)
	}

	for _, media := range tweet.ExtendedEntities.Media {
		switch media.Type {
		case "photo":
			view.Embeds = append(view.Embeds, Embed{Kind: EmbedImage, URL: media.MediaURLHTTPS})
		case "video", "animated_gif":
			embed := Embed{Kind: EmbedVideo, CoverURL: media.MediaURLHTTPS}
			if media.VideoInfo != nil {
				for _, variant := range media.VideoInfo.Variants {
					if variant.ContentType == "video/mp4" {
						embed.URL = variant.URL
						break
					}
				}
				if embed.URL == "" && len(media.VideoInfo.Variants) > 0 {
					embed.URL = media.VideoInfo.Variants[0].URL
				}
			}
			view.Embeds = append(view.Embeds, embed)
		}
	}

	return view
}
