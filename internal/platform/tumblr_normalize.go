package platform

import (
	"strconv"
	"time"
)

// Tumblr v2 接口的原始载荷，只声明用到的字段

type tumblrEnvelope struct {
	Meta struct {
		Status int    `json:"status"`
		Msg    string `json:"msg"`
	} `json:"meta"`
	Response tumblrResponse `json:"response"`
}

type tumblrResponse struct {
	User  *tumblrUser  `json:"user,omitempty"`
	Blog  *tumblrBlog  `json:"blog,omitempty"`
	Posts []tumblrPost `json:"posts,omitempty"`
	ID    int64        `json:"id,omitempty"`
}

type tumblrUser struct {
	Name  string       `json:"name"`
	Blogs []tumblrBlog `json:"blogs"`
}

type tumblrBlog struct {
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Posts       int    `json:"posts"`
	Followers   int    `json:"followers"`
	Primary     bool   `json:"primary"`
	Avatar      []struct {
		URL string `json:"url"`
	} `json:"avatar"`
}

type tumblrPost struct {
	ID        int64    `json:"id"`
	Type      string   `json:"type"`
	Timestamp int64    `json:"timestamp"`
	Tags      []string `json:"tags"`

	// text / chat
	Body string `json:"body"`

	// link
	URL string `json:"url"`

	// photo
	Photos []struct {
		OriginalSize struct {
			URL string `json:"url"`
		} `json:"original_size"`
	} `json:"photos"`

	// video
	PermalinkURL string `json:"permalink_url"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`

	Notes []tumblrNote `json:"notes"`
}

type tumblrNote struct {
	Type string `json:"type"`
}

// normalizeTumblrProfile 将 user/info 响应投影为 Profile。
// page 指定目标博客，空串或未命中时取主博客；多博客账号的博客名全部进入 Pages
func normalizeTumblrProfile(user *tumblrUser, page string) *Profile {
	profile := &Profile{}
	if user == nil {
		return profile
	}

	profile.Name = user.Name
	profile.Pages = make([]string, 0, len(user.Blogs))

	var selected *tumblrBlog
	for i := range user.Blogs {
		blog := &user.Blogs[i]
		profile.Pages = append(profile.Pages, blog.Name)
		if blog.Name == page {
			selected = blog
		}
		if selected == nil && blog.Primary {
			selected = blog
		}
	}
	if selected == nil && len(user.Blogs) > 0 {
		selected = &user.Blogs[0]
	}

	if selected != nil {
		profile.ID = selected.Name
		profile.Bio = selected.Description
		profile.Followers = selected.Followers
		if len(selected.Avatar) > 0 {
			profile.AvatarURL = selected.Avatar[0].URL
		}
	}
	return profile
}

// normalizeTumblrPost 将单条帖子投影为 PostView。
// 互动数由 notes 按类型划分：like 计赞，reblog 计转发，reply 计评论，其余忽略。
// 未识别的帖子类型归一化为空 PostView，不报错
func normalizeTumblrPost(post *tumblrPost) PostView {
	switch post.Type {
	case "text", "chat", "link", "photo", "video":
	default:
		return PostView{}
	}

	view := PostView{
		ID:        strconv.FormatInt(post.ID, 10),
		Timestamp: time.Unix(post.Timestamp, 0).UTC(),
		Hashtags:  post.Tags,
	}

	for _, note := range post.Notes {
		switch note.Type {
		case "like":
			view.Likes++
		case "reblog":
			view.Shares++
		case "reply":
			view.Comments++
		}
	}

	switch post.Type {
	case "text", "chat":
		view.Text = post.Body
	case "link":
		// 标题和摘要刻意不用，链接帖的正文就是链接本身
		view.Text = post.URL
	case "photo":
		for _, photo := range post.Photos {
			view.Embeds = append(view.Embeds, Embed{
				Kind: EmbedImage,
				URL:  photo.OriginalSize.URL,
			})
		}
	case "video":
		videoURL := post.PermalinkURL
		if videoURL == "" {
			videoURL = post.VideoURL
		}
		view.Embeds = append(view.Embeds, Embed{
			Kind:     EmbedVideo,
			URL:      videoURL,
			CoverURL: post.ThumbnailURL,
		})
	}

	return view
}
