package platform

import (
	"time"

	"SocialHub/internal/pkg/util"
)

// LinkedIn v2 接口的原始载荷

type linkedInMe struct {
	ID                 string `json:"id"`
	LocalizedFirstName string `json:"localizedFirstName"`
	LocalizedLastName  string `json:"localizedLastName"`
	LocalizedHeadline  string `json:"localizedHeadline"`
	ProfilePicture     struct {
		DisplayImage struct {
			Elements []struct {
				Identifiers []struct {
					Identifier string `json:"identifier"`
				} `json:"identifiers"`
			} `json:"elements"`
		} `json:"displayImage~"`
	} `json:"profilePicture"`
}

type linkedInNetworkSizes struct {
	FirstDegreeSize int `json:"firstDegreeSize"`
}

type linkedInOrganizationAcls struct {
	Elements []struct {
		OrganizationalTarget struct {
			LocalizedName string `json:"localizedName"`
		} `json:"organizationalTarget~"`
	} `json:"elements"`
}

type linkedInUGCPost struct {
	ID      string `json:"id"`
	Created struct {
		Time int64 `json:"time"`
	} `json:"created"`
	SpecificContent struct {
		ShareContent struct {
			ShareCommentary struct {
				Text string `json:"text"`
			} `json:"shareCommentary"`
			ShareMediaCategory string `json:"shareMediaCategory"`
			Media              []struct {
				Media       string `json:"media"`
				OriginalURL string `json:"originalUrl"`
			} `json:"media"`
		} `json:"com.linkedin.ugc.ShareContent"`
	} `json:"specificContent"`
	SocialDetail *struct {
		TotalSocialActivityCounts struct {
			NumLikes    int `json:"numLikes"`
			NumShares   int `json:"numShares"`
			NumComments int `json:"numComments"`
		} `json:"totalSocialActivityCounts"`
	} `json:"socialDetail"`
}

func normalizeLinkedInProfile(me *linkedInMe, followers int, pages []string) *Profile {
	profile := &Profile{
		ID:        me.ID,
		Name:      me.LocalizedFirstName + " " + me.LocalizedLastName,
		Bio:       me.LocalizedHeadline,
		Followers: followers,
		Pages:     pages,
	}

	for _, element := range me.ProfilePicture.DisplayImage.Elements {
		if len(element.Identifiers) > 0 {
			profile.AvatarURL = element.Identifiers[0].Identifier
			break
		}
	}
	return profile
}

// normalizeLinkedInPost LinkedIn 没有独立的标签字段，话题标签直接从正文提取
func normalizeLinkedInPost(post *linkedInUGCPost) PostView {
	content := post.SpecificContent.ShareContent
	view := PostView{
		ID:        post.ID,
		Timestamp: time.UnixMilli(post.Created.Time).UTC(),
		Text:      content.ShareCommentary.Text,
		Hashtags:  util.ExtractTags(content.ShareCommentary.Text),
	}

	if post.SocialDetail != nil {
		counts := post.SocialDetail.TotalSocialActivityCounts
		view.Likes = counts.NumLikes
		view.Shares = counts.NumShares
		view.Comments = counts.NumComments
	}

	switch content.ShareMediaCategory {
	case "IMAGE":
		for _, media := range content.Media {
			url := media.OriginalURL
			if url == "" {
				url = media.Media
			}
			view.Embeds = append(view.Embeds, Embed{Kind: EmbedImage, URL: url})
		}
	case "VIDEO":
		for _, media := range content.Media {
			url := media.OriginalURL
			if url == "" {
				url = media.Media
			}
			view.Embeds = append(view.Embeds, Embed{Kind: EmbedVideo, URL: url})
		}
	}

	return view
}
