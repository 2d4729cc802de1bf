package instagramimpl

import (
	"time"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
	apperrors "github.com/Jeremy-Gitau/MediaSnap/pkg/errors"
)

// Wire models for the embedded profile JSON. Both strategies end up with a
// userNode; everything below it is normalized through toDomain.

type sharedData struct {
	EntryData struct {
		ProfilePage []struct {
			Graphql graphqlContainer `json:"graphql"`
		} `json:"ProfilePage"`
	} `json:"entry_data"`
	Graphql *graphqlContainer `json:"graphql"`
}

type graphqlResponse struct {
	Data *graphqlContainer `json:"data"`
}

type graphqlContainer struct {
	User *userNode `json:"user"`
}

// userLookup is the response of the id-resolution request. The user object
// has moved between several envelopes over time, so all known locations are
// tried.
type userLookup struct {
	Graphql *graphqlContainer `json:"graphql"`
	User    *userNode         `json:"user"`
	Data    *graphqlContainer `json:"data"`
}

func (l *userLookup) userID() string {
	switch {
	case l.Graphql != nil && l.Graphql.User != nil:
		return l.Graphql.User.ID
	case l.User != nil:
		return l.User.ID
	case l.Data != nil && l.Data.User != nil:
		return l.Data.User.ID
	default:
		return ""
	}
}

type userNode struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	FullName         string     `json:"full_name"`
	Biography        string     `json:"biography"`
	ProfilePicURL    string     `json:"profile_pic_url"`
	ProfilePicURLHD  string     `json:"profile_pic_url_hd"`
	IsPrivate        bool       `json:"is_private"`
	IsVerified       bool       `json:"is_verified"`
	EdgeFollowedBy   countEdge  `json:"edge_followed_by"`
	EdgeFollow       countEdge  `json:"edge_follow"`
	TimelineMedia    *timeline  `json:"edge_owner_to_timeline_media"`
}

type countEdge struct {
	Count int `json:"count"`
}

type timeline struct {
	Count int        `json:"count"`
	Edges []postEdge `json:"edges"`
}

type postEdge struct {
	Node postNode `json:"node"`
}

type postNode struct {
	Typename           string       `json:"__typename"`
	Shortcode          string       `json:"shortcode"`
	DisplayURL         string       `json:"display_url"`
	IsVideo            bool         `json:"is_video"`
	VideoURL           string       `json:"video_url"`
	TakenAtTimestamp   int64        `json:"taken_at_timestamp"`
	EdgeLikedBy        countEdge    `json:"edge_liked_by"`
	EdgeMediaToComment countEdge    `json:"edge_media_to_comment"`
	EdgeMediaToCaption captionEdges `json:"edge_media_to_caption"`
	SidecarChildren    *struct {
		Edges []postEdge `json:"edges"`
	} `json:"edge_sidecar_to_children"`
}

type captionEdges struct {
	Edges []struct {
		Node struct {
			Text string `json:"text"`
		} `json:"node"`
	} `json:"edges"`
}

func (n *postNode) caption() string {
	if len(n.EdgeMediaToCaption.Edges) == 0 {
		return ""
	}
	return n.EdgeMediaToCaption.Edges[0].Node.Text
}

// toDomain converts the wire user into the normalized result. The id is the
// only required field; its absence means the response shape drifted.
func (u *userNode) toDomain(username string) (*domain.Profile, error) {
	if u.ID == "" {
		return nil, apperrors.Wrap(apperrors.ErrMalformed, "user node has no id")
	}

	profile := &domain.Profile{
		InstagramID:   u.ID,
		Username:      u.Username,
		FullName:      u.FullName,
		Biography:     u.Biography,
		ProfilePicURL: u.ProfilePicURLHD,
		IsPrivate:     u.IsPrivate,
		IsVerified:    u.IsVerified,
		FollowerCount: u.EdgeFollowedBy.Count,
		FetchedAt:     time.Now(),
	}
	if profile.Username == "" {
		profile.Username = username
	}
	if profile.ProfilePicURL == "" {
		profile.ProfilePicURL = u.ProfilePicURL
	}
	profile.FollowingCount = u.EdgeFollow.Count

	if u.TimelineMedia != nil {
		profile.PostCount = u.TimelineMedia.Count
		for _, edge := range u.TimelineMedia.Edges {
			post, ok := edge.Node.toDomain(u.ID)
			if !ok {
				continue
			}
			profile.Posts = append(profile.Posts, post)
		}
	}

	return profile, nil
}

// toDomain converts a post node. Nodes without a shortcode are skipped
// rather than failing the whole profile.
func (n *postNode) toDomain(profileID string) (domain.Post, bool) {
	if n.Shortcode == "" {
		return domain.Post{}, false
	}

	post := domain.Post{
		Shortcode:    n.Shortcode,
		ProfileID:    profileID,
		Typename:     n.Typename,
		Caption:      n.caption(),
		LikeCount:    n.EdgeLikedBy.Count,
		CommentCount: n.EdgeMediaToComment.Count,
		DisplayURL:   n.DisplayURL,
		IsVideo:      n.IsVideo,
		VideoURL:     n.VideoURL,
	}
	if n.TakenAtTimestamp > 0 {
		post.TakenAt = time.Unix(n.TakenAtTimestamp, 0)
	}

	if n.Typename == "GraphSidecar" && n.SidecarChildren != nil {
		for idx, child := range n.SidecarChildren.Edges {
			url := child.Node.DisplayURL
			mediaType := domain.MediaTypeImage
			if child.Node.IsVideo {
				mediaType = domain.MediaTypeVideo
				if child.Node.VideoURL != "" {
					url = child.Node.VideoURL
				}
			}
			if url == "" {
				continue
			}
			post.MediaItems = append(post.MediaItems, domain.MediaItem{
				PostShortcode: n.Shortcode,
				URL:           url,
				MediaType:     mediaType,
				Ordinal:       idx,
			})
		}
	}

	// Single-media posts still materialize one media item so the download
	// pipeline works off a uniform queue.
	if len(post.MediaItems) == 0 {
		url := post.DisplayURL
		mediaType := domain.MediaTypeImage
		if post.IsVideo {
			mediaType = domain.MediaTypeVideo
			if post.VideoURL != "" {
				url = post.VideoURL
			}
		}
		if url != "" {
			post.MediaItems = append(post.MediaItems, domain.MediaItem{
				PostShortcode: n.Shortcode,
				URL:           url,
				MediaType:     mediaType,
				Ordinal:       0,
			})
		}
	}

	return post, true
}
