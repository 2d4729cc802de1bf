package instagramimpl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jeremy-Gitau/MediaSnap/internal/domain"
	apperrors "github.com/Jeremy-Gitau/MediaSnap/pkg/errors"
)

const sharedDataPage = `<html><head></head><body>
<script type="text/javascript">window._sharedData = {"entry_data":{"ProfilePage":[{"graphql":{"user":{"id":"42","username":"acme","full_name":"Acme Co","biography":"bio","profile_pic_url":"https://cdn/pic.jpg","profile_pic_url_hd":"https://cdn/pic_hd.jpg","is_private":false,"is_verified":true,"edge_followed_by":{"count":100},"edge_follow":{"count":50},"edge_owner_to_timeline_media":{"count":2,"edges":[{"node":{"__typename":"GraphImage","shortcode":"abc","display_url":"https://cdn/abc.jpg","is_video":false,"taken_at_timestamp":1700000000,"edge_liked_by":{"count":10},"edge_media_to_comment":{"count":3},"edge_media_to_caption":{"edges":[{"node":{"text":"hello"}}]}}},{"node":{"__typename":"GraphVideo","shortcode":"def","display_url":"https://cdn/def.jpg","is_video":true,"video_url":"https://cdn/def.mp4","taken_at_timestamp":1700001000,"edge_liked_by":{"count":20},"edge_media_to_comment":{"count":5},"edge_media_to_caption":{"edges":[]}}}]}}}}]}};</script>
</body></html>`

func TestExtractEmbeddedUserSharedData(t *testing.T) {
	user, err := extractEmbeddedUser([]byte(sharedDataPage))
	require.NoError(t, err)

	profile, err := user.toDomain("acme")
	require.NoError(t, err)

	assert.Equal(t, "42", profile.InstagramID)
	assert.Equal(t, "acme", profile.Username)
	assert.Equal(t, "https://cdn/pic_hd.jpg", profile.ProfilePicURL)
	assert.True(t, profile.IsVerified)
	assert.Equal(t, 100, profile.FollowerCount)
	assert.Equal(t, 2, profile.PostCount)
	require.Len(t, profile.Posts, 2)

	image := profile.Posts[0]
	assert.Equal(t, "abc", image.Shortcode)
	assert.Equal(t, "hello", image.Caption)
	require.Len(t, image.MediaItems, 1)
	assert.Equal(t, domain.MediaTypeImage, image.MediaItems[0].MediaType)
	assert.Equal(t, "https://cdn/abc.jpg", image.MediaItems[0].URL)

	video := profile.Posts[1]
	assert.True(t, video.IsVideo)
	require.Len(t, video.MediaItems, 1)
	assert.Equal(t, domain.MediaTypeVideo, video.MediaItems[0].MediaType)
	assert.Equal(t, "https://cdn/def.mp4", video.MediaItems[0].URL)
}

func TestExtractEmbeddedUserMissingBlob(t *testing.T) {
	_, err := extractEmbeddedUser([]byte("<html><body>login required</body></html>"))
	require.Error(t, err)
	assert.True(t, apperrors.IsMalformed(err))
}

func TestUserNodeRequiresID(t *testing.T) {
	node := &userNode{Username: "acme"}
	_, err := node.toDomain("acme")
	require.Error(t, err)
	assert.True(t, apperrors.IsMalformed(err))
}

func TestSidecarChildrenKeepOrdinalOrder(t *testing.T) {
	node := postNode{
		Typename:   "GraphSidecar",
		Shortcode:  "car",
		DisplayURL: "https://cdn/cover.jpg",
		SidecarChildren: &struct {
			Edges []postEdge `json:"edges"`
		}{
			Edges: []postEdge{
				{Node: postNode{DisplayURL: "https://cdn/0.jpg"}},
				{Node: postNode{IsVideo: true, VideoURL: "https://cdn/1.mp4", DisplayURL: "https://cdn/1.jpg"}},
				{Node: postNode{DisplayURL: "https://cdn/2.jpg"}},
			},
		},
	}

	post, ok := node.toDomain("42")
	require.True(t, ok)
	require.Len(t, post.MediaItems, 3)
	for i, item := range post.MediaItems {
		assert.Equal(t, i, item.Ordinal)
		assert.Equal(t, "car", item.PostShortcode)
	}
	assert.Equal(t, domain.MediaTypeVideo, post.MediaItems[1].MediaType)
	assert.Equal(t, "https://cdn/1.mp4", post.MediaItems[1].URL)
}

func TestPostNodeWithoutShortcodeIsSkipped(t *testing.T) {
	_, ok := (&postNode{DisplayURL: "https://cdn/x.jpg"}).toDomain("42")
	assert.False(t, ok)
}

func TestUserLookupTriesAllEnvelopes(t *testing.T) {
	assert.Equal(t, "1", (&userLookup{Graphql: &graphqlContainer{User: &userNode{ID: "1"}}}).userID())
	assert.Equal(t, "2", (&userLookup{User: &userNode{ID: "2"}}).userID())
	assert.Equal(t, "3", (&userLookup{Data: &graphqlContainer{User: &userNode{ID: "3"}}}).userID())
	assert.Equal(t, "", (&userLookup{}).userID())
}
