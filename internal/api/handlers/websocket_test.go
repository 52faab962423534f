package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebSocketHandler_CounterFeed(t *testing.T) {
	ts := testutil.NewTestServer(t)
	reader := testutil.NewUserBuilder().BuildAndLogin(t, ts)
	blog := testutil.NewBlogBuilder().Build(t, ts.DB.DB)
	otherBlog := testutil.NewBlogBuilder().Build(t, ts.DB.DB)

	client := testutil.NewWSClient(t, ts.WebSocketURL(blog.ID))
	sub := client.ExpectSubscribed(2 * time.Second)
	assert.Equal(t, blog.ID.String(), sub.Topic)

	require.Eventually(t, func() bool {
		return ts.Hub.SubscriberCount(blog.ID) == 1
	}, 2*time.Second, 10*time.Millisecond)

	t.Run("like on another blog is not delivered", func(t *testing.T) {
		resp := toggleLike(t, ts, reader.AccessToken, "blog", otherBlog.ID)
		resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		client.ExpectNoMessage(200 * time.Millisecond)
	})

	t.Run("blog like", func(t *testing.T) {
		resp := toggleLike(t, ts, reader.AccessToken, "blog", blog.ID)
		resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		update := client.ExpectCounterUpdate(2 * time.Second)
		assert.Equal(t, blog.ID.String(), update.BlogID)
		assert.Equal(t, domain.ResourceBlog, update.ResourceType)
		require.NotNil(t, update.LikesCount)
		assert.Equal(t, int64(1), *update.LikesCount)
		assert.Nil(t, update.CommentsCount)
	})

	t.Run("comment", func(t *testing.T) {
		resp := testutil.Do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost,
			ts.APIURL("/comments/blog/"+blog.ID.String()), map[string]string{"content": "live"}, reader.AccessToken))
		resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusCreated)

		update := client.ExpectCounterUpdate(2 * time.Second)
		require.NotNil(t, update.CommentsCount)
		assert.Equal(t, int64(1), *update.CommentsCount)
		assert.Nil(t, update.LikesCount)
	})
}

func TestWebSocketHandler_RejectsBadTopic(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/ws?topic=nope"))
	require.NoError(t, err)
	defer resp.Body.Close()

	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, string(domain.KindValidation), "Invalid topic")
}
