package service_test

import (
	"context"
	"testing"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/logging"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/dom/blog-platform/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contentFixture struct {
	content   *fakeContent
	publisher *recordingPublisher
	likes     *service.LikeService
	comments  *service.CommentService
	author    *domain.User
	reader    *domain.User
	admin     *domain.User
	blog      *domain.Blog
	comment   *domain.Comment
}

func newContentFixture() *contentFixture {
	author := newUser(domain.RoleUser)
	reader := newUser(domain.RoleUser)
	admin := newUser(domain.RoleAdmin)
	users := newFakeUserRepo(author, reader, admin)
	content := newFakeContent()
	publisher := &recordingPublisher{}
	access := service.NewAccessControl(users, logging.Discard())

	blog := &domain.Blog{ID: uuid.New(), Slug: "post-abc123", AuthorID: admin.ID, Status: domain.BlogStatusPublished}
	comment := &domain.Comment{ID: uuid.New(), BlogID: blog.ID, UserID: author.ID, Content: "hi"}
	content.blogs[blog.ID] = blog
	content.comments[comment.ID] = comment

	return &contentFixture{
		content:   content,
		publisher: publisher,
		likes: service.NewLikeService(fakeLikeRepo{content}, fakeBlogRepo{content}, fakeCommentRepo{content},
			publisher, logging.Discard()),
		comments: service.NewCommentService(fakeCommentRepo{content}, fakeBlogRepo{content}, access,
			publisher, logging.Discard()),
		author:  author,
		reader:  reader,
		admin:   admin,
		blog:    blog,
		comment: comment,
	}
}

func TestLikeService_Toggle(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	liked, err := f.likes.Toggle(ctx, f.reader.ID, "blog", f.blog.ID)
	require.NoError(t, err)
	assert.True(t, liked.IsLiked)
	assert.Equal(t, int64(1), liked.LikesCount)

	other, err := f.likes.Toggle(ctx, f.author.ID, "Blog", f.blog.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), other.LikesCount)

	unliked, err := f.likes.Toggle(ctx, f.reader.ID, "blog", f.blog.ID)
	require.NoError(t, err)
	assert.False(t, unliked.IsLiked)
	assert.Equal(t, int64(1), unliked.LikesCount)

	events := f.publisher.Events()
	require.Len(t, events, 3)
	last := events[2]
	assert.Equal(t, f.blog.ID, last.Topic)
	assert.Equal(t, domain.ResourceBlog, last.ResourceType)
	require.NotNil(t, last.LikesCount)
	assert.Equal(t, int64(1), *last.LikesCount)
	assert.Nil(t, last.CommentsCount)
}

func TestLikeService_CommentLikePublishesOnParentBlog(t *testing.T) {
	f := newContentFixture()

	result, err := f.likes.Toggle(context.Background(), f.reader.ID, "comment", f.comment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ResourceComment, result.ResourceType)
	assert.Equal(t, int64(1), result.LikesCount)
	assert.Zero(t, f.content.blogs[f.blog.ID].LikesCount)

	events := f.publisher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, f.blog.ID, events[0].Topic)
	assert.Equal(t, f.comment.ID, events[0].ResourceID)
}

func TestLikeService_Errors(t *testing.T) {
	f := newContentFixture()
	ctx := context.Background()

	tests := []struct {
		name         string
		resourceType string
		resourceID   uuid.UUID
		wantKind     domain.ErrorKind
		wantMsg      string
	}{
		{name: "bad type", resourceType: "post", resourceID: f.blog.ID, wantKind: domain.KindValidation, wantMsg: service.MsgInvalidResourceType},
		{name: "empty type", resourceType: "", resourceID: f.blog.ID, wantKind: domain.KindValidation, wantMsg: service.MsgInvalidResourceType},
		{name: "missing blog", resourceType: "blog", resourceID: uuid.New(), wantKind: domain.KindNotFound, wantMsg: service.MsgBlogNotFound},
		{name: "missing comment", resourceType: "comment", resourceID: uuid.New(), wantKind: domain.KindNotFound, wantMsg: service.MsgCommentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.likes.Toggle(ctx, f.reader.ID, tt.resourceType, tt.resourceID)
			require.Error(t, err)
			assert.True(t, domain.IsKind(err, tt.wantKind), "got %v", err)
			assert.Equal(t, tt.wantMsg, err.(*domain.Error).Message)
		})
	}
	assert.Empty(t, f.publisher.Events())
}

func TestLikeService_LostRaceIsConflict(t *testing.T) {
	f := newContentFixture()
	racing := &racingLikeRepo{fakeLikeRepo: fakeLikeRepo{f.content}}
	likes := service.NewLikeService(racing, fakeBlogRepo{f.content}, fakeCommentRepo{f.content}, f.publisher, logging.Discard())

	_, err := likes.Toggle(context.Background(), f.reader.ID, "blog", f.blog.ID)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindConflict))
	assert.Equal(t, service.MsgLikeConflict, err.(*domain.Error).Message)
	assert.Equal(t, int64(1), f.content.blogs[f.blog.ID].LikesCount)
}

// racingLikeRepo lets another like from the same user win just before Like runs.
type racingLikeRepo struct {
	fakeLikeRepo
}

func (r *racingLikeRepo) Like(ctx context.Context, target domain.LikeTarget, userID uuid.UUID) error {
	if err := r.fakeLikeRepo.Like(ctx, target, userID); err != nil {
		return err
	}
	return r.fakeLikeRepo.Like(ctx, target, userID)
}

func TestLikeService_TargetDeletedMidToggle(t *testing.T) {
	f := newContentFixture()
	vanishing := &vanishingLikeRepo{fakeLikeRepo: fakeLikeRepo{f.content}}
	likes := service.NewLikeService(vanishing, fakeBlogRepo{f.content}, fakeCommentRepo{f.content}, f.publisher, logging.Discard())

	_, err := likes.Toggle(context.Background(), f.reader.ID, "blog", f.blog.ID)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
	assert.Equal(t, service.MsgBlogNotFound, err.(*domain.Error).Message)
}

// vanishingLikeRepo behaves as if the target was deleted between the lookup
// and the insert.
type vanishingLikeRepo struct {
	fakeLikeRepo
}

func (r *vanishingLikeRepo) Like(context.Context, domain.LikeTarget, uuid.UUID) error {
	return repository.ErrNotFound
}
