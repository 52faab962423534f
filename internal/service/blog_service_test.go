package service_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/dom/blog-platform/internal/logging"
	"github.com/dom/blog-platform/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type blogFixture struct {
	content *fakeContent
	users   *fakeUserRepo
	blogs   *service.BlogService
	admin   *domain.User
	author  *domain.User
	reader  *domain.User
}

func newBlogFixture() *blogFixture {
	admin := newUser(domain.RoleAdmin)
	author := newUser(domain.RoleAdmin)
	reader := newUser(domain.RoleUser)
	users := newFakeUserRepo(admin, author, reader)
	content := newFakeContent()
	access := service.NewAccessControl(users, logging.Discard())

	return &blogFixture{
		content: content,
		users:   users,
		blogs:   service.NewBlogService(fakeBlogRepo{content}, access, logging.Discard()),
		admin:   admin,
		author:  author,
		reader:  reader,
	}
}

func (f *blogFixture) create(t *testing.T, status domain.BlogStatus) *domain.Blog {
	t.Helper()
	blog, err := f.blogs.Create(context.Background(), service.CreateBlogInput{
		AuthorID: f.author.ID,
		Title:    "Some Title",
		Content:  "Body",
		Status:   status,
	})
	require.NoError(t, err)
	return blog
}

func TestGenerateSlug(t *testing.T) {
	suffix := `-[0-9a-f]{6}$`

	tests := []struct {
		title string
		want  string
	}{
		{title: "Hello, World!", want: `^hello-world` + suffix},
		{title: "  Go   is  fun  ", want: `^go-is-fun` + suffix},
		{title: "Ünïcode Títle", want: `^ünïcode-títle` + suffix},
		{title: "!!!", want: `^blog` + suffix},
		{title: "", want: `^blog` + suffix},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Regexp(t, regexp.MustCompile(tt.want), service.GenerateSlug(tt.title))
		})
	}

	assert.NotEqual(t, service.GenerateSlug("same"), service.GenerateSlug("same"))
}

func TestBlogService_CreatePublishedStampsTime(t *testing.T) {
	f := newBlogFixture()

	published := f.create(t, domain.BlogStatusPublished)
	assert.Equal(t, domain.BlogStatusPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)

	draft := f.create(t, domain.BlogStatusDraft)
	assert.Equal(t, domain.BlogStatusDraft, draft.Status)
	assert.Nil(t, draft.PublishedAt)
	assert.NotEqual(t, published.Slug, draft.Slug)
}

func TestBlogService_GetBySlugDraftVisibility(t *testing.T) {
	f := newBlogFixture()
	draft := f.create(t, domain.BlogStatusDraft)
	ctx := context.Background()

	tests := []struct {
		name     string
		viewer   uuid.UUID
		wantKind domain.ErrorKind
	}{
		{name: "author", viewer: f.author.ID},
		{name: "admin", viewer: f.admin.ID},
		{name: "plain user", viewer: f.reader.ID, wantKind: domain.KindAuthorization},
		{name: "anonymous", viewer: uuid.Nil, wantKind: domain.KindAuthorization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blog, err := f.blogs.GetBySlug(ctx, tt.viewer, draft.Slug)
			if tt.wantKind != "" {
				assert.True(t, domain.IsKind(err, tt.wantKind), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, draft.ID, blog.ID)
		})
	}

	_, err := f.blogs.GetBySlug(ctx, f.admin.ID, "missing")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestBlogService_List(t *testing.T) {
	f := newBlogFixture()
	f.create(t, domain.BlogStatusPublished)
	f.create(t, domain.BlogStatusDraft)
	ctx := context.Background()

	tests := []struct {
		name   string
		input  service.ListBlogsInput
		expect int64
	}{
		{name: "anonymous", input: service.ListBlogsInput{Limit: 10}, expect: 1},
		{name: "plain user", input: service.ListBlogsInput{ViewerID: f.reader.ID, Limit: 10}, expect: 1},
		{name: "admin", input: service.ListBlogsInput{ViewerID: f.admin.ID, Limit: 10}, expect: 2},
		{name: "own listing", input: service.ListBlogsInput{ViewerID: f.author.ID, AuthorID: &f.author.ID, Limit: 10}, expect: 2},
		{name: "someone else's listing", input: service.ListBlogsInput{ViewerID: f.reader.ID, AuthorID: &f.author.ID, Limit: 10}, expect: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := f.blogs.List(ctx, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expect, total)
		})
	}
}

func TestBlogService_UpdateOwnership(t *testing.T) {
	f := newBlogFixture()
	blog := f.create(t, domain.BlogStatusDraft)
	ctx := context.Background()
	title := "New title"

	_, err := f.blogs.Update(ctx, f.reader.ID, blog.Slug, service.UpdateBlogInput{Title: &title})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindAuthorization))
	assert.Equal(t, "You do not have permission to update this blog", err.(*domain.Error).Message)

	published := domain.BlogStatusPublished
	updated, err := f.blogs.Update(ctx, f.admin.ID, blog.Slug, service.UpdateBlogInput{Title: &title, Status: &published})
	require.NoError(t, err)
	assert.Equal(t, title, updated.Title)
	assert.Equal(t, blog.Slug, updated.Slug)
	require.NotNil(t, updated.PublishedAt)
	firstPublished := *updated.PublishedAt

	draft := domain.BlogStatusDraft
	_, err = f.blogs.Update(ctx, f.author.ID, blog.Slug, service.UpdateBlogInput{Status: &draft})
	require.NoError(t, err)
	again, err := f.blogs.Update(ctx, f.author.ID, blog.Slug, service.UpdateBlogInput{Status: &published})
	require.NoError(t, err)
	assert.Equal(t, firstPublished, *again.PublishedAt, "publish time is stamped once")
}

func TestBlogService_Delete(t *testing.T) {
	f := newBlogFixture()
	blog := f.create(t, domain.BlogStatusPublished)
	ctx := context.Background()

	err := f.blogs.Delete(ctx, f.reader.ID, blog.ID)
	assert.True(t, domain.IsKind(err, domain.KindAuthorization))

	require.NoError(t, f.blogs.Delete(ctx, f.author.ID, blog.ID))

	err = f.blogs.Delete(ctx, f.author.ID, blog.ID)
	var derr *domain.Error
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, domain.KindNotFound, derr.Kind)
	assert.Equal(t, service.MsgBlogNotFound, derr.Message)

	err = f.blogs.Delete(ctx, f.reader.ID, uuid.New())
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}
