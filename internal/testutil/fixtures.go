package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/dom/blog-platform/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	username string
	email    string
	password string
	role     domain.Role
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		username: fmt.Sprintf("user-%s", suffix),
		email:    fmt.Sprintf("user-%s@example.com", suffix),
		password: "testpassword123",
		role:     domain.RoleUser,
	}
}

// WithUsername sets the username
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.username = username
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithRole sets the role
func (b *UserBuilder) WithRole(role domain.Role) *UserBuilder {
	b.role = role
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     b.username,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Role:         b.role,
		SocialLinks:  datatypes.NewJSONType(domain.SocialLinks{}),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// Session is what a login hands back to a test: the access token plus the
// refresh cookie the server set.
type Session struct {
	User          *domain.User
	AccessToken   string
	RefreshCookie *http.Cookie
}

// BuildAndLogin creates the user in the database and logs in through the API
func (b *UserBuilder) BuildAndLogin(t *testing.T, ts *TestServer) *Session {
	t.Helper()

	user, password := b.Build(t, ts.DB.DB)
	session := Login(t, ts, user.Email, password)
	session.User = user
	return session
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	Status string `json:"status"`
	Token  string `json:"token"`
	Data   struct {
		User struct {
			Username string      `json:"username"`
			Email    string      `json:"email"`
			Role     domain.Role `json:"role"`
		} `json:"user"`
	} `json:"data"`
}

// Login posts credentials and fails the test unless the server answers 200
func Login(t *testing.T, ts *TestServer, email, password string) *Session {
	t.Helper()

	resp := PostJSON(t, ts.APIURL("/auth/login"), map[string]string{
		"email":    email,
		"password": password,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("login failed with %d: %s", resp.StatusCode, body)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	return &Session{
		AccessToken:   authResp.Token,
		RefreshCookie: RefreshCookie(resp),
	}
}

// RefreshCookie returns the refresh cookie set on resp, or nil
func RefreshCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == "refreshToken" {
			return c
		}
	}
	return nil
}

// PostJSON sends an unauthenticated JSON POST
func PostJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(CreateAuthenticatedRequest(t, http.MethodPost, url, body, ""))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// CreateAuthenticatedRequest builds a request with an optional JSON body and
// bearer token. An empty token leaves the Authorization header off.
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// Do sends req with the default client
func Do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

// BlogBuilder creates test blogs
type BlogBuilder struct {
	author  *domain.User
	title   string
	content string
	status  domain.BlogStatus
}

// NewBlogBuilder creates a new BlogBuilder with default values
func NewBlogBuilder() *BlogBuilder {
	return &BlogBuilder{
		title:   "A test post",
		content: "Body of the test post",
		status:  domain.BlogStatusPublished,
	}
}

// WithAuthor sets the author
func (b *BlogBuilder) WithAuthor(user *domain.User) *BlogBuilder {
	b.author = user
	return b
}

// WithTitle sets the title
func (b *BlogBuilder) WithTitle(title string) *BlogBuilder {
	b.title = title
	return b
}

// WithStatus sets the status
func (b *BlogBuilder) WithStatus(status domain.BlogStatus) *BlogBuilder {
	b.status = status
	return b
}

// Build creates the blog in the database. Without an author an admin is created.
func (b *BlogBuilder) Build(t *testing.T, db *gorm.DB) *domain.Blog {
	t.Helper()

	if b.author == nil {
		user, _ := NewUserBuilder().WithRole(domain.RoleAdmin).Build(t, db)
		b.author = user
	}

	now := time.Now()
	blog := &domain.Blog{
		ID:        uuid.New(),
		Title:     b.title,
		Slug:      fmt.Sprintf("test-post-%s", uuid.New().String()[:6]),
		Content:   b.content,
		Banner:    datatypes.NewJSONType(domain.Banner{}),
		AuthorID:  b.author.ID,
		Status:    domain.BlogStatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if b.status == domain.BlogStatusPublished {
		blog.Publish(now)
	}

	if err := db.Omit("Author").Create(blog).Error; err != nil {
		t.Fatalf("failed to create blog: %v", err)
	}

	return blog
}

// CommentBuilder creates test comments. It goes straight to the table and
// does not touch the blog's comments_count.
type CommentBuilder struct {
	blog    *domain.Blog
	user    *domain.User
	content string
}

// NewCommentBuilder creates a new CommentBuilder with default values
func NewCommentBuilder() *CommentBuilder {
	return &CommentBuilder{content: "Nice post"}
}

// WithBlog sets the parent blog
func (b *CommentBuilder) WithBlog(blog *domain.Blog) *CommentBuilder {
	b.blog = blog
	return b
}

// WithUser sets the commenter
func (b *CommentBuilder) WithUser(user *domain.User) *CommentBuilder {
	b.user = user
	return b
}

// Build creates the comment in the database
func (b *CommentBuilder) Build(t *testing.T, db *gorm.DB) *domain.Comment {
	t.Helper()

	if b.blog == nil {
		b.blog = NewBlogBuilder().Build(t, db)
	}
	if b.user == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.user = user
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		BlogID:    b.blog.ID,
		UserID:    b.user.ID,
		Content:   b.content,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Omit("Blog", "User").Create(comment).Error; err != nil {
		t.Fatalf("failed to create comment: %v", err)
	}

	return comment
}
