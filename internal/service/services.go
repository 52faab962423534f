package service

import (
	"github.com/dom/blog-platform/internal/auth"
	"github.com/dom/blog-platform/internal/config"
	"github.com/dom/blog-platform/internal/repository"
	"github.com/sirupsen/logrus"
)

type Services struct {
	Tokens   *auth.TokenManager
	Sessions *SessionRegistry
	Access   *AccessControl
	Auth     *AuthService
	User     *UserService
	Blog     *BlogService
	Comment  *CommentService
	Like     *LikeService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, publisher EventPublisher, log logrus.FieldLogger) *Services {
	tokens := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	sessions := NewSessionRegistry(repos.Session, log)
	access := NewAccessControl(repos.User, log)

	return &Services{
		Tokens:   tokens,
		Sessions: sessions,
		Access:   access,
		Auth:     NewAuthService(repos.User, sessions, tokens, hasher, cfg, log),
		User:     NewUserService(repos.User, sessions, hasher, log),
		Blog:     NewBlogService(repos.Blog, access, log),
		Comment:  NewCommentService(repos.Comment, repos.Blog, access, publisher, log),
		Like:     NewLikeService(repos.Like, repos.Blog, repos.Comment, publisher, log),
	}
}
