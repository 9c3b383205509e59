package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"chirp/internal/middleware"
	"chirp/internal/models"
	"chirp/internal/repository"
)

// PostService owns post content, reply threading and like membership.
type PostService struct {
	postRepo repository.PostRepository
	isStaff  func(ctx context.Context, userID uint) (bool, error)
}

// CreatePostInput carries the fields required to create a post.
type CreatePostInput struct {
	UserID       uint
	Text         string
	ReplyingToID *uint
}

func NewPostService(
	postRepo repository.PostRepository,
	isStaff func(ctx context.Context, userID uint) (bool, error),
) *PostService {
	return &PostService{
		postRepo: postRepo,
		isStaff:  isStaff,
	}
}

// CreatePost validates the text and author and persists a new post. The
// reply target, when present, must exist; it is attached as-is otherwise.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.UserID == 0 {
		return nil, models.NewInvalidArgumentError("Author is required")
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, models.NewInvalidArgumentError("Text is required")
	}
	if utf8.RuneCountInString(in.Text) > models.MaxPostTextLen {
		return nil, models.NewInvalidArgumentError("Text must not exceed 160 characters")
	}

	if in.ReplyingToID != nil {
		exists, err := s.postRepo.Exists(ctx, *in.ReplyingToID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, models.NewNotFoundError("Post", *in.ReplyingToID)
		}
	}

	post := &models.Post{
		Text:         in.Text,
		UserID:       in.UserID,
		ReplyingToID: in.ReplyingToID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ToggleLike flips the user's membership in the post's like set and reports
// the resulting state. Two sequential calls restore the original state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID uint) (bool, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, models.NewNotFoundError("Post", postID)
	}

	liked, err := s.postRepo.IsLiked(ctx, userID, postID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.postRepo.Unlike(ctx, userID, postID); err != nil {
			return false, err
		}
		middleware.LikeToggles.WithLabelValues("unliked").Inc()
		return false, nil
	}

	if err := s.postRepo.Like(ctx, userID, postID); err != nil {
		return false, err
	}
	middleware.LikeToggles.WithLabelValues("liked").Inc()
	return true, nil
}

// DeletePost removes a post and cascades to its transitive replies. The
// author or a staff member may perform it.
func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID, actorID)
	if err != nil {
		return err
	}

	if post.UserID != actorID {
		staff := false
		if s.isStaff != nil {
			staff, err = s.isStaff(ctx, actorID)
			if err != nil {
				return err
			}
		}
		if !staff {
			return models.NewForbiddenError("You may only delete your own posts")
		}
	}

	deleted, err := s.postRepo.Delete(ctx, postID)
	if err != nil {
		return err
	}
	middleware.PostsDeleted.Add(float64(deleted))
	return nil
}

func (s *PostService) GetPost(ctx context.Context, id, currentUserID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id, currentUserID)
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.List(ctx, limit, offset, currentUserID)
}

func (s *PostService) ListByUser(ctx context.Context, userID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID, limit, offset, currentUserID)
}

// ListReplies returns the direct replies of a post, oldest first.
func (s *PostService) ListReplies(ctx context.Context, postID uint, limit, offset int, currentUserID uint) ([]*models.Post, error) {
	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return s.postRepo.ListReplies(ctx, postID, limit, offset, currentUserID)
}
