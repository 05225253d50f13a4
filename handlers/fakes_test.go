package handlers_test

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"linklet/apperr"
	"linklet/models"
)

// In-memory stand-ins for the mongo stores. Mutations hold a mutex
// for their whole read-modify-write, mirroring the per-document
// atomicity the real store gets from single-document updates.

type memUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (s *memUserStore) Create(_ context.Context, name, email, rawPassword string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || rawPassword == "" {
		return nil, fmt.Errorf("%w: please provide all fields", apperr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, apperr.ErrDuplicateEmail
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user

	copied := *user
	return &copied, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *memUserStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *memUserStore) delete(id primitive.ObjectID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
}

type memPostStore struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]*models.Post
}

func newMemPostStore() *memPostStore {
	return &memPostStore{posts: make(map[primitive.ObjectID]*models.Post)}
}

func clonePost(p *models.Post) *models.Post {
	copied := *p
	copied.LikedBy = append([]primitive.ObjectID{}, p.LikedBy...)
	copied.Comments = append([]models.Comment{}, p.Comments...)
	return &copied
}

func (s *memPostStore) Create(_ context.Context, authorID primitive.ObjectID, authorName, content, imageURL string) (*models.Post, error) {
	now := time.Now()
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    authorID,
		Username:  authorName,
		Content:   content,
		ImageURL:  imageURL,
		Likes:     0,
		LikedBy:   []primitive.ObjectID{},
		Comments:  []models.Comment{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = post

	return clonePost(post), nil
}

func (s *memPostStore) GetByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return clonePost(p), nil
}

func (s *memPostStore) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	p.Content = content
	p.UpdatedAt = time.Now()
	return clonePost(p), nil
}

func (s *memPostStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *memPostStore) ToggleLike(_ context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return nil, apperr.ErrNotFound
	}

	liked := false
	for i, id := range p.LikedBy {
		if id == userID {
			p.LikedBy = append(p.LikedBy[:i], p.LikedBy[i+1:]...)
			if p.Likes > 0 {
				p.Likes--
			}
			liked = true
			break
		}
	}
	if !liked {
		p.LikedBy = append(p.LikedBy, userID)
		p.Likes++
	}
	p.UpdatedAt = time.Now()

	return clonePost(p), nil
}

func (s *memPostStore) AddComment(_ context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	p.Comments = append(p.Comments, comment)
	p.UpdatedAt = time.Now()
	return clonePost(p), nil
}

func (s *memPostStore) RemoveComment(_ context.Context, postID, commentID primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[postID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	for i, cm := range p.Comments {
		if cm.ID == commentID {
			p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
			p.UpdatedAt = time.Now()
			return clonePost(p), nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *memPostStore) ListAll(_ context.Context) ([]models.Post, error) {
	return s.list(func(*models.Post) bool { return true }), nil
}

func (s *memPostStore) ListByAuthor(_ context.Context, authorID primitive.ObjectID) ([]models.Post, error) {
	return s.list(func(p *models.Post) bool { return p.UserID == authorID }), nil
}

func (s *memPostStore) list(keep func(*models.Post) bool) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []models.Post{}
	for _, p := range s.posts {
		if keep(p) {
			out = append(out, *clonePost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
