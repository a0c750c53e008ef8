package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tripnest/tripnest-backend/internal/auth/domain"
	"github.com/tripnest/tripnest-backend/internal/auth/repository"
	"github.com/tripnest/tripnest-backend/internal/backend"
	"github.com/tripnest/tripnest-backend/internal/session"
)

// LinkageSampleSize is how many identities VerifyLinkage inspects.
const LinkageSampleSize = 5

type IdentityLister interface {
	ListUsers(ctx context.Context, limit int) ([]backend.User, error)
}

type ProfileService struct {
	repo       *repository.ProfileRepository
	admin      *backend.Client
	identities IdentityLister
	events     session.Publisher
	now        func() time.Time
}

func NewProfileService(repo *repository.ProfileRepository, admin *backend.Client, identities IdentityLister, events session.Publisher) *ProfileService {
	if events == nil {
		events = session.NopPublisher{}
	}
	return &ProfileService{
		repo:       repo,
		admin:      admin,
		identities: identities,
		events:     events,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateOrUpdate creates the profile for req.UserID or updates name and email of the
// existing one, keeping stored values for fields the request leaves out.
// It runs with admin privileges and performs no session check.
func (s *ProfileService) CreateOrUpdate(ctx context.Context, req domain.CreateProfileRequest) (*domain.Profile, domain.Action, error) {
	var (
		out    *domain.Profile
		action domain.Action
	)

	err := s.admin.WithTx(ctx, func(tx *sql.Tx) error {
		existing, err := s.repo.GetByID(ctx, tx, req.UserID)
		if err == nil {
			fullName := existing.FullName
			if req.FullName != nil {
				fullName = *req.FullName
			}
			email := existing.Email
			if req.Email != nil {
				email = *req.Email
			}

			out, err = s.repo.UpdateContact(ctx, tx, req.UserID, fullName, email, s.now())
			action = domain.ActionUpdated
			return err
		}
		if !errors.Is(err, domain.ErrProfileNotFound) {
			return err
		}

		now := s.now()
		out, err = s.repo.Insert(ctx, tx, &domain.Profile{
			ID:        req.UserID,
			FullName:  deref(req.FullName),
			Email:     deref(req.Email),
			CreatedAt: now,
			UpdatedAt: now,
		})
		action = domain.ActionCreated
		return err
	})
	if err != nil {
		return nil, "", err
	}

	return out, action, nil
}

// UpsertForSession upserts the profile of userID, which must be the session's own user.
func (s *ProfileService) UpsertForSession(ctx context.Context, client *backend.Client, userID string, data domain.ProfileData) (*domain.Profile, error) {
	u := client.User(ctx)
	if u == nil || u.ID != userID {
		return nil, domain.ErrSessionMismatch
	}

	now := s.now()
	var out *domain.Profile
	err := client.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = s.repo.Upsert(ctx, tx, &domain.Profile{
			ID:        userID,
			FullName:  data.FullName,
			Email:     data.Email,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.announce(ctx, u.ID, out)
	return out, nil
}

// UpdateOwn changes name and avatar of the session user. Any id in the request is ignored.
func (s *ProfileService) UpdateOwn(ctx context.Context, client *backend.Client, req domain.UpdateProfileRequest) ([]domain.Profile, error) {
	u := client.User(ctx)
	if u == nil {
		return nil, domain.ErrUnauthenticated
	}

	var out []domain.Profile
	err := client.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = s.repo.UpdateNameAvatar(ctx, tx, u.ID, req.FullName, req.AvatarURL, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	if len(out) > 0 {
		s.announce(ctx, u.ID, &out[0])
	}
	return out, nil
}

// GetForSession returns the profile of the session user.
func (s *ProfileService) GetForSession(ctx context.Context, client *backend.Client) (*backend.User, *domain.Profile, error) {
	u := client.User(ctx)
	if u == nil {
		return nil, nil, domain.ErrUnauthenticated
	}

	var out *domain.Profile
	err := client.WithTx(ctx, func(tx *sql.Tx) error {
		var err error
		out, err = s.repo.GetByID(ctx, tx, u.ID)
		return err
	})
	if errors.Is(err, domain.ErrProfileNotFound) {
		return u, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return u, out, nil
}

// VerifyLinkage samples identities and reports which of them have a profile.
// Profile lookups run concurrently; a failed lookup is recorded on its entry only.
func (s *ProfileService) VerifyLinkage(ctx context.Context) (*domain.LinkageReport, error) {
	users, err := s.identities.ListUsers(ctx, LinkageSampleSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list auth users: %w", err)
	}

	db, err := s.admin.DB()
	if err != nil {
		return nil, err
	}

	results := make([]domain.LinkageResult, len(users))
	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(i int, u backend.User) {
			defer wg.Done()

			res := domain.LinkageResult{AuthUser: u}
			p, err := s.repo.GetByID(ctx, db, u.ID)
			switch {
			case err == nil:
				res.HasProfile = true
				res.Profile = p
			case errors.Is(err, domain.ErrProfileNotFound):
			default:
				log.Printf("[linkage] profile lookup for %s failed: %v", u.ID, err)
				msg := err.Error()
				res.Error = &msg
			}
			results[i] = res
		}(i, u)
	}
	wg.Wait()

	allLinked := true
	for _, r := range results {
		if !r.HasProfile {
			allLinked = false
			break
		}
	}

	return &domain.LinkageReport{Results: results, AllLinked: allLinked}, nil
}

func (s *ProfileService) announce(ctx context.Context, userID string, p *domain.Profile) {
	ev := session.Event{
		Type:   session.EventUserUpdated,
		UserID: userID,
		User:   &backend.User{ID: userID, Email: p.Email},
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		log.Printf("[profile] failed to publish session event: %v", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
