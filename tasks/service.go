package tasks

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-identity-bridge/identity"
	apperrors "github.com/jrsteele09/go-identity-bridge/internal/errors"
)

const defaultStoreTimeout = 5 * time.Second

// OwnerGuard confirms the caller exists in the secondary store before their tasks are touched
type OwnerGuard interface {
	EnsureProfile(ctx context.Context, id identity.VerifiedIdentity) error
}

// Service scopes every task operation to the verified caller
type Service struct {
	repo    Repo
	owners  OwnerGuard
	timeout time.Duration
	nowFunc func() time.Time
}

type ServiceOption func(*Service)

func WithStoreTimeout(timeout time.Duration) ServiceOption {
	return func(s *Service) {
		s.timeout = timeout
	}
}

func WithNowFunc(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.nowFunc = now
	}
}

func NewService(repo Repo, owners OwnerGuard, options ...ServiceOption) *Service {
	s := &Service{
		repo:    repo,
		owners:  owners,
		timeout: defaultStoreTimeout,
		nowFunc: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// List returns the caller's tasks, never nil
func (s *Service) List(ctx context.Context, caller identity.VerifiedIdentity) ([]Task, error) {
	if err := s.authorize(ctx, caller); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	list, err := s.repo.ListByOwner(ctx, caller.SubjectID)
	if err != nil {
		return nil, storeError(err)
	}
	if list == nil {
		list = []Task{}
	}
	return list, nil
}

// Create validates and stores a task owned by the caller.
// occursAt is an RFC 3339 timestamp; fractional seconds are accepted.
func (s *Service) Create(ctx context.Context, caller identity.VerifiedIdentity, description, occursAt string) (Task, error) {
	if err := s.authorize(ctx, caller); err != nil {
		return Task{}, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, apperrors.Wrapf(apperrors.ErrValidation, "description is required")
	}
	if strings.TrimSpace(occursAt) == "" {
		return Task{}, apperrors.Wrapf(apperrors.ErrValidation, "date is required")
	}
	when, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(occursAt))
	if err != nil {
		return Task{}, apperrors.Wrapf(apperrors.ErrValidation, "date %q is not an RFC 3339 timestamp", occursAt)
	}

	task := Task{
		ID:          uuid.NewString(),
		OwnerID:     caller.SubjectID,
		Description: description,
		OccursAt:    when.UTC(),
		CreatedAt:   s.nowFunc().UTC(),
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	stored, err := s.repo.Insert(ctx, task)
	if err != nil {
		return Task{}, storeError(err)
	}
	return stored, nil
}

// Delete removes one of the caller's tasks
func (s *Service) Delete(ctx context.Context, caller identity.VerifiedIdentity, taskID string) error {
	if err := s.authorize(ctx, caller); err != nil {
		return err
	}
	if strings.TrimSpace(taskID) == "" {
		return apperrors.Wrapf(apperrors.ErrValidation, "task id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.repo.Delete(ctx, caller.SubjectID, taskID); err != nil {
		return storeError(err)
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, caller identity.VerifiedIdentity) error {
	if err := caller.Check(s.nowFunc()); err != nil {
		return err
	}
	return s.owners.EnsureProfile(ctx, caller)
}

// storeError passes ownership outcomes through and classifies everything else as a store failure
func storeError(err error) error {
	if apperrors.Is(err, apperrors.ErrNotFound) || apperrors.Is(err, apperrors.ErrForbidden) {
		return err
	}
	return apperrors.Join(apperrors.ErrSync, err)
}
