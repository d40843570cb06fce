// Package enquiry manages customer enquiries: a plain record store with no
// upload step.
package enquiry

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/nke/backend/internal/entity"
	"github.com/nke/backend/internal/recordstore"
)

// Collection is the Record Store collection owned by this package.
const Collection = "enquiries"

// Enquiry statuses.
const (
	StatusPending   = "pending"
	StatusResponded = "responded"
	StatusClosed    = "closed"
)

// ErrInvalidStatus is returned for a status outside the allowed set.
var ErrInvalidStatus = errors.New("invalid status")

var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Enquiry is one customer enquiry.
type Enquiry struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Company   string `json:"company,omitempty"`
	Message   string `json:"message"`
	Product   string `json:"product"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Validate returns every violation, in order.
func (e *Enquiry) Validate() []string {
	errs := entity.Missing(
		entity.Require("Name is required", e.Name != ""),
		entity.Require("Email is required", e.Email != ""),
		entity.Require("Phone is required", e.Phone != ""),
		entity.Require("Message is required", e.Message != ""),
		entity.Require("Product is required", e.Product != ""),
	)
	if e.Email != "" && !emailRegex.MatchString(e.Email) {
		errs = append(errs, "Invalid email address")
	}
	return errs
}

// Service contains business logic for enquiries.
type Service struct {
	enquiries recordstore.Collection
	log       *zap.SugaredLogger
}

// NewService creates an enquiry Service on the given record store.
func NewService(rs recordstore.Store, log *zap.SugaredLogger) *Service {
	return &Service{enquiries: rs.Collection(Collection), log: log}
}

// Input carries the submitted enquiry fields.
type Input struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Message string `json:"message"`
	Product string `json:"product"`
}

// Submit validates and stores a new enquiry with status pending.
func (s *Service) Submit(ctx context.Context, in Input) (*Enquiry, error) {
	now := entity.Timestamp()
	e := &Enquiry{
		Name:      strings.TrimSpace(in.Name),
		Email:     strings.TrimSpace(in.Email),
		Phone:     strings.TrimSpace(in.Phone),
		Company:   strings.TrimSpace(in.Company),
		Message:   strings.TrimSpace(in.Message),
		Product:   strings.TrimSpace(in.Product),
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := entity.Validation(e.Validate()); err != nil {
		return nil, err
	}

	key, err := s.enquiries.Push(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("store enquiry: %w", err)
	}
	e.ID = key

	s.log.Infow("enquiry created", "id", key)
	return e, nil
}

// List returns all enquiries newest-first.
func (s *Service) List(ctx context.Context) ([]Enquiry, error) {
	recs, err := s.enquiries.All(ctx)
	if err != nil {
		return nil, err
	}

	enquiries := make([]Enquiry, 0, len(recs))
	for _, rec := range recs {
		var e Enquiry
		if err := rec.Decode(&e); err != nil {
			return nil, fmt.Errorf("decode enquiry %s: %w", rec.Key, err)
		}
		e.ID = rec.Key
		enquiries = append(enquiries, e)
	}

	for i, j := 0, len(enquiries)-1; i < j; i, j = i+1, j-1 {
		enquiries[i], enquiries[j] = enquiries[j], enquiries[i]
	}
	return enquiries, nil
}

// UpdateStatus moves an enquiry to one of the allowed statuses.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	switch status {
	case StatusPending, StatusResponded, StatusClosed:
	default:
		return ErrInvalidStatus
	}

	err := s.enquiries.Update(ctx, id, map[string]any{
		"status":    status,
		"updatedAt": entity.Timestamp(),
	})
	if err != nil {
		return err
	}

	s.log.Infow("enquiry status updated", "id", id, "status", status)
	return nil
}
