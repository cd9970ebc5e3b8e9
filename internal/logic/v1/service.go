package v1

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/customer-service/internal/core/domain"
	"github.com/duynhne/customer-service/middleware"
)

// CustomerService holds the business logic for the customer aggregate:
// payload population, validation, ownership authorization and explicit
// persistence calls.
type CustomerService struct {
	customers domain.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customers domain.CustomerRepository) *CustomerService {
	return &CustomerService{customers: customers}
}

// ListCustomers retrieves every customer. No pagination, no filtering.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	ctx, span := middleware.StartSpan(ctx, "customer.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	customers, err := s.customers.FindAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list customers: %w", err)
	}

	span.SetAttributes(attribute.Int("customer.count", len(customers)))
	return customers, nil
}

// GetCustomer retrieves a customer by id.
func (s *CustomerService) GetCustomer(ctx context.Context, id int) (*domain.Customer, error) {
	ctx, span := middleware.StartSpan(ctx, "customer.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("customer.id", id),
	))
	defer span.End()

	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return customer, nil
}

// CreateCustomer builds a new aggregate from the payload, assigns the
// owner, validates and persists it. Field-level violations come back
// as *domain.ValidationError, not a hard failure.
func (s *CustomerService) CreateCustomer(ctx context.Context, payload *domain.CustomerPayload, principal domain.Principal) (*domain.Customer, error) {
	ctx, span := middleware.StartSpan(ctx, "customer.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("owner.id", principal.ID),
	))
	defer span.End()

	customer := domain.NewCustomer(principal.ID)
	if err := payload.Apply(customer); err != nil {
		span.SetAttributes(attribute.Bool("customer.created", false))
		return nil, err
	}

	if violations := customer.Validate(); len(violations) > 0 {
		span.SetAttributes(attribute.Bool("customer.created", false))
		return nil, &domain.ValidationError{Violations: violations}
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("save customer: %w", err)
	}

	span.SetAttributes(
		attribute.Int("customer.id", customer.ID),
		attribute.Bool("customer.created", true),
	)
	span.AddEvent("customer.created")

	return customer, nil
}

// UpdateCustomer merges the payload into an existing aggregate after
// the ownership check. Emails and phone numbers from the payload are
// added, never removed; the address is replaced. Gates run in order:
// look-up, then authorization, then payload checks — a nil payload
// (unparsable body) only surfaces as ErrMalformedPayload once the
// first two have passed.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id int, payload *domain.CustomerPayload, principal domain.Principal) (*domain.Customer, error) {
	ctx, span := middleware.StartSpan(ctx, "customer.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("customer.id", id),
	))
	defer span.End()

	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if !principal.CanManage(customer) {
		span.SetAttributes(attribute.Bool("customer.authorized", false))
		return nil, fmt.Errorf("update customer %d as user %d: %w", id, principal.ID, domain.ErrForbidden)
	}

	if payload == nil {
		return nil, fmt.Errorf("update customer %d: %w", id, domain.ErrMalformedPayload)
	}

	if err := payload.Apply(customer); err != nil {
		return nil, err
	}

	if violations := customer.Validate(); len(violations) > 0 {
		return nil, &domain.ValidationError{Violations: violations}
	}

	if err := s.customers.Save(ctx, customer); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("save customer: %w", err)
	}

	span.SetAttributes(attribute.Bool("customer.updated", true))
	return customer, nil
}

// DeleteCustomer removes a customer and all of its children after the
// ownership check.
func (s *CustomerService) DeleteCustomer(ctx context.Context, id int, principal domain.Principal) error {
	ctx, span := middleware.StartSpan(ctx, "customer.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.Int("customer.id", id),
	))
	defer span.End()

	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if !principal.CanManage(customer) {
		span.SetAttributes(attribute.Bool("customer.authorized", false))
		return fmt.Errorf("delete customer %d as user %d: %w", id, principal.ID, domain.ErrForbidden)
	}

	if err := s.customers.Delete(ctx, customer); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete customer: %w", err)
	}

	span.SetAttributes(attribute.Bool("customer.deleted", true))
	return nil
}
