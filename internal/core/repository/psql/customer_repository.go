package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	database "github.com/duynhne/customer-service/internal/core"
	"github.com/duynhne/customer-service/internal/core/domain"
)

// CustomerRepository implements domain.CustomerRepository using
// PostgreSQL. The aggregate (customer + address + emails + phones) is
// loaded and stored as a whole; Save and Delete run inside a single
// transaction so partial state is never committed.
type CustomerRepository struct{}

// NewCustomerRepository creates a new PostgreSQL customer repository
func NewCustomerRepository() *CustomerRepository {
	return &CustomerRepository{}
}

// FindAll retrieves every customer with its children loaded.
func (r *CustomerRepository) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	db := database.GetPool()
	if db == nil {
		return nil, errors.New("database connection not available")
	}

	rows, err := db.Query(ctx, `SELECT id, first_name, last_name, owner_id FROM customer ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []*domain.Customer
	byID := map[int]*domain.Customer{}
	for rows.Next() {
		c := &domain.Customer{Emails: []*domain.Email{}, PhoneNumbers: []*domain.PhoneNumber{}}
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.OwnerID); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}
	if len(customers) == 0 {
		return []*domain.Customer{}, nil
	}

	ids := make([]int32, 0, len(customers))
	for _, c := range customers {
		ids = append(ids, int32(c.ID))
	}
	if err := r.loadChildren(ctx, db, ids, byID); err != nil {
		return nil, err
	}

	return customers, nil
}

// FindByID retrieves one customer with its children loaded.
// Returns domain.ErrCustomerNotFound when no row exists.
func (r *CustomerRepository) FindByID(ctx context.Context, id int) (*domain.Customer, error) {
	db := database.GetPool()
	if db == nil {
		return nil, errors.New("database connection not available")
	}

	c := &domain.Customer{Emails: []*domain.Email{}, PhoneNumbers: []*domain.PhoneNumber{}}
	query := `SELECT id, first_name, last_name, owner_id FROM customer WHERE id = $1`
	err := db.QueryRow(ctx, query, id).Scan(&c.ID, &c.FirstName, &c.LastName, &c.OwnerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("find customer %d: %w", id, domain.ErrCustomerNotFound)
		}
		return nil, fmt.Errorf("query customer: %w", err)
	}

	if err := r.loadChildren(ctx, db, []int32{int32(c.ID)}, map[int]*domain.Customer{c.ID: c}); err != nil {
		return nil, err
	}

	return c, nil
}

// Save persists the aggregate and all of its children atomically.
// New children (id 0) are inserted, surviving children updated, and
// email/phone rows detached from the collections are deleted.
func (r *CustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	db := database.GetPool()
	if db == nil {
		return errors.New("database connection not available")
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if customer.ID == 0 {
		query := `INSERT INTO customer (first_name, last_name, owner_id) VALUES ($1, $2, $3) RETURNING id`
		if err := tx.QueryRow(ctx, query, customer.FirstName, customer.LastName, customer.OwnerID).Scan(&customer.ID); err != nil {
			return fmt.Errorf("insert customer: %w", err)
		}
	} else {
		query := `UPDATE customer SET first_name = $1, last_name = $2 WHERE id = $3`
		if _, err := tx.Exec(ctx, query, customer.FirstName, customer.LastName, customer.ID); err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
	}

	if err := r.saveAddress(ctx, tx, customer); err != nil {
		return err
	}
	if err := r.saveEmails(ctx, tx, customer); err != nil {
		return err
	}
	if err := r.savePhoneNumbers(ctx, tx, customer); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Delete removes the aggregate, cascading to address, emails and
// phone numbers, atomically.
func (r *CustomerRepository) Delete(ctx context.Context, customer *domain.Customer) error {
	db := database.GetPool()
	if db == nil {
		return errors.New("database connection not available")
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, query := range []string{
		`DELETE FROM customer_phone_number WHERE customer_id = $1`,
		`DELETE FROM customer_email WHERE customer_id = $1`,
		`DELETE FROM customer_address WHERE customer_id = $1`,
		`DELETE FROM customer WHERE id = $1`,
	} {
		if _, err := tx.Exec(ctx, query, customer.ID); err != nil {
			return fmt.Errorf("delete customer %d: %w", customer.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *CustomerRepository) saveAddress(ctx context.Context, tx pgx.Tx, customer *domain.Customer) error {
	address := customer.Address
	if address == nil {
		return nil
	}
	address.CustomerID = customer.ID

	if address.ID == 0 {
		query := `INSERT INTO customer_address (customer_id, street, apartment, city, country, zip_code)
		          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
		err := tx.QueryRow(ctx, query,
			address.CustomerID, address.Street, address.Apartment, address.City, address.Country, address.ZipCode,
		).Scan(&address.ID)
		if err != nil {
			return fmt.Errorf("insert address: %w", err)
		}
		return nil
	}

	query := `UPDATE customer_address SET street = $1, apartment = $2, city = $3, country = $4, zip_code = $5 WHERE id = $6`
	if _, err := tx.Exec(ctx, query,
		address.Street, address.Apartment, address.City, address.Country, address.ZipCode, address.ID,
	); err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	return nil
}

func (r *CustomerRepository) saveEmails(ctx context.Context, tx pgx.Tx, customer *domain.Customer) error {
	kept := make([]int32, 0, len(customer.Emails))
	for _, e := range customer.Emails {
		if e.ID != 0 {
			kept = append(kept, int32(e.ID))
		}
	}

	// Orphan removal: rows no longer in the collection are deleted.
	query := `DELETE FROM customer_email WHERE customer_id = $1 AND NOT (id = ANY($2))`
	if _, err := tx.Exec(ctx, query, customer.ID, kept); err != nil {
		return fmt.Errorf("remove orphaned emails: %w", err)
	}

	for _, e := range customer.Emails {
		if e.ID != 0 {
			continue
		}
		e.CustomerID = customer.ID
		insert := `INSERT INTO customer_email (customer_id, email) VALUES ($1, $2) RETURNING id`
		if err := tx.QueryRow(ctx, insert, e.CustomerID, e.Email).Scan(&e.ID); err != nil {
			if isEmailTaken(err) {
				return emailInUseError(e.Email)
			}
			return fmt.Errorf("insert email: %w", err)
		}
	}
	return nil
}

func (r *CustomerRepository) savePhoneNumbers(ctx context.Context, tx pgx.Tx, customer *domain.Customer) error {
	kept := make([]int32, 0, len(customer.PhoneNumbers))
	for _, p := range customer.PhoneNumbers {
		if p.ID != 0 {
			kept = append(kept, int32(p.ID))
		}
	}

	query := `DELETE FROM customer_phone_number WHERE customer_id = $1 AND NOT (id = ANY($2))`
	if _, err := tx.Exec(ctx, query, customer.ID, kept); err != nil {
		return fmt.Errorf("remove orphaned phone numbers: %w", err)
	}

	for _, p := range customer.PhoneNumbers {
		if p.ID != 0 {
			continue
		}
		p.CustomerID = customer.ID
		insert := `INSERT INTO customer_phone_number (customer_id, phone_number) VALUES ($1, $2) RETURNING id`
		if err := tx.QueryRow(ctx, insert, p.CustomerID, p.PhoneNumber).Scan(&p.ID); err != nil {
			return fmt.Errorf("insert phone number: %w", err)
		}
	}
	return nil
}

// isEmailTaken reports whether err is the unique violation on the
// customer_email table: the same email already belongs to another
// customer.
func isEmailTaken(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "uniq_customer_email_email"
}

// emailInUseError turns the unique violation into a field-level
// validation failure with the documented wording.
func emailInUseError(email string) error {
	return &domain.ValidationError{Violations: []domain.Violation{{
		Field:   "email",
		Message: fmt.Sprintf("The email '%s' is already in use.", email),
	}}}
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *CustomerRepository) loadChildren(ctx context.Context, db querier, ids []int32, byID map[int]*domain.Customer) error {
	rows, err := db.Query(ctx,
		`SELECT id, customer_id, street, apartment, city, country, zip_code FROM customer_address WHERE customer_id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("query addresses: %w", err)
	}
	for rows.Next() {
		a := &domain.Address{}
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Street, &a.Apartment, &a.City, &a.Country, &a.ZipCode); err != nil {
			rows.Close()
			return fmt.Errorf("scan address: %w", err)
		}
		if c, ok := byID[a.CustomerID]; ok {
			c.Address = a
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate addresses: %w", err)
	}

	rows, err = db.Query(ctx,
		`SELECT id, customer_id, email FROM customer_email WHERE customer_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("query emails: %w", err)
	}
	for rows.Next() {
		e := &domain.Email{}
		if err := rows.Scan(&e.ID, &e.CustomerID, &e.Email); err != nil {
			rows.Close()
			return fmt.Errorf("scan email: %w", err)
		}
		if c, ok := byID[e.CustomerID]; ok {
			c.Emails = append(c.Emails, e)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate emails: %w", err)
	}

	rows, err = db.Query(ctx,
		`SELECT id, customer_id, phone_number FROM customer_phone_number WHERE customer_id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return fmt.Errorf("query phone numbers: %w", err)
	}
	for rows.Next() {
		p := &domain.PhoneNumber{}
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.PhoneNumber); err != nil {
			rows.Close()
			return fmt.Errorf("scan phone number: %w", err)
		}
		if c, ok := byID[p.CustomerID]; ok {
			c.PhoneNumbers = append(c.PhoneNumbers, p)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate phone numbers: %w", err)
	}

	return nil
}
