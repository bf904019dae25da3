// Package memory is an in-memory implementation of the repository ports.
// It backs the test suite and DB-less runs of the server. Writes are
// guarded by a store-wide mutex; ledger postings additionally take a
// per-account lock for the duration of the unit of work, so postings to the
// same account serialize while postings to different accounts proceed
// independently.
//
// The store has no rollback: a failure mid-unit leaves prior writes applied,
// which is exactly the "partial posting" condition the ledger engine reports.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/account"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/consent"
	"github.com/LucasAniceto/PaulsenIF/pkg/domain/customer"
	"github.com/LucasAniceto/PaulsenIF/pkg/repository"
	"github.com/LucasAniceto/PaulsenIF/pkg/sequence"
)

// Store holds all entities in maps keyed by id.
type Store struct {
	mu           sync.RWMutex
	customers    map[string]*customer.Customer
	accounts     map[string]*account.Account
	transactions map[string]*account.Transaction
	consents     map[string]*consent.Consent
	counters     map[string]int64

	lockMu       sync.Mutex
	accountLocks map[string]*sync.Mutex
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		customers:    make(map[string]*customer.Customer),
		accounts:     make(map[string]*account.Account),
		transactions: make(map[string]*account.Transaction),
		consents:     make(map[string]*consent.Consent),
		counters:     make(map[string]int64),
		accountLocks: make(map[string]*sync.Mutex),
	}
}

// uow tracks the per-account locks taken during one Do call.
type uow struct {
	store *Store
	held  map[string]*sync.Mutex
}

// Do runs fn with a unit of work that releases its account locks on return.
func (s *Store) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	u := &uow{store: s, held: make(map[string]*sync.Mutex)}
	defer u.release()
	return fn(u)
}

// Accessors on the bare store are for reads outside a transaction boundary;
// GetForUpdate only serializes inside Do.
func (s *Store) Customers() repository.CustomerRepository       { return &customerRepo{s} }
func (s *Store) Accounts() repository.AccountRepository         { return &accountRepo{s, nil} }
func (s *Store) Transactions() repository.TransactionRepository { return &transactionRepo{s} }
func (s *Store) Consents() repository.ConsentRepository         { return &consentRepo{s} }
func (s *Store) Counters() sequence.CounterStore                { return &counterStore{s} }

func (u *uow) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(u)
}

func (u *uow) Customers() repository.CustomerRepository       { return &customerRepo{u.store} }
func (u *uow) Accounts() repository.AccountRepository         { return &accountRepo{u.store, u} }
func (u *uow) Transactions() repository.TransactionRepository { return &transactionRepo{u.store} }
func (u *uow) Consents() repository.ConsentRepository         { return &consentRepo{u.store} }
func (u *uow) Counters() sequence.CounterStore                { return &counterStore{u.store} }

func (u *uow) lockAccount(id string) {
	if _, ok := u.held[id]; ok {
		return
	}
	u.store.lockMu.Lock()
	m, ok := u.store.accountLocks[id]
	if !ok {
		m = &sync.Mutex{}
		u.store.accountLocks[id] = m
	}
	u.store.lockMu.Unlock()
	m.Lock()
	u.held[id] = m
}

func (u *uow) release() {
	for _, m := range u.held {
		m.Unlock()
	}
	u.held = nil
}

type counterStore struct{ s *Store }

func (c *counterStore) IncrementAndGet(ctx context.Context, class string) (int64, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	c.s.counters[class]++
	return c.s.counters[class], nil
}

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(ctx context.Context, c *customer.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.customers {
		if existing.CPF == c.CPF {
			return fmt.Errorf("%w: CPF already registered", domain.ErrAlreadyExists)
		}
		if existing.Email == c.Email {
			return fmt.Errorf("%w: email already registered", domain.ErrAlreadyExists)
		}
	}
	r.s.customers[c.ID] = cloneCustomer(c)
	return nil
}

func (r *customerRepo) Get(ctx context.Context, id string) (*customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", domain.ErrNotFound, id)
	}
	return cloneCustomer(c), nil
}

func (r *customerRepo) FindByCPF(ctx context.Context, cpf string) (*customer.Customer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.customers {
		if c.CPF == cpf {
			return cloneCustomer(c), nil
		}
	}
	return nil, fmt.Errorf("%w: customer with CPF %s", domain.ErrNotFound, cpf)
}

func (r *customerRepo) AddAccount(ctx context.Context, customerID, accountID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[customerID]
	if !ok {
		return fmt.Errorf("%w: customer %s", domain.ErrNotFound, customerID)
	}
	c.AccountIDs = append(c.AccountIDs, accountID)
	return nil
}

type accountRepo struct {
	s *Store
	u *uow
}

func (r *accountRepo) Create(ctx context.Context, a *account.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.accounts {
		if existing.Branch == a.Branch && existing.Number == a.Number {
			return fmt.Errorf("%w: account %s/%s already exists", domain.ErrAlreadyExists, a.Branch, a.Number)
		}
	}
	r.s.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r *accountRepo) Get(ctx context.Context, id string) (*account.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", domain.ErrNotFound, id)
	}
	return cloneAccount(a), nil
}

func (r *accountRepo) GetForUpdate(ctx context.Context, id string) (*account.Account, error) {
	if r.u != nil {
		// Existence check first so a missing account does not leave a lock
		// entry behind.
		if _, err := r.Get(ctx, id); err != nil {
			return nil, err
		}
		r.u.lockAccount(id)
	}
	return r.Get(ctx, id)
}

func (r *accountRepo) Update(ctx context.Context, a *account.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.ID]; !ok {
		return fmt.Errorf("%w: account %s", domain.ErrNotFound, a.ID)
	}
	r.s.accounts[a.ID] = cloneAccount(a)
	return nil
}

func (r *accountRepo) ListByCustomer(ctx context.Context, customerID string) ([]*account.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*account.Account
	for _, a := range r.s.accounts {
		if a.CustomerID == customerID {
			out = append(out, cloneAccount(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *accountRepo) FindByBranchAndNumber(ctx context.Context, branch, number string) (*account.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.accounts {
		if a.Branch == branch && a.Number == number {
			return cloneAccount(a), nil
		}
	}
	return nil, fmt.Errorf("%w: account %s/%s", domain.ErrNotFound, branch, number)
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Create(ctx context.Context, t *account.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *t
	r.s.transactions[t.ID] = &cp
	return nil
}

func (r *transactionRepo) ListByAccount(ctx context.Context, accountID string) ([]*account.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*account.Transaction
	for _, t := range r.s.transactions {
		if t.AccountID == accountID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type consentRepo struct{ s *Store }

func (r *consentRepo) Create(ctx context.Context, c *consent.Consent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.consents[c.ID] = cloneConsent(c)
	return nil
}

func (r *consentRepo) Get(ctx context.Context, id string) (*consent.Consent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.consents[id]
	if !ok {
		return nil, fmt.Errorf("%w: consent %s", domain.ErrNotFound, id)
	}
	return cloneConsent(c), nil
}

func (r *consentRepo) UpdateStatus(ctx context.Context, id string, status consent.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.consents[id]
	if !ok {
		return fmt.Errorf("%w: consent %s", domain.ErrNotFound, id)
	}
	c.Status = status
	return nil
}

func (r *consentRepo) FindUsable(ctx context.Context, customerID string, now time.Time) (*consent.Consent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var best *consent.Consent
	for _, c := range r.s.consents {
		if c.CustomerID != customerID || !c.UsableAt(now) {
			continue
		}
		if best == nil || c.CreatedAt.After(best.CreatedAt) ||
			(c.CreatedAt.Equal(best.CreatedAt) && c.ID > best.ID) {
			best = c
		}
	}
	if best == nil {
		return nil, nil
	}
	return cloneConsent(best), nil
}

func cloneCustomer(c *customer.Customer) *customer.Customer {
	cp := *c
	cp.AccountIDs = append([]string(nil), c.AccountIDs...)
	return &cp
}

func cloneAccount(a *account.Account) *account.Account {
	cp := *a
	cp.TransactionIDs = append([]string(nil), a.TransactionIDs...)
	return &cp
}

func cloneConsent(c *consent.Consent) *consent.Consent {
	cp := *c
	cp.Permissions = append([]consent.Permission(nil), c.Permissions...)
	return &cp
}
