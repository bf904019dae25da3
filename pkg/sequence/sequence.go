// Package sequence generates the human-readable entity identifiers.
//
// Each entity class has its own monotonic counter; the store's
// increment-and-get must be a single atomic read-modify-write so two
// concurrent generators never observe the same pre-increment value.
package sequence

import (
	"context"
	"fmt"

	"github.com/LucasAniceto/PaulsenIF/pkg/domain"
)

// Class is an entity category with its own independent counter.
type Class string

// Sequence classes.
const (
	ClassCustomer    Class = "customer"
	ClassAccount     Class = "account"
	ClassTransaction Class = "transaction"
)

var prefixes = map[Class]string{
	ClassCustomer:    "cus",
	ClassAccount:     "acc",
	ClassTransaction: "txn",
}

// CounterStore is the port to the persistent counters. IncrementAndGet must
// atomically initialize the counter to 1 on first use and return the new
// value.
type CounterStore interface {
	IncrementAndGet(ctx context.Context, class string) (int64, error)
}

// Generator formats counter values into class-prefixed ids such as cus_001.
type Generator struct {
	counters CounterStore
}

// NewGenerator returns a Generator backed by the given counter store.
func NewGenerator(counters CounterStore) *Generator {
	return &Generator{counters: counters}
}

// Next returns the next id for the class, zero-padded to three digits and
// widening naturally beyond that. When the store cannot perform the atomic
// increment the call fails; ids are never fabricated.
func (g *Generator) Next(ctx context.Context, class Class) (string, error) {
	prefix, ok := prefixes[class]
	if !ok {
		return "", fmt.Errorf("%w: unknown sequence class %q", domain.ErrValidation, class)
	}
	n, err := g.counters.IncrementAndGet(ctx, string(class))
	if err != nil {
		return "", fmt.Errorf("%w: generating %s id: %v", domain.ErrInfrastructure, class, err)
	}
	return fmt.Sprintf("%s_%03d", prefix, n), nil
}
