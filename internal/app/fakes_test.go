package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"hotel_booking/internal/domain"
)

// ---- fakes ----

type fakeCache struct {
	mu    sync.Mutex
	store map[string][]byte
	dels  []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.dels = append(c.dels, key)
	return nil
}

type fakePayments struct {
	mu      sync.Mutex
	intents map[string]domain.PaymentIntent
	created []domain.PaymentIntentParams
	err     error
}

func (p *fakePayments) CreatePaymentIntent(ctx context.Context, in domain.PaymentIntentParams) (domain.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return domain.PaymentIntent{}, p.err
	}
	if p.intents == nil {
		p.intents = map[string]domain.PaymentIntent{}
	}
	id := fmt.Sprintf("pi_%d", len(p.created)+1)
	pi := domain.PaymentIntent{
		ID: id, ClientSecret: id + "_secret", Amount: in.Amount,
		Currency: in.Currency, Status: "requires_payment_method", Metadata: in.Metadata,
	}
	p.intents[id] = pi
	p.created = append(p.created, in)
	return pi, nil
}

func (p *fakePayments) GetPaymentIntent(ctx context.Context, id string) (domain.PaymentIntent, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pi, ok := p.intents[id]
	if !ok {
		return domain.PaymentIntent{}, domain.ErrNotFound
	}
	return pi, nil
}

// succeed marks an intent as paid, as the client-side confirmation would.
func (p *fakePayments) succeed(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pi := p.intents[id]
	pi.Status = domain.PaymentStatusSucceeded
	p.intents[id] = pi
}

type fakeUploader struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (u *fakeUploader) Upload(ctx context.Context, img domain.Image) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.calls++
	if u.fail {
		return "", errors.New("boom")
	}
	return "https://img.test/" + img.Filename, nil
}

type fakeEvents struct {
	mu     sync.Mutex
	events []domain.Event
}

func (e *fakeEvents) Publish(ctx context.Context, ev domain.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, ev)
	return nil
}

func (e *fakeEvents) types() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.events))
	for _, ev := range e.events {
		out = append(out, ev.Type)
	}
	return out
}

func fieldMessages(err error) map[string]string {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return nil
	}
	out := map[string]string{}
	for _, f := range ve.Fields {
		out[f.Field] = f.Message
	}
	return out
}
