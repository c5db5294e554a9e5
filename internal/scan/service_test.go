package scan

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticket9ja/ticket9ja-backend/internal/event"
	"github.com/ticket9ja/ticket9ja-backend/internal/ticket"
)

// ===========================
// In-memory fakes
// ===========================

type fakeTickets struct {
	mu      sync.Mutex
	tickets map[string]*ticket.Ticket
}

func newFakeTickets() *fakeTickets {
	return &fakeTickets{tickets: make(map[string]*ticket.Ticket)}
}

func (f *fakeTickets) add(t *ticket.Ticket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets[t.TicketID] = t
}

func (f *fakeTickets) GetByIdentifier(identifier string) (*ticket.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[identifier]
	if !ok {
		return nil, ticket.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

// MarkUsed mirrors the conditional UPDATE: only one caller can flip
// is_used from false to true.
func (f *fakeTickets) MarkUsed(identifier string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[identifier]
	if !ok || t.IsUsed {
		return false, nil
	}
	t.IsUsed = true
	used := at
	t.UsedAt = &used
	return true, nil
}

type fakeEvents struct {
	event *event.Event
}

func (f *fakeEvents) GetByID(id uint) (*event.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, event.ErrNotFound
	}
	return f.event, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakePublisher) Publish(ctx context.Context, key string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, key)
	return nil
}

func newTestService() (*Service, *fakeTickets, *fakePublisher) {
	tickets := newFakeTickets()
	events := &fakeEvents{event: &event.Event{ID: 1, Name: "Lagos Tech Fest"}}
	pub := &fakePublisher{}
	return NewService(tickets, events, pub, nil), tickets, pub
}

func issuedTicket(identifier string) *ticket.Ticket {
	return &ticket.Ticket{
		ID:           1,
		TicketID:     identifier,
		EventID:      1,
		AttendeeName: "Ada Obi",
		TicketType:   "VIP",
	}
}

// ===========================
// Tests
// ===========================

func TestValidateUnknownTicket(t *testing.T) {
	svc, tickets, _ := newTestService()

	res, err := svc.Validate(context.Background(), "TKT-20260101000000-DEADBEEF00", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, StatusInvalid, res.Status)
	assert.Nil(t, res.Ticket)
	assert.Empty(t, tickets.tickets, "an unknown identifier must not create state")
}

func TestValidateRedeemsExactlyOnce(t *testing.T) {
	svc, tickets, _ := newTestService()
	tickets.add(issuedTicket("TKT-20260101000000-AAAA000000"))

	first, err := svc.Validate(context.Background(), "TKT-20260101000000-AAAA000000", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, first.Valid)
	assert.Equal(t, StatusValid, first.Status)
	require.NotNil(t, first.Ticket)
	assert.Equal(t, "Ada Obi", first.Ticket.AttendeeName)
	assert.Equal(t, "Lagos Tech Fest", first.Ticket.EventName)

	second, err := svc.Validate(context.Background(), "TKT-20260101000000-AAAA000000", "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, second.Valid)
	assert.Equal(t, StatusAlreadyUsed, second.Status)
	require.NotNil(t, second.Ticket)
	require.NotNil(t, second.Ticket.UsedAt)
	assert.Contains(t, second.Message, "already used")
}

func TestValidateRepeatScanKeepsOriginalTimestamp(t *testing.T) {
	svc, tickets, _ := newTestService()
	tickets.add(issuedTicket("TKT-20260101000000-BBBB000000"))

	_, err := svc.Validate(context.Background(), "TKT-20260101000000-BBBB000000", "10.0.0.1")
	require.NoError(t, err)

	second, err := svc.Validate(context.Background(), "TKT-20260101000000-BBBB000000", "10.0.0.1")
	require.NoError(t, err)
	third, err := svc.Validate(context.Background(), "TKT-20260101000000-BBBB000000", "10.0.0.1")
	require.NoError(t, err)

	require.NotNil(t, second.Ticket.UsedAt)
	require.NotNil(t, third.Ticket.UsedAt)
	assert.Equal(t, *second.Ticket.UsedAt, *third.Ticket.UsedAt, "repeat scans report the original redemption time")
}

func TestValidateConcurrentScansSingleWinner(t *testing.T) {
	svc, tickets, _ := newTestService()
	tickets.add(issuedTicket("TKT-20260101000000-CCCC000000"))

	const scanners = 20
	results := make(chan *Result, scanners)
	var wg sync.WaitGroup
	for i := 0; i < scanners; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.Validate(context.Background(), "TKT-20260101000000-CCCC000000", "10.0.0.1")
			assert.NoError(t, err)
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	var wins, rejections int
	for res := range results {
		if res.Valid {
			wins++
		} else {
			rejections++
			assert.Equal(t, StatusAlreadyUsed, res.Status)
		}
	}
	assert.Equal(t, 1, wins, "exactly one scanner may be granted entry")
	assert.Equal(t, scanners-1, rejections)
}

func TestValidatePublishesEveryOutcome(t *testing.T) {
	svc, tickets, pub := newTestService()
	tickets.add(issuedTicket("TKT-20260101000000-DDDD000000"))

	_, err := svc.Validate(context.Background(), "TKT-20260101000000-DDDD000000", "10.0.0.1")
	require.NoError(t, err)
	_, err = svc.Validate(context.Background(), "TKT-20260101000000-DDDD000000", "10.0.0.1")
	require.NoError(t, err)
	_, err = svc.Validate(context.Background(), "no-such-ticket", "10.0.0.1")
	require.NoError(t, err)

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Len(t, pub.messages, 3)
}

func TestValidateWithoutPublisher(t *testing.T) {
	tickets := newFakeTickets()
	tickets.add(issuedTicket("TKT-20260101000000-EEEE000000"))
	svc := NewService(tickets, &fakeEvents{event: &event.Event{ID: 1, Name: "X"}}, nil, nil)

	res, err := svc.Validate(context.Background(), "TKT-20260101000000-EEEE000000", "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Valid)
}
