package ticket

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ticket9ja/ticket9ja-backend/internal/event"
)

// ===========================
// In-memory fakes
// ===========================

type fakeRepo struct {
	mu      sync.Mutex
	nextID  uint
	tickets map[uint]*Ticket
	failOn  int // fail Create on the nth call (1-based); 0 disables
	creates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1, tickets: make(map[uint]*Ticket)}
}

func (r *fakeRepo) Create(t *Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.failOn > 0 && r.creates == r.failOn {
		return errors.New("db write failed")
	}
	t.ID = r.nextID
	r.nextID++
	cp := *t
	r.tickets[t.ID] = &cp
	return nil
}

func (r *fakeRepo) GetByID(id uint) (*Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeRepo) GetByIdentifier(identifier string) (*Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.TicketID == identifier {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) ListByEvent(eventID uint) ([]Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Ticket
	for _, t := range r.tickets {
		if t.EventID == eventID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListAll() ([]Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Ticket
	for _, t := range r.tickets {
		out = append(out, *t)
	}
	return out, nil
}

// Update mirrors the repository's column-restricted write: the
// redemption columns belong to MarkUsed and are never touched here.
func (r *fakeRepo) Update(t *Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.tickets[t.ID]
	if !ok {
		return ErrNotFound
	}
	cur.AttendeeName = t.AttendeeName
	cur.AttendeeEmail = t.AttendeeEmail
	cur.TicketType = t.TicketType
	cur.TicketImagePath = t.TicketImagePath
	return nil
}

func (r *fakeRepo) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[id]; !ok {
		return ErrNotFound
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeRepo) MarkUsed(identifier string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.TicketID == identifier {
			if t.IsUsed {
				return false, nil
			}
			t.IsUsed = true
			used := at
			t.UsedAt = &used
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) CountAll() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.tickets)), nil
}

func (r *fakeRepo) CountUsed() (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tickets {
		if t.IsUsed {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CountByEvent(eventID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tickets {
		if t.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) CountUsedByEvent(eventID uint) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, t := range r.tickets {
		if t.EventID == eventID && t.IsUsed {
			n++
		}
	}
	return n, nil
}

type fakeEvents struct {
	event     *event.Event
	lockCalls int
}

func (f *fakeEvents) GetByID(id uint) (*event.Event, error) {
	if f.event == nil || f.event.ID != id {
		return nil, event.ErrNotFound
	}
	return f.event, nil
}

func (f *fakeEvents) LockOnFirstTicket(e *event.Event) error {
	f.lockCalls++
	e.IsLocked = true
	return nil
}

type fakeRenderer struct {
	failOn   int
	renders  int
	onRender func() // runs before returning; lets tests interleave work
}

func (f *fakeRenderer) Render(designPath, attendeeName, ticketType, identifier string, qrPNG []byte,
	eventName, eventDate, eventTime, venue string) (string, error) {
	f.renders++
	if f.onRender != nil {
		f.onRender()
	}
	if f.failOn > 0 && f.renders == f.failOn {
		return "", errors.New("render blew up")
	}
	return "tickets/ticket_" + identifier + ".jpg", nil
}

type fakeNotifier struct {
	fail  bool
	sends int
}

func (f *fakeNotifier) SendTicket(toEmail, attendeeName string, ev *event.Event, t *Ticket, imageRef string) error {
	f.sends++
	if f.fail {
		return errors.New("smtp down")
	}
	return nil
}

type fakeFiles struct {
	mu      sync.Mutex
	saved   map[string][]byte
	deleted []string
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{saved: make(map[string][]byte)}
}

func (f *fakeFiles) QRPath(identifier string) string {
	return "tickets/qr_codes/qr_" + identifier + ".png"
}

func (f *fakeFiles) Save(data []byte, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved[path] = data
	return path, nil
}

func (f *fakeFiles) Delete(ref string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.saved, ref)
	f.deleted = append(f.deleted, ref)
	return nil
}

type fixture struct {
	svc    *Service
	repo   *fakeRepo
	events *fakeEvents
	render *fakeRenderer
	notify *fakeNotifier
	files  *fakeFiles
}

func newFixture() *fixture {
	repo := newFakeRepo()
	events := &fakeEvents{event: &event.Event{
		ID:        1,
		Name:      "Lagos Tech Fest",
		EventDate: "2026-10-10",
		EventTime: "18:00",
		Venue:     "Eko Convention Centre",
		City:      "Lagos",
		IsActive:  true,
	}}
	render := &fakeRenderer{}
	notify := &fakeNotifier{}
	files := newFakeFiles()
	svc := NewService(repo, events, render, notify, files, nil)
	return &fixture{svc: svc, repo: repo, events: events, render: render, notify: notify, files: files}
}

func validRequest(quantity int) *CreateBatchRequest {
	return &CreateBatchRequest{
		AttendeeName:  "Ada Obi",
		AttendeeEmail: "ada@example.com",
		TicketType:    "VIP",
		Quantity:      quantity,
	}
}

// ===========================
// CreateBatch
// ===========================

func TestCreateBatchGeneratesDistinctTickets(t *testing.T) {
	f := newFixture()

	created, err := f.svc.CreateBatch(1, validRequest(5))
	require.NoError(t, err)
	require.Len(t, created, 5)

	seen := make(map[string]bool)
	for _, ct := range created {
		assert.NotZero(t, ct.Ticket.ID)
		assert.False(t, seen[ct.Ticket.TicketID], "duplicate identifier %s", ct.Ticket.TicketID)
		seen[ct.Ticket.TicketID] = true
		assert.True(t, ct.EmailSent)
		assert.False(t, ct.Ticket.IsUsed)
	}

	count, _ := f.repo.CountAll()
	assert.EqualValues(t, 5, count)
	assert.Equal(t, 5, f.notify.sends)
}

func TestCreateBatchLocksEventOnce(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateBatch(1, validRequest(3))
	require.NoError(t, err)
	assert.Equal(t, 1, f.events.lockCalls)
	assert.True(t, f.events.event.IsLocked)
}

func TestCreateBatchRejectsBadInput(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateBatch(1, validRequest(0))
	assert.ErrorIs(t, err, ErrValidation)

	req := validRequest(1)
	req.AttendeeEmail = "not-an-email"
	_, err = f.svc.CreateBatch(1, req)
	assert.ErrorIs(t, err, ErrValidation)

	// Nothing persisted, event untouched.
	count, _ := f.repo.CountAll()
	assert.Zero(t, count)
	assert.Equal(t, 0, f.events.lockCalls)
}

func TestCreateBatchUnknownEvent(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateBatch(99, validRequest(1))
	assert.ErrorIs(t, err, event.ErrNotFound)
}

func TestCreateBatchEmailFailureIsNonFatal(t *testing.T) {
	f := newFixture()
	f.notify.fail = true

	created, err := f.svc.CreateBatch(1, validRequest(2))
	require.NoError(t, err)
	require.Len(t, created, 2)

	for _, ct := range created {
		assert.False(t, ct.EmailSent)
		// The ticket row survives an email failure.
		stored, err := f.repo.GetByID(ct.Ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, ct.Ticket.TicketID, stored.TicketID)
	}
}

func TestCreateBatchRenderFailureAbortsRemainder(t *testing.T) {
	f := newFixture()
	f.render.failOn = 3

	created, err := f.svc.CreateBatch(1, validRequest(5))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRenderFailed)
	assert.Len(t, created, 2, "tickets persisted before the failure stay valid")

	count, _ := f.repo.CountAll()
	assert.EqualValues(t, 2, count)

	// The failed unit's QR file was cleaned up: only the two surviving
	// tickets' QR files remain in the store.
	f.files.mu.Lock()
	defer f.files.mu.Unlock()
	assert.Len(t, f.files.saved, 2)
	assert.Len(t, f.files.deleted, 1)
}

func TestCreateBatchPersistFailureCleansFiles(t *testing.T) {
	f := newFixture()
	f.repo.failOn = 1

	created, err := f.svc.CreateBatch(1, validRequest(1))
	require.Error(t, err)
	assert.Empty(t, created)

	f.files.mu.Lock()
	defer f.files.mu.Unlock()
	assert.Empty(t, f.files.saved, "orphaned files must be removed when the row write fails")
}

// ===========================
// Update
// ===========================

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateBatch(1, validRequest(1))
	require.NoError(t, err)
	orig := created[0].Ticket

	name := "Ngozi Eze"
	updated, err := f.svc.Update(orig.ID, &UpdateTicketRequest{AttendeeName: &name})
	require.NoError(t, err)

	assert.Equal(t, "Ngozi Eze", updated.AttendeeName)
	assert.Equal(t, orig.AttendeeEmail, updated.AttendeeEmail)
	assert.Equal(t, orig.TicketType, updated.TicketType)
	assert.Equal(t, orig.TicketID, updated.TicketID, "identifier never changes")
}

func TestUpdateRejectsMalformedEmail(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateBatch(1, validRequest(1))
	require.NoError(t, err)

	bad := "nope"
	_, err = f.svc.Update(created[0].Ticket.ID, &UpdateTicketRequest{AttendeeEmail: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateDuringRedemptionKeepsTicketUsed(t *testing.T) {
	// An operator edit that overlaps a door scan must not revert the
	// redemption: the scan wins MarkUsed after the edit read the row,
	// and the edit's write only touches the attendee columns.
	f := newFixture()
	created, err := f.svc.CreateBatch(1, validRequest(1))
	require.NoError(t, err)
	tk := created[0].Ticket

	f.render.onRender = func() {
		won, err := f.repo.MarkUsed(tk.TicketID, time.Now().UTC())
		assert.NoError(t, err)
		assert.True(t, won)
	}

	name := "Ngozi Eze"
	_, err = f.svc.Update(tk.ID, &UpdateTicketRequest{AttendeeName: &name})
	require.NoError(t, err)

	stored, err := f.repo.GetByIdentifier(tk.TicketID)
	require.NoError(t, err)
	assert.True(t, stored.IsUsed, "a redeemed ticket must stay redeemed through an edit")
	require.NotNil(t, stored.UsedAt)
	assert.Equal(t, "Ngozi Eze", stored.AttendeeName)
}

func TestUpdateRerendersTicketImage(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateBatch(1, validRequest(1))
	require.NoError(t, err)

	rendersBefore := f.render.renders
	name := "Chidi Okafor"
	_, err = f.svc.Update(created[0].Ticket.ID, &UpdateTicketRequest{AttendeeName: &name})
	require.NoError(t, err)
	assert.Equal(t, rendersBefore+1, f.render.renders)
}

// ===========================
// Resend / Delete
// ===========================

func TestResendFailureReturnsNotificationError(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateBatch(1, validRequest(1))
	require.NoError(t, err)

	f.notify.fail = true
	err = f.svc.Resend(created[0].Ticket.ID)
	assert.ErrorIs(t, err, ErrNotificationFailed)
}

func TestDeleteRemovesRowAndFiles(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateBatch(1, validRequest(1))
	require.NoError(t, err)
	tk := created[0].Ticket

	_, err = f.svc.Delete(tk.ID)
	require.NoError(t, err)

	_, err = f.repo.GetByID(tk.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	f.files.mu.Lock()
	defer f.files.mu.Unlock()
	assert.Contains(t, f.files.deleted, tk.QRCodePath)
	assert.Contains(t, f.files.deleted, tk.TicketImagePath)
}

func TestDeleteUnknownTicket(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Delete(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBatchDefaultsExercisedViaScenario(t *testing.T) {
	// Batch of 10 keyed to one attendee: every identifier distinct and
	// every file pair named after its identifier.
	f := newFixture()
	created, err := f.svc.CreateBatch(1, validRequest(10))
	require.NoError(t, err)

	for _, ct := range created {
		assert.Equal(t, fmt.Sprintf("tickets/qr_codes/qr_%s.png", ct.Ticket.TicketID), ct.Ticket.QRCodePath)
		assert.Equal(t, fmt.Sprintf("tickets/ticket_%s.jpg", ct.Ticket.TicketID), ct.Ticket.TicketImagePath)
	}
}
