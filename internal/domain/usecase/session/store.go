package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/amirhossein-jamali/atm-console/internal/domain/entity"
	errs "github.com/amirhossein-jamali/atm-console/internal/domain/error"
	coreport "github.com/amirhossein-jamali/atm-console/internal/domain/port/core"
	"github.com/amirhossein-jamali/atm-console/internal/domain/port/usecase"
)

// Page is the console view the operator is looking at
type Page string

// Pages
const (
	PageComposer Page = "composer"
	PageHistory  Page = "history"
	PageSettings Page = "settings"
)

// NoticeLevel classifies a transient operator notice
type NoticeLevel string

// Notice levels
const (
	NoticeInfo  NoticeLevel = "info"
	NoticeError NoticeLevel = "error"
)

// maxNotices bounds the notice backlog kept for late readers
const maxNotices = 20

// Notice is a transient message shown to the operator
type Notice struct {
	ID    uint64      `json:"id"`
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
	At    time.Time   `json:"at"`
}

// Snapshot is a consistent copy of the whole session state
type Snapshot struct {
	Page          Page                 `json:"page"`
	ActiveMessage usecase.MessageInput `json:"activeMessage"`
	FormKey       int                  `json:"formKey"`
	Busy          bool                 `json:"busy"`
	BusyOp        string               `json:"busyOp,omitempty"`
	Tunnel        bool                 `json:"tunnel"`
	TunnelBusy    bool                 `json:"tunnelBusy"`
	Result        *entity.AtmResponse  `json:"result,omitempty"`
	Notices       []Notice             `json:"notices"`
}

// Store holds the process-wide console state. Every mutation is published to subscribers.
type Store struct {
	mu sync.RWMutex

	page          Page
	activeMessage usecase.MessageInput
	formKey       int
	busyOp        string
	tunnel        bool
	tunnelBusy    bool
	result        *entity.AtmResponse
	notices       []Notice
	nextNoticeID  uint64

	subscribers map[int]chan Snapshot
	nextSubID   int

	timeProvider coreport.TimeProvider
}

// NewStore creates a store showing the composer with an empty draft
func NewStore(timeProvider coreport.TimeProvider) *Store {
	return &Store{
		page:         PageComposer,
		subscribers:  make(map[int]chan Snapshot),
		timeProvider: timeProvider,
	}
}

// Page returns the active page
func (s *Store) Page() Page {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// SetPage switches the active page
func (s *Store) SetPage(page Page) {
	s.update(func() { s.page = page })
}

// ActiveMessage returns the composer draft
func (s *Store) ActiveMessage() usecase.MessageInput {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeMessage
}

// SetActiveMessage replaces the composer draft
func (s *Store) SetActiveMessage(input usecase.MessageInput) {
	s.update(func() { s.activeMessage = input })
}

// FormKey returns the form generation. A new value tells views to discard local edits.
func (s *Store) FormKey() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.formKey
}

// BumpFormKey starts a new form generation and returns it
func (s *Store) BumpFormKey() int {
	var key int
	s.update(func() {
		s.formKey++
		key = s.formKey
	})
	return key
}

// TryBusy marks op as the in-flight destructive operation. It fails with ErrBusy
// while another one runs. The returned release must be called exactly once.
func (s *Store) TryBusy(op string) (func(), error) {
	s.mu.Lock()
	if s.busyOp != "" {
		current := s.busyOp
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", errs.ErrBusy, current)
	}
	s.busyOp = op
	s.publishLocked()
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.update(func() { s.busyOp = "" })
		})
	}, nil
}

// Busy reports whether a destructive operation is in flight
func (s *Store) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busyOp != ""
}

// Tunnel returns the last known tunnel state
func (s *Store) Tunnel() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tunnel
}

// SetTunnel records the tunnel state
func (s *Store) SetTunnel(connected bool) {
	s.update(func() { s.tunnel = connected })
}

// TunnelBusy reports whether a connect or disconnect is in flight
func (s *Store) TunnelBusy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tunnelBusy
}

// TryTunnelBusy marks a tunnel request as in flight, failing with ErrBusy when one already is
func (s *Store) TryTunnelBusy() (func(), error) {
	s.mu.Lock()
	if s.tunnelBusy {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: tunnel", errs.ErrBusy)
	}
	s.tunnelBusy = true
	s.publishLocked()
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.update(func() { s.tunnelBusy = false })
		})
	}, nil
}

// ShowResult opens the result view with response
func (s *Store) ShowResult(response entity.AtmResponse) {
	s.update(func() { s.result = &response })
}

// DismissResult closes the result view
func (s *Store) DismissResult() {
	s.update(func() { s.result = nil })
}

// Result returns the open result, if any
func (s *Store) Result() (entity.AtmResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.result == nil {
		return entity.AtmResponse{}, false
	}
	return *s.result, true
}

// Notify posts a transient notice
func (s *Store) Notify(level NoticeLevel, text string) {
	s.update(func() {
		s.nextNoticeID++
		s.notices = append(s.notices, Notice{
			ID:    s.nextNoticeID,
			Level: level,
			Text:  text,
			At:    s.timeProvider.Now(),
		})
		if len(s.notices) > maxNotices {
			s.notices = s.notices[len(s.notices)-maxNotices:]
		}
	})
}

// Notices returns the retained notices, oldest first
func (s *Store) Notices() []Notice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Notice(nil), s.notices...)
}

// Snapshot returns a consistent copy of the state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that always holds the latest snapshot once a change
// happens. Intermediate snapshots are dropped for slow readers. Call cancel to stop.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) update(mutate func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate()
	s.publishLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Page:          s.page,
		ActiveMessage: s.activeMessage,
		FormKey:       s.formKey,
		Busy:          s.busyOp != "",
		BusyOp:        s.busyOp,
		Tunnel:        s.tunnel,
		TunnelBusy:    s.tunnelBusy,
		Notices:       append([]Notice{}, s.notices...),
	}
	if s.result != nil {
		result := *s.result
		snap.Result = &result
	}
	return snap
}

// publishLocked replaces whatever snapshot a subscriber has not read yet
func (s *Store) publishLocked() {
	if len(s.subscribers) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
