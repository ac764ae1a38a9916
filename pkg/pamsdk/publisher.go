package pamsdk

import (
	"sync"
)

// Subscription receives AuthenticationState transitions in the order they were
// applied. The first value on C is the state at the time of subscribing.
//
// Delivery is buffered per subscriber so a slow reader never stalls the
// Authenticator; call Close to release the subscription.
type Subscription struct {
	C <-chan AuthenticationState

	out     chan AuthenticationState
	pub     *statePublisher
	mu      sync.Mutex
	pending []AuthenticationState
	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// Close unsubscribes and stops delivery. C is closed once the delivery
// goroutine exits. Close is safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.pub.remove(s)
		close(s.done)
	})
	<-s.stopped
}

func (s *Subscription) push(state AuthenticationState) {
	s.mu.Lock()
	s.pending = append(s.pending, state)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Subscription) run() {
	defer close(s.stopped)
	defer close(s.out)

	for {
		s.mu.Lock()
		batch := s.pending
		s.pending = nil
		s.mu.Unlock()

		for _, state := range batch {
			select {
			case s.out <- state:
			case <-s.done:
				return
			}
		}

		if len(batch) > 0 {
			continue
		}

		select {
		case <-s.wake:
		case <-s.done:
			return
		}
	}
}

// statePublisher is a replay-last broadcast subject for AuthenticationState.
// publish is only called with the Authenticator's mutex held, so transitions
// reach every subscriber in the order they were applied.
type statePublisher struct {
	mu   sync.Mutex
	last AuthenticationState
	subs map[*Subscription]struct{}
}

func newStatePublisher(initial AuthenticationState) *statePublisher {
	return &statePublisher{
		last: initial,
		subs: make(map[*Subscription]struct{}),
	}
}

func (p *statePublisher) subscribe() *Subscription {
	out := make(chan AuthenticationState)
	s := &Subscription{
		C:       out,
		out:     out,
		pub:     p,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	p.mu.Lock()
	s.pending = append(s.pending, p.last)
	p.subs[s] = struct{}{}
	p.mu.Unlock()

	go s.run()
	return s
}

func (p *statePublisher) publish(state AuthenticationState) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = state
	for s := range p.subs {
		s.push(state)
	}
}

func (p *statePublisher) remove(s *Subscription) {
	p.mu.Lock()
	delete(p.subs, s)
	p.mu.Unlock()
}

func (p *statePublisher) subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.subs)
}
