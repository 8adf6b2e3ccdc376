package sim

import (
	"sync"
	"time"

	"rdt-toolkit/harness"
	"rdt-toolkit/rdt"
	uerrors "rdt-toolkit/util/errors"
)

const (
	channelBacklog = 256
	messageBacklog = 64
	deliverBacklog = 64
)

// Simulation wires an rdt.Sender and rdt.Receiver together across two
// independent sim.Channels (one per direction) and drives each endpoint
// on its own single-threaded event loop goroutine, one goroutine per
// role. It stands in for the external harness that would otherwise
// drive the core against a real network.
type Simulation struct {
	cfg SimulationConfig

	forward  *Channel // sender -> receiver (data)
	backward *Channel // receiver -> sender (acks)

	sender   *rdt.Sender
	receiver *rdt.Receiver
	timer    *RealTimer
	clock    simClock

	stats *Stats

	submit    chan harness.Message
	delivered chan harness.Message

	die chan struct{}
	wg  sync.WaitGroup
}

// New constructs a Simulation from cfg but does not start it.
func New(cfg SimulationConfig) *Simulation {
	cfg = sanitizeSimulationConfig(cfg)

	s := &Simulation{
		cfg:       cfg,
		forward:   NewChannel(cfg.Forward, channelBacklog),
		backward:  NewChannel(cfg.Backward, channelBacklog),
		timer:     NewRealTimer(),
		clock:     newSimClock(),
		stats:     &Stats{},
		submit:    make(chan harness.Message, messageBacklog),
		delivered: make(chan harness.Message, deliverBacklog),
		die:       make(chan struct{}),
	}

	var timeout rdt.TimeoutStrategy = rdt.FixedTimeout(cfg.Timeout)
	if cfg.Adaptive {
		timeout = NewAdaptiveTimeout(cfg.MinTimeout)
	}

	rdtCfg := rdt.Config{WindowSize: cfg.WindowSize}
	s.sender = rdt.NewSender(rdtCfg, countingLower{s.forward, s.stats, false}, s.timer, timeout)
	s.receiver = rdt.NewReceiver(rdtCfg, countingLower{s.backward, s.stats, true}, deliverFunc(s.onDelivered))

	return s
}

func (s *Simulation) onDelivered(msg harness.Message) {
	s.stats.recordDelivered(len(msg))
	select {
	case s.delivered <- msg:
	case <-s.die:
	}
}

// Start spins up the sender and receiver event loops.
func (s *Simulation) Start() {
	s.wg.Add(2)
	go s.senderLoop()
	go s.receiverLoop()
}

func (s *Simulation) senderLoop() {
	defer s.wg.Done()
	for {
		select {
		case msg := <-s.submit:
			log.WithField("t", s.clock.Now()).Debug("sender: message submitted")
			s.sender.OnMessage(msg)
		case pkt := <-s.backward.Out():
			s.sender.OnPacket(pkt)
		case <-s.timer.C():
			log.WithField("t", s.clock.Now()).Debug("sender: retransmission timeout")
			s.sender.OnTimeout()
		case <-s.die:
			s.sender.Final()
			return
		}
	}
}

func (s *Simulation) receiverLoop() {
	defer s.wg.Done()
	for {
		select {
		case pkt := <-s.forward.Out():
			s.receiver.OnPacket(pkt)
		case <-s.die:
			s.receiver.Final()
			return
		}
	}
}

// Submit hands msg to the sender, as the upper layer calling on_message.
// It returns uerrors.ErrClosed if the simulation has already been
// stopped.
func (s *Simulation) Submit(msg harness.Message) error {
	select {
	case s.submit <- msg:
		return nil
	case <-s.die:
		return uerrors.ErrClosed
	}
}

// Delivered is the channel messages arrive on as the receiver delivers
// them upstream.
func (s *Simulation) Delivered() <-chan harness.Message {
	return s.delivered
}

// Stats returns the running observability counters.
func (s *Simulation) Stats() *Stats {
	return s.stats
}

// Stop halts both event loops and closes the underlying channels.
func (s *Simulation) Stop() {
	close(s.die)
	s.wg.Wait()
	s.forward.Close()
	s.backward.Close()
}

// WaitIdle polls the sender's retransmission timer and returns nil once
// it is not set, or uerrors.ErrTimeout if timeout elapses first. The
// sender keeps the timer armed exactly while packets are outstanding,
// so an unset timer normally means no unacknowledged packets and no
// backlog; a timer that has fired but whose timeout the sender loop has
// not yet handled also reads as unset.
func (s *Simulation) WaitIdle(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !s.timer.IsSet() {
			return nil
		}
		time.Sleep(5 * time.Millisecond)
	}
	return uerrors.ErrTimeout
}
