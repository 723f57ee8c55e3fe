package sri

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/contable/internal/accesskey"
)

const (
	DefaultDelay       = 1500 * time.Millisecond
	DefaultSuccessRate = 0.9
)

// Rand is the randomness the simulator draws from. *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// Simulator authorizes invoices after a fixed delay with a configurable success rate.
// It is safe for concurrent use.
type Simulator struct {
	delay       time.Duration
	successRate float64
	now         func() time.Time
	logger      *slog.Logger

	mu  sync.Mutex
	rnd Rand
}

type Option func(*Simulator)

func WithDelay(d time.Duration) Option {
	return func(s *Simulator) { s.delay = d }
}

func WithSuccessRate(rate float64) Option {
	return func(s *Simulator) { s.successRate = rate }
}

func WithRand(r Rand) Option {
	return func(s *Simulator) { s.rnd = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Simulator) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

func NewSimulator(opts ...Option) *Simulator {
	s := &Simulator{
		delay:       DefaultDelay,
		successRate: DefaultSuccessRate,
		now:         time.Now,
		logger:      slog.Default(),
		rnd:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Authorize waits for the configured delay, then authorizes the request with the
// configured probability. It returns ctx.Err() if ctx ends first.
func (s *Simulator) Authorize(ctx context.Context, req Request) (*Result, error) {
	if s.delay > 0 {
		timer := time.NewTimer(s.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rnd.Float64() >= s.successRate {
		s.logger.Info("simulated authorization rejected", "sequential", req.Key.Sequential)

		return &Result{Authorized: false, Message: MessageRejected}, nil
	}

	key := req.AccessKey
	if key == "" {
		var err error

		key, err = accesskey.GenerateAlternating(req.Key, s.rnd)
		if err != nil {
			return nil, fmt.Errorf("generating access key: %w", err)
		}
	}

	res := &Result{
		Authorized:          true,
		AuthorizationNumber: fmt.Sprintf("%012d", s.rnd.IntN(1_000_000_000_000)),
		AuthorizationDate:   s.now().UTC().Truncate(time.Second),
		AccessKey:           key,
		Message:             MessageAuthorized,
	}

	s.logger.Info("simulated authorization granted", "authorization_number", res.AuthorizationNumber)

	return res, nil
}
