package outbox

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type benchStore struct {
	due []*Record
}

func (s *benchStore) Insert(context.Context, *Record) error { return nil }

func (s *benchStore) Update(context.Context, *Record) error { return nil }

func (s *benchStore) Claim(context.Context, uuid.UUID, time.Time) (bool, error) {
	return true, nil
}

func (s *benchStore) Due(context.Context, time.Time) ([]*Record, error) {
	return s.due, nil
}

func (s *benchStore) HasPending(context.Context, string) (bool, error) {
	return false, nil
}

func (s *benchStore) DeleteFinishedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (s *benchStore) CountByStatus(context.Context) (Statistics, error) {
	return Statistics{}, nil
}

func BenchmarkSweepOnce(b *testing.B) {
	now := time.Now()
	due := make([]*Record, 100)
	for i := range due {
		due[i] = NewRecord(Message{To: "user@example.com", Subject: "s", Content: "c"}, now)
	}

	svc, err := NewService(&benchStore{due: due})
	if err != nil {
		b.Fatalf("new service: %v", err)
	}
	sched, err := NewScheduler(svc, SenderFunc(func(context.Context, Message) error { return nil }))
	if err != nil {
		b.Fatalf("new scheduler: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := sched.SweepOnce(context.Background()); err != nil {
			b.Fatalf("sweep: %v", err)
		}
	}
}
