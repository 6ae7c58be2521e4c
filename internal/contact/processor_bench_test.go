package contact

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/illegalcall/second-opinion/internal/metrics"
	"github.com/illegalcall/second-opinion/internal/models"
	"github.com/illegalcall/second-opinion/internal/storage"
)

type discardSender struct{}

func (discardSender) Send(context.Context, *models.OutboundMessage) error { return nil }

// BenchmarkProcess measures submissions with one attachment handled by
// concurrent requests sharing a single Processor.
func BenchmarkProcess(b *testing.B) {
	b.ReportAllocs()

	store, err := storage.NewLocalStorage(b.TempDir())
	if err != nil {
		b.Fatal(err)
	}
	p := NewProcessor(Options{StrictEmail: true, AllowList: true}, store, discardSender{},
		metrics.New(prometheus.NewRegistry()), slog.New(slog.NewTextHandler(io.Discard, nil)))

	form := buildForm(b, validValues(), testFile{key: "files", name: "scan.jpg", data: jpegBytes})

	submissions := make(chan int, b.N)
	numRequests := 16
	var wg sync.WaitGroup
	errCh := make(chan error, numRequests)

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range submissions {
				if _, err := p.Process(context.Background(), fmt.Sprintf("bench-%d", n), form); err != nil {
					errCh <- fmt.Errorf("submission %d failed: %w", n, err)
					return
				}
			}
		}()
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		submissions <- i
	}
	close(submissions)

	wg.Wait()
	close(errCh)
	for err := range errCh {
		b.Fatal(err)
	}
}
