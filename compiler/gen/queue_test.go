package gen

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	t.Run("runs tasks in order", func(t *testing.T) {
		q := NewQueue(nil)
		defer q.Close()

		var got []int
		for i := range 100 {
			q.Push("n", func() error {
				got = append(got, i)
				return nil
			})
		}
		q.Drain()

		assert.Len(t, got, 100)
		assert.Equal(t, 0, got[0])
		assert.Equal(t, 99, got[99])
	})

	t.Run("logs failures and panics", func(t *testing.T) {
		var buf bytes.Buffer
		q := NewQueue(slog.New(slog.NewTextHandler(&buf, nil)))
		defer q.Close()

		var ran atomic.Int32
		q.Push("table/poco", func() error { return errors.New("listener failed") })
		q.Push("view/poco", func() error { panic("boom") })
		q.Push("tvp/poco", func() error { ran.Add(1); return nil })
		q.Drain()

		assert.Equal(t, int32(1), ran.Load())
		assert.Contains(t, buf.String(), "listener failed")
		assert.Contains(t, buf.String(), "boom")
		assert.Contains(t, buf.String(), "view/poco")
	})

	t.Run("close runs remaining tasks", func(t *testing.T) {
		q := NewQueue(nil)
		var ran atomic.Int32
		for range 10 {
			q.Push("n", func() error { ran.Add(1); return nil })
		}
		q.Close()

		assert.Equal(t, int32(10), ran.Load())
	})

	t.Run("drain while others push", func(t *testing.T) {
		q := NewQueue(nil)
		defer q.Close()
		q.Drain()

		var (
			ran atomic.Int32
			wg  sync.WaitGroup
		)
		for range 8 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for range 50 {
					q.Push("n", func() error { ran.Add(1); return nil })
				}
			}()
			go func() {
				defer wg.Done()
				for range 50 {
					q.Drain()
				}
			}()
		}
		wg.Wait()
		q.Drain()

		assert.Equal(t, int32(400), ran.Load())
	})

	t.Run("push after close is dropped", func(t *testing.T) {
		q := NewQueue(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		q.Close()

		var ran atomic.Int32
		q.Push("n", func() error { ran.Add(1); return nil })
		q.Drain()
		q.Close()

		assert.Zero(t, ran.Load())
	})
}
