package audiocapture

import (
	"sync"
	"testing"
)

func TestSink_AppendOrder(t *testing.T) {
	s := NewSink(4)

	s.Append([]float32{0.1, 0.2})
	s.Append(nil)
	s.Append([]float32{0.3})
	s.Append([]float32{0.4, 0.5, 0.6})

	if got := s.Frames(); got != 3 {
		t.Errorf("Frames() = %d, want 3", got)
	}

	got := s.Take()
	want := []float32{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}
	if len(got) != len(want) {
		t.Fatalf("Take() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Take()[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if s.Len() != 0 || s.Frames() != 0 {
		t.Errorf("sink not empty after Take: len=%d frames=%d", s.Len(), s.Frames())
	}
}

func TestSink_CopiesFrame(t *testing.T) {
	s := NewSink(0)
	frame := []float32{0.5, -0.5}

	s.Append(frame)
	frame[0] = 0.9 // device reuses its buffer

	got := s.Take()
	if got[0] != 0.5 {
		t.Errorf("sample mutated through caller buffer: got %v", got[0])
	}
}

func TestSink_TakeTransfersOwnership(t *testing.T) {
	s := NewSink(8)
	s.Append([]float32{1, 2, 3})

	first := s.Take()
	s.Append([]float32{4})

	if first[0] != 1 || len(first) != 3 {
		t.Errorf("taken slice changed after new append: %v", first)
	}
	if second := s.Take(); len(second) != 1 || second[0] != 4 {
		t.Errorf("second Take() = %v, want [4]", second)
	}
}

func TestSink_Reset(t *testing.T) {
	s := NewSink(8)
	s.Append([]float32{1, 2, 3})
	s.Reset()

	if s.Len() != 0 {
		t.Errorf("Len() = %d after Reset, want 0", s.Len())
	}
	if got := s.Take(); len(got) != 0 {
		t.Errorf("Take() after Reset = %v, want empty", got)
	}
}

func TestSink_ConcurrentAppend(t *testing.T) {
	const (
		producers = 4
		frames    = 200
		frameLen  = 64
	)

	s := NewSink(0)
	frame := make([]float32, frameLen)

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < frames; i++ {
				s.Append(frame)
				_ = s.Len()
			}
		}()
	}
	wg.Wait()

	if got, want := s.Len(), producers*frames*frameLen; got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}
