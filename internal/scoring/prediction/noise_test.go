package prediction

import (
	"sync"
	"testing"
)

func TestSeededJitterStaysWithinScale(t *testing.T) {
	n := NewSeeded(42, 0.02)
	for i := 0; i < 1000; i++ {
		j := n.Jitter()
		if j < -0.02 || j > 0.02 {
			t.Fatalf("jitter %v outside [-0.02, 0.02]", j)
		}
	}
}

func TestSeededJitterConcurrentUse(t *testing.T) {
	n := NewSeeded(1, 0.02)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				if j := n.Jitter(); j < -0.02 || j > 0.02 {
					t.Errorf("jitter %v outside [-0.02, 0.02]", j)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestSeededJitterIsReproducible(t *testing.T) {
	a := NewSeeded(7, 0.1)
	b := NewSeeded(7, 0.1)
	for i := 0; i < 10; i++ {
		if a.Jitter() != b.Jitter() {
			t.Fatal("same seed must produce the same sequence")
		}
	}
}
