package exr

import "testing"

func TestBufferPoolGetReturnsRequestedLength(t *testing.T) {
	p := NewBufferPool()
	buf := p.Get(100)
	if len(buf) != 100 {
		t.Fatalf("got length %d, want 100", len(buf))
	}
	p.Put(buf)
}

func TestBufferPoolReusesPutBuffers(t *testing.T) {
	p := NewBufferPool()
	buf := p.Get(1 << 10)
	p.Put(buf)

	p.ResetStats()
	_ = p.Get(1 << 10)
	_, hits, _ := p.Stats()
	if hits != 1 {
		t.Errorf("hits: got %d, want 1 after reusing a put buffer", hits)
	}
}

func TestBufferPoolOversizeBypassesPools(t *testing.T) {
	p := NewBufferPool()
	big := bufferSizes[len(bufferSizes)-1] + 1
	buf := p.Get(big)
	if len(buf) != big {
		t.Fatalf("got length %d, want %d", len(buf), big)
	}
	// An oversize buffer is never pooled; Put must not panic on it.
	p.Put(buf)
}

func TestBufferPoolMemoryLimitRejectsOverLimit(t *testing.T) {
	p := NewBufferPoolWithLimit(1 << 10)
	big := bufferSizes[len(bufferSizes)-1] + 1
	if buf := p.Get(big); buf != nil {
		t.Error("expected nil buffer when the request exceeds the memory limit")
	}
}

func TestBufferPoolGetWithErrorReportsLimit(t *testing.T) {
	p := NewBufferPoolWithLimit(1)
	big := bufferSizes[len(bufferSizes)-1] + 1
	_, err := p.GetWithError(big)
	if err == nil {
		t.Fatal("expected an error when the memory limit is exceeded")
	}
	var limitErr *MemoryLimitExceededError
	if _, ok := err.(*MemoryLimitExceededError); !ok {
		t.Errorf("got %T, want *MemoryLimitExceededError", err)
	}
	_ = limitErr
}

func TestBufferPoolSetMemoryLimitReturnsPrevious(t *testing.T) {
	p := NewBufferPoolWithLimit(10)
	prev := p.SetMemoryLimit(20)
	if prev != 10 {
		t.Errorf("got %d, want 10", prev)
	}
	if p.MemoryLimit() != 20 {
		t.Errorf("MemoryLimit: got %d, want 20", p.MemoryLimit())
	}
}

func TestGlobalBufferPoolRoundTrip(t *testing.T) {
	prev := GlobalMemoryLimit()
	defer SetGlobalMemoryLimit(prev)

	buf := GetBuffer(64)
	if len(buf) != 64 {
		t.Fatalf("got length %d, want 64", len(buf))
	}
	PutBuffer(buf)
}

func TestPooledBufferRelease(t *testing.T) {
	pb := NewPooledBuffer(128)
	if len(pb.Data) != 128 {
		t.Fatalf("got length %d, want 128", len(pb.Data))
	}
	pb.Release()
	if pb.Data != nil {
		t.Error("expected Data to be nil after Release")
	}
}

func TestUint16PoolGetPadsShortBuffers(t *testing.T) {
	p := NewUint16Pool(4)
	buf := p.Get(4)
	p.Put(buf)

	got := p.Get(10)
	if len(got) != 10 {
		t.Errorf("got length %d, want 10", len(got))
	}
}

func TestPoolIndexSelectsSmallestFit(t *testing.T) {
	if idx := poolIndex(1); idx != 0 {
		t.Errorf("poolIndex(1): got %d, want 0", idx)
	}
	if idx := poolIndex(bufferSizes[len(bufferSizes)-1] + 1); idx != -1 {
		t.Errorf("poolIndex(oversize): got %d, want -1", idx)
	}
}
