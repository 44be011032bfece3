package bus

import "testing"

func TestPublish_FansOut(t *testing.T) {
	b := New[string]()
	a, cancelA := b.Subscribe(1)
	c, cancelC := b.Subscribe(1)
	defer cancelA()
	defer cancelC()

	if n := b.Publish("signed_in"); n != 2 {
		t.Fatalf("delivered = %d want 2", n)
	}
	if got := <-a; got != "signed_in" {
		t.Fatalf("a got %q", got)
	}
	if got := <-c; got != "signed_in" {
		t.Fatalf("c got %q", got)
	}
}

func TestPublish_DropsWhenFull(t *testing.T) {
	b := New[int]()
	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish(1)
	if n := b.Publish(2); n != 0 {
		t.Fatalf("full subscriber should be skipped, delivered=%d", n)
	}
	if v := <-ch; v != 1 {
		t.Fatalf("got %d want 1", v)
	}
}

func TestCancel_RemovesAndClosesOnce(t *testing.T) {
	b := New[int]()
	ch, cancel := b.Subscribe(0)
	cancel()
	cancel()

	if b.Len() != 0 {
		t.Fatalf("Len = %d want 0", b.Len())
	}
	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed")
	}
	if n := b.Publish(1); n != 0 {
		t.Fatalf("publish after cancel delivered %d", n)
	}
}

func TestClose_ClosesSubscribersAndRejectsNew(t *testing.T) {
	b := New[int]()
	ch, cancel := b.Subscribe(1)
	b.Close()
	cancel()

	if _, ok := <-ch; ok {
		t.Fatalf("channel should be closed after Close")
	}
	late, _ := b.Subscribe(1)
	if _, ok := <-late; ok {
		t.Fatalf("subscribe after Close should yield a closed channel")
	}
}
