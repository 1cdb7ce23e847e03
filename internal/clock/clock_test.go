package clock

import (
	"testing"
	"time"
)

func TestRealAfterFuncFires(t *testing.T) {
	c := New()
	fired := make(chan struct{})

	c.AfterFunc(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("AfterFunc did not fire")
	}
}

func TestRealAfterFuncStop(t *testing.T) {
	c := New()
	fired := make(chan struct{}, 1)

	h := c.AfterFunc(50*time.Millisecond, func() { fired <- struct{}{} })
	if !h.Stop() {
		t.Fatal("Stop should report true for a pending call")
	}
	if h.Stop() {
		t.Error("second Stop should report false")
	}

	select {
	case <-fired:
		t.Error("stopped call fired")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRealNegativeDelayFiresImmediately(t *testing.T) {
	c := New()
	fired := make(chan struct{})

	c.AfterFunc(-time.Second, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("negative delay should fire immediately")
	}
}

func TestRealNow(t *testing.T) {
	before := time.Now()
	got := New().Now()
	if got.Before(before) {
		t.Errorf("Now() = %v, before %v", got, before)
	}
}
