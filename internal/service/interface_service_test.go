package service

import (
	"testing"
	"time"
)

func TestLockUserSerializesSameUser(t *testing.T) {
	s := &InterfaceService{}

	unlock := s.lockUser("erd1aaa")

	second := make(chan struct{})
	go func() {
		u := s.lockUser("erd1aaa")
		u()
		close(second)
	}()

	select {
	case <-second:
		t.Fatal("second action for the same user did not wait")
	case <-time.After(50 * time.Millisecond):
	}

	// a different user never contends
	other := make(chan struct{})
	go func() {
		u := s.lockUser("erd1bbb")
		u()
		close(other)
	}()
	select {
	case <-other:
	case <-time.After(time.Second):
		t.Fatal("different user was blocked")
	}

	unlock()
	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("lock was never handed to the waiting action")
	}
}
