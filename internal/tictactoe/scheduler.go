package tictactoe

import (
	"sync"
	"time"
)

type Scheduler interface {
	AfterFunc(delay time.Duration, task func())
}

// TimerScheduler delays tasks with time.AfterFunc but never runs them itself: expired tasks
// are queued on Tasks so the session owner executes them on its own goroutine.
type TimerScheduler struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

func NewTimerScheduler(buffer int) *TimerScheduler {
	return &TimerScheduler{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

func (that *TimerScheduler) AfterFunc(delay time.Duration, task func()) {
	time.AfterFunc(delay, func() {
		select {
		case that.tasks <- task:
		case <-that.done:
		}
	})
}

func (that *TimerScheduler) Tasks() <-chan func() {
	return that.tasks
}

// Stop drops every task that has not been queued yet.
func (that *TimerScheduler) Stop() {
	that.once.Do(func() {
		close(that.done)
	})
}
