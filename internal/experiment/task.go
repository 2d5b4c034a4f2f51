// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package experiment

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// task runs functions on their own goroutines, at most cap(slots) at a time,
// and collects every returned error or recovered panic.
type task struct {
	sync.WaitGroup
	slots chan struct{}
	head  atomic.Pointer[taskerr]
}

func newTask(parallel int) *task {
	if parallel < 1 {
		parallel = 1
	}
	return &task{slots: make(chan struct{}, parallel)}
}

func (task *task) run(name string, f func() error) {
	task.Add(1)
	go func() {
		task.slots <- struct{}{}
		end := false
		defer func() {
			<-task.slots
			task.Done()
			if end {
				return
			}
			switch v := recover().(type) {
			case nil:
			case error:
				task.push(fmt.Errorf("%s: %w", name, v))
			default:
				task.push(fmt.Errorf("%s: %w", name, anyv{v}))
			}
		}()
		if err := f(); err != nil {
			task.push(fmt.Errorf("%s: %w", name, err))
		}
		end = true
	}()
}

func (task *task) push(err error) {
	e := &taskerr{err: err}
	for {
		head := task.head.Load()
		e.next = head
		if task.head.CompareAndSwap(head, e) {
			return
		}
	}
}

// wait blocks until every function returned. The error, if any, unwraps to
// each collected error, latest first.
func (task *task) wait() error {
	task.Wait()
	head := task.head.Swap(nil)
	if head == nil {
		return nil
	}
	return head
}

type taskerr struct {
	next *taskerr
	err  error
}

func (task *taskerr) each(yield func(error) bool) {
	for ; task != nil; task = task.next {
		if !yield(task.err) {
			return
		}
	}
}

func (task *taskerr) Error() string {
	var msg []byte
	for err := range task.each {
		msg = append(msg, '\n')
		msg = append(msg, err.Error()...)
	}
	if len(msg) == 0 {
		return ""
	}
	return string(msg[1:])
}

func (task *taskerr) Unwrap() (errs []error) {
	for err := range task.each {
		errs = append(errs, err)
	}
	return
}

type anyv struct{ any }

func (v anyv) Error() string {
	return fmt.Sprintf("recovered💊: %v", v.any)
}
