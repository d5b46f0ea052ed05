// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package labyrinth

import (
	"container/heap"
	"sync"
	"time"

	"go.uber.org/zap"
)

type WatchdogTask struct {
	ID       string
	Task     func()
	Deadline time.Time

	index int // for heap to work more efficiently
}

func NewWatchdogTask(ID string, task func(), deadline time.Time) *WatchdogTask {
	return &WatchdogTask{
		ID:       ID,
		Task:     task,
		Deadline: deadline,
	}
}

// Watchdog runs tasks whose deadline has passed when it is ticked.
// The scheduler registers one task per rendezvous and removes it once the
// participant answers.
type Watchdog struct {
	lock sync.Mutex

	tasks map[string]*WatchdogTask
	heap  watchdogHeap
	now   time.Time

	log Logger
}

func NewWatchdog(log Logger, startTime time.Time) *Watchdog {
	return &Watchdog{
		now:   startTime,
		tasks: make(map[string]*WatchdogTask),
		log:   log,
	}
}

func (w *Watchdog) GetTime() time.Time {
	w.lock.Lock()
	defer w.lock.Unlock()

	return w.now
}

func (w *Watchdog) Tick(now time.Time) {
	w.lock.Lock()
	w.now = now
	w.lock.Unlock()

	for {
		w.lock.Lock()
		if w.heap.Len() == 0 {
			w.lock.Unlock()
			return
		}

		next := w.heap[0]
		if next.Deadline.After(w.now) {
			w.lock.Unlock()
			return
		}

		heap.Pop(&w.heap)
		delete(w.tasks, next.ID)
		w.lock.Unlock()

		w.log.Debug("Watchdog deadline expired", zap.String("taskID", next.ID))
		next.Task()
	}
}

func (w *Watchdog) AddTask(task *WatchdogTask) {
	w.lock.Lock()
	defer w.lock.Unlock()

	if _, ok := w.tasks[task.ID]; ok {
		w.log.Warn("Watchdog task already registered", zap.String("taskID", task.ID))
		return
	}

	w.tasks[task.ID] = task
	heap.Push(&w.heap, task)
}

func (w *Watchdog) RemoveTask(ID string) {
	w.lock.Lock()
	defer w.lock.Unlock()

	task, ok := w.tasks[ID]
	if !ok {
		return
	}

	heap.Remove(&w.heap, task.index)
	delete(w.tasks, ID)
}

func (w *Watchdog) Size() int {
	w.lock.Lock()
	defer w.lock.Unlock()

	return len(w.tasks)
}

// ----------------------------------------------------------------------
type watchdogHeap []*WatchdogTask

func (h watchdogHeap) Len() int { return len(h) }

// Less returns if the task at index [i] expires before the task at index [j]
func (h watchdogHeap) Less(i, j int) bool { return h[i].Deadline.Before(h[j].Deadline) }

func (h watchdogHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *watchdogHeap) Push(x any) {
	task := x.(*WatchdogTask)
	task.index = len(*h)
	*h = append(*h, task)
}

func (h *watchdogHeap) Pop() any {
	old := *h
	n := len(old)
	task := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	task.index = -1
	return task
}
