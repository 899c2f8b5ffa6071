package scheduler

import (
	"container/heap"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	ErrInvalidTriggerTime = errors.New("scheduler: invalid trigger time")
	ErrInvalidAlarmKind   = errors.New("scheduler: invalid alarm kind")
	ErrStopped            = errors.New("scheduler: engine stopped")
)

type AlarmKind string

const (
	KindReminder   AlarmKind = "reminder"
	KindUndoExpiry AlarmKind = "undo-expiry"
)

func (k AlarmKind) IsValid() bool {
	switch k {
	case KindReminder, KindUndoExpiry:
		return true
	default:
		return false
	}
}

// Alarm is one timed wake-up. Ref points at the reminder or task it is about.
type Alarm struct {
	ID    string
	Kind  AlarmKind
	Ref   string
	Label string
	At    time.Time
}

type queueItem struct {
	alarm Alarm
}

type priorityQueue []queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	return pq[i].alarm.At.Before(pq[j].alarm.At)
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
}

func (pq *priorityQueue) Push(x any) {
	*pq = append(*pq, x.(queueItem))
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}

type Engine struct {
	mu      sync.Mutex
	queue   priorityQueue
	out     chan Alarm
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
	log     zerolog.Logger
}

func NewEngine(bufferSize int, log zerolog.Logger) *Engine {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Engine{
		queue:  make(priorityQueue, 0),
		out:    make(chan Alarm, bufferSize),
		wakeup: make(chan struct{}, 1),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		log:    log,
	}
}

// C delivers due alarms. It is closed after Stop.
func (e *Engine) C() <-chan Alarm {
	return e.out
}

func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return
	}
	e.started = true
	heap.Init(&e.queue)
	go e.loop()
}

func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.started || e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	close(e.stopCh)
	e.mu.Unlock()
	<-e.doneCh
}

func (e *Engine) Schedule(a Alarm) error {
	if a.At.IsZero() {
		return ErrInvalidTriggerTime
	}
	if !a.Kind.IsValid() {
		return ErrInvalidAlarmKind
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stopped {
		return ErrStopped
	}

	heap.Push(&e.queue, queueItem{alarm: a})
	e.signalWakeup()
	return nil
}

// Cancel removes every queued alarm with the given id.
func (e *Engine) Cancel(id string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	removed := 0
	for i := len(e.queue) - 1; i >= 0; i-- {
		if e.queue[i].alarm.ID == id {
			heap.Remove(&e.queue, i)
			removed++
		}
	}
	if removed > 0 {
		e.signalWakeup()
	}
	return removed
}

func (e *Engine) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

func (e *Engine) Dropped() uint64 {
	return atomic.LoadUint64(&e.dropped)
}

func (e *Engine) loop() {
	defer close(e.doneCh)
	defer close(e.out)

	var timer *time.Timer
	for {
		next, hasNext := e.peek()
		if !hasNext {
			select {
			case <-e.wakeup:
				continue
			case <-e.stopCh:
				return
			}
		}

		wait := time.Until(next.At)
		if wait < 0 {
			wait = 0
		}
		timer = resetTimer(timer, wait)

		select {
		case <-timer.C:
			due := e.popDue(time.Now())
			for _, a := range due {
				select {
				case e.out <- a:
				default:
					atomic.AddUint64(&e.dropped, 1)
					e.log.Warn().Str("alarm_id", a.ID).Str("kind", string(a.Kind)).Msg("alarm dropped, consumer too slow")
				}
			}
		case <-e.wakeup:
			continue
		case <-e.stopCh:
			if timer != nil {
				stopTimer(timer)
			}
			return
		}
	}
}

func (e *Engine) signalWakeup() {
	select {
	case e.wakeup <- struct{}{}:
	default:
	}
}

func (e *Engine) peek() (Alarm, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return Alarm{}, false
	}
	return e.queue[0].alarm, true
}

func (e *Engine) popDue(now time.Time) []Alarm {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]Alarm, 0)
	for len(e.queue) > 0 {
		next := e.queue[0].alarm
		if next.At.After(now) {
			break
		}
		item := heap.Pop(&e.queue).(queueItem)
		out = append(out, item.alarm)
	}
	return out
}

func resetTimer(timer *time.Timer, d time.Duration) *time.Timer {
	if timer == nil {
		return time.NewTimer(d)
	}
	stopTimer(timer)
	timer.Reset(d)
	return timer
}

func stopTimer(timer *time.Timer) {
	if timer == nil {
		return
	}
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
}
