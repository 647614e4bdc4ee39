package action

import (
	"context"
	"fmt"
	"log"
)

// KeyWriter is the interface for writing key sequences
type KeyWriter interface {
	WriteKey(key KeyPress) error
}

// Job is a key sequence queued for a completed hold
type Job struct {
	Button string
	Keys   Sequence
}

// Executor writes key sequences on its own goroutine so a slow writer
// never stalls the event loop that completes holds
type Executor struct {
	writer KeyWriter
	jobs   chan Job
}

// NewExecutor creates an executor with room for queue pending jobs
func NewExecutor(writer KeyWriter, queue int) *Executor {
	if queue <= 0 {
		queue = 16
	}
	return &Executor{
		writer: writer,
		jobs:   make(chan Job, queue),
	}
}

// Submit queues a job without blocking. It returns false if the queue is full.
func (e *Executor) Submit(job Job) bool {
	select {
	case e.jobs <- job:
		return true
	default:
		return false
	}
}

// Run executes queued jobs until ctx is done
func (e *Executor) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-e.jobs:
			if err := e.Execute(job.Keys); err != nil {
				log.Printf("Button %s: %v", job.Button, err)
			}
		}
	}
}

// Execute writes every key of seq in order
func (e *Executor) Execute(seq Sequence) error {
	for _, key := range seq {
		if err := e.writer.WriteKey(key); err != nil {
			return fmt.Errorf("failed to write key %s: %w", key, err)
		}
	}
	return nil
}
