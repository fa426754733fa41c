package myqueue

import (
	"context"
	"time"
)

type Task struct {
	UID            string
	WebhookURLPath string
	Payload        []byte
	// Delay postpones delivery, giving the originating request time to finish.
	Delay time.Duration
}

var New func(c context.Context) (TaskQueuer, func(), error)

type TaskQueuer interface {
	Enqueue(c context.Context, task Task) error
}
