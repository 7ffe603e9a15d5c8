// Package async runs a batch of named tasks on a bounded worker pool and
// collects their results keyed by name. The stats report uses it to fan
// out its independent aggregation queries.
package async

import (
	"context"
	"sync"
)

// Task is a named unit of work. Names key the map returned by Execute,
// so they must be unique within a batch.
type Task struct {
	Name    string
	Execute func() (interface{}, error)
}

// Result pairs a task's output with the error it returned, if any.
type Result struct {
	Name string
	Data interface{}
	Err  error
}

// Pool runs task batches on a fixed number of workers.
type Pool struct {
	workers int
}

func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Execute runs the batch and blocks until every task has finished or ctx
// is cancelled. On cancellation the partial map is returned; callers can
// tell by checking for missing names.
func (p *Pool) Execute(ctx context.Context, tasks []Task) map[string]Result {
	feed := make(chan Task)
	out := make(chan Result)

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for task := range feed {
				data, err := task.Execute()
				select {
				case out <- Result{Name: task.Name, Data: data, Err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(feed)
		for _, task := range tasks {
			select {
			case feed <- task:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make(map[string]Result, len(tasks))
	for {
		select {
		case r, ok := <-out:
			if !ok {
				return results
			}
			results[r.Name] = r
		case <-ctx.Done():
			return results
		}
	}
}
