// Package async provides a bounded worker pool used to fan the dashboard's
// report methods out over a fixed number of goroutines.
package async

import (
	"context"
	"sync"
)

// Task is one named unit of work.
type Task struct {
	Name    string
	Execute func() (any, error)
}

// Result carries a task's outcome back keyed by its name.
type Result struct {
	Name string
	Data any
	Err  error
}

// Pool runs batches of tasks over a fixed number of workers. A Pool is good
// for one Execute call.
type Pool struct {
	workerCount int
	tasks       chan Task
	results     chan Result
}

func NewPool(workerCount int) *Pool {
	return &Pool{
		workerCount: workerCount,
		tasks:       make(chan Task),
		results:     make(chan Result),
	}
}

func (p *Pool) worker(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case task, ok := <-p.tasks:
			if !ok {
				return
			}
			data, err := task.Execute()
			p.results <- Result{Name: task.Name, Data: data, Err: err}
		case <-ctx.Done():
			return
		}
	}
}

// Execute runs all tasks and returns their results keyed by task name. A
// canceled context returns whatever results have arrived so far.
func (p *Pool) Execute(ctx context.Context, tasks []Task) map[string]Result {
	var wg sync.WaitGroup
	results := make(map[string]Result)

	for i := 0; i < p.workerCount; i++ {
		wg.Add(1)
		go p.worker(ctx, &wg)
	}

	go func() {
		for _, task := range tasks {
			select {
			case p.tasks <- task:
			case <-ctx.Done():
				return
			}
		}
		close(p.tasks)
	}()

	for i := 0; i < len(tasks); i++ {
		select {
		case result := <-p.results:
			results[result.Name] = result
		case <-ctx.Done():
			return results
		}
	}

	wg.Wait()
	close(p.results)

	return results
}
