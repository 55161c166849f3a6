package utils

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

type taskInput[T any] struct {
	index int
	total int
	value T
}

type taskOutput[T any] struct {
	index  int
	result T
}

// WorkerPool applies f to a slice of inputs with at most maxWorkers
// goroutines and returns the results in input order.
type WorkerPool[I any, O any] struct {
	maxWorkers int
	f          func(ctx context.Context, value I) (O, error)
	onProgress func(current int, total int)
}

func NewWorkerPool[I any, O any](f func(ctx context.Context, value I) (O, error), maxWorkers int) *WorkerPool[I, O] {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	return &WorkerPool[I, O]{
		maxWorkers: maxWorkers,
		f:          f,
	}
}

func (wp *WorkerPool[I, O]) worker(ctx context.Context, id int, inputCh <-chan taskInput[I], outputCh chan<- taskOutput[O]) error {
	for {
		select {
		case input, ok := <-inputCh:
			if !ok {
				return nil
			}

			result, err := wp.f(ctx, input.value)
			if err != nil {
				return fmt.Errorf("worker %d error: %w", id, err)
			}

			if wp.onProgress != nil {
				wp.onProgress(input.index+1, input.total)
			}

			select {
			case outputCh <- taskOutput[O]{index: input.index, result: result}:
			case <-ctx.Done():
				return nil
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// Map runs f over input. The first failing task cancels the rest; all
// task errors are joined into the returned error.
func (wp *WorkerPool[I, O]) Map(ctx context.Context, input []I) ([]O, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var workerErrs error

	inputCh := make(chan taskInput[I])
	outputCh := make(chan taskOutput[O])

	for i := 0; i < wp.maxWorkers; i++ {
		id := i + 1
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := wp.worker(ctx, id, inputCh, outputCh)
			if err != nil {
				errMu.Lock()
				workerErrs = errors.Join(workerErrs, err)
				errMu.Unlock()
				cancel()
			}
		}()
	}

	go func() {
		defer close(inputCh)

		inputLen := len(input)
		for index, value := range input {
			select {
			case inputCh <- taskInput[I]{index: index, value: value, total: inputLen}:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outputCh)
	}()

	output := make([]O, len(input))
	for taskOutput := range outputCh {
		output[taskOutput.index] = taskOutput.result
	}

	if workerErrs == nil && ctx.Err() != nil {
		return output, fmt.Errorf("can't finish tasks: %w", ctx.Err())
	}

	return output, workerErrs
}

// OnProgress registers a callback run after each finished task. It is
// called from worker goroutines.
func (wp *WorkerPool[I, O]) OnProgress(f func(current int, total int)) {
	wp.onProgress = f
}
