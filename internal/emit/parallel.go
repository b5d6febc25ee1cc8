package emit

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// WorkItem is one category to resolve.
type WorkItem struct {
	Seq      int
	Category string
}

// WorkResult holds the records resolved for a single category.
type WorkResult struct {
	Seq      int
	Category string
	Records  []Record
	Err      error
}

// ParallelRecords resolves categories using a pool of workers.
// Results are sent in arrival order; use OrderedCollect to consume them in
// sequence-number order. If workers is 0, runtime.NumCPU() is used.
func (e *Emitter) ParallelRecords(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				recs, err := e.Records(item.Category)
				results <- WorkResult{
					Seq:      item.Seq,
					Category: item.Category,
					Records:  recs,
					Err:      err,
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// Out-of-order results are buffered until the next expected one arrives.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}

// EmitAll writes the records of every category to w, in the order given.
// Categories are resolved concurrently; output matches a sequential run.
// Categories without a tier are logged and skipped.
func (e *Emitter) EmitAll(categories []string, workers int, w *Writer) error {
	items := make(chan WorkItem, len(categories))
	for i, c := range categories {
		items <- WorkItem{Seq: i, Category: c}
	}
	close(items)

	results := e.ParallelRecords(items, workers)

	if err := OrderedCollect(results, func(r WorkResult) error {
		if r.Err != nil {
			e.logger.Warn("category produces no annotation output",
				zap.String("category", r.Category),
				zap.Error(r.Err))
			return nil
		}
		for _, rec := range r.Records {
			if err := w.Write(rec); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
		e.logger.Info("emitted category",
			zap.String("category", r.Category),
			zap.Int("records", len(r.Records)))
		return nil
	}); err != nil {
		return err
	}

	return w.Flush()
}
