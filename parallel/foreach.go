// Package parallel contains the bounded parallel loops used by data loading and layer kernels.
package parallel

import "runtime"
import "sync"

// Threads is the default concurrency of layer kernels. Zero or negative means one.
var Threads = runtime.NumCPU()

// ForEach executes a for loop with a limited number of concurrent goroutines.
// Each goroutine processes one integer, from 0 to length.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1 // Default to 1 if limit is zero or negative
	}
	if length <= 0 {
		return // No iterations to perform
	}

	sem := make(chan struct{}, limit) // Semaphore with buffer size 'limit'
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		sem <- struct{}{} // Acquire semaphore
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore after function exits

			body(i)
		}(i)
	}

	wg.Wait()
}

// minChunk is the smallest range handed to a goroutine by ForRange.
const minChunk = 8

// ForRange splits [0, length) into at most limit contiguous chunks and runs body on each
// chunk concurrently. Chunks never overlap, so body may write to the rows it owns.
func ForRange(length, limit int, body func(lo, hi int)) {
	if length <= 0 {
		return
	}
	if limit <= 0 {
		limit = 1
	}
	if most := (length + minChunk - 1) / minChunk; limit > most {
		limit = most
	}
	if limit == 1 {
		body(0, length)
		return
	}
	chunk := (length + limit - 1) / limit
	var wg sync.WaitGroup
	for lo := 0; lo < length; lo += chunk {
		hi := lo + chunk
		if hi > length {
			hi = length
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			body(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}
