// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice complements the standard [slices] package with the generic
batching helpers used by the ingestion pipeline.
*/
package slice

// Chunk splits input into consecutive sub-slices of at most size elements.
// Every element lands in exactly one chunk, in its original order.
// It panics if size is not positive.
func Chunk[T any](input []T, size int) [][]T {
	if size <= 0 {
		panic("slice: chunk size must be positive")
	}
	if len(input) == 0 {
		return nil
	}

	chunks := make([][]T, 0, (len(input)+size-1)/size)
	for start := 0; start < len(input); start += size {
		end := min(start+size, len(input))
		chunks = append(chunks, input[start:end:end])
	}
	return chunks
}

// Map maps a slice of type T to a slice of type U using the provided transformation function.
func Map[T any, U any](input []T, transform func(T) U) []U {
	if input == nil {
		return nil
	}

	result := make([]U, len(input))
	for i, v := range input {
		result[i] = transform(v)
	}
	return result
}

// Unique returns input without repeated elements, keeping first occurrences in order.
func Unique[T comparable](input []T) []T {
	seen := make(map[T]struct{}, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
