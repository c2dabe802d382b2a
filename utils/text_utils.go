package utils

import "strings"

// DeduplicateSlice trims and deduplicates a string slice, keeping the
// first occurrence's position.
func DeduplicateSlice(input []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0)

	for _, val := range input {
		val = strings.TrimSpace(val)
		if val != "" && !seen[val] {
			result = append(result, val)
			seen[val] = true
		}
	}

	return result
}

// DeduplicateInts deduplicates an int slice preserving order.
func DeduplicateInts(input []int) []int {
	seen := make(map[int]bool)
	result := make([]int, 0)

	for _, val := range input {
		if !seen[val] {
			result = append(result, val)
			seen[val] = true
		}
	}

	return result
}
