package utils

// RemoveDuplicates keeps the first item for every key, preserving order.
func RemoveDuplicates[T any, K comparable](items []T, key func(T) K) []T {
	allKeys := make(map[K]struct{}, len(items))
	list := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, seen := allKeys[k]; !seen {
			allKeys[k] = struct{}{}
			list = append(list, item)
		}
	}
	return list
}

