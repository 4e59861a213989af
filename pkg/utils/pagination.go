package utils

// CalculateTotalPages reports how many pages a result set of total rows
// spans at perPage rows per page.
func CalculateTotalPages(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}

	pages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		pages++
	}
	return int(pages)
}

// CalculateOffset converts a 1-based page number into a row offset.
// Pages below 1 clamp to the first page.
func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}
