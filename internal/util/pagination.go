package util

import "strconv"

// Pagination converts page/page_size query params into offset and limit,
// clamping the size to a sane range.
func Pagination(pageStr, sizeStr string) (offset, limit int) {
	page, _ := strconv.Atoi(pageStr)
	size, _ := strconv.Atoi(sizeStr)

	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return (page - 1) * size, size
}
