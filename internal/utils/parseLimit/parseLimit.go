package utils

import (
	"docmanager/internal/models"
	"net/url"
	"strconv"
)

func ParseLimit(s string) int {
	limit, err := strconv.Atoi(s)
	if err != nil || limit <= 0 {
		return 0
	}

	return limit
}

// ParsePage reads page and pageSize. Missing or bad values fall back to the defaults.
func ParsePage(q url.Values) models.Page {
	return models.Page{
		Number: ParseLimit(q.Get("page")),
		Size:   ParseLimit(q.Get("pageSize")),
	}.Normalize()
}
