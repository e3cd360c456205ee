package shared

import (
	"net/url"
	"strconv"

	"laborpay/internal/transport/http/api"
)

type Page struct {
	Limit  int
	Offset int
}

// Page reads limit and offset from q. Malformed values are reported as
// issues; a limit above maxLimit is clamped.
func (v *Validator) Page(q url.Values, defaultLimit, maxLimit int) Page {
	page := Page{Limit: defaultLimit}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			v.Add("limit", "must be a positive integer")
		} else {
			page.Limit = n
		}
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			v.Add("offset", "must be zero or a positive integer")
		} else {
			page.Offset = n
		}
	}
	if maxLimit > 0 && page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page
}

func (p Page) Meta(count int) api.Meta {
	return api.Meta{Limit: p.Limit, Offset: p.Offset, Count: count}
}
