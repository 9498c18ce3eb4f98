package common

// PageParams bounds the window of rows returned by report queries.
// A Limit of zero means no limit.
type PageParams struct {
	Limit  int `json:"limit" validate:"gte=0"`
	Offset int `json:"offset" validate:"gte=0"`
}

// DefaultPageParams returns the default report window
func DefaultPageParams() PageParams {
	return PageParams{
		Limit:  20,
		Offset: 0,
	}
}

// Normalize clamps the window to sane values
func (p PageParams) Normalize(maxLimit int) PageParams {
	if p.Limit < 0 {
		p.Limit = 0
	}
	if maxLimit > 0 && p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Window resolves the half-open index range [start, end) that this
// page selects from a collection of the given size.
func (p PageParams) Window(total int) (start, end int) {
	start = p.Offset
	if start > total {
		start = total
	}
	end = total
	if p.Limit > 0 && start+p.Limit < total {
		end = start + p.Limit
	}
	return start, end
}

// PageInfo describes the window that was actually returned
type PageInfo struct {
	Limit    int  `json:"limit"`
	Offset   int  `json:"offset"`
	Total    int  `json:"total"`
	Returned int  `json:"returned"`
	HasMore  bool `json:"has_more"`
}

// NewPageInfo builds page metadata for a windowed result
func NewPageInfo(params PageParams, total, returned int) *PageInfo {
	return &PageInfo{
		Limit:    params.Limit,
		Offset:   params.Offset,
		Total:    total,
		Returned: returned,
		HasMore:  params.Offset+returned < total,
	}
}
