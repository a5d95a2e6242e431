package apiclient

// Pagination mirrors the backend's pagination block.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// Meta is the envelope metadata on list responses.
type Meta struct {
	Pagination Pagination `json:"pagination"`
}

// Paginated is the backend's list envelope. The pipeline does not
// interpret the payload; it only decodes it.
type Paginated[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}
