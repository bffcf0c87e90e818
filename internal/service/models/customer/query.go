package customer

// QueryCustomersModel represents filter parameters for querying customers.
type QueryCustomersModel struct {
	Ids    []int64 `json:"ids,omitempty"`
	Limit  int     `json:"limit,omitempty"`
	Offset int     `json:"offset,omitempty"`
}
