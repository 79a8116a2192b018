package types

import "strings"

// Order is the sort direction of a list endpoint
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseOrder accepts asc or desc in any case. Anything else is desc.
func ParseOrder(s string) Order {
	if Order(strings.ToLower(strings.TrimSpace(s))) == OrderAsc {
		return OrderAsc
	}
	return OrderDesc
}

// Asc reports whether rows are listed in ascending order
func (o Order) Asc() bool {
	return o == OrderAsc
}
