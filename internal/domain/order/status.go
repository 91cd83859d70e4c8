package order

import "fmt"

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusActive:    true,
	StatusSuspended: true,
	StatusCancelled: true,
}

func ParseStatus(value string) (Status, error) {
	s := Status(value)
	if !validStatuses[s] {
		return "", fmt.Errorf("invalid order status: %q", value)
	}
	return s, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	return validStatuses[s]
}

// CountsTowardsRevenue reports whether the order contributes to MRR.
func (s Status) CountsTowardsRevenue() bool {
	return s == StatusActive
}
