package dto

import "time"

type PollPendingOrdersCommand struct {
	Now       time.Time
	BatchSize int
}

type PollPendingOrdersOutput struct {
	Scanned int `json:"scanned"`
	Paid    int `json:"paid"`
	Expired int `json:"expired"`
	Waiting int `json:"waiting"`
	Errors  int `json:"errors"`
}
