package dto

type GetHealthQuery struct{}

type GetHealthOutput struct {
	Status string `json:"status"`
}
