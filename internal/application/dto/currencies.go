package dto

type ListCurrenciesQuery struct{}

type CurrencyOutput struct {
	Code                  string `json:"code"`
	RequiredConfirmations int    `json:"required_confirmations"`
}

type ListCurrenciesOutput struct {
	Currencies []CurrencyOutput `json:"currencies"`
}
