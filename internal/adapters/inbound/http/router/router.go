package router

import (
	"net/http"

	"paywatch/internal/adapters/inbound/http/controllers"
)

type Dependencies struct {
	HealthController     *controllers.HealthController
	SwaggerController    *controllers.SwaggerController
	CurrenciesController *controllers.CurrenciesController
	OrdersController     *controllers.OrdersController
}

func New(deps Dependencies) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", deps.HealthController.GetHealth)
	mux.HandleFunc("GET /swagger", deps.SwaggerController.RedirectToIndex)
	mux.HandleFunc("GET /swagger/openapi.yaml", deps.SwaggerController.GetOpenAPISpec)
	mux.HandleFunc("GET /swagger/", deps.SwaggerController.ServeUI)
	mux.HandleFunc("GET /v1/currencies", deps.CurrenciesController.ListCurrencies)
	mux.HandleFunc("POST /v1/orders", deps.OrdersController.CreateOrder)
	mux.HandleFunc("GET /v1/orders/{id}", deps.OrdersController.GetOrderStatus)

	return mux
}
