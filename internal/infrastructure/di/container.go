package di

import (
	"database/sql"
	"log"

	"paywatch/internal/adapters/inbound/http/controllers"
	httpRouter "paywatch/internal/adapters/inbound/http/router"
	bitcoinclient "paywatch/internal/adapters/outbound/chainclient/bitcoin"
	ethereumclient "paywatch/internal/adapters/outbound/chainclient/ethereum"
	"paywatch/internal/adapters/outbound/docs"
	"paywatch/internal/adapters/outbound/persistence/postgresql"
	postgresqlorders "paywatch/internal/adapters/outbound/persistence/postgresql/orders"
	postgresqlshared "paywatch/internal/adapters/outbound/persistence/postgresql/shared"
	monerowallet "paywatch/internal/adapters/outbound/wallet/monero"
	portsin "paywatch/internal/application/ports/in"
	"paywatch/internal/application/services"
	"paywatch/internal/application/use_cases"
	"paywatch/internal/infrastructure/config"
	"paywatch/internal/infrastructure/httpserver"
	"paywatch/internal/infrastructure/orderpoller"
)

type Container struct {
	Database                     *sql.DB
	Server                       *httpserver.Server
	InitializePersistenceUseCase portsin.InitializePersistenceUseCase
	PollerWorker                 *orderpoller.Worker
	Registry                     *services.Registry
}

func Build(cfg config.Config, logger *log.Logger) (Container, error) {
	healthUseCase := use_cases.NewGetHealthUseCase()
	openAPIReadModel := docs.NewFileOpenAPISpecReadModel(cfg.OpenAPISpecPath)
	openAPIUseCase := use_cases.NewGetOpenAPISpecUseCase(openAPIReadModel)

	persistenceGateway := postgresql.NewPersistenceBootstrapGateway(
		cfg.DatabaseURL,
		cfg.DatabaseTarget,
		cfg.MigrationsPath,
		logger,
	)
	initializePersistenceUseCase := use_cases.NewInitializePersistenceUseCase(persistenceGateway)
	databasePool := postgresqlshared.NewDatabasePool(cfg.DatabaseURL, logger)
	orderRepository := postgresqlorders.NewRepository(databasePool, logger)

	bitcoinClient := bitcoinclient.NewClient(bitcoinclient.Config{
		BlockchainInfoBaseURL: cfg.BlockchainInfoBaseURL,
		BlockCypherBaseURL:    cfg.BlockCypherBaseURL,
		BlockCypherToken:      cfg.BlockCypherToken,
	}, logger)
	ethereumClient := ethereumclient.NewClient(ethereumclient.Config{
		EtherscanBaseURL: cfg.EtherscanBaseURL,
		EtherscanAPIKey:  cfg.EtherscanAPIKey,
		FallbackBaseURL:  cfg.ETHFallbackBaseURL,
		FallbackAPIKey:   cfg.ETHFallbackAPIKey,
	}, logger)
	moneroWallet := monerowallet.NewGateway(cfg.MoneroWalletRPCURL, logger)

	registry := services.NewRegistry(services.RegistryDeps{
		DevelopmentMode: cfg.DevelopmentMode(),
		BitcoinClient:   bitcoinClient,
		EthereumClient:  ethereumClient,
		MoneroWallet:    moneroWallet,
		Logger:          logger,
	})

	clock := use_cases.NewSystemClock()
	listCurrenciesUseCase := use_cases.NewListCurrenciesUseCase(registry)
	createOrderUseCase := use_cases.NewCreateOrderUseCase(registry, orderRepository, clock)
	getOrderStatusUseCase := use_cases.NewGetOrderStatusUseCase(registry, orderRepository, clock)
	pollPendingOrdersUseCase := use_cases.NewPollPendingOrdersUseCase(registry, orderRepository, clock)

	pollerWorker := orderpoller.NewWorker(
		cfg.PollerEnabled,
		cfg.PollerInterval,
		cfg.PollerBatchSize,
		pollPendingOrdersUseCase,
		logger,
	)

	healthController := controllers.NewHealthController(healthUseCase, logger)
	swaggerController := controllers.NewSwaggerController(openAPIUseCase, logger)
	currenciesController := controllers.NewCurrenciesController(listCurrenciesUseCase, logger)
	ordersController := controllers.NewOrdersController(createOrderUseCase, getOrderStatusUseCase, logger)

	router := httpRouter.New(httpRouter.Dependencies{
		HealthController:     healthController,
		SwaggerController:    swaggerController,
		CurrenciesController: currenciesController,
		OrdersController:     ordersController,
	})

	server := httpserver.New(cfg.Address(), router, logger)

	return Container{
		Database:                     databasePool,
		Server:                       server,
		InitializePersistenceUseCase: initializePersistenceUseCase,
		PollerWorker:                 pollerWorker,
		Registry:                     registry,
	}, nil
}
