package fx

import "go.uber.org/fx"

// AppModule reúne todos os módulos da aplicação
var AppModule = fx.Options(
	ConfigModule,
	InfrastructureModule,
	DomainModule,
	RoutesModule,
	ServerModule,
	SchedulerModule,
)

// WorkerModule sobe apenas os trabalhos periódicos, sem o servidor HTTP
var WorkerModule = fx.Options(
	ConfigModule,
	InfrastructureModule,
	DomainModule,
	SchedulerModule,
)
