package availability

import "github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"

// DBExecutor общий интерфейс выполнения запросов (*sql.DB, *dbmetrics.DB, транзакция)
type DBExecutor = dbmetrics.DBExecutor
