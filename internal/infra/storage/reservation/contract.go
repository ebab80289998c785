package reservation

import "github.com/m04kA/SMC-ReservationService/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics для работы с БД.
// Подходят *sqlx.DB и *dbmetrics.DB.
type DBExecutor = dbmetrics.DBExecutor
