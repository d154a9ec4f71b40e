package storage

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
	DialectMongo    = "mongodb"
)

func init() {
	RegisterAdapter(isSQLDB, newSQLAdapter)
	RegisterAdapter(isMongoDB, newMongoAdapter)

	// drivers
	RegisterDriver(DialectSQLite, newSQLDriver(DialectSQLite))
	RegisterDriver(DialectPostgres, newSQLDriver(DialectPostgres))
	RegisterDriver(DialectMongo, newMongoDriver)
}
