// Package repository implements the data access layer for the job site API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct owns one store:
//
//   - JobRepository and BlogRepository: authoritative content records
//   - CompanyRepository: the materialized open-position aggregate
//   - SubscriptionRepository: the audience directory
//   - ApplicationRepository: one application per (job, user)
//
// # Repository Pattern
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, List, ...)
//   - SurrealQL queries are used for all database interactions
//   - Results are decoded onto model structs
//
// GetByID style lookups return (nil, nil) when the record does not exist;
// unique index violations surface as database.ErrDuplicate.
//
// # Query Patterns
//
//   - Parameterized queries with $variable syntax
//   - type::record() for safe ID handling, including name-derived company ids
//   - <datetime> casts for times bound as RFC 3339 strings
//   - time::now() for automatic timestamps
//   - UPSERT with in-statement arithmetic for counters
//
// # Example Usage
//
//	repo := NewCompanyRepository(db)
//	company, err := repo.IncrementFromJob(ctx, model.CompanyMeta{Name: "Acme"})
//	if err != nil {
//	    return err
//	}
package repository
