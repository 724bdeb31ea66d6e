// Package fixtures provides test data factories for the job site API.
//
// Create a factory with a database connection:
//
//	f := fixtures.New(tdb.DB)
//
// Factory methods create domain records:
//
//	job := f.CreateJob(t, fixtures.WithCompany("Acme"))
//	expired := f.CreateExpiredJob(t)
//	sub := f.CreateSubscription(t, model.ChannelJob, model.ChannelBlog)
//	legacy := f.CreateLegacySubscription(t) // no types field
//	f.CreateCompany(t, "Acme", 3, true)
//
// Unique titles, company names and emails are generated automatically.
// Test data is removed when the test database is closed.
package fixtures
