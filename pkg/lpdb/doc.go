// Package lpdb is a client for the Liquipedia database (LPDB) v3 API.
//
// A query is started with Client.Endpoint (or one of the typed helpers such as
// Client.Match) and configured with chained setters. Every setter checks the
// parameter against the client's schema; the first illegal call is recorded
// as a *SchemaViolation and every later setter becomes a no-op. The recorded
// error is returned by Materialize and Execute.
//
//	players, err := client.Standard(schema.Player).
//		Wiki("dota2").
//		Where(conditions.Where("nationality", conditions.Equals, "Sweden")).
//		Limit(5).
//		Execute(ctx)
//
// A Query is not safe for concurrent use. A Client is.
package lpdb
