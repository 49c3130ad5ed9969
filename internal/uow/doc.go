// Package uow implements the unit-of-work dispatcher and the result shaping
// helpers built on it.
//
// Every call to Run provisions a storage session, executes exactly one
// Operation inside it, and releases the session before returning, whether
// the operation succeeded, failed or panicked. Do, GetOne and GetMany adapt
// the operation's rows to the three calling conventions used by the bot.
package uow
