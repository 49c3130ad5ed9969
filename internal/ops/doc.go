// Package ops holds the operation functions run by the unit-of-work
// dispatcher. Each constructor binds its arguments and returns a
// uow.Operation; nothing touches the database until the operation is passed
// to uow.Run, uow.Do, uow.GetOne or uow.GetMany.
package ops
