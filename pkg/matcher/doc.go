// Package matcher provides the small assertion vocabulary used by reqcheck:
// value matchers (EqualTo, IsBetween, AnyOf, AllOf, Not) and a Checker that
// turns a match into a recorded check, an aborting requirement or a silent assertion.
package matcher
