// Package testutil holds helpers shared by tests of several packages.
package testutil
