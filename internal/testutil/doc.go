// Package testutil holds reproducible test signals, level measurements and
// float-slice assertions shared by the package tests.
package testutil
