// Package hcl provides the concrete HCL implementation of the run file
// Loader defined in the `config` package. It is responsible for file
// discovery, parsing, HCL-to-model translation, and turning option
// expressions into ordered option sets.
package hcl
