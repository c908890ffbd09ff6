// Package model provides the data structures shared by the pipeline package and its options.
// It describes the steps of a pipeline system, stages and the pipes inside them, and the hooks an option
// receives while the system is built and run.
package model
