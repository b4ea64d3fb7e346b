// Package grading implements the HUB grading policy: converting component scores into
// subject averages and letter grades, rolling subjects up into semester, year and
// cumulative GPAs, classifying the results, forecasting the GPA needed to reach a target and
// placing a student inside a historical peer cohort.
//
// Every function in this package is pure. Inputs are never mutated and no state is shared,
// so callers may invoke them concurrently without coordination.
package grading
