// Package format holds the pure helpers shared by the student lifecycle and the reports:
// age arithmetic, calendar-date round trips, pt-BR display formats and phone masking.
package format
