// Package preflight provides readiness checks for the external programs and
// the gallery directory simplegallery depends on.
//
// The CLI "simplegallery check" command runs RunAll and renders the results;
// nothing here mutates the gallery.
package preflight
