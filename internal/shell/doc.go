// Package shell is the CatTrack navigation shell: a nav bar with the brand
// link and one tab per top-level route, and an outlet that renders whichever
// route is active.
//
// Routing lives in Router. The shell only decides which link looks active
// and forwards messages to the active route; it has no data of its own.
package shell
