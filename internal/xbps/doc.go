// Package xbps is the boundary to the external XBPS toolchain. The core
// pipeline never parses tool output beyond the two-column listing of
// xbps-query -l, and never interprets exit codes except as success/failure
// (plus the three-way convention of xbps-uhelper cmpver). Everything is
// behind the System interface so tests substitute a fake without touching
// the real package manager.
package xbps
