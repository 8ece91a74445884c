// Package storage manages the local data directory the parser reads from.
//
// Event files are named {YEAR}{TEAM}.EV{A|N} (the home games of one team in
// one season, American or National league), roster files {TEAM}{YEAR}.ROS,
// and season archives live under archives/. Files are read as ISO-8859-1,
// the encoding the published files use for accented player names.
// The default storage location is ~/.local/share/retro-events/.
package storage
