package storage

import (
	"archive/zip"
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/pfrederiksen/retro-events/internal/roster"
)

// ErrInvalidLeague is returned for a league other than A or N.
var ErrInvalidLeague = errors.New("league must be A or N")

var (
	eventFileRE  = regexp.MustCompile(`^(\d{4})([A-Z0-9]{3})\.EV([AN])$`)
	rosterFileRE = regexp.MustCompile(`^([A-Z0-9]{3})(\d{4})\.ROS$`)
)

// Storage manages the local data directory of event and roster files
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Dir returns the data directory.
func (s *Storage) Dir() string {
	return s.dataDir
}

// ArchiveDir is where season archives are looked up by bare name.
func (s *Storage) ArchiveDir() string {
	return filepath.Join(s.dataDir, "archives")
}

func normalizeLeague(league string) (string, error) {
	l := strings.ToUpper(strings.TrimSpace(league))
	if l != "A" && l != "N" {
		return "", fmt.Errorf("%q: %w", league, ErrInvalidLeague)
	}
	return l, nil
}

// EventFile returns the path of the event file for a team's home games.
func (s *Storage) EventFile(year int, team, league string) (string, error) {
	l, err := normalizeLeague(league)
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d%s.EV%s", year, strings.ToUpper(team), l)
	return filepath.Join(s.dataDir, name), nil
}

// RosterFile returns the path of a team's roster file.
func (s *Storage) RosterFile(team string, year int) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("%s%d.ROS", strings.ToUpper(team), year))
}

// EventFiles lists the event files of a season present in the data
// directory, sorted by name.
func (s *Storage) EventFiles(year int) ([]string, error) {
	return s.list(eventFileRE, func(m []string) bool { return m[1] == strconv.Itoa(year) })
}

// RosterTeams lists the teams with a roster file for year.
func (s *Storage) RosterTeams(year int) ([]string, error) {
	paths, err := s.list(rosterFileRE, func(m []string) bool { return m[2] == strconv.Itoa(year) })
	if err != nil {
		return nil, err
	}
	teams := make([]string, len(paths))
	for i, p := range paths {
		teams[i] = rosterFileRE.FindStringSubmatch(filepath.Base(p))[1]
	}
	return teams, nil
}

func (s *Storage) list(re *regexp.Regexp, keep func([]string) bool) ([]string, error) {
	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if m := re.FindStringSubmatch(e.Name()); m != nil && keep(m) {
			out = append(out, filepath.Join(s.dataDir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// ReadLines reads a file as ISO-8859-1 text and returns its lines without
// line terminators.
func (s *Storage) ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", filepath.Base(path), err)
	}
	defer f.Close() // nolint:errcheck

	lines, err := readLines(charmap.ISO8859_1.NewDecoder().Reader(f))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return lines, nil
}

func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}

// LoadRoster reads a team's roster file. It satisfies roster.Loader.
func (s *Storage) LoadRoster(team string, year int) (*roster.Roster, error) {
	lines, err := s.ReadLines(s.RosterFile(team, year))
	if err != nil {
		return nil, err
	}
	return roster.Parse(strings.ToUpper(team), year, lines)
}

// Unpack extracts the event and roster files of a season archive into the
// data directory and returns their paths. A bare archive name is looked up
// in ArchiveDir when it does not exist as given. Entries are flattened to
// their base name; anything that is not an event or roster file is skipped.
func (s *Storage) Unpack(archive string) ([]string, error) {
	path := archive
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) && filepath.Base(path) == path {
		path = filepath.Join(s.ArchiveDir(), archive)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer zr.Close() // nolint:errcheck

	var out []string
	for _, f := range zr.File {
		name := filepath.Base(f.Name)
		if f.FileInfo().IsDir() || !(eventFileRE.MatchString(name) || rosterFileRE.MatchString(name)) {
			continue
		}
		dst := filepath.Join(s.dataDir, name)
		if err := extract(f, dst); err != nil {
			return out, fmt.Errorf("extracting %s: %w", name, err)
		}
		out = append(out, dst)
	}
	sort.Strings(out)
	return out, nil
}

func extract(f *zip.File, dst string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close() // nolint:errcheck

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".unpack-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()           // nolint:errcheck
		os.Remove(tmp.Name()) // nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name()) // nolint:errcheck
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
