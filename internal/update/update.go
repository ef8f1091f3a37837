// Package update checks GitHub releases for newer gridselect builds and
// replaces the running binary.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creativeprojects/go-selfupdate"

	"github.com/pengelbrecht/gridselect/internal/config"
)

const (
	repoOwner     = "pengelbrecht"
	repoName      = "gridselect"
	checkInterval = 24 * time.Hour
	checkTimeout  = 3 * time.Second
)

var (
	// ErrDevBuild is returned when the running binary has no release version.
	ErrDevBuild = errors.New("cannot update dev builds")

	// ErrUpToDate is returned by Update when no newer release exists.
	ErrUpToDate = errors.New("already at latest version")
)

// Release describes a published release.
type Release struct {
	Version    string
	ReleaseURL string
}

// InstallMethod is how the binary got onto the machine.
type InstallMethod int

const (
	InstallUnknown InstallMethod = iota
	InstallHomebrew
	InstallGo
)

func (m InstallMethod) String() string {
	switch m {
	case InstallHomebrew:
		return "homebrew"
	case InstallGo:
		return "go"
	default:
		return "unknown"
	}
}

// DetectInstallMethod inspects the executable path.
func DetectInstallMethod() InstallMethod {
	exe, err := os.Executable()
	if err != nil {
		return InstallUnknown
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return InstallUnknown
	}
	return installMethodFor(exe)
}

func installMethodFor(exe string) InstallMethod {
	if strings.Contains(exe, "/Cellar/") ||
		strings.HasPrefix(exe, "/opt/homebrew/") ||
		strings.Contains(exe, "linuxbrew") {
		return InstallHomebrew
	}
	return InstallGo
}

func devBuild(version string) bool {
	v := strings.TrimPrefix(version, "v")
	return v == "" || v == "dev"
}

func latestRelease(ctx context.Context) (*selfupdate.Updater, *selfupdate.Release, bool, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, nil, false, fmt.Errorf("create GitHub source: %w", err)
	}
	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: source})
	if err != nil {
		return nil, nil, false, fmt.Errorf("create updater: %w", err)
	}
	latest, found, err := updater.DetectLatest(ctx, selfupdate.NewRepositorySlug(repoOwner, repoName))
	if err != nil {
		return nil, nil, false, fmt.Errorf("detect latest version: %w", err)
	}
	return updater, latest, found, nil
}

// CheckForUpdate reports the latest release and whether it is newer than
// version. Dev builds never have updates.
func CheckForUpdate(ctx context.Context, version string) (*Release, bool, error) {
	if devBuild(version) {
		return nil, false, nil
	}
	_, latest, found, err := latestRelease(ctx)
	if err != nil || !found {
		return nil, false, err
	}
	rel := &Release{Version: latest.Version(), ReleaseURL: latest.URL}
	return rel, latest.GreaterThan(strings.TrimPrefix(version, "v")), nil
}

// Update replaces the running executable with the latest release.
func Update(ctx context.Context, version string) (string, error) {
	if DetectInstallMethod() == InstallHomebrew {
		return "", fmt.Errorf("gridselect was installed via Homebrew, run: brew upgrade %s/tap/%s", repoOwner, repoName)
	}
	if devBuild(version) {
		return "", ErrDevBuild
	}

	updater, latest, found, err := latestRelease(ctx)
	if err != nil {
		return "", err
	}
	if !found {
		return "", errors.New("no releases found")
	}
	if !latest.GreaterThan(strings.TrimPrefix(version, "v")) {
		return "", fmt.Errorf("%w (%s)", ErrUpToDate, version)
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if err := updater.UpdateTo(ctx, latest, exe); err != nil {
		return "", fmt.Errorf("update: %w", err)
	}
	return latest.Version(), nil
}

// cache remembers the last check so the notice costs one request a day.
type cache struct {
	LastCheck     time.Time `json:"last_check"`
	LatestVersion string    `json:"latest_version,omitempty"`
}

// Checker runs the periodic update check.
type Checker struct {
	// Dir holds the cache file. Empty disables caching.
	Dir string

	// Check looks up the latest release; CheckForUpdate by default.
	Check func(ctx context.Context, version string) (*Release, bool, error)

	Now func() time.Time
}

// NewChecker returns a checker caching in ~/.config/gridselect.
func NewChecker() *Checker {
	return &Checker{
		Dir:   defaultDir(),
		Check: CheckForUpdate,
		Now:   time.Now,
	}
}

func defaultDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, repoName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", repoName)
}

func (c *Checker) path() string {
	if c.Dir == "" {
		return ""
	}
	return filepath.Join(c.Dir, "update-cache.json")
}

func (c *Checker) load() *cache {
	path := c.path()
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var ca cache
	if err := json.Unmarshal(data, &ca); err != nil {
		return nil
	}
	return &ca
}

func (c *Checker) save(ca *cache) {
	path := c.path()
	if path == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return
	}
	data, err := json.Marshal(ca)
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0644)
}

// Notice returns a one-line update notice, or "" when there is nothing
// newer, the check failed, or GRIDSELECT_NO_UPDATE_CHECK is set.
func (c *Checker) Notice(ctx context.Context, version string) string {
	if devBuild(version) || config.NoUpdateCheck() {
		return ""
	}

	if ca := c.load(); ca != nil && c.Now().Sub(ca.LastCheck) < checkInterval {
		// the user may have upgraded since the cache was written
		if ca.LatestVersion != "" && isNewerVersion(ca.LatestVersion, version) {
			return formatNotice(version, ca.LatestVersion, DetectInstallMethod())
		}
		return ""
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	rel, newer, err := c.Check(ctx, version)
	ca := &cache{LastCheck: c.Now()}
	if err == nil && rel != nil {
		ca.LatestVersion = rel.Version
	}
	c.save(ca)

	if err != nil || !newer {
		return ""
	}
	return formatNotice(version, rel.Version, DetectInstallMethod())
}

// isNewerVersion compares major.minor.patch numerically.
func isNewerVersion(a, b string) bool {
	parse := func(v string) [3]int {
		var out [3]int
		parts := strings.SplitN(strings.TrimPrefix(v, "v"), ".", 3)
		for i, p := range parts {
			_, _ = fmt.Sscanf(p, "%d", &out[i])
		}
		return out
	}
	av, bv := parse(a), parse(b)
	for i := range av {
		if av[i] != bv[i] {
			return av[i] > bv[i]
		}
	}
	return false
}

func formatNotice(current, latest string, method InstallMethod) string {
	cmd := repoName + " upgrade"
	if method == InstallHomebrew {
		cmd = fmt.Sprintf("brew upgrade %s/tap/%s", repoOwner, repoName)
	}
	return fmt.Sprintf("Update available: %s -> %s (run: %s)", current, latest, cmd)
}
