package lcu

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

var (
	ErrLockfileNotFound = errors.New("lockfile not found")
	ErrLeagueNotRunning = errors.New("league client is not running")
)

// Credentials holds the LCU connection details parsed from lockfile
type Credentials struct {
	ProcessName string
	PID         string
	Port        string
	Password    string
	Protocol    string
}

// FindLockfile searches for the League Client lockfile, starting with the
// configured install directory
func FindLockfile(installDir string) (string, error) {
	var possiblePaths []string
	if installDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(installDir, "lockfile"))
	}

	// Common League installation paths on Windows
	possiblePaths = append(possiblePaths,
		"C:/Riot Games/League of Legends/lockfile",
		"D:/Riot Games/League of Legends/lockfile",
		"C:/Program Files/Riot Games/League of Legends/lockfile",
		"C:/Program Files (x86)/Riot Games/League of Legends/lockfile",
		"/Applications/League of Legends.app/Contents/LoL/lockfile",
	)

	for _, drive := range []string{"E:", "F:", "G:"} {
		possiblePaths = append(possiblePaths, filepath.Join(drive, "Riot Games/League of Legends/lockfile"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	return "", ErrLockfileNotFound
}

// ParseLockfile reads and parses the lockfile content
func ParseLockfile(path string) (*Credentials, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile: %w", err)
	}

	// Lockfile format: LeagueClient:pid:port:password:protocol
	parts := strings.Split(strings.TrimSpace(string(content)), ":")
	if len(parts) != 5 {
		return nil, fmt.Errorf("invalid lockfile format: expected 5 parts, got %d", len(parts))
	}

	return &Credentials{
		ProcessName: parts[0],
		PID:         parts[1],
		Port:        parts[2],
		Password:    parts[3],
		Protocol:    parts[4],
	}, nil
}

// WaitForLockfile blocks until the lockfile at path exists and parses, or
// ctx is done. The client writes the lockfile shortly after launch.
func WaitForLockfile(ctx context.Context, path string) (*Credentials, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	// The file may have appeared before the watch started
	if creds, err := ParseLockfile(path); err == nil {
		return creds, nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil, ErrLockfileNotFound
			}
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			// A partial write fails to parse; wait for the next event
			if creds, err := ParseLockfile(path); err == nil {
				return creds, nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil, ErrLockfileNotFound
			}
			return nil, fmt.Errorf("lockfile watch failed: %w", err)
		}
	}
}
