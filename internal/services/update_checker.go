package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/go-github/v80/github"
	"golang.org/x/mod/semver"

	"readmeforge/internal/i18n"
)

const (
	releaseOwner = "readmeforge"
	releaseRepo  = "readmeforge"

	updateCheckInterval = 24 * time.Hour
	updateCheckTimeout  = 2 * time.Second
)

// UpdateChecker tells the user when a newer release exists. It never blocks
// the actual command for more than the lookup timeout and stays silent on
// any failure.
type UpdateChecker struct {
	currentVersion string
	trans          *i18n.Translations
}

type updateCache struct {
	LastCheck   time.Time `json:"last_check"`
	LatestKnown string    `json:"latest_known"`
}

func NewUpdateChecker(version string, trans *i18n.Translations) *UpdateChecker {
	return &UpdateChecker{
		currentVersion: version,
		trans:          trans,
	}
}

func (u *UpdateChecker) CheckForUpdates(ctx context.Context) {
	if os.Getenv("READMEFORGE_DISABLE_UPDATE_CHECK") != "" {
		return
	}

	cache, err := u.loadCache()
	if err == nil && time.Since(cache.LastCheck) < updateCheckInterval {
		if cache.LatestKnown != "" && u.isUpdateAvailable(cache.LatestKnown) {
			u.printNotification(cache.LatestKnown)
		}
		return
	}

	client := github.NewClient(nil)
	ctx, cancel := context.WithTimeout(ctx, updateCheckTimeout)
	defer cancel()

	release, _, err := client.Repositories.GetLatestRelease(ctx, releaseOwner, releaseRepo)
	if err != nil {
		return
	}

	latest := release.GetTagName()
	_ = u.saveCache(updateCache{LastCheck: time.Now(), LatestKnown: latest})

	if u.isUpdateAvailable(latest) {
		u.printNotification(latest)
	}
}

func (u *UpdateChecker) isUpdateAvailable(latest string) bool {
	current := u.currentVersion
	if !strings.HasPrefix(current, "v") {
		current = "v" + current
	}
	if !strings.HasPrefix(latest, "v") {
		latest = "v" + latest
	}

	if !semver.IsValid(current) || !semver.IsValid(latest) {
		return current != latest
	}
	return semver.Compare(latest, current) > 0
}

func (u *UpdateChecker) printNotification(latest string) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	green := color.New(color.FgGreen, color.Bold).SprintFunc()

	available := u.trans.GetMessage("new_version_available", 0, map[string]interface{}{
		"Current": u.currentVersion,
		"Latest":  green(latest),
	})
	hint := u.trans.GetMessage("update_hint", 0, nil)

	fmt.Printf("\n%s\n%s\n\n", yellow(available), hint)
}

func (u *UpdateChecker) cachePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	cacheDir := filepath.Join(homeDir, ".config", "readmeforge")
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(cacheDir, "last_update_check.json"), nil
}

func (u *UpdateChecker) loadCache() (updateCache, error) {
	path, err := u.cachePath()
	if err != nil {
		return updateCache{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return updateCache{}, err
	}

	var cache updateCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return updateCache{}, err
	}
	return cache, nil
}

func (u *UpdateChecker) saveCache(cache updateCache) error {
	path, err := u.cachePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
