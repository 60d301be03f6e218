package version

import (
	// go:embedディレクティブ用
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/mod/semver"

	"github.com/kakkky/lispsole/errs"
)

// VERSION は現在のlispsoleのバージョンを表す
const VERSION = "v0.3.0"

const (
	releaseURL    = "https://api.github.com/repos/kakkky/lispsole/releases/latest"
	cacheLifetime = 24 * time.Hour
)

// PrintVersion は現在のlispsoleのバージョンを表示する
func PrintVersion(w io.Writer) {
	fmt.Fprintln(w, "   "+VERSION)
}

//go:embed latest_ver_note_ascii.txt
var latestVerNoteASCII []byte

// PrintNoteLatestVersion は最新バージョンが存在する場合の通知を表示する
func PrintNoteLatestVersion(w io.Writer, latestVersion string) {
	fmt.Fprintf(w, string(latestVerNoteASCII), latestVersion, VERSION)
}

type relesasesInfoResponse struct {
	LatestVersion string `json:"tag_name"`
}

type latestVersionCache struct {
	LastChecked   time.Time `json:"last_checked"`
	LatestVersion string    `json:"latest_version"`
}

// Checker は最新のリリースを問い合わせ、結果を一定時間キャッシュする
type Checker struct {
	client     *http.Client
	releaseURL string
	cachePath  string
	now        func() time.Time
}

// NewChecker は<UserConfigDir>/lispsole/version.jsonをキャッシュに使うCheckerを生成する
func NewChecker() (*Checker, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, errs.NewInternalError("failed to get user config directory").Wrap(err)
	}
	return &Checker{
		client:     &http.Client{Timeout: 3 * time.Second},
		releaseURL: releaseURL,
		cachePath:  filepath.Join(configDir, "lispsole", "version.json"),
		now:        time.Now,
	}, nil
}

// IsLatestVersion は現在のバージョンが最新かどうかを判定し、最新のバージョンも返す
func (c *Checker) IsLatestVersion() (bool, string, error) {
	cache, err := c.readCache()
	if err != nil {
		return false, "", err
	}
	// キャッシュが有効であれば、キャッシュにあるlatest_versionと比較する
	if cache != nil && c.now().Sub(cache.LastChecked) < cacheLifetime {
		return isLatest(cache.LatestVersion), cache.LatestVersion, nil
	}
	latestVersion, err := c.fetchLatestVersion()
	if err != nil {
		return false, "", err
	}
	if err := c.writeCache(latestVersion); err != nil {
		return false, "", err
	}
	return isLatest(latestVersion), latestVersion, nil
}

// 不正なバージョン文字列は比較できないので最新として扱う
func isLatest(latestVersion string) bool {
	if !semver.IsValid(latestVersion) {
		return true
	}
	return semver.Compare(VERSION, latestVersion) >= 0
}

func (c *Checker) readCache() (*latestVersionCache, error) {
	data, err := os.ReadFile(c.cachePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewInternalError("failed to read version cache").Wrap(err)
	}
	var cache latestVersionCache
	if err := json.Unmarshal(data, &cache); err != nil {
		// 壊れたキャッシュは無視して取得し直す
		return nil, nil
	}
	return &cache, nil
}

func (c *Checker) writeCache(latestVersion string) error {
	if err := os.MkdirAll(filepath.Dir(c.cachePath), 0o755); err != nil {
		return errs.NewInternalError("failed to create lispsole config directory").Wrap(err)
	}
	cache := latestVersionCache{
		LastChecked:   c.now(),
		LatestVersion: latestVersion,
	}
	data, err := json.MarshalIndent(cache, "", "    ")
	if err != nil {
		return errs.NewInternalError("failed to marshal version cache").Wrap(err)
	}
	if err := os.WriteFile(c.cachePath, data, 0o644); err != nil {
		return errs.NewInternalError("failed to write version cache").Wrap(err)
	}
	return nil
}

func (c *Checker) fetchLatestVersion() (string, error) {
	resp, err := c.client.Get(c.releaseURL)
	if err != nil {
		return "", errs.NewInternalError("failed to fetch latest release").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errs.Newf(errs.INTERNAL_ERROR, "failed to fetch latest release: %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.NewInternalError("failed to read response body").Wrap(err)
	}
	var releasesInfo relesasesInfoResponse
	if err := json.Unmarshal(body, &releasesInfo); err != nil {
		return "", errs.NewInternalError("failed to unmarshal response body").Wrap(err)
	}
	return releasesInfo.LatestVersion, nil
}
