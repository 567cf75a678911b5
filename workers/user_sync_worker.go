// workers/user_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"skate-challenge-service/metrics"
	"skate-challenge-service/models"
	"skate-challenge-service/store"
	"skate-challenge-service/utils"
)

// RemoteProfile is one profile in the sync service response.
type RemoteProfile struct {
	ExternalID string    `json:"external_id"`
	Username   string    `json:"username"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// GetUserChangesResponse is the top-level structure of the sync service response.
type GetUserChangesResponse struct {
	Users []RemoteProfile `json:"users"`
}

// UserSyncWorker mirrors skater profiles from the sync service into the
// local user directory. Existing users are never overwritten.
type UserSyncWorker struct {
	store        store.Store
	interval     time.Duration
	baseURL      string
	endpointPath string
	serviceToken string
	httpClient   *http.Client

	lastSync time.Time
}

func NewUserSyncWorker(s store.Store, syncServiceBaseURL, serviceToken string, interval time.Duration) *UserSyncWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &UserSyncWorker{
		store:        s,
		interval:     interval,
		baseURL:      syncServiceBaseURL,
		endpointPath: "/api/v1/public/profiles",
		serviceToken: serviceToken,
		httpClient:   utils.HTTPClient,
	}
}

func (w *UserSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting User Sync Worker (sync-service → users)…")
	go w.run(ctx)
}

func (w *UserSyncWorker) run(ctx context.Context) {
	if err := w.SyncOnce(ctx); err != nil {
		log.Printf("⚠️ Initial sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.SyncOnce(ctx); err != nil {
				log.Printf("❌ Sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ User Sync Worker stopped")
			return
		}
	}
}

// SyncOnce fetches profiles changed since the last successful sync and adds
// the ones not yet known locally.
func (w *UserSyncWorker) SyncOnce(ctx context.Context) error {
	sinceStr := w.lastSync.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base sync service URL '%s': %w", w.baseURL, err)
	}
	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to sync service failed: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Printf("[SYNC] ❌ Sync service returned %d for %s: %s", resp.StatusCode, finalURL, body)
		return fmt.Errorf("sync service non-200 response: %d", resp.StatusCode)
	}

	var response GetUserChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode sync service response: %w", err)
	}

	var created, skipped, failed int
	latest := w.lastSync
	for _, remote := range response.Users {
		id := strings.TrimSpace(remote.ExternalID)
		username := strings.TrimSpace(remote.Username)
		if id == "" || username == "" {
			skipped++
			continue
		}

		_, isNew, err := w.store.EnsureUser(ctx, models.User{ID: id, Username: username})
		if errors.Is(err, store.ErrUsernameTaken) {
			skipped++
			log.Printf("[SYNC] ⚠️ Skipping user %q: username %q belongs to another user", id, username)
			continue
		}
		if err != nil {
			failed++
			log.Printf("[SYNC] ⚠️ Failed to store user (external_id=%q, username=%q): %v", id, username, err)
			continue
		}
		if isNew {
			created++
			metrics.UsersSynced.Inc()
		}
		if remote.UpdatedAt.After(latest) {
			latest = remote.UpdatedAt
		}
	}

	if failed == 0 {
		w.lastSync = latest
	}
	if len(response.Users) > 0 {
		log.Printf("[SYNC] ✅ Synced %d profile(s): %d new, %d skipped, %d errors", len(response.Users), created, skipped, failed)
	}
	return nil
}
