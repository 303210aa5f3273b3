package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"classroom-economy-system/models"
	"classroom-economy-system/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RosterSyncClient pulls class rosters from the school platform sync service
// into the local student_mirror table. The economy only ever reads the
// mirror — it never writes roster data back.
type RosterSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewRosterSyncClient(db *gorm.DB) *RosterSyncClient {
	baseURL := os.Getenv("SYNC_SERVICE_URL")
	if baseURL == "" {
		log.Fatal("SYNC_SERVICE_URL environment variable is required")
	}
	token := os.Getenv("ECONOMY_SERVICE_TOKEN")
	if token == "" {
		log.Fatal("ECONOMY_SERVICE_TOKEN environment variable is required for roster sync")
	}

	return &RosterSyncClient{
		BaseURL:    baseURL,
		Token:      token,
		DB:         db,
		HTTPClient: utils.HTTPClient,
	}
}

// GetChangedStudents fetches roster rows updated since the given time.
func (c *RosterSyncClient) GetChangedStudents(ctx context.Context, since time.Time) ([]models.StudentMirror, error) {
	since = since.UTC()

	u, err := url.Parse(fmt.Sprintf("%s/api/v1/public/students", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("since", since.Format(time.RFC3339))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call sync service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("sync service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response struct {
		Students []models.StudentMirror `json:"students"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode sync service response: %w", err)
	}

	return response.Students, nil
}

// PollRoster keeps student_mirror fresh until ctx is cancelled.
func PollRoster(ctx context.Context, client *RosterSyncClient, pollInterval time.Duration) {
	log.Println("Starting roster polling (DB-backed)...")
	lastSyncTime := time.Now().UTC().Add(-24 * time.Hour)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Roster polling stopped.")
			return
		case <-ticker.C:
			logTime := time.Now().UTC()

			students, err := client.GetChangedStudents(ctx, lastSyncTime)
			if err != nil {
				log.Printf("❌ Error polling roster: %v", err)
				continue
			}

			count := len(students)
			if count == 0 {
				continue
			}

			now := time.Now().UTC()
			for i := range students {
				students[i].LastSyncedAt = now
			}

			// Bulk upsert keyed on the external student id
			if err := client.DB.Clauses(
				clause.OnConflict{
					Columns: []clause.Column{{Name: "student_id"}},
					DoUpdates: clause.AssignmentColumns([]string{
						"display_name",
						"class_id",
						"is_active",
						"last_synced_at",
						"updated_at",
					}),
				},
			).Create(&students).Error; err != nil {
				log.Printf("❌ Failed to upsert %d student(s) into student_mirror: %v", count, err)
				// Do NOT update lastSyncTime on failure — retry same window next tick
				continue
			}

			lastSyncTime = logTime
			log.Printf("✅ Upserted %d student(s) into student_mirror table.", count)
		}
	}
}

// GetRosterForClass queries the mirror for one class.
func GetRosterForClass(db *gorm.DB, classID string) ([]models.StudentMirror, error) {
	var students []models.StudentMirror
	if err := db.Where("class_id = ? AND is_active = ?", classID, true).
		Order("display_name ASC").
		Find(&students).Error; err != nil {
		return nil, err
	}
	return students, nil
}
