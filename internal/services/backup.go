package services

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/reviewtracker/backend/internal/config"
	"github.com/reviewtracker/backend/internal/database"
	"github.com/reviewtracker/backend/internal/models"
)

// BackupService writes periodic CSV snapshots of the review table and
// optionally uploads them to an FTP server.
type BackupService struct {
	cfg      *config.Config
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewBackupService creates a new backup service
func NewBackupService(cfg *config.Config) *BackupService {
	return &BackupService{
		cfg:      cfg,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic backup loop. No-op when the interval is not
// configured.
func (s *BackupService) Start() {
	if s.cfg.BackupIntervalHours <= 0 {
		log.Println("BackupService disabled (BACKUP_INTERVAL_HOURS not set)")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Printf("BackupService started (every %dh)", s.cfg.BackupIntervalHours)

		ticker := time.NewTicker(time.Duration(s.cfg.BackupIntervalHours) * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.RunOnce(); err != nil {
					log.Printf("BackupService: backup failed: %v", err)
				}
			case <-s.stopChan:
				log.Println("BackupService stopped")
				return
			}
		}
	}()
}

// Stop stops the backup service
func (s *BackupService) Stop() {
	if s.cfg.BackupIntervalHours <= 0 {
		return
	}
	close(s.stopChan)
	s.wg.Wait()
}

// RunOnce writes one snapshot and uploads it when FTP is configured.
func (s *BackupService) RunOnce() error {
	var reviews []models.Review
	if err := database.DB.Order("created_at asc").Find(&reviews).Error; err != nil {
		return fmt.Errorf("failed to fetch reviews: %v", err)
	}

	data, err := EncodeReviewsCSV(reviews)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %v", err)
	}

	if err := os.MkdirAll(s.cfg.BackupDir, 0o755); err != nil {
		return fmt.Errorf("failed to create backup dir: %v", err)
	}

	filename := fmt.Sprintf("reviews-%s.csv", time.Now().Format("20060102-150405"))
	path := filepath.Join(s.cfg.BackupDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %v", err)
	}
	log.Printf("BackupService: wrote %s (%d reviews)", path, len(reviews))

	if s.cfg.BackupFTPHost != "" {
		if err := s.uploadFTP(filename, data); err != nil {
			return fmt.Errorf("FTP upload failed: %v", err)
		}
		log.Printf("BackupService: uploaded %s to %s", filename, s.cfg.BackupFTPHost)
	}

	return nil
}

func (s *BackupService) uploadFTP(filename string, data []byte) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BackupFTPHost, s.cfg.BackupFTPPort)
	conn, err := ftp.Dial(addr, ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return fmt.Errorf("connection failed: %v", err)
	}
	defer conn.Quit()

	if err := conn.Login(s.cfg.BackupFTPUser, s.cfg.BackupFTPPassword); err != nil {
		return fmt.Errorf("login failed: %v", err)
	}

	if s.cfg.BackupFTPDir != "" && s.cfg.BackupFTPDir != "/" {
		if err := conn.ChangeDir(s.cfg.BackupFTPDir); err != nil {
			conn.MakeDir(s.cfg.BackupFTPDir)
			if err := conn.ChangeDir(s.cfg.BackupFTPDir); err != nil {
				return fmt.Errorf("cannot enter remote dir: %v", err)
			}
		}
	}

	return conn.Stor(filename, bytes.NewReader(data))
}
