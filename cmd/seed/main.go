package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"referrals/internal/auth"
	"referrals/internal/config"
	"referrals/internal/db"
	apperrors "referrals/internal/errors"
	"referrals/internal/logger"
	"referrals/internal/model"
	"referrals/internal/service"
	"referrals/internal/storage"
)

//go:embed candidates.json
var defaultCandidates []byte

// SeedCandidate is one entry of the seed file.
type SeedCandidate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	JobTitle string `json:"job_title"`
	Status   string `json:"status"`
}

func main() {
	source := flag.String("source", "", "path or http(s) URL of a JSON candidate list (default: built-in sample)")
	email := flag.String("email", "demo@example.com", "email of the referring demo user")
	password := flag.String("password", "demo1234", "password of the referring demo user")
	fullName := flag.String("name", "Demo Referrer", "full name of the referring demo user")
	flag.Parse()

	if err := run(*source, *email, *password, *fullName); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(source, email, password, fullName string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	candidates, err := loadCandidates(ctx, source)
	if err != nil {
		return err
	}
	log.Info("loaded seed candidates", zap.Int("count", len(candidates)))

	stores, err := db.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("database init: %w", err)
	}
	defer stores.Close(context.Background())

	jwtService, err := auth.NewJWTService(cfg.JWTSecret)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(stores.Users, jwtService)
	candidateService := service.NewCandidateService(stores.Candidates, storage.Disabled{}, log)

	referrer, err := ensureReferrer(ctx, authService, email, password, fullName)
	if err != nil {
		return err
	}
	log.Info("using referrer", zap.String("user_id", referrer.ID), zap.String("email", referrer.Email))

	created, skipped, err := seedCandidates(ctx, candidateService, referrer.ID, candidates, log)
	if err != nil {
		return err
	}
	log.Info("seed completed", zap.Int("created", created), zap.Int("skipped", skipped))
	return nil
}

// loadCandidates reads the candidate list from a file, a URL or the
// embedded sample.
func loadCandidates(ctx context.Context, source string) ([]SeedCandidate, error) {
	var data []byte
	var err error

	switch {
	case source == "":
		data = defaultCandidates
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		data, err = fetch(ctx, source)
	default:
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}

	var candidates []SeedCandidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("parse candidates: %w", err)
	}
	return candidates, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ensureReferrer registers the demo user, or signs in when it already exists.
func ensureReferrer(ctx context.Context, svc service.AuthService, email, password, fullName string) (*model.User, error) {
	result, err := svc.Register(ctx, email, password, fullName)
	if errors.Is(err, apperrors.ErrEmailTaken) {
		result, err = svc.Login(ctx, email, password)
	}
	if err != nil {
		return nil, fmt.Errorf("demo referrer: %w", err)
	}
	return result.User, nil
}

// seedCandidates creates each candidate and applies its status. Invalid
// entries and emails the referrer has already referred are logged and
// skipped, so rerunning the seed adds nothing.
func seedCandidates(ctx context.Context, svc service.CandidateService, referrerID string, candidates []SeedCandidate, log *zap.Logger) (created, skipped int, err error) {
	existing, err := svc.ListCandidates(ctx, model.CandidateFilter{})
	if err != nil {
		return 0, 0, fmt.Errorf("list existing candidates: %w", err)
	}
	seen := make(map[string]struct{}, len(existing))
	for _, c := range existing {
		if c.ReferredBy == referrerID {
			seen[strings.ToLower(c.Email)] = struct{}{}
		}
	}

	for _, item := range candidates {
		key := strings.ToLower(strings.TrimSpace(item.Email))
		if _, ok := seen[key]; ok {
			log.Info("candidate already seeded", zap.String("email", item.Email))
			skipped++
			continue
		}
		candidate, err := svc.CreateCandidate(ctx, service.CreateCandidateInput{
			Name:       item.Name,
			Email:      item.Email,
			Phone:      item.Phone,
			JobTitle:   item.JobTitle,
			ReferredBy: referrerID,
		})
		if err != nil {
			log.Warn("skipping candidate", zap.String("email", item.Email), zap.Error(err))
			skipped++
			continue
		}
		created++
		seen[key] = struct{}{}

		if item.Status == "" || item.Status == string(candidate.Status) {
			continue
		}
		if _, err := svc.UpdateStatus(ctx, candidate.ID, item.Status); err != nil {
			log.Warn("status not applied", zap.String("candidate_id", candidate.ID), zap.Error(err))
		}
	}
	return created, skipped, nil
}
