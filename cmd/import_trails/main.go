// cmd/import_trails/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
	"gorm.io/gorm"

	"go_5_real_english/internal/config"
	"go_5_real_english/internal/model"
	"go_5_real_english/internal/repository"
)

// JSON ファイルのトレイル (と任意でショート動画) を取り込みます
//
//	go run ./cmd/import_trails -trails trails.json [-shorts shorts.json]
func main() {
	trailsPath := flag.String("trails", "", "path to a JSON array of trails")
	shortsPath := flag.String("shorts", "", "path to a JSON array of immersion shorts (optional)")
	dryRun := flag.Bool("dry-run", false, "validate only, do not write")
	flag.Parse()

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{TimeFormat: time.RFC3339}))
	slog.SetDefault(logger)

	if *trailsPath == "" && *shortsPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		slog.Error("Error loading configuration", slog.Any("error", err))
		os.Exit(1)
	}

	var trails []*model.Trail
	if *trailsPath != "" {
		if trails, err = readTrails(*trailsPath); err != nil {
			slog.Error("Invalid trails file", slog.String("path", *trailsPath), slog.Any("error", err))
			os.Exit(1)
		}
	}
	var shorts []*model.ImmersionShort
	if *shortsPath != "" {
		if shorts, err = readShorts(*shortsPath); err != nil {
			slog.Error("Invalid shorts file", slog.String("path", *shortsPath), slog.Any("error", err))
			os.Exit(1)
		}
	}
	slog.Info("Input validated", slog.Int("trails", len(trails)), slog.Int("shorts", len(shorts)))
	if *dryRun {
		return
	}

	db, err := repository.NewDB(cfg.Database.URL, logger)
	if err != nil {
		slog.Error("Error initializing database", slog.Any("error", err))
		os.Exit(1)
	}
	sqlDB, err := db.DB()
	if err != nil {
		slog.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	imported, skipped, err := importAll(context.Background(), db,
		repository.NewGormStoryTrailRepository(), repository.NewGormImmersionRepository(), trails, shorts)
	if err != nil {
		slog.Error("Import failed", slog.Any("error", err))
		os.Exit(1)
	}
	slog.Info("Import completed", slog.Int("imported", imported), slog.Int("skipped", skipped))
}

// readTrails は読み込んだトレイルを検証します。ID がなければ振り、order_index が全く無ければ配列の並びを使う
func readTrails(path string) ([]*model.Trail, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var trails []*model.Trail
	if err := json.Unmarshal(raw, &trails); err != nil {
		return nil, err
	}
	for i, t := range trails {
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		explicitOrder := false
		for _, seg := range t.Segments {
			if seg != nil && seg.Base().OrderIndex != 0 {
				explicitOrder = true
			}
		}
		for j, seg := range t.Segments {
			var base *model.SegmentBase
			switch s := seg.(type) {
			case *model.NarrationSegment:
				base = &s.SegmentBase
			case *model.ChallengeSegment:
				base = &s.SegmentBase
				if s.Challenge.ID == uuid.Nil {
					s.Challenge.ID = uuid.New()
				}
			default:
				continue
			}
			if base.ID == uuid.Nil {
				base.ID = uuid.New()
			}
			if !explicitOrder {
				base.OrderIndex = j
			}
		}
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("trail %d (%q): %w", i, t.Title, err)
		}
	}
	return trails, nil
}

func readShorts(path string) ([]*model.ImmersionShort, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var shorts []*model.ImmersionShort
	if err := json.Unmarshal(raw, &shorts); err != nil {
		return nil, err
	}
	for i, s := range shorts {
		if s.YoutubeID == "" || s.Title == "" {
			return nil, fmt.Errorf("short %d: youtube_id and title are required", i)
		}
		if !s.Category.Valid() || s.Category == model.ShortCategoryMix {
			return nil, fmt.Errorf("short %d: invalid category %q", i, s.Category)
		}
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		if s.Difficulty == "" {
			s.Difficulty = model.ShortDifficultyBeginner
		}
	}
	return shorts, nil
}

// importAll は1件ずつ保存します。既存のものはスキップ
func importAll(
	ctx context.Context,
	db *gorm.DB,
	trailRepo repository.StoryTrailRepository,
	immersionRepo repository.ImmersionRepository,
	trails []*model.Trail,
	shorts []*model.ImmersionShort,
) (imported, skipped int, err error) {
	for _, t := range trails {
		if err := trailRepo.Save(ctx, db, t); err != nil {
			if errors.Is(err, model.ErrConflict) {
				slog.Warn("Trail already exists, skipped", slog.String("trail_id", t.ID.String()), slog.String("title", t.Title))
				skipped++
				continue
			}
			return imported, skipped, fmt.Errorf("save trail %q: %w", t.Title, err)
		}
		imported++
	}
	for _, s := range shorts {
		if err := immersionRepo.CreateShort(ctx, db, s); err != nil {
			if errors.Is(err, model.ErrConflict) {
				slog.Warn("Short already exists, skipped", slog.String("youtube_id", s.YoutubeID))
				skipped++
				continue
			}
			return imported, skipped, fmt.Errorf("create short %q: %w", s.YoutubeID, err)
		}
		imported++
	}
	return imported, skipped, nil
}
