// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package stats computes the dashboard statistics snapshot: category and
// tag counts, per-category article/favorite/view totals, and per-tag
// article counts.
//
// The engine reads the entity store through a Source handed out by a
// Reader for the duration of one consistent read, makes a single pass over
// each relation, and either returns a complete snapshot or an error. It
// never mutates the store and keeps no state between calls.
package stats

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/models"
)

// ArticleRow is the slice of an article the engine needs.
type ArticleRow struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Views      int64
}

// FavoriteTally is the number of favorite rows for one article.
type FavoriteTally struct {
	ArticleID uuid.UUID
	Count     int64
}

// TagLink is one row of the article/tag relation.
type TagLink struct {
	TagID     uuid.UUID
	ArticleID uuid.UUID
}

// Source is the read-only query surface of the entity store. Every method
// is expected to be a single query, not one query per category or tag.
type Source interface {
	Categories(ctx context.Context) ([]models.Category, error)
	Tags(ctx context.Context) ([]models.Tag, error)
	Articles(ctx context.Context) ([]ArticleRow, error)
	FavoriteTallies(ctx context.Context) ([]FavoriteTally, error)
	TagLinks(ctx context.Context) ([]TagLink, error)
}

// Reader scopes a set of Source reads to one consistent view of the store.
// Implementations run fn inside e.g. a read-only transaction and return
// fn's error, or their own if the view cannot be opened or closed.
type Reader interface {
	ReadSnapshot(ctx context.Context, fn func(Source) error) error
}

// Engine produces StatsSnapshots. It is safe for concurrent use.
type Engine struct {
	reader Reader
}

// New returns an Engine reading from r.
func New(r Reader) *Engine {
	return &Engine{reader: r}
}

// Compute builds a fresh snapshot of the current store contents.
// On failure the returned snapshot is nil and the error matches either
// ErrStoreUnavailable or ErrIntegrityViolation.
func (e *Engine) Compute(ctx context.Context) (*models.StatsSnapshot, error) {
	start := time.Now()

	var snap *models.StatsSnapshot
	err := e.reader.ReadSnapshot(ctx, func(src Source) error {
		s, err := aggregate(ctx, src)
		if err != nil {
			return err
		}
		snap = s
		return nil
	})
	if err != nil && !errors.Is(err, ErrStoreUnavailable) && !errors.Is(err, ErrIntegrityViolation) {
		err = unavailable("read snapshot", err)
	}

	elapsed := time.Since(start)
	computeDuration.Observe(elapsed.Seconds())
	computeTotal.WithLabelValues(resultLabel(err)).Inc()

	if err != nil {
		slog.Error("stats compute failed", "error", err, "duration", elapsed.String())
		return nil, err
	}

	slog.Debug("stats computed",
		"categories", snap.CategoryCount,
		"tags", snap.TagCount,
		"duration", elapsed.String(),
	)
	return snap, nil
}

// aggregate reads every relation once and folds it into a snapshot.
func aggregate(ctx context.Context, src Source) (*models.StatsSnapshot, error) {
	categories, err := src.Categories(ctx)
	if err != nil {
		return nil, unavailable("list categories", err)
	}
	tags, err := src.Tags(ctx)
	if err != nil {
		return nil, unavailable("list tags", err)
	}
	articles, err := src.Articles(ctx)
	if err != nil {
		return nil, unavailable("list articles", err)
	}
	tallies, err := src.FavoriteTallies(ctx)
	if err != nil {
		return nil, unavailable("tally favorites", err)
	}
	links, err := src.TagLinks(ctx)
	if err != nil {
		return nil, unavailable("list tag links", err)
	}

	snap := models.EmptySnapshot()

	// category id -> index into ArticleGroupInfo
	groupOf := make(map[uuid.UUID]int, len(categories))
	for _, c := range categories {
		if _, dup := groupOf[c.ID]; dup {
			continue
		}
		groupOf[c.ID] = len(snap.ArticleGroupInfo)
		snap.ArticleGroupInfo = append(snap.ArticleGroupInfo, models.CategoryGroup{Category: c.Ref()})
	}

	// article id -> index of its category group
	articleGroup := make(map[uuid.UUID]int, len(articles))
	for _, a := range articles {
		if a.Views < 0 {
			return nil, &IntegrityError{Kind: "negative view count", ID: a.ID}
		}
		gi, ok := groupOf[a.CategoryID]
		if !ok {
			return nil, &IntegrityError{Kind: "article category", ID: a.ID, Ref: a.CategoryID}
		}
		if _, dup := articleGroup[a.ID]; dup {
			continue
		}
		articleGroup[a.ID] = gi
		g := &snap.ArticleGroupInfo[gi]
		g.ArticleCount++
		g.TotalViews += a.Views
	}

	for _, f := range tallies {
		if f.Count < 0 {
			return nil, &IntegrityError{Kind: "negative favorite count", ID: f.ArticleID}
		}
		gi, ok := articleGroup[f.ArticleID]
		if !ok {
			return nil, &IntegrityError{Kind: "favorites reference missing article", ID: f.ArticleID}
		}
		snap.ArticleGroupInfo[gi].TotalFavorites += f.Count
	}

	tagOf := make(map[uuid.UUID]int, len(tags))
	for _, t := range tags {
		if _, dup := tagOf[t.ID]; dup {
			continue
		}
		tagOf[t.ID] = len(snap.TagGroupInfo)
		snap.TagGroupInfo = append(snap.TagGroupInfo, models.TagGroup{ID: t.ID, Name: t.Name})
	}

	// Links are deduplicated here rather than trusted to be unique.
	seen := make(map[TagLink]struct{}, len(links))
	for _, l := range links {
		ti, ok := tagOf[l.TagID]
		if !ok {
			return nil, &IntegrityError{Kind: "tag link tag", ID: l.ArticleID, Ref: l.TagID}
		}
		if _, ok := articleGroup[l.ArticleID]; !ok {
			return nil, &IntegrityError{Kind: "tag link article", ID: l.TagID, Ref: l.ArticleID}
		}
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		snap.TagGroupInfo[ti].ArticleCount++
	}

	snap.CategoryCount = int64(len(snap.ArticleGroupInfo))
	snap.TagCount = int64(len(snap.TagGroupInfo))

	slices.SortFunc(snap.ArticleGroupInfo, func(a, b models.CategoryGroup) int {
		return compareIDs(a.Category.ID, b.Category.ID)
	})
	slices.SortFunc(snap.TagGroupInfo, func(a, b models.TagGroup) int {
		return compareIDs(a.ID, b.ID)
	})

	return snap, nil
}

func compareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}
