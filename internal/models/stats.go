// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "github.com/google/uuid"

// StatsSnapshot is the dashboard summary computed by the stats engine.
// It is built fresh for every request and never persisted. The JSON field
// names are the public contract with the dashboard client.
type StatsSnapshot struct {
	CategoryCount    int64           `json:"categoryCount"`
	TagCount         int64           `json:"tagCount"`
	ArticleGroupInfo []CategoryGroup `json:"articleGroupInfo"`
	TagGroupInfo     []TagGroup      `json:"tagGroupInfo"`
}

// CategoryRef is the {id, name} pair identifying a category in a snapshot.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CategoryGroup holds the per-category article aggregates.
type CategoryGroup struct {
	ArticleCount   int64       `json:"articleCount"`
	TotalFavorites int64       `json:"totalFavorites"`
	TotalViews     int64       `json:"totalViews"`
	Category       CategoryRef `json:"category"`
}

// TagGroup holds the number of distinct articles carrying a tag.
type TagGroup struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ArticleCount int64     `json:"articleCount"`
}

// EmptySnapshot returns a snapshot with zero counts and non-nil slices,
// so it serializes as [] rather than null.
func EmptySnapshot() *StatsSnapshot {
	return &StatsSnapshot{
		ArticleGroupInfo: []CategoryGroup{},
		TagGroupInfo:     []TagGroup{},
	}
}
