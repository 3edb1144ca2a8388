package store

import (
	"context"
	"slices"
)

// Fixed storage keys. Values mirror the browser app so exported snapshots
// stay interchangeable with it.
const (
	KeyUsers         = "starweeb_users"
	KeyPosts         = "starweeb_posts"
	KeyBulletins     = "starweeb_bulletins"
	KeyGroups        = "starweeb_groups"
	KeyForums        = "starweeb_forums"
	KeyPhotos        = "starweeb_photos"
	KeyNotifications = "starweeb_notifications"
	KeySecrets       = "starweeb_secrets"
	KeyQuestions     = "starweeb_questions"
	KeyCrushes       = "starweeb_crushes"
	KeyMatches       = "starweeb_matches"
	KeySession       = "starweeb_current_user"

	// KeyBackup holds a saved snapshot document. It is not itself part of
	// snapshots.
	KeyBackup = "starweeb_backup"
)

var snapshotKeys = []string{
	KeyUsers,
	KeyPosts,
	KeyBulletins,
	KeyGroups,
	KeyForums,
	KeyPhotos,
	KeyNotifications,
	KeySecrets,
	KeyQuestions,
	KeyCrushes,
	KeyMatches,
	KeySession,
}

// SnapshotKeys returns the keys captured by a snapshot, in declaration order.
// The returned slice is a copy.
func SnapshotKeys() []string {
	return slices.Clone(snapshotKeys)
}

// IsSnapshotKey reports whether key belongs to the snapshot key set.
func IsSnapshotKey(key string) bool {
	return slices.Contains(snapshotKeys, key)
}

// Adapter is a generic persistent mapping from string keys to raw values.
//
// Get reports ok=false for a key that was never written. Implementations must
// return values byte-for-byte as they were written.
type Adapter interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Batcher is implemented by adapters that can write several keys atomically.
type Batcher interface {
	SetMany(ctx context.Context, values map[string]string) error
}

// SetAll writes values through SetMany when the adapter supports it, and
// falls back to sequential Set calls otherwise.
func SetAll(ctx context.Context, a Adapter, values map[string]string) error {
	if b, ok := a.(Batcher); ok {
		return b.SetMany(ctx, values)
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		if err := a.Set(ctx, k, values[k]); err != nil {
			return err
		}
	}
	return nil
}
